package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/masterstock/masterstock/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestServer(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	for _, m := range []interface{}{
		&models.CompanyProfile{}, &models.Category{}, &models.Product{},
		&models.Party{}, &models.Invoice{}, &models.InvoiceItem{},
	} {
		if err := conn.AutoMigrate(m); err != nil {
			t.Fatalf("migrate %T: %v", m, err)
		}
	}
	return New(conn), conn
}

func TestHealthEndpoints(t *testing.T) {
	h, _ := newTestServer(t)
	for _, path := range []string{"/health", "/healthz"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200 got %d", path, w.Code)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := newTestServer(t)
	tests := []struct {
		method, path string
	}{
		{http.MethodDelete, "/company"},
		{http.MethodPut, "/products"},
		{http.MethodGet, "/products/delete"},
		{http.MethodGet, "/parties/update"},
		{http.MethodGet, "/invoices/delete"},
	}
	for _, tc := range tests {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected 405 got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestCompanyFlowThroughRouter(t *testing.T) {
	h, _ := newTestServer(t)

	body := `{"name":"Flow Corp","plan":{"name":"Basic","maxUsers":5,"currentUsers":1,"isActive":true}}`
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/company", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("save: expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/company", nil))
	if w2.Code != http.StatusOK {
		t.Fatalf("get: expected 200 got %d", w2.Code)
	}
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var profile models.CompanyProfile
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Name != "Flow Corp" {
		t.Fatalf("expected saved profile back, got %+v", profile)
	}
}

func TestProductDeduplicateThroughRouter(t *testing.T) {
	h, conn := newTestServer(t)
	conn.Create(&models.Product{Name: "Pen", Category: "Stationery", Price: 2, Stock: 5})
	conn.Create(&models.Product{Name: "Pen", Category: "Stationery", Price: 3, Stock: 7})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/products/deduplicate", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var count int64
	conn.Model(&models.Product{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 product after dedup got %d", count)
	}

	// the run should have left a notification behind
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/notifications", nil))
	if w2.Code != http.StatusOK {
		t.Fatalf("notifications: expected 200 got %d", w2.Code)
	}
	if !strings.Contains(w2.Body.String(), "duplicate") {
		t.Fatalf("expected a dedup notification, body=%s", w2.Body.String())
	}
}

func TestAuthVerifyThroughRouter(t *testing.T) {
	h, _ := newTestServer(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/verify", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var body map[string]bool
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["authenticated"] {
		t.Fatal("expected unauthenticated without a session cookie")
	}
}

func TestPrefsEchoThroughRouter(t *testing.T) {
	h, _ := newTestServer(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/prefs", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var env struct {
		Data struct {
			Theme string `json:"theme"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Theme != "system" {
		t.Fatalf("expected default theme system, got %q", env.Data.Theme)
	}

	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/prefs?theme=dark", nil))
	if err := json.Unmarshal(w2.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Theme != "dark" {
		t.Fatalf("expected dark from query, got %q", env.Data.Theme)
	}
	cookies := w2.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "theme" || cookies[0].Value != "dark" {
		t.Fatalf("expected persisted theme cookie, got %v", cookies)
	}
}

func TestInvoiceUpdateThroughRouter(t *testing.T) {
	h, conn := newTestServer(t)
	inv := models.Invoice{
		InvoiceNumber: "INV-020",
		PartyName:     "Acme",
		Items:         []models.InvoiceItem{{Name: "Pen", Quantity: 1, Price: 4}},
		Total:         4,
	}
	conn.Create(&inv)

	body := `{"items":[{"name":"Book","quantity":2,"price":6}]}`
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/invoices/update?id="+inv.ID, strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var stored models.Invoice
	conn.Preload("Items").Where("id = ?", inv.ID).Take(&stored)
	if stored.Total != 12 || len(stored.Items) != 1 || stored.Items[0].Name != "Book" {
		t.Fatalf("update not applied through router: %+v", stored)
	}
}

func TestUnknownRoute(t *testing.T) {
	h, _ := newTestServer(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}
