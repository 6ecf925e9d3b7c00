package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/masterstock/masterstock/internal/models"
	"github.com/masterstock/masterstock/internal/state"
	"gorm.io/gorm"
)

func newProductHandler(db *gorm.DB) *ProductHandler {
	return NewProductHandler(db, state.NewNotificationCenter(10))
}

func TestProductCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	h := newProductHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"name":"Pen","category":"Stationery","price":2.5,"stock":5}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	req2 := httptest.NewRequest(http.MethodGet, "/products", nil)
	w2 := httptest.NewRecorder()
	h.List(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w2.Code)
	}
	env := decodeEnvelope(t, w2)
	var payload struct {
		Items []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"items"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Total != 1 || len(payload.Items) != 1 {
		t.Fatalf("expected 1 product got %+v", payload)
	}
	if payload.Items[0].Status != models.StatusLowStock {
		t.Fatalf("stock 5 should derive %q, got %q", models.StatusLowStock, payload.Items[0].Status)
	}
}

func TestProductCreateRejectsNegativeValues(t *testing.T) {
	db := setupTestDB(t)
	h := newProductHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"name":"Pen","price":-1,"stock":3}`))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	var count int64
	db.Model(&models.Product{}).Count(&count)
	if count != 0 {
		t.Fatalf("invalid product was stored")
	}
}

func TestProductListSearch(t *testing.T) {
	db := setupTestDB(t)
	h := newProductHandler(db)
	db.Create(&models.Product{Name: "Blue Pen", Category: "Stationery", Stock: 20})
	db.Create(&models.Product{Name: "Keyboard", Category: "Electronics", Stock: 20})

	req := httptest.NewRequest(http.MethodGet, "/products?q=pen", nil)
	w := httptest.NewRecorder()
	h.List(w, req)
	env := decodeEnvelope(t, w)
	var payload struct {
		Items []models.Product `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Items) != 1 || payload.Items[0].Name != "Blue Pen" {
		t.Fatalf("search mismatch: %+v", payload.Items)
	}
}

func TestProductUpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	h := newProductHandler(db)
	p := models.Product{Name: "Pen", Category: "Stationery", Price: 2, Stock: 5}
	db.Create(&p)

	req := httptest.NewRequest(http.MethodPost, "/products/update?id="+p.ID, strings.NewReader(`{"stock":30}`))
	w := httptest.NewRecorder()
	h.Update(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var stored models.Product
	db.Where("id = ?", p.ID).Take(&stored)
	if stored.Stock != 30 {
		t.Fatalf("stock not updated: %+v", stored)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/products/delete?id="+p.ID, nil)
	w2 := httptest.NewRecorder()
	h.Delete(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w2.Code)
	}
	var count int64
	db.Model(&models.Product{}).Count(&count)
	if count != 0 {
		t.Fatalf("product not deleted")
	}

	req3 := httptest.NewRequest(http.MethodPost, "/products/delete?id="+p.ID, nil)
	w3 := httptest.NewRecorder()
	h.Delete(w3, req3)
	if w3.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing product got %d", w3.Code)
	}
}

func TestProductBulkCategory(t *testing.T) {
	db := setupTestDB(t)
	h := newProductHandler(db)
	a := models.Product{Name: "Pen", Stock: 5}
	b := models.Product{Name: "Book", Stock: 5}
	c := models.Product{Name: "Keyboard", Category: "Electronics", Stock: 5}
	db.Create(&a)
	db.Create(&b)
	db.Create(&c)

	body, _ := json.Marshal(map[string]any{"ids": []string{a.ID, b.ID}, "category": "Stationery"})
	req := httptest.NewRequest(http.MethodPost, "/products/bulk-category", strings.NewReader(string(body)))
	w := httptest.NewRecorder()
	h.BulkCategory(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var count int64
	db.Model(&models.Product{}).Where("category = ?", "Stationery").Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 recategorized got %d", count)
	}
	var untouched models.Product
	db.Where("id = ?", c.ID).Take(&untouched)
	if untouched.Category != "Electronics" {
		t.Fatalf("unrelated product modified: %+v", untouched)
	}
}

func TestProductDeduplicateEndpoint(t *testing.T) {
	db := setupTestDB(t)
	h := newProductHandler(db)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	db.Create(&models.Product{Name: "Pen", Category: "Stationery", Stock: 5, CreatedAt: base})
	db.Create(&models.Product{Name: "Pen", Category: "Stationery", Stock: 3, CreatedAt: base.Add(time.Minute)})
	db.Create(&models.Product{Name: "Book", Category: "Stationery", Stock: 10, CreatedAt: base.Add(2 * time.Minute)})

	req := httptest.NewRequest(http.MethodPost, "/products/deduplicate", nil)
	w := httptest.NewRecorder()
	h.Deduplicate(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if !env.Success || env.Message == "" {
		t.Fatalf("expected success summary: %s", w.Body.String())
	}
	var count int64
	db.Model(&models.Product{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 products after dedup got %d", count)
	}

	// second run reports no duplicates
	w2 := httptest.NewRecorder()
	h.Deduplicate(w2, httptest.NewRequest(http.MethodPost, "/products/deduplicate", nil))
	env2 := decodeEnvelope(t, w2)
	var result struct {
		Removed int `json:"removed"`
	}
	if err := json.Unmarshal(env2.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Removed != 0 {
		t.Fatalf("second run removed %d", result.Removed)
	}
}
