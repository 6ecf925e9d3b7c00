package server

import (
	"log"
	"net/http"
	"time"

	"github.com/masterstock/masterstock/internal/auth"
	"github.com/masterstock/masterstock/internal/handlers"
	"github.com/masterstock/masterstock/internal/httpx"
	"github.com/masterstock/masterstock/internal/middleware"
	"github.com/masterstock/masterstock/internal/services"
	"github.com/masterstock/masterstock/internal/state"
	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()
	notifications := state.NewNotificationCenter(50)

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints
	authHandler := auth.NewHandlerFromEnv()
	mux.HandleFunc("/auth/login", authHandler.Login)
	mux.HandleFunc("/auth/logout", authHandler.Logout)
	mux.HandleFunc("/auth/verify", authHandler.Verify)

	// Company profile endpoints
	ch := handlers.NewCompanyHandler(services.NewCompanyService(db), notifications)
	mux.HandleFunc("/company", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ch.Get(w, r)
		case http.MethodPost:
			ch.Post(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed")
		}
	})

	// Product endpoints. List/Create via /products; update/delete/bulk ops via
	// dedicated paths for simplicity.
	ph := handlers.NewProductHandler(db, notifications)
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ph.List(w, r)
		case http.MethodPost:
			ph.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed")
		}
	})
	mux.HandleFunc("/products/update", requirePost(ph.Update))
	mux.HandleFunc("/products/delete", requirePost(ph.Delete))
	mux.HandleFunc("/products/bulk-category", requirePost(ph.BulkCategory))
	mux.HandleFunc("/products/deduplicate", requirePost(ph.Deduplicate))

	// Category endpoints
	cath := handlers.NewCategoryHandler(db)
	mux.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cath.List(w, r)
		case http.MethodPost:
			cath.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed")
		}
	})

	// Party endpoints
	pah := handlers.NewPartyHandler(db)
	mux.HandleFunc("/parties", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			pah.List(w, r)
		case http.MethodPost:
			pah.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed")
		}
	})
	mux.HandleFunc("/parties/update", requirePost(pah.Update))
	mux.HandleFunc("/parties/delete", requirePost(pah.Delete))

	// Invoice endpoints
	ih := handlers.NewInvoiceHandler(db, services.NewInvoiceService())
	mux.HandleFunc("/invoices", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ih.List(w, r)
		case http.MethodPost:
			ih.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed")
		}
	})
	mux.HandleFunc("/invoices/get", ih.Get)
	mux.HandleFunc("/invoices/update", requirePost(ih.Update))
	mux.HandleFunc("/invoices/delete", requirePost(ih.Delete))

	// Dashboard aggregation
	dh := handlers.NewDashboardHandler(db)
	mux.HandleFunc("/dashboard/stats", dh.Stats)
	mux.HandleFunc("/inventory/summary", dh.InventorySummary)

	// Notifications
	nh := handlers.NewNotificationHandler(notifications)
	mux.HandleFunc("/notifications", nh.List)
	mux.HandleFunc("/notifications/read", requirePost(nh.MarkRead))

	// Request preferences
	mux.HandleFunc("/prefs", handlers.NewPrefsHandler().Get)

	return middleware.Prefs(auth.Middleware(withRecover(withLogging(mux))))
}

func requirePost(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			httpx.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed")
			return
		}
		h(w, r)
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				httpx.Fail(w, http.StatusInternalServerError, "internal_error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
