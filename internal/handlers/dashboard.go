package handlers

import (
	"log"
	"net/http"

	"github.com/masterstock/masterstock/internal/httpx"
	"github.com/masterstock/masterstock/internal/models"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler { return &DashboardHandler{DB: db} }

// Stats aggregates the dashboard headline numbers client pages used to
// compute themselves: entity counts, total revenue and the five most recent
// invoices.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var invoiceCount, productCount, partyCount int64
	if err := h.DB.Model(&models.Invoice{}).Count(&invoiceCount).Error; err != nil {
		log.Printf("dashboard: count invoices: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to load dashboard stats")
		return
	}
	h.DB.Model(&models.Product{}).Count(&productCount)
	h.DB.Model(&models.Party{}).Count(&partyCount)

	var totalRevenue float64
	h.DB.Model(&models.Invoice{}).Select("COALESCE(SUM(total), 0)").Scan(&totalRevenue)

	var recentInvoices []models.Invoice
	h.DB.Order("created_at desc").Limit(5).Find(&recentInvoices)

	httpx.OK(w, map[string]any{
		"totalInvoices":  invoiceCount,
		"totalProducts":  productCount,
		"totalParties":   partyCount,
		"totalRevenue":   totalRevenue,
		"recentInvoices": recentInvoices,
	})
}

// InventorySummary reports total stock value, the low-stock list (ascending
// by stock) and the normal/low/critical bucket percentages.
func (h *DashboardHandler) InventorySummary(w http.ResponseWriter, r *http.Request) {
	var products []models.Product
	if err := h.DB.Order("stock asc").Find(&products).Error; err != nil {
		log.Printf("inventory: list failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to load inventory summary")
		return
	}

	var totalValue float64
	var critical, low int
	lowStock := make([]productView, 0)
	for _, p := range products {
		totalValue += p.Price * float64(p.Stock)
		switch {
		case p.Stock <= models.CriticalStockThreshold:
			critical++
		case p.Stock <= models.LowStockThreshold:
			low++
		}
		if p.Stock <= models.LowStockThreshold {
			lowStock = append(lowStock, viewOf(p))
		}
	}
	normalPct, lowPct, criticalPct := 0, 0, 0
	if n := len(products); n > 0 {
		criticalPct = critical * 100 / n
		lowPct = low * 100 / n
		normalPct = 100 - criticalPct - lowPct
	}

	httpx.OK(w, map[string]any{
		"totalProducts":   len(products),
		"totalStockValue": totalValue,
		"lowStock":        lowStock,
		"stockStatus": map[string]int{
			"normal":   normalPct,
			"low":      lowPct,
			"critical": criticalPct,
		},
	})
}
