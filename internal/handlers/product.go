package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/masterstock/masterstock/internal/httpx"
	"github.com/masterstock/masterstock/internal/models"
	"github.com/masterstock/masterstock/internal/services"
	"github.com/masterstock/masterstock/internal/state"
	"github.com/masterstock/masterstock/internal/validation"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB            *gorm.DB
	Service       *services.ProductService
	Notifications *state.NotificationCenter
}

func NewProductHandler(db *gorm.DB, nc *state.NotificationCenter) *ProductHandler {
	return &ProductHandler{DB: db, Service: services.NewProductService(db), Notifications: nc}
}

// productView carries the derived status next to the stored fields.
type productView struct {
	models.Product
	Status string `json:"status"`
}

func viewOf(p models.Product) productView {
	return productView{Product: p, Status: p.Status()}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Model(&models.Product{})
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where("lower(name) LIKE ? OR lower(category) LIKE ?", like, like)
	}
	var products []models.Product
	if err := dbq.Order("created_at desc, id desc").Find(&products).Error; err != nil {
		log.Printf("products: list failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to list products")
		return
	}
	items := make([]productView, 0, len(products))
	for _, p := range products {
		items = append(items, viewOf(p))
	}
	httpx.OK(w, map[string]any{"items": items, "total": len(items)})
}

type productPayload struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Price    *float64 `json:"price"`
	Stock    *int     `json:"stock"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input productPayload
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	price, stock := 0.0, 0
	if input.Price != nil {
		price = *input.Price
	}
	if input.Stock != nil {
		stock = *input.Stock
	}
	validation.NonNegativeFloat("price", price, v)
	validation.NonNegativeInt("stock", stock, v)
	if !v.Empty() {
		httpx.Fail(w, http.StatusBadRequest, v.Message())
		return
	}
	p := models.Product{Name: input.Name, Category: input.Category, Price: price, Stock: stock}
	if err := h.DB.Create(&p).Error; err != nil {
		log.Printf("products: create failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	httpx.Created(w, viewOf(p))
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.Fail(w, http.StatusBadRequest, "Missing product id")
		return
	}
	var p models.Product
	if err := h.DB.Where("id = ?", id).Take(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Product not found")
			return
		}
		httpx.Fail(w, http.StatusInternalServerError, "Failed to load product")
		return
	}
	var body struct {
		Name     *string  `json:"name"`
		Category *string  `json:"category"`
		Price    *float64 `json:"price"`
		Stock    *int     `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	v := validation.Violations{}
	if body.Name != nil {
		validation.Required("name", *body.Name, v)
		p.Name = *body.Name
	}
	if body.Category != nil {
		p.Category = *body.Category
	}
	if body.Price != nil {
		validation.NonNegativeFloat("price", *body.Price, v)
		p.Price = *body.Price
	}
	if body.Stock != nil {
		validation.NonNegativeInt("stock", *body.Stock, v)
		p.Stock = *body.Stock
	}
	if !v.Empty() {
		httpx.Fail(w, http.StatusBadRequest, v.Message())
		return
	}
	if err := h.DB.Save(&p).Error; err != nil {
		log.Printf("products: update failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	httpx.OK(w, viewOf(p))
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.Fail(w, http.StatusBadRequest, "Missing product id")
		return
	}
	res := h.DB.Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		log.Printf("products: delete failed: %v", res.Error)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if res.RowsAffected == 0 {
		httpx.Fail(w, http.StatusNotFound, "Product not found")
		return
	}
	httpx.OKMessage(w, map[string]any{"deleted": id}, "Product deleted")
}

// BulkCategory assigns one category to a set of products in a single update.
func (h *ProductHandler) BulkCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs      []string `json:"ids"`
		Category string   `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if len(body.IDs) == 0 {
		httpx.Fail(w, http.StatusBadRequest, "No product ids given")
		return
	}
	res := h.DB.Model(&models.Product{}).Where("id IN ?", body.IDs).Update("category", body.Category)
	if res.Error != nil {
		log.Printf("products: bulk category failed: %v", res.Error)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to update categories")
		return
	}
	httpx.OKMessage(w, map[string]any{"updated": res.RowsAffected}, "Categories updated")
}

// Deduplicate runs the duplicate-product reconciliation and reports a
// partial-success summary without aborting on individual failures.
func (h *ProductHandler) Deduplicate(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.RemoveDuplicates()
	if err != nil {
		log.Printf("products: dedup scan failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to scan products for duplicates")
		return
	}
	if h.Notifications != nil && result.Removed > 0 {
		h.Notifications.Add(result.Message)
	}
	httpx.JSON(w, http.StatusOK, httpx.Response{
		Success: result.Success(),
		Data:    result,
		Message: result.Message,
	})
}
