package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/masterstock/masterstock/internal/httpx"
	"github.com/masterstock/masterstock/internal/models"
	"github.com/masterstock/masterstock/internal/validation"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler { return &CategoryHandler{DB: db} }

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	var categories []models.Category
	if err := h.DB.Order("name asc").Find(&categories).Error; err != nil {
		log.Printf("categories: list failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to list categories")
		return
	}
	httpx.OK(w, map[string]any{"items": categories, "total": len(categories)})
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	if !v.Empty() {
		httpx.Fail(w, http.StatusBadRequest, v.Message())
		return
	}
	c := models.Category{Name: strings.TrimSpace(input.Name)}
	if err := h.DB.Create(&c).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") || strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			httpx.Fail(w, http.StatusConflict, "Category already exists")
			return
		}
		log.Printf("categories: create failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to create category")
		return
	}
	httpx.Created(w, c)
}
