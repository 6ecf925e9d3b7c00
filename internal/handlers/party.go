package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/masterstock/masterstock/internal/httpx"
	"github.com/masterstock/masterstock/internal/models"
	"github.com/masterstock/masterstock/internal/validation"
	"gorm.io/gorm"
)

type PartyHandler struct {
	DB *gorm.DB
}

func NewPartyHandler(db *gorm.DB) *PartyHandler { return &PartyHandler{DB: db} }

func (h *PartyHandler) List(w http.ResponseWriter, r *http.Request) {
	var parties []models.Party
	if err := h.DB.Order("name asc").Find(&parties).Error; err != nil {
		log.Printf("parties: list failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to list parties")
		return
	}
	httpx.OK(w, map[string]any{"items": parties, "total": len(parties)})
}

type partyPayload struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func (h *PartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input partyPayload
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
	p := models.Party{Name: input.Name, Phone: input.Phone, Email: input.Email, Address: input.Address}
	if err := h.DB.Create(&p).Error; err != nil {
		log.Printf("parties: create failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to create party")
		return
	}
	httpx.Created(w, p)
}

func (h *PartyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.Fail(w, http.StatusBadRequest, "Missing party id")
		return
	}
	var p models.Party
	if err := h.DB.Where("id = ?", id).Take(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Party not found")
			return
		}
		httpx.Fail(w, http.StatusInternalServerError, "Failed to load party")
		return
	}
	var body struct {
		Name    *string `json:"name"`
		Phone   *string `json:"phone"`
		Email   *string `json:"email"`
		Address *string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if body.Name != nil {
		v := validation.Violations{}
		validation.Required("name", *body.Name, v)
		if !v.Empty() {
			httpx.Fail(w, http.StatusBadRequest, v.Message())
			return
		}
		p.Name = *body.Name
	}
	if body.Phone != nil {
		p.Phone = *body.Phone
	}
	if body.Email != nil {
		p.Email = *body.Email
	}
	if body.Address != nil {
		p.Address = *body.Address
	}
	if err := h.DB.Save(&p).Error; err != nil {
		log.Printf("parties: update failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to update party")
		return
	}
	httpx.OK(w, p)
}

func (h *PartyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.Fail(w, http.StatusBadRequest, "Missing party id")
		return
	}
	res := h.DB.Where("id = ?", id).Delete(&models.Party{})
	if res.Error != nil {
		log.Printf("parties: delete failed: %v", res.Error)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to delete party")
		return
	}
	if res.RowsAffected == 0 {
		httpx.Fail(w, http.StatusNotFound, "Party not found")
		return
	}
	httpx.OKMessage(w, map[string]any{"deleted": id}, "Party deleted")
}
