package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/masterstock/masterstock/internal/httpx"
	"github.com/masterstock/masterstock/internal/models"
	"github.com/masterstock/masterstock/internal/services"
	"github.com/masterstock/masterstock/internal/validation"
	"gorm.io/gorm"
)

type InvoiceHandler struct {
	DB      *gorm.DB
	Service *services.InvoiceService
}

func NewInvoiceHandler(db *gorm.DB, svc *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{DB: db, Service: svc}
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	var invoices []models.Invoice
	if err := h.DB.Order("created_at desc").Find(&invoices).Error; err != nil {
		log.Printf("invoices: list failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to list invoices")
		return
	}
	httpx.OK(w, map[string]any{"items": invoices, "total": len(invoices)})
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.Fail(w, http.StatusBadRequest, "Missing invoice id")
		return
	}
	var inv models.Invoice
	err := h.DB.Preload("Items").Where("id = ?", id).Take(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.Fail(w, http.StatusNotFound, "Invoice not found")
		return
	}
	if err != nil {
		log.Printf("invoices: get failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to load invoice")
		return
	}
	httpx.OK(w, inv)
}

type invoicePayload struct {
	InvoiceNumber string          `json:"invoiceNumber"`
	Date          models.FlexTime `json:"date"`
	PartyID       string          `json:"partyId"`
	PartyName     string          `json:"partyName"`
	Items         []struct {
		ProductID string   `json:"productId"`
		Name      string   `json:"name"`
		Quantity  int      `json:"quantity"`
		Price     *float64 `json:"price"`
	} `json:"items"`
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input invoicePayload
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	v := validation.Violations{}
	validation.Required("invoiceNumber", input.InvoiceNumber, v)
	if input.PartyID == "" {
		validation.Required("partyName", input.PartyName, v)
	}
	if !v.Empty() {
		httpx.Fail(w, http.StatusBadRequest, v.Message())
		return
	}

	inv := models.Invoice{
		InvoiceNumber: input.InvoiceNumber,
		Date:          input.Date,
		PartyID:       input.PartyID,
		PartyName:     input.PartyName,
	}
	for _, it := range input.Items {
		price := 0.0
		if it.Price != nil {
			price = *it.Price
		}
		if price < 0 || it.Quantity < 0 {
			httpx.Fail(w, http.StatusBadRequest, "items: must_not_be_negative")
			return
		}
		inv.Items = append(inv.Items, models.InvoiceItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     price,
		})
	}
	// resolve the display name from the party record when only an id is given
	if inv.PartyName == "" && inv.PartyID != "" {
		var party models.Party
		if err := h.DB.Where("id = ?", inv.PartyID).Take(&party).Error; err == nil {
			inv.PartyName = party.Name
		}
	}
	inv.Total = h.Service.ComputeTotal(&inv)

	if err := h.DB.Create(&inv).Error; err != nil {
		log.Printf("invoices: create failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to create invoice")
		return
	}
	httpx.Created(w, inv)
}

func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.Fail(w, http.StatusBadRequest, "Missing invoice id")
		return
	}
	var inv models.Invoice
	err := h.DB.Preload("Items").Where("id = ?", id).Take(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.Fail(w, http.StatusNotFound, "Invoice not found")
		return
	}
	if err != nil {
		httpx.Fail(w, http.StatusInternalServerError, "Failed to load invoice")
		return
	}
	var body struct {
		InvoiceNumber *string          `json:"invoiceNumber"`
		Date          *models.FlexTime `json:"date"`
		PartyID       *string          `json:"partyId"`
		PartyName     *string          `json:"partyName"`
		Items         *[]struct {
			ProductID string   `json:"productId"`
			Name      string   `json:"name"`
			Quantity  int      `json:"quantity"`
			Price     *float64 `json:"price"`
		} `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if body.InvoiceNumber != nil {
		v := validation.Violations{}
		validation.Required("invoiceNumber", *body.InvoiceNumber, v)
		if !v.Empty() {
			httpx.Fail(w, http.StatusBadRequest, v.Message())
			return
		}
		inv.InvoiceNumber = *body.InvoiceNumber
	}
	if body.Date != nil {
		inv.Date = *body.Date
	}
	if body.PartyID != nil {
		inv.PartyID = *body.PartyID
	}
	if body.PartyName != nil {
		inv.PartyName = *body.PartyName
	}
	// items are replaced wholesale, not patched line by line
	if body.Items != nil {
		items := make([]models.InvoiceItem, 0, len(*body.Items))
		for _, it := range *body.Items {
			price := 0.0
			if it.Price != nil {
				price = *it.Price
			}
			if price < 0 || it.Quantity < 0 {
				httpx.Fail(w, http.StatusBadRequest, "items: must_not_be_negative")
				return
			}
			items = append(items, models.InvoiceItem{
				InvoiceID: inv.ID,
				ProductID: it.ProductID,
				Name:      it.Name,
				Quantity:  it.Quantity,
				Price:     price,
			})
		}
		if err := h.DB.Where("invoice_id = ?", inv.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			log.Printf("invoices: replace items failed: %v", err)
			httpx.Fail(w, http.StatusInternalServerError, "Failed to update invoice")
			return
		}
		if len(items) > 0 {
			if err := h.DB.Create(&items).Error; err != nil {
				log.Printf("invoices: create items failed: %v", err)
				httpx.Fail(w, http.StatusInternalServerError, "Failed to update invoice")
				return
			}
		}
		inv.Items = items
	}
	inv.Total = h.Service.ComputeTotal(&inv)

	if err := h.DB.Omit("Items").Save(&inv).Error; err != nil {
		log.Printf("invoices: update failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to update invoice")
		return
	}
	httpx.OK(w, inv)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.Fail(w, http.StatusBadRequest, "Missing invoice id")
		return
	}
	// independent per-record deletes; no cross-record transaction
	if err := h.DB.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
		log.Printf("invoices: delete items failed: %v", err)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to delete invoice")
		return
	}
	res := h.DB.Where("id = ?", id).Delete(&models.Invoice{})
	if res.Error != nil {
		log.Printf("invoices: delete failed: %v", res.Error)
		httpx.Fail(w, http.StatusInternalServerError, "Failed to delete invoice")
		return
	}
	if res.RowsAffected == 0 {
		httpx.Fail(w, http.StatusNotFound, "Invoice not found")
		return
	}
	httpx.OKMessage(w, map[string]any{"deleted": id}, "Invoice deleted")
}
