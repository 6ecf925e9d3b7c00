package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/masterstock/masterstock/internal/httpx"
	"github.com/masterstock/masterstock/internal/models"
	"github.com/masterstock/masterstock/internal/services"
	"github.com/masterstock/masterstock/internal/state"
)

type CompanyHandler struct {
	Service       *services.CompanyService
	Notifications *state.NotificationCenter
}

func NewCompanyHandler(s *services.CompanyService, nc *state.NotificationCenter) *CompanyHandler {
	return &CompanyHandler{Service: s, Notifications: nc}
}

// companyPayload mirrors CompanyProfile with a pointer plan so a missing
// "plan" key is distinguishable from an empty one.
type companyPayload struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	ShortName   string          `json:"shortName,omitempty"`
	Logo        string          `json:"logo,omitempty"`
	Tagline     string          `json:"tagline,omitempty"`
	Description string          `json:"description,omitempty"`
	Plan        *models.Plan    `json:"plan"`
	Contact     *models.Contact `json:"contact,omitempty"`
}

func setNoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
}

// Get resolves the current profile: existing record, freshly persisted
// default, or in-memory fallback. A transient write failure never turns this
// endpoint into an error; only a failed lookup does, and even then the
// response embeds a fallback payload the client can render.
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	setNoCache(w)

	if id := r.URL.Query().Get("id"); id != "" {
		profile, err := h.Service.FetchByID(id)
		if errors.Is(err, services.ErrProfileNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Company information not found")
			return
		}
		if err != nil {
			log.Printf("company: fetch by id: %v", err)
			httpx.Fail(w, http.StatusInternalServerError, "Failed to fetch company information")
			return
		}
		httpx.OK(w, profile)
		return
	}

	profile, err := h.Service.EnsureDefault()
	if err != nil {
		if profile != nil {
			// default could not be persisted; serve the in-memory copy
			log.Printf("company: default profile not persisted: %v", err)
			httpx.OK(w, profile)
			return
		}
		log.Printf("company: lookup failed: %v", err)
		httpx.JSON(w, http.StatusInternalServerError, httpx.Response{
			Success:      false,
			Error:        "Failed to fetch company information",
			FallbackData: services.DefaultProfile(),
		})
		return
	}
	httpx.OK(w, profile)
}

// Post validates and persists a submitted profile. On a storage failure the
// submitted payload is echoed back so the client can retry without
// re-entering data.
func (h *CompanyHandler) Post(w http.ResponseWriter, r *http.Request) {
	var payload companyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if payload.Name == "" || payload.Plan == nil {
		httpx.Fail(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	profile := models.CompanyProfile{
		ID:          payload.ID,
		Name:        payload.Name,
		ShortName:   payload.ShortName,
		Logo:        payload.Logo,
		Tagline:     payload.Tagline,
		Description: payload.Description,
		Plan:        *payload.Plan,
	}
	if payload.Contact != nil {
		profile.Contact = *payload.Contact
	}

	if err := h.Service.Save(&profile); err != nil {
		log.Printf("company: save failed: %v", err)
		httpx.JSON(w, http.StatusInternalServerError, httpx.Response{
			Success:      false,
			Error:        "Failed to save company information",
			OriginalData: payload,
		})
		return
	}
	if h.Notifications != nil {
		h.Notifications.Add("Company information updated: " + profile.Name)
	}
	httpx.JSON(w, http.StatusOK, httpx.Response{
		Success: true,
		Data:    profile,
		Message: "Company information saved successfully",
	})
}
