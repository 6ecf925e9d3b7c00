package handlers

import (
	"net/http"

	"github.com/masterstock/masterstock/internal/httpx"
	"github.com/masterstock/masterstock/internal/middleware"
)

// PrefsHandler echoes the request-scoped preferences resolved by the
// middleware chain so clients can read back what the server sees.
type PrefsHandler struct{}

func NewPrefsHandler() *PrefsHandler { return &PrefsHandler{} }

func (h *PrefsHandler) Get(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, map[string]string{"theme": middleware.ThemeFrom(r)})
}
