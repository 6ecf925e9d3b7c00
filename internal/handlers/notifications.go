package handlers

import (
	"net/http"

	"github.com/masterstock/masterstock/internal/httpx"
	"github.com/masterstock/masterstock/internal/state"
)

type NotificationHandler struct {
	Center *state.NotificationCenter
}

func NewNotificationHandler(c *state.NotificationCenter) *NotificationHandler {
	return &NotificationHandler{Center: c}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.Center.List()
	httpx.OK(w, map[string]any{"items": items, "total": len(items)})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.Center.MarkAllRead()
	httpx.OKMessage(w, nil, "Notifications marked read")
}
