package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vantrack/vantrack-api/internal/models"
)

type createMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CreateMessage appends a message to the user's chat log
func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req createMessageRequest
	if !h.decode(w, r, &req) {
		return
	}

	message, err := h.svc.CreateMessage(r.Context(), userID, models.MessageRole(req.Role), req.Content)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, message)
}

// ListMessages returns a page of the user's messages in chronological order
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	messages, total, err := h.svc.ListMessages(r.Context(), userID,
		queryInt(r, "skip", 0), queryInt(r, "limit", 100))
	if err != nil {
		h.respondError(w, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"messages": messages,
		"total":    total,
	})
}

// DeleteMessage removes a single message
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteMessage(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearMessages wipes the user's entire message log
func (h *Handler) ClearMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.svc.ClearMessages(r.Context(), userID); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
