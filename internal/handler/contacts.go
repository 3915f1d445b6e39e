package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vantrack/vantrack-api/internal/models"
	"github.com/vantrack/vantrack-api/internal/service"
)

type createContactRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Note  string `json:"note"`
}

type updateContactRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
	Note  *string `json:"note"`
}

// CreateContact creates a contact for the authenticated user
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req createContactRequest
	if !h.decode(w, r, &req) {
		return
	}

	contact, err := h.svc.CreateContact(r.Context(), userID, service.CreateContactInput{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
		Note:  req.Note,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, contact)
}

// ListContacts returns a page of the user's contacts
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	contacts, total, err := h.svc.ListContacts(r.Context(), userID,
		r.URL.Query().Get("search"), queryInt(r, "skip", 0), queryInt(r, "limit", 100))
	if err != nil {
		h.respondError(w, err)
		return
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"contacts": contacts,
		"total":    total,
	})
}

// GetContact returns a single contact
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	contact, err := h.svc.GetContact(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, contact)
}

// UpdateContact applies a partial update to a contact
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req updateContactRequest
	if !h.decode(w, r, &req) {
		return
	}

	contact, err := h.svc.UpdateContact(r.Context(), userID, mux.Vars(r)["id"], service.UpdateContactInput{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
		Note:  req.Note,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, contact)
}

// DeleteContact removes a contact unless transactions reference it
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteContact(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
