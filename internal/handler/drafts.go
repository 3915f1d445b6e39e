package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/vantrack/vantrack-api/internal/models"
	"github.com/vantrack/vantrack-api/internal/service"
)

type createDraftRequest struct {
	MessageID           *string         `json:"message_id"`
	Date                *time.Time      `json:"date"`
	DueDate             *time.Time      `json:"due_date"`
	Amount              decimal.Decimal `json:"amount"`
	Description         string          `json:"description"`
	Category            string          `json:"category"`
	Type                string          `json:"type"`
	Account             string          `json:"account"`
	ContactName         string          `json:"contact_name"`
	ContactID           *string         `json:"contact_id"`
	LinkedTransactionID *string         `json:"linked_transaction_id"`
}

type updateDraftRequest struct {
	Date        *time.Time       `json:"date"`
	DueDate     *time.Time       `json:"due_date"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Type        *string          `json:"type"`
	Account     *string          `json:"account"`
	ContactName *string          `json:"contact_name"`
}

func (r createDraftRequest) toInput() service.CreateDraftInput {
	return service.CreateDraftInput{
		MessageID:           r.MessageID,
		Date:                r.Date,
		DueDate:             r.DueDate,
		Amount:              r.Amount,
		Description:         r.Description,
		Category:            r.Category,
		Type:                models.TransactionType(r.Type),
		Account:             models.AccountType(r.Account),
		ContactName:         r.ContactName,
		ContactID:           r.ContactID,
		LinkedTransactionID: r.LinkedTransactionID,
	}
}

// CreateDraft stores a pending transaction candidate
func (h *Handler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req createDraftRequest
	if !h.decode(w, r, &req) {
		return
	}

	draft, err := h.svc.CreateDraft(r.Context(), userID, req.toInput())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, draft)
}

// CreateDraftsBatch stores several drafts in one call
func (h *Handler) CreateDraftsBatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var reqs []createDraftRequest
	if !h.decode(w, r, &reqs) {
		return
	}

	inputs := make([]service.CreateDraftInput, 0, len(reqs))
	for _, req := range reqs {
		inputs = append(inputs, req.toInput())
	}
	drafts, err := h.svc.CreateDraftsBatch(r.Context(), userID, inputs)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]any{"drafts": drafts})
}

// ListDrafts returns a page of drafts filtered by status
func (h *Handler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	status := models.DraftStatus(r.URL.Query().Get("status"))
	drafts, total, err := h.svc.ListDrafts(r.Context(), userID, status,
		queryInt(r, "skip", 0), queryInt(r, "limit", 100))
	if err != nil {
		h.respondError(w, err)
		return
	}
	if drafts == nil {
		drafts = []models.Draft{}
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"drafts": drafts,
		"total":  total,
	})
}

// GetDraft returns a single draft
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	draft, err := h.svc.GetDraft(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, draft)
}

// UpdateDraft applies a partial update to a draft
func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req updateDraftRequest
	if !h.decode(w, r, &req) {
		return
	}

	input := service.UpdateDraftInput{
		Date:        req.Date,
		DueDate:     req.DueDate,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		ContactName: req.ContactName,
	}
	if req.Type != nil {
		t := models.TransactionType(*req.Type)
		input.Type = &t
	}
	if req.Account != nil {
		a := models.AccountType(*req.Account)
		input.Account = &a
	}

	draft, err := h.svc.UpdateDraft(r.Context(), userID, mux.Vars(r)["id"], input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, draft)
}

// DeleteDraft removes a draft
func (h *Handler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteDraft(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ConfirmDraft turns a pending draft into a real transaction
func (h *Handler) ConfirmDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	transaction, err := h.svc.ConfirmDraft(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, transaction)
}

// DiscardDraft marks a pending draft discarded
func (h *Handler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	draft, err := h.svc.DiscardDraft(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, draft)
}
