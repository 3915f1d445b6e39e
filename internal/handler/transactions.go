package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/vantrack/vantrack-api/internal/models"
	"github.com/vantrack/vantrack-api/internal/service"
)

type createTransactionRequest struct {
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

type updateTransactionRequest struct {
	Date        *time.Time       `json:"date"`
	DueDate     *time.Time       `json:"due_date"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Account     *string          `json:"account"`
}

// CreateTransaction records a new transaction for the authenticated user
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req createTransactionRequest
	if !h.decode(w, r, &req) {
		return
	}

	t, err := h.svc.CreateTransaction(r.Context(), userID, service.CreateTransactionInput{
		Date:                req.Date,
		DueDate:             req.DueDate,
		Amount:              req.Amount,
		Description:         req.Description,
		Category:            req.Category,
		Type:                models.TransactionType(req.Type),
		Account:             models.AccountType(req.Account),
		ContactName:         req.ContactName,
		ContactID:           req.ContactID,
		LinkedTransactionID: req.LinkedTransactionID,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, t)
}

// ListTransactions returns a page of the user's transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	transactions, total, err := h.svc.ListTransactions(r.Context(), userID,
		r.URL.Query().Get("type"), queryInt(r, "skip", 0), queryInt(r, "limit", 100))
	if err != nil {
		h.respondError(w, err)
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"transactions": transactions,
		"total":        total,
	})
}

// GetTransaction returns a single transaction
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	t, err := h.svc.GetTransaction(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, t)
}

// UpdateTransaction applies a partial update to a transaction
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req updateTransactionRequest
	if !h.decode(w, r, &req) {
		return
	}

	input := service.UpdateTransactionInput{
		Date:        req.Date,
		DueDate:     req.DueDate,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
	}
	if req.Account != nil {
		account := models.AccountType(*req.Account)
		input.Account = &account
	}

	t, err := h.svc.UpdateTransaction(r.Context(), userID, mux.Vars(r)["id"], input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, t)
}

// DeleteTransaction removes a transaction
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteTransaction(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBalances returns the per-contact net balances
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	includeSettled := r.URL.Query().Get("include_settled") == "true"
	balances, err := h.svc.ComputeBalances(r.Context(), userID, includeSettled)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, balances)
}

// GetOpenDebts lists debt transactions of contacts with a non-zero net balance
func (h *Handler) GetOpenDebts(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	debts, err := h.svc.ListOpenDebts(r.Context(), userID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if debts == nil {
		debts = []models.Transaction{}
	}
	h.respondJSON(w, http.StatusOK, debts)
}

// GetAccountSummary returns the liquidity and debt bucket totals
func (h *Handler) GetAccountSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	summary, err := h.svc.AccountSummary(r.Context(), userID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, summary)
}

// GetDebtPayments lists the payments applied to a specific debt
func (h *Handler) GetDebtPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	payments, err := h.svc.ListDebtPayments(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	if payments == nil {
		payments = []models.Transaction{}
	}
	h.respondJSON(w, http.StatusOK, payments)
}
