package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/vantrack/vantrack-api/internal/models"
	"github.com/vantrack/vantrack-api/internal/service"
)

type createBudgetRequest struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	Period         string          `json:"period"`
	AlertAtPercent float64         `json:"alert_at_percent"`
}

type updateBudgetRequest struct {
	Name           *string          `json:"name"`
	Category       *string          `json:"category"`
	Amount         *decimal.Decimal `json:"amount"`
	Period         *string          `json:"period"`
	AlertAtPercent *float64         `json:"alert_at_percent"`
	IsActive       *bool            `json:"is_active"`
}

// CreateBudget creates a budget for the authenticated user
func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req createBudgetRequest
	if !h.decode(w, r, &req) {
		return
	}

	budget, err := h.svc.CreateBudget(r.Context(), userID, service.CreateBudgetInput{
		Name:           req.Name,
		Type:           models.BudgetType(req.Type),
		Category:       req.Category,
		Amount:         req.Amount,
		Period:         models.BudgetPeriod(req.Period),
		AlertAtPercent: req.AlertAtPercent,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, budget)
}

// ListBudgets returns the user's budgets with current-period progress
func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	budgets, err := h.svc.ListBudgets(r.Context(), userID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if budgets == nil {
		budgets = []models.BudgetProgress{}
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"budgets": budgets})
}

// GetBudget returns a budget with its current-period progress
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	budget, err := h.svc.GetBudget(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, budget)
}

// UpdateBudget applies a partial update to a budget
func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req updateBudgetRequest
	if !h.decode(w, r, &req) {
		return
	}

	input := service.UpdateBudgetInput{
		Name:           req.Name,
		Category:       req.Category,
		Amount:         req.Amount,
		AlertAtPercent: req.AlertAtPercent,
		IsActive:       req.IsActive,
	}
	if req.Period != nil {
		p := models.BudgetPeriod(*req.Period)
		input.Period = &p
	}

	budget, err := h.svc.UpdateBudget(r.Context(), userID, mux.Vars(r)["id"], input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, budget)
}

// DeleteBudget removes a budget
func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteBudget(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
