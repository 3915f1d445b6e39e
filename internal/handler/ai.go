package handler

import (
	"net/http"

	"github.com/vantrack/vantrack-api/internal/integrations/gemini"
)

type parseRequest struct {
	Text         string   `json:"text"`
	History      []string `json:"history"`
	OpenDebts    []string `json:"open_debts"`
	CurrencyCode string   `json:"currency_code"`
	LanguageCode string   `json:"language_code"`
}

// ParseInput forwards free text to the AI provider and relays its structured result
func (h *Handler) ParseInput(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req parseRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.svc.ParseInput(r.Context(), userID, gemini.ParseRequest{
		InputText:    req.Text,
		History:      req.History,
		OpenDebts:    req.OpenDebts,
		CurrencyCode: req.CurrencyCode,
		LanguageCode: req.LanguageCode,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// WeeklyInsights returns an AI-written summary of the user's recent activity
func (h *Handler) WeeklyInsights(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	summary, err := h.svc.WeeklyInsights(r.Context(), userID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"summary": summary})
}
