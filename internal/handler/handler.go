package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/vantrack/vantrack-api/internal/apperr"
	"github.com/vantrack/vantrack-api/internal/middleware"
	"github.com/vantrack/vantrack-api/internal/service"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

// NewHandler creates a new Handler
func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			h.log.Errorf("Failed to encode response: %v", err)
		}
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	if status >= http.StatusInternalServerError {
		h.log.Errorf("Request failed: %v", err)
	}
	h.respondJSON(w, status, map[string]any{
		"error": map[string]string{
			"kind":    string(kind),
			"message": apperr.MessageOf(err),
		},
	})
}

// currentUser extracts the authenticated user id placed in the context by the
// auth middleware. Handlers pass it explicitly to the service layer.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		h.respondError(w, apperr.New(apperr.KindUnauthenticated, "missing or invalid bearer token"))
		return "", false
	}
	return userID, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.respondError(w, apperr.New(apperr.KindInvalidArgument, "invalid request body"))
		return false
	}
	return true
}

func queryInt(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return n
}
