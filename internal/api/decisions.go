package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/almastelek/Sourceror/internal/store"
)

// DecisionsHandler exposes the decision log for diagnostics.
type DecisionsHandler struct {
	store store.Store
}

func NewDecisionsHandler(s store.Store) *DecisionsHandler {
	return &DecisionsHandler{store: s}
}

func (h *DecisionsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "decision log not configured"})
		return
	}

	filter := store.DecisionFilter{
		Category: r.URL.Query().Get("category"),
		Limit:    50,
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	decisions, err := h.store.ListDecisions(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if decisions == nil {
		decisions = []*store.Decision{}
	}
	writeJSON(w, http.StatusOK, decisions)
}

func (h *DecisionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "decision log not configured"})
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid decision id"})
		return
	}

	decision, err := h.store.GetDecision(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if decision == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "decision not found"})
		return
	}
	writeJSON(w, http.StatusOK, decision)
}
