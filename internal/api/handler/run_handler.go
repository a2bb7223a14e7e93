package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/usamadar/shopify-publish-channel/internal/repository"
)

// RunHandler exposes the run journal read-only.
type RunHandler struct {
	repo   repository.RunRepository
	logger *zap.Logger
}

func NewRunHandler(repo repository.RunRepository, logger *zap.Logger) *RunHandler {
	return &RunHandler{repo: repo, logger: logger}
}

// List handles GET /api/v1/runs?limit=N
func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := h.repo.ListRuns(r.Context(), limit)
	if err != nil {
		mapError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": runs})
}

// GetByID handles GET /api/v1/runs/{id}
func (h *RunHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	run, err := h.repo.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// Outcomes handles GET /api/v1/runs/{id}/outcomes?failed=true
func (h *RunHandler) Outcomes(w http.ResponseWriter, r *http.Request) {
	failedOnly, _ := strconv.ParseBool(r.URL.Query().Get("failed"))
	outcomes, err := h.repo.ListOutcomes(r.Context(), chi.URLParam(r, "id"), failedOnly)
	if err != nil {
		mapError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": outcomes})
}
