package handler

import (
	"net/http"

	"github.com/usamadar/shopify-publish-channel/internal/worker"
)

// HealthHandler serves the liveness probe endpoint.
type HealthHandler struct {
	snapshot func() worker.Snapshot
}

func NewHealthHandler(snapshot func() worker.Snapshot) *HealthHandler {
	return &HealthHandler{snapshot: snapshot}
}

// Health handles GET /health. The run ID lets a scraper tell consecutive
// invocations apart on the same address.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"run_id": h.snapshot().RunID,
	})
}
