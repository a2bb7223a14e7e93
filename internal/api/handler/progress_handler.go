package handler

import (
	"net/http"

	"github.com/usamadar/shopify-publish-channel/internal/worker"
)

// ProgressHandler serves a JSON snapshot of the running sync.
// Raw Prometheus metrics are available at /metrics via promhttp.
type ProgressHandler struct {
	snapshot func() worker.Snapshot
}

func NewProgressHandler(snapshot func() worker.Snapshot) *ProgressHandler {
	return &ProgressHandler{snapshot: snapshot}
}

// GetProgress handles GET /api/v1/progress
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.snapshot())
}
