package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	apimw "github.com/usamadar/shopify-publish-channel/internal/api/middleware"
	"github.com/usamadar/shopify-publish-channel/internal/domain"
)

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	respondJSON(w, status, errorBody{Error: msg, RequestID: apimw.GetRequestID(r.Context())})
}

// mapError translates journal errors to HTTP status codes. Anything other
// than a missing run is logged and hidden behind a 500.
func mapError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, "run not found")
		return
	}
	logger.Error("journal read failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", apimw.GetRequestID(r.Context())),
		zap.Error(err),
	)
	respondError(w, r, http.StatusInternalServerError, "internal server error")
}
