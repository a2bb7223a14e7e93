package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/usamadar/shopify-publish-channel/internal/api/handler"
	apimw "github.com/usamadar/shopify-publish-channel/internal/api/middleware"
	"github.com/usamadar/shopify-publish-channel/internal/repository"
	"github.com/usamadar/shopify-publish-channel/internal/worker"
)

// NewRouter wires the chi router, attaches all middleware, and registers
// every route of the side surface served during a run.
func NewRouter(
	snapshot func() worker.Snapshot,
	repo repository.RunRepository,
	reg prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)
	r.Use(apimw.RequestID)
	r.Use(apimw.RequestLogger(logger))

	// --- handler instances ---
	ph := handler.NewProgressHandler(snapshot)
	rh := handler.NewRunHandler(repo, logger)
	hh := handler.NewHealthHandler(snapshot)

	// --- routes ---
	r.Get("/health", hh.Health)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/progress", ph.GetProgress)
		r.Get("/runs", rh.List)
		r.Get("/runs/{id}", rh.GetByID)
		r.Get("/runs/{id}/outcomes", rh.Outcomes)
	})

	return r
}
