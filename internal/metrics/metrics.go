package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/usamadar/shopify-publish-channel/internal/domain"
	"github.com/usamadar/shopify-publish-channel/internal/ratelimiter"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	PagesFetched       prometheus.Counter
	ProductsDiscovered prometheus.Counter
	ProductsPublished  prometheus.Counter
	ProductsFailed     *prometheus.CounterVec
	PublishLatency     prometheus.Histogram
	GraphQLRequests    *prometheus.CounterVec
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "publish_sync_pages_fetched_total",
			Help: "Total number of product pages fetched during discovery.",
		}),
		ProductsDiscovered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "publish_sync_products_discovered_total",
			Help: "Total number of products found live on the source but missing from a destination.",
		}),
		ProductsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "publish_sync_products_published_total",
			Help: "Total number of products successfully published to the destinations.",
		}),
		ProductsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "publish_sync_products_failed_total",
			Help: "Total number of products whose publish mutation failed.",
		}, []string{"reason"}),
		PublishLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "publish_sync_publish_seconds",
			Help:    "Latency of one publish mutation, including rate limiter wait.",
			Buckets: prometheus.DefBuckets,
		}),
		GraphQLRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "publish_sync_graphql_requests_total",
			Help: "Admin API GraphQL requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}

	reg.MustRegister(
		m.PagesFetched,
		m.ProductsDiscovered,
		m.ProductsPublished,
		m.ProductsFailed,
		m.PublishLatency,
		m.GraphQLRequests,
	)

	return m
}

// Reason classifies an error for the failed-products label.
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, domain.ErrUserErrors):
		return "user_errors"
	case errors.Is(err, domain.ErrGraphQL):
		return "graphql"
	case errors.Is(err, domain.ErrTransport):
		return "transport"
	default:
		return "other"
	}
}

// RequestHook returns the callback expected by shopify.ClientConfig.OnRequest.
func (m *Metrics) RequestHook() func(ratelimiter.Operation, error) {
	return func(op ratelimiter.Operation, err error) {
		outcome := "ok"
		if err != nil {
			outcome = Reason(err)
		}
		m.GraphQLRequests.WithLabelValues(string(op), outcome).Inc()
	}
}

// DiscoveryHooks returns the callbacks expected by discovery.Hooks.
func (m *Metrics) DiscoveryHooks() (onPage func(int), onDiscovered func(int)) {
	onPage = func(int) { m.PagesFetched.Inc() }
	onDiscovered = func(n int) { m.ProductsDiscovered.Add(float64(n)) }
	return
}

// WorkerHooks returns the metric callback functions expected by worker.Hooks.
func (m *Metrics) WorkerHooks() (
	onPublished func(time.Duration),
	onFailed func(error),
) {
	onPublished = func(latency time.Duration) {
		m.ProductsPublished.Inc()
		m.PublishLatency.Observe(latency.Seconds())
	}
	onFailed = func(err error) {
		m.ProductsFailed.WithLabelValues(Reason(err)).Inc()
	}
	return
}
