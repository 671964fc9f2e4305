package observability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/career-counselor/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store operation outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeError        = "error"
	OutcomeTimeout      = "timeout"
	OutcomeUnconfigured = "unconfigured"
)

// Metrics holds the service collectors on a private registry.
// A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	storeOps    *prometheus.CounterVec
	chatReplies *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "career_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "career_http_request_duration_seconds",
				Help:    "Time spent serving HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		storeOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "career_store_operations_total",
				Help: "Total number of document store operations by outcome",
			},
			[]string{"op", "outcome"},
		),
		chatReplies: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "career_chat_replies_total",
				Help: "Total number of counselor replies",
			},
			[]string{"outcome"}, // ok or degraded
		),
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveStoreOp records the outcome of one store operation.
func (m *Metrics) ObserveStoreOp(op, outcome string) {
	if m == nil {
		return
	}
	m.storeOps.WithLabelValues(op, outcome).Inc()
}

// ObserveChatReply records a counselor reply.
func (m *Metrics) ObserveChatReply(degraded bool) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if degraded {
		outcome = "degraded"
	}
	m.chatReplies.WithLabelValues(outcome).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StoreOutcome classifies the result of a store call.
func StoreOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, store.ErrTimeout):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}
