// Package metrics exposes Prometheus collectors for upstream fetches, award and
// pulse computations, and the HTTP surface. A nil *Manager records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
	OutcomeDegraded = "degraded"
)

type Manager struct {
	namespace   string
	buckets     []float64
	constLabels prometheus.Labels
	registry    *prometheus.Registry

	upstreamRequests  *prometheus.CounterVec
	upstreamDuration  *prometheus.HistogramVec
	upstreamRetries   *prometheus.CounterVec
	upstreamExhausted *prometheus.CounterVec
	breakerState      *prometheus.GaugeVec
	degradedFetches   *prometheus.CounterVec

	computations        *prometheus.CounterVec
	computationDuration *prometheus.HistogramVec
	sampledManagers     prometheus.Histogram

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	toolCalls *prometheus.CounterVec
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "fpl_pulse",
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m.initialize()
	return m
}

func (m *Manager) initialize() {
	auto := promauto.With(m.registry)

	m.upstreamRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "upstream",
		Name:        "requests_total",
		Help:        "Upstream HTTP attempts by endpoint and outcome.",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "outcome"})

	m.upstreamDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "upstream",
		Name:        "request_duration_seconds",
		Help:        "Upstream HTTP attempt latency.",
		Buckets:     m.buckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint"})

	m.upstreamRetries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "upstream",
		Name:        "retries_total",
		Help:        "Retries scheduled after a transient upstream failure.",
		ConstLabels: m.constLabels,
	}, []string{"endpoint"})

	m.upstreamExhausted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "upstream",
		Name:        "retries_exhausted_total",
		Help:        "Upstream calls that failed on every attempt.",
		ConstLabels: m.constLabels,
	}, []string{"endpoint"})

	m.breakerState = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "upstream",
		Name:        "circuit_breaker_open",
		Help:        "1 while the named circuit breaker is open, 0.5 half-open, 0 closed.",
		ConstLabels: m.constLabels,
	}, []string{"breaker"})

	m.degradedFetches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "engine",
		Name:        "degraded_fetches_total",
		Help:        "Sub-fetches replaced by a neutral value after failing.",
		ConstLabels: m.constLabels,
	}, []string{"resource"})

	m.computations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "engine",
		Name:        "computations_total",
		Help:        "Award and pulse computations by kind and outcome.",
		ConstLabels: m.constLabels,
	}, []string{"kind", "outcome"})

	m.computationDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "engine",
		Name:        "computation_duration_seconds",
		Help:        "End-to-end fetch, normalize and calculate latency.",
		Buckets:     prometheus.ExponentialBuckets(0.05, 2, 10),
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.sampledManagers = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "engine",
		Name:        "normalized_managers",
		Help:        "Managers normalized per league computation.",
		Buckets:     []float64{1, 5, 10, 20, 30, 50},
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "requests_total",
		Help:        "HTTP requests by route, method and status code.",
		ConstLabels: m.constLabels,
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "request_duration_seconds",
		Help:        "HTTP request latency by route and method.",
		Buckets:     m.buckets,
		ConstLabels: m.constLabels,
	}, []string{"route", "method"})

	m.toolCalls = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "mcp",
		Name:        "tool_calls_total",
		Help:        "MCP tool invocations by tool and outcome.",
		ConstLabels: m.constLabels,
	}, []string{"tool", "outcome"})
}

func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the Prometheus exposition for this manager's registry.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Manager) ObserveUpstreamAttempt(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	m.upstreamDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Manager) IncUpstreamRetry(endpoint string) {
	if m == nil {
		return
	}
	m.upstreamRetries.WithLabelValues(endpoint).Inc()
}

func (m *Manager) IncUpstreamExhausted(endpoint string) {
	if m == nil {
		return
	}
	m.upstreamExhausted.WithLabelValues(endpoint).Inc()
}

// SetBreakerState takes the breaker state as a string so resilience stays free of metrics.
func (m *Manager) SetBreakerState(name, state string) {
	if m == nil {
		return
	}
	value := 0.0
	switch state {
	case "open":
		value = 1
	case "half_open":
		value = 0.5
	}
	m.breakerState.WithLabelValues(name).Set(value)
}

func (m *Manager) IncDegradedFetch(resource string) {
	if m == nil {
		return
	}
	m.degradedFetches.WithLabelValues(resource).Inc()
}

func (m *Manager) ObserveComputation(kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.computations.WithLabelValues(kind, outcome).Inc()
	m.computationDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *Manager) ObserveNormalizedManagers(n int) {
	if m == nil {
		return
	}
	m.sampledManagers.Observe(float64(n))
}

func (m *Manager) ObserveHTTPRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Manager) IncToolCall(tool, outcome string) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
}
