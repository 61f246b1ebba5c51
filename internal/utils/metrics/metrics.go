package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Credit metrics
	CreditAuthorizationsTotal *prometheus.CounterVec
	CreditsChargedTotal       *prometheus.CounterVec
	LedgerRetriesTotal        *prometheus.CounterVec
	DeviceChecksTotal         *prometheus.CounterVec

	// Generation metrics
	GenerationsTotal         *prometheus.CounterVec
	ProviderRequestDuration  *prometheus.HistogramVec
	ProviderCircuitOpenTotal *prometheus.CounterVec
}

// New creates a new Metrics instance registered with reg.
// A nil reg registers with the default registry.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "gateway"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		// Credit metrics
		CreditAuthorizationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "credit",
				Name:      "authorizations_total",
				Help:      "Credit authorizations by feature and outcome",
			},
			[]string{"feature", "outcome"}, // outcome: allowed, insufficient, error
		),
		CreditsChargedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "credit",
				Name:      "charged_total",
				Help:      "Credits deducted at settlement",
			},
			[]string{"feature"},
		),
		LedgerRetriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "retries_total",
				Help:      "Ledger transactions retried after contention",
			},
			[]string{"operation"},
		),
		DeviceChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "device",
				Name:      "checks_total",
				Help:      "Device binding checks by outcome",
			},
			[]string{"outcome"}, // outcome: bound, allowed, mismatch
		),

		// Generation metrics
		GenerationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "generation",
				Name:      "requests_total",
				Help:      "Generation requests by feature and outcome",
			},
			[]string{"feature", "outcome"},
		),
		ProviderRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "provider",
				Name:      "request_duration_seconds",
				Help:      "Generation provider call duration in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"provider", "feature"},
		),
		ProviderCircuitOpenTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "provider",
				Name:      "circuit_open_total",
				Help:      "Calls rejected by an open provider circuit breaker",
			},
			[]string{"provider"},
		),
	}
}

// --- Convenience methods ---
// All methods are no-ops on a nil receiver so callers can run without metrics.

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	statusStr := statusCodeToString(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAuthorization records a credit authorization outcome.
func (m *Metrics) RecordAuthorization(feature, outcome string) {
	if m == nil {
		return
	}
	m.CreditAuthorizationsTotal.WithLabelValues(feature, outcome).Inc()
}

// RecordCharge records credits deducted at settlement.
func (m *Metrics) RecordCharge(feature string, credits int64) {
	if m == nil || credits <= 0 {
		return
	}
	m.CreditsChargedTotal.WithLabelValues(feature).Add(float64(credits))
}

// RecordLedgerRetry records a retried ledger transaction.
func (m *Metrics) RecordLedgerRetry(operation string) {
	if m == nil {
		return
	}
	m.LedgerRetriesTotal.WithLabelValues(operation).Inc()
}

// RecordDeviceCheck records a device binding outcome.
func (m *Metrics) RecordDeviceCheck(outcome string) {
	if m == nil {
		return
	}
	m.DeviceChecksTotal.WithLabelValues(outcome).Inc()
}

// RecordGeneration records the final outcome of a generation request.
func (m *Metrics) RecordGeneration(feature, outcome string) {
	if m == nil {
		return
	}
	m.GenerationsTotal.WithLabelValues(feature, outcome).Inc()
}

// RecordProviderCall records a provider call duration.
func (m *Metrics) RecordProviderCall(provider, feature string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequestDuration.WithLabelValues(provider, feature).Observe(duration.Seconds())
}

// RecordCircuitOpen records a call rejected by an open breaker.
func (m *Metrics) RecordCircuitOpen(provider string) {
	if m == nil {
		return
	}
	m.ProviderCircuitOpenTotal.WithLabelValues(provider).Inc()
}

// statusCodeToString converts an HTTP status code to a string category.
func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
