package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func createTestMetrics() *Metrics {
	return New("test", prometheus.NewRegistry())
}

func TestNew(t *testing.T) {
	m := createTestMetrics()

	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.CreditAuthorizationsTotal)
	assert.NotNil(t, m.CreditsChargedTotal)
	assert.NotNil(t, m.LedgerRetriesTotal)
	assert.NotNil(t, m.GenerationsTotal)
	assert.NotNil(t, m.ProviderRequestDuration)
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New("dup", prometheus.NewRegistry())
		New("dup", prometheus.NewRegistry())
	})
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	m := createTestMetrics()

	m.RecordHTTPRequest("POST", "/api/v1/generate", 200, 120*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/generate", 402, time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/generate", 402, time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/generate", "2xx")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/generate", "4xx")))
}

func TestMetrics_CreditCounters(t *testing.T) {
	m := createTestMetrics()

	m.RecordAuthorization("TEXT_TO_IMAGE", "allowed")
	m.RecordAuthorization("TEXT_TO_IMAGE", "insufficient")
	m.RecordCharge("TEXT_TO_IMAGE", 10)
	m.RecordCharge("TEXT_TO_IMAGE", 10)
	m.RecordCharge("SMART_QUESTION", 0)
	m.RecordLedgerRetry("settle")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CreditAuthorizationsTotal.WithLabelValues("TEXT_TO_IMAGE", "allowed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CreditAuthorizationsTotal.WithLabelValues("TEXT_TO_IMAGE", "insufficient")))
	assert.Equal(t, float64(20), testutil.ToFloat64(m.CreditsChargedTotal.WithLabelValues("TEXT_TO_IMAGE")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CreditsChargedTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LedgerRetriesTotal.WithLabelValues("settle")))
}

func TestMetrics_GenerationCounters(t *testing.T) {
	m := createTestMetrics()

	m.RecordGeneration("TEXT_TO_VOICE", "success")
	m.RecordProviderCall("gemini", "TEXT_TO_VOICE", 2*time.Second)
	m.RecordCircuitOpen("gemini")
	m.RecordDeviceCheck("mismatch")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("TEXT_TO_VOICE", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ProviderCircuitOpenTotal.WithLabelValues("gemini")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DeviceChecksTotal.WithLabelValues("mismatch")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
		m.RecordAuthorization("SMART_QUESTION", "allowed")
		m.RecordCharge("SMART_QUESTION", 10)
		m.RecordLedgerRetry("authorize")
		m.RecordDeviceCheck("bound")
		m.RecordGeneration("SMART_QUESTION", "success")
		m.RecordProviderCall("gemini", "SMART_QUESTION", time.Second)
		m.RecordCircuitOpen("gemini")
	})
}

func TestStatusCodeToString(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{402, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
		{100, "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, statusCodeToString(tt.code))
	}
}
