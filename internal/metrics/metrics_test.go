package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersAll(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)
	require.NotNil(t, m)

	m.RecordClassification("count", "fallback")
	m.RecordWorkflow("count", "success", 0.42)
	m.RecordLLMRequest("gemini", "classify", "success", 0.8)
	m.RecordLLMFallback("gemini", "groq", "classify")
	m.RecordWarehouseQuery("count", "success", 0.1)
	m.RecordSmartCareRequest("rejected")
	m.RecordCacheHit("smartcare")
	m.RecordCacheMiss("smartcare")
	m.SetActiveSessions(3)
	m.RecordFollowup("heuristic")
	m.RecordSessionsExpired(2)
	m.RecordHTTPError("bad_request", "/v1/chat/completions")

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestCounterValues(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordClassification("smartcare", "msisdn")
	m.RecordClassification("smartcare", "msisdn")

	got := testutil.ToFloat64(m.ClassificationsTotal.WithLabelValues("smartcare", "msisdn"))
	assert.Equal(t, 2.0, got)

	m.SetActiveSessions(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(m.ActiveSessions))
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	New(registry)
	assert.Panics(t, func() { New(registry) })
}
