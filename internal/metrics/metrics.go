package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Pipeline metrics
	ClassificationsTotal    *prometheus.CounterVec
	WorkflowDurationSeconds *prometheus.HistogramVec
	WorkflowRequestsTotal   *prometheus.CounterVec

	// LLM metrics
	LLMRequestsTotal   *prometheus.CounterVec
	LLMDurationSeconds *prometheus.HistogramVec
	LLMFallbacksTotal  *prometheus.CounterVec

	// Warehouse metrics
	WarehouseQueriesTotal   *prometheus.CounterVec
	WarehouseDurationSeconds *prometheus.HistogramVec

	// SmartCare metrics
	SmartCareRequestsTotal *prometheus.CounterVec
	CacheHitsTotal         *prometheus.CounterVec
	CacheMissesTotal       *prometheus.CounterVec

	// Session metrics
	ActiveSessions  prometheus.Gauge
	FollowupsTotal  *prometheus.CounterVec
	SessionsExpired prometheus.Counter

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		// Pipeline metrics
		ClassificationsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "keluhan_classifications_total",
				Help: "Total number of query classifications by intent and decision tier",
			},
			[]string{"intent", "tier"}, // tier: sentinel, msisdn, knowledge, followup, llm, fallback
		),

		WorkflowDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "keluhan_workflow_duration_seconds",
				Help:    "Workflow processing duration in seconds by workflow type",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60}, // LLM paths can reach tens of seconds
			},
			[]string{"workflow"}, // workflow: count, list, detail, summary, smartcare, knowledge, system, offtopic
		),

		WorkflowRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "keluhan_workflow_requests_total",
				Help: "Total number of workflow dispatches by workflow type and status",
			},
			[]string{"workflow", "status"}, // status: success, error
		),

		// LLM metrics
		LLMRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "keluhan_llm_requests_total",
				Help: "Total number of LLM calls by provider, operation and status",
			},
			[]string{"provider", "operation", "status"}, // operation: classify, enhance, improve, dates
		),

		LLMDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "keluhan_llm_duration_seconds",
				Help:    "LLM call duration in seconds by provider and operation",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10}, // Matches 10s LLM timeout
			},
			[]string{"provider", "operation"},
		),

		LLMFallbacksTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "keluhan_llm_fallbacks_total",
				Help: "Total number of provider fallbacks by source and target provider",
			},
			[]string{"from", "to", "operation"},
		),

		// Warehouse metrics
		WarehouseQueriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "keluhan_warehouse_queries_total",
				Help: "Total number of warehouse queries by intent and status",
			},
			[]string{"intent", "status"}, // status: success, error, timeout
		),

		WarehouseDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "keluhan_warehouse_duration_seconds",
				Help:    "Warehouse query duration in seconds by intent",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30}, // Matches 30s query timeout
			},
			[]string{"intent"},
		),

		// SmartCare metrics
		SmartCareRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "keluhan_smartcare_requests_total",
				Help: "Total number of SmartCare upstream requests by status",
			},
			[]string{"status"}, // status: success, error, timeout, rejected
		),

		CacheHitsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "keluhan_cache_hits_total",
				Help: "Total number of cache hits by cache name",
			},
			[]string{"cache"}, // cache: smartcare
		),

		CacheMissesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "keluhan_cache_misses_total",
				Help: "Total number of cache misses by cache name",
			},
			[]string{"cache"},
		),

		// Session metrics
		ActiveSessions: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "keluhan_active_sessions",
				Help: "Current number of unexpired sessions",
			},
		),

		FollowupsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "keluhan_followups_total",
				Help: "Total number of follow-up resolutions by source",
			},
			[]string{"source"}, // source: llm, heuristic
		),

		SessionsExpired: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "keluhan_sessions_expired_total",
				Help: "Total number of sessions removed by the expiry sweeper",
			},
		),

		// HTTP metrics
		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "keluhan_http_errors_total",
				Help: "Total HTTP errors by type and endpoint",
			},
			[]string{"error_type", "endpoint"}, // error_type: bad_request, internal, timeout
		),
	}

	return m
}

// RecordClassification records a query classification
func (m *Metrics) RecordClassification(intent, tier string) {
	m.ClassificationsTotal.WithLabelValues(intent, tier).Inc()
}

// RecordWorkflow records a workflow dispatch with status
func (m *Metrics) RecordWorkflow(workflow, status string, duration float64) {
	m.WorkflowRequestsTotal.WithLabelValues(workflow, status).Inc()
	m.WorkflowDurationSeconds.WithLabelValues(workflow).Observe(duration)
}

// RecordLLMRequest records an LLM call
func (m *Metrics) RecordLLMRequest(provider, operation, status string, duration float64) {
	m.LLMRequestsTotal.WithLabelValues(provider, operation, status).Inc()
	m.LLMDurationSeconds.WithLabelValues(provider, operation).Observe(duration)
}

// RecordLLMFallback records a provider fallback
func (m *Metrics) RecordLLMFallback(from, to, operation string) {
	m.LLMFallbacksTotal.WithLabelValues(from, to, operation).Inc()
}

// RecordWarehouseQuery records a warehouse query
func (m *Metrics) RecordWarehouseQuery(intent, status string, duration float64) {
	m.WarehouseQueriesTotal.WithLabelValues(intent, status).Inc()
	m.WarehouseDurationSeconds.WithLabelValues(intent).Observe(duration)
}

// RecordSmartCareRequest records an upstream request
func (m *Metrics) RecordSmartCareRequest(status string) {
	m.SmartCareRequestsTotal.WithLabelValues(status).Inc()
}

// RecordCacheHit records a cache hit
func (m *Metrics) RecordCacheHit(cache string) {
	m.CacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a cache miss
func (m *Metrics) RecordCacheMiss(cache string) {
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

// SetActiveSessions updates the active session gauge
func (m *Metrics) SetActiveSessions(n int) {
	m.ActiveSessions.Set(float64(n))
}

// RecordFollowup records a follow-up resolution
func (m *Metrics) RecordFollowup(source string) {
	m.FollowupsTotal.WithLabelValues(source).Inc()
}

// RecordSessionsExpired adds to the expired session counter
func (m *Metrics) RecordSessionsExpired(n int) {
	m.SessionsExpired.Add(float64(n))
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, endpoint string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}
