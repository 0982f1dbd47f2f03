package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Tool metrics
	ToolCallsTotal    *prometheus.CounterVec
	ToolCallDuration  *prometheus.HistogramVec
	ToolCallsInFlight prometheus.Gauge

	// Upstream API metrics
	UpstreamCalls    *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	UpstreamFailures *prometheus.CounterVec
	UpstreamRetries  *prometheus.CounterVec

	// Pipeline metrics
	SignalsNormalized *prometheus.CounterVec
	SignalsDropped    *prometheus.CounterVec
	SummariesBuilt    *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		ToolCallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tool_calls_total",
				Help: "Total number of tool invocations",
			},
			[]string{"tool", "status"},
		),

		ToolCallDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tool_call_duration_seconds",
				Help:    "Tool invocation duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"tool"},
		),

		ToolCallsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tool_calls_in_flight",
				Help: "Number of tool invocations currently in progress",
			},
		),

		UpstreamCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_api_calls_total",
				Help: "Total number of upstream transparency API calls",
			},
			[]string{"engine", "status"},
		),

		UpstreamDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "upstream_api_duration_seconds",
				Help:    "Upstream API call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"engine"},
		),

		UpstreamFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_api_failures_total",
				Help: "Total number of upstream API failures",
			},
			[]string{"engine", "error_type"},
		),

		UpstreamRetries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_api_retries_total",
				Help: "Total number of upstream API retry attempts",
			},
			[]string{"engine"},
		),

		SignalsNormalized: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_signals_normalized_total",
				Help: "Total number of creative records normalized into signals",
			},
			[]string{"format"},
		),

		SignalsDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_signals_dropped_total",
				Help: "Total number of creative records dropped during normalization",
			},
			[]string{"reason"},
		),

		SummariesBuilt: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_summaries_built_total",
				Help: "Total number of seller summaries assembled",
			},
			[]string{"status"},
		),
	}
}

// HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// Tool invocation metrics
func (m *Metrics) RecordToolCall(tool, status string, duration time.Duration) {
	m.ToolCallsTotal.WithLabelValues(tool, status).Inc()
	m.ToolCallDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// Upstream API call metrics
func (m *Metrics) RecordUpstreamCall(engine, status string, duration time.Duration) {
	m.UpstreamCalls.WithLabelValues(engine, status).Inc()
	m.UpstreamDuration.WithLabelValues(engine).Observe(duration.Seconds())
}

// Upstream API failure metrics
func (m *Metrics) RecordUpstreamFailure(engine, errorType string) {
	m.UpstreamFailures.WithLabelValues(engine, errorType).Inc()
}

// Upstream API retry metrics
func (m *Metrics) RecordUpstreamRetry(engine string) {
	m.UpstreamRetries.WithLabelValues(engine).Inc()
}

// Normalized signal counter
func (m *Metrics) RecordSignalNormalized(format string, count int) {
	m.SignalsNormalized.WithLabelValues(format).Add(float64(count))
}

// Dropped record counter
func (m *Metrics) RecordSignalDropped(reason string) {
	m.SignalsDropped.WithLabelValues(reason).Inc()
}

// Assembled summary counter
func (m *Metrics) RecordSummaryBuilt(status string) {
	m.SummariesBuilt.WithLabelValues(status).Inc()
}

// Tool calls in progress counter
func (m *Metrics) IncToolCallsInFlight() {
	m.ToolCallsInFlight.Inc()
}

// Tool calls in progress counter
func (m *Metrics) DecToolCallsInFlight() {
	m.ToolCallsInFlight.Dec()
}

// HTTP requests in flight counter
func (m *Metrics) IncHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// HTTP requests in flight counter
func (m *Metrics) DecHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
