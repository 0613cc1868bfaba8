package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every ChemDraw AI instrument.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// AI prompts
	LLMRequestsTotal   CounterVec
	LLMRequestDuration HistogramVec
	LLMTokensUsed      CounterVec

	// Controller
	ControllerOutcomesTotal CounterVec
	ActiveSessions          GaugeVec

	// Viewer
	ViewerRendersTotal CounterVec

	// Cache / storage / download
	CacheHitsTotal     CounterVec
	CacheMissesTotal   CounterVec
	DownloadsTotal     CounterVec
	DownloadBytes      HistogramVec
	ArchiveWritesTotal CounterVec

	// Health
	HealthCheckStatus GaugeVec
}

// Default buckets
var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}
	DefaultLLMDurationBuckets  = []float64{.25, .5, 1, 2, 5, 10, 20, 30, 60, 120}
	DefaultSizeBuckets         = []float64{1 << 10, 16 << 10, 128 << 10, 1 << 20, 4 << 20, 10 << 20}
)

// NewAppMetrics registers all instruments on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	m.LLMRequestsTotal = collector.RegisterCounter("llm_requests_total", "Prompt executions", "model", "prompt", "status")
	m.LLMRequestDuration = collector.RegisterHistogram("llm_request_duration_seconds", "Prompt execution latency", DefaultLLMDurationBuckets, "model", "prompt")
	m.LLMTokensUsed = collector.RegisterCounter("llm_tokens_total", "Tokens consumed", "model", "direction")

	m.ControllerOutcomesTotal = collector.RegisterCounter("controller_outcomes_total", "Terminal controller phases per generation attempt", "phase")
	m.ActiveSessions = collector.RegisterGauge("active_sessions", "Live controller sessions", "store")

	m.ViewerRendersTotal = collector.RegisterCounter("viewer_renders_total", "Viewer render invocations", "result")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.DownloadsTotal = collector.RegisterCounter("downloads_total", "Diagram downloads", "kind", "status")
	m.DownloadBytes = collector.RegisterHistogram("download_bytes", "Downloaded payload size", DefaultSizeBuckets, "kind")
	m.ArchiveWritesTotal = collector.RegisterCounter("archive_writes_total", "Object storage archive writes", "status")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")

	return m
}

// NewNoopAppMetrics returns AppMetrics whose instruments discard samples.
func NewNoopAppMetrics() *AppMetrics {
	return NewAppMetrics(NewNoopCollector())
}

// Helpers

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// RecordHTTPRequest records one completed request.
func RecordHTTPRequest(m *AppMetrics, method, route string, statusCode int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordLLMCall records one prompt execution.
func RecordLLMCall(m *AppMetrics, model, prompt string, success bool, d time.Duration, inputTokens, outputTokens int) {
	m.LLMRequestsTotal.WithLabelValues(model, prompt, statusLabel(success)).Inc()
	m.LLMRequestDuration.WithLabelValues(model, prompt).Observe(d.Seconds())
	if inputTokens > 0 {
		m.LLMTokensUsed.WithLabelValues(model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		m.LLMTokensUsed.WithLabelValues(model, "output").Add(float64(outputTokens))
	}
}

// RecordCacheAccess records a hit or miss on the named cache.
func RecordCacheAccess(m *AppMetrics, cache string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
		return
	}
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordDownload records a download attempt and, on success, its size.
func RecordDownload(m *AppMetrics, kind string, success bool, bytes int64) {
	m.DownloadsTotal.WithLabelValues(kind, statusLabel(success)).Inc()
	if success {
		m.DownloadBytes.WithLabelValues(kind).Observe(float64(bytes))
	}
}

// RecordControllerOutcome counts a terminal phase.
func RecordControllerOutcome(m *AppMetrics, phase string) {
	m.ControllerOutcomesTotal.WithLabelValues(phase).Inc()
}

// RecordRender counts a viewer render by result: "cleared", "rendered" or
// "engine_unavailable".
func RecordRender(m *AppMetrics, result string) {
	m.ViewerRendersTotal.WithLabelValues(result).Inc()
}

//Personal.AI order the ending
