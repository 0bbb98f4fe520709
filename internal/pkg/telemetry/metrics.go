package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Freshness of external data
	MetricFlowDataAge     = "traffic.flow_data_age_seconds"
	MetricAnalysisLatency = "traffic.analysis_latency"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricRoutesComputed = "business.routes_computed"
	MetricJamsDetected   = "business.jams_detected"
)
