package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "optiway",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "optiway",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "optiway",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Map-session metrics
	RouteRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "optiway",
		Subsystem: "routing",
		Name:      "requests_total",
		Help:      "Total route computations by outcome",
	}, []string{"status"})

	RouteComputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "optiway",
		Subsystem: "routing",
		Name:      "compute_duration_seconds",
		Help:      "Duration of routing provider calls",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	TrafficQueriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "optiway",
		Subsystem: "traffic",
		Name:      "queries_total",
		Help:      "Total traffic flow queries issued",
	})

	TrafficQueryErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "optiway",
		Subsystem: "traffic",
		Name:      "query_errors_total",
		Help:      "Total traffic flow queries that failed and were skipped",
	})

	JamsDetected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "optiway",
		Subsystem: "traffic",
		Name:      "jams_detected_total",
		Help:      "Total congested samples detected on analyzed routes",
	})

	FallbackPins = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "optiway",
		Subsystem: "traffic",
		Name:      "fallback_pins_total",
		Help:      "Total fallback jam pins emitted for jam-free analyses",
	})

	MarkersStored = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "optiway",
		Subsystem: "store",
		Name:      "markers",
		Help:      "Current number of markers in the annotation store",
	})

	AnnotationsStored = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "optiway",
		Subsystem: "store",
		Name:      "annotations",
		Help:      "Current number of drawn annotations in the store",
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "optiway",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "optiway",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "optiway",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
