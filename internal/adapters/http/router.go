package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"
	"github.com/ziadnadir777/ccn-optiway-app/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// The old route-info alias is kept one release for map clients that
	// still poll it.
	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{
			Path:        "/v1/route/info",
			SunsetDate:  time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC),
			Alternative: "/v1/route",
		},
	}))

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 — 15s per-request timeout
	v1 := app.Group("/v1")
	v1.Get("/markers", timeout.NewWithContext(ListMarkersHandler(deps), 15*time.Second))
	v1.Get("/markers/nearby", timeout.NewWithContext(NearbyMarkersHandler(deps), 15*time.Second))
	v1.Post("/markers/:id/click", timeout.NewWithContext(MarkerClickHandler(deps), 15*time.Second))
	v1.Post("/markers/:id/select", timeout.NewWithContext(SelectMarkerHandler(deps), 15*time.Second))
	v1.Delete("/markers/:id", timeout.NewWithContext(DeleteMarkerHandler(deps), 15*time.Second))

	v1.Post("/map/click", timeout.NewWithContext(MapClickHandler(deps), 15*time.Second))
	v1.Get("/map/mode", timeout.NewWithContext(GetModeHandler(deps), 15*time.Second))
	v1.Put("/map/mode", timeout.NewWithContext(SetModeHandler(deps), 15*time.Second))

	v1.Get("/annotations", timeout.NewWithContext(ListAnnotationsHandler(deps), 15*time.Second))
	v1.Post("/draw/created", timeout.NewWithContext(DrawCreatedHandler(deps), 15*time.Second))
	v1.Post("/draw/deleted", timeout.NewWithContext(DrawDeletedHandler(deps), 15*time.Second))

	v1.Get("/position", timeout.NewWithContext(GetPositionHandler(deps), 15*time.Second))
	v1.Put("/position", timeout.NewWithContext(PutPositionHandler(deps), 15*time.Second))
	v1.Post("/position/locate", timeout.NewWithContext(LocatePositionHandler(deps), 15*time.Second))

	// Route session: the provider may be slow, give it more room
	v1.Post("/route", timeout.NewWithContext(RequestRouteHandler(deps), 30*time.Second))
	v1.Get("/route", timeout.NewWithContext(GetRouteHandler(deps), 15*time.Second))
	v1.Delete("/route", timeout.NewWithContext(DeleteRouteHandler(deps), 15*time.Second))
	// Deprecated alias of GET /v1/route
	v1.Get("/route/info", timeout.NewWithContext(GetRouteHandler(deps), 15*time.Second))

	v1.Get("/search", timeout.NewWithContext(SearchHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
