package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ziadnadir777/ccn-optiway-app/internal/adapters/http"
	"github.com/ziadnadir777/ccn-optiway-app/internal/adapters/ipapi"
	natsadapter "github.com/ziadnadir777/ccn-optiway-app/internal/adapters/nats"
	"github.com/ziadnadir777/ccn-optiway-app/internal/adapters/nominatim"
	"github.com/ziadnadir777/ccn-optiway-app/internal/adapters/osrm"
	"github.com/ziadnadir777/ccn-optiway-app/internal/adapters/tomtom"
	"github.com/ziadnadir777/ccn-optiway-app/internal/adapters/valkey"
	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
	"github.com/ziadnadir777/ccn-optiway-app/internal/core/ports"
	"github.com/ziadnadir777/ccn-optiway-app/internal/core/usecases"
	"github.com/ziadnadir777/ccn-optiway-app/internal/pkg/config"
	"github.com/ziadnadir777/ccn-optiway-app/internal/pkg/logging"
	"github.com/ziadnadir777/ccn-optiway-app/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("optiway-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Cache (optional backend: the API serves without it)
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		cacheSvc = cache
		defer cache.Close()
	}

	// NATS (optional backend as well)
	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		publisher = pub
		defer pub.Close()
	}

	// Raw NATS connection for the WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Provider clients
	router := osrm.NewClient(cfg.Routing.BaseURL, time.Duration(cfg.Routing.TimeoutSeconds)*time.Second)
	flow := tomtom.NewClient(cfg.Traffic.BaseURL, cfg.Traffic.APIKey, cfg.Traffic.Zoom, time.Duration(cfg.Traffic.TimeoutSeconds)*time.Second)
	geocoder := nominatim.NewClient(cfg.Geocoding.BaseURL, time.Duration(cfg.Geocoding.TimeoutSeconds)*time.Second)
	geolocator := ipapi.NewClient(cfg.Geolocation.BaseURL, time.Duration(cfg.Geolocation.TimeoutSeconds)*time.Second)

	// Use cases
	store := usecases.NewAnnotationService(publisher)
	trafficSvc := usecases.NewTrafficService(flow, store, publisher, cacheSvc, usecases.TrafficOptions{
		SampleStride:    cfg.Traffic.SampleStride,
		CongestionRatio: cfg.Traffic.CongestionRatio,
		AlwaysPin:       cfg.Traffic.AlwaysPin,
		FallbackPin:     domain.GeoPoint{Lat: cfg.Traffic.FallbackLat, Lng: cfg.Traffic.FallbackLng},
		CacheTTL:        cfg.Traffic.CacheTTL,
	})
	routeSvc := usecases.NewRouteService(router, trafficSvc, publisher, cacheSvc, cfg.Routing.CacheTTL)
	interactionSvc, err := usecases.NewInteractionService(store, routeSvc, geolocator, usecases.ClickMode(cfg.Map.ClickMode))
	if err != nil {
		log.Fatalf("interaction service: %v", err)
	}
	searchSvc := usecases.NewSearchService(geocoder, cacheSvc, cfg.Geocoding.CacheTTL)

	deps := &http.Dependencies{
		Store:        store,
		Routes:       routeSvc,
		Traffic:      trafficSvc,
		Interactions: interactionSvc,
		Search:       searchSvc,
		NATS:         natsConn,
		Cache:        cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "OptiWay API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
