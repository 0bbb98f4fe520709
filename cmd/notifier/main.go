package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/ziadnadir777/ccn-optiway-app/internal/adapters/nats"
	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
	"github.com/ziadnadir777/ccn-optiway-app/internal/pkg/config"
	"github.com/ziadnadir777/ccn-optiway-app/internal/pkg/logging"
)

// The notifier consumes durable JetStream feeds and fans the interesting
// ones back out on the broadcast subject every WebSocket client listens
// on. Traffic alerts and computed routes survive an API restart this
// way; the broadcast relay itself is fire-and-forget.
func main() {
	cfg, err := config.Load("optiway-notifier")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer pub.Close()

	err = sub.SubscribeTrafficAlerts(ctx, func(ctx context.Context, alert *domain.TrafficAlert) error {
		slog.Info("traffic alert",
			"session_id", alert.SessionID,
			"jams", len(alert.Jams),
			"fallback", alert.Fallback,
		)
		payload, err := json.Marshal(map[string]any{
			"type":       "traffic_alert",
			"session_id": alert.SessionID,
			"jams":       alert.Jams,
			"fallback":   alert.Fallback,
			"time":       alert.Time,
		})
		if err != nil {
			return err
		}
		return pub.PublishBroadcast(ctx, payload)
	})
	if err != nil {
		log.Fatalf("subscribe traffic alerts: %v", err)
	}

	err = sub.SubscribeRouteEvents(ctx, func(ctx context.Context, session *domain.RouteSession) error {
		attrs := []any{
			"session_id", session.ID,
			"status", session.Status,
			"points", len(session.Polyline),
		}
		if session.Summary != nil {
			attrs = append(attrs,
				"distance_m", session.Summary.DistanceMeters,
				"duration_s", session.Summary.DurationSeconds,
			)
		}
		slog.Info("route computed", attrs...)

		payload, err := json.Marshal(map[string]any{
			"type":    "route_computed",
			"session": session,
		})
		if err != nil {
			return err
		}
		return pub.PublishBroadcast(ctx, payload)
	})
	if err != nil {
		log.Fatalf("subscribe route events: %v", err)
	}

	slog.Info("notifier running", "nats", cfg.NATS.URL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutting down notifier", "signal", sig.String())
	cancel()
}
