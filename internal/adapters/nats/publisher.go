package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "OPTIWAY_MARKERS",
			Subjects:  []string{"optiway.markers.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    1 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "OPTIWAY_ROUTES",
			Subjects:  []string{"optiway.routes.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    1 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "OPTIWAY_TRAFFIC",
			Subjects:  []string{"optiway.traffic.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist — try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishMarkerAdded(ctx context.Context, marker *domain.Marker) error {
	data, err := json.Marshal(marker)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("optiway.markers.added."+string(marker.Kind), data)
	return err
}

func (p *Publisher) PublishMarkerRemoved(ctx context.Context, id string) error {
	_, err := p.js.Publish("optiway.markers.removed", []byte(id))
	return err
}

func (p *Publisher) PublishRouteComputed(ctx context.Context, session *domain.RouteSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(fmt.Sprintf("optiway.routes.computed.%d", session.ID), data)
	return err
}

func (p *Publisher) PublishTrafficAlert(ctx context.Context, alert *domain.TrafficAlert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("optiway.traffic.alert", data)
	return err
}

func (p *Publisher) PublishBroadcast(ctx context.Context, data []byte) error {
	return p.conn.Publish("optiway.updates.broadcast", data)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
