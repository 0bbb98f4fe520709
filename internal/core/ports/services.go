package ports

import (
	"context"

	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
)

// EventPublisher publishes map events to a message broker.
type EventPublisher interface {
	PublishMarkerAdded(ctx context.Context, m *domain.Marker) error
	PublishMarkerRemoved(ctx context.Context, id string) error
	PublishRouteComputed(ctx context.Context, session *domain.RouteSession) error
	PublishTrafficAlert(ctx context.Context, alert *domain.TrafficAlert) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// EventSubscriber consumes map events from a message broker.
type EventSubscriber interface {
	SubscribeTrafficAlerts(ctx context.Context, handler func(ctx context.Context, alert *domain.TrafficAlert) error) error
	SubscribeRouteEvents(ctx context.Context, handler func(ctx context.Context, session *domain.RouteSession) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
