package ports

import (
	"context"

	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
)

// RoutingProvider computes candidate routes between two points.
// The core consumes only the first candidate; providers may return more.
type RoutingProvider interface {
	ComputeRoute(ctx context.Context, origin, destination domain.GeoPoint) ([]domain.Route, error)
}

// TrafficProvider reports live traffic flow at a single coordinate.
type TrafficProvider interface {
	QueryFlow(ctx context.Context, point domain.GeoPoint) (*domain.TrafficFlow, error)
}

// GeolocationProvider resolves the user's current position. The hint is
// provider-specific (an IP address for IP geolocation, empty for a
// device fix). Failure means the position is unknown, not an error the
// user can act on; route requests stay disabled until a fix arrives.
type GeolocationProvider interface {
	Locate(ctx context.Context, hint string) (*domain.GeoPoint, error)
}

// GeocodingProvider searches for named places.
type GeocodingProvider interface {
	Search(ctx context.Context, query string, limit int) ([]domain.Place, error)
}
