package usecases_test

import (
	"context"
	"sync"

	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
)

// --- Mock RoutingProvider ---

type mockRouter struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, origin, destination domain.GeoPoint) ([]domain.Route, error)
}

func (m *mockRouter) ComputeRoute(ctx context.Context, origin, destination domain.GeoPoint) ([]domain.Route, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.fn != nil {
		return m.fn(ctx, origin, destination)
	}
	return nil, nil
}

func (m *mockRouter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- Mock TrafficProvider ---

type mockTraffic struct {
	mu      sync.Mutex
	queried []domain.GeoPoint
	fn      func(ctx context.Context, point domain.GeoPoint) (*domain.TrafficFlow, error)
}

func (m *mockTraffic) QueryFlow(ctx context.Context, point domain.GeoPoint) (*domain.TrafficFlow, error) {
	m.mu.Lock()
	m.queried = append(m.queried, point)
	m.mu.Unlock()
	if m.fn != nil {
		return m.fn(ctx, point)
	}
	return nil, nil
}

func (m *mockTraffic) queries() []domain.GeoPoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.GeoPoint, len(m.queried))
	copy(out, m.queried)
	return out
}

// --- Mock GeolocationProvider ---

type mockGeolocator struct {
	fn func(ctx context.Context, hint string) (*domain.GeoPoint, error)
}

func (m *mockGeolocator) Locate(ctx context.Context, hint string) (*domain.GeoPoint, error) {
	if m.fn != nil {
		return m.fn(ctx, hint)
	}
	return nil, nil
}

// --- Mock GeocodingProvider ---

type mockGeocoder struct {
	fn func(ctx context.Context, query string, limit int) ([]domain.Place, error)
}

func (m *mockGeocoder) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	if m.fn != nil {
		return m.fn(ctx, query, limit)
	}
	return nil, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu       sync.Mutex
	added    []domain.Marker
	removed  []string
	routes   []domain.RouteSession
	alerts   []domain.TrafficAlert
	payloads [][]byte
}

func (m *mockPublisher) PublishMarkerAdded(ctx context.Context, marker *domain.Marker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.added = append(m.added, *marker)
	return nil
}

func (m *mockPublisher) PublishMarkerRemoved(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, id)
	return nil
}

func (m *mockPublisher) PublishRouteComputed(ctx context.Context, session *domain.RouteSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = append(m.routes, *session)
	return nil
}

func (m *mockPublisher) PublishTrafficAlert(ctx context.Context, alert *domain.TrafficAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, *alert)
	return nil
}

func (m *mockPublisher) PublishBroadcast(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, data)
	return nil
}

func (m *mockPublisher) alertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.alerts)
}

func (m *mockPublisher) lastAlert() (domain.TrafficAlert, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.alerts) == 0 {
		return domain.TrafficAlert{}, false
	}
	return m.alerts[len(m.alerts)-1], true
}
