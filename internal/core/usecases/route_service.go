package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
	"github.com/ziadnadir777/ccn-optiway-app/internal/core/ports"
	"github.com/ziadnadir777/ccn-optiway-app/internal/pkg/metrics"
)

// analysisTimeout bounds one detached traffic analysis run.
const analysisTimeout = 2 * time.Minute

// RouteService owns the single route session of a map view. Starting a
// new request retires the previous session (cancelling its provider
// call) before anything else happens, so at most one session is pending
// or active at any instant.
type RouteService struct {
	router    ports.RoutingProvider
	traffic   *TrafficService
	publisher ports.EventPublisher
	cache     ports.CacheService
	cacheTTL  int

	mu      sync.Mutex
	seq     uint64
	session *domain.RouteSession
	cancel  context.CancelFunc
}

// NewRouteService creates a RouteService. publisher and cache may be nil.
func NewRouteService(
	router ports.RoutingProvider,
	traffic *TrafficService,
	publisher ports.EventPublisher,
	cache ports.CacheService,
	cacheTTLSeconds int,
) *RouteService {
	if cacheTTLSeconds <= 0 {
		cacheTTLSeconds = 60
	}
	return &RouteService{
		router:    router,
		traffic:   traffic,
		publisher: publisher,
		cache:     cache,
		cacheTTL:  cacheTTLSeconds,
	}
}

// RequestRoute computes a route from origin to destination. It blocks
// until the routing provider answers, but never on the traffic analysis
// that follows a successful route; that runs detached, tagged with the
// session id so a result arriving after the session changed is thrown
// away.
func (s *RouteService) RequestRoute(ctx context.Context, origin, destination *domain.GeoPoint) (*domain.RouteSession, error) {
	if origin == nil || destination == nil {
		return nil, fmt.Errorf("%w: origin and destination are required", domain.ErrInvalidRequest)
	}

	s.mu.Lock()
	// Retire the previous session before issuing anything new.
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
	id := s.seq
	reqCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	sess := &domain.RouteSession{
		ID:          id,
		Origin:      *origin,
		Destination: *destination,
		Status:      domain.RoutePending,
	}
	s.session = sess
	s.mu.Unlock()

	routes, err := s.computeRoute(reqCtx, *origin, *destination)
	if err == nil && len(routes) == 0 {
		err = fmt.Errorf("provider returned no routes")
	}

	s.mu.Lock()
	current := s.session != nil && s.session.ID == id
	if err != nil {
		sess.Status = domain.RouteFailed
		s.mu.Unlock()
		metrics.RouteRequestsTotal.WithLabelValues("failed").Inc()
		slog.Error("route computation failed",
			"session_id", id,
			"origin_lat", origin.Lat, "origin_lng", origin.Lng,
			"dest_lat", destination.Lat, "dest_lng", destination.Lng,
			"error", err)
		return copySession(sess), fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}

	// The first candidate is authoritative; alternatives are discarded.
	first := routes[0]
	sess.Status = domain.RouteActive
	sess.Polyline = first.Polyline
	sess.Summary = &first.Summary
	s.mu.Unlock()

	metrics.RouteRequestsTotal.WithLabelValues("ok").Inc()
	slog.Info("route computed",
		"session_id", id,
		"points", len(first.Polyline),
		"distance_m", first.Summary.DistanceMeters,
		"duration_s", first.Summary.DurationSeconds)

	if s.publisher != nil {
		_ = s.publisher.PublishRouteComputed(ctx, copySession(sess))
	}

	if current && s.traffic != nil {
		s.spawnAnalysis(id, first.Polyline)
	}

	return copySession(sess), nil
}

// CurrentSession returns a copy of the session, or nil when idle.
func (s *RouteService) CurrentSession() *domain.RouteSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySession(s.session)
}

// CurrentSessionID returns the id of the session, 0 when idle.
func (s *RouteService) CurrentSessionID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return 0
	}
	return s.session.ID
}

// ClearSession retires whatever session exists, releasing its provider
// call. Used when the user deselects the route target.
func (s *RouteService) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.session = nil
}

// spawnAnalysis runs the traffic analysis for one successful route,
// detached from the request. Deliberately not cancelled when the session
// is later replaced; the result is simply discarded if it arrives for a
// session that is no longer current.
func (s *RouteService) spawnAnalysis(sessionID uint64, polyline []domain.GeoPoint) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
		defer cancel()

		jams := s.traffic.AnalyzeRoute(ctx, polyline)

		if s.CurrentSessionID() != sessionID {
			slog.Info("discarding traffic analysis for retired session",
				"session_id", sessionID, "jams", len(jams))
			return
		}
		s.traffic.ReportJams(ctx, sessionID, jams)
	}()
}

// computeRoute calls the provider through the cache. Identical
// origin/destination pairs within the TTL reuse the previous answer.
func (s *RouteService) computeRoute(ctx context.Context, origin, destination domain.GeoPoint) ([]domain.Route, error) {
	cacheKey := fmt.Sprintf("route:%.5f,%.5f:%.5f,%.5f",
		origin.Lat, origin.Lng, destination.Lat, destination.Lng)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var routes []domain.Route
			if err := json.Unmarshal(data, &routes); err == nil && len(routes) > 0 {
				metrics.CacheHits.WithLabelValues("route").Inc()
				return routes, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("route").Inc()
	}

	start := time.Now()
	routes, err := s.router.ComputeRoute(ctx, origin, destination)
	metrics.RouteComputeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(routes) > 0 {
		if data, err := json.Marshal(routes); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}
	return routes, nil
}

func copySession(sess *domain.RouteSession) *domain.RouteSession {
	if sess == nil {
		return nil
	}
	out := *sess
	if sess.Summary != nil {
		summary := *sess.Summary
		out.Summary = &summary
	}
	out.Polyline = append([]domain.GeoPoint(nil), sess.Polyline...)
	return &out
}
