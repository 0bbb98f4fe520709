package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
	"github.com/ziadnadir777/ccn-optiway-app/internal/core/ports"
	"github.com/ziadnadir777/ccn-optiway-app/internal/pkg/metrics"
)

// TrafficOptions tunes the sampling and classification behavior.
type TrafficOptions struct {
	// SampleStride checks every n-th polyline vertex (default 5).
	SampleStride int
	// CongestionRatio flags a sample when current < freeFlow * ratio
	// (default 0.7).
	CongestionRatio float64
	// AlwaysPin emits one jam pin at FallbackPin when an analysis finds
	// no congestion, so the map always shows a result. Legacy behavior,
	// kept switchable.
	AlwaysPin   bool
	FallbackPin domain.GeoPoint
	// CacheTTL is the per-point flow cache lifetime in seconds
	// (default 30).
	CacheTTL int
}

// TrafficService walks a route polyline at a fixed stride, queries a
// traffic provider per sample, and synthesizes jam markers for the
// congested ones.
type TrafficService struct {
	provider  ports.TrafficProvider
	store     *AnnotationService
	publisher ports.EventPublisher
	cache     ports.CacheService
	opts      TrafficOptions
}

// NewTrafficService creates a TrafficService. publisher and cache may be
// nil; zero option fields fall back to defaults.
func NewTrafficService(
	provider ports.TrafficProvider,
	store *AnnotationService,
	publisher ports.EventPublisher,
	cache ports.CacheService,
	opts TrafficOptions,
) *TrafficService {
	if opts.SampleStride <= 0 {
		opts.SampleStride = 5
	}
	if opts.CongestionRatio <= 0 {
		opts.CongestionRatio = 0.7
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30
	}
	return &TrafficService{
		provider:  provider,
		store:     store,
		publisher: publisher,
		cache:     cache,
		opts:      opts,
	}
}

// AnalyzeRoute samples the polyline and returns the congested points in
// route order. Queries are issued sequentially; flow providers
// rate-limit per key. A failed query is logged and skipped, it never
// aborts the remaining samples.
func (s *TrafficService) AnalyzeRoute(ctx context.Context, polyline []domain.GeoPoint) []domain.GeoPoint {
	samples := domain.SamplePolyline(polyline, s.opts.SampleStride)

	var jams []domain.GeoPoint
	for _, pt := range samples {
		flow, err := s.queryFlow(ctx, pt)
		if err != nil {
			metrics.TrafficQueryErrors.Inc()
			slog.Warn("traffic query failed, skipping sample",
				"lat", pt.Lat, "lng", pt.Lng,
				"error", fmt.Errorf("%w: %v", domain.ErrTrafficQueryFailed, err))
			continue
		}
		if s.congested(flow) {
			jams = append(jams, pt)
		}
	}
	return jams
}

// ReportJams applies one analysis run to the store as a single batch and
// publishes the jam alert. An empty result emits the fallback pin when
// AlwaysPin is on; with the flag off nothing is stored or published.
func (s *TrafficService) ReportJams(ctx context.Context, sessionID uint64, jams []domain.GeoPoint) []domain.Marker {
	fallback := false
	if len(jams) == 0 {
		if !s.opts.AlwaysPin {
			return nil
		}
		jams = []domain.GeoPoint{s.opts.FallbackPin}
		fallback = true
		metrics.FallbackPins.Inc()
		slog.Info("no congestion found, emitting fallback pin",
			"session_id", sessionID, "lat", s.opts.FallbackPin.Lat, "lng", s.opts.FallbackPin.Lng)
	} else {
		metrics.JamsDetected.Add(float64(len(jams)))
		slog.Info("traffic jams detected", "session_id", sessionID, "count", len(jams))
	}

	markers := s.store.AddTrafficMarkers(ctx, jams)

	if s.publisher != nil {
		_ = s.publisher.PublishTrafficAlert(ctx, &domain.TrafficAlert{
			SessionID: sessionID,
			Jams:      jams,
			Fallback:  fallback,
			Time:      time.Now(),
		})
	}
	return markers
}

// congested applies the classification rule. A reading missing either
// speed is never congested.
func (s *TrafficService) congested(flow *domain.TrafficFlow) bool {
	if flow == nil || flow.CurrentSpeed == nil || flow.FreeFlowSpeed == nil {
		return false
	}
	return *flow.CurrentSpeed < *flow.FreeFlowSpeed*s.opts.CongestionRatio
}

// queryFlow reads the provider through the cache. Flow readings go
// stale quickly, so the TTL is short.
func (s *TrafficService) queryFlow(ctx context.Context, pt domain.GeoPoint) (*domain.TrafficFlow, error) {
	cacheKey := fmt.Sprintf("flow:%.5f:%.5f", pt.Lat, pt.Lng)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var flow domain.TrafficFlow
			if err := json.Unmarshal(data, &flow); err == nil {
				metrics.CacheHits.WithLabelValues("flow").Inc()
				return &flow, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("flow").Inc()
	}

	metrics.TrafficQueriesTotal.Inc()
	flow, err := s.provider.QueryFlow(ctx, pt)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && flow != nil {
		if data, err := json.Marshal(flow); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.opts.CacheTTL)
		}
	}
	return flow, nil
}
