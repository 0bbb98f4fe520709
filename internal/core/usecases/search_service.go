package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
	"github.com/ziadnadir777/ccn-optiway-app/internal/core/ports"
	"github.com/ziadnadir777/ccn-optiway-app/internal/pkg/metrics"
)

// SearchService resolves free-text place queries through the geocoding
// provider, with read-through caching since place names rarely move.
type SearchService struct {
	geocoder ports.GeocodingProvider
	cache    ports.CacheService
	cacheTTL int
}

// NewSearchService creates a SearchService. cache may be nil.
func NewSearchService(geocoder ports.GeocodingProvider, cache ports.CacheService, cacheTTLSeconds int) *SearchService {
	if cacheTTLSeconds <= 0 {
		cacheTTLSeconds = 3600
	}
	return &SearchService{geocoder: geocoder, cache: cache, cacheTTL: cacheTTLSeconds}
}

// Search geocodes the query.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query must not be empty", domain.ErrInvalidRequest)
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("search:%s:%d", query, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var places []domain.Place
			if err := json.Unmarshal(data, &places); err == nil {
				metrics.CacheHits.WithLabelValues("search").Inc()
				return places, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("search").Inc()
	}

	places, err := s.geocoder.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(places); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}
	return places, nil
}
