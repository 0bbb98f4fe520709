package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
	"github.com/ziadnadir777/ccn-optiway-app/internal/core/ports"
	"github.com/ziadnadir777/ccn-optiway-app/internal/pkg/geospatial"
	"github.com/ziadnadir777/ccn-optiway-app/internal/pkg/metrics"
)

// AnnotationService owns the in-memory marker and annotation collections
// for one map view. It is the single source of truth rendered by the map
// surface; all mutations are serialized behind one mutex so user
// interactions and analyzer callbacks apply in arrival order.
type AnnotationService struct {
	mu          sync.Mutex
	markers     []domain.Marker
	annotations []domain.Annotation
	selectedID  string

	publisher ports.EventPublisher
}

// NewAnnotationService creates an empty store. The publisher may be nil;
// events are then dropped.
func NewAnnotationService(publisher ports.EventPublisher) *AnnotationService {
	return &AnnotationService{publisher: publisher}
}

// AddMarker appends a marker with a fresh unique id and returns it.
func (s *AnnotationService) AddMarker(ctx context.Context, pos domain.GeoPoint, kind domain.MarkerKind) domain.Marker {
	m := domain.Marker{
		ID:        "marker-" + uuid.NewString(),
		Position:  pos,
		Kind:      kind,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.markers = append(s.markers, m)
	metrics.MarkersStored.Set(float64(len(s.markers)))
	s.mu.Unlock()

	if s.publisher != nil {
		_ = s.publisher.PublishMarkerAdded(ctx, &m)
	}
	return m
}

// AddTrafficMarkers appends one traffic-jam marker per point as a single
// atomic batch, so a concurrent route request never observes a partially
// applied analysis result. Repeated calls accumulate; jam markers are
// not deduplicated.
func (s *AnnotationService) AddTrafficMarkers(ctx context.Context, points []domain.GeoPoint) []domain.Marker {
	if len(points) == 0 {
		return nil
	}

	added := make([]domain.Marker, 0, len(points))
	now := time.Now()
	for _, pt := range points {
		added = append(added, domain.Marker{
			ID:        "marker-" + uuid.NewString(),
			Position:  pt,
			Kind:      domain.MarkerTrafficJam,
			CreatedAt: now,
		})
	}

	s.mu.Lock()
	s.markers = append(s.markers, added...)
	metrics.MarkersStored.Set(float64(len(s.markers)))
	s.mu.Unlock()

	if s.publisher != nil {
		for i := range added {
			_ = s.publisher.PublishMarkerAdded(ctx, &added[i])
		}
	}
	return added
}

// RemoveMarker deletes the marker with the given id. Removing an absent
// id is a no-op, not an error. Removing the selected marker clears the
// selection.
func (s *AnnotationService) RemoveMarker(ctx context.Context, id string) {
	s.mu.Lock()
	removed := false
	for i, m := range s.markers {
		if m.ID == id {
			s.markers = append(s.markers[:i], s.markers[i+1:]...)
			removed = true
			break
		}
	}
	if removed && s.selectedID == id {
		s.selectedID = ""
	}
	metrics.MarkersStored.Set(float64(len(s.markers)))
	s.mu.Unlock()

	if removed && s.publisher != nil {
		_ = s.publisher.PublishMarkerRemoved(ctx, id)
	}
}

// SelectMarker makes the given marker the single selection, replacing
// any previous one. Unknown ids are ignored and leave the selection
// untouched.
func (s *AnnotationService) SelectMarker(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.markers {
		if m.ID == id {
			s.selectedID = id
			return
		}
	}
}

// ClearSelection deselects whatever marker is selected.
func (s *AnnotationService) ClearSelection() {
	s.mu.Lock()
	s.selectedID = ""
	s.mu.Unlock()
}

// SelectedID returns the id of the selected marker, or "" if none.
func (s *AnnotationService) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// SelectedMarker returns a copy of the selected marker.
func (s *AnnotationService) SelectedMarker() (domain.Marker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedID == "" {
		return domain.Marker{}, false
	}
	for _, m := range s.markers {
		if m.ID == s.selectedID {
			return m, true
		}
	}
	return domain.Marker{}, false
}

// UpsertUserPosition creates the user marker on first call and moves it
// in place afterwards. The fixed id guarantees at most one user marker
// exists no matter how many position updates arrive.
func (s *AnnotationService) UpsertUserPosition(ctx context.Context, pos domain.GeoPoint) domain.Marker {
	s.mu.Lock()
	for i := range s.markers {
		if s.markers[i].ID == domain.UserMarkerID {
			s.markers[i].Position = pos
			m := s.markers[i]
			s.mu.Unlock()
			return m
		}
	}

	m := domain.Marker{
		ID:        domain.UserMarkerID,
		Position:  pos,
		Kind:      domain.MarkerUser,
		CreatedAt: time.Now(),
	}
	s.markers = append(s.markers, m)
	metrics.MarkersStored.Set(float64(len(s.markers)))
	s.mu.Unlock()

	if s.publisher != nil {
		_ = s.publisher.PublishMarkerAdded(ctx, &m)
	}
	return m
}

// UserPosition returns a copy of the user marker if a position is known.
func (s *AnnotationService) UserPosition() (domain.Marker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.markers {
		if m.ID == domain.UserMarkerID {
			return m, true
		}
	}
	return domain.Marker{}, false
}

// Markers returns a snapshot copy of all markers in insertion order.
func (s *AnnotationService) Markers() []domain.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Marker, len(s.markers))
	copy(out, s.markers)
	return out
}

// MarkersNear returns markers within radiusMeters of the given point,
// cheapest-first filtered through a bounding box before the exact
// great-circle check.
func (s *AnnotationService) MarkersNear(pt domain.GeoPoint, radiusMeters float64) []domain.Marker {
	minLat, minLng, maxLat, maxLng := geospatial.BoundingBox(pt.Lat, pt.Lng, radiusMeters)

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Marker
	for _, m := range s.markers {
		p := m.Position
		if p.Lat < minLat || p.Lat > maxLat || p.Lng < minLng || p.Lng > maxLng {
			continue
		}
		if geospatial.Haversine(pt.Lat, pt.Lng, p.Lat, p.Lng) <= radiusMeters {
			out = append(out, m)
		}
	}
	return out
}

// AddAnnotation stores a drawn polygon or polyline.
func (s *AnnotationService) AddAnnotation(ctx context.Context, vertices []domain.GeoPoint) (domain.Annotation, error) {
	if len(vertices) == 0 {
		return domain.Annotation{}, domain.ErrInvalidRequest
	}

	a := domain.Annotation{
		ID:        "annotation-" + uuid.NewString(),
		Vertices:  append([]domain.GeoPoint(nil), vertices...),
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.annotations = append(s.annotations, a)
	metrics.AnnotationsStored.Set(float64(len(s.annotations)))
	s.mu.Unlock()

	return a, nil
}

// Annotations returns a snapshot copy of all stored annotations.
func (s *AnnotationService) Annotations() []domain.Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Annotation, len(s.annotations))
	copy(out, s.annotations)
	return out
}

// RemoveAnnotationsMatching removes every annotation whose vertex
// sequence is pairwise equal to the given one and reports how many were
// removed. A non-matching sequence removes nothing. Removal is a filter,
// not first-match-only: duplicated shapes all go at once, mirroring how
// the drawing tool reports deletions by geometry rather than by id.
func (s *AnnotationService) RemoveAnnotationsMatching(ctx context.Context, vertices []domain.GeoPoint) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.annotations[:0]
	removed := 0
	for _, a := range s.annotations {
		if domain.PolylineEqual(a.Vertices, vertices) {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	s.annotations = kept
	metrics.AnnotationsStored.Set(float64(len(s.annotations)))
	return removed
}

// Reset drops all markers, annotations and the selection.
func (s *AnnotationService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markers = nil
	s.annotations = nil
	s.selectedID = ""
	metrics.MarkersStored.Set(0)
	metrics.AnnotationsStored.Set(0)
}
