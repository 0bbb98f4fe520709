package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
	"github.com/ziadnadir777/ccn-optiway-app/internal/core/ports"
)

// ClickMode is what a click on an existing marker does. The two map
// variants of the app differ here: one selects the marker as a route
// target, the other removes it outright.
type ClickMode string

const (
	ClickSelect ClickMode = "select"
	ClickDelete ClickMode = "delete"
)

// InteractionService translates raw map events into store and route
// operations. Payloads are typed and validated here; nothing untyped
// reaches the core services.
type InteractionService struct {
	store  *AnnotationService
	routes *RouteService
	geo    ports.GeolocationProvider

	mu   sync.Mutex
	mode ClickMode
}

// NewInteractionService creates an InteractionService with the given
// initial click mode. geo may be nil when no geolocation backend is
// configured; position refreshes then fail as unavailable.
func NewInteractionService(
	store *AnnotationService,
	routes *RouteService,
	geo ports.GeolocationProvider,
	mode ClickMode,
) (*InteractionService, error) {
	if mode != ClickSelect && mode != ClickDelete {
		return nil, fmt.Errorf("%w: unknown click mode %q", domain.ErrInvalidRequest, mode)
	}
	return &InteractionService{store: store, routes: routes, geo: geo, mode: mode}, nil
}

// Mode returns the active click mode.
func (s *InteractionService) Mode() ClickMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches the click mode at runtime.
func (s *InteractionService) SetMode(mode ClickMode) error {
	if mode != ClickSelect && mode != ClickDelete {
		return fmt.Errorf("%w: unknown click mode %q", domain.ErrInvalidRequest, mode)
	}
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
	return nil
}

// HandleMapClick drops a placed marker at the clicked position.
func (s *InteractionService) HandleMapClick(ctx context.Context, pos domain.GeoPoint) domain.Marker {
	return s.store.AddMarker(ctx, pos, domain.MarkerPlaced)
}

// HandleMarkerClick applies the active click mode to the marker.
func (s *InteractionService) HandleMarkerClick(ctx context.Context, id string) {
	switch s.Mode() {
	case ClickDelete:
		s.store.RemoveMarker(ctx, id)
	default:
		s.store.SelectMarker(id)
	}
}

// HandleDrawCreated stores a shape emitted by the drawing tool.
func (s *InteractionService) HandleDrawCreated(ctx context.Context, vertices []domain.GeoPoint) (domain.Annotation, error) {
	return s.store.AddAnnotation(ctx, vertices)
}

// HandleDrawDeleted removes every stored annotation matching any of the
// deleted shapes and reports the total removed.
func (s *InteractionService) HandleDrawDeleted(ctx context.Context, shapes [][]domain.GeoPoint) int {
	removed := 0
	for _, vertices := range shapes {
		removed += s.store.RemoveAnnotationsMatching(ctx, vertices)
	}
	return removed
}

// RefreshUserPosition asks the geolocation backend for a fix and moves
// the user marker. Failure leaves the previous position (if any)
// untouched; the caller surfaces a persistent "location unknown" state
// rather than a one-off error.
func (s *InteractionService) RefreshUserPosition(ctx context.Context, hint string) (domain.Marker, error) {
	if s.geo == nil {
		return domain.Marker{}, domain.ErrGeolocationUnavailable
	}
	pos, err := s.geo.Locate(ctx, hint)
	if err != nil || pos == nil {
		slog.Warn("geolocation lookup failed", "error", err)
		return domain.Marker{}, fmt.Errorf("%w: %v", domain.ErrGeolocationUnavailable, err)
	}
	return s.store.UpsertUserPosition(ctx, *pos), nil
}

// SetUserPosition applies a position pushed by the device directly.
func (s *InteractionService) SetUserPosition(ctx context.Context, pos domain.GeoPoint) domain.Marker {
	return s.store.UpsertUserPosition(ctx, pos)
}

// ComputeRoute requests a route from the user position to the selected
// marker. Rejected when the position is unknown or nothing is selected,
// without touching the routing provider.
func (s *InteractionService) ComputeRoute(ctx context.Context) (*domain.RouteSession, error) {
	user, ok := s.store.UserPosition()
	if !ok {
		return nil, fmt.Errorf("%w: user position unknown", domain.ErrGeolocationUnavailable)
	}
	selected, ok := s.store.SelectedMarker()
	if !ok {
		return nil, fmt.Errorf("%w: no marker selected", domain.ErrInvalidRequest)
	}
	return s.routes.RequestRoute(ctx, &user.Position, &selected.Position)
}

// DeselectTarget clears the selection and retires the route session
// that was computed for it.
func (s *InteractionService) DeselectTarget() {
	s.store.ClearSelection()
	s.routes.ClearSession()
}
