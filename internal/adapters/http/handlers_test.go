package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/ziadnadir777/ccn-optiway-app/internal/adapters/http"
	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
	"github.com/ziadnadir777/ccn-optiway-app/internal/core/ports"
	"github.com/ziadnadir777/ccn-optiway-app/internal/core/usecases"
)

// ---- Mock providers ----

type stubRouter struct {
	fn func(ctx context.Context, origin, destination domain.GeoPoint) ([]domain.Route, error)
}

func (m *stubRouter) ComputeRoute(ctx context.Context, origin, destination domain.GeoPoint) ([]domain.Route, error) {
	if m.fn != nil {
		return m.fn(ctx, origin, destination)
	}
	return []domain.Route{{
		Polyline: []domain.GeoPoint{origin, destination},
		Summary:  domain.RouteSummary{DistanceMeters: 1000, DurationSeconds: 120},
	}}, nil
}

type stubTraffic struct{}

func (m *stubTraffic) QueryFlow(ctx context.Context, point domain.GeoPoint) (*domain.TrafficFlow, error) {
	return &domain.TrafficFlow{}, nil
}

type stubGeolocator struct {
	fn func(ctx context.Context, hint string) (*domain.GeoPoint, error)
}

func (m *stubGeolocator) Locate(ctx context.Context, hint string) (*domain.GeoPoint, error) {
	if m.fn != nil {
		return m.fn(ctx, hint)
	}
	return &domain.GeoPoint{Lat: 43.263, Lng: -2.935}, nil
}

type stubGeocoder struct {
	fn func(ctx context.Context, query string, limit int) ([]domain.Place, error)
}

func (m *stubGeocoder) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	if m.fn != nil {
		return m.fn(ctx, query, limit)
	}
	return nil, nil
}

// ---- Test helpers ----

type depsConfig struct {
	router   *stubRouter
	geo      *stubGeolocator
	geocoder *stubGeocoder
	mode     usecases.ClickMode
}

func makeDeps(t *testing.T, cfg depsConfig) *handler.Dependencies {
	t.Helper()
	if cfg.router == nil {
		cfg.router = &stubRouter{}
	}
	if cfg.geocoder == nil {
		cfg.geocoder = &stubGeocoder{}
	}
	if cfg.mode == "" {
		cfg.mode = usecases.ClickSelect
	}

	store := usecases.NewAnnotationService(nil)
	traffic := usecases.NewTrafficService(&stubTraffic{}, store, nil, nil, usecases.TrafficOptions{})
	routes := usecases.NewRouteService(cfg.router, traffic, nil, nil, 0)

	var geo ports.GeolocationProvider
	if cfg.geo != nil {
		geo = cfg.geo
	}
	interactions, err := usecases.NewInteractionService(store, routes, geo, cfg.mode)
	if err != nil {
		t.Fatalf("build interaction service: %v", err)
	}

	return &handler.Dependencies{
		Store:        store,
		Routes:       routes,
		Traffic:      traffic,
		Interactions: interactions,
		Search:       usecases.NewSearchService(cfg.geocoder, nil, 0),
	}
}

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

// ---- Marker handler tests ----

func TestMapClick_PlacesMarker(t *testing.T) {
	deps := makeDeps(t, depsConfig{})
	app := setupApp(deps)

	req := httptest.NewRequest("POST", "/v1/map/click", strings.NewReader(`{"lat": 43.26, "lng": -2.93}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var marker domain.Marker
	if err := json.NewDecoder(resp.Body).Decode(&marker); err != nil {
		t.Fatal(err)
	}
	if marker.Kind != domain.MarkerPlaced {
		t.Errorf("expected placed marker, got %s", marker.Kind)
	}
	if marker.ID == "" {
		t.Error("expected a marker id")
	}
}

func TestMapClick_MissingCoordinates(t *testing.T) {
	app := setupApp(makeDeps(t, depsConfig{}))

	req := httptest.NewRequest("POST", "/v1/map/click", strings.NewReader(`{"lat": 43.26}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var apiErr struct {
		Code string `json:"code"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "bad_request" {
		t.Errorf("expected bad_request error, got %s", apiErr.Code)
	}
}

func TestListMarkers_Pagination(t *testing.T) {
	deps := makeDeps(t, depsConfig{})
	for i := 0; i < 5; i++ {
		deps.Store.AddMarker(context.Background(), domain.GeoPoint{Lat: float64(i), Lng: 0}, domain.MarkerPlaced)
	}
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/markers?offset=2&limit=2", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Marker `json:"data"`
		Pagination struct {
			Offset int `json:"offset"`
			Total  int `json:"total"`
		} `json:"pagination"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Pagination.Total != 5 {
		t.Errorf("expected total 5, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected 2 markers in page, got %d", len(result.Data))
	}
	if result.Pagination.Offset != 2 {
		t.Errorf("expected offset 2, got %d", result.Pagination.Offset)
	}

	link := resp.Header.Get("Link")
	if !strings.Contains(link, `rel="next"`) || !strings.Contains(link, `rel="first"`) {
		t.Errorf("expected pagination Link header, got %q", link)
	}
}

func TestNearbyMarkers_MissingParams(t *testing.T) {
	app := setupApp(makeDeps(t, depsConfig{}))

	req := httptest.NewRequest("GET", "/v1/markers/nearby", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNearbyMarkers_Success(t *testing.T) {
	deps := makeDeps(t, depsConfig{})
	deps.Store.AddMarker(context.Background(), domain.GeoPoint{Lat: 43.2635, Lng: -2.9352}, domain.MarkerPlaced)
	deps.Store.AddMarker(context.Background(), domain.GeoPoint{Lat: 43.4, Lng: -2.935}, domain.MarkerPlaced)
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/markers/nearby?lat=43.263&lng=-2.935&radius=500", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var markers []domain.Marker
	json.NewDecoder(resp.Body).Decode(&markers)
	if len(markers) != 1 {
		t.Errorf("expected 1 marker within 500m, got %d", len(markers))
	}
}

func TestMarkerClick_DeleteMode(t *testing.T) {
	deps := makeDeps(t, depsConfig{mode: usecases.ClickDelete})
	m := deps.Store.AddMarker(context.Background(), domain.GeoPoint{Lat: 1, Lng: 1}, domain.MarkerPlaced)
	app := setupApp(deps)

	req := httptest.NewRequest("POST", "/v1/markers/"+m.ID+"/click", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if got := len(deps.Store.Markers()); got != 0 {
		t.Errorf("expected the clicked marker removed, got %d left", got)
	}
}

func TestMarkerClick_SelectMode(t *testing.T) {
	deps := makeDeps(t, depsConfig{})
	m := deps.Store.AddMarker(context.Background(), domain.GeoPoint{Lat: 1, Lng: 1}, domain.MarkerPlaced)
	app := setupApp(deps)

	req := httptest.NewRequest("POST", "/v1/markers/"+m.ID+"/click", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Mode       string `json:"mode"`
		SelectedID string `json:"selected_id"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.SelectedID != m.ID {
		t.Errorf("expected %s selected, got %q", m.ID, result.SelectedID)
	}
}

func TestSelectMarker_NotFound(t *testing.T) {
	app := setupApp(makeDeps(t, depsConfig{}))

	req := httptest.NewRequest("POST", "/v1/markers/marker-missing/select", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestDeleteMarker_AbsentIsNoop(t *testing.T) {
	app := setupApp(makeDeps(t, depsConfig{}))

	req := httptest.NewRequest("DELETE", "/v1/markers/marker-missing", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 204 {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}

// ---- Click mode tests ----

func TestSetMode_RoundTrip(t *testing.T) {
	app := setupApp(makeDeps(t, depsConfig{}))

	req := httptest.NewRequest("PUT", "/v1/map/mode", strings.NewReader(`{"mode": "delete"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/v1/map/mode", nil)
	resp, _ = app.Test(req, -1)
	var result struct {
		Mode string `json:"mode"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Mode != "delete" {
		t.Errorf("expected delete mode, got %q", result.Mode)
	}
}

func TestSetMode_Invalid(t *testing.T) {
	app := setupApp(makeDeps(t, depsConfig{}))

	req := httptest.NewRequest("PUT", "/v1/map/mode", strings.NewReader(`{"mode": "hover"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ---- Annotation handler tests ----

func TestDrawCreated_Success(t *testing.T) {
	deps := makeDeps(t, depsConfig{})
	app := setupApp(deps)

	body := `{"vertices": [{"lat": 0, "lng": 0}, {"lat": 0, "lng": 1}, {"lat": 1, "lng": 1}]}`
	req := httptest.NewRequest("POST", "/v1/draw/created", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var annotation domain.Annotation
	json.NewDecoder(resp.Body).Decode(&annotation)
	if len(annotation.Vertices) != 3 {
		t.Errorf("expected 3 vertices, got %d", len(annotation.Vertices))
	}
}

func TestDrawCreated_EmptyVertices(t *testing.T) {
	app := setupApp(makeDeps(t, depsConfig{}))

	req := httptest.NewRequest("POST", "/v1/draw/created", strings.NewReader(`{"vertices": []}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDrawDeleted_RemovesMatchingShapes(t *testing.T) {
	deps := makeDeps(t, depsConfig{})
	shape := []domain.GeoPoint{{Lat: 5, Lng: 5}, {Lat: 6, Lng: 6}}
	if _, err := deps.Store.AddAnnotation(context.Background(), shape); err != nil {
		t.Fatal(err)
	}
	app := setupApp(deps)

	body := `{"shapes": [[{"lat": 5, "lng": 5}, {"lat": 6, "lng": 6}]]}`
	req := httptest.NewRequest("POST", "/v1/draw/deleted", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Removed int `json:"removed"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Removed != 1 {
		t.Errorf("expected 1 removal, got %d", result.Removed)
	}
	if got := len(deps.Store.Annotations()); got != 0 {
		t.Errorf("expected empty annotation store, got %d", got)
	}
}

// ---- Position handler tests ----

func TestGetPosition_UnknownIs404(t *testing.T) {
	app := setupApp(makeDeps(t, depsConfig{}))

	req := httptest.NewRequest("GET", "/v1/position", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestPutPosition_CreatesUserPin(t *testing.T) {
	app := setupApp(makeDeps(t, depsConfig{}))

	req := httptest.NewRequest("PUT", "/v1/position", strings.NewReader(`{"lat": 43.263, "lng": -2.935}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/v1/position", nil)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 after put, got %d", resp.StatusCode)
	}

	var pin domain.Marker
	json.NewDecoder(resp.Body).Decode(&pin)
	if pin.ID != domain.UserMarkerID {
		t.Errorf("expected the user marker, got id %q", pin.ID)
	}
}

func TestLocatePosition_ProviderFailure(t *testing.T) {
	deps := makeDeps(t, depsConfig{geo: &stubGeolocator{
		fn: func(ctx context.Context, hint string) (*domain.GeoPoint, error) {
			return nil, fmt.Errorf("%w: lookup failed", domain.ErrGeolocationUnavailable)
		},
	}})
	app := setupApp(deps)

	req := httptest.NewRequest("POST", "/v1/position/locate", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}

	var apiErr struct {
		Code string `json:"code"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "geolocation_unavailable" {
		t.Errorf("expected geolocation_unavailable, got %s", apiErr.Code)
	}
}

func TestLocatePosition_Success(t *testing.T) {
	deps := makeDeps(t, depsConfig{geo: &stubGeolocator{}})
	app := setupApp(deps)

	req := httptest.NewRequest("POST", "/v1/position/locate", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var pin domain.Marker
	json.NewDecoder(resp.Body).Decode(&pin)
	if pin.ID != domain.UserMarkerID || pin.Position.Lat != 43.263 {
		t.Errorf("unexpected pin: %+v", pin)
	}
}

// ---- Route handler tests ----

func TestRequestRoute_NoUserPosition(t *testing.T) {
	app := setupApp(makeDeps(t, depsConfig{}))

	req := httptest.NewRequest("POST", "/v1/route", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

func TestRequestRoute_ExplicitEndpoints(t *testing.T) {
	app := setupApp(makeDeps(t, depsConfig{}))

	body := `{"origin": {"lat": 43.263, "lng": -2.935}, "destination": {"lat": 43.312, "lng": -2.994}}`
	req := httptest.NewRequest("POST", "/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var session domain.RouteSession
	json.NewDecoder(resp.Body).Decode(&session)
	if session.Status != domain.RouteActive {
		t.Errorf("expected active session, got %s", session.Status)
	}
}

func TestRouteLifecycle_SelectComputeClear(t *testing.T) {
	deps := makeDeps(t, depsConfig{})
	app := setupApp(deps)
	ctx := context.Background()

	deps.Interactions.SetUserPosition(ctx, domain.GeoPoint{Lat: 43.263, Lng: -2.935})
	target := deps.Store.AddMarker(ctx, domain.GeoPoint{Lat: 43.312, Lng: -2.994}, domain.MarkerPlaced)
	deps.Store.SelectMarker(target.ID)

	// Compute from the selection.
	req := httptest.NewRequest("POST", "/v1/route", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	// Session is visible.
	req = httptest.NewRequest("GET", "/v1/route", nil)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// Clearing retires both the session and the selection.
	req = httptest.NewRequest("DELETE", "/v1/route", nil)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 204 {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/v1/route", nil)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404 after clear, got %d", resp.StatusCode)
	}
	if deps.Store.SelectedID() != "" {
		t.Error("expected selection cleared with the session")
	}
}

func TestRouteInfo_DeprecatedAlias(t *testing.T) {
	deps := makeDeps(t, depsConfig{})
	app := setupApp(deps)

	body := `{"origin": {"lat": 43.263, "lng": -2.935}, "destination": {"lat": 43.312, "lng": -2.994}}`
	req := httptest.NewRequest("POST", "/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if resp, _ := app.Test(req, -1); resp.StatusCode != 201 {
		t.Fatalf("route setup failed: %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/v1/route/info", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Deprecation") != "true" {
		t.Error("expected Deprecation header on the legacy alias")
	}
	if resp.Header.Get("Sunset") == "" {
		t.Error("expected Sunset header on the legacy alias")
	}
}

// ---- Search handler tests ----

func TestSearch_MissingQuery(t *testing.T) {
	app := setupApp(makeDeps(t, depsConfig{}))

	req := httptest.NewRequest("GET", "/v1/search", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSearch_Success(t *testing.T) {
	deps := makeDeps(t, depsConfig{geocoder: &stubGeocoder{
		fn: func(ctx context.Context, query string, limit int) ([]domain.Place, error) {
			return []domain.Place{
				{Name: "Bilbao, Biscay", Position: domain.GeoPoint{Lat: 43.263, Lng: -2.935}},
			}, nil
		},
	}})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/search?q=bilbao", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var places []domain.Place
	json.NewDecoder(resp.Body).Decode(&places)
	if len(places) != 1 {
		t.Errorf("expected 1 place, got %d", len(places))
	}

	cc := resp.Header.Get("Cache-Control")
	if cc != "public, max-age=3600" {
		t.Errorf("expected Cache-Control header, got %q", cc)
	}
}

func TestSearch_ProviderFailure(t *testing.T) {
	deps := makeDeps(t, depsConfig{geocoder: &stubGeocoder{
		fn: func(ctx context.Context, query string, limit int) ([]domain.Place, error) {
			return nil, fmt.Errorf("nominatim unreachable")
		},
	}})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/search?q=bilbao", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 502 {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

// ---- GraphQL tests ----

func TestGraphQL_Markers(t *testing.T) {
	deps := makeDeps(t, depsConfig{})
	deps.Store.AddMarker(context.Background(), domain.GeoPoint{Lat: 1, Lng: 2}, domain.MarkerPlaced)
	app := setupApp(deps)

	body := `{"query": "{ markers { id kind position { lat lng } } }"}`
	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			Markers []struct {
				ID   string `json:"id"`
				Kind string `json:"kind"`
			} `json:"markers"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected graphql errors: %v", result.Errors)
	}
	if len(result.Data.Markers) != 1 {
		t.Errorf("expected 1 marker, got %d", len(result.Data.Markers))
	}
}

// ---- Health handler tests ----

func TestHealth_Returns200(t *testing.T) {
	app := setupApp(makeDeps(t, depsConfig{}))

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if result["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", result["status"])
	}
}

func TestReady_NoBackendsConfigured(t *testing.T) {
	// NATS and cache are optional; the in-memory core is always ready.
	app := setupApp(makeDeps(t, depsConfig{}))

	req := httptest.NewRequest("GET", "/v1/ready", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

// ---- X-API-Version header ----

func TestAPIVersionHeader(t *testing.T) {
	app := setupApp(makeDeps(t, depsConfig{}))

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	v := resp.Header.Get("X-API-Version")
	if v != "1.0.0" {
		t.Errorf("expected X-API-Version 1.0.0, got %q", v)
	}
}

// TestAccessLogMiddleware verifies structured access logging is emitted.
func TestAccessLogMiddleware(t *testing.T) {
	app := fiber.New()

	// Register middleware
	app.Use(handler.AccessLogMiddleware())

	// Simple test route
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	})

	// Make request
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "test-req-123")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	// Verify response body
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "ok") {
		t.Errorf("expected response body to contain 'ok', got %s", string(body))
	}
}
