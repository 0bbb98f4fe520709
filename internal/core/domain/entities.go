package domain

import (
	"time"
)

// MarkerKind distinguishes how a marker came to exist.
type MarkerKind string

const (
	// MarkerUser is the single marker tracking the user's live position.
	MarkerUser MarkerKind = "user"
	// MarkerPlaced is a point of interest dropped by a map click.
	MarkerPlaced MarkerKind = "placed"
	// MarkerTrafficJam is synthesized by the traffic analyzer.
	MarkerTrafficJam MarkerKind = "traffic_jam"
)

// UserMarkerID is the fixed id of the user-position marker. Using a
// sentinel id guarantees position updates overwrite rather than duplicate.
const UserMarkerID = "user"

// Marker is a point annotation on the map.
type Marker struct {
	ID        string     `json:"id"`
	Position  GeoPoint   `json:"position"`
	Kind      MarkerKind `json:"kind"`
	CreatedAt time.Time  `json:"created_at"`
}

// Annotation is a user-drawn polygon or polyline overlay.
type Annotation struct {
	ID        string     `json:"id"`
	Vertices  []GeoPoint `json:"vertices"`
	CreatedAt time.Time  `json:"created_at"`
}

// RouteStatus is the lifecycle state of a route session.
type RouteStatus string

const (
	RouteIdle    RouteStatus = "idle"
	RoutePending RouteStatus = "pending"
	RouteActive  RouteStatus = "active"
	RouteFailed  RouteStatus = "failed"
)

// RouteSummary describes a computed route for display.
type RouteSummary struct {
	DistanceMeters  float64  `json:"distance_meters"`
	DurationSeconds float64  `json:"duration_seconds"`
	Instructions    []string `json:"instructions"`
}

// Route is one candidate returned by a routing provider.
type Route struct {
	Polyline []GeoPoint   `json:"polyline"`
	Summary  RouteSummary `json:"summary"`
}

// RouteSession tracks one origin-to-destination route computation.
// At most one session is pending or active per map view; its ID is a
// monotonic counter used to tag asynchronous traffic analysis runs so
// stale results can be discarded.
type RouteSession struct {
	ID          uint64        `json:"id"`
	Origin      GeoPoint      `json:"origin"`
	Destination GeoPoint      `json:"destination"`
	Status      RouteStatus   `json:"status"`
	Polyline    []GeoPoint    `json:"polyline,omitempty"`
	Summary     *RouteSummary `json:"summary,omitempty"`
}

// TrafficFlow is a point reading from a traffic provider. Speeds are
// pointers so a field the provider omitted stays distinguishable from
// zero; a sample missing either speed is never classified as congested.
type TrafficFlow struct {
	CurrentSpeed  *float64 `json:"current_speed,omitempty"`
	FreeFlowSpeed *float64 `json:"free_flow_speed,omitempty"`
}

// TrafficAlert is published when a route analysis completes.
// Fallback marks the synthetic always-show pin emitted when no jam
// was actually detected.
type TrafficAlert struct {
	SessionID uint64     `json:"session_id"`
	Jams      []GeoPoint `json:"jams"`
	Fallback  bool       `json:"fallback"`
	Time      time.Time  `json:"time"`
}

// Place is a geocoding search result.
type Place struct {
	Name     string   `json:"name"`
	Position GeoPoint `json:"position"`
}
