package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
)

// Client implements ports.RoutingProvider against an OSRM HTTP backend
// (the public demo server by default).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an OSRM client. baseURL is the server root without
// the /route prefix, e.g. "https://router.project-osrm.org".
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type routeResponse struct {
	Code   string  `json:"code"`
	Routes []route `json:"routes"`
}

type route struct {
	Distance float64  `json:"distance"`
	Duration float64  `json:"duration"`
	Geometry geometry `json:"geometry"`
	Legs     []leg    `json:"legs"`
}

type geometry struct {
	// GeoJSON LineString: [lng, lat] pairs.
	Coordinates [][]float64 `json:"coordinates"`
}

type leg struct {
	Steps []step `json:"steps"`
}

type step struct {
	Name     string   `json:"name"`
	Distance float64  `json:"distance"`
	Maneuver maneuver `json:"maneuver"`
}

type maneuver struct {
	Type     string `json:"type"`
	Modifier string `json:"modifier"`
}

// ComputeRoute asks OSRM for driving routes between the two points. The
// full GeoJSON overview geometry becomes the session polyline, and
// per-step maneuvers are flattened into instruction strings.
func (c *Client) ComputeRoute(ctx context.Context, origin, destination domain.GeoPoint) ([]domain.Route, error) {
	// OSRM expects lng,lat;lng,lat coordinate order.
	url := fmt.Sprintf("%s/route/v1/driving/%.6f,%.6f;%.6f,%.6f?overview=full&geometries=geojson&steps=true",
		c.baseURL,
		origin.Lng, origin.Lat,
		destination.Lng, destination.Lat,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build osrm request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call osrm: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("osrm returned status %d", resp.StatusCode)
	}

	var body routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode osrm response: %w", err)
	}
	if body.Code != "Ok" {
		return nil, fmt.Errorf("osrm rejected the request: %s", body.Code)
	}

	out := make([]domain.Route, 0, len(body.Routes))
	for _, r := range body.Routes {
		out = append(out, domain.Route{
			Polyline: toPolyline(r.Geometry.Coordinates),
			Summary: domain.RouteSummary{
				DistanceMeters:  r.Distance,
				DurationSeconds: r.Duration,
				Instructions:    instructions(r.Legs),
			},
		})
	}
	return out, nil
}

func toPolyline(coords [][]float64) []domain.GeoPoint {
	line := make([]domain.GeoPoint, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		line = append(line, domain.GeoPoint{Lat: c[1], Lng: c[0]})
	}
	return line
}

// instructions renders one human-readable line per step.
func instructions(legs []leg) []string {
	var out []string
	for _, l := range legs {
		for _, s := range l.Steps {
			out = append(out, describeStep(s))
		}
	}
	return out
}

func describeStep(s step) string {
	var b strings.Builder
	switch s.Maneuver.Type {
	case "depart":
		b.WriteString("Depart")
	case "arrive":
		b.WriteString("Arrive")
	case "turn", "end of road", "fork":
		b.WriteString("Turn")
		if s.Maneuver.Modifier != "" {
			b.WriteString(" ")
			b.WriteString(s.Maneuver.Modifier)
		}
	case "roundabout", "rotary":
		b.WriteString("Take the roundabout")
	case "merge":
		b.WriteString("Merge")
	case "on ramp":
		b.WriteString("Take the ramp")
	case "off ramp":
		b.WriteString("Take the exit")
	default:
		b.WriteString("Continue")
		if s.Maneuver.Modifier != "" && s.Maneuver.Modifier != "straight" {
			b.WriteString(" ")
			b.WriteString(s.Maneuver.Modifier)
		}
	}
	if s.Name != "" {
		b.WriteString(" onto ")
		b.WriteString(s.Name)
	}
	if s.Distance > 0 && s.Maneuver.Type != "arrive" {
		fmt.Fprintf(&b, " (%.0fm)", s.Distance)
	}
	return b.String()
}
