package tomtom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
)

// Client implements ports.TrafficProvider against the TomTom Flow
// Segment Data API. Each query resolves the road segment closest to one
// point and reports its current versus free-flow speed.
type Client struct {
	baseURL    string
	apiKey     string
	zoom       int
	httpClient *http.Client
}

// NewClient creates a TomTom flow client. baseURL is the API root, e.g.
// "https://api.tomtom.com/traffic/services/4/flowSegmentData/absolute".
func NewClient(baseURL, apiKey string, zoom int, timeout time.Duration) *Client {
	if zoom <= 0 {
		zoom = 10
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		zoom:       zoom,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type flowResponse struct {
	FlowSegmentData flowSegmentData `json:"flowSegmentData"`
}

type flowSegmentData struct {
	CurrentSpeed  *float64 `json:"currentSpeed"`
	FreeFlowSpeed *float64 `json:"freeFlowSpeed"`
	Confidence    *float64 `json:"confidence"`
	RoadClosure   bool     `json:"roadClosure"`
}

// QueryFlow fetches the flow reading for the segment nearest to point.
// Missing speed fields stay nil so the caller can refuse to classify.
func (c *Client) QueryFlow(ctx context.Context, point domain.GeoPoint) (*domain.TrafficFlow, error) {
	q := url.Values{}
	q.Set("point", fmt.Sprintf("%.6f,%.6f", point.Lat, point.Lng))
	q.Set("unit", "KMPH")
	q.Set("key", c.apiKey)
	reqURL := fmt.Sprintf("%s/%d/json?%s", c.baseURL, c.zoom, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build tomtom request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call tomtom: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: tomtom returned status %d", domain.ErrTrafficQueryFailed, resp.StatusCode)
	}

	var body flowResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode tomtom response: %w", err)
	}

	return &domain.TrafficFlow{
		CurrentSpeed:  body.FlowSegmentData.CurrentSpeed,
		FreeFlowSpeed: body.FlowSegmentData.FreeFlowSpeed,
	}, nil
}
