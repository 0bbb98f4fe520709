package ipapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
)

// Client implements ports.GeolocationProvider against ip-api.com. With
// an empty hint the service locates the caller's own public IP, which
// is the "where am I" the map needs on startup.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type lookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Locate resolves an IP (or the caller's own, when hint is empty) to a
// coordinate. Every failure maps to ErrGeolocationUnavailable so the
// caller can treat "no fix" uniformly.
func (c *Client) Locate(ctx context.Context, hint string) (*domain.GeoPoint, error) {
	reqURL := c.baseURL + "/json/"
	if hint != "" {
		reqURL += hint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build geolocation request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeolocationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrGeolocationUnavailable, resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeolocationUnavailable, err)
	}
	if body.Status != "success" {
		return nil, fmt.Errorf("%w: %s", domain.ErrGeolocationUnavailable, body.Message)
	}

	return &domain.GeoPoint{Lat: body.Lat, Lng: body.Lon}, nil
}
