package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Map         MapConfig         `mapstructure:"map"`
	Routing     RoutingConfig     `mapstructure:"routing"`
	Traffic     TrafficConfig     `mapstructure:"traffic"`
	Geocoding   GeocodingConfig   `mapstructure:"geocoding"`
	Geolocation GeolocationConfig `mapstructure:"geolocation"`
	NATS        NATSConfig        `mapstructure:"nats"`
	Valkey      ValkeyConfig      `mapstructure:"valkey"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// MapConfig controls interaction semantics of the map view.
type MapConfig struct {
	// ClickMode is what a click on an existing marker does:
	// "select" or "delete".
	ClickMode string `mapstructure:"click_mode"`
}

type RoutingConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	CacheTTL       int    `mapstructure:"cache_ttl"`
}

type TrafficConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	Zoom           int    `mapstructure:"zoom"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	CacheTTL       int    `mapstructure:"cache_ttl"`

	// SampleStride is the polyline sampling cadence: every n-th vertex
	// is checked against the flow API. Bounds the number of external
	// queries on long routes.
	SampleStride int `mapstructure:"sample_stride"`

	// CongestionRatio classifies a sample as congested when
	// currentSpeed < freeFlowSpeed * ratio.
	CongestionRatio float64 `mapstructure:"congestion_ratio"`

	// AlwaysPin keeps the legacy behavior of dropping one jam pin at the
	// fallback coordinate when an analysis finds no congestion, so the
	// map always shows a result. Off means no pin and no alert.
	AlwaysPin   bool    `mapstructure:"always_pin"`
	FallbackLat float64 `mapstructure:"fallback_lat"`
	FallbackLng float64 `mapstructure:"fallback_lng"`
}

type GeocodingConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	CacheTTL       int    `mapstructure:"cache_ttl"`
}

type GeolocationConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("map.click_mode", "select")
	v.SetDefault("routing.base_url", "https://router.project-osrm.org")
	v.SetDefault("routing.timeout_seconds", 15)
	v.SetDefault("routing.cache_ttl", 60)
	v.SetDefault("traffic.base_url", "https://api.tomtom.com/traffic/services/4/flowSegmentData/absolute")
	v.SetDefault("traffic.api_key", "")
	v.SetDefault("traffic.zoom", 10)
	v.SetDefault("traffic.timeout_seconds", 10)
	v.SetDefault("traffic.cache_ttl", 30)
	v.SetDefault("traffic.sample_stride", 5)
	v.SetDefault("traffic.congestion_ratio", 0.7)
	v.SetDefault("traffic.always_pin", true)
	// El Jadida plain; the historic always-show pin location.
	v.SetDefault("traffic.fallback_lat", 33.242113)
	v.SetDefault("traffic.fallback_lng", -8.498215)
	v.SetDefault("geocoding.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoding.timeout_seconds", 10)
	v.SetDefault("geocoding.cache_ttl", 3600)
	v.SetDefault("geolocation.base_url", "http://ip-api.com")
	v.SetDefault("geolocation.timeout_seconds", 5)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: OPTIWAY_TRAFFIC_API_KEY → traffic.api_key
	v.SetEnvPrefix("OPTIWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Map.ClickMode != "select" && c.Map.ClickMode != "delete" {
		errs = append(errs, fmt.Sprintf("map.click_mode must be select or delete, got %q", c.Map.ClickMode))
	}
	if c.Routing.BaseURL == "" {
		errs = append(errs, "routing.base_url is required")
	}
	if c.Traffic.BaseURL == "" {
		errs = append(errs, "traffic.base_url is required")
	}
	if c.Traffic.SampleStride <= 0 {
		errs = append(errs, "traffic.sample_stride must be positive")
	}
	if c.Traffic.CongestionRatio <= 0 || c.Traffic.CongestionRatio >= 1 {
		errs = append(errs, fmt.Sprintf("traffic.congestion_ratio must be in (0, 1), got %g", c.Traffic.CongestionRatio))
	}
	if c.Geocoding.BaseURL == "" {
		errs = append(errs, "geocoding.base_url is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
