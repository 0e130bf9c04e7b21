package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// FreightAPIURL is the base URL of the remote freight backend that owns
	// every entity this application renders.
	FreightAPIURL     string        `envconfig:"FREIGHT_API_URL" default:"http://127.0.0.1:4000/api"`
	FreightAPITimeout time.Duration `envconfig:"FREIGHT_API_TIMEOUT" default:"20s"`
	// FreightAPIServiceToken authenticates background workers, which have no
	// user session to borrow a token from.
	FreightAPIServiceToken string `envconfig:"FREIGHT_API_SERVICE_TOKEN"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	CSRFSecret string `envconfig:"CSRF_SECRET" required:"true"`

	// Public Nominatim-compatible endpoint; no API key, rate-sensitive.
	GeocoderURL      string        `envconfig:"GEOCODER_URL" default:"https://nominatim.openstreetmap.org"`
	GeocoderTimeout  time.Duration `envconfig:"GEOCODER_TIMEOUT" default:"10s"`
	GeocoderDebounce time.Duration `envconfig:"GEOCODER_DEBOUNCE" default:"500ms"`

	// PSGC-compatible administrative boundary service (province/city/barangay).
	BoundaryURL string `envconfig:"BOUNDARY_URL" default:"https://psgc.gitlab.io/api"`

	GotenbergURL string `envconfig:"GOTENBERG_URL" default:"http://127.0.0.1:3000"`

	NotificationPollEvery time.Duration `envconfig:"NOTIFICATION_POLL_EVERY" default:"30s"`
	CollectionCacheTTL    time.Duration `envconfig:"COLLECTION_CACHE_TTL" default:"5m"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("session secret must be provided")
	}
	if cfg.CSRFSecret == "" {
		return nil, errors.New("csrf secret must be provided")
	}
	if cfg.FreightAPIURL == "" {
		return nil, errors.New("freight API base URL must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
