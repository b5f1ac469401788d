package apidance

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables the client reads when config fields are blank.
const (
	EnvAPIKey    = "APIDANCE_API_KEY"
	EnvAuthToken = "X_AUTH_TOKEN"
)

// ClientConfig holds all configuration for the Apidance client.
type ClientConfig struct {
	// APIKey is the Apidance API key. Falls back to APIDANCE_API_KEY.
	APIKey string

	// AuthToken is the Twitter session auth token required by write
	// operations (CreateTweet, CreateNoteTweet, FavoriteTweet).
	// Falls back to X_AUTH_TOKEN.
	AuthToken string

	// BaseURL overrides the proxy base URL. Default: https://api.apidance.pro
	BaseURL string

	// HTTPClient overrides the transport. Default: 15s overall timeout.
	HTTPClient *http.Client

	// MaxAttempts is the total request budget when the proxy keeps
	// rate-limiting (429 or local_rate_limited).
	MaxAttempts int

	// ConnAttempts is the total request budget for transport failures.
	ConnAttempts int

	// Backoff controls the wait between retries.
	Backoff BackoffConfig

	// RequestsPerSecond and Burst configure the local pacing limiter that
	// keeps the client under the proxy's own soft limit.
	RequestsPerSecond float64
	Burst             int

	// MetricsHook is called on each API request for external metrics collection.
	// endpoint is the operation name, success and rateLimited indicate the outcome.
	MetricsHook func(endpoint string, success, rateLimited bool)
}

// defaults fills in zero-value config fields with sensible defaults.
func (cfg *ClientConfig) defaults() {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.ConnAttempts == 0 {
		cfg.ConnAttempts = 2
	}
	if cfg.Backoff == (BackoffConfig{}) {
		cfg.Backoff = defaultBackoff
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.Burst == 0 {
		cfg.Burst = 5
	}
}

// resolveEnv fills blank credentials from the environment, reading a .env
// file first if one exists. Explicit config values always win.
func (cfg *ClientConfig) resolveEnv() {
	_ = godotenv.Load()
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(EnvAPIKey)
	}
	if cfg.AuthToken == "" {
		cfg.AuthToken = os.Getenv(EnvAuthToken)
	}
}

// fileConfig is the YAML shape of a config file.
type fileConfig struct {
	APIKey            string  `yaml:"apiKey"`
	AuthToken         string  `yaml:"authToken"`
	BaseURL           string  `yaml:"baseURL"`
	MaxAttempts       int     `yaml:"maxAttempts"`
	ConnAttempts      int     `yaml:"connAttempts"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
}

// LoadConfigFile reads a YAML config file into a ClientConfig. Blank
// fields are later filled from the environment by NewClient.
func LoadConfigFile(path string) (ClientConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return ClientConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return ClientConfig{
		APIKey:            fc.APIKey,
		AuthToken:         fc.AuthToken,
		BaseURL:           fc.BaseURL,
		MaxAttempts:       fc.MaxAttempts,
		ConnAttempts:      fc.ConnAttempts,
		RequestsPerSecond: fc.RequestsPerSecond,
		Burst:             fc.Burst,
	}, nil
}
