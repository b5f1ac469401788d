package apidance

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/time/rate"
)

// Client is the top-level Apidance client. It holds no mutable state
// across calls; concurrent use from multiple goroutines is safe.
type Client struct {
	cfg     ClientConfig
	limiter *rate.Limiter
}

// NewClient creates a fully-wired client. Credential precedence: explicit
// config value, then environment (APIDANCE_API_KEY / X_AUTH_TOKEN).
func NewClient(cfg ClientConfig) (*Client, error) {
	cfg.resolveEnv()
	cfg.defaults()
	if cfg.APIKey == "" {
		return nil, &ConfigError{Name: EnvAPIKey}
	}
	return &Client{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}, nil
}

// authToken returns the session auth token, or a ConfigError for write
// operations when none is configured.
func (c *Client) authToken() (string, error) {
	if c.cfg.AuthToken == "" {
		return "", &ConfigError{Name: EnvAuthToken}
	}
	return c.cfg.AuthToken, nil
}

// recordAPICall calls the metrics hook if configured.
func (c *Client) recordAPICall(endpoint string, success, rateLimited bool) {
	if c.cfg.MetricsHook != nil {
		c.cfg.MetricsHook(endpoint, success, rateLimited)
	}
}

// CheckBalance returns the remaining request credits for the API key.
// The proxy answers this endpoint with the bare number as text.
func (c *Client) CheckBalance(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/key/"+c.cfg.APIKey, nil)
	if err != nil {
		return 0, fmt.Errorf("CheckBalance: %w", err)
	}
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return 0, &ConnectionError{Endpoint: "CheckBalance", Attempts: 1, Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("CheckBalance: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, &UpstreamError{Endpoint: "CheckBalance", Status: resp.StatusCode, Message: truncateBytes(body, 200)}
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(body)))
	if err != nil {
		return 0, &UpstreamError{Endpoint: "CheckBalance", Status: resp.StatusCode, Message: truncateBytes(body, 200)}
	}
	return n, nil
}
