package apidance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClient_ExplicitKeyWinsOverEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")

	c, err := NewClient(ClientConfig{APIKey: "explicit-key"})
	require.NoError(t, err)
	require.Equal(t, "explicit-key", c.cfg.APIKey)
}

func TestNewClient_EnvFallback(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvAuthToken, "env-token")

	c, err := NewClient(ClientConfig{})
	require.NoError(t, err)
	require.Equal(t, "env-key", c.cfg.APIKey)
	require.Equal(t, "env-token", c.cfg.AuthToken)
}

func TestNewClient_MissingKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	_, err := NewClient(ClientConfig{})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, EnvAPIKey, cfgErr.Name)
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(ClientConfig{APIKey: "k"})
	require.NoError(t, err)
	require.Equal(t, defaultBaseURL, c.cfg.BaseURL)
	require.Equal(t, 3, c.cfg.MaxAttempts)
	require.Equal(t, 2, c.cfg.ConnAttempts)
	require.Equal(t, defaultBackoff, c.cfg.Backoff)
	require.NotNil(t, c.cfg.HTTPClient)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apidance.yaml")
	data := `apiKey: file-key
authToken: file-token
baseURL: https://proxy.example.com
maxAttempts: 5
requestsPerSecond: 0.5
burst: 2
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.Equal(t, "file-key", cfg.APIKey)
	require.Equal(t, "file-token", cfg.AuthToken)
	require.Equal(t, "https://proxy.example.com", cfg.BaseURL)
	require.Equal(t, 5, cfg.MaxAttempts)
	require.Equal(t, 0.5, cfg.RequestsPerSecond)
	require.Equal(t, 2, cfg.Burst)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfigFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("apiKey: [broken"), 0o600))

	_, err := LoadConfigFile(path)
	require.Error(t, err)
}
