package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8070", cfg.HTTPListenAddr)
	assert.Equal(t, "http://localhost:5000", cfg.BackendAPIURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BACKEND_API_URL", "https://api.facultypedia.com")
	t.Setenv("CORS_ORIGINS", "https://admin.facultypedia.com, https://staging.facultypedia.com")
	t.Setenv("REQUEST_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.facultypedia.com", cfg.BackendAPIURL)
	assert.Equal(t, []string{"https://admin.facultypedia.com", "https://staging.facultypedia.com"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	content := "backend_api_url: https://file.example.com\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com", cfg.BackendAPIURL)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Env still wins over the file.
	t.Setenv("LOG_LEVEL", "warn")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{HTTPListenAddr: ":8070", BackendAPIURL: "http://localhost:5000"}
	require.NoError(t, cfg.Validate())

	cfg.BackendAPIURL = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BACKEND_API_URL")

	cfg.BackendAPIURL = "ftp://nope"
	require.Error(t, cfg.Validate())
}

func TestBackendWSURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://localhost:5000", "ws://localhost:5000"},
		{"https://api.facultypedia.com", "wss://api.facultypedia.com"},
		{"localhost:5000", "localhost:5000"},
	}
	for _, tt := range tests {
		cfg := &Config{BackendAPIURL: tt.in}
		assert.Equal(t, tt.want, cfg.BackendWSURL())
	}
}
