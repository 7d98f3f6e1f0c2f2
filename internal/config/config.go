package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the gateway's runtime configuration. Values come from the
// environment, optionally pre-loaded from a YAML file named by CONFIG_FILE;
// environment variables win over file values.
type Config struct {
	HTTPListenAddr string        `yaml:"listen_addr"`
	BackendAPIURL  string        `yaml:"backend_api_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogLevel       string        `yaml:"log_level"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	StateDir       string        `yaml:"state_dir"`

	// Optional super-admin credentials used to re-establish a backend
	// session automatically after a 401 clears it.
	SuperAdminEmail    string `yaml:"superadmin_email"`
	SuperAdminPassword string `yaml:"superadmin_password"`
}

const defaultRequestTimeout = 30 * time.Second

func Load() (*Config, error) {
	cfg := &Config{
		HTTPListenAddr: ":8070",
		BackendAPIURL:  "http://localhost:5000",
		RequestTimeout: defaultRequestTimeout,
		LogLevel:       "info",
		CORSOrigins:    []string{"http://localhost:3000"},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.HTTPListenAddr = getEnv("HTTP_LISTEN_ADDR", cfg.HTTPListenAddr)
	cfg.BackendAPIURL = getEnv("BACKEND_API_URL", cfg.BackendAPIURL)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.StateDir = getEnv("STATE_DIR", cfg.StateDir)
	cfg.SuperAdminEmail = getEnv("SUPERADMIN_EMAIL", cfg.SuperAdminEmail)
	cfg.SuperAdminPassword = getEnv("SUPERADMIN_PASSWORD", cfg.SuperAdminPassword)

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, trimmed)
			}
		}
	}

	if timeout := os.Getenv("REQUEST_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var missing []string
	if c.BackendAPIURL == "" {
		missing = append(missing, "BACKEND_API_URL")
	}
	if c.HTTPListenAddr == "" {
		missing = append(missing, "HTTP_LISTEN_ADDR")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	if !strings.HasPrefix(c.BackendAPIURL, "http://") && !strings.HasPrefix(c.BackendAPIURL, "https://") {
		return fmt.Errorf("BACKEND_API_URL must be an http(s) URL")
	}
	return nil
}

// BackendWSURL returns the backend API URL with the scheme changed to ws(s).
func (c *Config) BackendWSURL() string {
	u := c.BackendAPIURL
	if strings.HasPrefix(u, "https://") {
		return "wss://" + u[len("https://"):]
	}
	if strings.HasPrefix(u, "http://") {
		return "ws://" + u[len("http://"):]
	}
	return u
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
