// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr         string
	DBPath             string
	GitHubToken        string
	GitHubClientID     string
	GitHubClientSecret string
	GeminiAPIKey       string
	MCPOrigin          string
	ShutdownTimeout    time.Duration
}

// HasOAuthCredentials returns true when both the GitHub OAuth client ID and
// secret are set. Used by the composition root to decide whether the GitHub
// login endpoint is backed by a real exchanger or disabled.
func (c *Config) HasOAuthCredentials() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// Load reads configuration from environment variables and returns a validated
// Config. All credentials are optional; missing ones disable the feature they
// back (service-token repository fetches, GitHub login, AI insights, the MCP
// proxy) rather than failing startup. Optional variables with defaults:
// MERIDIAN_LISTEN_ADDR (127.0.0.1:8080), MERIDIAN_DB_PATH (meridian.db),
// MERIDIAN_SHUTDOWN_TIMEOUT (10s).
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("MERIDIAN_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "meridian.db"
	if v, ok := os.LookupEnv("MERIDIAN_DB_PATH"); ok {
		dbPath = v
	}

	shutdownTimeout := 10 * time.Second
	if v, ok := os.LookupEnv("MERIDIAN_SHUTDOWN_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("MERIDIAN_SHUTDOWN_TIMEOUT has invalid duration %q: %w", v, err)
		}
		shutdownTimeout = parsed
	}

	clientID := os.Getenv("MERIDIAN_GITHUB_CLIENT_ID")
	clientSecret := os.Getenv("MERIDIAN_GITHUB_CLIENT_SECRET")
	if (clientID == "") != (clientSecret == "") {
		return nil, fmt.Errorf("MERIDIAN_GITHUB_CLIENT_ID and MERIDIAN_GITHUB_CLIENT_SECRET must be set together")
	}

	mcpOrigin := os.Getenv("MERIDIAN_MCP_ORIGIN")
	if mcpOrigin != "" {
		u, err := url.Parse(mcpOrigin)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return nil, fmt.Errorf("MERIDIAN_MCP_ORIGIN must be an http(s) URL, got %q", mcpOrigin)
		}
		mcpOrigin = strings.TrimSuffix(mcpOrigin, "/")
	}

	return &Config{
		ListenAddr:         listenAddr,
		DBPath:             dbPath,
		GitHubToken:        os.Getenv("MERIDIAN_GITHUB_TOKEN"),
		GitHubClientID:     clientID,
		GitHubClientSecret: clientSecret,
		GeminiAPIKey:       os.Getenv("MERIDIAN_GEMINI_API_KEY"),
		MCPOrigin:          mcpOrigin,
		ShutdownTimeout:    shutdownTimeout,
	}, nil
}
