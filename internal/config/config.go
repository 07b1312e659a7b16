// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	CacheDir    string
	DBPath      string
	ListenAddr  string
	GitHubToken string
	Format      string
	ExcludeBots bool
	LogLevel    slog.Level
}

// HasGitHubToken reports whether a token is available for sync.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// Load reads configuration from environment variables and returns a validated
// Config. A .env file in the working directory is loaded first; variables
// already set in the environment take precedence over it.
//
// Variables and defaults: REVIEWSIFT_CACHE_DIR (.data), REVIEWSIFT_DB_PATH
// (reviewsift.db), REVIEWSIFT_LISTEN_ADDR (127.0.0.1:8080),
// REVIEWSIFT_GITHUB_TOKEN (falls back to GITHUB_TOKEN), REVIEWSIFT_FORMAT
// (text), REVIEWSIFT_EXCLUDE_BOTS (false), REVIEWSIFT_LOG_LEVEL (info).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		CacheDir:   envOr("REVIEWSIFT_CACHE_DIR", ".data"),
		DBPath:     envOr("REVIEWSIFT_DB_PATH", "reviewsift.db"),
		ListenAddr: envOr("REVIEWSIFT_LISTEN_ADDR", "127.0.0.1:8080"),
		Format:     envOr("REVIEWSIFT_FORMAT", "text"),
		LogLevel:   slog.LevelInfo,
	}

	cfg.GitHubToken = os.Getenv("REVIEWSIFT_GITHUB_TOKEN")
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}

	if v, ok := os.LookupEnv("REVIEWSIFT_EXCLUDE_BOTS"); ok && v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("REVIEWSIFT_EXCLUDE_BOTS has invalid boolean %q: %w", v, err)
		}
		cfg.ExcludeBots = parsed
	}

	if v, ok := os.LookupEnv("REVIEWSIFT_LOG_LEVEL"); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("REVIEWSIFT_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
