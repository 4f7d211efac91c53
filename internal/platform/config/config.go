// Package config loads application configuration from the environment so main
// stays lean. A .env file is honored in development but never overrides real
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAddr          = ":4545"
	defaultCutoffHour    = 4
	defaultTimezone      = "America/Chicago"
	defaultSyncCron      = "*/15 * * * *"
	defaultLookbackDays  = 3
	defaultSyncStartDate = "2025-01-01"
)

// Config holds everything the server and the fullsync CLI need.
type Config struct {
	Addr        string
	DatabaseURL string
	Environment string

	TogglToken  string
	WorkspaceID string

	// Day bucketing: entries before CutoffHour local time count toward the
	// previous calendar day.
	CutoffHour int
	Timezone   string

	SyncCron         string
	SyncLookbackDays int
	SyncStartDate    time.Time

	// Cloudflare Access service-token auth for /sync routes.
	CFAccessClientID     string
	CFAccessClientSecret string
	CFCheck              bool
}

// Load reads configuration from environment variables, failing fast on
// missing or malformed required values.
func Load() (*Config, error) {
	// Errors are ignored if the file doesn't exist.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:             getEnv("ADDR", defaultAddr),
		Environment:      getEnv("ENVIRONMENT", "development"),
		Timezone:         getEnv("TIMEZONE", defaultTimezone),
		SyncCron:         getEnv("SYNC_CRON", defaultSyncCron),
		CutoffHour:       defaultCutoffHour,
		SyncLookbackDays: defaultLookbackDays,
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.TogglToken = os.Getenv("TOGGL_TOKEN")
	if cfg.TogglToken == "" {
		return nil, fmt.Errorf("TOGGL_TOKEN is not set")
	}

	cfg.WorkspaceID = os.Getenv("WORKSPACE_ID")
	if cfg.WorkspaceID == "" {
		return nil, fmt.Errorf("WORKSPACE_ID is not set")
	}

	if v := os.Getenv("DAY_CUTOFF_HOUR"); v != "" {
		hour, err := strconv.Atoi(v)
		if err != nil || hour < 0 || hour > 23 {
			return nil, fmt.Errorf("invalid DAY_CUTOFF_HOUR %q: must be an integer in [0,23]", v)
		}
		cfg.CutoffHour = hour
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	if v := os.Getenv("SYNC_LOOKBACK_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 1 {
			return nil, fmt.Errorf("invalid SYNC_LOOKBACK_DAYS %q", v)
		}
		cfg.SyncLookbackDays = days
	}

	startStr := getEnv("SYNC_START_DATE", defaultSyncStartDate)
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_START_DATE %q: %w", startStr, err)
	}
	cfg.SyncStartDate = start

	cfg.CFAccessClientID = os.Getenv("CF_ACCESS_CLIENT_ID")
	cfg.CFAccessClientSecret = os.Getenv("CF_ACCESS_CLIENT_SECRET")
	cfg.CFCheck = getEnv("CF_CHECK", "true") == "true"
	if cfg.CFCheck && (cfg.CFAccessClientID == "" || cfg.CFAccessClientSecret == "") {
		return nil, fmt.Errorf("CF_ACCESS_CLIENT_ID and CF_ACCESS_CLIENT_SECRET must be set when CF_CHECK is enabled")
	}

	return cfg, nil
}

// Location resolves the configured timezone. Load already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
