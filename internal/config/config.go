// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"diabetracker/internal/logger"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Store selects the persistence backend.
type Store string

const (
	StoreSQLite   Store = "sqlite"
	StorePostgres Store = "postgres"
	StoreMemory   Store = "memory"
)

type (
	Config struct {
		HTTP
		Database
		Auth
		OIDC
		Dashboard
		Logger logger.Config
	}

	HTTP struct {
		Addr        string
		DisableAuth bool
	}
	Database struct {
		Store      Store
		SQLitePath string
		URL        string
	}
	Auth struct {
		SessionTTL           time.Duration
		SessionPurgeSchedule string
		OwnerEmail           string
	}
	OIDC struct {
		Issuer       string
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}
	Dashboard struct {
		Workers int
	}
)

// Enabled reports whether SSO is fully configured.
func (o OIDC) Enabled() bool {
	return o.Issuer != "" && o.ClientID != "" && o.RedirectURL != ""
}

// Load reads the configuration from environment variables and validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("addr", ":8080")
	v.SetDefault("disable_auth", false)
	v.SetDefault("store", string(StoreSQLite))
	v.SetDefault("sqlite_path", "./data/diabetracker.db")
	v.SetDefault("database_url", "")
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("session_purge_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("owner_email", "")
	v.SetDefault("workers", 4)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_output", "stdout")

	cfg := &Config{
		HTTP: HTTP{
			Addr:        v.GetString("ADDR"),
			DisableAuth: v.GetBool("DISABLE_AUTH"),
		},
		Database: Database{
			Store:      Store(strings.ToLower(v.GetString("STORE"))),
			SQLitePath: v.GetString("SQLITE_PATH"),
			URL:        v.GetString("DATABASE_URL"),
		},
		Auth: Auth{
			SessionTTL:           v.GetDuration("SESSION_TTL"),
			SessionPurgeSchedule: v.GetString("SESSION_PURGE_SCHEDULE"),
			OwnerEmail:           v.GetString("OWNER_EMAIL"),
		},
		OIDC: OIDC{
			Issuer:       v.GetString("OIDC_ISSUER"),
			ClientID:     v.GetString("OIDC_CLIENT_ID"),
			ClientSecret: v.GetString("OIDC_CLIENT_SECRET"),
			RedirectURL:  v.GetString("OIDC_REDIRECT_URL"),
		},
		Dashboard: Dashboard{
			Workers: v.GetInt("WORKERS"),
		},
		Logger: logger.Config{
			Level:      v.GetString("LOG_LEVEL"),
			Format:     v.GetString("LOG_FORMAT"),
			OutputPath: v.GetString("LOG_OUTPUT"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite store")
		}
	case StorePostgres:
		if c.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE %q (want sqlite, postgres or memory)", c.Store)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Workers < 1 {
		return fmt.Errorf("WORKERS must be at least 1")
	}
	if _, err := cron.ParseStandard(c.SessionPurgeSchedule); err != nil {
		return fmt.Errorf("invalid SESSION_PURGE_SCHEDULE %q: %w", c.SessionPurgeSchedule, err)
	}
	return nil
}
