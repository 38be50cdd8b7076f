package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Environment string
	// logging
	LogLevel    string `toml:"log_level"`
	LogsPath    string `toml:"logs_path"`
	LogToStdout bool   `toml:"log_to_stdout"`
	// sentry / tracing
	SentryEnabled  bool `toml:"sentry_enabled"`
	TracingEnabled bool `toml:"tracing_enabled"`
	// database
	DBHost string `toml:"db_host"`
	DBPort string `toml:"db_port"`
	DBName string `toml:"db_name"`
	DBUser string `toml:"db_user"`
	// strava api
	APIBaseURL        string `toml:"api_base_url"`
	AuthURL           string `toml:"auth_url"`
	TokenURL          string `toml:"token_url"`
	PageSize          int    `toml:"page_size"`
	DetailFetchDelayS int    `toml:"detail_fetch_delay_seconds"`
	// geocoding
	GeocoderBaseURL    string `toml:"geocoder_base_url"`
	GeocoderCacheSize  int    `toml:"geocoder_cache_size_mb"`
	GeocoderUserAgent  string `toml:"geocoder_user_agent"`
	// outputs
	ChartsPath  string `toml:"charts_path"`
	BackupsPath string `toml:"backups_path"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}

	cfg.Environment = env

	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.DBUser == "" {
		cfg.DBUser = "postgres"
	}

	return cfg, nil
}

// Secrets are never written to the config file, they come from the
// environment only.
type Secrets struct {
	DBPassword   string `env:"STRAVATRACK_DB_PASSWORD"`
	ClientID     string `env:"STRAVATRACK_CLIENT_ID, required"`
	ClientSecret string `env:"STRAVATRACK_CLIENT_SECRET, required"`
	SentryDSN    string `env:"SENTRY_DSN"`
}

func LoadSecrets(ctx context.Context) (*Secrets, error) {
	var s Secrets
	if err := envconfig.Process(ctx, &s); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	return &s, nil
}
