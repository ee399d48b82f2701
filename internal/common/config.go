// Package common provides shared utilities for partygate
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/partygate/internal/models"
)

// Config holds all configuration for partygate
type Config struct {
	Environment string           `toml:"environment"`
	Server      ServerConfig     `toml:"server"`
	Storage     StorageConfig    `toml:"storage"`
	Clients     ClientsConfig    `toml:"clients"`
	Thresholds  ThresholdsConfig `toml:"thresholds"`
	Logging     LoggingConfig    `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds the settings-store path and version retention.
type StorageConfig struct {
	Path     string `toml:"path"`
	Versions int    `toml:"versions"` // rotated backups kept per file
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	FFLogs FFLogsConfig `toml:"fflogs"`
}

// FFLogsConfig holds logs-API client configuration
type FFLogsConfig struct {
	APIURL       string             `toml:"api_url"`
	TokenURL     string             `toml:"token_url"`
	ClientID     string             `toml:"client_id"`
	ClientSecret string             `toml:"client_secret"`
	RateLimit    int                `toml:"rate_limit"` // requests per second
	Timeout      string             `toml:"timeout"`
	CacheEnabled bool               `toml:"cache_enabled"`
	Zones        []models.ZoneQuery `toml:"zones"` // zone/difficulty pairs for dashboard fetches
}

// GetTimeout parses and returns the timeout duration
func (c *FFLogsConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ThresholdsConfig holds threshold-engine configuration and settings defaults.
type ThresholdsConfig struct {
	PollInterval string                   `toml:"poll_interval"` // 0 or empty disables the scheduler
	Settings     models.ThresholdSettings `toml:"settings"`
}

// GetPollInterval parses the scheduler interval. Zero disables scheduling.
func (c *ThresholdsConfig) GetPollInterval() time.Duration {
	if c.PollInterval == "" || c.PollInterval == "0" {
		return 0
	}
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8710,
		},
		Storage: StorageConfig{
			Path:     "data",
			Versions: 2,
		},
		Clients: ClientsConfig{
			FFLogs: FFLogsConfig{
				APIURL:       "https://www.fflogs.com/api/v2/client",
				TokenURL:     "https://www.fflogs.com/oauth/token",
				RateLimit:    4,
				Timeout:      "30s",
				CacheEnabled: true,
				Zones: []models.ZoneQuery{
					{ZoneID: 68, DifficultyID: 101}, // current savage tier
					{ZoneID: 65, DifficultyID: 100}, // ultimates
				},
			},
		},
		Thresholds: ThresholdsConfig{
			PollInterval: "30s",
			Settings: models.ThresholdSettings{
				EnableChecking:    true,
				CheckOnRosterJoin: true,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PARTYGATE_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("PARTYGATE_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("PARTYGATE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("PARTYGATE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("PARTYGATE_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if v := os.Getenv("PARTYGATE_FFLOGS_CLIENT_ID"); v != "" {
		config.Clients.FFLogs.ClientID = v
	}
	if v := os.Getenv("PARTYGATE_FFLOGS_CLIENT_SECRET"); v != "" {
		config.Clients.FFLogs.ClientSecret = v
	}
	if v := os.Getenv("PARTYGATE_FFLOGS_API_URL"); v != "" {
		config.Clients.FFLogs.APIURL = v
	}
	if v := os.Getenv("PARTYGATE_FFLOGS_TOKEN_URL"); v != "" {
		config.Clients.FFLogs.TokenURL = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
