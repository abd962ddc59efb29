// Package config handles configuration loading for finbrief.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Finnhub FinnhubConfig `mapstructure:"finnhub" yaml:"finnhub"`
	API     APIConfig     `mapstructure:"api"     yaml:"api"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// FinnhubConfig holds the upstream market-data provider settings.
type FinnhubConfig struct {
	APIKey     string `mapstructure:"api_key"     yaml:"api_key"`
	BaseURL    string `mapstructure:"base_url"    yaml:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"` // per upstream call
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level          string `mapstructure:"level"            yaml:"level"`  // "debug", "info", "warn", "error"
	Format         string `mapstructure:"format"           yaml:"format"` // "text" or "json"
	FileEnabled    bool   `mapstructure:"file_enabled"     yaml:"file_enabled"`
	FilePath       string `mapstructure:"file_path"        yaml:"file_path"`
	RotationSizeMB int    `mapstructure:"rotation_size_mb" yaml:"rotation_size_mb"`
	RetentionDays  int    `mapstructure:"retention_days"   yaml:"retention_days"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.finbrief/config.yaml (home directory)
//  3. /etc/finbrief/config.yaml (system)
//
// Environment variables override config file values.
// Format: FINBRIEF_<SECTION>_<KEY>, e.g., FINBRIEF_FINNHUB_API_KEY.
// The bare FINNHUB_KEY variable is also honored for the API key.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".finbrief"))
	v.AddConfigPath("/etc/finbrief")

	// Environment variable settings
	v.SetEnvPrefix("FINBRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Override sensitive values from environment
	overrideFromEnv(&cfg)

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("FINBRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.Finnhub.APIKey == "" {
		return fmt.Errorf("finnhub API key is not set (set FINNHUB_KEY or finnhub.api_key in config)")
	}
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("invalid api port: %d", c.API.Port)
	}
	return nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Finnhub defaults
	v.SetDefault("finnhub.base_url", "https://finnhub.io/api/v1")
	v.SetDefault("finnhub.timeout_sec", 10)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file_enabled", false)
	v.SetDefault("logging.file_path", "logs")
	v.SetDefault("logging.rotation_size_mb", 10)
	v.SetDefault("logging.retention_days", 7)
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
// FINNHUB_KEY is the deployment contract inherited from the original service;
// the prefixed form wins when both are set.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("FINNHUB_KEY"); key != "" {
		cfg.Finnhub.APIKey = key
	}
	if key := os.Getenv("FINBRIEF_FINNHUB_API_KEY"); key != "" {
		cfg.Finnhub.APIKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
