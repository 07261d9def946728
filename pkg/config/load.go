package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values and validates the result. Environment variables
// are not consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Variables follow the naming convention
// PROXYPROBE_SECTION_FIELD (e.g., PROXYPROBE_TARGET_BASE_URL) and always take
// precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like LoadConfigWithEnvOverrides, except that a
// missing file yields the default configuration (with env overrides applied)
// instead of an error. One-shot checks work without any file on disk.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		applyEnvOverrides(cfg)
		if err := Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
		}
		return cfg, nil
	}
	return LoadConfigWithEnvOverrides(path)
}

// applyEnvOverrides applies PROXYPROBE_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	// Target overrides
	if val := os.Getenv("PROXYPROBE_TARGET_BASE_URL"); val != "" {
		cfg.Target.BaseURL = val
	}
	if val := os.Getenv("PROXYPROBE_TARGET_API_KEY"); val != "" {
		cfg.Target.APIKey = val
	}
	if val := os.Getenv("PROXYPROBE_TARGET_PROVIDER"); val != "" {
		cfg.Target.Provider = val
	}
	if val := os.Getenv("PROXYPROBE_TARGET_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Target.Timeout = d
		}
	}

	// Check overrides
	if val := os.Getenv("PROXYPROBE_CHECKS_MODEL"); val != "" {
		cfg.Checks.Model = val
	}
	if val := os.Getenv("PROXYPROBE_CHECKS_MAX_TOKENS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Checks.MaxTokens = i
		}
	}

	// Monitor overrides
	if val := os.Getenv("PROXYPROBE_MONITOR_SCHEDULE"); val != "" {
		cfg.Monitor.Schedule = val
	}
	if val := os.Getenv("PROXYPROBE_MONITOR_LISTEN_ADDRESS"); val != "" {
		cfg.Monitor.ListenAddress = val
	}
	if val := os.Getenv("PROXYPROBE_MONITOR_WATCH_CONFIG"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Monitor.WatchConfig = Bool(b)
		}
	}

	// History overrides
	if val := os.Getenv("PROXYPROBE_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("PROXYPROBE_HISTORY_PATH"); val != "" {
		cfg.History.Path = val
	}

	// Telemetry overrides
	if val := os.Getenv("PROXYPROBE_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("PROXYPROBE_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("PROXYPROBE_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = Bool(b)
		}
	}
}
