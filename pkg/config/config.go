package config

import "time"

// Config is the root configuration structure for proxyprobe.
// It describes the target proxy server, the check suite inputs, the optional
// monitor mode, run history storage, and telemetry settings.
type Config struct {
	// Target describes the AI-proxy server under test.
	Target TargetConfig `yaml:"target"`

	// Checks contains the inputs used by the check suite (model, prompts,
	// token bounds).
	Checks ChecksConfig `yaml:"checks"`

	// Monitor contains configuration for scheduled monitor mode.
	Monitor MonitorConfig `yaml:"monitor"`

	// History contains configuration for the run history store.
	History HistoryConfig `yaml:"history"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// TargetConfig describes one AI-proxy server. Checks receive this structure
// explicitly, so the same suite can run against different targets in tests.
type TargetConfig struct {
	// BaseURL is the base address of the proxy under test.
	// Default: "http://localhost:3000"
	BaseURL string `yaml:"base_url"`

	// APIKey is the bearer token for authenticated endpoints.
	// Default: "test-key-123"
	APIKey string `yaml:"api_key"`

	// Provider is the value of the X-Model-Provider header, selecting which
	// backend integration the proxy routes requests to.
	// Default: "kiro-api"
	Provider string `yaml:"provider"`

	// Timeout bounds every request, including streaming reads. A bounded
	// wait keeps an unresponsive target from hanging the run.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// MaxIdleConns is the HTTP connection pool size.
	// Default: 10
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the per-host connection pool size.
	// Default: 10
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long idle connections stay pooled.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// ChecksConfig contains the request inputs for the check suite.
type ChecksConfig struct {
	// Model is the model identifier sent on completion requests.
	// Default: "claude-3-sonnet-20240229"
	Model string `yaml:"model"`

	// MaxTokens is the output token bound for completion checks.
	// Default: 100
	MaxTokens int `yaml:"max_tokens"`

	// UserPrompt is the message for the non-streaming completion check.
	UserPrompt string `yaml:"user_prompt"`

	// StreamPrompt is the message for the streaming completion check.
	StreamPrompt string `yaml:"stream_prompt"`

	// SystemPrompt is the instructional message for the system-prompt check.
	SystemPrompt string `yaml:"system_prompt"`

	// SystemUserPrompt is the user message paired with SystemPrompt.
	SystemUserPrompt string `yaml:"system_user_prompt"`

	// SystemMaxTokens is the output token bound for the system-prompt check.
	// Default: 150
	SystemMaxTokens int `yaml:"system_max_tokens"`
}

// MonitorConfig contains configuration for monitor mode, which runs the
// check suite on a schedule and exposes Prometheus metrics.
type MonitorConfig struct {
	// Schedule is a standard cron expression for suite runs.
	// Default: "*/5 * * * *" (every five minutes)
	Schedule string `yaml:"schedule"`

	// ListenAddress is the address for the metrics HTTP endpoint.
	// Default: "127.0.0.1:9430"
	ListenAddress string `yaml:"listen_address"`

	// RunOnStart triggers one suite run immediately on startup, before the
	// first scheduled tick. Unset means true.
	RunOnStart *bool `yaml:"run_on_start"`

	// WatchConfig reloads the configuration file when it changes on disk.
	// The new target takes effect on the next scheduled run. Unset means true.
	WatchConfig *bool `yaml:"watch_config"`
}

// RunOnStartEnabled reports the RunOnStart setting, defaulting to true when
// unset.
func (m MonitorConfig) RunOnStartEnabled() bool {
	if m.RunOnStart == nil {
		return DefaultMonitorRunOnStart
	}
	return *m.RunOnStart
}

// WatchConfigEnabled reports the WatchConfig setting, defaulting to true when
// unset.
func (m MonitorConfig) WatchConfigEnabled() bool {
	if m.WatchConfig == nil {
		return DefaultMonitorWatchConfig
	}
	return *m.WatchConfig
}

// HistoryConfig contains configuration for the SQLite run history store.
type HistoryConfig struct {
	// Enabled controls whether suite runs are recorded.
	// Default: false (monitor mode enables it regardless)
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file path.
	// Default: "data/proxyprobe.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 5
	MaxOpenConns int `yaml:"max_open_conns"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "warn" (diagnostics must not drown the check output)
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format"`

	// RedactSecrets masks API keys in log output. Unset means true.
	RedactSecrets *bool `yaml:"redact_secrets"`
}

// RedactSecretsEnabled reports the RedactSecrets setting, defaulting to true
// when unset.
func (l LoggingConfig) RedactSecretsEnabled() bool {
	if l.RedactSecrets == nil {
		return DefaultLoggingRedactSecrets
	}
	return *l.RedactSecrets
}

// MetricsConfig contains metrics configuration for monitor mode.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Unset means true.
	Enabled *bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "proxyprobe"
	Namespace string `yaml:"namespace"`

	// DurationBuckets defines histogram buckets for check duration (seconds).
	// Default: [0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// IsEnabled reports the Enabled setting, defaulting to true when unset.
func (m MetricsConfig) IsEnabled() bool {
	if m.Enabled == nil {
		return DefaultMetricsEnabled
	}
	return *m.Enabled
}

// Bool returns a pointer to v, for setting optional boolean fields.
func Bool(v bool) *bool {
	return &v
}
