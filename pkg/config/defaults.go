package config

import "time"

// Default values for configuration fields.
const (
	// Target defaults
	DefaultTargetBaseURL         = "http://localhost:3000"
	DefaultTargetAPIKey          = "test-key-123"
	DefaultTargetProvider        = "kiro-api"
	DefaultTargetTimeout         = 30 * time.Second
	DefaultTargetMaxIdleConns    = 10
	DefaultTargetMaxIdlePerHost  = 10
	DefaultTargetIdleConnTimeout = 90 * time.Second

	// Check defaults
	DefaultChecksModel            = "claude-3-sonnet-20240229"
	DefaultChecksMaxTokens        = 100
	DefaultChecksUserPrompt       = "Hello! Introduce yourself in one sentence."
	DefaultChecksStreamPrompt     = "Count from 1 to 5, pausing between numbers."
	DefaultChecksSystemPrompt     = "You are a professional math teacher."
	DefaultChecksSystemUserPrompt = "What is the Pythagorean theorem?"
	DefaultChecksSystemMaxTokens  = 150

	// Monitor defaults
	DefaultMonitorSchedule      = "*/5 * * * *"
	DefaultMonitorListenAddress = "127.0.0.1:9430"
	DefaultMonitorRunOnStart    = true
	DefaultMonitorWatchConfig   = true

	// History defaults
	DefaultHistoryEnabled      = false
	DefaultHistoryPath         = "data/proxyprobe.db"
	DefaultHistoryMaxOpenConns = 5
	DefaultHistoryBusyTimeout  = 5 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel         = "warn"
	DefaultLoggingFormat        = "text"
	DefaultLoggingRedactSecrets = true
	DefaultMetricsEnabled       = true
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "proxyprobe"
)

// DefaultDurationBuckets are the histogram buckets for check durations.
var DefaultDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}

// DefaultConfig returns a configuration populated entirely with defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued configuration fields with default values.
// Explicitly configured fields are left untouched.
func ApplyDefaults(cfg *Config) {
	// Target defaults
	if cfg.Target.BaseURL == "" {
		cfg.Target.BaseURL = DefaultTargetBaseURL
	}
	if cfg.Target.APIKey == "" {
		cfg.Target.APIKey = DefaultTargetAPIKey
	}
	if cfg.Target.Provider == "" {
		cfg.Target.Provider = DefaultTargetProvider
	}
	if cfg.Target.Timeout == 0 {
		cfg.Target.Timeout = DefaultTargetTimeout
	}
	if cfg.Target.MaxIdleConns == 0 {
		cfg.Target.MaxIdleConns = DefaultTargetMaxIdleConns
	}
	if cfg.Target.MaxIdleConnsPerHost == 0 {
		cfg.Target.MaxIdleConnsPerHost = DefaultTargetMaxIdlePerHost
	}
	if cfg.Target.IdleConnTimeout == 0 {
		cfg.Target.IdleConnTimeout = DefaultTargetIdleConnTimeout
	}

	// Check defaults
	if cfg.Checks.Model == "" {
		cfg.Checks.Model = DefaultChecksModel
	}
	if cfg.Checks.MaxTokens == 0 {
		cfg.Checks.MaxTokens = DefaultChecksMaxTokens
	}
	if cfg.Checks.UserPrompt == "" {
		cfg.Checks.UserPrompt = DefaultChecksUserPrompt
	}
	if cfg.Checks.StreamPrompt == "" {
		cfg.Checks.StreamPrompt = DefaultChecksStreamPrompt
	}
	if cfg.Checks.SystemPrompt == "" {
		cfg.Checks.SystemPrompt = DefaultChecksSystemPrompt
	}
	if cfg.Checks.SystemUserPrompt == "" {
		cfg.Checks.SystemUserPrompt = DefaultChecksSystemUserPrompt
	}
	if cfg.Checks.SystemMaxTokens == 0 {
		cfg.Checks.SystemMaxTokens = DefaultChecksSystemMaxTokens
	}

	// Monitor defaults
	if cfg.Monitor.Schedule == "" {
		cfg.Monitor.Schedule = DefaultMonitorSchedule
	}
	if cfg.Monitor.RunOnStart == nil {
		cfg.Monitor.RunOnStart = Bool(DefaultMonitorRunOnStart)
	}
	if cfg.Monitor.WatchConfig == nil {
		cfg.Monitor.WatchConfig = Bool(DefaultMonitorWatchConfig)
	}
	if cfg.Monitor.ListenAddress == "" {
		cfg.Monitor.ListenAddress = DefaultMonitorListenAddress
	}

	// History defaults
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if cfg.History.MaxOpenConns == 0 {
		cfg.History.MaxOpenConns = DefaultHistoryMaxOpenConns
	}
	if cfg.History.BusyTimeout == 0 {
		cfg.History.BusyTimeout = DefaultHistoryBusyTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.RedactSecrets == nil {
		cfg.Telemetry.Logging.RedactSecrets = Bool(DefaultLoggingRedactSecrets)
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Enabled == nil {
		cfg.Telemetry.Metrics.Enabled = Bool(DefaultMetricsEnabled)
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = DefaultDurationBuckets
	}
}
