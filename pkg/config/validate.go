package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the field (e.g., "target.base_url").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration. All validation errors are
// collected and returned together as a ValidationError.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateTarget(&cfg.Target)...)
	errs = append(errs, validateChecks(&cfg.Checks)...)
	errs = append(errs, validateMonitor(&cfg.Monitor)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateTarget(t *TargetConfig) []FieldError {
	var errs []FieldError

	if t.BaseURL == "" {
		errs = append(errs, FieldError{"target.base_url", "base URL is required"})
	} else {
		u, err := url.Parse(t.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, FieldError{"target.base_url",
				fmt.Sprintf("invalid URL %q (expected scheme://host[:port])", t.BaseURL)})
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, FieldError{"target.base_url",
				fmt.Sprintf("unsupported scheme %q", u.Scheme)})
		}
	}

	if t.Timeout < 0 {
		errs = append(errs, FieldError{"target.timeout", "timeout must not be negative"})
	}

	return errs
}

func validateChecks(c *ChecksConfig) []FieldError {
	var errs []FieldError

	if c.Model == "" {
		errs = append(errs, FieldError{"checks.model", "model is required"})
	}
	if c.MaxTokens < 0 {
		errs = append(errs, FieldError{"checks.max_tokens", "max_tokens must not be negative"})
	}
	if c.SystemMaxTokens < 0 {
		errs = append(errs, FieldError{"checks.system_max_tokens", "system_max_tokens must not be negative"})
	}

	return errs
}

func validateMonitor(m *MonitorConfig) []FieldError {
	var errs []FieldError

	if m.Schedule != "" {
		if _, err := cron.ParseStandard(m.Schedule); err != nil {
			errs = append(errs, FieldError{"monitor.schedule",
				fmt.Sprintf("invalid cron expression %q: %v", m.Schedule, err)})
		}
	}
	if m.ListenAddress == "" {
		errs = append(errs, FieldError{"monitor.listen_address", "listen address is required"})
	}

	return errs
}

func validateHistory(h *HistoryConfig) []FieldError {
	var errs []FieldError

	if h.Enabled && h.Path == "" {
		errs = append(errs, FieldError{"history.path", "path is required when history is enabled"})
	}
	if h.MaxOpenConns < 0 {
		errs = append(errs, FieldError{"history.max_open_conns", "max_open_conns must not be negative"})
	}

	return errs
}

func validateTelemetry(t *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch t.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{"telemetry.logging.level",
			fmt.Sprintf("unknown level %q (expected debug, info, warn, or error)", t.Logging.Level)})
	}

	switch t.Logging.Format {
	case "", "json", "text":
	default:
		errs = append(errs, FieldError{"telemetry.logging.format",
			fmt.Sprintf("unknown format %q (expected json or text)", t.Logging.Format)})
	}

	for i, b := range t.Metrics.DurationBuckets {
		if i > 0 && b <= t.Metrics.DurationBuckets[i-1] {
			errs = append(errs, FieldError{"telemetry.metrics.duration_buckets",
				"buckets must be strictly increasing"})
			break
		}
	}

	return errs
}
