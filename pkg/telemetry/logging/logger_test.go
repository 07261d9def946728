package logging

import (
	"strings"
	"testing"

	"probehq/proxyprobe/pkg/config"
)

func TestNew_RedactsSecrets(t *testing.T) {
	var sb strings.Builder
	logger, err := New(config.LoggingConfig{
		Level:         "info",
		Format:        "text",
		RedactSecrets: config.Bool(true),
	}, &sb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Info("sending request", "authorization", "Bearer sk-supersecret123")

	out := sb.String()
	if strings.Contains(out, "supersecret") {
		t.Errorf("secret leaked into log output: %q", out)
	}
	if !strings.Contains(out, "Bearer ***") {
		t.Errorf("expected redacted bearer token, got: %q", out)
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var sb strings.Builder
	logger, err := New(config.LoggingConfig{Level: "warn", Format: "text"}, &sb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Info("quiet")
	logger.Warn("loud")

	out := sb.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info entry should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("warn entry missing: %q", out)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(config.LoggingConfig{Level: "shout"}, nil); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var sb strings.Builder
	logger, err := New(config.LoggingConfig{Level: "info", Format: "json"}, &sb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Info("hello", "check", "health")
	if !strings.Contains(sb.String(), `"check":"health"`) {
		t.Errorf("expected JSON output, got: %q", sb.String())
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Authorization: Bearer abc123", "Authorization: Bearer ***"},
		{"key sk-0123456789abcdef used", "key *** used"},
		{"nothing secret here", "nothing secret here"},
	}

	for _, tt := range tests {
		if got := Redact(tt.in); got != tt.want {
			t.Errorf("Redact(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
