package checks

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"probehq/proxyprobe/pkg/client"
	"probehq/proxyprobe/pkg/config"
	"probehq/proxyprobe/pkg/telemetry/metrics"
)

// MockModeEnv is the environment variable that, when set to "true", marks
// the target proxy as running with mock backends. It only changes the run
// banner, never check behavior.
const MockModeEnv = "AIPROXY_MOCK_MODE"

// Suite runs the five smoke checks against one proxy.
type Suite struct {
	client   *client.Client
	cfg      config.ChecksConfig
	baseURL  string
	apiKey   string
	provider string
	out      io.Writer
	metrics  *metrics.Collector
}

// Options adjusts suite behavior. The zero value is usable.
type Options struct {
	// Output receives the human-readable check transcript. Defaults to
	// os.Stdout.
	Output io.Writer

	// Metrics, when set, receives per-check and per-run observations.
	Metrics *metrics.Collector
}

// NewSuite creates a check suite for the given client and configuration.
func NewSuite(c *client.Client, cfg *config.Config, opts Options) *Suite {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	return &Suite{
		client:   c,
		cfg:      cfg.Checks,
		baseURL:  cfg.Target.BaseURL,
		apiKey:   cfg.Target.APIKey,
		provider: cfg.Target.Provider,
		out:      out,
		metrics:  opts.Metrics,
	}
}

// Run executes the checks in fixed order and returns a report covering every
// check that ran. The health check runs first; if it fails, the remaining
// checks are skipped and the report carries only the health result. Every
// other check is fault-isolated: its failure is recorded and the run
// continues.
func (s *Suite) Run(ctx context.Context) *Report {
	report := &Report{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}

	s.printBanner()

	health := s.checkHealth(ctx)
	s.record(report, health)
	if !health.Passed() {
		s.finish(report)
		return report
	}

	s.record(report, s.checkModels(ctx))
	s.record(report, s.checkCompletion(ctx))
	s.record(report, s.checkStreaming(ctx))
	s.record(report, s.checkSystemPrompt(ctx))

	s.finish(report)
	return report
}

func (s *Suite) record(report *Report, result Result) {
	report.Results = append(report.Results, result)
	if s.metrics != nil {
		s.metrics.RecordCheck(result.Check, string(result.Status), result.Duration)
		if result.Check == CheckStreaming && result.Chunks > 0 {
			s.metrics.RecordStreamChunks(result.Chunks)
		}
	}
}

func (s *Suite) printBanner() {
	fmt.Fprintln(s.out, "=== AI Proxy Smoke Test ===")
	fmt.Fprintf(s.out, "Server: %s\n", s.baseURL)
	fmt.Fprintf(s.out, "API Key: %s\n", s.apiKey)
	fmt.Fprintf(s.out, "Provider: %s\n", s.provider)

	if os.Getenv(MockModeEnv) == "true" {
		fmt.Fprintf(s.out, "\nNote: proxy is in mock mode (%s=true)\n", MockModeEnv)
	}

	fmt.Fprint(s.out, "\nRunning checks...\n\n")
}

func (s *Suite) finish(report *Report) {
	report.Duration = time.Since(report.StartedAt)

	passed, failed := report.Counts()
	if report.Passed() {
		fmt.Fprintf(s.out, "\n✓ all %d checks passed\n", passed)
	} else if len(report.Results) < len(CheckOrder) {
		fmt.Fprintln(s.out, "\n✗ run aborted: server unreachable")
	} else {
		fmt.Fprintf(s.out, "\n✗ %d of %d checks failed\n", failed, passed+failed)
	}

	s.printCredentialHints()

	if s.metrics != nil {
		result := "fail"
		switch {
		case report.Passed():
			result = "pass"
		case len(report.Results) < len(CheckOrder):
			result = "aborted"
		}
		s.metrics.RecordSuiteRun(result)
	}
}

func (s *Suite) printCredentialHints() {
	fmt.Fprintln(s.out, "\nTo run against real credentials:")
	fmt.Fprintln(s.out, "1. Create a credentials file kiro-creds.json")
	fmt.Fprintln(s.out, "2. Start the proxy:")
	fmt.Fprintf(s.out, "   ./aiproxy --model-provider %s --kiro-oauth-creds-file kiro-creds.json\n", s.provider)
	fmt.Fprintln(s.out, "3. Re-run this check suite")
}
