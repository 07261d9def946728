package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"probehq/proxyprobe/pkg/config"
)

func testCollector() *Collector {
	return NewCollector(config.MetricsConfig{
		Namespace:       "proxyprobe",
		DurationBuckets: config.DefaultDurationBuckets,
	}, prometheus.NewRegistry())
}

func TestCollector_RecordCheck(t *testing.T) {
	c := testCollector()

	c.RecordCheck("health", "pass", 120*time.Millisecond)
	c.RecordCheck("health", "pass", 80*time.Millisecond)
	c.RecordCheck("models", "fail", 50*time.Millisecond)

	if got := testutil.ToFloat64(c.checksTotal.WithLabelValues("health", "pass")); got != 2 {
		t.Errorf("expected 2 health passes, got %v", got)
	}
	if got := testutil.ToFloat64(c.checksTotal.WithLabelValues("models", "fail")); got != 1 {
		t.Errorf("expected 1 models failure, got %v", got)
	}
}

func TestCollector_RecordSuiteRun(t *testing.T) {
	c := testCollector()

	c.RecordSuiteRun("pass")
	c.RecordSuiteRun("aborted")
	c.RecordSuiteRun("pass")

	if got := testutil.ToFloat64(c.suiteRuns.WithLabelValues("pass")); got != 2 {
		t.Errorf("expected 2 passing runs, got %v", got)
	}
	if got := testutil.ToFloat64(c.suiteRuns.WithLabelValues("aborted")); got != 1 {
		t.Errorf("expected 1 aborted run, got %v", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := testCollector()
	c.RecordStreamChunks(7)
	c.RecordCheck("streaming", "pass", 300*time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "proxyprobe_stream_chunks_total 7") {
		t.Errorf("expected stream chunk counter in exposition, got:\n%s", body)
	}
	if !strings.Contains(body, "proxyprobe_checks_total") {
		t.Errorf("expected checks counter in exposition, got:\n%s", body)
	}
}
