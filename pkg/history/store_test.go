package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"probehq/proxyprobe/pkg/checks"
	"probehq/proxyprobe/pkg/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(config.HistoryConfig{
		Path: filepath.Join(t.TempDir(), "history.db"),
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func passingReport(id string, startedAt time.Time) *checks.Report {
	report := &checks.Report{
		ID:        id,
		StartedAt: startedAt,
		Duration:  1200 * time.Millisecond,
	}
	for _, check := range checks.CheckOrder {
		result := checks.Result{
			Check:    check,
			Status:   checks.StatusPass,
			Detail:   "ok",
			Duration: 200 * time.Millisecond,
		}
		if check == checks.CheckStreaming {
			result.Chunks = 7
		}
		report.Results = append(report.Results, result)
	}
	return report
}

func failingReport(id string, startedAt time.Time) *checks.Report {
	report := passingReport(id, startedAt)
	report.Results[1].Status = checks.StatusFail
	report.Results[1].Detail = "unexpected status 401"
	return report
}

func TestStoreSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	started := time.Now().Add(-time.Minute).Truncate(time.Second)
	if err := store.SaveReport(ctx, passingReport("run-1", started)); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	run, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}
	if run == nil {
		t.Fatal("expected run, got nil")
	}
	if !run.Passed {
		t.Error("expected passed run")
	}
	if run.ChecksTotal != len(checks.CheckOrder) || run.ChecksFailed != 0 {
		t.Errorf("expected %d total / 0 failed, got %d / %d",
			len(checks.CheckOrder), run.ChecksTotal, run.ChecksFailed)
	}
	if !run.StartedAt.Equal(started) {
		t.Errorf("expected started_at %v, got %v", started, run.StartedAt)
	}
	if len(run.Results) != len(checks.CheckOrder) {
		t.Fatalf("expected %d results, got %d", len(checks.CheckOrder), len(run.Results))
	}
	for i, result := range run.Results {
		if result.Check != checks.CheckOrder[i] {
			t.Errorf("result %d: expected check %q, got %q", i, checks.CheckOrder[i], result.Check)
		}
	}
	if run.Results[3].Chunks != 7 {
		t.Errorf("expected 7 chunks on streaming result, got %d", run.Results[3].Chunks)
	}
}

func TestStoreGetUnknownRun(t *testing.T) {
	store := newTestStore(t)

	run, err := store.GetRun(context.Background(), "no-such-run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run != nil {
		t.Errorf("expected nil run, got %+v", run)
	}
}

func TestStoreListRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		report := passingReport(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Minute))
		if err := store.SaveReport(ctx, report); err != nil {
			t.Fatalf("failed to save report %d: %v", i, err)
		}
	}

	summaries, err := store.ListRuns(ctx, Query{Limit: 3})
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(summaries))
	}
	for i, want := range []string{"run-4", "run-3", "run-2"} {
		if summaries[i].ID != want {
			t.Errorf("run %d: expected %q, got %q", i, want, summaries[i].ID)
		}
	}
}

func TestStoreListOnlyFailed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	if err := store.SaveReport(ctx, passingReport("run-ok", base)); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if err := store.SaveReport(ctx, failingReport("run-bad", base.Add(time.Minute))); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	summaries, err := store.ListRuns(ctx, Query{OnlyFailed: true})
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "run-bad" {
		t.Fatalf("expected only run-bad, got %+v", summaries)
	}
	if summaries[0].ChecksFailed != 1 {
		t.Errorf("expected 1 failed check, got %d", summaries[0].ChecksFailed)
	}
}

func TestStoreListSince(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := time.Now().Add(-2 * time.Hour)
	recent := time.Now().Add(-5 * time.Minute)
	if err := store.SaveReport(ctx, passingReport("run-old", old)); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if err := store.SaveReport(ctx, passingReport("run-recent", recent)); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	summaries, err := store.ListRuns(ctx, Query{Since: time.Now().Add(-time.Hour)})
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "run-recent" {
		t.Fatalf("expected only run-recent, got %+v", summaries)
	}
}

func TestStoreDuplicateRunID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	report := passingReport("run-dup", time.Now())
	if err := store.SaveReport(ctx, report); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if err := store.SaveReport(ctx, report); err == nil {
		t.Error("expected error on duplicate run id")
	}
}

func TestStorePrune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	recent := time.Now().Add(-time.Minute)
	if err := store.SaveReport(ctx, passingReport("run-old", old)); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if err := store.SaveReport(ctx, passingReport("run-recent", recent)); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	deleted, err := store.Prune(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("failed to prune: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 pruned run, got %d", deleted)
	}

	summaries, err := store.ListRuns(ctx, Query{})
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "run-recent" {
		t.Fatalf("expected only run-recent to survive, got %+v", summaries)
	}

	// Check results follow their run via the cascading foreign key.
	var orphans int
	if err := store.db.QueryRow(
		"SELECT COUNT(*) FROM check_results WHERE run_id = ?", "run-old",
	).Scan(&orphans); err != nil {
		t.Fatalf("failed to count results: %v", err)
	}
	if orphans != 0 {
		t.Errorf("expected pruned run's results to cascade, found %d rows", orphans)
	}
}

func TestStorePragmas(t *testing.T) {
	store := newTestStore(t)

	var journalMode string
	if err := store.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("failed to query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected journal_mode wal, got %q", journalMode)
	}

	var busyTimeout int
	if err := store.db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout); err != nil {
		t.Fatalf("failed to query busy_timeout: %v", err)
	}
	if busyTimeout != 5000 {
		t.Errorf("expected busy_timeout 5000, got %d", busyTimeout)
	}

	var foreignKeys int
	if err := store.db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
		t.Fatalf("failed to query foreign_keys: %v", err)
	}
	if foreignKeys != 1 {
		t.Errorf("expected foreign_keys 1, got %d", foreignKeys)
	}
}

func TestStorePragmasRespectBusyTimeout(t *testing.T) {
	store, err := NewStore(config.HistoryConfig{
		Path:        filepath.Join(t.TempDir(), "history.db"),
		BusyTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	var busyTimeout int
	if err := store.db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout); err != nil {
		t.Fatalf("failed to query busy_timeout: %v", err)
	}
	if busyTimeout != 2000 {
		t.Errorf("expected busy_timeout 2000, got %d", busyTimeout)
	}
}

func TestStoreCloseIdempotent(t *testing.T) {
	store := newTestStore(t)

	if err := store.Close(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}
}
