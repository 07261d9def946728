// Package history persists check suite runs to a local SQLite database so
// past runs can be listed and inspected after the fact.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"probehq/proxyprobe/pkg/checks"
	"probehq/proxyprobe/pkg/config"
)

// RunSummary is one row of the suite run log.
type RunSummary struct {
	ID           string        `json:"id"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration_ns"`
	Passed       bool          `json:"passed"`
	ChecksTotal  int           `json:"checks_total"`
	ChecksFailed int           `json:"checks_failed"`
}

// Run is a suite run with its per-check results.
type Run struct {
	RunSummary
	Results []checks.Result `json:"results"`
}

// Query filters ListRuns output.
type Query struct {
	// Limit caps the number of returned runs. Zero means DefaultQueryLimit.
	Limit int

	// OnlyFailed restricts the listing to failed runs.
	OnlyFailed bool

	// Since excludes runs that started before the given time when non-zero.
	Since time.Time
}

// DefaultQueryLimit bounds ListRuns when the query does not set a limit.
const DefaultQueryLimit = 20

// Store persists suite runs in SQLite.
//
// The store uses a write-ahead log and a single writer connection, which is
// all a local check log needs.
type Store struct {
	db        *sql.DB
	mu        sync.RWMutex
	closeOnce sync.Once

	saveRunStmt    *sql.Stmt
	saveResultStmt *sql.Stmt
	pruneStmt      *sql.Stmt
}

// NewStore opens (creating if necessary) the run log at the configured path.
func NewStore(cfg config.HistoryConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("history path cannot be empty")
	}
	busyTimeout := cfg.BusyTimeout
	if busyTimeout == 0 {
		busyTimeout = 5 * time.Second
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	// modernc's driver takes pragmas as repeated _pragma parameters; the
	// mattn-style _journal_mode/_busy_timeout keys are silently ignored.
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)",
		cfg.Path, int(busyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare history statements: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS suite_runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		passed INTEGER NOT NULL,
		checks_total INTEGER NOT NULL,
		checks_failed INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS check_results (
		run_id TEXT NOT NULL REFERENCES suite_runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		check_name TEXT NOT NULL,
		status TEXT NOT NULL,
		detail TEXT,
		duration_ms INTEGER NOT NULL,
		chunks INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON suite_runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_results_check ON check_results(check_name);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) prepareStatements() error {
	var err error

	s.saveRunStmt, err = s.db.Prepare(`
		INSERT INTO suite_runs (id, started_at, duration_ms, passed, checks_total, checks_failed)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare run statement: %w", err)
	}

	s.saveResultStmt, err = s.db.Prepare(`
		INSERT INTO check_results (run_id, position, check_name, status, detail, duration_ms, chunks)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare result statement: %w", err)
	}

	s.pruneStmt, err = s.db.Prepare(`
		DELETE FROM suite_runs WHERE started_at < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare prune statement: %w", err)
	}

	return nil
}

// SaveReport persists a suite report and its per-check results atomically.
func (s *Store) SaveReport(ctx context.Context, report *checks.Report) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}
	if report.ID == "" {
		return fmt.Errorf("report id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, failed := report.Counts()
	_, err = tx.StmtContext(ctx, s.saveRunStmt).ExecContext(ctx,
		report.ID,
		report.StartedAt.Unix(),
		report.Duration.Milliseconds(),
		boolToInt(report.Passed()),
		len(report.Results),
		failed,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	for i, result := range report.Results {
		_, err = tx.StmtContext(ctx, s.saveResultStmt).ExecContext(ctx,
			report.ID,
			i,
			result.Check,
			string(result.Status),
			result.Detail,
			result.Duration.Milliseconds(),
			result.Chunks,
		)
		if err != nil {
			return fmt.Errorf("failed to save result %q: %w", result.Check, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// ListRuns returns run summaries, newest first.
func (s *Store) ListRuns(ctx context.Context, query Query) ([]RunSummary, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	sqlQuery := `
		SELECT id, started_at, duration_ms, passed, checks_total, checks_failed
		FROM suite_runs
		WHERE 1=1
	`
	args := []interface{}{}
	if query.OnlyFailed {
		sqlQuery += " AND passed = 0"
	}
	if !query.Since.IsZero() {
		sqlQuery += " AND started_at >= ?"
		args = append(args, query.Since.Unix())
	}
	sqlQuery += " ORDER BY started_at DESC LIMIT ?"
	args = append(args, limit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return summaries, nil
}

// GetRun returns one run with its check results, or nil when the id is
// unknown.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	if id == "" {
		return nil, fmt.Errorf("run id cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, duration_ms, passed, checks_total, checks_failed
		FROM suite_runs WHERE id = ?
	`, id)

	summary, err := scanSummary(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT check_name, status, detail, duration_ms, chunks
		FROM check_results WHERE run_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	defer rows.Close()

	run := &Run{RunSummary: summary}
	for rows.Next() {
		var (
			result     checks.Result
			status     string
			detail     sql.NullString
			durationMS int64
		)
		if err := rows.Scan(&result.Check, &status, &detail, &durationMS, &result.Chunks); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		result.Status = checks.Status(status)
		result.Detail = detail.String
		result.Duration = time.Duration(durationMS) * time.Millisecond
		run.Results = append(run.Results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}
	return run, nil
}

// Prune deletes runs that started before the given time and returns how many
// were removed. Check results follow their run via the cascading foreign key.
func (s *Store) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.pruneStmt.ExecContext(ctx, olderThan.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(deleted), nil
}

// Close releases the database. Close is idempotent.
func (s *Store) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		if s.saveRunStmt != nil {
			s.saveRunStmt.Close()
		}
		if s.saveResultStmt != nil {
			s.saveResultStmt.Close()
		}
		if s.pruneStmt != nil {
			s.pruneStmt.Close()
		}
		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSummary(row rowScanner) (RunSummary, error) {
	var (
		summary    RunSummary
		startedAt  int64
		durationMS int64
		passed     int
	)
	err := row.Scan(&summary.ID, &startedAt, &durationMS, &passed,
		&summary.ChecksTotal, &summary.ChecksFailed)
	if err == sql.ErrNoRows {
		return summary, err
	}
	if err != nil {
		return summary, fmt.Errorf("failed to scan run: %w", err)
	}
	summary.StartedAt = time.Unix(startedAt, 0)
	summary.Duration = time.Duration(durationMS) * time.Millisecond
	summary.Passed = passed != 0
	return summary, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
