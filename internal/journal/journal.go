// Package journal records restore runs in a local SQLite database.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/jonathancaudill/nook/internal/model"
)

// Journal is a SQLite-backed log of restore runs and their per-file
// outcomes.
type Journal struct {
	db      *sql.DB
	entropy *rand.Rand
}

// Open opens or creates the journal database at the given path.
func Open(dbPath string) (*Journal, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	j := &Journal{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}

	return j, nil
}

func (j *Journal) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), j.entropy).String()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id             TEXT PRIMARY KEY,
		started_at     TEXT NOT NULL,
		finished_at    TEXT,
		source_root    TEXT NOT NULL,
		history_root   TEXT NOT NULL,
		dest_root      TEXT NOT NULL,
		after_ms       INTEGER,
		before_ms      INTEGER,
		dry_run        INTEGER NOT NULL DEFAULT 0,
		restored_count INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

	CREATE TABLE IF NOT EXISTS events (
		run_id TEXT NOT NULL REFERENCES runs(id),
		seq    INTEGER NOT NULL,
		action TEXT NOT NULL,
		source TEXT NOT NULL,
		dest   TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id);
	`
	_, err := j.db.Exec(schema)
	return err
}

// BeginParams describes the run being journaled.
type BeginParams struct {
	SourceRoot  string
	HistoryRoot string
	DestRoot    string
	AfterMS     *int64
	BeforeMS    *int64
	DryRun      bool
}

// Begin inserts a new run row and returns its ID.
func (j *Journal) Begin(ctx context.Context, p BeginParams) (string, error) {
	id := j.newID()
	dryRun := 0
	if p.DryRun {
		dryRun = 1
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, source_root, history_root, dest_root, after_ms, before_ms, dry_run)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), p.SourceRoot, p.HistoryRoot, p.DestRoot,
		p.AfterMS, p.BeforeMS, dryRun)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// Record appends one per-file outcome to a run.
func (j *Journal) Record(ctx context.Context, runID string, seq int, action, source, dest string) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO events (run_id, seq, action, source, dest) VALUES (?, ?, ?, ?, ?)`,
		runID, seq, action, source, dest)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Finish stamps the run complete with its final count.
func (j *Journal) Finish(ctx context.Context, runID string, restored int) error {
	_, err := j.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, restored_count = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), restored, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// ListRuns returns runs newest first, up to limit (0 means all).
func (j *Journal) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	query := `SELECT id, started_at, finished_at, source_root, history_root, dest_root,
	                 after_ms, before_ms, dry_run, restored_count
	          FROM runs ORDER BY started_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Events returns a run's per-file outcomes in recorded order.
func (j *Journal) Events(ctx context.Context, runID string) ([]model.Event, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT run_id, seq, action, source, dest FROM events WHERE run_id = ? ORDER BY seq`,
		runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.RunID, &e.Seq, &e.Action, &e.Source, &e.Dest); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func scanRun(rows *sql.Rows) (model.Run, error) {
	var r model.Run
	var startedAt string
	var finishedAt sql.NullString
	var afterMS, beforeMS sql.NullInt64
	var dryRun int

	err := rows.Scan(&r.ID, &startedAt, &finishedAt, &r.SourceRoot, &r.HistoryRoot, &r.DestRoot,
		&afterMS, &beforeMS, &dryRun, &r.RestoredCount)
	if err != nil {
		return r, err
	}

	r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if finishedAt.Valid {
		t, _ := time.Parse(time.RFC3339, finishedAt.String)
		r.FinishedAt = &t
	}
	if afterMS.Valid {
		v := afterMS.Int64
		r.AfterMS = &v
	}
	if beforeMS.Valid {
		v := beforeMS.Int64
		r.BeforeMS = &v
	}
	r.DryRun = dryRun != 0
	return r, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
