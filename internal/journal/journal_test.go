package journal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jonathancaudill/nook/internal/model"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()
	dir := t.TempDir()
	j, err := Open(filepath.Join(dir, "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func ms(v int64) *int64 { return &v }

func TestBeginRecordFinish(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)

	id, err := j.Begin(ctx, BeginParams{
		SourceRoot:  "/proj",
		HistoryRoot: "/hist",
		DestRoot:    "/proj2",
		AfterMS:     ms(150),
	})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty run ID")
	}

	if err := j.Record(ctx, id, 1, model.ActionRestored, "/proj/a.py", "/proj2/a.py"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := j.Record(ctx, id, 2, model.ActionRestored, "/proj/b.py", "/proj2/b.py"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := j.Finish(ctx, id, 2); err != nil {
		t.Fatalf("finish: %v", err)
	}

	runs, err := j.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	r := runs[0]
	if r.ID != id || r.SourceRoot != "/proj" || r.DestRoot != "/proj2" {
		t.Errorf("unexpected run: %+v", r)
	}
	if r.AfterMS == nil || *r.AfterMS != 150 {
		t.Errorf("expected after_ms 150, got %+v", r.AfterMS)
	}
	if r.BeforeMS != nil {
		t.Errorf("expected nil before_ms, got %+v", r.BeforeMS)
	}
	if r.FinishedAt == nil {
		t.Error("expected finished_at set")
	}
	if r.RestoredCount != 2 {
		t.Errorf("expected restored_count 2, got %d", r.RestoredCount)
	}

	events, err := j.Events(ctx, id)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Seq != 1 || events[0].Source != "/proj/a.py" {
		t.Errorf("unexpected first event: %+v", events[0])
	}
}

func TestListRunsLimit(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)

	for i := 0; i < 3; i++ {
		if _, err := j.Begin(ctx, BeginParams{SourceRoot: "/p", HistoryRoot: "/h", DestRoot: "/d"}); err != nil {
			t.Fatalf("begin: %v", err)
		}
	}

	runs, err := j.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs with limit, got %d", len(runs))
	}
}

func TestDryRunFlagRoundTrips(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)

	id, err := j.Begin(ctx, BeginParams{SourceRoot: "/p", HistoryRoot: "/h", DestRoot: "/d", DryRun: true})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	_ = id

	runs, err := j.ListRuns(ctx, 1)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || !runs[0].DryRun {
		t.Errorf("expected dry_run true, got %+v", runs)
	}
}

func TestEventsUnknownRun(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)

	events, err := j.Events(ctx, "no-such-run")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}
