package model

import "time"

// Run is one journaled restore invocation.
type Run struct {
	ID            string     `json:"id"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	SourceRoot    string     `json:"source_root"`
	HistoryRoot   string     `json:"history_root"`
	DestRoot      string     `json:"dest_root"`
	AfterMS       *int64     `json:"after_ms,omitempty"`
	BeforeMS      *int64     `json:"before_ms,omitempty"`
	DryRun        bool       `json:"dry_run"`
	RestoredCount int        `json:"restored_count"`
}

// Event is one per-file outcome inside a run.
type Event struct {
	RunID  string `json:"run_id"`
	Seq    int    `json:"seq"`
	Action string `json:"action"`
	Source string `json:"source"`
	Dest   string `json:"dest"`
}

// Actions recorded in the journal.
const (
	ActionRestored     = "RESTORED"
	ActionWouldRestore = "WOULD_RESTORE"
)
