// Package model defines the core local-history data types.
package model

import "time"

// Snapshot is one saved revision of a tracked file.
type Snapshot struct {
	// ID locates the content blob inside the tracked file's history folder.
	ID string `json:"id"`
	// Timestamp is epoch milliseconds of the save. Nil on malformed
	// records; such snapshots are never selected.
	Timestamp *int64 `json:"timestamp"`
}

// Time returns the snapshot's save time in the local zone.
// Zero time if the timestamp is missing.
func (s Snapshot) Time() time.Time {
	if s.Timestamp == nil {
		return time.Time{}
	}
	return time.UnixMilli(*s.Timestamp)
}

// TrackedFile is the full history record for one originally-saved file.
type TrackedFile struct {
	// Resource is the absolute path of the file as it existed when saved.
	Resource string
	// Entries holds the snapshots. Order as loaded is not reliable;
	// selection re-sorts by timestamp.
	Entries []Snapshot
}

// TimeWindow is the snapshot selection predicate: lower bound inclusive,
// upper bound exclusive, either may be unset.
type TimeWindow struct {
	AfterMS  *int64
	BeforeMS *int64
}

// Contains reports whether ts satisfies the window.
func (w TimeWindow) Contains(ts int64) bool {
	if w.AfterMS != nil && ts < *w.AfterMS {
		return false
	}
	if w.BeforeMS != nil && ts >= *w.BeforeMS {
		return false
	}
	return true
}

// Bounded reports whether at least one bound is set.
func (w TimeWindow) Bounded() bool {
	return w.AfterMS != nil || w.BeforeMS != nil
}
