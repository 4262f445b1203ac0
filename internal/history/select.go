package history

import (
	"sort"

	"github.com/jonathancaudill/nook/internal/model"
)

// SelectInWindow picks the newest snapshot whose timestamp satisfies the
// window: ts >= after (when set) and ts < before (when set). Entries
// without a timestamp sort last and are never eligible. The sort is
// stable, so two snapshots sharing a timestamp resolve to whichever came
// later in the input. Returns nil when nothing qualifies.
func SelectInWindow(entries []model.Snapshot, w model.TimeWindow) *model.Snapshot {
	if len(entries) == 0 {
		return nil
	}
	sorted := make([]model.Snapshot, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Timestamp, sorted[j].Timestamp
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})
	for i := len(sorted) - 1; i >= 0; i-- {
		ts := sorted[i].Timestamp
		if ts == nil {
			continue
		}
		if w.Contains(*ts) {
			return &sorted[i]
		}
	}
	return nil
}
