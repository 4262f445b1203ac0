// Package restore drives a full time-windowed restore run.
package restore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathancaudill/nook/internal/history"
	"github.com/jonathancaudill/nook/internal/journal"
	"github.com/jonathancaudill/nook/internal/model"
	"github.com/jonathancaudill/nook/internal/place"
)

// DefaultMaxIndexFiles bounds destination-tree indexing cost.
const DefaultMaxIndexFiles = 200000

// Options configures one restore run. Roots must already be cleaned
// and absolute.
type Options struct {
	SourceRoot  string
	HistoryRoot string
	DestRoot    string
	Window      model.TimeWindow

	DryRun        bool
	MaxIndexFiles int

	// Out receives the per-file report and summary. Defaults to stdout.
	Out io.Writer
	// Logger receives warnings. Defaults to slog.Default().
	Logger *slog.Logger
	// Journal, when non-nil, records the run and its outcomes.
	Journal *journal.Journal
}

func (o *Options) defaults() {
	if o.MaxIndexFiles <= 0 {
		o.MaxIndexFiles = DefaultMaxIndexFiles
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Summary is the result of a run.
type Summary struct {
	Restored int
	DestRoot string
	RunID    string
}

// Run restores every tracked file that falls under the source root to
// its newest snapshot inside the window, placing each at the best spot
// in the destination tree. Per-file failures are warned and skipped;
// only precondition failures abort the run.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	opts.defaults()

	if _, err := os.Stat(opts.HistoryRoot); err != nil {
		return nil, fmt.Errorf("history directory not found: %s", opts.HistoryRoot)
	}
	if !opts.Window.Bounded() {
		return nil, fmt.Errorf("at least one of the window bounds must be set")
	}
	if opts.Window.AfterMS != nil && opts.Window.BeforeMS != nil && *opts.Window.AfterMS >= *opts.Window.BeforeMS {
		return nil, fmt.Errorf("window lower bound must be earlier than upper bound")
	}
	if !opts.DryRun {
		if err := os.MkdirAll(opts.DestRoot, 0o755); err != nil {
			return nil, fmt.Errorf("create destination root: %w", err)
		}
	}

	records, err := history.LoadAll(opts.HistoryRoot, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("scan history store: %w", err)
	}
	if len(records) == 0 {
		opts.Logger.Warn("no history records found", "root", opts.HistoryRoot)
	}

	placer := place.New(opts.SourceRoot, opts.DestRoot, opts.MaxIndexFiles)
	sourceName := filepath.Base(opts.SourceRoot)

	summary := &Summary{DestRoot: opts.DestRoot}
	if opts.Journal != nil {
		id, err := opts.Journal.Begin(ctx, journal.BeginParams{
			SourceRoot:  opts.SourceRoot,
			HistoryRoot: opts.HistoryRoot,
			DestRoot:    opts.DestRoot,
			AfterMS:     opts.Window.AfterMS,
			BeforeMS:    opts.Window.BeforeMS,
			DryRun:      opts.DryRun,
		})
		if err != nil {
			return nil, err
		}
		summary.RunID = id
	}

	action := model.ActionRestored
	if opts.DryRun {
		action = model.ActionWouldRestore
	}

	for _, rec := range records {
		src := rec.File.Resource

		if !admitted(src, opts.SourceRoot, sourceName) {
			continue
		}

		chosen := history.SelectInWindow(rec.File.Entries, opts.Window)
		if chosen == nil || chosen.ID == "" {
			continue
		}

		blob, ok := history.BlobPath(rec.Dir, chosen.ID)
		if !ok {
			opts.Logger.Warn("missing content blob", "source", src, "id", chosen.ID)
			continue
		}

		data, err := os.ReadFile(blob)
		if err != nil {
			opts.Logger.Warn("could not read content blob", "path", blob, "error", err)
			continue
		}
		// Lossy text policy: invalid bytes become the replacement rune.
		text := strings.ToValidUTF8(string(data), "�")

		dest := placer.ChooseDest(src)

		if !opts.DryRun {
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				opts.Logger.Warn("could not create destination directory", "path", filepath.Dir(dest), "error", err)
				continue
			}
			if err := os.WriteFile(dest, []byte(text), 0o644); err != nil {
				opts.Logger.Warn("could not write restored file", "path", dest, "error", err)
				continue
			}
		}

		fmt.Fprintf(opts.Out, "%s: %s -> %s\n", action, src, dest)
		summary.Restored++

		if opts.Journal != nil {
			if err := opts.Journal.Record(ctx, summary.RunID, summary.Restored, action, src, dest); err != nil {
				opts.Logger.Warn("could not journal event", "error", err)
			}
		}
	}

	if opts.DryRun {
		fmt.Fprintf(opts.Out, "\nPlan complete. Would restore %d file(s) into: %s\n", summary.Restored, opts.DestRoot)
	} else {
		fmt.Fprintf(opts.Out, "\nDone. Restored %d file(s) into: %s\n", summary.Restored, opts.DestRoot)
	}

	if opts.Journal != nil {
		if err := opts.Journal.Finish(ctx, summary.RunID, summary.Restored); err != nil {
			opts.Logger.Warn("could not finish journal run", "error", err)
		}
	}

	return summary, nil
}

// admitted restricts restoration to files under the source root. When
// absolute roots differ between the capturing and restoring machines,
// a path is still admitted if the root's folder name appears among its
// ancestors or matches its filename.
func admitted(src, root, rootName string) bool {
	rel, err := filepath.Rel(root, src)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return true
	}
	for _, seg := range strings.Split(filepath.ToSlash(filepath.Dir(src)), "/") {
		if seg != "" && seg == rootName {
			return true
		}
	}
	return filepath.Base(src) == rootName
}
