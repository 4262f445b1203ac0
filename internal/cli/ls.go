package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathancaudill/nook/internal/history"
	"github.com/jonathancaudill/nook/internal/pathutil"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ls <history-root>",
		Short: "List tracked files found in a history store",
		Args:  cobra.ExactArgs(1),
		Run:   runLs,
	}

	RootCmd.AddCommand(cmd)
}

func runLs(cmd *cobra.Command, args []string) {
	root, err := filepath.Abs(pathutil.CleanInput(args[0]))
	if err != nil {
		exitErr("resolve history root", err)
	}
	if _, err := os.Stat(root); err != nil {
		exitErr("ls", fmt.Errorf("history directory not found: %s", root))
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	records, err := history.LoadAll(root, logger)
	if err != nil {
		exitErr("scan history store", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].File.Resource < records[j].File.Resource
	})

	for _, rec := range records {
		oldest, newest := span(rec)
		fmt.Printf("%s\t%d snapshot(s)\t%s .. %s\n", rec.File.Resource, len(rec.File.Entries), oldest, newest)
	}
	fmt.Fprintf(os.Stderr, "%d tracked file(s)\n", len(records))
}

// span formats the oldest and newest snapshot times of a record,
// ignoring entries without a timestamp.
func span(rec history.Record) (string, string) {
	const layout = "2006-01-02 15:04:05"
	var oldest, newest *int64
	for _, e := range rec.File.Entries {
		if e.Timestamp == nil {
			continue
		}
		if oldest == nil || *e.Timestamp < *oldest {
			oldest = e.Timestamp
		}
		if newest == nil || *e.Timestamp > *newest {
			newest = e.Timestamp
		}
	}
	if oldest == nil {
		return "?", "?"
	}
	return time.UnixMilli(*oldest).Format(layout), time.UnixMilli(*newest).Format(layout)
}
