// Package cli implements the nook CLI commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathancaudill/nook/internal/journal"
)

var journalPath string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "nook",
	Short: "Restore files from editor local history",
	Long:  "Restores each tracked file to its newest snapshot inside a time window, placing it at the right spot inside an existing destination tree.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&journalPath, "journal", "j", "", "Journal database path (default: $NOOK_JOURNAL or ~/.nook/journal.db)")
}

func getJournalPath() string {
	if journalPath != "" {
		return journalPath
	}
	if env := os.Getenv("NOOK_JOURNAL"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".nook", "journal.db")
}

func openJournal() (*journal.Journal, error) {
	return journal.Open(getJournalPath())
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
