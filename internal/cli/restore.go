package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathancaudill/nook/internal/model"
	"github.com/jonathancaudill/nook/internal/pathutil"
	"github.com/jonathancaudill/nook/internal/restore"
	"github.com/jonathancaudill/nook/internal/when"
)

func init() {
	cmd := &cobra.Command{
		Use:   "restore <source-root> <history-root> <dest-root>",
		Short: "Restore files to their newest snapshot inside a time window",
		Long: "Restore each tracked file under <source-root> to its newest snapshot " +
			"inside the --after/--before window, placing it in the tree at <dest-root>.",
		Args: cobra.ExactArgs(3),
		Run:  runRestore,
	}

	cmd.Flags().String("after", "", "Lower bound (inclusive), e.g. '2025-09-20 10:00'")
	cmd.Flags().String("before", "", "Upper bound (exclusive), e.g. '2025-09-20 10:20:00'")
	cmd.Flags().Bool("dry-run", false, "Plan only; don't write files")
	cmd.Flags().Int("max-index-files", restore.DefaultMaxIndexFiles, "Safety limit for indexing destination files")
	cmd.Flags().Bool("no-journal", false, "Don't record this run in the journal")

	RootCmd.AddCommand(cmd)
}

func runRestore(cmd *cobra.Command, args []string) {
	afterStr, _ := cmd.Flags().GetString("after")
	beforeStr, _ := cmd.Flags().GetString("before")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	maxIndexFiles, _ := cmd.Flags().GetInt("max-index-files")
	noJournal, _ := cmd.Flags().GetBool("no-journal")

	sourceRoot, err := filepath.Abs(pathutil.CleanInput(args[0]))
	if err != nil {
		exitErr("resolve source root", err)
	}
	historyRoot, err := filepath.Abs(pathutil.CleanInput(args[1]))
	if err != nil {
		exitErr("resolve history root", err)
	}
	destRoot, err := filepath.Abs(pathutil.CleanInput(args[2]))
	if err != nil {
		exitErr("resolve destination root", err)
	}

	if afterStr == "" && beforeStr == "" {
		exitErr("restore", fmt.Errorf("provide at least one bound: --after, --before, or both"))
	}

	var window model.TimeWindow
	if afterStr != "" {
		t, err := when.ParseLocal(afterStr)
		if err != nil {
			exitErr("parse --after", err)
		}
		ms := when.EpochMS(t)
		window.AfterMS = &ms
	}
	if beforeStr != "" {
		t, err := when.ParseLocal(beforeStr)
		if err != nil {
			exitErr("parse --before", err)
		}
		ms := when.EpochMS(t)
		window.BeforeMS = &ms
	}
	if window.AfterMS != nil && window.BeforeMS != nil && *window.AfterMS >= *window.BeforeMS {
		exitErr("restore", fmt.Errorf("--after must be earlier than --before"))
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	opts := restore.Options{
		SourceRoot:    sourceRoot,
		HistoryRoot:   historyRoot,
		DestRoot:      destRoot,
		Window:        window,
		DryRun:        dryRun,
		MaxIndexFiles: maxIndexFiles,
		Out:           os.Stdout,
		Logger:        logger,
	}

	if !noJournal {
		j, err := openJournal()
		if err != nil {
			logger.Warn("journal unavailable, continuing without", "error", err)
		} else {
			defer j.Close()
			opts.Journal = j
		}
	}

	if _, err := restore.Run(cmd.Context(), opts); err != nil {
		exitErr("restore", err)
	}
}
