package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Show journaled restore runs",
		Long:  "List past restore runs, or show the per-file outcomes of one run.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runRuns,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max runs to list")

	RootCmd.AddCommand(cmd)
}

func runRuns(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	j, err := openJournal()
	if err != nil {
		exitErr("open journal", err)
	}
	defer j.Close()

	if len(args) == 1 {
		events, err := j.Events(cmd.Context(), args[0])
		if err != nil {
			exitErr("load events", err)
		}
		for _, e := range events {
			fmt.Printf("%s: %s -> %s\n", e.Action, e.Source, e.Dest)
		}
		return
	}

	runs, err := j.ListRuns(cmd.Context(), limit)
	if err != nil {
		exitErr("list runs", err)
	}

	b, _ := json.MarshalIndent(runs, "", "  ")
	fmt.Println(string(b))
}
