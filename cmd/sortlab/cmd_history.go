package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sortlab/cmd/sortlab/ui"
	"sortlab/internal/results"
	"sortlab/internal/store"
)

var historyLimit int

// historyCmd lists recorded runs
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded comparison runs",
	Long: `Lists the runs recorded in the history database, newest first.

Subcommands:
  list    - List recorded runs (default)
  show    - Show the measurements of one run
  delete  - Remove a run`,
	Args: cobra.NoArgs,
	RunE: listHistory,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  listHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the measurements of a run (ID prefixes work)",
	Args:  cobra.ExactArgs(1),
	RunE:  showHistoryRun,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteHistoryRun,
}

func init() {
	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "l", 20, "Maximum runs to list, 0 for all")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}

func listHistory(cmd *cobra.Command, args []string) error {
	hist, err := openHistoryRequired()
	if err != nil {
		return err
	}
	defer hist.Close()

	runs, err := hist.ListRuns(commandContext(cmd), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
		return nil
	}

	t := ui.NewSimpleTable("Recorded runs", []string{"ID", "Recorded", "Mode", "Elements", "Step", "Dataset"})
	for _, r := range runs {
		t.AddRow(r.ID[:8], r.CreatedAt.Local().Format(time.DateTime), string(r.Mode),
			fmt.Sprint(r.Elements), fmt.Sprint(r.Step), r.Source)
	}
	fmt.Fprint(cmd.OutOrStdout(), t.View(ui.DefaultStyles()))
	return nil
}

func showHistoryRun(cmd *cobra.Command, args []string) error {
	hist, err := openHistoryRequired()
	if err != nil {
		return err
	}
	defer hist.Close()

	run, err := hist.GetRun(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	ms, err := hist.Measurements(commandContext(cmd), run.ID)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Run %s (%s, %d elements, step %d)", run.ID, run.Mode, run.Elements, run.Step)
	fmt.Fprint(cmd.OutOrStdout(), ui.ResultsTable(title, measurementRows(ms)).View(ui.DefaultStyles()))
	return nil
}

func deleteHistoryRun(cmd *cobra.Command, args []string) error {
	hist, err := openHistoryRequired()
	if err != nil {
		return err
	}
	defer hist.Close()

	run, err := hist.GetRun(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	if err := hist.DeleteRun(commandContext(cmd), run.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s.\n", run.ID)
	return nil
}

// measurementRows puts stored measurements in result log layout.
func measurementRows(ms []store.Measurement) []results.Row {
	rows := make([]results.Row, 0, len(ms))
	for _, m := range ms {
		r := results.Row{Elements: m.Elements, Algorithm: m.Algorithm, Steps: m.Steps}
		if m.BigO != nil && m.BigOmega != nil && m.Theta != nil {
			r.Bounds = &results.Bounds{BigO: *m.BigO, BigOmega: *m.BigOmega, Theta: *m.Theta}
		}
		rows = append(rows, r)
	}
	return rows
}
