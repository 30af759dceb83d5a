package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"sortlab/cmd/sortlab/ui"
	"sortlab/internal/report"
)

var (
	reportRaw   bool
	reportWidth int
)

// reportCmd renders a markdown summary of a recorded run
var reportCmd = &cobra.Command{
	Use:   "report [run-id]",
	Short: "Summarize a recorded run (default: the latest)",
	Long: `Renders a markdown summary of a run from the history database: totals
per algorithm and, for asymptotic runs, how the measured steps track the
Theta curve.

Use --raw to print the markdown source instead of rendering it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "Print markdown without rendering")
	reportCmd.Flags().IntVar(&reportWidth, "width", 100, "Word wrap width")
}

func runReport(cmd *cobra.Command, args []string) error {
	hist, err := openHistoryRequired()
	if err != nil {
		return err
	}
	defer hist.Close()

	ctx := commandContext(cmd)
	var id string
	if len(args) == 1 {
		id = args[0]
	} else {
		runs, err := hist.ListRuns(ctx, 1)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
			return nil
		}
		id = runs[0].ID
	}

	run, err := hist.GetRun(ctx, id)
	if err != nil {
		return err
	}
	ms, err := hist.Measurements(ctx, run.ID)
	if err != nil {
		return err
	}

	md := report.Markdown(run, ms)
	if reportRaw {
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}

	out, err := renderMarkdown(md, reportWidth)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func renderMarkdown(md string, width int) (string, error) {
	var opts []glamour.TermRendererOption
	if ui.DetectTheme().IsDark {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath("light"))
	}
	opts = append(opts, glamour.WithWordWrap(width))

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return out, nil
}
