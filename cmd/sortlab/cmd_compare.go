package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"sortlab/cmd/sortlab/ui"
	"sortlab/internal/dataset"
	"sortlab/internal/driver"
	"sortlab/internal/lab"
	"sortlab/internal/sorting"
	"sortlab/internal/store"
)

// compareOptions are the flags shared by compare and watch.
type compareOptions struct {
	data       string
	count      int
	algorithms []string
	step       int
	asymptotic bool
	chart      string
	results    string
	noHistory  bool

	// countSet and stepSet mark flags given on the command line; only
	// those override the config, whatever their value.
	countSet bool
	stepSet  bool
}

var compareOpts compareOptions

// compareCmd runs one comparison from the command line
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Count sorting steps over growing prefixes of a dataset",
	Long: `Runs the selected algorithms over the prefixes step, 2*step, ... of a
dataset and reports the number of elementary steps each one took.

The dataset is read from --data, or generated with --count values.
With --asymptotic every measurement is paired with the algorithm's
Big O, Big Omega and Theta curves evaluated at the same n.

Results are appended to the result log, plotted to the chart file and
recorded in the history database.

Examples:
  sortlab compare --count 500 --step 50
  sortlab compare --data data.csv --algo merge --algo quick --asymptotic`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

func init() {
	addCompareFlags(compareCmd, &compareOpts)
}

func addCompareFlags(cmd *cobra.Command, o *compareOptions) {
	cmd.Flags().StringVarP(&o.data, "data", "d", "", "CSV dataset to load (default: generate)")
	cmd.Flags().IntVarP(&o.count, "count", "n", 0, "Values to generate when --data is not set (default: dataset.count)")
	cmd.Flags().StringSliceVarP(&o.algorithms, "algo", "a", nil, "Algorithm to run, repeatable (default: compare.algorithms or all)")
	cmd.Flags().IntVarP(&o.step, "step", "s", 0, "Prefix step size (default: compare.step)")
	cmd.Flags().BoolVar(&o.asymptotic, "asymptotic", false, "Include asymptotic bound curves")
	cmd.Flags().StringVar(&o.chart, "chart", "", "Chart output, .png or .svg (default: output.chart)")
	cmd.Flags().StringVar(&o.results, "results", "", "Result log CSV (default: output.results)")
	cmd.Flags().BoolVar(&o.noHistory, "no-history", false, "Do not record the run in the history database")
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	_, err := runComparison(ctx, cmd.OutOrStdout(), compareOpts.withChanged(cmd))
	return err
}

// withChanged records which of the count and step flags were set.
func (o compareOptions) withChanged(cmd *cobra.Command) compareOptions {
	o.countSet = cmd.Flags().Changed("count")
	o.stepSet = cmd.Flags().Changed("step")
	return o
}

// runComparison builds a session from the config and flags, runs one
// comparison and prints its outcome.
func runComparison(ctx context.Context, w io.Writer, o compareOptions) (*lab.Outcome, error) {
	c := *cfg
	if o.results != "" {
		c.Output.Results = o.results
	}
	if o.chart != "" {
		c.Output.Chart = o.chart
	}
	if o.noHistory {
		c.Output.History = false
	}
	c.Output.Results = resolvePath(c.Output.Results)
	c.Output.Chart = resolvePath(c.Output.Chart)
	step := c.Compare.Step
	if o.stepSet {
		if o.step <= 0 {
			return nil, dataset.ErrInvalidStep
		}
		step = o.step
	}
	count := c.Dataset.Count
	if o.countSet && o.data == "" {
		if o.count < 0 {
			return nil, dataset.ErrNegativeCount
		}
		count = o.count
	}

	// --algo replaces the configured selection rather than adding to it.
	if len(o.algorithms) > 0 {
		c.Compare.Algorithms = o.algorithms
	}
	algs, err := sorting.Resolve(c.Compare.Algorithms)
	if err != nil {
		return nil, err
	}

	var history *store.HistoryStore
	if c.Output.History && c.Output.Database != "" {
		history, err = store.Open(resolvePath(c.Output.Database), logger.Named("store"))
		if err != nil {
			return nil, err
		}
		defer history.Close()
	}

	l := lab.New(&c, logger.Named("lab"), history)
	if o.data != "" {
		if _, err := l.Load(resolvePath(o.data)); err != nil {
			return nil, err
		}
	} else if err := l.GenerateN(count); err != nil {
		return nil, err
	}
	l.SetSelection(algs)

	out, err := l.CompareStep(ctx, step, o.asymptotic)
	if err != nil {
		return nil, err
	}
	printOutcome(w, out)
	return out, nil
}

func printOutcome(w io.Writer, out *lab.Outcome) {
	styles := ui.DefaultStyles()
	r := out.Report

	if r.Mode == driver.ModeCompare {
		fmt.Fprintln(w, prefixTable(r).View(styles))
	}
	fmt.Fprintln(w, ui.ResultsTable("Results", out.Rows).View(styles))

	if out.ResultsPath != "" {
		fmt.Fprintf(w, "Results saved successfully to %s.\n", out.ResultsPath)
	}
	if out.ChartPath != "" {
		fmt.Fprintf(w, "Chart written to %s.\n", out.ChartPath)
	}
	if out.Run != nil {
		fmt.Fprintf(w, "Recorded run %s.\n", out.Run.ID)
	}
	for _, warn := range out.Warnings {
		fmt.Fprintln(w, styles.Warning.Render("Warning: "+warn.Error()))
	}
}

// prefixTable shows the step count of every algorithm at every prefix.
func prefixTable(r *driver.Report) *ui.SimpleTable {
	headers := []string{"Elements"}
	for _, s := range r.Series {
		headers = append(headers, s.Algorithm.Name)
	}
	t := ui.NewSimpleTable("Steps per prefix", headers)
	for i, n := range r.Prefixes {
		row := []string{strconv.Itoa(n)}
		for _, s := range r.Series {
			row = append(row, strconv.Itoa(s.Points[i].Steps))
		}
		t.AddRow(row...)
	}
	return t
}
