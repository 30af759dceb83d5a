package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sortlab/cmd/sortlab/ui"
	"sortlab/internal/results"
)

var resultsPath string

// resultsCmd prints the result log
var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show the result log",
	Args:  cobra.NoArgs,
	RunE:  showResults,
}

func init() {
	resultsCmd.Flags().StringVar(&resultsPath, "file", "", "Result log CSV (default: output.results)")
}

func showResults(cmd *cobra.Command, args []string) error {
	path := cfg.Output.Results
	if resultsPath != "" {
		path = resultsPath
	}
	path = resolvePath(path)

	rows, err := results.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(cmd.OutOrStdout(), "No results yet. Run `sortlab compare` to create %s.\n", path)
			return nil
		}
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s has no results.\n", path)
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), ui.ResultsTable(path, rows).View(ui.DefaultStyles()))
	return nil
}
