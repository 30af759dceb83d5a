package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sortlab/cmd/sortlab/ui"
	"sortlab/internal/asymptotic"
	"sortlab/internal/sorting"
)

// algorithmsCmd lists the available algorithms
var algorithmsCmd = &cobra.Command{
	Use:     "algorithms",
	Aliases: []string{"algos"},
	Short:   "List the sorting algorithms and their bounds",
	Args:    cobra.NoArgs,
	RunE:    listAlgorithms,
}

func listAlgorithms(cmd *cobra.Command, args []string) error {
	t := ui.NewSimpleTable("Algorithms", []string{"ID", "Name", "Function", "Big O", "Big Omega", "Theta"})
	for _, a := range sorting.All() {
		b, _ := asymptotic.Lookup(a.ID)
		t.AddRow(string(a.ID), a.Name, a.Func, b.BigOLabel, b.BigOmegaLabel, b.ThetaLabel)
	}
	fmt.Fprint(cmd.OutOrStdout(), t.View(ui.DefaultStyles()))
	return nil
}
