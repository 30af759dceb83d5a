package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sortlab/internal/dataset"
)

var (
	genCount int
	genMax   int
	genSeed  uint64
	genOut   string
)

// generateCmd writes a random dataset to disk
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random integer dataset as CSV",
	Long: `Writes --count random integers in [0, --max], one per line.

Defaults come from the dataset section of the config file.

Example:
  sortlab generate --count 500 --out data.csv`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVarP(&genCount, "count", "n", -1, "Number of values (default: dataset.count)")
	generateCmd.Flags().IntVar(&genMax, "max", -1, "Largest value (default: dataset.max)")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0, "Random seed, 0 for a random one (default: dataset.seed)")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "data.csv", "Output CSV file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	count, upper, seed := cfg.Dataset.Count, cfg.Dataset.Max, cfg.Dataset.Seed
	if cmd.Flags().Changed("count") {
		count = genCount
	}
	if cmd.Flags().Changed("max") {
		upper = genMax
	}
	if cmd.Flags().Changed("seed") {
		seed = genSeed
	}

	data, err := dataset.Generate(count, upper, dataset.NewRand(seed))
	if err != nil {
		return err
	}

	out := resolvePath(genOut)
	if err := dataset.Save(out, data); err != nil {
		return err
	}

	logger.Info("Generated dataset", zap.String("path", out), zap.Int("count", count))
	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d random data points in %s\n", count, out)
	return nil
}
