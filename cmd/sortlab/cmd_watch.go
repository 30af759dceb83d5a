package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sortlab/internal/watch"
)

var watchOpts compareOptions

// watchCmd re-runs a comparison whenever the dataset changes
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run a comparison every time the dataset file changes",
	Long: `Runs compare once, then again whenever --data is written. Accepts the
same flags as compare. Stop with Ctrl+C.

Example:
  sortlab watch --data data.csv --algo insertion --asymptotic`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addCompareFlags(watchCmd, &watchOpts)
	_ = watchCmd.MarkFlagRequired("data")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	return watchDataset(ctx, cmd, watchOpts.withChanged(cmd))
}

func watchDataset(ctx context.Context, cmd *cobra.Command, o compareOptions) error {
	w := cmd.OutOrStdout()

	// The first run reports errors normally so bad flags fail fast.
	if _, err := runComparison(ctx, w, o); err != nil {
		return err
	}

	dw, err := watch.New(resolvePath(o.data), func(ctx context.Context, path string) error {
		fmt.Fprintf(w, "\n%s changed, comparing again\n", path)
		_, err := runComparison(ctx, w, o)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return err
	}, logger.Named("watch"))
	if err != nil {
		return err
	}
	if err := dw.Start(ctx); err != nil {
		dw.Stop()
		return err
	}
	fmt.Fprintf(w, "Watching %s, press Ctrl+C to stop.\n", o.data)

	<-ctx.Done()
	dw.Stop()
	stats := dw.Stats()
	logger.Info("Stopped watching", zap.Int("runs", stats.Runs), zap.Int("errors", stats.Errors))
	return nil
}
