package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sortlab/cmd/sortlab/ui"
	"sortlab/internal/config"
	"sortlab/internal/lab"
	"sortlab/internal/store"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string

	// Set up by PersistentPreRunE
	logger *zap.Logger
	cfg    *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sortlab",
	Short: "sortlab - instrumented sorting algorithm comparison",
	Long: `sortlab runs classical sorting algorithms over random or loaded integer
datasets, counts their elementary operations, and compares the growth of
those counts against the algorithms' asymptotic bounds.

Every comparison appends to a CSV result log, renders a chart and is
recorded in a local history database.

Run without arguments to start the interactive interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(resolvePath(configPath))
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		// The interactive screen owns the terminal; log to a file or nowhere.
		if isInteractive(cmd) {
			if !verbose {
				logger = zap.NewNop()
				return nil
			}
			if cfg.Logging.File == "" {
				cfg.Logging.File = resolvePath(filepath.Join(".sortlab", "sortlab.log"))
				if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
					return fmt.Errorf("failed to create log directory: %w", err)
				}
			}
		}

		logger, err = cfg.Logging.ZapConfig(verbose).Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file, relative to the workspace")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(algorithmsCmd)
	rootCmd.AddCommand(tuiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func isInteractive(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "tui"
}

// resolvePath anchors relative paths at the workspace.
func resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || workspace == "" {
		return p
	}
	return filepath.Join(workspace, p)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// openHistory opens the run history, or returns nil when history is disabled.
func openHistory() (*store.HistoryStore, error) {
	if !cfg.Output.History || cfg.Output.Database == "" {
		return nil, nil
	}
	return store.Open(resolvePath(cfg.Output.Database), logger.Named("store"))
}

// openHistoryRequired is openHistory for commands that only browse history.
func openHistoryRequired() (*store.HistoryStore, error) {
	if cfg.Output.Database == "" {
		return nil, fmt.Errorf("no history database configured")
	}
	return store.Open(resolvePath(cfg.Output.Database), logger.Named("store"))
}

// newLab builds a session with output paths anchored at the workspace.
func newLab(history *store.HistoryStore) *lab.Lab {
	c := *cfg
	c.Output.Results = resolvePath(c.Output.Results)
	c.Output.Chart = resolvePath(c.Output.Chart)
	return lab.New(&c, logger.Named("lab"), history)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	history, err := openHistory()
	if err != nil {
		return err
	}
	if history != nil {
		defer history.Close()
	}

	return ui.Run(ctx, newLab(history))
}

// tuiCmd launches the interactive interface explicitly.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive comparison interface",
	RunE:  runTUI,
}

// commandContext returns the command's context, or Background when the
// command was invoked directly rather than through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
