// Package lab holds the state of an interactive comparison session: the
// current dataset, the selected algorithms, and the outputs written after each
// comparison. Both the CLI commands and the terminal UI drive it.
package lab

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"

	"go.uber.org/zap"

	"sortlab/internal/chart"
	"sortlab/internal/config"
	"sortlab/internal/dataset"
	"sortlab/internal/driver"
	"sortlab/internal/results"
	"sortlab/internal/sorting"
	"sortlab/internal/store"
)

// Outcome is everything a comparison produced. Failures to persist or plot
// are collected in Warnings; the measurements themselves are still valid.
type Outcome struct {
	Report      *driver.Report
	Rows        []results.Row
	ResultsPath string
	ChartPath   string
	Run         *store.Run
	Warnings    []error
}

// Lab is a single-user comparison session. Its methods are not safe for
// concurrent use; the function returned by CompareFunc may run elsewhere.
type Lab struct {
	cfg     *config.Config
	logger  *zap.Logger
	driver  *driver.Driver
	history *store.HistoryStore
	rng     *rand.Rand

	data     []int
	source   string
	selected []sorting.Algorithm
}

// New creates a session. history may be nil to skip run recording.
func New(cfg *config.Config, logger *zap.Logger, history *store.HistoryStore) *Lab {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Lab{
		cfg:     cfg,
		logger:  logger,
		driver:  driver.New(logger.Named("driver")),
		history: history,
		rng:     dataset.NewRand(cfg.Dataset.Seed),
	}
	if algs, err := sorting.Resolve(cfg.Compare.Algorithms); err == nil && len(cfg.Compare.Algorithms) > 0 {
		l.selected = algs
	}
	return l
}

// Config returns the session configuration.
func (l *Lab) Config() *config.Config {
	return l.cfg
}

// Data returns a copy of the current dataset.
func (l *Lab) Data() []int {
	return slices.Clone(l.data)
}

// SetData replaces the dataset with a copy of data.
func (l *Lab) SetData(data []int) {
	l.data = slices.Clone(data)
	l.source = ""
}

// Source describes where the current dataset came from: the file it was
// loaded from, "random", or empty for data set directly.
func (l *Lab) Source() string {
	return l.source
}

// Generate parses a user supplied count and replaces the dataset with that
// many random values. Invalid input leaves the dataset untouched.
func (l *Lab) Generate(countInput string) (int, error) {
	n, err := dataset.ParseCount(countInput)
	if err != nil {
		return 0, err
	}
	if err := l.GenerateN(n); err != nil {
		return 0, err
	}
	return n, nil
}

// GenerateN replaces the dataset with n random values in [0, dataset.max].
func (l *Lab) GenerateN(n int) error {
	data, err := dataset.Generate(n, l.cfg.Dataset.Max, l.rng)
	if err != nil {
		return err
	}
	l.data = data
	l.source = "random"
	l.logger.Info("Generated dataset", zap.Int("count", n), zap.Int("max", l.cfg.Dataset.Max))
	return nil
}

// Load replaces the dataset with the contents of a CSV file. On failure the
// dataset becomes empty and the error is returned.
func (l *Lab) Load(path string) (int, error) {
	data, err := dataset.Load(path)
	if err != nil {
		l.data = nil
		l.source = ""
		l.logger.Warn("Failed to load dataset", zap.String("path", path), zap.Error(err))
		return 0, err
	}
	l.data = data
	l.source = path
	l.logger.Info("Loaded dataset", zap.String("path", path), zap.Int("count", len(data)))
	return len(data), nil
}

// Select adds an algorithm to the selection. Selecting an algorithm twice is
// a no-op.
func (l *Lab) Select(key string) (sorting.Algorithm, error) {
	alg, ok := sorting.Lookup(key)
	if !ok {
		_, err := sorting.Resolve([]string{key})
		return sorting.Algorithm{}, err
	}
	if !l.IsSelected(alg.ID) {
		l.selected = append(l.selected, alg)
	}
	return alg, nil
}

// Deselect removes an algorithm and reports whether it was selected.
func (l *Lab) Deselect(key string) bool {
	alg, ok := sorting.Lookup(key)
	if !ok {
		return false
	}
	i := slices.IndexFunc(l.selected, func(a sorting.Algorithm) bool { return a.ID == alg.ID })
	if i < 0 {
		return false
	}
	l.selected = slices.Delete(l.selected, i, i+1)
	return true
}

// SetSelection replaces the selection with algs.
func (l *Lab) SetSelection(algs []sorting.Algorithm) {
	l.selected = slices.Clone(algs)
}

// IsSelected reports whether id is part of the selection.
func (l *Lab) IsSelected(id sorting.ID) bool {
	return slices.ContainsFunc(l.selected, func(a sorting.Algorithm) bool { return a.ID == id })
}

// Selected returns the selection in the order it was made.
func (l *Lab) Selected() []sorting.Algorithm {
	return slices.Clone(l.selected)
}

// Compare parses a user supplied step size and runs a comparison.
func (l *Lab) Compare(ctx context.Context, stepInput string, asymptotic bool) (*Outcome, error) {
	step, err := dataset.ParseStep(stepInput)
	if err != nil {
		return nil, err
	}
	return l.CompareStep(ctx, step, asymptotic)
}

// CompareStep measures the selection over the current dataset, then appends
// the result log, renders the chart and records the run. The dataset, source
// and selection are copied before measuring begins; changes made while the
// comparison runs apply to the next one.
func (l *Lab) CompareStep(ctx context.Context, step int, asymptotic bool) (*Outcome, error) {
	data, selected, source := slices.Clone(l.data), slices.Clone(l.selected), l.source
	return l.compare(ctx, data, selected, source, step, asymptotic)
}

// CompareFunc captures the session state now and returns a function that
// parses stepInput and runs the comparison later, possibly on another
// goroutine.
func (l *Lab) CompareFunc(stepInput string, asymptotic bool) func(ctx context.Context) (*Outcome, error) {
	data, selected, source := slices.Clone(l.data), slices.Clone(l.selected), l.source
	return func(ctx context.Context) (*Outcome, error) {
		step, err := dataset.ParseStep(stepInput)
		if err != nil {
			return nil, err
		}
		return l.compare(ctx, data, selected, source, step, asymptotic)
	}
}

func (l *Lab) compare(ctx context.Context, data []int, selected []sorting.Algorithm, source string, step int, asymptotic bool) (*Outcome, error) {
	var (
		report *driver.Report
		err    error
	)
	if asymptotic {
		report, err = l.driver.CompareAsymptotic(data, selected, step)
	} else {
		report, err = l.driver.Compare(data, selected, step)
	}
	if err != nil {
		return nil, err
	}

	out := &Outcome{Report: report, Rows: report.Rows()}

	if path := l.cfg.Output.Results; path != "" {
		if err := results.Append(path, out.Rows); err != nil {
			l.logger.Error("Failed to save results", zap.String("path", path), zap.Error(err))
			out.Warnings = append(out.Warnings, err)
		} else {
			out.ResultsPath = path
		}
	}

	if path := l.cfg.Output.Chart; path != "" {
		if err := chart.RenderFile(path, chart.FromReport(report)); err != nil {
			if !errors.Is(err, chart.ErrTooFewPoints) {
				l.logger.Error("Failed to render chart", zap.String("path", path), zap.Error(err))
			}
			out.Warnings = append(out.Warnings, err)
		} else {
			out.ChartPath = path
		}
	}

	if l.history != nil && l.cfg.Output.History {
		run, err := l.history.RecordRun(ctx, report, source)
		if err != nil {
			l.logger.Error("Failed to record run", zap.Error(err))
			out.Warnings = append(out.Warnings, err)
		} else {
			out.Run = &run
		}
	}

	return out, nil
}
