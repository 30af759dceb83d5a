// Package driver measures selected algorithms over growing prefixes of a
// dataset and pairs the counts with their asymptotic reference values.
package driver

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"sortlab/internal/asymptotic"
	"sortlab/internal/dataset"
	"sortlab/internal/results"
	"sortlab/internal/sorting"
)

var (
	// ErrNoData is returned when the dataset is empty.
	ErrNoData = errors.New("please load or generate data first")
	// ErrNoAlgorithms is returned when nothing was selected.
	ErrNoAlgorithms = errors.New("please select at least one algorithm")
)

// Mode tells which comparison produced a Report.
type Mode string

const (
	ModeCompare    Mode = "compare"
	ModeAsymptotic Mode = "asymptotic"
)

// Point is a single measurement: the step count for a prefix of length N.
// Bounds is set only in asymptotic mode.
type Point struct {
	N      int
	Steps  int
	Bounds *asymptotic.Values
}

// Series holds every measurement of one algorithm.
type Series struct {
	Algorithm sorting.Algorithm
	Points    []Point
}

// Total sums the step counts of all points.
func (s Series) Total() int {
	total := 0
	for _, p := range s.Points {
		total += p.Steps
	}
	return total
}

// Report is the outcome of one comparison run.
type Report struct {
	Mode     Mode
	Elements int
	Step     int
	Prefixes []int
	Series   []Series
}

// Rows converts the report into result log records. A plain comparison
// yields one summary row per algorithm carrying the total over all prefixes;
// an asymptotic comparison yields one row per measurement.
func (r *Report) Rows() []results.Row {
	var rows []results.Row
	for _, s := range r.Series {
		if r.Mode == ModeCompare {
			rows = append(rows, results.Row{
				Elements:  r.Elements,
				Algorithm: s.Algorithm.Func,
				Steps:     s.Total(),
			})
			continue
		}
		for _, p := range s.Points {
			row := results.Row{Elements: p.N, Algorithm: s.Algorithm.Name, Steps: p.Steps}
			if p.Bounds != nil {
				row.Bounds = &results.Bounds{BigO: p.Bounds.BigO, BigOmega: p.Bounds.BigOmega, Theta: p.Bounds.Theta}
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// Driver runs comparisons. It keeps no state between runs.
type Driver struct {
	logger *zap.Logger
}

// New creates a driver logging through logger; nil disables logging.
func New(logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{logger: logger}
}

// Compare measures each algorithm on every prefix of data.
func (d *Driver) Compare(data []int, algs []sorting.Algorithm, step int) (*Report, error) {
	return d.run(ModeCompare, data, algs, step)
}

// CompareAsymptotic is Compare plus the reference curves of each algorithm
// evaluated at every prefix length.
func (d *Driver) CompareAsymptotic(data []int, algs []sorting.Algorithm, step int) (*Report, error) {
	return d.run(ModeAsymptotic, data, algs, step)
}

func (d *Driver) run(mode Mode, data []int, algs []sorting.Algorithm, step int) (*Report, error) {
	if len(data) == 0 {
		return nil, ErrNoData
	}
	if len(algs) == 0 {
		return nil, ErrNoAlgorithms
	}
	prefixes, err := dataset.Prefixes(len(data), step)
	if err != nil {
		return nil, err
	}

	bounds := make([]asymptotic.Bounds, len(algs))
	if mode == ModeAsymptotic {
		for i, a := range algs {
			b, ok := asymptotic.Lookup(a.ID)
			if !ok {
				return nil, fmt.Errorf("no asymptotic bounds for %s", a.Name)
			}
			bounds[i] = b
		}
	}

	d.logger.Info("Running comparison",
		zap.String("mode", string(mode)),
		zap.Int("elements", len(data)),
		zap.Int("step", step),
		zap.Int("algorithms", len(algs)),
		zap.Int("points", len(prefixes)))

	report := &Report{
		Mode:     mode,
		Elements: len(data),
		Step:     step,
		Prefixes: prefixes,
		Series:   make([]Series, 0, len(algs)),
	}
	for i, a := range algs {
		s := Series{Algorithm: a, Points: make([]Point, 0, len(prefixes))}
		for _, n := range prefixes {
			p := Point{N: n, Steps: a.Measure(data[:n])}
			if mode == ModeAsymptotic {
				v := bounds[i].Evaluate(n)
				p.Bounds = &v
			}
			d.logger.Debug("Measured prefix",
				zap.String("algorithm", string(a.ID)),
				zap.Int("n", n),
				zap.Int("steps", p.Steps))
			s.Points = append(s.Points, p)
		}
		d.logger.Debug("Algorithm done", zap.String("algorithm", string(a.ID)), zap.Int("total_steps", s.Total()))
		report.Series = append(report.Series, s)
	}
	return report, nil
}
