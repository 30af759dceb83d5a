// Package asymptotic holds the closed-form reference curves plotted next to
// measured step counts.
package asymptotic

import (
	"math"

	"sortlab/internal/sorting"
)

// Curve is a reference function of the input size n.
type Curve func(n int) float64

// Bounds groups the three reference curves of one algorithm.
type Bounds struct {
	BigO     Curve
	BigOmega Curve
	Theta    Curve

	// Human readable forms, e.g. "n^2".
	BigOLabel     string
	BigOmegaLabel string
	ThetaLabel    string
}

// Values is Bounds evaluated at a single n.
type Values struct {
	BigO     float64
	BigOmega float64
	Theta    float64
}

// Evaluate computes all three curves at n.
func (b Bounds) Evaluate(n int) Values {
	return Values{BigO: b.BigO(n), BigOmega: b.BigOmega(n), Theta: b.Theta(n)}
}

// Linear is n.
func Linear(n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n)
}

// Quadratic is n squared.
func Quadratic(n int) float64 {
	if n <= 0 {
		return 0
	}
	f := float64(n)
	return f * f
}

// Linearithmic is n·log2(n). log2 is undefined at 0, so n <= 0 yields 0.
func Linearithmic(n int) float64 {
	if n <= 0 {
		return 0
	}
	f := float64(n)
	return f * math.Log2(f)
}

var (
	quadraticBounds = Bounds{
		BigO: Quadratic, BigOmega: Linear, Theta: Quadratic,
		BigOLabel: "n^2", BigOmegaLabel: "n", ThetaLabel: "n^2",
	}
	linearithmicBounds = Bounds{
		BigO: Linearithmic, BigOmega: Linearithmic, Theta: Linearithmic,
		BigOLabel: "n log n", BigOmegaLabel: "n log n", ThetaLabel: "n log n",
	}
)

// table is built once and only read afterwards.
var table = map[sorting.ID]Bounds{
	sorting.Insertion: quadraticBounds,
	sorting.Bubble:    quadraticBounds,
	sorting.Selection: quadraticBounds,
	sorting.Merge:     linearithmicBounds,
	sorting.Quick:     linearithmicBounds,
	sorting.Heap:      linearithmicBounds,
}

// Lookup returns the reference curves for an algorithm.
func Lookup(id sorting.ID) (Bounds, bool) {
	b, ok := table[id]
	return b, ok
}
