// Package chart renders step-count series and their reference curves to
// PNG or SVG images.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"sortlab/internal/driver"
)

// ErrTooFewPoints is returned for plots with no x values or no lines.
var ErrTooFewPoints = errors.New("need at least one measurement point to draw a chart")

const (
	XAxisLabel = "Number of Elements (n)"
	YAxisLabel = "Steps"

	defaultWidth  = 1024
	defaultHeight = 640
)

// Line is one plotted curve.
type Line struct {
	Label  string
	Y      []float64
	Dashed bool
}

// Plot is a set of lines sharing the same x values.
type Plot struct {
	Title  string
	X      []float64
	Lines  []Line
	Width  int
	Height int
}

var palette = []drawing.Color{
	{R: 0xe5, G: 0x73, B: 0x73, A: 0xff},
	{R: 0x4d, G: 0xb6, B: 0xac, A: 0xff},
	{R: 0x29, G: 0x43, B: 0x4e, A: 0xff},
	{R: 0xff, G: 0xc1, B: 0x07, A: 0xff},
	{R: 0xff, G: 0x8a, B: 0x65, A: 0xff},
	{R: 0x21, G: 0x96, B: 0xf3, A: 0xff},
	{R: 0x8b, G: 0xc3, B: 0x4a, A: 0xff},
	{R: 0x9b, G: 0x59, B: 0xb6, A: 0xff},
}

// FromReport builds the plot for a comparison. Asymptotic reports get the
// measured line plus three dashed reference curves per algorithm.
func FromReport(r *driver.Report) Plot {
	p := Plot{Title: "Algorithm Comparison"}
	if r.Mode == driver.ModeAsymptotic {
		p.Title = "Asymptotic Analysis"
	}
	for _, n := range r.Prefixes {
		p.X = append(p.X, float64(n))
	}

	for _, s := range r.Series {
		name := s.Algorithm.Name
		actual := make([]float64, len(s.Points))
		for i, pt := range s.Points {
			actual[i] = float64(pt.Steps)
		}
		if r.Mode != driver.ModeAsymptotic {
			p.Lines = append(p.Lines, Line{Label: name, Y: actual})
			continue
		}

		bigO := make([]float64, len(s.Points))
		bigOmega := make([]float64, len(s.Points))
		theta := make([]float64, len(s.Points))
		for i, pt := range s.Points {
			if pt.Bounds == nil {
				continue
			}
			bigO[i] = pt.Bounds.BigO
			bigOmega[i] = pt.Bounds.BigOmega
			theta[i] = pt.Bounds.Theta
		}
		p.Lines = append(p.Lines,
			Line{Label: name + " Actual Steps", Y: actual},
			Line{Label: name + " Big O(n)", Y: bigO, Dashed: true},
			Line{Label: name + " Big Omega(n)", Y: bigOmega, Dashed: true},
			Line{Label: name + " Theta(n)", Y: theta, Dashed: true},
		)
	}
	return p
}

// Render draws the plot to w as PNG, or SVG when svg is true.
func Render(w io.Writer, p Plot, svg bool) error {
	if len(p.X) == 0 || len(p.Lines) == 0 {
		return ErrTooFewPoints
	}

	series := make([]gochart.Series, 0, len(p.Lines))
	yMin, yMax := math.Inf(1), math.Inf(-1)
	for i, l := range p.Lines {
		if len(l.Y) != len(p.X) {
			return fmt.Errorf("line %q has %d values for %d x values", l.Label, len(l.Y), len(p.X))
		}
		for _, y := range l.Y {
			yMin = math.Min(yMin, y)
			yMax = math.Max(yMax, y)
		}
		style := gochart.Style{
			StrokeColor: palette[i%len(palette)],
			StrokeWidth: 2,
		}
		if l.Dashed {
			style.StrokeDashArray = []float64{5, 5}
			style.StrokeWidth = 1
		}
		if len(p.X) == 1 {
			// A lone point has no segment to stroke.
			style.DotWidth = 4
			style.DotColor = style.StrokeColor
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    l.Label,
			XValues: p.X,
			YValues: l.Y,
			Style:   style,
		})
	}

	yAxis := gochart.YAxis{Name: YAxisLabel}
	if yMin == yMax {
		// go-chart rejects zero-width ranges.
		yAxis.Range = &gochart.ContinuousRange{Min: yMin, Max: yMin + 1}
	}

	xAxis := gochart.XAxis{Name: XAxisLabel}
	if xMin, xMax := minMax(p.X); xMin == xMax {
		xAxis.Range = &gochart.ContinuousRange{Min: 0, Max: 2 * xMax}
		if xMax <= 0 {
			xAxis.Range = &gochart.ContinuousRange{Min: xMax - 1, Max: xMax + 1}
		}
	}

	width, height := p.Width, p.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	ch := gochart.Chart{
		Title:      p.Title,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      xAxis,
		YAxis:      yAxis,
		Series:     series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	provider := gochart.PNG
	if svg {
		provider = gochart.SVG
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderFile writes the plot to path; a ".svg" extension selects SVG output,
// anything else PNG.
func RenderFile(path string, p Plot) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create chart directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	svg := strings.EqualFold(filepath.Ext(path), ".svg")
	if err := Render(f, p, svg); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func minMax(vs []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
