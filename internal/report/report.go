// Package report renders a recorded run as a markdown summary.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sortlab/internal/driver"
	"sortlab/internal/store"
)

// Summary is the per-algorithm digest of a run.
type Summary struct {
	Algorithm  string
	Points     int
	TotalSteps int
	LastN      int
	LastSteps  int
	// LastTheta is the Theta curve at LastN, nil for plain comparisons.
	LastTheta *float64
}

// Ratio is LastSteps over LastTheta, or 0 when there is no Theta value.
func (s Summary) Ratio() float64 {
	if s.LastTheta == nil || *s.LastTheta == 0 {
		return 0
	}
	return float64(s.LastSteps) / *s.LastTheta
}

// Summarize groups measurements by algorithm, keeping first-seen order.
func Summarize(ms []store.Measurement) []Summary {
	var out []Summary
	index := make(map[string]int)
	for _, m := range ms {
		i, ok := index[m.Algorithm]
		if !ok {
			i = len(out)
			index[m.Algorithm] = i
			out = append(out, Summary{Algorithm: m.Algorithm})
		}
		s := &out[i]
		s.Points++
		s.TotalSteps += m.Steps
		if m.Elements >= s.LastN {
			s.LastN = m.Elements
			s.LastSteps = m.Steps
			s.LastTheta = m.Theta
		}
	}
	return out
}

// Markdown renders the run header, a summary table and, for asymptotic
// runs, the full measurement table of each algorithm.
func Markdown(run store.Run, ms []store.Measurement) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Run %s\n\n", shortID(run.ID))
	fmt.Fprintf(&sb, "- **Mode:** %s\n", run.Mode)
	fmt.Fprintf(&sb, "- **Recorded:** %s\n", run.CreatedAt.Local().Format(time.RFC1123))
	fmt.Fprintf(&sb, "- **Elements:** %d\n", run.Elements)
	fmt.Fprintf(&sb, "- **Step:** %d\n", run.Step)
	if run.Source != "" {
		fmt.Fprintf(&sb, "- **Dataset:** %s\n", run.Source)
	}
	sb.WriteString("\n")

	summaries := Summarize(ms)
	if len(summaries) == 0 {
		sb.WriteString("_No measurements recorded._\n")
		return sb.String()
	}

	asym := run.Mode == driver.ModeAsymptotic
	sb.WriteString("## Summary\n\n")
	if asym {
		sb.WriteString("| Algorithm | Points | Total steps | Steps at n | Theta(n) | Steps / Theta |\n")
		sb.WriteString("|---|---:|---:|---:|---:|---:|\n")
	} else {
		sb.WriteString("| Algorithm | Points | Total steps | Steps at n |\n")
		sb.WriteString("|---|---:|---:|---:|\n")
	}
	for _, s := range summaries {
		fmt.Fprintf(&sb, "| %s | %d | %d | %d (n=%d) |", s.Algorithm, s.Points, s.TotalSteps, s.LastSteps, s.LastN)
		if asym {
			fmt.Fprintf(&sb, " %s | %s |", formatBound(s.LastTheta), strconv.FormatFloat(s.Ratio(), 'f', 3, 64))
		}
		sb.WriteString("\n")
	}

	if !asym {
		return sb.String()
	}

	for _, s := range summaries {
		fmt.Fprintf(&sb, "\n## %s\n\n", s.Algorithm)
		sb.WriteString("| n | Steps | Big O(n) | Big Omega(n) | Theta(n) |\n")
		sb.WriteString("|---:|---:|---:|---:|---:|\n")
		for _, m := range ms {
			if m.Algorithm != s.Algorithm {
				continue
			}
			fmt.Fprintf(&sb, "| %d | %d | %s | %s | %s |\n",
				m.Elements, m.Steps, formatBound(m.BigO), formatBound(m.BigOmega), formatBound(m.Theta))
		}
	}
	return sb.String()
}

func formatBound(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
