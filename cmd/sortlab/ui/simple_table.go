package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sortlab/internal/results"
)

// SimpleTable renders static rows with right-aligned numeric columns.
type SimpleTable struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewSimpleTable creates a new SimpleTable with the given title and headers.
func NewSimpleTable(title string, headers []string) *SimpleTable {
	return &SimpleTable{
		Title:   title,
		Headers: headers,
		Rows:    make([][]string, 0),
	}
}

// ResultsTable builds a table in the result log layout.
func ResultsTable(title string, rows []results.Row) *SimpleTable {
	t := NewSimpleTable(title, results.Header)
	for _, r := range rows {
		t.AddRow(r.Record()...)
	}
	return t
}

// AddRow adds a row to the table.
func (t *SimpleTable) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// View renders the table using the provided styles.
func (t *SimpleTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	colWidths := make([]int, len(t.Headers))
	numeric := make([]bool, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h)
		numeric[i] = true
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i >= len(colWidths) {
				break
			}
			colWidths[i] = max(colWidths[i], lipgloss.Width(cell))
			if !isNumeric(cell) {
				numeric[i] = false
			}
		}
	}
	// Padding(0, 1) adds one cell on each side.
	for i := range colWidths {
		colWidths[i] += 2
	}

	headerStyle := styles.Bold.Padding(0, 1)
	rowStyle := styles.Body.Padding(0, 1)
	sep := styles.Muted.Render("|")

	for i, h := range t.Headers {
		sb.WriteString(headerStyle.Width(colWidths[i]).Render(h))
		if i < len(t.Headers)-1 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString("\n")

	totalWidth := len(t.Headers) - 1
	for _, w := range colWidths {
		totalWidth += w
	}
	sb.WriteString(styles.Muted.Render(strings.Repeat("-", totalWidth)) + "\n")

	for _, row := range t.Rows {
		for i := range t.Headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			style := rowStyle.Width(colWidths[i])
			if numeric[i] {
				style = style.Align(lipgloss.Right)
			}
			sb.WriteString(style.Render(cell))
			if i < len(t.Headers)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// isNumeric treats N/A as numeric so bound columns stay right-aligned.
func isNumeric(s string) bool {
	if s == results.NotApplicable {
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
