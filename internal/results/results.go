// Package results persists comparison rows to the append-only CSV result log.
package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// NotApplicable fills the bound columns when no asymptotic comparison ran.
const NotApplicable = "N/A"

// Header is the first record of every result log.
var Header = []string{"Elements", "Algorithm", "Steps", "Big O(n)", "Big Omega(n)", "Theta(n)"}

// ErrNoResults is returned when there is nothing to write.
var ErrNoResults = errors.New("no results to save")

// Bounds are the reference values stored beside a measurement.
type Bounds struct {
	BigO     float64
	BigOmega float64
	Theta    float64
}

// Row is one record of the result log.
type Row struct {
	Elements  int
	Algorithm string
	Steps     int
	Bounds    *Bounds // nil renders as N/A
}

// Record renders the row as its six CSV fields.
func (r Row) Record() []string {
	rec := []string{
		strconv.Itoa(r.Elements),
		r.Algorithm,
		strconv.Itoa(r.Steps),
		NotApplicable, NotApplicable, NotApplicable,
	}
	if r.Bounds != nil {
		rec[3] = formatFloat(r.Bounds.BigO)
		rec[4] = formatFloat(r.Bounds.BigOmega)
		rec[5] = formatFloat(r.Bounds.Theta)
	}
	return rec
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Append adds rows to the log at path, writing the header first when the
// file is new or empty. Write failures are returned as is, nothing retries.
func Append(path string, rows []Row) error {
	if len(rows) == 0 {
		return ErrNoResults
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create results directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open results file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to stat results file: %w", err)
	}

	if err := writeRows(f, info.Size() == 0, rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to save results: %w", err)
	}
	return f.Close()
}

func writeRows(w io.Writer, header bool, rows []Row) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(Header); err != nil {
			return err
		}
	}
	for _, r := range rows {
		if err := cw.Write(r.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read loads every row of the log at path. The header and records with a
// wrong number of fields are skipped; bound columns holding N/A come back as
// a nil Bounds.
func Read(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows []Row
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read results: %w", err)
		}
		if len(rec) != len(Header) {
			continue
		}
		row, ok := parseRecord(rec)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRecord(rec []string) (Row, bool) {
	elements, err := strconv.Atoi(rec[0])
	if err != nil {
		return Row{}, false
	}
	steps, err := strconv.Atoi(rec[2])
	if err != nil {
		return Row{}, false
	}
	row := Row{Elements: elements, Algorithm: rec[1], Steps: steps}
	if rec[3] == NotApplicable {
		return row, true
	}

	var vals [3]float64
	for i := range vals {
		v, err := strconv.ParseFloat(rec[3+i], 64)
		if err != nil {
			return Row{}, false
		}
		vals[i] = v
	}
	row.Bounds = &Bounds{BigO: vals[0], BigOmega: vals[1], Theta: vals[2]}
	return row, true
}
