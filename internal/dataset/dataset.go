// Package dataset produces the integer sequences fed to the sorting
// algorithms: random generation, CSV loading and saving, and the prefix
// lengths at which measurements are taken.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultMax is the inclusive upper bound of generated values.
const DefaultMax = 1000

var (
	// ErrNotNumeric is returned when a count or step is not an integer.
	ErrNotNumeric = errors.New("please enter a valid number")
	// ErrNegativeCount is returned for a negative number of data points.
	ErrNegativeCount = errors.New("the number of data points cannot be negative")
	// ErrInvalidStep is returned for a step size that is not positive.
	ErrInvalidStep = errors.New("please enter a valid positive step size")
	// ErrNotFound is wrapped when the dataset file does not exist.
	ErrNotFound = errors.New("dataset file not found")
)

// Generate returns n uniformly distributed integers in [0, upper].
func Generate(n, upper int, rng *rand.Rand) ([]int, error) {
	if n < 0 {
		return nil, ErrNegativeCount
	}
	if upper < 0 {
		return nil, fmt.Errorf("max value %d cannot be negative", upper)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	data := make([]int, n)
	for i := range data {
		data[i] = rng.IntN(upper + 1)
	}
	return data, nil
}

// NewRand returns a generator seeded with seed, or a randomly seeded one
// when seed is zero.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Load reads one integer per record from the first field of a CSV file.
// Records that are empty, unparseable or not integers are skipped.
func Load(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses dataset records from r. See Load for the skip rules.
func Read(r io.Reader) ([]int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	data := []int{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("failed to read dataset: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			continue
		}
		data = append(data, v)
	}
	return data, nil
}

// Save writes data one value per line, readable by Load.
func Save(path string, data []int) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create dataset directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}

	w := csv.NewWriter(f)
	for _, v := range data {
		if err := w.Write([]string{strconv.Itoa(v)}); err != nil {
			f.Close()
			return fmt.Errorf("failed to write dataset: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	return f.Close()
}

// Prefixes returns the measurement points step, 2*step, ... up to total.
func Prefixes(total, step int) ([]int, error) {
	if step <= 0 {
		return nil, ErrInvalidStep
	}
	var out []int
	for n := step; n <= total; n += step {
		out = append(out, n)
	}
	return out, nil
}

// ParseCount validates a user supplied number of data points.
func ParseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrNotNumeric
	}
	if n < 0 {
		return 0, ErrNegativeCount
	}
	return n, nil
}

// ParseStep validates a user supplied step size.
func ParseStep(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, ErrInvalidStep
	}
	return n, nil
}
