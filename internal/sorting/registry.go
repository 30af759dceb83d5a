package sorting

import (
	"fmt"
	"slices"
	"strings"
)

// Func is the contract shared by every instrumented sort over the int domain:
// sort the slice in place and report the step count.
type Func func([]int) int

// ID identifies an algorithm on the command line and in config files.
type ID string

const (
	Insertion ID = "insertion"
	Bubble    ID = "bubble"
	Merge     ID = "merge"
	Quick     ID = "quick"
	Heap      ID = "heap"
	Selection ID = "selection"
)

// Algorithm describes one registered sort.
type Algorithm struct {
	ID   ID
	Name string // display name, e.g. "Insertion Sort"
	Func string // function name used in the result log, e.g. "insertionSort"
	Sort Func
}

// registry holds the algorithms in display order. It is never mutated after
// package initialisation.
var registry = []Algorithm{
	{ID: Insertion, Name: "Insertion Sort", Func: "insertionSort", Sort: InsertionSort[int]},
	{ID: Bubble, Name: "Bubble Sort", Func: "bubbleSort", Sort: BubbleSort[int]},
	{ID: Merge, Name: "Merge Sort", Func: "mergeSort", Sort: MergeSort[int]},
	{ID: Quick, Name: "Quick Sort", Func: "quickSort", Sort: QuickSort[int]},
	{ID: Heap, Name: "Heap Sort", Func: "heapSort", Sort: HeapSort[int]},
	{ID: Selection, Name: "Selection Sort", Func: "selectionSort", Sort: SelectionSort[int]},
}

// All returns every registered algorithm in display order.
func All() []Algorithm {
	return slices.Clone(registry)
}

// IDs returns the registered IDs in display order.
func IDs() []ID {
	ids := make([]ID, len(registry))
	for i, a := range registry {
		ids[i] = a.ID
	}
	return ids
}

// Lookup finds an algorithm by ID, display name or function name. Matching
// ignores case and surrounding whitespace.
func Lookup(key string) (Algorithm, bool) {
	key = strings.TrimSpace(key)
	for _, a := range registry {
		if strings.EqualFold(key, string(a.ID)) ||
			strings.EqualFold(key, a.Name) ||
			strings.EqualFold(key, a.Func) {
			return a, true
		}
	}
	return Algorithm{}, false
}

// Resolve maps a list of keys to algorithms, dropping duplicates while keeping
// the caller's order. An empty list selects every algorithm.
func Resolve(keys []string) ([]Algorithm, error) {
	if len(keys) == 0 {
		return All(), nil
	}
	var out []Algorithm
	seen := make(map[ID]bool)
	for _, k := range keys {
		a, ok := Lookup(k)
		if !ok {
			return nil, fmt.Errorf("unknown algorithm %q (valid: %v)", k, IDs())
		}
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	return out, nil
}

// Measure runs the algorithm on a private copy of data so the caller's slice
// is never mutated, and returns the step count.
func (a Algorithm) Measure(data []int) int {
	return a.Sort(slices.Clone(data))
}
