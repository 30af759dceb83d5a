// Package sorting implements the six instrumented comparison sorts.
//
// Every function sorts its argument in place (ascending) and returns a step
// count. The counting conventions differ between algorithms on purpose: the
// counts are compared against asymptotic curves by shape, never against each
// other in absolute terms. Recursive algorithms thread the running count
// through their helpers as an accumulating return value.
package sorting

import "cmp"

// InsertionSort counts one step per key extraction and two per shift.
func InsertionSort[T cmp.Ordered](a []T) int {
	steps := 0
	for i := 1; i < len(a); i++ {
		key := a[i]
		j := i - 1
		steps++
		for j >= 0 && a[j] > key {
			a[j+1] = a[j]
			j--
			steps += 2
		}
		a[j+1] = key
	}
	return steps
}

// BubbleSort counts every comparison and every swap. There is no early exit
// on a pass without swaps.
func BubbleSort[T cmp.Ordered](a []T) int {
	steps := 0
	for i := 0; i < len(a)-1; i++ {
		for j := 0; j < len(a)-i-1; j++ {
			steps++
			if a[j] > a[j+1] {
				a[j], a[j+1] = a[j+1], a[j]
				steps++
			}
		}
	}
	return steps
}

// MergeSort is a top-down merge sort over the closed range [0, len(a)-1].
func MergeSort[T cmp.Ordered](a []T) int {
	return mergeSortRange(a, 0, len(a)-1, 0)
}

func mergeSortRange[T cmp.Ordered](a []T, l, r, steps int) int {
	if l >= r {
		return steps
	}
	m := l + (r-l)/2
	steps = mergeSortRange(a, l, m, steps)
	steps = mergeSortRange(a, m+1, r, steps)
	return merge(a, l, m, r, steps)
}

// merge joins the sorted runs a[l..m] and a[m+1..r]. The copy-out costs one
// step per element, then every placement costs one more.
func merge[T cmp.Ordered](a []T, l, m, r, steps int) int {
	left := append([]T(nil), a[l:m+1]...)
	right := append([]T(nil), a[m+1:r+1]...)
	steps += len(left) + len(right)

	i, j, k := 0, 0, l
	for i < len(left) && j < len(right) {
		steps++
		if left[i] <= right[j] {
			a[k] = left[i]
			i++
		} else {
			a[k] = right[j]
			j++
		}
		k++
	}
	for ; i < len(left); i++ {
		a[k] = left[i]
		k++
		steps++
	}
	for ; j < len(right); j++ {
		a[k] = right[j]
		k++
		steps++
	}
	return steps
}

// QuickSort uses Lomuto partitioning with the last element as pivot.
func QuickSort[T cmp.Ordered](a []T) int {
	return quickSortRange(a, 0, len(a)-1, 0)
}

func quickSortRange[T cmp.Ordered](a []T, lo, hi, steps int) int {
	if lo < hi {
		var p int
		p, steps = partition(a, lo, hi, steps)
		steps = quickSortRange(a, lo, p-1, steps)
		steps = quickSortRange(a, p+1, hi, steps)
	}
	return steps
}

func partition[T cmp.Ordered](a []T, lo, hi, steps int) (int, int) {
	pivot := a[hi]
	steps++
	i := lo - 1
	for j := lo; j < hi; j++ {
		steps++
		if a[j] <= pivot {
			i++
			a[i], a[j] = a[j], a[i]
			steps++
		}
	}
	a[i+1], a[hi] = a[hi], a[i+1]
	steps++
	return i + 1, steps
}

// HeapSort builds a max-heap bottom-up, then repeatedly moves the root
// behind the shrinking heap.
func HeapSort[T cmp.Ordered](a []T) int {
	n := len(a)
	steps := 0
	for i := n/2 - 1; i >= 0; i-- {
		steps = siftDown(a, n, i, steps)
	}
	for i := n - 1; i > 0; i-- {
		a[0], a[i] = a[i], a[0]
		steps++
		steps = siftDown(a, i, 0, steps)
	}
	return steps
}

// siftDown restores the heap property below node i of the heap a[:n].
// The left child is compared against the node itself, the right child
// against whichever is currently largest.
func siftDown[T cmp.Ordered](a []T, n, i, steps int) int {
	l := 2*i + 1
	r := 2*i + 2
	largest := i
	if l < n && a[l] > a[i] {
		largest = l
		steps++
	}
	if r < n && a[r] > a[largest] {
		largest = r
		steps++
	}
	if largest != i {
		a[i], a[largest] = a[largest], a[i]
		steps++
		steps = siftDown(a, n, largest, steps)
	}
	return steps
}

// SelectionSort counts candidate initialisation, every comparison, every
// candidate update and the closing swap when one is needed.
func SelectionSort[T cmp.Ordered](a []T) int {
	steps := 0
	for i := 0; i < len(a)-1; i++ {
		minIdx := i
		steps++
		for j := i + 1; j < len(a); j++ {
			steps++
			if a[j] < a[minIdx] {
				minIdx = j
				steps++
			}
		}
		if minIdx != i {
			a[i], a[minIdx] = a[minIdx], a[i]
			steps++
		}
	}
	return steps
}
