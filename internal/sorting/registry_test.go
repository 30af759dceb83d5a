package sorting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		key  string
		want ID
	}{
		{"insertion", Insertion},
		{"Bubble Sort", Bubble},
		{"merge sort", Merge},
		{"quickSort", Quick},
		{"  HEAP ", Heap},
		{"selectionSort", Selection},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			a, ok := Lookup(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, a.ID)
			assert.NotNil(t, a.Sort)
		})
	}

	_, ok := Lookup("bogo")
	assert.False(t, ok)
}

func TestAllOrderAndIsolation(t *testing.T) {
	all := All()
	require.Len(t, all, 6)
	assert.Equal(t, []ID{Insertion, Bubble, Merge, Quick, Heap, Selection}, IDs())

	all[0].Name = "changed"
	assert.Equal(t, "Insertion Sort", All()[0].Name)
}

func TestResolve(t *testing.T) {
	algs, err := Resolve(nil)
	require.NoError(t, err)
	assert.Len(t, algs, 6)

	algs, err = Resolve([]string{"heap", "Quick Sort", "heapSort"})
	require.NoError(t, err)
	require.Len(t, algs, 2)
	assert.Equal(t, Heap, algs[0].ID)
	assert.Equal(t, Quick, algs[1].ID)

	_, err = Resolve([]string{"merge", "nope"})
	assert.ErrorContains(t, err, `unknown algorithm "nope"`)
}

func TestMeasureLeavesInputAlone(t *testing.T) {
	data := []int{5, 3, 1, 4, 2}
	for _, a := range All() {
		steps := a.Measure(data)
		assert.Positive(t, steps, a.Name)
		assert.Equal(t, []int{5, 3, 1, 4, 2}, data, a.Name)
	}
}
