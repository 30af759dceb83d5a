package asymptotic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sortlab/internal/sorting"
)

func TestEveryAlgorithmHasBounds(t *testing.T) {
	for _, id := range sorting.IDs() {
		b, ok := Lookup(id)
		require.True(t, ok, "missing bounds for %s", id)
		assert.NotNil(t, b.BigO)
		assert.NotNil(t, b.BigOmega)
		assert.NotNil(t, b.Theta)
		assert.NotEmpty(t, b.ThetaLabel)
	}

	_, ok := Lookup("bogo")
	assert.False(t, ok)
}

func TestCurves(t *testing.T) {
	tests := []struct {
		name  string
		curve Curve
		n     int
		want  float64
	}{
		{"linear 0", Linear, 0, 0},
		{"linear 7", Linear, 7, 7},
		{"quadratic 0", Quadratic, 0, 0},
		{"quadratic 12", Quadratic, 12, 144},
		{"linearithmic 0", Linearithmic, 0, 0},
		{"linearithmic negative", Linearithmic, -4, 0},
		{"linearithmic 1", Linearithmic, 1, 0},
		{"linearithmic 8", Linearithmic, 8, 24},
		{"linearithmic 1024", Linearithmic, 1024, 10240},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.curve(tt.n), 1e-9)
		})
	}
}

func TestEvaluate(t *testing.T) {
	b, ok := Lookup(sorting.Insertion)
	require.True(t, ok)
	assert.Equal(t, Values{BigO: 100, BigOmega: 10, Theta: 100}, b.Evaluate(10))

	b, ok = Lookup(sorting.Heap)
	require.True(t, ok)
	v := b.Evaluate(16)
	assert.InDelta(t, 64, v.BigO, 1e-9)
	assert.Equal(t, v.BigO, v.BigOmega)
	assert.Equal(t, v.BigO, v.Theta)
}
