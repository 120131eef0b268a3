package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/neurofit/optimizer/pkg/multiobjective/framework"
)

func TestEpsilonDominance(t *testing.T) {
	a := []float64{240, 240}
	b := []float64{250, 250}
	box, err := NewBox([][]float64{a, b})
	require.NoError(t, err)

	ab, err := Epsilon(a, b, box)
	require.NoError(t, err)
	ba, err := Epsilon(b, a, box)
	require.NoError(t, err)

	// Minimizing, a dominates b.
	assert.Less(t, ab, 0.0)
	assert.Greater(t, ba, 0.0)
	assert.InDelta(t, -1.0, ab, 1e-12)
	assert.InDelta(t, 1.0, ba, 1e-12)
}

func TestEpsilonMaximizedObjectives(t *testing.T) {
	// Both maximized: b = [250, 250] is the better individual once negated.
	a := framework.Maximize.Orient([]float64{240, 240})
	b := framework.Maximize.Orient([]float64{250, 250})
	box, err := NewBox([][]float64{a, b})
	require.NoError(t, err)

	ba, err := Epsilon(b, a, box)
	require.NoError(t, err)
	ab, err := Epsilon(a, b, box)
	require.NoError(t, err)
	assert.Less(t, ba, 0.0)
	assert.Greater(t, ab, 0.0)
}

func TestEpsilonIncomparable(t *testing.T) {
	a := []float64{0, 10}
	b := []float64{10, 0}
	box, err := NewBox([][]float64{a, b})
	require.NoError(t, err)

	ab, err := Epsilon(a, b, box)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ab, 1e-12)
}

func TestEpsilonConstantObjective(t *testing.T) {
	// The second objective has zero width: it is scaled by 1.
	points := [][]float64{{1, 7}, {3, 7}}
	box, err := NewBox(points)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1}, box.Ranges())

	eps, err := Epsilon(points[0], points[1], box)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, eps, 1e-12)
	assert.False(t, math.IsNaN(eps))

	// Outside a degenerate box the raw difference is used.
	eps, err = Epsilon([]float64{1, 9}, []float64{1, 7}, box)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, eps, 1e-12)
}

func TestEpsilonInvalidInput(t *testing.T) {
	box := Box{Min: []float64{0, 0}, Max: []float64{1, 1}}
	tests := []struct {
		name string
		a, b []float64
	}{
		{"nan", []float64{math.NaN(), 0}, []float64{0, 0}},
		{"inf", []float64{0, 0}, []float64{math.Inf(-1), 0}},
		{"length mismatch", []float64{0}, []float64{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Epsilon(tt.a, tt.b, box)
			assert.ErrorIs(t, err, ErrInvalidObjectiveValue)
		})
	}
}

func TestNewBoxRejectsBadMatrix(t *testing.T) {
	_, err := NewBox(nil)
	assert.ErrorIs(t, err, ErrInvalidObjectiveValue)

	_, err = NewBox([][]float64{{1, 2}, {1}})
	assert.ErrorIs(t, err, ErrInvalidObjectiveValue)

	_, err = NewBox([][]float64{{1, 2}, {math.Inf(1), 1}})
	assert.ErrorIs(t, err, ErrInvalidObjectiveValue)
}

func TestMatrixIdenticalPoints(t *testing.T) {
	points := [][]float64{{1, 2}, {1, 2}, {1, 2}}
	m, err := Matrix(points)
	require.NoError(t, err)

	r, c := m.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 3, c)
	assert.True(t, mat.Equal(m, mat.NewDense(3, 3, nil)))
}

func TestMatrixOrientation(t *testing.T) {
	points := [][]float64{{0, 0}, {1, 1}}
	m, err := Matrix(points)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, m.At(0, 1), 1e-12)
	assert.InDelta(t, 1.0, m.At(1, 0), 1e-12)
	assert.Zero(t, m.At(0, 0))
	assert.Zero(t, m.At(1, 1))
}
