package hype

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurofit/optimizer/pkg/multiobjective/indicator"
)

var (
	goldenPoints = [][]float64{{250, 250}, {0, 0}, {240, 240}}
	goldenBounds = []float64{250, 250}
)

func TestIndicatorExactGolden(t *testing.T) {
	hv, err := IndicatorExact(goldenPoints, goldenBounds, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 62500, 100}, hv)
}

func TestIndicatorExact(t *testing.T) {
	tests := []struct {
		name   string
		points [][]float64
		bounds []float64
		k      int
		want   []float64
	}{
		{
			name:   "single point is its dominated volume",
			points: [][]float64{{1, 2, 3}},
			bounds: []float64{4, 4, 4},
			k:      -1,
			want:   []float64{6},
		},
		{
			name:   "2d exclusive contributions",
			points: [][]float64{{0, 2}, {2, 0}, {1, 1}},
			bounds: []float64{3, 3},
			k:      1,
			want:   []float64{1, 1, 1},
		},
		{
			name:   "2d k defaults to population size",
			points: [][]float64{{0, 2}, {2, 0}, {1, 1}},
			bounds: []float64{3, 3},
			k:      -1,
			want:   []float64{29.0 / 18, 29.0 / 18, 38.0 / 18},
		},
		{
			name:   "3d exclusive contributions",
			points: [][]float64{{1, 2, 3}, {2, 1, 2}, {3, 3, 1}},
			bounds: []float64{4, 4, 4},
			k:      1,
			want:   []float64{2, 7, 1},
		},
		{
			name:   "3d k defaults to population size",
			points: [][]float64{{1, 2, 3}, {2, 1, 2}, {3, 3, 1}},
			bounds: []float64{4, 4, 4},
			k:      -1,
			want:   []float64{65.0 / 18, 164.0 / 18, 29.0 / 18},
		},
		{
			name:   "point on the reference point contributes nothing",
			points: [][]float64{{4, 4}, {1, 1}},
			bounds: []float64{4, 4},
			k:      -1,
			want:   []float64{0, 9},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IndicatorExact(tt.points, tt.bounds, tt.k)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(1e-12, 1e-12)); diff != "" {
				t.Errorf("IndicatorExact() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIndicatorExactDoesNotReorderInput(t *testing.T) {
	points := [][]float64{{3, 1}, {1, 3}, {2, 2}}
	orig := [][]float64{{3, 1}, {1, 3}, {2, 2}}
	_, err := IndicatorExact(points, []float64{4, 4}, -1)
	require.NoError(t, err)
	assert.Equal(t, orig, points)
}

func TestIndicatorSampledGolden(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))
	hv, err := IndicatorSampled(goldenPoints, goldenBounds, 5, 1_000_000, rng)
	require.NoError(t, err)

	assert.Equal(t, 0.0, hv[0])
	assert.Equal(t, 62500.0, hv[1])
	assert.Less(t, math.Abs(hv[2]/100-1), 0.05)
}

func TestIndicatorSampledConvergesToExact(t *testing.T) {
	points := [][]float64{{1, 2, 3}, {2, 1, 2}, {3, 3, 1}}
	bounds := []float64{4, 4, 4}

	exact, err := IndicatorExact(points, bounds, -1)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(7, 11))
	sampled, err := Estimate(points, bounds, Options{K: -1, Mode: Sampled, Samples: 500_000, Rand: rng})
	require.NoError(t, err)

	for i := range exact {
		assert.InDelta(t, exact[i], sampled[i], 0.15, "point %d", i)
	}
}

func TestIndicatorSampledIsReproducible(t *testing.T) {
	a, err := IndicatorSampled(goldenPoints, goldenBounds, -1, 1000, rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	b, err := IndicatorSampled(goldenPoints, goldenBounds, -1, 1000, rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEstimateInvalidInput(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	tests := []struct {
		name   string
		points [][]float64
		bounds []float64
		opts   Options
	}{
		{"no points", nil, []float64{1}, Options{K: -1}},
		{"dimension mismatch", [][]float64{{1, 2}}, []float64{1}, Options{K: -1}},
		{"non-finite point", [][]float64{{math.NaN()}}, []float64{1}, Options{K: -1}},
		{"non-finite bound", [][]float64{{0}}, []float64{math.Inf(1)}, Options{K: -1}},
		{"no samples", [][]float64{{0}}, []float64{1}, Options{K: -1, Mode: Sampled, Rand: rng}},
		{"no random source", [][]float64{{0}}, []float64{1}, Options{K: -1, Mode: Sampled, Samples: 10}},
		{"unknown mode", [][]float64{{0}}, []float64{1}, Options{K: -1, Mode: Mode(7)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Estimate(tt.points, tt.bounds, tt.opts)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestEstimateNonFiniteWrapsObjectiveError(t *testing.T) {
	_, err := IndicatorExact([][]float64{{math.Inf(1), 0}}, []float64{1, 1}, -1)
	assert.ErrorIs(t, err, indicator.ErrInvalidObjectiveValue)
}
