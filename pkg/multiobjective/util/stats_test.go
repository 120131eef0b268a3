package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		want float64
	}{
		{"odd", []float64{3, 1, 2}, 2},
		{"even averages", []float64{4, 1, 3, 2}, 2.5},
		{"single", []float64{7}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Median(tt.x))
		})
	}
	assert.True(t, math.IsNaN(Median(nil)))

	x := []float64{3, 1, 2}
	Median(x)
	assert.Equal(t, []float64{3, 1, 2}, x)
}

func TestTail(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	assert.Equal(t, []float64{3, 4}, Tail(x, 2))
	assert.Equal(t, x, Tail(x, 10))
}
