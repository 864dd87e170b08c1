package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanAndSum(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Sum(nil))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
	assert.InDelta(t, 10.0, Sum([]float64{1, 2, 3, 4}), 1e-12)
}

func TestSampleStdDev(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"single value", []float64{3}, 0},
		{"constant", []float64{2, 2, 2, 2}, 0},
		// sample variance of 1..4 is 5/3
		{"one to four", []float64{1, 2, 3, 4}, math.Sqrt(5.0 / 3.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SampleStdDev(tt.data), 1e-12)
		})
	}
}

func TestLinearTrend(t *testing.T) {
	t.Run("all zero series is degenerate", func(t *testing.T) {
		growth, volatility := LinearTrend([]float64{0, 0, 0, 0})
		assert.Equal(t, 0.0, growth)
		assert.Equal(t, 0.0, volatility)
	})

	t.Run("series summing to zero is degenerate", func(t *testing.T) {
		growth, volatility := LinearTrend([]float64{-1, 1, -2, 2})
		assert.Equal(t, 0.0, growth)
		assert.Equal(t, 0.0, volatility)
	})

	t.Run("perfect line", func(t *testing.T) {
		growth, volatility := LinearTrend([]float64{1, 2, 3, 4})
		// slope 1, mean 2.5, no residual
		assert.Greater(t, growth, 0.0)
		assert.InDelta(t, 0.4, growth, 1e-9)
		assert.InDelta(t, 0.0, volatility, 1e-9)
	})

	t.Run("falling series", func(t *testing.T) {
		growth, _ := LinearTrend([]float64{8, 6, 4, 2})
		assert.InDelta(t, -0.4, growth, 1e-9)
	})

	t.Run("noisy series", func(t *testing.T) {
		// fit of 1,3,2,4: slope 0.8, intercept 1.3, residuals -0.3,0.9,-0.9,0.3
		growth, volatility := LinearTrend([]float64{1, 3, 2, 4})
		assert.InDelta(t, 0.8/2.5, growth, 1e-9)
		assert.InDelta(t, math.Sqrt(1.8/4)/2.5, volatility, 1e-9)
	})

	t.Run("single value", func(t *testing.T) {
		growth, volatility := LinearTrend([]float64{5})
		assert.Equal(t, 0.0, growth)
		assert.Equal(t, 0.0, volatility)
	})
}
