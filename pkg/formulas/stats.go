// Package formulas holds the numeric building blocks used by the metrics engine.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TrendResidualDivisor normalises the residual sum of squares of a trend fit.
// It matches the four-year window the trends are fitted over.
const TrendResidualDivisor = 4.0

// Sum returns the sum of the values, 0 for an empty slice
func Sum(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return floats.Sum(data)
}

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// SampleStdDev calculates the sample (n-1) standard deviation.
// Fewer than two values have no spread and yield 0.
func SampleStdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// LinearTrend fits a first-degree polynomial over the index positions of the
// series and returns the slope and the residual spread, both divided by the
// series mean:
//
//	growth     = slope / mean
//	volatility = sqrt(rss / TrendResidualDivisor) / mean
//
// A series that sums to zero has no meaningful normalisation and yields (0, 0).
func LinearTrend(series []float64) (growth, volatility float64) {
	if len(series) == 0 || Sum(series) == 0 {
		return 0, 0
	}

	mean := Mean(series)
	if len(series) < 2 {
		return 0, 0
	}

	xs := make([]float64, len(series))
	for i := range xs {
		xs[i] = float64(i)
	}

	intercept, slope := stat.LinearRegression(xs, series, nil, false)

	var rss float64
	for i, y := range series {
		r := y - (intercept + slope*xs[i])
		rss += r * r
	}

	return slope / mean, math.Sqrt(rss/TrendResidualDivisor) / mean
}
