package analysis

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	N      int
	Mean   float64
	Std    float64
	Min    float64
	Max    float64
	Median float64
}

// Summarize returns descriptive statistics of data. An empty series gives
// the zero Summary.
func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}
	sorted := slices.Clone(data)
	slices.Sort(sorted)
	mean, std := stat.MeanStdDev(data, nil)
	if len(data) == 1 {
		std = 0
	}
	return Summary{
		N:      len(data),
		Mean:   mean,
		Std:    std,
		Min:    floats.Min(data),
		Max:    floats.Max(data),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
}
