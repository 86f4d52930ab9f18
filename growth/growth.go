// SPDX-License-Identifier: MIT

// Package growth turns a canvas's row sums into growth statistics.
//
// For every row i whose live count sum[i] is non-zero the sample i/sum[i] is
// taken (row 0 included, where it is always 0). Stats reports the samples,
// their mean and their population standard deviation, plus the ±1..3 sigma
// bands used to judge whether a rule grows linearly.
//
// A canvas that is dead on every row carries no information: Compute then
// returns NaN moments together with ErrNoGrowthData.
package growth

import (
	"errors"
	"math"
)

// ErrNoGrowthData indicates that every row sum was zero.
var ErrNoGrowthData = errors.New("growth: every row sum is zero")

// Stats summarizes the growth samples of one canvas.
type Stats struct {
	Samples []float64
	Mean    float64
	StdDev  float64
}

// Compute derives the samples, mean and population standard deviation.
// Complexity: O(len(sums)).
func Compute(sums []uint32) (Stats, error) {
	samples := make([]float64, 0, len(sums))
	for i, s := range sums {
		if s == 0 {
			continue
		}
		samples = append(samples, float64(i)/float64(s))
	}
	if len(samples) == 0 {
		return Stats{Samples: samples, Mean: math.NaN(), StdDev: math.NaN()}, ErrNoGrowthData
	}

	n := float64(len(samples))
	var total float64
	for _, v := range samples {
		total += v
	}
	mean := total / n

	var sq float64
	for _, v := range samples {
		d := v - mean
		sq += d * d
	}

	return Stats{Samples: samples, Mean: mean, StdDev: math.Sqrt(sq / n)}, nil
}

// Offset returns k standard deviations.
func (s Stats) Offset(k int) float64 {
	return float64(k) * s.StdDev
}

// Band returns Mean + k·StdDev.
func (s Stats) Band(k int) float64 {
	return s.Mean + s.Offset(k)
}

// Bands returns Band(k) for k in -3..-1 and 1..3.
func (s Stats) Bands() map[int]float64 {
	out := make(map[int]float64, 6)
	for k := 1; k <= 3; k++ {
		out[k] = s.Band(k)
		out[-k] = s.Band(-k)
	}

	return out
}
