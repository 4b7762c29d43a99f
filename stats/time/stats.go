// Package time computes time-domain level statistics of a recorded signal
// in a single pass. The pulse CLI uses these to describe the input
// recording before analysis.
package time

import "math"

// Stats holds time-domain signal statistics.
//
//nolint:revive
type Stats struct {
	Length        int
	DC            float64 // mean
	DC_dB         float64
	RMS           float64
	RMS_dB        float64
	Max           float64
	MaxPos        int
	Min           float64
	MinPos        int
	Peak          float64 // max(|max|, |min|)
	Peak_dB       float64
	Range         float64 // max - min
	Range_dB      float64
	ZeroCrossings int
}

// ampTodB converts an amplitude value to decibels: 20 * log10(|value|).
// Returns -Inf for zero values.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

// emptyStats returns a zero-valued Stats with -Inf for all dB fields.
func emptyStats() Stats {
	return Stats{
		DC_dB:    math.Inf(-1),
		RMS_dB:   math.Inf(-1),
		Peak_dB:  math.Inf(-1),
		Range_dB: math.Inf(-1),
	}
}

// Calculate computes all statistics in a single pass over the signal.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return emptyStats()
	}

	var (
		sum           float64
		sumSq         float64
		maxVal        = signal[0]
		maxPos        int
		minVal        = signal[0]
		minPos        int
		zeroCrossings int
	)

	for i, x := range signal {
		sum += x
		sumSq += x * x

		if x > maxVal {
			maxVal = x
			maxPos = i
		}

		if x < minVal {
			minVal = x
			minPos = i
		}

		if i > 0 && signal[i-1]*x < 0 {
			zeroCrossings++
		}
	}

	nf := float64(n)
	mean := sum / nf
	rms := math.Sqrt(sumSq / nf)
	peak := math.Max(math.Abs(maxVal), math.Abs(minVal))
	rangeVal := maxVal - minVal

	return Stats{
		Length:        n,
		DC:            mean,
		DC_dB:         ampTodB(mean),
		RMS:           rms,
		RMS_dB:        ampTodB(rms),
		Max:           maxVal,
		MaxPos:        maxPos,
		Min:           minVal,
		MinPos:        minPos,
		Peak:          peak,
		Peak_dB:       ampTodB(peak),
		Range:         rangeVal,
		Range_dB:      ampTodB(rangeVal),
		ZeroCrossings: zeroCrossings,
	}
}
