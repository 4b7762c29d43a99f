// Package smooth implements the symmetric moving-average low-pass filter
// used to suppress high-frequency noise before peak detection.
//
// The filter replaces each sample with the arithmetic mean of its neighbors
// inside a window of half-width W. At the sequence boundaries the window is
// truncated rather than zero-padded, so the divisor shrinks to the number of
// samples actually present. This boundary behavior is load-bearing for peak
// detection near the edges and must not be changed.
//
// The filter has no high-pass component: slow baseline drift passes through
// unchanged. This is a documented limitation of the averaging approach, not
// something to compensate for here.
package smooth

import "github.com/cwbudde/algo-pulse/dsp/core"

// DefaultHalfWidth is the window half-width used by the pulse pipeline.
// At 44.1 kHz a half-width of 20 spans under a millisecond on each side,
// enough to flatten microphone hiss without rounding off heartbeat pulses.
const DefaultHalfWidth = 20

// MovingAverage returns a filtered copy of signal using a symmetric
// truncated window of the given half-width.
//
// The output has the same length as the input. A non-positive halfWidth
// returns an unfiltered copy.
func MovingAverage(signal []float64, halfWidth int) []float64 {
	out := make([]float64, len(signal))
	MovingAverageTo(out, signal, halfWidth)
	return out
}

// MovingAverageTo filters signal into dst, which must have the same length.
// It is the allocation-free variant of MovingAverage.
//
// The implementation runs in O(n) using a running prefix sum: the mean over
// [lo, hi] is (prefix[hi+1] - prefix[lo]) / (hi - lo + 1). This matches the
// naive double loop within floating-point tolerance.
func MovingAverageTo(dst, signal []float64, halfWidth int) {
	n := len(signal)
	if n == 0 {
		return
	}

	if halfWidth <= 0 {
		core.CopyInto(dst, signal)
		return
	}

	prefix := make([]float64, n+1)
	for i, v := range signal {
		prefix[i+1] = prefix[i] + v
	}

	for i := range n {
		lo := i - halfWidth
		if lo < 0 {
			lo = 0
		}

		hi := i + halfWidth
		if hi > n-1 {
			hi = n - 1
		}

		dst[i] = (prefix[hi+1] - prefix[lo]) / float64(hi-lo+1)
	}
}
