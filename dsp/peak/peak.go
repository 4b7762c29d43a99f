// Package peak finds rhythmic local maxima in a smoothed signal.
//
// A peak is a strict local maximum above a fixed amplitude threshold.
// Accepted peaks must be separated by more than a minimum index distance,
// which rejects double detections of the same heartbeat (the dicrotic notch
// produces a secondary bump well inside 100 ms of the main pulse).
package peak

// DefaultThreshold is the minimum amplitude a sample must exceed to count
// as a peak candidate.
const DefaultThreshold = 0.01

// MinDistance returns the minimum index spacing between accepted peaks for
// the given sample rate, roughly 100 ms of signal.
func MinDistance(sampleRate int) int {
	return sampleRate / 10
}

// Detect scans signal left to right and returns the indices of accepted
// peaks in increasing order.
//
// Index i qualifies when signal[i] strictly exceeds both neighbors and the
// threshold; equality never counts. A qualifying candidate is accepted when
// it is the first one, or lies more than minDistance samples after the last
// accepted peak. Signals shorter than three samples have no interior and
// yield an empty result.
func Detect(signal []float64, threshold float64, minDistance int) []int {
	if len(signal) < 3 {
		return nil
	}

	var peaks []int
	last := -1

	for i := 1; i < len(signal)-1; i++ {
		if signal[i] <= signal[i-1] || signal[i] <= signal[i+1] {
			continue
		}
		if signal[i] <= threshold {
			continue
		}
		if last >= 0 && i-last <= minDistance {
			continue
		}

		peaks = append(peaks, i)
		last = i
	}

	return peaks
}
