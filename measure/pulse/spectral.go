package pulse

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// ErrEmptySignal is returned by DominantFrequency for zero-length input.
var ErrEmptySignal = errors.New("pulse: signal must not be empty")

// DominantFrequency returns the frequency (Hz) of the strongest non-DC
// spectral component of signal.
//
// This is a diagnostic: a clean skin-contact recording shows its dominant
// component near the heart rate (around 1-2 Hz), while a dominant component
// far above it points at noise contamination. The value never feeds back
// into the BPM estimate, which stays purely time-domain.
func DominantFrequency(signal []float64, sampleRate float64) (float64, error) {
	if len(signal) == 0 {
		return 0, ErrEmptySignal
	}
	if sampleRate <= 0 {
		return 0, fmt.Errorf("pulse: sample rate must be > 0: %f", sampleRate)
	}

	fftSize := nextPowerOf2(len(signal))
	if fftSize < 4 {
		fftSize = 4
	}

	// Remove the mean so DC leakage through the window cannot mask the
	// pulse component, then apply a Hann window against spectral leakage.
	var mean float64
	for _, v := range signal {
		mean += v
	}
	mean /= float64(len(signal))

	windowed := make([]float64, len(signal))
	for i, v := range signal {
		windowed[i] = v - mean
	}
	vecmath.MulBlockInPlace(windowed, hann(len(signal)))

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return 0, fmt.Errorf("pulse: failed to create FFT plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return 0, fmt.Errorf("pulse: forward FFT failed: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	best := 1
	for k := 2; k < bins; k++ {
		if mag[k] > mag[best] {
			best = k
		}
	}

	return float64(best) * sampleRate / float64(fftSize), nil
}

func hann(n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = 1
		return out
	}
	for i := range out {
		out[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return out
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
