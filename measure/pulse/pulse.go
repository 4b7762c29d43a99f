package pulse

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/dsp/normalize"
	"github.com/cwbudde/algo-pulse/dsp/peak"
	"github.com/cwbudde/algo-pulse/dsp/smooth"
)

// Physiologically plausible pulse-rate bounds. Estimates outside this range
// are clamped into it and flagged with ConfidenceLow.
const (
	MinBPM = 40
	MaxBPM = 200
)

// Confidence qualifies whether the raw estimate fell inside the plausible
// range before clamping.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

// String returns the lowercase tag for the confidence level.
func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	default:
		return fmt.Sprintf("confidence(%d)", int(c))
	}
}

// Config holds pulse analysis parameters. SampleRate and Duration describe
// the recording and must be positive; the remaining knobs default to the
// pipeline constants when left zero.
type Config struct {
	SampleRate         int
	Duration           float64 // seconds
	SmoothingHalfWidth int
	PeakThreshold      float64
	MinPeakDistance    int
}

// withDefaults fills the zero-valued algorithm knobs.
func (c Config) withDefaults() Config {
	if c.SmoothingHalfWidth <= 0 {
		c.SmoothingHalfWidth = smooth.DefaultHalfWidth
	}
	if c.PeakThreshold <= 0 {
		c.PeakThreshold = peak.DefaultThreshold
	}
	if c.MinPeakDistance <= 0 {
		c.MinPeakDistance = peak.MinDistance(c.SampleRate)
	}
	return c
}

// validate rejects caller preconditions the pipeline is not allowed to
// guess around.
func (c Config) validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("pulse: sample rate must be > 0: %d", c.SampleRate)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("pulse: recording duration must be > 0: %f", c.Duration)
	}
	return nil
}

// Result holds one pulse-rate estimate.
type Result struct {
	// BPM is the clamped estimate, always in [MinBPM, MaxBPM], or 0 when
	// the recording had insufficient rhythmic content.
	BPM        int
	Confidence Confidence

	// Peaks holds the accepted peak indices into Waveform.
	Peaks []int

	// Waveform is the smoothed signal the peaks were detected in.
	Waveform []float64

	// RawBPM is the estimate before clamping.
	RawBPM int

	// MeanIntervalSamples is the average spacing between accepted peaks.
	MeanIntervalSamples float64

	// IntervalJitter is the sample standard deviation of the peak
	// intervals. Large jitter relative to the mean suggests an unsteady
	// reading even when the rate itself is plausible.
	IntervalJitter float64
}

// Analyze runs the full pipeline on an already-normalized signal: smoothing,
// peak detection, and interval-based rate estimation.
//
// The estimator averages the spacing between consecutive accepted peaks and
// converts it to beats per minute. It needs at least two peaks; with fewer
// it returns a zero-BPM, low-confidence result that still carries the
// smoothed waveform. Analyze never fails on signal content, only on invalid
// configuration.
func Analyze(samples []float64, cfg Config) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}
	cfg = cfg.withDefaults()

	filtered := smooth.MovingAverage(samples, cfg.SmoothingHalfWidth)
	peaks := peak.Detect(filtered, cfg.PeakThreshold, cfg.MinPeakDistance)

	return estimate(peaks, filtered, cfg), nil
}

// AnalyzeRaw normalizes a raw sample sequence of either native encoding and
// analyzes it.
func AnalyzeRaw[T normalize.Sample](raw []T, cfg Config) (Result, error) {
	return Analyze(normalize.Signal(raw), cfg)
}

func estimate(peaks []int, filtered []float64, cfg Config) Result {
	if len(peaks) < 2 {
		return Result{
			BPM:        0,
			Confidence: ConfidenceLow,
			Peaks:      peaks,
			Waveform:   filtered,
		}
	}

	intervals := make([]float64, len(peaks)-1)
	for k := 1; k < len(peaks); k++ {
		intervals[k-1] = float64(peaks[k] - peaks[k-1])
	}

	meanInterval := stat.Mean(intervals, nil)

	var jitter float64
	if len(intervals) > 1 {
		jitter = stat.StdDev(intervals, nil)
	}

	rawBPM := int(math.Round(60 * float64(cfg.SampleRate) / meanInterval))

	confidence := ConfidenceLow
	if rawBPM >= MinBPM && rawBPM <= MaxBPM {
		confidence = ConfidenceHigh
	}

	return Result{
		BPM:                 core.ClampInt(rawBPM, MinBPM, MaxBPM),
		Confidence:          confidence,
		Peaks:               peaks,
		Waveform:            filtered,
		RawBPM:              rawBPM,
		MeanIntervalSamples: meanInterval,
		IntervalJitter:      jitter,
	}
}
