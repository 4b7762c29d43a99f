// Package signal creates deterministic test and demo signals, including a
// synthetic heartbeat pulse train for exercising the pulse pipeline without
// a microphone.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-pulse/dsp/core"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg:  core.ApplyProcessorOptions(opts...),
		seed: 1,
	}
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// pulseWidthSeconds is the duration of one synthetic systolic burst.
const pulseWidthSeconds = 0.06

// PulseTrain generates a heartbeat-like signal: a half-sine burst of fixed
// width at every beat period, zero amplitude in between. The first burst
// starts at sample 0.
func (g *Generator) PulseTrain(rateBPM, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("pulse train samples must be > 0: %d", samples)
	}
	if rateBPM <= 0 {
		return nil, fmt.Errorf("pulse train rate must be > 0 BPM: %f", rateBPM)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("pulse train sample rate must be > 0: %f", g.cfg.SampleRate)
	}

	period := int(math.Round(g.cfg.SampleRate * 60 / rateBPM))
	if period < 1 {
		period = 1
	}

	width := int(math.Round(g.cfg.SampleRate * pulseWidthSeconds))
	if width > period/2 {
		width = period / 2
	}
	// Keep the width even so the burst maximum falls on the single sample at
	// width/2. A symmetric two-sample plateau would fail the strict
	// local-maximum rule of the peak detector.
	width &^= 1
	if width < 4 {
		width = 4
	}

	out := make([]float64, samples)
	for i := range out {
		pos := i % period
		if pos < width {
			out[i] = amplitude * math.Sin(math.Pi*float64(pos)/float64(width))
		}
	}
	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
