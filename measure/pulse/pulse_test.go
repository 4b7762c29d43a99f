package pulse

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/dsp/signal"
)

const (
	testSampleRate = 44100
	testDuration   = 15.0
)

func testConfig() Config {
	return Config{
		SampleRate: testSampleRate,
		Duration:   testDuration,
	}
}

func pulseTrain(t *testing.T, bpm float64) []float64 {
	t.Helper()
	g := signal.NewGenerator(core.WithSampleRate(testSampleRate))
	out, err := g.PulseTrain(bpm, 0.8, int(testSampleRate*testDuration))
	if err != nil {
		t.Fatalf("PulseTrain: %v", err)
	}
	return out
}

func sine(t *testing.T, freqHz, amplitude, seconds float64) []float64 {
	t.Helper()
	g := signal.NewGenerator(core.WithSampleRate(testSampleRate))
	out, err := g.Sine(freqHz, amplitude, int(testSampleRate*seconds))
	if err != nil {
		t.Fatalf("Sine: %v", err)
	}
	return out
}

func TestAnalyze_SyntheticPulseTrain80BPM(t *testing.T) {
	res, err := Analyze(pulseTrain(t, 80), testConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.BPM < 75 || res.BPM > 85 {
		t.Errorf("BPM = %d, want within 80±5", res.BPM)
	}
	if res.Confidence == ConfidenceLow {
		t.Errorf("Confidence = %v, want != low", res.Confidence)
	}
	if len(res.Peaks) < 2 {
		t.Errorf("peaks = %d, want >= 2", len(res.Peaks))
	}
	if len(res.Waveform) != int(testSampleRate*testDuration) {
		t.Errorf("waveform length = %d, want %d", len(res.Waveform), int(testSampleRate*testDuration))
	}
}

func TestAnalyze_Silence(t *testing.T) {
	res, err := Analyze(make([]float64, testSampleRate*15), testConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.BPM != 0 {
		t.Errorf("BPM = %d, want 0", res.BPM)
	}
	if res.Confidence != ConfidenceLow {
		t.Errorf("Confidence = %v, want low", res.Confidence)
	}
	if len(res.Peaks) != 0 {
		t.Errorf("peaks = %v, want none", res.Peaks)
	}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	res, err := Analyze(nil, testConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.BPM != 0 || res.Confidence != ConfidenceLow {
		t.Errorf("empty input: BPM = %d, Confidence = %v, want 0/low", res.BPM, res.Confidence)
	}
}

func TestAnalyze_FastRateClampedHigh(t *testing.T) {
	// A 4 Hz oscillation reads as 240 BPM, above the plausible range.
	res, err := Analyze(sine(t, 4, 0.5, 5), Config{SampleRate: testSampleRate, Duration: 5})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.BPM != MaxBPM {
		t.Errorf("BPM = %d, want clamped to %d", res.BPM, MaxBPM)
	}
	if res.Confidence != ConfidenceLow {
		t.Errorf("Confidence = %v, want low for out-of-range estimate", res.Confidence)
	}
	if res.RawBPM < 235 || res.RawBPM > 245 {
		t.Errorf("RawBPM = %d, want about 240", res.RawBPM)
	}
}

func TestAnalyze_SlowRateClampedLow(t *testing.T) {
	// A 0.5 Hz oscillation reads as 30 BPM, below the plausible range.
	res, err := Analyze(sine(t, 0.5, 0.5, 15), testConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.BPM != MinBPM {
		t.Errorf("BPM = %d, want clamped to %d", res.BPM, MinBPM)
	}
	if res.Confidence != ConfidenceLow {
		t.Errorf("Confidence = %v, want low for out-of-range estimate", res.Confidence)
	}
}

func TestAnalyze_SinglePeakInsufficient(t *testing.T) {
	// One clean pulse only: the interval estimator needs at least two.
	buf := make([]float64, testSampleRate)
	g := signal.NewGenerator(core.WithSampleRate(testSampleRate))
	burst, err := g.PulseTrain(60, 0.8, testSampleRate/2)
	if err != nil {
		t.Fatalf("PulseTrain: %v", err)
	}
	copy(buf, burst)

	res, err := Analyze(buf, Config{SampleRate: testSampleRate, Duration: 1})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.BPM != 0 || res.Confidence != ConfidenceLow {
		t.Errorf("single peak: BPM = %d, Confidence = %v, want 0/low", res.BPM, res.Confidence)
	}
	if len(res.Peaks) != 1 {
		t.Errorf("peaks = %v, want exactly one carried through", res.Peaks)
	}
}

func TestAnalyze_BPMAlwaysInRange(t *testing.T) {
	freqs := []float64{0.3, 0.7, 1, 1.5, 2.5, 4, 6}
	for _, f := range freqs {
		res, err := Analyze(sine(t, f, 0.5, 10), Config{SampleRate: testSampleRate, Duration: 10})
		if err != nil {
			t.Fatalf("Analyze(%g Hz): %v", f, err)
		}
		if len(res.Peaks) < 2 {
			continue
		}
		if res.BPM < MinBPM || res.BPM > MaxBPM {
			t.Errorf("%g Hz: BPM = %d outside [%d, %d]", f, res.BPM, MinBPM, MaxBPM)
		}
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	samples := pulseTrain(t, 72)

	first, err := Analyze(samples, testConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := Analyze(samples, testConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if first.BPM != second.BPM || first.Confidence != second.Confidence {
		t.Errorf("results diverged: %+v vs %+v", first, second)
	}
	if len(first.Peaks) != len(second.Peaks) {
		t.Fatalf("peak counts diverged: %d vs %d", len(first.Peaks), len(second.Peaks))
	}
	for i := range first.Peaks {
		if first.Peaks[i] != second.Peaks[i] {
			t.Fatalf("peak %d diverged: %d vs %d", i, first.Peaks[i], second.Peaks[i])
		}
	}
	for i := range first.Waveform {
		if first.Waveform[i] != second.Waveform[i] {
			t.Fatalf("waveform diverged at %d", i)
		}
	}
}

func TestAnalyze_InvalidConfig(t *testing.T) {
	samples := make([]float64, 100)

	if _, err := Analyze(samples, Config{SampleRate: 0, Duration: 15}); err == nil {
		t.Error("expected error for zero sample rate")
	}
	if _, err := Analyze(samples, Config{SampleRate: -44100, Duration: 15}); err == nil {
		t.Error("expected error for negative sample rate")
	}
	if _, err := Analyze(samples, Config{SampleRate: 44100, Duration: 0}); err == nil {
		t.Error("expected error for zero duration")
	}
}

func TestAnalyzeRaw_PCM8(t *testing.T) {
	// Silence in 8-bit PCM is a constant 128.
	raw := make([]byte, testSampleRate)
	for i := range raw {
		raw[i] = 128
	}

	res, err := AnalyzeRaw(raw, Config{SampleRate: testSampleRate, Duration: 1})
	if err != nil {
		t.Fatalf("AnalyzeRaw: %v", err)
	}
	if res.BPM != 0 || res.Confidence != ConfidenceLow || len(res.Peaks) != 0 {
		t.Errorf("pcm8 silence: %+v", res)
	}
}

func TestAnalyzeRaw_MatchesFloatPath(t *testing.T) {
	samples := pulseTrain(t, 90)

	viaFloat, err := Analyze(samples, testConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	viaRaw, err := AnalyzeRaw(samples, testConfig())
	if err != nil {
		t.Fatalf("AnalyzeRaw: %v", err)
	}

	if viaFloat.BPM != viaRaw.BPM || viaFloat.Confidence != viaRaw.Confidence {
		t.Errorf("float path %d/%v, raw path %d/%v",
			viaFloat.BPM, viaFloat.Confidence, viaRaw.BPM, viaRaw.Confidence)
	}
}

func TestAnalyze_NoisyPulseTrainStillDetects(t *testing.T) {
	g := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(testSampleRate)},
		signal.WithSeed(3),
	)

	train, err := g.PulseTrain(80, 0.8, int(testSampleRate*testDuration))
	if err != nil {
		t.Fatalf("PulseTrain: %v", err)
	}
	noise, err := g.WhiteNoise(0.02, len(train))
	if err != nil {
		t.Fatalf("WhiteNoise: %v", err)
	}
	for i := range train {
		train[i] += noise[i]
	}

	res, err := Analyze(train, testConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.BPM < 75 || res.BPM > 85 {
		t.Errorf("noisy BPM = %d, want within 80±5", res.BPM)
	}
}

func TestConfidence_String(t *testing.T) {
	tests := []struct {
		c    Confidence
		want string
	}{
		{ConfidenceLow, "low"},
		{ConfidenceMedium, "medium"},
		{ConfidenceHigh, "high"},
		{Confidence(42), "confidence(42)"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.c), got, tt.want)
		}
	}
}

func TestEstimate_IntervalDiagnostics(t *testing.T) {
	res, err := Analyze(pulseTrain(t, 80), testConfig())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	wantInterval := 60.0 / 80.0 * testSampleRate
	if math.Abs(res.MeanIntervalSamples-wantInterval) > 2 {
		t.Errorf("MeanIntervalSamples = %g, want about %g", res.MeanIntervalSamples, wantInterval)
	}
	// A perfectly periodic train has essentially no jitter.
	if res.IntervalJitter > 2 {
		t.Errorf("IntervalJitter = %g, want near 0", res.IntervalJitter)
	}
}
