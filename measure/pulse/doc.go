// Package pulse estimates a pulse rate in beats per minute from a short
// monaural recording captured against the skin.
//
// The pipeline is pure and stateless: the raw sample sequence is normalized
// to [-1, 1], low-pass filtered with a symmetric moving average, scanned for
// rhythmic peaks, and the mean peak interval is converted into a clamped,
// confidence-tagged BPM estimate. Each call consumes one complete recording
// and produces one Result; nothing is retained between calls, so concurrent
// analysis of independent recordings is safe.
//
// # Usage
//
// Analyze a normalized recording of 15 s at 44.1 kHz:
//
//	res, err := pulse.Analyze(samples, pulse.Config{
//	    SampleRate: 44100,
//	    Duration:   15,
//	})
//	if err != nil {
//	    // invalid configuration, not signal content
//	}
//	fmt.Println(res.BPM, res.Confidence)
//
// Raw unsigned 8-bit capture data goes through AnalyzeRaw, which accepts
// both native encodings:
//
//	res, err := pulse.AnalyzeRaw(pcm8Bytes, cfg)
//
// A zero BPM with ConfidenceLow means the recording contained too little
// rhythmic content to estimate from. A non-zero BPM with ConfidenceLow
// means the raw estimate fell outside the plausible [40, 200] range and was
// clamped; callers should surface such readings as possibly inaccurate.
//
// The moving-average filter only attenuates high-frequency noise. It has no
// high-pass component, so slow baseline drift reaches the peak detector
// unchanged. This is a known limitation of the method, kept deliberately.
package pulse
