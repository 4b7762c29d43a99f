// Package normalize converts raw capture samples into the canonical float64
// amplitude range [-1, 1] consumed by the rest of the pipeline.
//
// Exactly two native encodings exist: unsigned 8-bit PCM (0..255, center 128)
// and float samples that are already normalized. The Sample constraint limits
// the generic entry points to these two element types, so an unsupported
// encoding fails at compile time rather than at run time.
package normalize

// Sample is the set of native capture sample types.
type Sample interface {
	uint8 | float64
}

// Signal converts a raw sample sequence of either native encoding into a
// fresh normalized signal of equal length.
//
// Unsigned 8-bit samples map through (v - 128) / 128, so 128 is zero
// amplitude, 0 is -1 and 255 is just short of +1. Float samples are copied
// through unchanged.
func Signal[T Sample](raw []T) []float64 {
	out := make([]float64, len(raw))

	switch src := any(raw).(type) {
	case []uint8:
		for i, v := range src {
			out[i] = (float64(v) - 128) / 128
		}
	case []float64:
		copy(out, src)
	}

	return out
}

// AppendSignal appends the normalized form of raw to dst and returns the
// extended slice. It is the streaming variant used by the capture
// accumulator.
func AppendSignal[T Sample](dst []float64, raw []T) []float64 {
	switch src := any(raw).(type) {
	case []uint8:
		for _, v := range src {
			dst = append(dst, (float64(v)-128)/128)
		}
	case []float64:
		dst = append(dst, src...)
	}

	return dst
}

// PCM8 converts unsigned 8-bit PCM samples to a normalized signal.
func PCM8(raw []byte) []float64 {
	return Signal(raw)
}

// Float copies an already-normalized float signal.
func Float(raw []float64) []float64 {
	return Signal(raw)
}
