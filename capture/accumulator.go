// Package capture accumulates live audio chunks into the fixed-length
// recording buffer the pulse pipeline consumes.
//
// The capture device pushes fixed-size sample chunks into a channel; an
// Accumulator appends them until the duration-implied sample count is
// reached or the recording is canceled, then hands the normalized buffer to
// the caller and is done. It replaces callback-driven accumulation into
// shared state with an explicit bounded producer/consumer handoff.
package capture

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-pulse/dsp/normalize"
)

// Accumulator collects raw sample chunks of one native encoding into a
// normalized recording buffer. An Accumulator is single-use: Run consumes
// it.
type Accumulator[T normalize.Sample] struct {
	target int
	buf    []float64
}

// NewAccumulator creates an accumulator sized for a recording of the given
// duration in seconds at the given sample rate.
func NewAccumulator[T normalize.Sample](sampleRate int, duration float64) (*Accumulator[T], error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("capture: sample rate must be > 0: %d", sampleRate)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("capture: duration must be > 0: %f", duration)
	}

	target := int(float64(sampleRate) * duration)
	if target < 1 {
		target = 1
	}

	return &Accumulator[T]{
		target: target,
		buf:    make([]float64, 0, target),
	}, nil
}

// Target returns the number of samples the accumulator collects.
func (a *Accumulator[T]) Target() int {
	return a.target
}

// Run appends chunks from the channel until the target sample count is
// reached, the channel closes, or ctx is canceled. The final chunk is
// truncated so the buffer never exceeds the target.
//
// On cancellation Run returns the samples collected so far together with
// ctx.Err(); the caller decides whether a partial recording is still worth
// analyzing. A closed channel before the target is reached returns the
// partial buffer with no error.
func (a *Accumulator[T]) Run(ctx context.Context, chunks <-chan []T) ([]float64, error) {
	for len(a.buf) < a.target {
		select {
		case <-ctx.Done():
			return a.buf, ctx.Err()
		case chunk, ok := <-chunks:
			if !ok {
				return a.buf, nil
			}

			remaining := a.target - len(a.buf)
			if len(chunk) > remaining {
				chunk = chunk[:remaining]
			}
			a.buf = normalize.AppendSignal(a.buf, chunk)
		}
	}

	return a.buf, nil
}
