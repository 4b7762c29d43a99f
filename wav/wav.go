// Package wav encodes and decodes mono 16-bit PCM RIFF/WAVE data.
//
// The pulse recorder uses this only for debug export of the raw, unfiltered
// recording: a fixed 44-byte header followed by little-endian int16 samples.
// The byte layout is a compatibility contract, so the encoder writes exactly
// that shape and nothing else.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-pulse/dsp/core"
)

const (
	headerSize    = 44
	fmtChunkSize  = 16
	pcmFormat     = 1
	monoChannels  = 1
	bitsPerSample = 16
)

var (
	// ErrNotRIFF is returned when the stream does not start with a RIFF/WAVE header.
	ErrNotRIFF = errors.New("wav: not a RIFF/WAVE stream")

	// ErrUnsupportedFormat is returned for encodings other than mono 16-bit PCM.
	ErrUnsupportedFormat = errors.New("wav: only mono 16-bit PCM is supported")

	// ErrMissingDataChunk is returned when the stream has no data chunk.
	ErrMissingDataChunk = errors.New("wav: missing data chunk")
)

// Encode writes samples as a mono 16-bit PCM WAVE stream. Each sample is
// clamped to [-1, 1] and quantized as round(sample * 32767).
func Encode(w io.Writer, samples []float64, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("wav: sample rate must be > 0: %d", sampleRate)
	}

	dataSize := len(samples) * 2
	byteRate := sampleRate * monoChannels * bitsPerSample / 8
	blockAlign := monoChannels * bitsPerSample / 8

	var header [headerSize]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(headerSize-8+dataSize))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(header[20:22], pcmFormat)
	binary.LittleEndian.PutUint16(header[22:24], monoChannels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("wav: write header: %w", err)
	}

	data := make([]byte, dataSize)
	for i, s := range samples {
		v := int16(math.Round(core.Clamp(s, -1, 1) * 32767))
		binary.LittleEndian.PutUint16(data[2*i:], uint16(v))
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("wav: write samples: %w", err)
	}

	return nil
}

// EncodeBytes encodes samples into a fresh byte slice.
func EncodeBytes(samples []float64, sampleRate int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(headerSize + len(samples)*2)
	if err := Encode(&buf, samples, sampleRate); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a mono 16-bit PCM WAVE stream and returns the samples scaled
// to [-1, 1] together with the sample rate. Chunks other than "fmt " and
// "data" are skipped.
func Decode(r io.Reader) ([]float64, int, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, 0, fmt.Errorf("wav: read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, 0, ErrNotRIFF
	}

	var (
		sampleRate int
		haveFmt    bool
	)

	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(r, chunkHeader[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, 0, ErrMissingDataChunk
			}
			return nil, 0, fmt.Errorf("wav: read chunk header: %w", err)
		}

		chunkID := string(chunkHeader[0:4])
		chunkSize := int(binary.LittleEndian.Uint32(chunkHeader[4:8]))

		switch chunkID {
		case "fmt ":
			if chunkSize < fmtChunkSize {
				return nil, 0, ErrUnsupportedFormat
			}
			chunk := make([]byte, chunkSize)
			if _, err := io.ReadFull(r, chunk); err != nil {
				return nil, 0, fmt.Errorf("wav: read fmt chunk: %w", err)
			}

			format := binary.LittleEndian.Uint16(chunk[0:2])
			channels := binary.LittleEndian.Uint16(chunk[2:4])
			bits := binary.LittleEndian.Uint16(chunk[14:16])
			if format != pcmFormat || channels != monoChannels || bits != bitsPerSample {
				return nil, 0, ErrUnsupportedFormat
			}

			sampleRate = int(binary.LittleEndian.Uint32(chunk[4:8]))
			haveFmt = true

		case "data":
			if !haveFmt {
				return nil, 0, ErrUnsupportedFormat
			}

			data := make([]byte, chunkSize)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, 0, fmt.Errorf("wav: read data chunk: %w", err)
			}

			samples := make([]float64, chunkSize/2)
			for i := range samples {
				v := int16(binary.LittleEndian.Uint16(data[2*i:]))
				samples[i] = float64(v) / 32767
			}
			return samples, sampleRate, nil

		default:
			if _, err := io.CopyN(io.Discard, r, int64(chunkSize)); err != nil {
				return nil, 0, fmt.Errorf("wav: skip %q chunk: %w", chunkID, err)
			}
		}
	}
}

// DecodeBytes decodes a WAVE stream held in memory.
func DecodeBytes(data []byte) ([]float64, int, error) {
	return Decode(bytes.NewReader(data))
}
