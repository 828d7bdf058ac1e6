// Package pcm converts rendered float samples to integer PCM and stores
// them in WAV containers.
package pcm

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/go-audio-synthlang/internal/simdops"
)

var (
	// ErrUnsupportedBitDepth is returned for bit depths other than 16, 24 and 32.
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")

	// ErrInvalidFormat is returned for a non-positive rate or channel count.
	ErrInvalidFormat = errors.New("invalid PCM format")
)

// MaxValue returns the largest positive sample value for bitDepth.
func MaxValue(bitDepth int) (float64, error) {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16, nil
	case bitsPerSample24:
		return maxInt24, nil
	case bitsPerSample32:
		return maxInt32, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}

// Quantize scales samples by the largest value of bitDepth, rounds to the
// nearest integer and clamps to [-max, max]. NaN becomes 0.
func Quantize(samples []float64, bitDepth int) ([]int, error) {
	maxVal, err := MaxValue(bitDepth)
	if err != nil {
		return nil, err
	}

	scaled := make([]float64, len(samples))
	simdops.Scale(scaled, samples, maxVal)

	out := make([]int, len(samples))
	for i, v := range scaled {
		switch {
		case math.IsNaN(v):
			out[i] = 0
		case v > maxVal:
			out[i] = int(maxVal)
		case v < -maxVal:
			out[i] = -int(maxVal)
		default:
			out[i] = int(math.Round(v))
		}
	}
	return out, nil
}

// Normalize maps integer PCM back to floats in [-1, 1].
func Normalize(data []int, bitDepth int) ([]float64, error) {
	maxVal, err := MaxValue(bitDepth)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	simdops.Scale(out, out, 1/maxVal)
	return out, nil
}

// WriteWAV encodes frame-interleaved PCM data as a little-endian WAV stream.
func WriteWAV(w io.WriteSeeker, data []int, rate, bitDepth, channels int) error {
	if _, err := MaxValue(bitDepth); err != nil {
		return err
	}
	if rate <= 0 || channels <= 0 {
		return fmt.Errorf("%w: rate %d, channels %d", ErrInvalidFormat, rate, channels)
	}

	enc := wav.NewEncoder(w, rate, bitDepth, channels, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV header: %w", err)
	}
	return nil
}

// CreateWAV writes data to a new WAV file at path.
func CreateWAV(path string, data []int, rate, bitDepth, channels int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return WriteWAV(f, data, rate, bitDepth, channels)
}

// Clip is decoded PCM audio.
type Clip struct {
	Data       []int
	SampleRate int
	Channels   int
	BitDepth   int
}

// Frames returns the number of frames in the clip.
func (c *Clip) Frames() int {
	if c.Channels == 0 {
		return 0
	}
	return len(c.Data) / c.Channels
}

// ReadWAV decodes a whole WAV stream.
func ReadWAV(r io.ReadSeeker) (*Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}
	return &Clip{
		Data:       buf.Data,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}, nil
}

// OpenWAV decodes the WAV file at path.
func OpenWAV(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	clip, err := ReadWAV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return clip, nil
}
