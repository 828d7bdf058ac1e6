package synthlang

import (
	"context"

	"github.com/tphakala/go-audio-synthlang/internal/analysis"
)

// Common sample rates for convenience functions.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000

	// RateSpeech is the speech recognition common sample rate.
	RateSpeech = 22050
)

// NewCD creates a renderer for 44.1kHz 16-bit output.
func NewCD() (*Renderer, error) {
	return New(&Config{SampleRate: RateCD, BitDepth: bitDepth16, Parallel: true})
}

// NewDAT creates a renderer for 48kHz 24-bit output.
func NewDAT() (*Renderer, error) {
	return New(&Config{SampleRate: RateDAT, BitDepth: bitDepth24, Parallel: true})
}

// NewHiRes creates a renderer for 96kHz 24-bit output.
func NewHiRes() (*Renderer, error) {
	return New(&Config{SampleRate: RateHiRes96, BitDepth: bitDepth24, Parallel: true})
}

// RenderString compiles text and renders it sequentially at rate.
// This is the simplest way to turn a song description into samples.
func RenderString(text string, rate int) ([]float64, error) {
	s, err := Compile(text)
	if err != nil {
		return nil, err
	}
	r, err := New(&Config{SampleRate: rate, BitDepth: bitDepth16})
	if err != nil {
		return nil, err
	}
	return r.Render(context.Background(), s)
}

// CompileToWAV compiles the song file at input and writes it to output
// using config. A nil config uses DefaultConfig.
func CompileToWAV(ctx context.Context, input, output string, config *Config) error {
	r, err := New(config)
	if err != nil {
		return err
	}
	s, err := CompileFile(input)
	if err != nil {
		return err
	}
	return r.WriteWAVFile(ctx, s, output)
}

// DeinterleaveChannel extracts channel ch from frame-interleaved samples.
func DeinterleaveChannel(interleaved []float64, channels, ch int) []float64 {
	return analysis.Deinterleave(interleaved, channels, ch)
}
