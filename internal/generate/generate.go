// Package generate turns a compiled song into frame-interleaved float64
// samples.
//
// Every (frame, channel) sample is a pure function of the song, so frames
// can be computed in any order. Render is the sequential reference and
// RenderParallel shards frames across goroutines with identical output.
package generate

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/tphakala/go-audio-synthlang/internal/expr"
	"github.com/tphakala/go-audio-synthlang/internal/mathutil"
	"github.com/tphakala/go-audio-synthlang/internal/simdops"
	"github.com/tphakala/go-audio-synthlang/internal/song"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidRate is returned for a non-positive sample rate.
var ErrInvalidRate = errors.New("sample rate must be positive")

// SampleError reports an expression that failed while computing a sample.
type SampleError struct {
	Frame   int
	Channel int
	Source  int
	Err     error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("frame %d channel %d source %d: %v", e.Frame, e.Channel, e.Source, e.Err)
}

func (e *SampleError) Unwrap() error { return e.Err }

// mixer computes samples for one song. It keeps a scratch buffer for the
// per-source contributions, so each goroutine needs its own.
type mixer struct {
	song  *song.Song
	rate  float64
	parts []float64
}

func newMixer(s *song.Song, rate int) *mixer {
	return &mixer{
		song:  s,
		rate:  float64(rate),
		parts: make([]float64, 0, len(s.Sources)),
	}
}

// Sample computes the amplitude of channel ch at frame index.
func Sample(s *song.Song, rate, index, ch int) (float64, error) {
	if rate <= 0 {
		return 0, ErrInvalidRate
	}
	return newMixer(s, rate).sample(index, ch)
}

func (m *mixer) sample(index, ch int) (float64, error) {
	t := float64(index) / m.rate / m.song.Length

	m.parts = m.parts[:0]
	for i := range m.song.Sources {
		src := &m.song.Sources[i]
		if !src.Channels.Match(ch) || t < src.Start || t > src.End {
			continue
		}
		v, err := contribution(src, rescale(t, src.Start, src.End), ch)
		if err != nil {
			return 0, &SampleError{Frame: index, Channel: ch, Source: i, Err: err}
		}
		m.parts = append(m.parts, v)
	}
	return simdops.Sum(m.parts), nil
}

// contribution evaluates one active source at source-local time local.
func contribution(src *song.Source, local float64, ch int) (float64, error) {
	ctx := &expr.Context{Channel: ch, T: local}

	freq, err := expr.Eval(src.Wave.Freq, ctx)
	if err != nil {
		return 0, fmt.Errorf("frequency: %w", err)
	}
	phase := 0.0
	if src.Wave.Phase != nil {
		if phase, err = expr.Eval(src.Wave.Phase, ctx); err != nil {
			return 0, fmt.Errorf("phase: %w", err)
		}
	}

	amp := wave(src.Wave.Kind, local, freq, phase)
	for _, eff := range src.Effects {
		if local < eff.Start || local > eff.End {
			continue
		}
		amp *= envelope(eff.Kind, rescale(local, eff.Start, eff.End))
	}

	vol, err := expr.Eval(src.Volume, ctx)
	if err != nil {
		return 0, fmt.Errorf("volume: %w", err)
	}
	return amp * vol, nil
}

// rescale maps t from the window [start, end] onto [0, 1]. A zero-width
// window maps to 0.
func rescale(t, start, end float64) float64 {
	if end == start {
		return 0
	}
	return (t - start) / (end - start)
}

func wave(kind song.WaveKind, t, freq, phase float64) float64 {
	switch kind {
	case song.Saw:
		return mathutil.Saw(t, freq, phase)
	case song.Triangle:
		return mathutil.Triangle(t, freq, phase)
	case song.Square:
		return mathutil.Square(t, freq, phase)
	default:
		return mathutil.Sine(t, freq, phase)
	}
}

func envelope(kind song.EffectKind, t float64) float64 {
	if kind == song.FadeOut {
		return 1 - t
	}
	return t
}

// Render computes every sample of s at rate, frame-interleaved by channel.
// The result has s.Frames(rate)*s.Channels samples. Cancellation is checked
// between blocks of frames.
func Render(ctx context.Context, s *song.Song, rate int) ([]float64, error) {
	if rate <= 0 {
		return nil, ErrInvalidRate
	}
	frames := s.Frames(rate)
	out := make([]float64, frames*s.Channels)
	m := newMixer(s, rate)

	for start := 0; start < frames; start += blockFrames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+blockFrames, frames)
		if err := m.fill(out, start, end); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// RenderParallel computes the same samples as Render using up to workers
// goroutines. workers <= 0 uses GOMAXPROCS. The first error cancels the
// remaining blocks.
func RenderParallel(ctx context.Context, s *song.Song, rate, workers int) ([]float64, error) {
	if rate <= 0 {
		return nil, ErrInvalidRate
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	frames := s.Frames(rate)
	out := make([]float64, frames*s.Channels)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < frames; start += blockFrames {
		end := min(start+blockFrames, frames)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return newMixer(s, rate).fill(out, start, end)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// errgroup cancels gctx on Wait; only the parent reports cancellation.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// fill writes frames [start, end) into out.
func (m *mixer) fill(out []float64, start, end int) error {
	channels := m.song.Channels
	for i := start; i < end; i++ {
		base := i * channels
		for ch := range channels {
			v, err := m.sample(i, ch)
			if err != nil {
				return err
			}
			out[base+ch] = v
		}
	}
	return nil
}
