package synthlang

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/tphakala/go-audio-synthlang/internal/generate"
	"github.com/tphakala/go-audio-synthlang/internal/parser"
	"github.com/tphakala/go-audio-synthlang/internal/pcm"
	"github.com/tphakala/go-audio-synthlang/internal/song"
	"github.com/tphakala/go-audio-synthlang/internal/source"
)

// Song is a compiled song description.
type Song = song.Song

// Config holds rendering configuration.
type Config struct {
	// SampleRate is the output sample rate in Hz.
	SampleRate int

	// BitDepth is the integer PCM width used by RenderPCM and the WAV
	// writers: 16, 24 or 32.
	BitDepth int

	// Parallel renders frame blocks concurrently. Output is identical to
	// sequential rendering.
	Parallel bool

	// Workers limits concurrent goroutines when Parallel is set.
	// Set to 0 to use GOMAXPROCS.
	Workers int
}

// Common errors returned by the renderer.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid renderer configuration")
)

// DefaultConfig returns CD-quality settings with parallel rendering.
func DefaultConfig() *Config {
	return &Config{
		SampleRate: RateCD,
		BitDepth:   bitDepth16,
		Parallel:   true,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleRate < 1 || c.SampleRate > maxSampleRate {
		return fmt.Errorf("%w: sample rate must be 1-%d Hz", ErrInvalidConfig, maxSampleRate)
	}

	switch c.BitDepth {
	case bitDepth16, bitDepth24, bitDepth32:
	default:
		return fmt.Errorf("%w: bit depth must be 16, 24 or 32", ErrInvalidConfig)
	}

	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}

	return nil
}

// Compile parses a song held in memory.
func Compile(text string) (*Song, error) {
	return parser.ParseString(text)
}

// CompileReader parses a song read from r. name identifies the input in
// error messages.
func CompileReader(name string, r io.Reader) (*Song, error) {
	return parser.Parse(source.NewReader(name, r))
}

// CompileFile parses the song file at path.
func CompileFile(path string) (*Song, error) {
	src, err := source.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()
	return parser.Parse(src)
}

// Renderer renders compiled songs with a fixed configuration. It holds no
// per-song state and is safe for concurrent use.
type Renderer struct {
	config Config
}

// New creates a renderer. A nil config uses DefaultConfig.
func New(config *Config) (*Renderer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{config: *config}, nil
}

// Config returns the renderer configuration.
func (r *Renderer) Config() Config { return r.config }

// Render returns the song's samples as frame-interleaved float64 values.
// Amplitudes are not clipped.
func (r *Renderer) Render(ctx context.Context, s *Song) ([]float64, error) {
	if r.config.Parallel {
		workers := r.config.Workers
		if workers == 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		return generate.RenderParallel(ctx, s, r.config.SampleRate, workers)
	}
	return generate.Render(ctx, s, r.config.SampleRate)
}

// RenderPCM renders the song and quantizes it to the configured bit depth.
func (r *Renderer) RenderPCM(ctx context.Context, s *Song) ([]int, error) {
	samples, err := r.Render(ctx, s)
	if err != nil {
		return nil, err
	}
	return pcm.Quantize(samples, r.config.BitDepth)
}

// WriteWAV renders the song and writes it to w as a WAV stream.
func (r *Renderer) WriteWAV(ctx context.Context, s *Song, w io.WriteSeeker) error {
	data, err := r.RenderPCM(ctx, s)
	if err != nil {
		return err
	}
	return pcm.WriteWAV(w, data, r.config.SampleRate, r.config.BitDepth, s.Channels)
}

// WriteWAVFile renders the song into a new WAV file at path.
func (r *Renderer) WriteWAVFile(ctx context.Context, s *Song, path string) error {
	data, err := r.RenderPCM(ctx, s)
	if err != nil {
		return err
	}
	return pcm.CreateWAV(path, data, r.config.SampleRate, r.config.BitDepth, s.Channels)
}
