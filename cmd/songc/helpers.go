package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	synthlang "github.com/tphakala/go-audio-synthlang"
	"github.com/tphakala/go-audio-synthlang/internal/analysis"
	"github.com/tphakala/go-audio-synthlang/internal/parser"
	"github.com/tphakala/go-audio-synthlang/internal/pcm"
	"github.com/tphakala/go-audio-synthlang/internal/source"
)

// compileInput parses the song at path, or from stdin when path is "-".
func compileInput(path string) (*synthlang.Song, error) {
	if path == stdinName {
		return parser.Parse(source.NewStdin())
	}
	return synthlang.CompileFile(path)
}

// writeOutput quantizes samples and writes them to a WAV file.
func writeOutput(path string, samples []float64, cfg *synthlang.Config, channels int) error {
	data, err := pcm.Quantize(samples, cfg.BitDepth)
	if err != nil {
		return err
	}
	return pcm.CreateWAV(path, data, cfg.SampleRate, cfg.BitDepth, channels)
}

func displayName(path string) string {
	if path == stdinName {
		return "stdin"
	}
	return filepath.Base(path)
}

func describeWorkers(workers int) string {
	if workers == 0 {
		return "GOMAXPROCS goroutines"
	}
	return fmt.Sprintf("%d goroutines", workers)
}

// realtimeFactor returns how many seconds of audio were produced per second
// of wall time.
func realtimeFactor(audioSeconds float64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return audioSeconds / elapsed.Seconds()
}

// printAnalysis writes level statistics and the dominant frequency of each
// channel.
func printAnalysis(w io.Writer, samples []float64, channels, rate int) error {
	stats := analysis.MeasureChannels(samples, channels)
	for ch, st := range stats {
		line := fmt.Sprintf("  ch%d: peak %.4f, rms %.4f, dc %+.4f", ch, st.Peak, st.RMS, st.DC)
		if st.Clipped > 0 {
			line += fmt.Sprintf(", %d clipped", st.Clipped)
		}

		freq, err := analysis.DominantFrequency(analysis.Deinterleave(samples, channels, ch), rate)
		switch {
		case errors.Is(err, analysis.ErrTooShort):
		case err != nil:
			return err
		case st.Peak > 0:
			line += fmt.Sprintf(", dominant %.1f Hz", freq)
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
