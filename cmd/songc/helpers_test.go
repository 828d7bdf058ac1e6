package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	synthlang "github.com/tphakala/go-audio-synthlang"
	"github.com/tphakala/go-audio-synthlang/internal/pcm"
)

func TestCompileInput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.song")
	require.NoError(t, os.WriteFile(path, []byte(`"tone" 1s on 1 sin(440hz, :) on 0 @ 1`), 0o644))

	s, err := compileInput(path)
	require.NoError(t, err)
	assert.Equal(t, "tone", s.Name)

	_, err = compileInput(filepath.Join(t.TempDir(), "missing.song"))
	assert.Error(t, err)
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	cfg := &synthlang.Config{SampleRate: 8000, BitDepth: 24}
	samples := []float64{0, 0.5, -0.5, 1, 0, -1}

	require.NoError(t, writeOutput(path, samples, cfg, 2))

	clip, err := pcm.OpenWAV(path)
	require.NoError(t, err)
	assert.Equal(t, 8000, clip.SampleRate)
	assert.Equal(t, 2, clip.Channels)
	assert.Equal(t, 24, clip.BitDepth)
	assert.Equal(t, 3, clip.Frames())
}

func TestWriteOutput_BadBitDepth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	cfg := &synthlang.Config{SampleRate: 8000, BitDepth: 12}
	assert.ErrorIs(t, writeOutput(path, []float64{0}, cfg, 1), pcm.ErrUnsupportedBitDepth)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "stdin", displayName("-"))
	assert.Equal(t, "tune.song", displayName("/tmp/songs/tune.song"))
}

func TestDescribeWorkers(t *testing.T) {
	assert.Equal(t, "GOMAXPROCS goroutines", describeWorkers(0))
	assert.Equal(t, "4 goroutines", describeWorkers(4))
}

func TestRealtimeFactor(t *testing.T) {
	assert.InDelta(t, 4.0, realtimeFactor(2, 500*time.Millisecond), 1e-9)
	assert.Zero(t, realtimeFactor(2, 0))
}

func TestPrintAnalysis(t *testing.T) {
	samples, err := synthlang.RenderString(`"a" 1s on 2 sin(440hz, :) on 0 @ 0.5`, 8000)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printAnalysis(&buf, samples, 2, 8000))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "ch0: peak 0.5000")
	assert.Contains(t, lines[0], "dominant 440.0 Hz")
	// Silent channel has no dominant frequency.
	assert.Contains(t, lines[1], "ch1: peak 0.0000")
	assert.NotContains(t, lines[1], "dominant")
}

func TestPrintAnalysis_Clipping(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printAnalysis(&buf, []float64{2, -2}, 1, 8000))
	assert.Contains(t, buf.String(), "2 clipped")
}
