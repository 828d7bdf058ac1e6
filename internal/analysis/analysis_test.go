package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-audio-synthlang/internal/generate"
	"github.com/tphakala/go-audio-synthlang/internal/parser"
	"github.com/tphakala/go-audio-synthlang/internal/testutil"
)

func TestMeasure(t *testing.T) {
	s := Measure([]float64{0.5, -1.5, 1, 0})
	assert.InDelta(t, 1.5, s.Peak, 0)
	assert.InDelta(t, 0.0, s.DC, 1e-15)
	assert.InDelta(t, math.Sqrt((0.25+2.25+1)/4), s.RMS, 1e-15)
	assert.Equal(t, 1, s.Clipped)

	assert.Equal(t, Stats{}, Measure(nil))
}

func TestMeasure_SineRMS(t *testing.T) {
	samples := make([]float64, 8000)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 100 * float64(i) / 8000)
	}
	s := Measure(samples)
	testutil.AssertRelativeError(t, 1/math.Sqrt2, s.RMS, 1e-6)
	assert.InDelta(t, 1.0, s.Peak, 1e-9)
	assert.Zero(t, s.Clipped)
}

func TestMeasureChannels(t *testing.T) {
	stats := MeasureChannels([]float64{1, 0, -1, 0, 1, 0}, 2)
	require.Len(t, stats, 2)
	assert.InDelta(t, 1.0, stats[0].Peak, 0)
	assert.Equal(t, Stats{}, stats[1])
}

func TestDominantFrequency_Sine440(t *testing.T) {
	s, err := parser.ParseString(`"a4" 1s on 1 sin(440hz, :) on 0 @ 1`)
	require.NoError(t, err)

	out, err := generate.Render(context.Background(), s, 8000)
	require.NoError(t, err)

	freq, err := DominantFrequency(out, 8000)
	require.NoError(t, err)
	// One bin is 1 Hz for a one-second signal.
	testutil.AssertInRange(t, freq, 439, 441)
}

func TestDominantFrequency_PicksStrongerTone(t *testing.T) {
	const rate = 4000
	samples := make([]float64, rate)
	for i := range samples {
		ts := float64(i) / rate
		samples[i] = 0.2*math.Sin(2*math.Pi*300*ts) + 0.8*math.Sin(2*math.Pi*700*ts)
	}
	freq, err := DominantFrequency(samples, rate)
	require.NoError(t, err)
	assert.InDelta(t, 700.0, freq, 1.0)
}

func TestDominantFrequency_TooShort(t *testing.T) {
	_, err := DominantFrequency([]float64{1, 2}, 8000)
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestDominantFrequency_LeavesInputUntouched(t *testing.T) {
	samples := make([]float64, 1000)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 50 * float64(i) / 1000)
	}
	before := append([]float64(nil), samples...)

	freq, err := DominantFrequency(samples, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, freq, 1.0)
	assert.Equal(t, before, samples)
}
