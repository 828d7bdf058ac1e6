package generate

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-audio-synthlang/internal/expr"
	"github.com/tphakala/go-audio-synthlang/internal/parser"
	"github.com/tphakala/go-audio-synthlang/internal/song"
	"github.com/tphakala/go-audio-synthlang/internal/testutil"
)

func mustParse(t testing.TB, text string) *song.Song {
	t.Helper()
	s, err := parser.ParseString(text)
	require.NoError(t, err)
	return s
}

// TestRender_EndToEnd renders the reference song at a rate of 8 Hz.
func TestRender_EndToEnd(t *testing.T) {
	s := mustParse(t, `"test" 1s on 1 sin(440hz, 0:1) on * @ 1`)

	out, err := Render(context.Background(), s, 8)
	require.NoError(t, err)
	require.Len(t, out, 8)

	for i, v := range out {
		expected := math.Sin(float64(i) / 8 * 440 * 2 * math.Pi)
		assert.InDelta(t, expected, v, 1e-9, "sample %d", i)
	}
}

func TestRender_Length(t *testing.T) {
	s := mustParse(t, `"len" 1.5s on 3`)

	out, err := Render(context.Background(), s, 10)
	require.NoError(t, err)
	assert.Len(t, out, 45)
	testutil.AssertAllZero(t, out)
}

func TestRender_ChannelSelection(t *testing.T) {
	s := mustParse(t, `"ch" 1s on 2 square(1, :) on 0 @ 1`)

	out, err := Render(context.Background(), s, 16)
	require.NoError(t, err)

	testutil.AssertAllZero(t, testutil.Channel(out, 2, 1), "channel 1")
	left := testutil.Channel(out, 2, 0)
	assert.InDelta(t, 1.0, left[0], 0)
	assert.InDelta(t, -1.0, left[12], 0)

	for i := range 16 {
		v, err := Sample(s, 16, i, 1)
		require.NoError(t, err)
		assert.Zero(t, v)
	}
}

func TestRender_ChannelList(t *testing.T) {
	s := mustParse(t, `"list" 1s on 3 square(0.001, :) on [0, 2] @ ch + 1`)

	out, err := Render(context.Background(), s, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 3}, out[:3])
}

func TestRender_SourceWindow(t *testing.T) {
	// Active for the second half only, so local time restarts at 0.5s.
	s := mustParse(t, `"win" 1s on 1 saw(1, 0.5:) on 0 @ 1`)

	out, err := Render(context.Background(), s, 8)
	require.NoError(t, err)

	testutil.AssertAllZero(t, out[:4])
	// local t = 0, 0.25, 0.5, 0.75
	testutil.AssertSlicesInDelta(t, []float64{-1, -0.5, 0, 0.5}, out[4:], 1e-12)
}

func TestRender_Fades(t *testing.T) {
	s := mustParse(t, `"fade" 1s on 1
		square(0.001, :) on 0 @ 1 { fade_in 0:0.5 fade_out 0.5: }`)

	out, err := Render(context.Background(), s, 8)
	require.NoError(t, err)

	// At local 0.5 both windows apply: fade_in ends at 1 and fade_out starts at 1.
	expected := []float64{0, 0.25, 0.5, 0.75, 1, 0.75, 0.5, 0.25}
	testutil.AssertSlicesInDelta(t, expected, out, 1e-12)
}

func TestRender_MixesBySummation(t *testing.T) {
	s := mustParse(t, `"mix" 1s on 1
		square(0.001, :) on 0 @ 0.75
		square(0.001, :) on * @ 0.75`)

	out, err := Render(context.Background(), s, 4)
	require.NoError(t, err)
	for _, v := range out {
		assert.InDelta(t, 1.5, v, 1e-15)
	}
}

func TestRender_ContextVariables(t *testing.T) {
	s := mustParse(t, `"ctx" 1s on 2 square(0.001, :) on * @ t + channel`)

	out, err := Render(context.Background(), s, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0.25, 1.25, 0.5, 1.5, 0.75, 1.75}, out)
}

func TestRender_InactiveSourcesNotEvaluated(t *testing.T) {
	s := mustParse(t, `"skip" 1s on 1
		sin(bogus, :) on 5 @ bogus
		sin(440, :) on 0 @ 1`)

	_, err := Render(context.Background(), s, 8)
	assert.NoError(t, err)
}

func TestRender_EvaluationError(t *testing.T) {
	s := mustParse(t, `"err" 1s on 1 sin(440, 0.5:) on 0 @ bogus`)

	_, err := Render(context.Background(), s, 8)
	require.Error(t, err)
	assert.ErrorIs(t, err, expr.ErrUnknownVariable)

	var se *SampleError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 4, se.Frame)
	assert.Equal(t, 0, se.Channel)
	assert.Equal(t, 0, se.Source)
}

func TestRender_InvalidRate(t *testing.T) {
	s := mustParse(t, `"r" 1s on 1`)

	_, err := Render(context.Background(), s, 0)
	assert.ErrorIs(t, err, ErrInvalidRate)
	_, err = RenderParallel(context.Background(), s, -1, 2)
	assert.ErrorIs(t, err, ErrInvalidRate)
	_, err = Sample(s, 0, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestRender_Cancelled(t *testing.T) {
	s := mustParse(t, `"c" 1s on 1 sin(440, :) on 0 @ 1`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Render(ctx, s, 8000)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = RenderParallel(ctx, s, 8000, 4)
	assert.ErrorIs(t, err, context.Canceled)
}

const parallelSong = `"par" 2s on 2
	sin(440hz + 20*sin(t*tau), :) on 0 @ 0.5 { fade_in 0:0.1 fade_out 0.9: }
	saw(220, 0.25, 0.1:0.9) on 1 @ 0.3
	tri(110 * (1 + ch), 0.5s:) on * @ 0.2 * (1 - t)
	square(55, :0.5) on [0, 1] @ 0.1`

func TestRenderParallel_MatchesSequential(t *testing.T) {
	s := mustParse(t, parallelSong)

	seq, err := Render(context.Background(), s, 22050)
	require.NoError(t, err)
	testutil.AssertNoNaNOrInf(t, seq)

	for _, workers := range []int{0, 1, 3, 8} {
		par, err := RenderParallel(context.Background(), s, 22050, workers)
		require.NoError(t, err)
		assert.Equal(t, seq, par, "workers=%d", workers)
	}
}

func TestRenderParallel_Error(t *testing.T) {
	s := mustParse(t, `"err" 2s on 1 sin(440, 0.75:) on 0 @ bogus`)

	_, err := RenderParallel(context.Background(), s, 44100, 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, expr.ErrUnknownVariable)
}

func BenchmarkRender(b *testing.B) {
	s := mustParse(b, parallelSong)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := Render(context.Background(), s, 44100); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRenderParallel(b *testing.B) {
	s := mustParse(b, parallelSong)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := RenderParallel(context.Background(), s, 44100, 0); err != nil {
			b.Fatal(err)
		}
	}
}
