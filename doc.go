// Package synthlang compiles a small song description language into
// procedurally generated PCM audio.
//
// A song names its length and channel count, then lists waveform sources.
// Each source plays over a window of the song, on a set of channels, at a
// volume, with optional fade envelopes.
//
// # Quick Start
//
// For a one-shot render:
//
//	samples, err := synthlang.RenderString(`"a4" 1s on 1 sin(440hz, :) on 0 @ 0.5`, synthlang.RateCD)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For WAV output with a reusable renderer:
//
//	song, err := synthlang.CompileFile("tune.song")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r, err := synthlang.New(&synthlang.Config{
//	    SampleRate: synthlang.RateDAT,
//	    BitDepth:   24,
//	    Parallel:   true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := r.WriteWAVFile(ctx, song, "tune.wav"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Language
//
// A song starts with a string name, a duration and a channel count:
//
//	"demo" 2s on 2
//
// Durations accept the suffixes s, ms, m, h and ns, either attached to a
// number (250ms) or as a separate word after an expression (1 + 0.5 s).
// Frequencies accept hz. A bare song duration is in seconds.
//
// Each source is a waveform call followed by a channel selector and a volume:
//
//	sin(440hz, 0:0.5) on 0 @ 0.8
//	saw(220, 0.25, 1s:) on [0, 1] @ 0.5 * (1 - t) { fade_out 0.9: }
//
// The arguments are a frequency, an optional phase and a timeframe
// start:end. A bound written with a time unit is an absolute time; a bare
// number is a fraction of the enclosing scope. Missing bounds default to 0
// and 1. Waveforms are sin, saw, tri and square. Channels are a single
// index, * for all, or a bracketed list.
//
// Frequency, phase and volume are arithmetic expressions with + - * / % and
// right-associative ^, the functions sin cos tan ln log10 lg log2 sqrt abs
// round floor ceil deg rad, the constants pi e tau, and the per-sample
// variables t (time normalized to the source window) and channel (or ch).
//
// Effects inside braces apply over a window of the source: fade_in scales
// the amplitude from 0 to 1 and fade_out from 1 to 0.
//
// # Output
//
// [Renderer.Render] returns frame-interleaved float64 samples. Overlapping
// sources are summed without clipping; [Renderer.RenderPCM] clamps while
// quantizing to the configured bit depth.
//
// # Thread Safety
//
// Compiled songs are immutable and a [Renderer] holds no per-song state, so
// both can be shared across goroutines. With [Config.Parallel] set, a single
// render is split across goroutines and produces exactly the same samples as
// a sequential render.
package synthlang
