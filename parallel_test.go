package synthlang

import (
	"context"
	"testing"
)

const parallelSong = `"parallel" 1s on 4
	sin(440hz * (1 + ch/4), :) on * @ 0.25 { fade_in 0:0.05 fade_out 0.95: }
	saw(110 + 55*sin(t*tau), 0.1:0.9) on [1, 3] @ 0.2
	tri(880, 0.5, 250ms:750ms) on 2 @ 0.3 * (1 - t)
	square(55, :0.5) on 0 @ 0.1`

// TestRenderParallel tests that parallel rendering produces identical samples.
func TestRenderParallel(t *testing.T) {
	s, err := Compile(parallelSong)
	if err != nil {
		t.Fatalf("Failed to compile song: %v", err)
	}

	seq, err := New(&Config{SampleRate: RateCD, BitDepth: 16, Parallel: false})
	if err != nil {
		t.Fatalf("Failed to create sequential renderer: %v", err)
	}

	outputSeq, err := seq.Render(context.Background(), s)
	if err != nil {
		t.Fatalf("Sequential render failed: %v", err)
	}

	for _, workers := range []int{0, 1, 2, 7} {
		par, err := New(&Config{SampleRate: RateCD, BitDepth: 16, Parallel: true, Workers: workers})
		if err != nil {
			t.Fatalf("Failed to create parallel renderer: %v", err)
		}

		outputPar, err := par.Render(context.Background(), s)
		if err != nil {
			t.Fatalf("Parallel render failed (workers=%d): %v", workers, err)
		}

		if len(outputSeq) != len(outputPar) {
			t.Fatalf("Length mismatch: seq=%d, par=%d", len(outputSeq), len(outputPar))
		}

		for i := range outputSeq {
			if outputSeq[i] != outputPar[i] {
				t.Fatalf("Sample mismatch at %d (workers=%d): seq=%v, par=%v",
					i, workers, outputSeq[i], outputPar[i])
			}
		}
	}
}

// TestRenderParallel_Deterministic tests that repeated parallel renders agree.
func TestRenderParallel_Deterministic(t *testing.T) {
	s, err := Compile(parallelSong)
	if err != nil {
		t.Fatalf("Failed to compile song: %v", err)
	}

	r, err := New(&Config{SampleRate: RateTelephony, BitDepth: 16, Parallel: true, Workers: 3})
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}

	first, err := r.RenderPCM(context.Background(), s)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for run := range 3 {
		again, err := r.RenderPCM(context.Background(), s)
		if err != nil {
			t.Fatalf("Render %d failed: %v", run, err)
		}
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("Run %d differs at %d: %d != %d", run, i, first[i], again[i])
			}
		}
	}
}
