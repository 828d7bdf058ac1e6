package synthlang

import (
	"context"
	"testing"
)

// BenchmarkRenderSequential benchmarks single-goroutine rendering.
func BenchmarkRenderSequential(b *testing.B) {
	benchmarkRender(b, false)
}

// BenchmarkRenderParallel benchmarks rendering split across goroutines.
func BenchmarkRenderParallel(b *testing.B) {
	benchmarkRender(b, true)
}

func benchmarkRender(b *testing.B, parallel bool) {
	b.Helper()

	s, err := Compile(parallelSong)
	if err != nil {
		b.Fatalf("Failed to compile song: %v", err)
	}

	r, err := New(&Config{SampleRate: RateCD, BitDepth: 16, Parallel: parallel})
	if err != nil {
		b.Fatalf("Failed to create renderer: %v", err)
	}

	frames := s.Frames(RateCD)
	b.SetBytes(int64(frames * s.Channels * 8))
	b.ReportAllocs()

	for b.Loop() {
		if _, err := r.Render(context.Background(), s); err != nil {
			b.Fatalf("Render failed: %v", err)
		}
	}
}
