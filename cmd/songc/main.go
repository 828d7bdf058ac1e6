// Command songc compiles a song description into a WAV file.
//
// Usage:
//
//	songc tune.song tune.wav
//	songc -rate 48 -bits 24 tune.song tune.wav
//	songc -analyze tune.song tune.wav        # Print per-channel levels
//	songc - out.wav < tune.song              # Read the song from stdin
//
// Rendering is split across goroutines by default; -parallel=false renders
// on a single goroutine with identical output.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	synthlang "github.com/tphakala/go-audio-synthlang"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rateKHz := flag.Float64("rate", defaultRateKHz, "Output sample rate in kHz (e.g., 8, 16, 44.1, 48, 96)")
	bits := flag.Int("bits", defaultBitDepth, "Output bit depth: 16, 24 or 32")
	parallel := flag.Bool("parallel", true, "Render frame blocks concurrently")
	workers := flag.Int("workers", 0, "Maximum render goroutines (0 = GOMAXPROCS)")
	analyze := flag.Bool("analyze", false, "Print level and frequency analysis per channel")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.song output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s tune.song tune.wav                 # 44.1kHz 16-bit\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -rate 96 -bits 24 tune.song hi.wav # Hi-res output\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s - tune.wav < tune.song             # Read from stdin\n", os.Args[0])
		return errors.New("insufficient arguments")
	}

	inputPath := args[0]
	outputPath := args[1]
	cfg := &synthlang.Config{
		SampleRate: int(*rateKHz * kHzToHz),
		BitDepth:   *bits,
		Parallel:   *parallel,
		Workers:    *workers,
	}

	renderer, err := synthlang.New(cfg)
	if err != nil {
		return err
	}

	if *verbose {
		log.Printf("Input: %s", inputPath)
		log.Printf("Output: %s", outputPath)
		log.Printf("Format: %d Hz, %d-bit", cfg.SampleRate, cfg.BitDepth)
		if cfg.Parallel {
			log.Printf("Parallel: enabled (%s)", describeWorkers(cfg.Workers))
		} else {
			log.Printf("Parallel: disabled (sequential rendering)")
		}
	}

	s, err := compileInput(inputPath)
	if err != nil {
		return err
	}
	if *verbose {
		log.Printf("Song %q: %.3fs, %d channels, %d sources", s.Name, s.Length, s.Channels, len(s.Sources))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	samples, err := renderer.Render(ctx, s)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	elapsed := time.Since(start)

	if err := writeOutput(outputPath, samples, cfg, s.Channels); err != nil {
		return err
	}

	frames := len(samples) / s.Channels
	fmt.Printf("Compiled %s -> %s\n", displayName(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz, %d channels, %d-bit\n", cfg.SampleRate, s.Channels, cfg.BitDepth)
	fmt.Printf("  %d frames, %d sources\n", frames, len(s.Sources))
	fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
		s.Length, realtimeFactor(s.Length, elapsed))

	if *analyze {
		return printAnalysis(os.Stdout, samples, s.Channels, cfg.SampleRate)
	}
	return nil
}
