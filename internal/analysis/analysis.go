// Package analysis measures rendered audio: level statistics per channel and
// the dominant frequency of a signal.
package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

// ErrTooShort is returned when a signal has too few samples for a spectrum.
var ErrTooShort = errors.New("signal too short for spectral analysis")

// Stats summarizes the level of one channel.
type Stats struct {
	Peak    float64 // largest absolute sample
	RMS     float64
	DC      float64 // mean value
	Clipped int     // samples with |x| > 1
}

// Measure computes Stats for samples. An empty slice yields zero Stats.
func Measure(samples []float64) Stats {
	if len(samples) == 0 {
		return Stats{}
	}
	n := float64(len(samples))
	s := Stats{
		Peak: math.Max(floats.Max(samples), -floats.Min(samples)),
		RMS:  floats.Norm(samples, 2) / math.Sqrt(n),
		DC:   floats.Sum(samples) / n,
	}
	for _, v := range samples {
		if math.Abs(v) > clipThreshold {
			s.Clipped++
		}
	}
	return s
}

// MeasureChannels splits frame-interleaved samples and measures each channel.
func MeasureChannels(interleaved []float64, channels int) []Stats {
	out := make([]Stats, channels)
	for ch := range channels {
		out[ch] = Measure(Deinterleave(interleaved, channels, ch))
	}
	return out
}

// Deinterleave extracts channel ch from frame-interleaved samples.
func Deinterleave(interleaved []float64, channels, ch int) []float64 {
	out := make([]float64, 0, len(interleaved)/channels)
	for i := ch; i < len(interleaved); i += channels {
		out = append(out, interleaved[i])
	}
	return out
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin
// of a Hann-windowed spectrum. Resolution is rate/len(samples).
func DominantFrequency(samples []float64, rate int) (float64, error) {
	n := len(samples)
	if n < minSpectrumLength {
		return 0, ErrTooShort
	}

	windowed := make([]float64, n)
	copy(windowed, samples)
	window.Hann(windowed)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, windowed)

	best, bestMag := 0, 0.0
	for i := 1; i < len(coeffs); i++ {
		if mag := cmplx.Abs(coeffs[i]); mag > bestMag {
			best, bestMag = i, mag
		}
	}
	return fft.Freq(best) * float64(rate), nil
}
