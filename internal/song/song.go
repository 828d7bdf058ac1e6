// Package song holds the compiled form of a song description: its sources,
// the channels they play on and the envelopes applied to them.
package song

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tphakala/go-audio-synthlang/internal/expr"
)

// Validation errors.
var (
	ErrInvalidSong      = errors.New("invalid song")
	ErrInvalidTimeframe = errors.New("invalid timeframe")
)

// WaveKind selects the periodic function a source plays.
type WaveKind int

const (
	Sine WaveKind = iota
	Saw
	Triangle
	Square
)

var waveNames = map[string]WaveKind{
	"sin":      Sine,
	"sine":     Sine,
	"saw":      Saw,
	"tri":      Triangle,
	"triangle": Triangle,
	"square":   Square,
}

func (k WaveKind) String() string {
	switch k {
	case Sine:
		return "sine"
	case Saw:
		return "saw"
	case Triangle:
		return "triangle"
	case Square:
		return "square"
	default:
		return fmt.Sprintf("WaveKind(%d)", int(k))
	}
}

// LookupWave resolves a waveform name, ignoring case.
func LookupWave(name string) (WaveKind, bool) {
	k, ok := waveNames[strings.ToLower(name)]
	return k, ok
}

// EffectKind selects an envelope.
type EffectKind int

const (
	FadeIn EffectKind = iota
	FadeOut
)

var effectNames = map[string]EffectKind{
	"fade_in":  FadeIn,
	"fade_out": FadeOut,
}

func (k EffectKind) String() string {
	switch k {
	case FadeIn:
		return "fade_in"
	case FadeOut:
		return "fade_out"
	default:
		return fmt.Sprintf("EffectKind(%d)", int(k))
	}
}

// LookupEffect resolves an effect name, ignoring case.
func LookupEffect(name string) (EffectKind, bool) {
	k, ok := effectNames[strings.ToLower(name)]
	return k, ok
}

// Periodic describes the waveform of a source. Freq and Phase are evaluated
// per sample and may read t and channel.
type Periodic struct {
	Kind  WaveKind
	Freq  expr.Node
	Phase expr.Node // nil means no phase offset
}

// ChannelMode selects how a Channels value matches.
type ChannelMode int

const (
	AllChannels ChannelMode = iota
	OneChannel
	ChannelList
)

// Channels selects the output channels a source plays on.
type Channels struct {
	Mode  ChannelMode
	Index int   // OneChannel
	Set   []int // ChannelList
}

// All returns a selector matching every channel.
func All() Channels { return Channels{Mode: AllChannels} }

// One returns a selector matching channel ch.
func One(ch int) Channels { return Channels{Mode: OneChannel, Index: ch} }

// List returns a selector matching any channel in chs.
func List(chs ...int) Channels { return Channels{Mode: ChannelList, Set: chs} }

// Match reports whether channel ch is selected.
func (c Channels) Match(ch int) bool {
	switch c.Mode {
	case AllChannels:
		return true
	case OneChannel:
		return c.Index == ch
	case ChannelList:
		for _, s := range c.Set {
			if s == ch {
				return true
			}
		}
	}
	return false
}

func (c Channels) String() string {
	switch c.Mode {
	case OneChannel:
		return fmt.Sprint(c.Index)
	case ChannelList:
		return fmt.Sprint(c.Set)
	default:
		return "*"
	}
}

// Effect is an envelope applied over a sub-interval of its source, in the
// source's normalized time.
type Effect struct {
	Kind  EffectKind
	Start float64
	End   float64
}

// Source is one waveform placed on the song timeline. Start and End are
// fractions of the song length.
type Source struct {
	Wave     Periodic
	Start    float64
	End      float64
	Volume   expr.Node
	Channels Channels
	Effects  []Effect
}

// Duration returns the length of the source in seconds for a song of the
// given length.
func (s *Source) Duration(songLength float64) float64 {
	return (s.End - s.Start) * songLength
}

// Song is a compiled song description.
type Song struct {
	Name     string
	Channels int
	Length   float64 // seconds
	Sources  []Source
}

// Validate checks the structural invariants of the song.
func (s *Song) Validate() error {
	if s.Length <= 0 || math.IsInf(s.Length, 0) || math.IsNaN(s.Length) {
		return fmt.Errorf("%w: length must be positive and finite, got %v", ErrInvalidSong, s.Length)
	}
	if s.Channels < 1 {
		return fmt.Errorf("%w: channel count must be at least 1, got %d", ErrInvalidSong, s.Channels)
	}
	for i := range s.Sources {
		src := &s.Sources[i]
		if err := CheckTimeframe(src.Start, src.End); err != nil {
			return fmt.Errorf("source %d: %w", i, err)
		}
		if src.Wave.Freq == nil || src.Volume == nil {
			return fmt.Errorf("%w: source %d is missing frequency or volume", ErrInvalidSong, i)
		}
		for j, eff := range src.Effects {
			if err := CheckTimeframe(eff.Start, eff.End); err != nil {
				return fmt.Errorf("source %d effect %d: %w", i, j, err)
			}
		}
	}
	return nil
}

// CheckTimeframe verifies 0 <= start <= end <= 1.
func CheckTimeframe(start, end float64) error {
	if !(start >= 0 && start <= end && end <= 1) {
		return fmt.Errorf("%w: [%v, %v] must satisfy 0 <= start <= end <= 1", ErrInvalidTimeframe, start, end)
	}
	return nil
}

// Frames returns the number of frames the song renders to at rate.
func (s *Song) Frames(rate int) int {
	return int(math.Floor(float64(rate) * s.Length))
}
