// Package parser implements the recursive-descent song grammar. It pulls
// tokens from the lexer through a one-token pushback stream and hands
// arithmetic sub-expressions to the expr package.
package parser

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-audio-synthlang/internal/expr"
	"github.com/tphakala/go-audio-synthlang/internal/lexer"
	"github.com/tphakala/go-audio-synthlang/internal/source"
	"github.com/tphakala/go-audio-synthlang/internal/song"
	"github.com/tphakala/go-audio-synthlang/internal/token"
)

// Parser reads one song from a lexer. It is not safe for concurrent use.
type Parser struct {
	ts      *lexer.Stream
	srcName string
}

// New creates a parser reading tokens from lx.
func New(lx *lexer.Lexer) *Parser {
	return &Parser{ts: lexer.NewStream(lx), srcName: lx.Source().Name()}
}

// Parse reads a song from src using the default keyword table.
func Parse(src source.Provider) (*song.Song, error) {
	return New(lexer.New(src, token.DefaultKeywords())).Parse()
}

// ParseString parses a song held in memory.
func ParseString(text string) (*song.Song, error) {
	return Parse(source.NewString("input", text))
}

// Parse reads the whole song. The first error aborts parsing.
func (p *Parser) Parse() (*song.Song, error) {
	s, err := p.song()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.srcName, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", p.srcName, err)
	}
	return s, nil
}

func (p *Parser) song() (*song.Song, error) {
	s := &song.Song{}

	tok, ok, err := p.ts.Next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrMissingName
	}
	if tok.Kind != token.StringLiteral {
		return nil, fmt.Errorf("%w: found %s", ErrMissingName, tok)
	}
	s.Name = tok.Str

	if s.Length, err = p.duration(); err != nil {
		return nil, err
	}
	if s.Channels, err = p.channelCount(); err != nil {
		return nil, err
	}

	for {
		tok, ok, err := p.ts.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return s, nil
		}
		src, err := p.source(tok, s.Length)
		if err != nil {
			return nil, err
		}
		s.Sources = append(s.Sources, src)
	}
}

// duration reads the song length in seconds. A bare number is seconds.
func (p *Parser) duration() (float64, error) {
	n, err := expr.Parse(p.ts, expr.Options{Terminator: isUnit})
	if errors.Is(err, expr.ErrEmptyExpression) {
		return 0, ErrMissingDuration
	}
	if err != nil {
		return 0, fmt.Errorf("song duration: %w", err)
	}
	v, err := expr.Eval(n, nil)
	if err != nil {
		return 0, fmt.Errorf("song duration: %w", err)
	}
	scale, ok, err := p.unit()
	if err != nil {
		return 0, err
	}
	if ok {
		v *= scale
	}
	return v, nil
}

func (p *Parser) channelCount() (int, error) {
	if _, err := p.expect(token.On); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMissingChannelCount, err)
	}
	tok, err := p.require("channel count")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMissingChannelCount, err)
	}
	if tok.Kind != token.IntLiteral {
		return 0, fmt.Errorf("%w: found %s", ErrMissingChannelCount, tok)
	}
	if tok.Int > math.MaxInt32 {
		return 0, fmt.Errorf("%w: channel count %d out of range", song.ErrInvalidSong, tok.Int)
	}
	return int(tok.Int), nil
}

func (p *Parser) source(nameTok token.Token, songLength float64) (song.Source, error) {
	var src song.Source

	if nameTok.Kind != token.Identifier {
		return src, &UnexpectedTokenError{Token: nameTok, Where: "source list"}
	}
	kind, ok := song.LookupWave(nameTok.Str)
	if !ok {
		return src, &UnexpectedTokenError{Token: nameTok, Where: "waveform name"}
	}
	src.Wave.Kind = kind

	if _, err := p.expect(token.LeftParen); err != nil {
		return src, err
	}
	freq, err := p.expression("frequency", expr.Options{Terminator: isHz, DiscardTerminator: true})
	if err != nil {
		return src, err
	}
	src.Wave.Freq = freq
	if _, err := p.expect(token.Comma); err != nil {
		return src, err
	}

	// Either a phase followed by ',' or the start bound of the timeframe.
	first, err := p.optionalExpression("timeframe start", boundOptions(closesSource))
	if err != nil {
		return src, err
	}
	if first != nil {
		tok, err := p.require("',' or ':'")
		if err != nil {
			return src, err
		}
		if tok.Kind == token.Comma {
			src.Wave.Phase = first
			first = nil
		} else {
			p.ts.Unread(tok)
		}
	}

	src.Start, src.End, err = p.timeframe(first, songLength, closesSource)
	if err != nil {
		return src, fmt.Errorf("source timeframe: %w", err)
	}
	if _, err := p.expect(token.RightParen); err != nil {
		return src, err
	}

	if src.Channels, err = p.channels(); err != nil {
		return src, err
	}
	if _, err := p.expect(token.At); err != nil {
		return src, err
	}
	if src.Volume, err = p.expression("volume", expr.Options{}); err != nil {
		return src, err
	}
	if src.Effects, err = p.effects(src.Duration(songLength)); err != nil {
		return src, err
	}
	return src, nil
}

func (p *Parser) channels() (song.Channels, error) {
	if _, err := p.expect(token.On); err != nil {
		return song.Channels{}, err
	}
	tok, err := p.require("channel selector")
	if err != nil {
		return song.Channels{}, err
	}
	switch tok.Kind {
	case token.IntLiteral:
		return song.One(int(tok.Int)), nil
	case token.Star:
		return song.All(), nil
	case token.LeftSquare:
		return p.channelList()
	default:
		return song.Channels{}, &UnexpectedTokenError{Token: tok, Where: "channel selector"}
	}
}

// channelList reads the rest of "[a, b, ...]" after the opening bracket.
func (p *Parser) channelList() (song.Channels, error) {
	var set []int
	for {
		tok, err := p.require("channel index")
		if err != nil {
			return song.Channels{}, err
		}
		if tok.Kind != token.IntLiteral {
			return song.Channels{}, &UnexpectedTokenError{Token: tok, Where: "channel list"}
		}
		set = append(set, int(tok.Int))

		tok, err = p.require("',' or ']'")
		if err != nil {
			return song.Channels{}, err
		}
		switch tok.Kind {
		case token.Comma:
		case token.RightSquare:
			return song.List(set...), nil
		default:
			return song.Channels{}, &ExpectedError{Expected: token.RightSquare, Found: tok}
		}
	}
}

// effects reads an optional effect block. scope is the source duration in
// seconds.
func (p *Parser) effects(scope float64) ([]song.Effect, error) {
	tok, ok, err := p.ts.Next()
	if err != nil || !ok {
		return nil, err
	}
	if tok.Kind != token.LeftCurly {
		p.ts.Unread(tok)
		return nil, nil
	}

	var effects []song.Effect
	for {
		tok, err := p.require("effect or '}'")
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.RightCurly {
			return effects, nil
		}
		if tok.Kind != token.Identifier {
			return nil, &UnexpectedTokenError{Token: tok, Where: "effect block"}
		}
		kind, ok := song.LookupEffect(tok.Str)
		if !ok {
			return nil, &UnexpectedTokenError{Token: tok, Where: "effect name"}
		}
		start, end, err := p.timeframe(nil, scope, closesEffect)
		if err != nil {
			return nil, fmt.Errorf("%s timeframe: %w", kind, err)
		}
		effects = append(effects, song.Effect{Kind: kind, Start: start, End: end})
	}
}

// timeframe reads "start? : end?" as fractions of scope seconds. start is a
// bound that has already been read, or nil.
func (p *Parser) timeframe(start expr.Node, scope float64, stop func(token.Token) bool) (float64, float64, error) {
	var err error
	opts := boundOptions(stop)

	if start == nil {
		if start, err = p.optionalExpression("timeframe start", opts); err != nil {
			return 0, 0, err
		}
	}
	from := 0.0
	if start != nil {
		if from, err = p.bound(start, scope); err != nil {
			return 0, 0, err
		}
	}

	if _, err := p.expect(token.Colon); err != nil {
		return 0, 0, err
	}

	end, err := p.optionalExpression("timeframe end", opts)
	if err != nil {
		return 0, 0, err
	}
	to := 1.0
	if end != nil {
		if to, err = p.bound(end, scope); err != nil {
			return 0, 0, err
		}
	}

	if err := song.CheckTimeframe(from, to); err != nil {
		return 0, 0, err
	}
	return from, to, nil
}

// bound converts a parsed bound to a fraction of scope. A trailing unit or a
// duration literal makes it a time in seconds; otherwise it is a fraction.
func (p *Parser) bound(n expr.Node, scope float64) (float64, error) {
	v, err := expr.Eval(n, nil)
	if err != nil {
		return 0, fmt.Errorf("timeframe bound: %w", err)
	}
	scale, ok, err := p.unit()
	if err != nil {
		return 0, err
	}
	switch {
	case ok:
		return v * scale / scope, nil
	case expr.HasUnit(n, expr.UnitSeconds):
		return v / scope, nil
	default:
		return v, nil
	}
}

// unit consumes a unit identifier if one comes next.
func (p *Parser) unit() (float64, bool, error) {
	tok, ok, err := p.ts.Next()
	if err != nil || !ok {
		return 0, false, err
	}
	if isUnit(tok) {
		return unitSeconds[tok.Str], true, nil
	}
	p.ts.Unread(tok)
	return 0, false, nil
}

func (p *Parser) expression(what string, opts expr.Options) (expr.Node, error) {
	n, err := expr.Parse(p.ts, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return n, nil
}

// optionalExpression returns nil when no expression starts at the current
// token.
func (p *Parser) optionalExpression(what string, opts expr.Options) (expr.Node, error) {
	n, err := expr.Parse(p.ts, opts)
	if errors.Is(err, expr.ErrEmptyExpression) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return n, nil
}

// require returns the next token, failing at end of input.
func (p *Parser) require(what string) (token.Token, error) {
	tok, ok, err := p.ts.Next()
	if err != nil {
		return tok, err
	}
	if !ok {
		return tok, fmt.Errorf("%w: expected %s", ErrUnexpectedEOF, what)
	}
	return tok, nil
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	tok, err := p.require(kind.String())
	if err != nil {
		return tok, err
	}
	if tok.Kind != kind {
		return tok, &ExpectedError{Expected: kind, Found: tok}
	}
	return tok, nil
}

func boundOptions(stop func(token.Token) bool) expr.Options {
	return expr.Options{Terminator: func(tok token.Token) bool {
		return isUnit(tok) || stop(tok)
	}}
}

func isUnit(tok token.Token) bool {
	if tok.Kind != token.Identifier {
		return false
	}
	_, ok := unitSeconds[tok.Str]
	return ok
}

func isHz(tok token.Token) bool { return tok.Is(hzSuffix) }

func closesSource(tok token.Token) bool { return tok.Kind == token.RightParen }

func closesEffect(tok token.Token) bool {
	if tok.Kind == token.RightCurly {
		return true
	}
	if tok.Kind != token.Identifier {
		return false
	}
	_, ok := song.LookupEffect(tok.Str)
	return ok
}
