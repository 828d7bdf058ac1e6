// Package lexer turns song text into a stream of tokens.
//
// The lexer reads one character at a time from a source.Provider and keeps a
// small pushback stack so it can look ahead while recognizing multi-character
// operators and literal suffixes. Positions are byte offsets into the
// provider's text.
package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/tphakala/go-audio-synthlang/internal/source"
	"github.com/tphakala/go-audio-synthlang/internal/token"
)

// Lexing errors.
var (
	ErrInvalidChar        = errors.New("invalid character")
	ErrUnterminatedChar   = errors.New("unfinished char literal")
	ErrUnterminatedString = errors.New("unfinished string literal")
)

// Error is a lexing failure located in the source.
type Error struct {
	Err  error
	Char rune // offending character, set for ErrInvalidChar
	Pos  token.Position
}

func (e *Error) Error() string {
	if errors.Is(e.Err, ErrInvalidChar) {
		return fmt.Sprintf("line %d, col %d: %v %q", e.Pos.Line+1, e.Pos.Column+1, e.Err, e.Char)
	}
	return fmt.Sprintf("line %d, col %d: %v", e.Pos.Line+1, e.Pos.Column+1, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Level grades a diagnostic.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Diagnostic is a non-fatal observation made while lexing.
type Diagnostic struct {
	Level   Level
	Message string
	Pos     token.Position
}

// Lexer produces tokens lazily from a source.Provider.
type Lexer struct {
	src      source.Provider
	keywords token.Keywords
	emitWS   bool

	pending []rune // pushback stack, top is last
	offset  int    // byte offset of the next character
	lines   []int  // byte offset at which each line starts

	diagnostics []Diagnostic
}

// New creates a lexer over src using the given keyword table.
func New(src source.Provider, keywords token.Keywords) *Lexer {
	return &Lexer{
		src:      src,
		keywords: keywords,
		lines:    []int{0},
	}
}

// SetEmitWhitespace controls whether whitespace and comment tokens are
// returned. They are skipped by default.
func (l *Lexer) SetEmitWhitespace(emit bool) { l.emitWS = emit }

// EmitWhitespace reports whether trivia tokens are returned.
func (l *Lexer) EmitWhitespace() bool { return l.emitWS }

// Source returns the provider the lexer reads from.
func (l *Lexer) Source() source.Provider { return l.src }

// Diagnostics returns the diagnostics collected so far.
func (l *Lexer) Diagnostics() []Diagnostic { return l.diagnostics }

// Next returns the next token. It has three outcomes: a token (ok is true),
// a failure (err is non-nil), or exhausted input (ok is false, err is nil).
func (l *Lexer) Next() (tok token.Token, ok bool, err error) {
	for {
		tok, ok, err = l.next()
		if err != nil || !ok {
			return token.Token{}, false, err
		}
		if l.emitWS || !tok.Kind.IsTrivia() {
			return tok, true, nil
		}
	}
}

func (l *Lexer) read() (rune, bool, error) {
	var r rune
	if n := len(l.pending); n > 0 {
		r = l.pending[n-1]
		l.pending = l.pending[:n-1]
	} else {
		c, ok, err := l.src.Next()
		if err != nil || !ok {
			return 0, false, err
		}
		r = c
	}

	l.offset += utf8.RuneLen(r)
	if r == '\n' {
		l.lines = append(l.lines, l.offset)
	}
	return r, true, nil
}

func (l *Lexer) unread(r rune) {
	l.pending = append(l.pending, r)
	l.offset -= utf8.RuneLen(r)
	if r == '\n' {
		l.lines = l.lines[:len(l.lines)-1]
	}
}

func (l *Lexer) position(start, line int) token.Position {
	return token.Position{
		Start:  start,
		End:    l.offset,
		Line:   line,
		Column: start - l.lines[line],
	}
}

func (l *Lexer) fail(err error, c rune, start, line int) error {
	return &Error{Err: err, Char: c, Pos: l.position(start, line)}
}

// branch maps a follow-up character to the kind it produces.
type branch struct {
	c    rune
	kind token.Kind
}

// either consumes the next character if it selects one of the branches and
// returns that branch's kind, otherwise it leaves the input alone and
// returns def.
func (l *Lexer) either(def token.Kind, branches ...branch) (token.Kind, error) {
	r, ok, err := l.read()
	if err != nil {
		return token.Invalid, err
	}
	if !ok {
		return def, nil
	}
	for _, b := range branches {
		if b.c == r {
			return b.kind, nil
		}
	}
	l.unread(r)
	return def, nil
}

func (l *Lexer) next() (token.Token, bool, error) {
	start, line := l.offset, len(l.lines)-1

	first, ok, err := l.read()
	if err != nil || !ok {
		return token.Token{}, false, err
	}

	tok := token.Token{}
	switch {
	case first >= '0' && first <= '9':
		tok, err = l.number(first)
	case isIdentChar(first):
		tok, err = l.identifier(first)
	case isSpace(first):
		tok.Kind, err = l.whitespace()
	case first == '"':
		tok, err = l.stringLiteral(start, line)
	case first == '\'':
		tok, err = l.charLiteral(start, line)
	case first == '/':
		tok.Kind, err = l.slash(start, line)
	default:
		tok.Kind, err = l.operator(first)
		if err == nil && tok.Kind == token.Invalid {
			return token.Token{}, false, l.fail(ErrInvalidChar, first, start, line)
		}
	}
	if err != nil {
		return token.Token{}, false, err
	}

	tok.Pos = l.position(start, line)
	return tok, true, nil
}

func (l *Lexer) operator(c rune) (token.Kind, error) {
	switch c {
	case '+':
		return l.either(token.Plus, branch{'+', token.DoublePlus}, branch{'=', token.PlusEquals})
	case '-':
		return l.either(token.Minus, branch{'-', token.DoubleMinus}, branch{'=', token.MinusEquals})
	case '*':
		kind, err := l.either(token.Star, branch{'*', token.DoubleStar}, branch{'=', token.StarEquals})
		if err != nil || kind != token.DoubleStar {
			return kind, err
		}
		return l.either(token.DoubleStar, branch{'=', token.DoubleStarEquals})
	case '.':
		kind, err := l.either(token.Dot, branch{'.', token.DoubleDot})
		if err != nil || kind != token.DoubleDot {
			return kind, err
		}
		return l.either(token.DoubleDot, branch{'.', token.TripleDot})
	case '$':
		return l.either(token.Dollar, branch{'$', token.DoubleDollar})
	case '~':
		return l.either(token.Tilde, branch{'=', token.TildeEquals})
	case '%':
		return l.either(token.Percent, branch{'=', token.PercentEquals})
	case '!':
		return l.either(token.Bang, branch{'=', token.BangEquals})
	case '^':
		return l.either(token.Caret, branch{'=', token.CaretEquals})
	case '=':
		return l.either(token.Equals, branch{'=', token.DoubleEquals}, branch{'>', token.FatArrow})
	case '<':
		return l.doubled(c, token.LessThan, token.LessThanEquals, token.LeftShift, token.LeftShiftEquals)
	case '>':
		return l.doubled(c, token.GreaterThan, token.GreaterThanEquals, token.RightShift, token.RightShiftEquals)
	case '&':
		return l.doubled(c, token.SingleAnd, token.SingleAndEquals, token.DoubleAnd, token.DoubleAndEquals)
	case '|':
		return l.doubled(c, token.SingleOr, token.SingleOrEquals, token.DoubleOr, token.DoubleOrEquals)
	}

	if kind, ok := singles[c]; ok {
		return kind, nil
	}
	return token.Invalid, nil
}

// doubled lexes operators of the shape c, c=, cc and cc=.
func (l *Lexer) doubled(c rune, single, singleEq, double, doubleEq token.Kind) (token.Kind, error) {
	kind, err := l.either(single, branch{c, double}, branch{'=', singleEq})
	if err != nil || kind != double {
		return kind, err
	}
	return l.either(double, branch{'=', doubleEq})
}

var singles = map[rune]token.Kind{
	'(': token.LeftParen,
	')': token.RightParen,
	'[': token.LeftSquare,
	']': token.RightSquare,
	'{': token.LeftCurly,
	'}': token.RightCurly,
	':': token.Colon,
	'#': token.Hash,
	'@': token.At,
	',': token.Comma,
	'?': token.Question,
	';': token.Semicolon,
}

func (l *Lexer) slash(start, line int) (token.Kind, error) {
	r, ok, err := l.read()
	if err != nil {
		return token.Invalid, err
	}
	if !ok {
		return token.Slash, nil
	}

	switch r {
	case '=':
		return token.SlashEquals, nil
	case '/':
		return token.LineComment, l.lineComment()
	case '*':
		return token.BlockComment, l.blockComment(start, line)
	}
	l.unread(r)
	return token.Slash, nil
}

// lineComment consumes up to, not including, the next newline.
func (l *Lexer) lineComment() error {
	for {
		r, ok, err := l.read()
		if err != nil || !ok {
			return err
		}
		if r == '\n' {
			l.unread(r)
			return nil
		}
	}
}

// blockComment consumes a possibly nested /* */ comment. Hitting the end of
// input closes the comment and records a diagnostic.
func (l *Lexer) blockComment(start, line int) error {
	level := 1
	for level > 0 {
		r, ok, err := l.read()
		if err != nil {
			return err
		}
		if !ok {
			l.diagnostics = append(l.diagnostics, Diagnostic{
				Level:   LevelInfo,
				Message: "Unclosed multiline comment",
				Pos:     l.position(start, line),
			})
			return nil
		}

		var want rune
		switch r {
		case '/':
			want = '*'
		case '*':
			want = '/'
		default:
			continue
		}

		n, ok, err := l.read()
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if n != want {
			l.unread(n)
			continue
		}
		if r == '/' {
			level++
		} else {
			level--
		}
	}
	return nil
}

func (l *Lexer) whitespace() (token.Kind, error) {
	for {
		r, ok, err := l.read()
		if err != nil {
			return token.Invalid, err
		}
		if !ok {
			return token.Whitespace, nil
		}
		if !isSpace(r) {
			l.unread(r)
			return token.Whitespace, nil
		}
	}
}

func (l *Lexer) identifier(first rune) (token.Token, error) {
	word := []rune{first}
	for {
		r, ok, err := l.read()
		if err != nil {
			return token.Token{}, err
		}
		if !ok {
			break
		}
		if !isIdentChar(r) {
			l.unread(r)
			break
		}
		word = append(word, r)
	}

	name := string(word)
	kind := l.keywords.Lookup(name)
	if kind == token.Identifier {
		return token.Token{Kind: kind, Str: name}, nil
	}
	return token.Token{Kind: kind}, nil
}

func (l *Lexer) charLiteral(start, line int) (token.Token, error) {
	r, ok, err := l.read()
	if err != nil {
		return token.Token{}, err
	}
	if !ok {
		return token.Token{}, l.fail(ErrUnterminatedChar, 0, start, line)
	}
	if r == '\\' {
		r, ok, err = l.read()
		if err != nil {
			return token.Token{}, err
		}
		if !ok {
			return token.Token{}, l.fail(ErrUnterminatedChar, 0, start, line)
		}
		r = token.Unescape(r)
	}

	closing, ok, err := l.read()
	if err != nil {
		return token.Token{}, err
	}
	if !ok || closing != '\'' {
		return token.Token{}, l.fail(ErrUnterminatedChar, 0, start, line)
	}
	return token.Token{Kind: token.CharLiteral, Char: r}, nil
}

func (l *Lexer) stringLiteral(start, line int) (token.Token, error) {
	var s []rune
	for {
		r, ok, err := l.read()
		if err != nil {
			return token.Token{}, err
		}
		if !ok {
			return token.Token{}, l.fail(ErrUnterminatedString, 0, start, line)
		}
		switch r {
		case '"':
			return token.Token{Kind: token.StringLiteral, Str: string(s)}, nil
		case '\\':
			c, ok, err := l.read()
			if err != nil {
				return token.Token{}, err
			}
			if !ok {
				return token.Token{}, l.fail(ErrUnterminatedString, 0, start, line)
			}
			s = append(s, token.Unescape(c))
		default:
			s = append(s, r)
		}
	}
}

// digits reads a run of decimal digits, returning them most significant
// first along with the first character after the run.
func (l *Lexer) digits(first []byte) ([]byte, rune, bool, error) {
	ds := first
	for {
		r, ok, err := l.read()
		if err != nil || !ok {
			return ds, 0, false, err
		}
		if r < '0' || r > '9' {
			return ds, r, true, nil
		}
		ds = append(ds, byte(r))
	}
}

func (l *Lexer) number(first rune) (token.Token, error) {
	intDigits, after, ok, err := l.digits([]byte{byte(first)})
	if err != nil {
		return token.Token{}, err
	}

	tok := intLiteral(intDigits)
	if ok && after == '.' {
		fracDigits, next, more, err := l.digits(nil)
		if err != nil {
			return token.Token{}, err
		}
		if more {
			l.unread(next)
		}
		if len(fracDigits) == 0 {
			// a dot with no digits behind it is not part of the number
			l.unread('.')
		} else {
			tok = floatLiteral(intDigits, fracDigits)
		}
	} else if ok {
		l.unread(after)
	}

	return l.suffix(tok)
}

func intLiteral(ds []byte) token.Token {
	v, err := strconv.ParseUint(string(ds), 10, 64)
	if err != nil {
		f, _ := strconv.ParseFloat(string(ds), 64)
		return token.Token{Kind: token.FloatLiteral, Float: f}
	}
	return token.Token{Kind: token.IntLiteral, Int: v}
}

func floatLiteral(intDigits, fracDigits []byte) token.Token {
	text := make([]byte, 0, len(intDigits)+len(fracDigits)+1)
	text = append(text, intDigits...)
	text = append(text, '.')
	text = append(text, fracDigits...)
	f, _ := strconv.ParseFloat(string(text), 64)
	return token.Token{Kind: token.FloatLiteral, Float: f}
}

// suffix turns a number followed by a unit into a duration or frequency
// literal. Characters that do not complete a unit are pushed back.
func (l *Lexer) suffix(num token.Token) (token.Token, error) {
	v := num.Value()

	r, ok, err := l.read()
	if err != nil {
		return token.Token{}, err
	}
	if !ok {
		return num, nil
	}

	var second rune
	switch r {
	case 's':
		return duration(v * secondsPerSecond), nil
	case 'm':
		second = 's'
	case 'h':
		second = 'z'
	case 'n':
		second = 's'
	default:
		l.unread(r)
		return num, nil
	}

	n, more, err := l.read()
	if err != nil {
		return token.Token{}, err
	}
	if more && n == second {
		switch r {
		case 'm':
			return duration(v * secondsPerMillisecond), nil
		case 'h':
			return token.Token{Kind: token.FreqLiteral, Float: v * hertzPerHertz}, nil
		default:
			return duration(v * secondsPerNanosecond), nil
		}
	}
	if more {
		l.unread(n)
	}

	switch r {
	case 'm':
		return duration(v * secondsPerMinute), nil
	case 'h':
		return duration(v * secondsPerHour), nil
	default:
		l.unread(r)
		return num, nil
	}
}

func duration(seconds float64) token.Token {
	return token.Token{Kind: token.DurationLiteral, Float: seconds}
}

func isIdentChar(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
