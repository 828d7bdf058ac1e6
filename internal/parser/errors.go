package parser

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-audio-synthlang/internal/token"
)

// Grammar errors. Lexer and expression errors are wrapped, so errors.Is
// reaches their sentinels too.
var (
	ErrMissingName         = errors.New("missing song name")
	ErrMissingDuration     = errors.New("missing song duration")
	ErrMissingChannelCount = errors.New("missing channel count")
	ErrUnexpectedEOF       = errors.New("unexpected end of input")
	ErrUnexpectedToken     = errors.New("unexpected token")
)

// UnexpectedTokenError reports a token that is not valid where it appears,
// such as an unknown waveform or effect name.
type UnexpectedTokenError struct {
	Token token.Token
	Where string
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("%v %s in %s (line %d, col %d)",
		ErrUnexpectedToken, e.Token, e.Where, e.Token.Pos.Line+1, e.Token.Pos.Column+1)
}

func (e *UnexpectedTokenError) Unwrap() error { return ErrUnexpectedToken }

// ExpectedError reports that a specific token kind was required but another
// token was found.
type ExpectedError struct {
	Expected token.Kind
	Found    token.Token
}

func (e *ExpectedError) Error() string {
	return fmt.Sprintf("expected %s, found %s (line %d, col %d)",
		e.Expected, e.Found, e.Found.Pos.Line+1, e.Found.Pos.Column+1)
}
