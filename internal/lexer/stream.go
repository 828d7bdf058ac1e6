package lexer

import "github.com/tphakala/go-audio-synthlang/internal/token"

// Stream wraps a Lexer with one token of pushback, which is all the
// lookahead the song grammar needs.
type Stream struct {
	lx     *Lexer
	held   token.Token
	isHeld bool
}

// NewStream creates a stream reading from lx.
func NewStream(lx *Lexer) *Stream {
	return &Stream{lx: lx}
}

// Lexer returns the underlying lexer.
func (s *Stream) Lexer() *Lexer { return s.lx }

// Next returns the pushed back token if there is one, otherwise the next
// token from the lexer. The outcomes are the same as Lexer.Next.
func (s *Stream) Next() (token.Token, bool, error) {
	if s.isHeld {
		s.isHeld = false
		return s.held, true, nil
	}
	return s.lx.Next()
}

// Unread pushes tok back so the next call to Next returns it. Only one token
// can be held at a time.
func (s *Stream) Unread(tok token.Token) {
	if s.isHeld {
		panic("lexer: stream already holds a pushed back token")
	}
	s.held = tok
	s.isHeld = true
}

// Peek returns the next token without consuming it.
func (s *Stream) Peek() (token.Token, bool, error) {
	tok, ok, err := s.Next()
	if err != nil || !ok {
		return tok, ok, err
	}
	s.Unread(tok)
	return tok, true, nil
}
