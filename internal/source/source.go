// Package source provides the character providers the lexer reads program
// text from.
//
// Providers keep every character they hand out, so positions recorded as byte
// offsets can be turned back into text later without holding references into
// the input.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Provider supplies program text one character at a time.
type Provider interface {
	// Next returns the next character. ok is false once the input is
	// exhausted; err is non-nil only when reading failed.
	Next() (r rune, ok bool, err error)

	// Name identifies the input in diagnostics.
	Name() string

	// Text returns the consumed text backing the byte range [start, end).
	// ok is false if the range has not been read yet or is invalid.
	Text(start, end int) (text string, ok bool)
}

// ErrRead wraps failures of the underlying reader.
var ErrRead = errors.New("source read failed")

// StringSource serves characters from an in-memory string.
type StringSource struct {
	name string
	text string
	pos  int
}

// NewString creates a provider over text. Each invalid UTF-8 byte is
// replaced with utf8.RuneError up front so byte offsets match the runes
// handed out, as they do for ReaderSource.
func NewString(name, text string) *StringSource {
	if !utf8.ValidString(text) {
		text = string([]rune(text))
	}
	return &StringSource{name: name, text: text}
}

// Next implements Provider.
func (s *StringSource) Next() (rune, bool, error) {
	if s.pos >= len(s.text) {
		return 0, false, nil
	}
	r, size := utf8.DecodeRuneInString(s.text[s.pos:])
	s.pos += size
	return r, true, nil
}

// Name implements Provider.
func (s *StringSource) Name() string { return s.name }

// Text implements Provider.
func (s *StringSource) Text(start, end int) (string, bool) {
	return slice(s.text, start, end)
}

// ReaderSource serves characters from an io.Reader, recording everything it
// reads so earlier ranges stay addressable.
type ReaderSource struct {
	name string
	r    *bufio.Reader
	seen strings.Builder
	done bool
}

// NewReader creates a provider reading from r.
func NewReader(name string, r io.Reader) *ReaderSource {
	return &ReaderSource{name: name, r: bufio.NewReader(r)}
}

// Next implements Provider.
func (s *ReaderSource) Next() (rune, bool, error) {
	if s.done {
		return 0, false, nil
	}
	r, _, err := s.r.ReadRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.done = true
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%w: %s: %w", ErrRead, s.name, err)
	}
	s.seen.WriteRune(r)
	return r, true, nil
}

// Name implements Provider.
func (s *ReaderSource) Name() string { return s.name }

// Text implements Provider.
func (s *ReaderSource) Text(start, end int) (string, bool) {
	return slice(s.seen.String(), start, end)
}

// FileSource is a ReaderSource backed by an open file.
type FileSource struct {
	*ReaderSource
	file *os.File
}

// OpenFile opens path for reading. The caller must Close the source.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	return &FileSource{ReaderSource: NewReader(path, f), file: f}, nil
}

// Close closes the underlying file.
func (s *FileSource) Close() error {
	return s.file.Close()
}

func slice(text string, start, end int) (string, bool) {
	if start < 0 || end < start || end > len(text) {
		return "", false
	}
	return text[start:end], true
}
