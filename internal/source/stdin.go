package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// defaultPrompt is written before each line when reading interactively.
const defaultPrompt = "> "

// LineSource reads its input a line at a time. When a prompt writer is set,
// the prompt is printed each time a new line is needed, which makes it usable
// as an interactive source.
type LineSource struct {
	name   string
	r      *bufio.Reader
	prompt string
	out    io.Writer
	line   []rune
	seen   strings.Builder
	done   bool
}

// NewLineSource creates a line-buffered provider. out may be nil to disable
// prompting.
func NewLineSource(name string, r io.Reader, out io.Writer) *LineSource {
	return &LineSource{
		name:   name,
		r:      bufio.NewReader(r),
		prompt: defaultPrompt,
		out:    out,
	}
}

// NewStdin creates a line-buffered provider over os.Stdin. A prompt is
// written to stderr only when stdin is a terminal.
func NewStdin() *LineSource {
	var out io.Writer
	if term.IsTerminal(int(os.Stdin.Fd())) {
		out = os.Stderr
	}
	return NewLineSource("stdin", os.Stdin, out)
}

// Next implements Provider.
func (s *LineSource) Next() (rune, bool, error) {
	for len(s.line) == 0 {
		if s.done {
			return 0, false, nil
		}
		if err := s.readLine(); err != nil {
			return 0, false, err
		}
	}
	r := s.line[0]
	s.line = s.line[1:]
	return r, true, nil
}

func (s *LineSource) readLine() error {
	if s.out != nil {
		if _, err := io.WriteString(s.out, s.prompt); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrRead, s.name, err)
		}
	}
	text, err := s.r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s: %w", ErrRead, s.name, err)
		}
		s.done = true
	}
	s.line = []rune(text)
	// Record the decoded runes so invalid bytes take the width of RuneError.
	s.seen.WriteString(string(s.line))
	return nil
}

// Name implements Provider.
func (s *LineSource) Name() string { return s.name }

// Text implements Provider.
func (s *LineSource) Text(start, end int) (string, bool) {
	return slice(s.seen.String(), start, end)
}
