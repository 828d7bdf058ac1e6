package source

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, p Provider) string {
	t.Helper()
	var b strings.Builder
	for {
		r, ok, err := p.Next()
		require.NoError(t, err)
		if !ok {
			return b.String()
		}
		b.WriteRune(r)
	}
}

func TestStringSource(t *testing.T) {
	s := NewString("mem", "héllo")
	assert.Equal(t, "mem", s.Name())
	assert.Equal(t, "héllo", drain(t, s))

	text, ok := s.Text(0, 3)
	require.True(t, ok)
	assert.Equal(t, "hé", text)

	_, ok = s.Text(2, 100)
	assert.False(t, ok)
}

func TestReaderSource_TextOnlyAfterRead(t *testing.T) {
	s := NewReader("reader", strings.NewReader("abc"))

	_, ok := s.Text(0, 1)
	assert.False(t, ok, "nothing has been read yet")

	r, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 'a', r)

	text, ok := s.Text(0, 1)
	require.True(t, ok)
	assert.Equal(t, "a", text)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestReaderSource_ReadError(t *testing.T) {
	s := NewReader("bad", failingReader{})
	_, _, err := s.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRead)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.txt")
	require.NoError(t, os.WriteFile(path, []byte("\"x\" 1s"), 0o644))

	s, err := OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	assert.Equal(t, path, s.Name())
	assert.Equal(t, "\"x\" 1s", drain(t, s))
}

func TestOpenFile_NotFound(t *testing.T) {
	_, err := OpenFile("/nonexistent/song.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open source file")
}

func TestLineSource_Prompts(t *testing.T) {
	var prompts bytes.Buffer
	s := NewLineSource("stdin", strings.NewReader("ab\ncd"), &prompts)

	assert.Equal(t, "ab\ncd", drain(t, s))
	assert.Equal(t, "> > ", prompts.String())

	text, ok := s.Text(3, 5)
	require.True(t, ok)
	assert.Equal(t, "cd", text)
}

func TestLineSource_NoPrompt(t *testing.T) {
	s := NewLineSource("pipe", strings.NewReader("x\n"), nil)
	assert.Equal(t, "x\n", drain(t, s))
}

func TestProviders_InvalidUTF8(t *testing.T) {
	const input = "a\xff\xfeb"
	tests := []struct {
		name string
		p    Provider
	}{
		{"String", NewString("mem", input)},
		{"Reader", NewReader("reader", strings.NewReader(input))},
		{"Line", NewLineSource("line", strings.NewReader(input), nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "a\uFFFD\uFFFDb", drain(t, tt.p))

			// Each invalid byte occupies the three bytes of RuneError.
			text, ok := tt.p.Text(7, 8)
			require.True(t, ok)
			assert.Equal(t, "b", text)
		})
	}
}
