// Command songtok prints the token stream of a song description.
//
// Usage:
//
//	songtok tune.song
//	songtok -ws tune.song      # Include whitespace tokens
//	songtok < tune.song        # Read from stdin
//
// Each line shows the token position followed by the token text. Lexer
// diagnostics such as unclosed comments are reported after the stream.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tphakala/go-audio-synthlang/internal/lexer"
	"github.com/tphakala/go-audio-synthlang/internal/source"
	"github.com/tphakala/go-audio-synthlang/internal/token"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ws := flag.Bool("ws", false, "Emit whitespace tokens")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [input.song]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	var src source.Provider
	switch args := flag.Args(); {
	case len(args) == 0 || args[0] == "-":
		src = source.NewStdin()
	default:
		f, err := source.OpenFile(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		src = f
	}

	lx := lexer.New(src, token.DefaultKeywords())
	lx.SetEmitWhitespace(*ws)
	return dump(os.Stdout, lx)
}

// dump writes one line per token, then any diagnostics. A lexing error stops
// the stream and is returned after the tokens read so far.
func dump(w io.Writer, lx *lexer.Lexer) error {
	name := lx.Source().Name()
	for {
		tok, ok, err := lx.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", token.Describe(name, tok.Pos), tok); err != nil {
			return err
		}
	}

	for _, d := range lx.Diagnostics() {
		if _, err := fmt.Fprintf(w, "%s: %s: %s\n", d.Level, token.Describe(name, d.Pos), d.Message); err != nil {
			return err
		}
	}
	return nil
}
