// Package token defines the lexical vocabulary of the song language.
package token

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the type of a token.
type Kind int

// Token kinds.
const (
	Invalid Kind = iota

	Identifier
	Whitespace
	LineComment
	BlockComment

	// Literals
	IntLiteral
	FloatLiteral
	StringLiteral
	CharLiteral
	DurationLiteral // value in seconds
	FreqLiteral     // value in Hz

	// Keywords
	On
	From
	To
	Underscore

	// Unary operators
	DoublePlus
	DoubleMinus
	Tilde
	Bang

	// Binary operators
	Plus
	Minus
	Star
	Slash
	BangEquals
	RightShift
	LessThan
	DoubleStar
	DoubleAnd
	DoubleOr
	DoubleEquals
	GreaterThan
	Caret
	Percent
	SingleAnd
	SingleOr
	LeftShift

	// Assignment and comparison
	Equals
	PlusEquals
	MinusEquals
	StarEquals
	SlashEquals
	TildeEquals
	DoubleStarEquals
	DoubleAndEquals
	DoubleOrEquals
	LessThanEquals
	GreaterThanEquals
	CaretEquals
	PercentEquals
	SingleAndEquals
	SingleOrEquals
	LeftShiftEquals
	RightShiftEquals

	// Punctuation
	LeftParen
	RightParen
	LeftSquare
	RightSquare
	LeftCurly
	RightCurly
	FatArrow
	Colon
	Dot
	DoubleDot
	TripleDot
	Hash
	At
	Comma
	Question
	Semicolon
	Dollar
	DoubleDollar
)

// fixedText holds the source spelling of every kind that has one.
var fixedText = map[Kind]string{
	On:                "on",
	From:              "from",
	To:                "to",
	Underscore:        "_",
	DoublePlus:        "++",
	DoubleMinus:       "--",
	Tilde:             "~",
	Bang:              "!",
	Plus:              "+",
	Minus:             "-",
	Star:              "*",
	Slash:             "/",
	BangEquals:        "!=",
	RightShift:        ">>",
	LessThan:          "<",
	DoubleStar:        "**",
	DoubleAnd:         "&&",
	DoubleOr:          "||",
	DoubleEquals:      "==",
	GreaterThan:       ">",
	Caret:             "^",
	Percent:           "%",
	SingleAnd:         "&",
	SingleOr:          "|",
	LeftShift:         "<<",
	Equals:            "=",
	PlusEquals:        "+=",
	MinusEquals:       "-=",
	StarEquals:        "*=",
	SlashEquals:       "/=",
	TildeEquals:       "~=",
	DoubleStarEquals:  "**=",
	DoubleAndEquals:   "&&=",
	DoubleOrEquals:    "||=",
	LessThanEquals:    "<=",
	GreaterThanEquals: ">=",
	CaretEquals:       "^=",
	PercentEquals:     "%=",
	SingleAndEquals:   "&=",
	SingleOrEquals:    "|=",
	LeftShiftEquals:   "<<=",
	RightShiftEquals:  ">>=",
	LeftParen:         "(",
	RightParen:        ")",
	LeftSquare:        "[",
	RightSquare:       "]",
	LeftCurly:         "{",
	RightCurly:        "}",
	FatArrow:          "=>",
	Colon:             ":",
	Dot:               ".",
	DoubleDot:         "..",
	TripleDot:         "...",
	Hash:              "#",
	At:                "@",
	Comma:             ",",
	Question:          "?",
	Semicolon:         ";",
	Dollar:            "$",
	DoubleDollar:      "$$",
}

var kindNames = map[Kind]string{
	Invalid:         "invalid",
	Identifier:      "identifier",
	Whitespace:      "whitespace",
	LineComment:     "line comment",
	BlockComment:    "block comment",
	IntLiteral:      "integer literal",
	FloatLiteral:    "float literal",
	StringLiteral:   "string literal",
	CharLiteral:     "char literal",
	DurationLiteral: "duration literal",
	FreqLiteral:     "frequency literal",
}

// String returns a human readable name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	if text, ok := fixedText[k]; ok {
		return strconv.Quote(text)
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsLiteral reports whether k is a literal kind.
func (k Kind) IsLiteral() bool {
	return k >= IntLiteral && k <= FreqLiteral
}

// IsNumeric reports whether k carries a numeric value.
func (k Kind) IsNumeric() bool {
	switch k {
	case IntLiteral, FloatLiteral, DurationLiteral, FreqLiteral:
		return true
	default:
		return false
	}
}

// IsTrivia reports whether k is whitespace or a comment.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == LineComment || k == BlockComment
}

// Position locates a token in its source. Start and End are byte offsets of
// the half-open range [Start, End); Line and Column are zero based.
type Position struct {
	Start  int
	End    int
	Line   int
	Column int
}

// Len returns the length of the range in bytes.
func (p Position) Len() int { return p.End - p.Start }

// Token is a single lexical token.
type Token struct {
	Kind Kind
	Pos  Position

	Int   uint64  // IntLiteral
	Float float64 // FloatLiteral, DurationLiteral, FreqLiteral
	Str   string  // StringLiteral, and the name of an Identifier
	Char  rune    // CharLiteral
}

// Value returns the numeric value of a numeric literal as float64.
func (t Token) Value() float64 {
	if t.Kind == IntLiteral {
		return float64(t.Int)
	}
	return t.Float
}

// Is reports whether t is an identifier spelled name.
func (t Token) Is(name string) bool {
	return t.Kind == Identifier && t.Str == name
}

// String renders the token so that lexing the result yields an equal token.
// Trivia tokens carry no text of their own and render as their kind name.
func (t Token) String() string {
	switch t.Kind {
	case IntLiteral:
		return strconv.FormatUint(t.Int, 10)
	case FloatLiteral:
		return formatFloat(t.Float)
	case DurationLiteral:
		return formatFloat(t.Float) + "s"
	case FreqLiteral:
		return formatFloat(t.Float) + "hz"
	case StringLiteral:
		return `"` + Escape(t.Str) + `"`
	case CharLiteral:
		return "'" + Escape(string(t.Char)) + "'"
	case Identifier:
		return t.Str
	}
	if text, ok := fixedText[t.Kind]; ok {
		return text
	}
	return "[" + t.Kind.String() + "]"
}

// formatFloat always keeps a decimal point so the literal stays a float.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// Describe formats a position the way diagnostics print it:
// name[start-end | Line l, Col a-b].
func Describe(name string, p Position) string {
	return fmt.Sprintf("%s[%d-%d | Line %d, Col %d-%d]",
		name, p.Start, p.End, p.Line, p.Column, p.Column+p.Len())
}

// Escape quotes control characters, quotes and backslashes.
func Escape(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\n':
			b.WriteString(`\n`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Unescape maps the character following a backslash to the character it
// denotes. Unknown escapes stand for themselves.
func Unescape(c rune) rune {
	switch c {
	case '0':
		return 0
	case 't':
		return '\t'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	default:
		return c
	}
}
