package expr

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-audio-synthlang/internal/lexer"
	"github.com/tphakala/go-audio-synthlang/internal/source"
	"github.com/tphakala/go-audio-synthlang/internal/token"
)

// Parse errors.
var (
	ErrEmptyExpression = errors.New("empty expression")
	ErrMissingOperand  = errors.New("missing operand")
	ErrMismatchedParen = errors.New("mismatched parenthesis")
	ErrUnexpectedToken = errors.New("unexpected token in expression")
)

// SyntaxError ties a parse error to the token it was detected at.
type SyntaxError struct {
	Err error
	Tok token.Token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v at %s (line %d, col %d)", e.Err, e.Tok, e.Tok.Pos.Line+1, e.Tok.Pos.Column+1)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// TokenSource is the token stream the parser consumes. Unread must accept
// at least one token of pushback.
type TokenSource interface {
	Next() (token.Token, bool, error)
	Unread(tok token.Token)
}

// Options control where an expression ends.
type Options struct {
	// Terminator, when set, is consulted for every token seen outside
	// parentheses. A token it accepts ends the expression.
	Terminator func(token.Token) bool

	// DiscardTerminator consumes the terminating token instead of pushing
	// it back to the stream.
	DiscardTerminator bool
}

type itemKind int

const (
	itemOperand itemKind = iota
	itemBinary
	itemNegate
	itemCall
	itemParen
)

// item is an entry of the operator stack or the postfix output queue.
type item struct {
	kind itemKind
	node Node
	op   Op
	fn   Func
	tok  token.Token
}

func (it item) prec() int {
	switch it.kind {
	case itemBinary:
		return binaryPrec(it.op)
	case itemNegate:
		return precNegate
	case itemCall:
		return precCall
	default:
		return 0
	}
}

func binaryPrec(op Op) int {
	switch op {
	case Add, Sub:
		return precAdditive
	case Pow:
		return precPower
	default:
		return precMultiplicative
	}
}

var binaryOps = map[token.Kind]Op{
	token.Plus:       Add,
	token.Minus:      Sub,
	token.Star:       Mul,
	token.Slash:      Div,
	token.Percent:    Mod,
	token.Caret:      Pow,
	token.DoubleStar: Pow,
}

// parser holds the state of one shunting-yard run.
type parser struct {
	ts     TokenSource
	opts   Options
	output []item
	stack  []item
	depth  int
}

// Parse reads one expression from ts.
//
// Outside parentheses the expression ends at end of input, at a token the
// terminator accepts, or at the first token that cannot continue it, such as
// an operand where an operator is expected. The ending token is pushed back
// unless it is a discarded terminator.
func Parse(ts TokenSource, opts Options) (Node, error) {
	p := &parser{ts: ts, opts: opts}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.build()
}

func (p *parser) run() error {
	expectOperand := true
	for {
		tok, ok, err := p.ts.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if p.depth == 0 && p.opts.Terminator != nil && p.opts.Terminator(tok) {
			if !p.opts.DiscardTerminator {
				p.ts.Unread(tok)
			}
			return nil
		}

		switch {
		case tok.Kind.IsNumeric():
			if !expectOperand {
				return p.stop(tok)
			}
			p.output = append(p.output, item{kind: itemOperand, node: numberNode(tok), tok: tok})
			expectOperand = false

		case tok.Kind == token.Identifier:
			if !expectOperand {
				return p.stop(tok)
			}
			fn, isFunc, err := p.function(tok)
			if err != nil {
				return err
			}
			if isFunc {
				p.stack = append(p.stack, item{kind: itemCall, fn: fn, tok: tok})
				continue
			}
			p.output = append(p.output, item{kind: itemOperand, node: &Var{Name: tok.Str}, tok: tok})
			expectOperand = false

		case tok.Kind == token.LeftParen:
			if !expectOperand {
				return p.stop(tok)
			}
			p.stack = append(p.stack, item{kind: itemParen, tok: tok})
			p.depth++

		case tok.Kind == token.RightParen:
			if p.depth == 0 {
				return &SyntaxError{Err: ErrMismatchedParen, Tok: tok}
			}
			if expectOperand {
				return &SyntaxError{Err: ErrMissingOperand, Tok: tok}
			}
			if err := p.closeParen(tok); err != nil {
				return err
			}

		case tok.Kind == token.DoubleMinus || tok.Kind == token.DoublePlus:
			for _, sign := range splitSigns(tok) {
				if expectOperand {
					p.unary(sign)
					continue
				}
				p.pushBinary(binaryOps[sign.Kind], sign)
				expectOperand = true
			}

		default:
			op, isOp := binaryOps[tok.Kind]
			if !isOp {
				if p.depth > 0 {
					return &SyntaxError{Err: ErrUnexpectedToken, Tok: tok}
				}
				return p.stop(tok)
			}
			if expectOperand {
				if tok.Kind != token.Minus && tok.Kind != token.Plus {
					return &SyntaxError{Err: ErrMissingOperand, Tok: tok}
				}
				p.unary(tok)
				continue
			}
			p.pushBinary(op, tok)
			expectOperand = true
		}
	}
}

// unary pushes a prefix sign. Unary plus is the identity.
func (p *parser) unary(tok token.Token) {
	if tok.Kind == token.Minus {
		p.stack = append(p.stack, item{kind: itemNegate, tok: tok})
	}
}

// splitSigns breaks "--" or "++" into two single sign tokens, so "2--1" reads
// as 2 - (-1).
func splitSigns(tok token.Token) [2]token.Token {
	kind := token.Minus
	if tok.Kind == token.DoublePlus {
		kind = token.Plus
	}
	first, second := tok, tok
	first.Kind, second.Kind = kind, kind
	first.Pos.End = tok.Pos.Start + 1
	second.Pos.Start = tok.Pos.Start + 1
	second.Pos.Column++
	return [2]token.Token{first, second}
}

// stop ends the expression at a token that cannot continue it.
func (p *parser) stop(tok token.Token) error {
	if p.depth > 0 {
		return &SyntaxError{Err: ErrUnexpectedToken, Tok: tok}
	}
	p.ts.Unread(tok)
	return nil
}

// function resolves tok as a function name. "log" directly followed by 10 or
// 2 spells log10 or log2.
func (p *parser) function(tok token.Token) (Func, bool, error) {
	if fn, ok := funcNames[tok.Str]; ok {
		return fn, true, nil
	}
	if tok.Str != "log" {
		return 0, false, nil
	}
	next, ok, err := p.ts.Next()
	if err != nil {
		return 0, false, err
	}
	if !ok {
		return 0, false, nil
	}
	if next.Kind == token.IntLiteral && next.Pos.Start == tok.Pos.End {
		switch next.Int {
		case 10:
			return Log10, true, nil
		case 2:
			return Log2, true, nil
		}
	}
	p.ts.Unread(next)
	return 0, false, nil
}

func (p *parser) pushBinary(op Op, tok token.Token) {
	prec := binaryPrec(op)
	rightAssoc := op == Pow
	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		if top.kind == itemParen {
			break
		}
		if top.prec() < prec || (top.prec() == prec && rightAssoc) {
			break
		}
		p.output = append(p.output, top)
		p.stack = p.stack[:len(p.stack)-1]
	}
	p.stack = append(p.stack, item{kind: itemBinary, op: op, tok: tok})
}

func (p *parser) closeParen(tok token.Token) error {
	for {
		if len(p.stack) == 0 {
			return &SyntaxError{Err: ErrMismatchedParen, Tok: tok}
		}
		top := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		if top.kind == itemParen {
			break
		}
		p.output = append(p.output, top)
	}
	p.depth--
	if n := len(p.stack); n > 0 && p.stack[n-1].kind == itemCall {
		p.output = append(p.output, p.stack[n-1])
		p.stack = p.stack[:n-1]
	}
	return nil
}

// build drains the operator stack and turns the postfix queue into a tree.
func (p *parser) build() (Node, error) {
	if len(p.output) == 0 && len(p.stack) == 0 {
		return nil, ErrEmptyExpression
	}
	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		if top.kind == itemParen {
			return nil, &SyntaxError{Err: ErrMismatchedParen, Tok: top.tok}
		}
		p.output = append(p.output, top)
	}

	queue := p.output
	root, err := popNode(&queue)
	if err != nil {
		return nil, err
	}
	if len(queue) > 0 {
		return nil, &SyntaxError{Err: ErrUnexpectedToken, Tok: queue[len(queue)-1].tok}
	}
	return root, nil
}

// popNode consumes the postfix queue from its end. Operators take their
// right operand first.
func popNode(queue *[]item) (Node, error) {
	q := *queue
	if len(q) == 0 {
		return nil, ErrMissingOperand
	}
	it := q[len(q)-1]
	*queue = q[:len(q)-1]

	switch it.kind {
	case itemOperand:
		return it.node, nil
	case itemBinary:
		right, err := popNode(queue)
		if err != nil {
			return nil, err
		}
		left, err := popNode(queue)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: it.op, Left: left, Right: right}, nil
	case itemNegate:
		arg, err := popNode(queue)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: Sub, Left: &Num{}, Right: arg}, nil
	case itemCall:
		arg, err := popNode(queue)
		if err != nil {
			return nil, err
		}
		return &Call{Func: it.fn, Arg: arg}, nil
	default:
		return nil, &SyntaxError{Err: ErrMismatchedParen, Tok: it.tok}
	}
}

func numberNode(tok token.Token) *Num {
	n := &Num{Value: tok.Value()}
	switch tok.Kind {
	case token.DurationLiteral:
		n.Unit = UnitSeconds
	case token.FreqLiteral:
		n.Unit = UnitHertz
	}
	return n
}

// ParseString parses text as a single complete expression.
func ParseString(text string) (Node, error) {
	ts := lexer.NewStream(lexer.New(source.NewString("expr", text), token.DefaultKeywords()))
	n, err := Parse(ts, Options{})
	if err != nil {
		return nil, err
	}
	tok, ok, err := ts.Next()
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, &SyntaxError{Err: ErrUnexpectedToken, Tok: tok}
	}
	return n, nil
}
