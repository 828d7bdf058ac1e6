// Package expr implements the arithmetic sub-language used for frequencies,
// phases, volumes and time bounds: a shunting-yard parser that builds an
// immutable tree, and an evaluator over that tree.
package expr

import (
	"strconv"
)

// Node is an expression tree node. Trees are immutable once built and every
// node owns its children.
type Node interface {
	node()
	String() string
}

// Op is a binary arithmetic operator.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
	Mod
	Pow
)

var opText = [...]string{Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%", Pow: "^"}

func (o Op) String() string { return opText[o] }

// Func is one of the built-in single-argument math functions.
type Func int

const (
	Sin Func = iota
	Cos
	Tan
	Ln
	Log10
	Log2
	Sqrt
	Abs
	Round
	Floor
	Ceil
	Deg // radians to degrees
	Rad // degrees to radians
)

var funcText = [...]string{
	Sin: "sin", Cos: "cos", Tan: "tan", Ln: "ln", Log10: "log10", Log2: "log2",
	Sqrt: "sqrt", Abs: "abs", Round: "round", Floor: "floor", Ceil: "ceil",
	Deg: "deg", Rad: "rad",
}

func (f Func) String() string { return funcText[f] }

// funcNames maps identifiers to functions. log10 and log2 cannot be lexed as
// a single identifier; the parser joins "log" with an adjacent 10 or 2.
var funcNames = map[string]Func{
	"sin":   Sin,
	"cos":   Cos,
	"tan":   Tan,
	"ln":    Ln,
	"lg":    Log10,
	"sqrt":  Sqrt,
	"abs":   Abs,
	"round": Round,
	"floor": Floor,
	"ceil":  Ceil,
	"deg":   Deg,
	"rad":   Rad,
}

// Unit records the unit a numeric literal was written with.
type Unit int

const (
	UnitNone Unit = iota
	UnitSeconds
	UnitHertz
)

// Binary applies Op to two operands.
type Binary struct {
	Op    Op
	Left  Node
	Right Node
}

// Call applies a math function to one argument.
type Call struct {
	Func Func
	Arg  Node
}

// Var references a named constant or a generation context variable.
type Var struct {
	Name string
}

// Num is a numeric literal. Durations are stored in seconds and frequencies
// in Hz.
type Num struct {
	Value float64
	Unit  Unit
}

func (*Binary) node() {}
func (*Call) node()   {}
func (*Var) node()    {}
func (*Num) node()    {}

func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

func (c *Call) String() string { return c.Func.String() + "(" + c.Arg.String() + ")" }

func (v *Var) String() string { return v.Name }

func (n *Num) String() string {
	s := strconv.FormatFloat(n.Value, 'g', -1, 64)
	switch n.Unit {
	case UnitSeconds:
		s += "s"
	case UnitHertz:
		s += "hz"
	}
	return s
}

// Walk calls fn for n and every node below it, parents first.
func Walk(n Node, fn func(Node)) {
	fn(n)
	switch n := n.(type) {
	case *Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Call:
		Walk(n.Arg, fn)
	}
}

// IsConstant reports whether n can be evaluated without a generation
// context.
func IsConstant(n Node) bool {
	constant := true
	Walk(n, func(n Node) {
		if v, ok := n.(*Var); ok && isContextVar(v.Name) {
			constant = false
		}
	})
	return constant
}

// HasUnit reports whether n contains a literal written with unit u.
func HasUnit(n Node, u Unit) bool {
	found := false
	Walk(n, func(n Node) {
		if num, ok := n.(*Num); ok && num.Unit == u {
			found = true
		}
	})
	return found
}
