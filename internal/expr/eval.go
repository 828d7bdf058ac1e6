package expr

import (
	"errors"
	"fmt"
	"math"
)

// Evaluation errors.
var (
	ErrUnknownVariable = errors.New("unknown variable")
	ErrNoGenInfo       = errors.New("variable needs a generation context")
)

// UnknownVariableError reports a name that is neither a constant nor a
// context variable.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownVariable, e.Name)
}

func (e *UnknownVariableError) Unwrap() error { return ErrUnknownVariable }

// Context carries the per-sample state a source expression may read.
// T is time normalized to the scope of the expression being evaluated.
type Context struct {
	Channel int
	T       float64
}

// Eval evaluates n. ctx may be nil, in which case reading t or channel fails
// with ErrNoGenInfo. Division by zero follows IEEE 754.
func Eval(n Node, ctx *Context) (float64, error) {
	switch n := n.(type) {
	case *Num:
		return n.Value, nil
	case *Var:
		return lookup(n.Name, ctx)
	case *Binary:
		l, err := Eval(n.Left, ctx)
		if err != nil {
			return 0, err
		}
		r, err := Eval(n.Right, ctx)
		if err != nil {
			return 0, err
		}
		return n.Op.apply(l, r), nil
	case *Call:
		x, err := Eval(n.Arg, ctx)
		if err != nil {
			return 0, err
		}
		return n.Func.apply(x), nil
	default:
		return 0, fmt.Errorf("expr: unsupported node %T", n)
	}
}

func lookup(name string, ctx *Context) (float64, error) {
	if v, ok := constants[name]; ok {
		return v, nil
	}
	if !isContextVar(name) {
		return 0, &UnknownVariableError{Name: name}
	}
	if ctx == nil {
		return 0, fmt.Errorf("%w: %q", ErrNoGenInfo, name)
	}
	if name == varTime {
		return ctx.T, nil
	}
	return float64(ctx.Channel), nil
}

func (o Op) apply(l, r float64) float64 {
	switch o {
	case Add:
		return l + r
	case Sub:
		return l - r
	case Mul:
		return l * r
	case Div:
		return l / r
	case Mod:
		return math.Mod(l, r)
	case Pow:
		return math.Pow(l, r)
	default:
		return math.NaN()
	}
}

func (f Func) apply(x float64) float64 {
	switch f {
	case Sin:
		return math.Sin(x)
	case Cos:
		return math.Cos(x)
	case Tan:
		return math.Tan(x)
	case Ln:
		return math.Log(x)
	case Log10:
		return math.Log10(x)
	case Log2:
		return math.Log2(x)
	case Sqrt:
		return math.Sqrt(x)
	case Abs:
		return math.Abs(x)
	case Round:
		return math.Round(x)
	case Floor:
		return math.Floor(x)
	case Ceil:
		return math.Ceil(x)
	case Deg:
		return x * 180 / math.Pi
	case Rad:
		return x * math.Pi / 180
	default:
		return math.NaN()
	}
}

// EvalString parses and evaluates text in one step.
func EvalString(text string, ctx *Context) (float64, error) {
	n, err := ParseString(text)
	if err != nil {
		return 0, err
	}
	return Eval(n, ctx)
}
