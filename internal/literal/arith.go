package literal

import (
	"errors"
	"math"

	"github.com/cockroachdb/apd/v3"
)

// ErrDivideByZero is returned by Divide for integer and decimal operands
// with a zero divisor. Double division follows IEEE 754 instead.
var errDivideByZero = errors.New("division by zero")

// IsDivideByZero reports whether err is the integer/decimal zero-divisor
// error.
func IsDivideByZero(err error) bool { return errors.Is(err, errDivideByZero) }

// Arithmetic over numeric literals.
//
// Every binary operation determines the promoted numeric kind first and
// dispatches to an integer, decimal or floating implementation. One
// deliberate deviation from naive promotion: integer divided by integer
// yields xsd:decimal, following the XPath F&O definition of op:numeric-
// divide.

// Add returns a + b.
func Add(a, b *Literal) (*Literal, error) {
	return binaryOp("add", a, b,
		func(x, y int64) (int64, bool) {
			r := x + y
			// Overflow promotes to decimal rather than wrapping.
			if (r > x) == (y > 0) {
				return r, true
			}
			return 0, false
		},
		func(ctx *apd.Context, r, x, y *apd.Decimal) (apd.Condition, error) {
			return ctx.Add(r, x, y)
		},
		func(x, y float64) float64 { return x + y })
}

// Subtract returns a - b.
func Subtract(a, b *Literal) (*Literal, error) {
	return binaryOp("subtract", a, b,
		func(x, y int64) (int64, bool) {
			r := x - y
			if (r < x) == (y > 0) {
				return r, true
			}
			return 0, false
		},
		func(ctx *apd.Context, r, x, y *apd.Decimal) (apd.Condition, error) {
			return ctx.Sub(r, x, y)
		},
		func(x, y float64) float64 { return x - y })
}

// Multiply returns a * b.
func Multiply(a, b *Literal) (*Literal, error) {
	return binaryOp("multiply", a, b,
		func(x, y int64) (int64, bool) {
			if x == 0 || y == 0 {
				return 0, true
			}
			r := x * y
			if r/y == x && !(x == -1 && y == math.MinInt64) && !(y == -1 && x == math.MinInt64) {
				return r, true
			}
			return 0, false
		},
		func(ctx *apd.Context, r, x, y *apd.Decimal) (apd.Condition, error) {
			return ctx.Mul(r, x, y)
		},
		func(x, y float64) float64 { return x * y })
}

// Divide returns a / b. Integer operands divide in decimal space; decimal
// division by zero is an error; double division by zero follows IEEE 754
// and yields an infinity or NaN literal.
func Divide(a, b *Literal) (*Literal, error) {
	kind, ok := Promote(a.kind, b.kind)
	if !ok {
		return nil, typeErr("divide", a, b)
	}
	if kind == KindInteger {
		kind = KindDecimal
	}
	switch kind {
	case KindDecimal:
		x, y := a.toDecimal(), b.toDecimal()
		if y.IsZero() {
			return nil, errDivideByZero
		}
		var r apd.Decimal
		if _, err := decimalCtx.Quo(&r, x, y); err != nil {
			return nil, err
		}
		return NewDecimal(&r), nil
	case KindFloat:
		return NewFloat(a.asDouble() / b.asDouble()), nil
	default:
		return NewDouble(a.asDouble() / b.asDouble()), nil
	}
}

func binaryOp(
	name string,
	a, b *Literal,
	intOp func(x, y int64) (int64, bool),
	decOp func(ctx *apd.Context, r, x, y *apd.Decimal) (apd.Condition, error),
	fltOp func(x, y float64) float64,
) (*Literal, error) {
	kind, ok := Promote(a.kind, b.kind)
	if !ok {
		return nil, typeErr(name, a, b)
	}
	switch kind {
	case KindInteger:
		if r, ok := intOp(a.integer, b.integer); ok {
			return NewInteger(r), nil
		}
		// Retry in decimal space on int64 overflow.
		kind = KindDecimal
		fallthrough
	case KindDecimal:
		var r apd.Decimal
		if _, err := decOp(decimalCtx, &r, a.toDecimal(), b.toDecimal()); err != nil {
			return nil, err
		}
		return NewDecimal(&r), nil
	case KindFloat:
		return NewFloat(fltOp(a.asDouble(), b.asDouble())), nil
	default:
		return NewDouble(fltOp(a.asDouble(), b.asDouble())), nil
	}
}

// Negate returns -a.
func Negate(a *Literal) (*Literal, error) {
	switch a.kind {
	case KindInteger:
		return NewInteger(-a.integer), nil
	case KindDecimal:
		var r apd.Decimal
		if _, err := decimalCtx.Neg(&r, a.decimal); err != nil {
			return nil, err
		}
		return NewDecimal(&r), nil
	case KindFloat:
		return NewFloat(-a.double), nil
	case KindDouble:
		return NewDouble(-a.double), nil
	default:
		return nil, unaryErr("negate", a)
	}
}

// Abs returns the absolute value of a.
func Abs(a *Literal) (*Literal, error) {
	switch a.kind {
	case KindInteger:
		if a.integer < 0 {
			return NewInteger(-a.integer), nil
		}
		return a, nil
	case KindDecimal:
		var r apd.Decimal
		if _, err := decimalCtx.Abs(&r, a.decimal); err != nil {
			return nil, err
		}
		return NewDecimal(&r), nil
	case KindFloat:
		return NewFloat(math.Abs(a.double)), nil
	case KindDouble:
		return NewDouble(math.Abs(a.double)), nil
	default:
		return nil, unaryErr("take absolute value of", a)
	}
}

// Round rounds half away from zero, per fn:round.
func Round(a *Literal) (*Literal, error) {
	return roundOp("round", a, math.Round, decimalRound)
}

// Ceil rounds toward positive infinity.
func Ceil(a *Literal) (*Literal, error) {
	return roundOp("ceil", a, math.Ceil, func(ctx *apd.Context, r, x *apd.Decimal) (apd.Condition, error) {
		return ctx.Ceil(r, x)
	})
}

// Floor rounds toward negative infinity.
func Floor(a *Literal) (*Literal, error) {
	return roundOp("floor", a, math.Floor, func(ctx *apd.Context, r, x *apd.Decimal) (apd.Condition, error) {
		return ctx.Floor(r, x)
	})
}

func decimalRound(ctx *apd.Context, r, x *apd.Decimal) (apd.Condition, error) {
	rounder := *ctx
	rounder.Rounding = apd.RoundHalfUp
	return rounder.RoundToIntegralValue(r, x)
}

func roundOp(
	name string,
	a *Literal,
	fltOp func(float64) float64,
	decOp func(ctx *apd.Context, r, x *apd.Decimal) (apd.Condition, error),
) (*Literal, error) {
	switch a.kind {
	case KindInteger:
		return a, nil
	case KindDecimal:
		var r apd.Decimal
		if _, err := decOp(decimalCtx, &r, a.decimal); err != nil {
			return nil, err
		}
		return NewDecimal(&r), nil
	case KindFloat:
		return NewFloat(fltOp(a.double)), nil
	case KindDouble:
		return NewDouble(fltOp(a.double)), nil
	default:
		return nil, unaryErr(name, a)
	}
}

func unaryErr(op string, a *Literal) error {
	return &TypeError{Op: op, A: a.kind, B: a.kind}
}

// toDecimal reads any numeric literal as an apd decimal, allocating a
// fresh value for non-decimal kinds so callers may use it as scratch.
func (l *Literal) toDecimal() *apd.Decimal {
	switch l.kind {
	case KindDecimal:
		return l.decimal
	case KindInteger:
		return apd.New(l.integer, 0)
	default:
		d, _, err := decimalCtx.NewFromString(formatFloat(l.double))
		if err != nil {
			return apd.New(0, 0)
		}
		return d
	}
}
