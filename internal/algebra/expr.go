package algebra

import (
	"errors"
	"fmt"

	"github.com/roach88/sparq/internal/literal"
	"github.com/roach88/sparq/internal/query"
)

// Expr is an expression evaluated against the current row's variable
// bindings.
//
// This is a sealed interface - only types in this package implement it.
// Evaluation returns a literal or an error; SPARQL's error-as-false
// convention for FILTER is applied by the caller (EvalEBV), not inside
// the expressions themselves.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
	Eval(ec *EvalContext) (*literal.Literal, error)
	String() string
}

// EvalContext carries evaluation settings. Variables resolve through
// their own current Value fields, so the context stays small.
type EvalContext struct {
	// Flags selects the comparison regime; zero means the legacy RDQL
	// regime, which nothing in the engine uses by default.
	Flags literal.CompareFlags
}

// NewEvalContext returns a context using XQuery comparison semantics,
// the regime SPARQL expression evaluation requires.
func NewEvalContext() *EvalContext {
	return &EvalContext{Flags: literal.CompareXQuery}
}

// ErrUnbound is returned when an expression reads a variable with no
// current binding.
var ErrUnbound = errors.New("unbound variable in expression")

// VarRef reads a variable's current binding.
type VarRef struct {
	Var *query.Variable
}

func (*VarRef) exprNode() {}

func (e *VarRef) Eval(*EvalContext) (*literal.Literal, error) {
	if e.Var.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnbound, e.Var)
	}
	return e.Var.Value, nil
}

func (e *VarRef) String() string { return e.Var.String() }

// Const is a literal constant.
type Const struct {
	Value *literal.Literal
}

func (*Const) exprNode() {}

func (e *Const) Eval(*EvalContext) (*literal.Literal, error) { return e.Value, nil }

func (e *Const) String() string { return e.Value.String() }

// CmpOp is a comparison operator.
type CmpOp int

const (
	// OpEQ is =.
	OpEQ CmpOp = iota
	// OpNE is !=.
	OpNE
	// OpLT is <.
	OpLT
	// OpGT is >.
	OpGT
	// OpLE is <=.
	OpLE
	// OpGE is >=.
	OpGE
)

func (op CmpOp) String() string {
	return [...]string{"=", "!=", "<", ">", "<=", ">="}[op]
}

// Cmp compares two sub-expressions. Equality operators use RDF value
// equality; ordering operators use the XQuery comparison regime.
type Cmp struct {
	Op          CmpOp
	Left, Right Expr
}

func (*Cmp) exprNode() {}

func (e *Cmp) Eval(ec *EvalContext) (*literal.Literal, error) {
	l, err := e.Left.Eval(ec)
	if err != nil {
		return nil, err
	}
	r, err := e.Right.Eval(ec)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case OpEQ, OpNE:
		eq, err := literal.Equals(l, r, ec.Flags)
		if err != nil {
			return nil, err
		}
		return literal.NewBoolean(eq == (e.Op == OpEQ)), nil
	default:
		c, err := literal.Compare(l, r, ec.Flags)
		if err != nil {
			return nil, err
		}
		var out bool
		switch e.Op {
		case OpLT:
			out = c < 0
		case OpGT:
			out = c > 0
		case OpLE:
			out = c <= 0
		default:
			out = c >= 0
		}
		return literal.NewBoolean(out), nil
	}
}

func (e *Cmp) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

// LogicOp is a boolean connective.
type LogicOp int

const (
	// OpAnd is &&.
	OpAnd LogicOp = iota
	// OpOr is ||.
	OpOr
	// OpNot is !.
	OpNot
)

// Logic applies SPARQL's three-valued boolean connectives: a definite
// true on one side of || (or false on one side of &&) absorbs an error
// on the other side.
type Logic struct {
	Op          LogicOp
	Left, Right Expr // Right is nil for OpNot
}

func (*Logic) exprNode() {}

func (e *Logic) Eval(ec *EvalContext) (*literal.Literal, error) {
	lv, lerr := evalEBVExpr(e.Left, ec)
	if e.Op == OpNot {
		if lerr != nil {
			return nil, lerr
		}
		return literal.NewBoolean(!lv), nil
	}
	rv, rerr := evalEBVExpr(e.Right, ec)
	switch e.Op {
	case OpOr:
		if lerr == nil && lv || rerr == nil && rv {
			return literal.NewBoolean(true), nil
		}
		if lerr != nil {
			return nil, lerr
		}
		if rerr != nil {
			return nil, rerr
		}
		return literal.NewBoolean(false), nil
	default: // OpAnd
		if lerr == nil && !lv || rerr == nil && !rv {
			return literal.NewBoolean(false), nil
		}
		if lerr != nil {
			return nil, lerr
		}
		if rerr != nil {
			return nil, rerr
		}
		return literal.NewBoolean(true), nil
	}
}

func (e *Logic) String() string {
	switch e.Op {
	case OpNot:
		return fmt.Sprintf("(! %s)", e.Left)
	case OpOr:
		return fmt.Sprintf("(%s || %s)", e.Left, e.Right)
	default:
		return fmt.Sprintf("(%s && %s)", e.Left, e.Right)
	}
}

func evalEBVExpr(e Expr, ec *EvalContext) (bool, error) {
	v, err := e.Eval(ec)
	if err != nil {
		return false, err
	}
	return literal.EBV(v)
}

// ArithOp is an arithmetic operator.
type ArithOp int

const (
	// OpAdd is +.
	OpAdd ArithOp = iota
	// OpSub is binary -.
	OpSub
	// OpMul is *.
	OpMul
	// OpDiv is /.
	OpDiv
	// OpNeg is unary -.
	OpNeg
)

func (op ArithOp) String() string {
	return [...]string{"+", "-", "*", "/", "neg"}[op]
}

// Arith applies numeric arithmetic with XSD type promotion.
type Arith struct {
	Op          ArithOp
	Left, Right Expr // Right is nil for OpNeg
}

func (*Arith) exprNode() {}

func (e *Arith) Eval(ec *EvalContext) (*literal.Literal, error) {
	l, err := e.Left.Eval(ec)
	if err != nil {
		return nil, err
	}
	if e.Op == OpNeg {
		return literal.Negate(l)
	}
	r, err := e.Right.Eval(ec)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case OpAdd:
		return literal.Add(l, r)
	case OpSub:
		return literal.Subtract(l, r)
	case OpMul:
		return literal.Multiply(l, r)
	default:
		return literal.Divide(l, r)
	}
}

func (e *Arith) String() string {
	if e.Op == OpNeg {
		return fmt.Sprintf("(- %s)", e.Left)
	}
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

// CastExpr converts its operand to a target datatype under the cast
// allow-list.
type CastExpr struct {
	Datatype string
	Inner    Expr
}

func (*CastExpr) exprNode() {}

func (e *CastExpr) Eval(ec *EvalContext) (*literal.Literal, error) {
	v, err := e.Inner.Eval(ec)
	if err != nil {
		return nil, err
	}
	return literal.Cast(v, e.Datatype)
}

func (e *CastExpr) String() string {
	return fmt.Sprintf("<%s>(%s)", e.Datatype, e.Inner)
}

// EvalEBV evaluates an expression as a filter condition: the effective
// boolean value of the result, with any evaluation error read as false
// per SPARQL's FILTER error convention.
func EvalEBV(e Expr, ec *EvalContext) bool {
	v, err := e.Eval(ec)
	if err != nil {
		return false
	}
	b, err := literal.EBV(v)
	if err != nil {
		return false
	}
	return b
}
