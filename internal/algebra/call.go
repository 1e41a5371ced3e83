package algebra

import (
	"fmt"

	"github.com/roach88/sparq/internal/literal"
)

// CallOp names a built-in function.
type CallOp int

const (
	// OpBound tests whether a variable has a binding.
	OpBound CallOp = iota
	// OpStr returns the lexical form as a plain literal.
	OpStr
	// OpLang returns the language tag as a plain literal.
	OpLang
	// OpDatatype returns the datatype URI.
	OpDatatype
	// OpIsURI tests for a URI term.
	OpIsURI
	// OpIsBlank tests for a blank node.
	OpIsBlank
	// OpIsLiteral tests for a non-URI, non-blank term.
	OpIsLiteral
	// OpLangMatches tests a language tag against a language range.
	OpLangMatches
	// OpAbs is fn:abs.
	OpAbs
	// OpRound is fn:round.
	OpRound
	// OpCeil is fn:ceiling.
	OpCeil
	// OpFloor is fn:floor.
	OpFloor
)

var callNames = [...]string{
	"bound", "str", "lang", "datatype", "isURI", "isBlank", "isLiteral",
	"langMatches", "abs", "round", "ceil", "floor",
}

func (op CallOp) String() string { return callNames[op] }

// CallOpByName resolves a built-in function name, case-sensitively.
func CallOpByName(name string) (CallOp, bool) {
	for i, n := range callNames {
		if n == name {
			return CallOp(i), true
		}
	}
	return 0, false
}

// Call invokes a built-in function over its argument expressions.
//
// bound is special-cased: its argument must be a VarRef and is not
// evaluated, since evaluating an unbound variable is exactly the error
// bound exists to avoid.
type Call struct {
	Op   CallOp
	Args []Expr
}

func (*Call) exprNode() {}

func (e *Call) Eval(ec *EvalContext) (*literal.Literal, error) {
	if e.Op == OpBound {
		if len(e.Args) != 1 {
			return nil, fmt.Errorf("bound takes 1 argument, got %d", len(e.Args))
		}
		ref, ok := e.Args[0].(*VarRef)
		if !ok {
			return nil, fmt.Errorf("bound requires a variable argument")
		}
		return literal.NewBoolean(ref.Var.Value != nil), nil
	}

	if want := e.arity(); len(e.Args) != want {
		return nil, fmt.Errorf("%s takes %d argument(s), got %d", e.Op, want, len(e.Args))
	}
	arg, err := e.Args[0].Eval(ec)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case OpStr:
		switch arg.Kind() {
		case literal.KindBlank:
			return nil, &literal.TypeError{Op: "take str of", A: arg.Kind(), B: arg.Kind()}
		default:
			return literal.NewPlain(arg.Lexical(), ""), nil
		}
	case OpLang:
		if arg.Kind() == literal.KindURI || arg.Kind() == literal.KindBlank {
			return nil, &literal.TypeError{Op: "take lang of", A: arg.Kind(), B: arg.Kind()}
		}
		return literal.NewPlain(arg.Language(), ""), nil
	case OpDatatype:
		dt := arg.Datatype()
		if arg.Kind() == literal.KindURI || arg.Kind() == literal.KindBlank ||
			(dt == "" && arg.Language() != "") {
			return nil, &literal.TypeError{Op: "take datatype of", A: arg.Kind(), B: arg.Kind()}
		}
		if dt == "" {
			// Simple literals report xsd:string.
			dt = literal.XSDString
		}
		return literal.NewURI(dt), nil
	case OpIsURI:
		return literal.NewBoolean(arg.Kind() == literal.KindURI), nil
	case OpIsBlank:
		return literal.NewBoolean(arg.Kind() == literal.KindBlank), nil
	case OpIsLiteral:
		k := arg.Kind()
		return literal.NewBoolean(k != literal.KindURI && k != literal.KindBlank), nil
	case OpLangMatches:
		rng, err := e.Args[1].Eval(ec)
		if err != nil {
			return nil, err
		}
		return literal.NewBoolean(literal.LangMatches(arg.Lexical(), rng.Lexical())), nil
	case OpAbs:
		return literal.Abs(arg)
	case OpRound:
		return literal.Round(arg)
	case OpCeil:
		return literal.Ceil(arg)
	default:
		return literal.Floor(arg)
	}
}

func (e *Call) arity() int {
	if e.Op == OpLangMatches {
		return 2
	}
	return 1
}

func (e *Call) String() string {
	s := e.Op.String() + "("
	for i, a := range e.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}
