package algebra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparq/internal/literal"
	"github.com/roach88/sparq/internal/query"
)

func lit(i int64) Expr { return &Const{Value: literal.NewInteger(i)} }

func boundVar(t *testing.T, vt *query.VarTable, name string, v *literal.Literal) *query.Variable {
	t.Helper()
	variable, err := vt.Add(query.VarNormal, name)
	require.NoError(t, err)
	variable.Value = v
	return variable
}

func TestCmp_Numeric(t *testing.T) {
	ec := NewEvalContext()
	testCases := []struct {
		name string
		expr Expr
		want bool
	}{
		{"eq", &Cmp{Op: OpEQ, Left: lit(5), Right: lit(5)}, true},
		{"ne", &Cmp{Op: OpNE, Left: lit(5), Right: lit(6)}, true},
		{"lt", &Cmp{Op: OpLT, Left: lit(5), Right: lit(6)}, true},
		{"ge false", &Cmp{Op: OpGE, Left: lit(5), Right: lit(6)}, false},
		{"le equal", &Cmp{Op: OpLE, Left: lit(5), Right: lit(5)}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := tc.expr.Eval(ec)
			require.NoError(t, err)
			assert.Equal(t, tc.want, v.Boolean())
		})
	}
}

func TestCmp_CrossKindValueEquality(t *testing.T) {
	dec, err := literal.NewDecimalString("5.0")
	require.NoError(t, err)

	e := &Cmp{Op: OpEQ, Left: lit(5), Right: &Const{Value: dec}}
	v, err := e.Eval(NewEvalContext())
	require.NoError(t, err)
	assert.True(t, v.Boolean())
}

func TestVarRef_Unbound(t *testing.T) {
	vt := query.NewVarTable()
	v, _ := vt.Add(query.VarNormal, "x")

	_, err := (&VarRef{Var: v}).Eval(NewEvalContext())
	assert.ErrorIs(t, err, ErrUnbound)
}

func TestLogic_ErrorAbsorption(t *testing.T) {
	vt := query.NewVarTable()
	unbound, _ := vt.Add(query.VarNormal, "u")
	errExpr := &VarRef{Var: unbound}
	trueExpr := &Const{Value: literal.NewBoolean(true)}
	falseExpr := &Const{Value: literal.NewBoolean(false)}
	ec := NewEvalContext()

	// true || error = true
	v, err := (&Logic{Op: OpOr, Left: trueExpr, Right: errExpr}).Eval(ec)
	require.NoError(t, err)
	assert.True(t, v.Boolean())

	// error || true = true (order independent)
	v, err = (&Logic{Op: OpOr, Left: errExpr, Right: trueExpr}).Eval(ec)
	require.NoError(t, err)
	assert.True(t, v.Boolean())

	// false && error = false
	v, err = (&Logic{Op: OpAnd, Left: falseExpr, Right: errExpr}).Eval(ec)
	require.NoError(t, err)
	assert.False(t, v.Boolean())

	// false || error = error
	_, err = (&Logic{Op: OpOr, Left: falseExpr, Right: errExpr}).Eval(ec)
	assert.Error(t, err)

	// true && error = error
	_, err = (&Logic{Op: OpAnd, Left: trueExpr, Right: errExpr}).Eval(ec)
	assert.Error(t, err)

	// ! inverts
	v, err = (&Logic{Op: OpNot, Left: falseExpr}).Eval(ec)
	require.NoError(t, err)
	assert.True(t, v.Boolean())
}

func TestArith(t *testing.T) {
	ec := NewEvalContext()

	v, err := (&Arith{Op: OpAdd, Left: lit(2), Right: lit(3)}).Eval(ec)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.Integer())

	v, err = (&Arith{Op: OpDiv, Left: lit(5), Right: lit(2)}).Eval(ec)
	require.NoError(t, err)
	assert.Equal(t, literal.KindDecimal, v.Kind())

	v, err = (&Arith{Op: OpNeg, Left: lit(7)}).Eval(ec)
	require.NoError(t, err)
	assert.Equal(t, int64(-7), v.Integer())
}

func TestCall_Bound(t *testing.T) {
	vt := query.NewVarTable()
	b := boundVar(t, vt, "b", literal.NewInteger(1))
	u, _ := vt.Add(query.VarNormal, "u")
	ec := NewEvalContext()

	v, err := (&Call{Op: OpBound, Args: []Expr{&VarRef{Var: b}}}).Eval(ec)
	require.NoError(t, err)
	assert.True(t, v.Boolean())

	// bound does not evaluate its argument, so no unbound error here.
	v, err = (&Call{Op: OpBound, Args: []Expr{&VarRef{Var: u}}}).Eval(ec)
	require.NoError(t, err)
	assert.False(t, v.Boolean())
}

func TestCall_TermPredicates(t *testing.T) {
	ec := NewEvalContext()
	u := &Const{Value: literal.NewURI("http://example.org/x")}
	b := &Const{Value: literal.NewBlank("b")}
	l := &Const{Value: literal.NewString("s")}

	for _, tc := range []struct {
		op   CallOp
		arg  Expr
		want bool
	}{
		{OpIsURI, u, true},
		{OpIsURI, l, false},
		{OpIsBlank, b, true},
		{OpIsLiteral, l, true},
		{OpIsLiteral, u, false},
	} {
		v, err := (&Call{Op: tc.op, Args: []Expr{tc.arg}}).Eval(ec)
		require.NoError(t, err)
		assert.Equal(t, tc.want, v.Boolean(), "%s", tc.op)
	}
}

func TestCall_StrLangDatatype(t *testing.T) {
	ec := NewEvalContext()

	v, err := (&Call{Op: OpStr, Args: []Expr{&Const{Value: literal.NewURI("http://e/x")}}}).Eval(ec)
	require.NoError(t, err)
	assert.Equal(t, "http://e/x", v.Lexical())

	v, err = (&Call{Op: OpLang, Args: []Expr{&Const{Value: literal.NewPlain("chat", "fr")}}}).Eval(ec)
	require.NoError(t, err)
	assert.Equal(t, "fr", v.Lexical())

	v, err = (&Call{Op: OpDatatype, Args: []Expr{lit(5)}}).Eval(ec)
	require.NoError(t, err)
	assert.Equal(t, literal.XSDInteger, v.Lexical())

	v, err = (&Call{Op: OpDatatype, Args: []Expr{&Const{Value: literal.NewPlain("x", "")}}}).Eval(ec)
	require.NoError(t, err)
	assert.Equal(t, literal.XSDString, v.Lexical(), "simple literal reports xsd:string")

	_, err = (&Call{Op: OpStr, Args: []Expr{&Const{Value: literal.NewBlank("b")}}}).Eval(ec)
	assert.Error(t, err, "str of a blank node")
}

func TestCall_LangMatches(t *testing.T) {
	ec := NewEvalContext()
	mk := func(tag, rng string) *Call {
		return &Call{Op: OpLangMatches, Args: []Expr{
			&Const{Value: literal.NewPlain(tag, "")},
			&Const{Value: literal.NewPlain(rng, "")},
		}}
	}

	v, err := mk("en-us", "en").Eval(ec)
	require.NoError(t, err)
	assert.True(t, v.Boolean())

	v, err = mk("fr", "en").Eval(ec)
	require.NoError(t, err)
	assert.False(t, v.Boolean())

	v, err = mk("fr", "*").Eval(ec)
	require.NoError(t, err)
	assert.True(t, v.Boolean())
}

func TestEvalEBV_ErrorReadsAsFalse(t *testing.T) {
	vt := query.NewVarTable()
	u, _ := vt.Add(query.VarNormal, "u")
	ec := NewEvalContext()

	assert.False(t, EvalEBV(&VarRef{Var: u}, ec))
	assert.True(t, EvalEBV(&Const{Value: literal.NewInteger(1)}, ec))
	assert.False(t, EvalEBV(&Const{Value: literal.NewURI("http://e/x")}, ec),
		"EBV type error reads as false at the filter boundary")
}

func TestCastExpr(t *testing.T) {
	ec := NewEvalContext()
	e := &CastExpr{Datatype: literal.XSDInteger, Inner: &Const{Value: literal.NewString("12")}}
	v, err := e.Eval(ec)
	require.NoError(t, err)
	assert.Equal(t, int64(12), v.Integer())

	bad := &CastExpr{Datatype: literal.XSDDate, Inner: lit(5)}
	_, err = bad.Eval(ec)
	assert.Error(t, err)
}
