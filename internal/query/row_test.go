package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparq/internal/literal"
)

func TestRow_SetAndGet(t *testing.T) {
	vt := NewVarTable()
	s, _ := vt.Add(VarNormal, "s")
	o, _ := vt.Add(VarNormal, "o")

	row := NewRow(vt)
	require.Len(t, row.Values, 2)
	assert.Nil(t, row.Value(s.Offset))

	lit := literal.NewURI("http://example.org/a")
	row.SetValue(s.Offset, lit)
	assert.Same(t, lit, row.Value(s.Offset))
	assert.Nil(t, row.Value(o.Offset))
	assert.Nil(t, row.Value(99), "out-of-range reads as unbound")
}

func TestRow_BindVariables(t *testing.T) {
	vt := NewVarTable()
	s, _ := vt.Add(VarNormal, "s")
	o, _ := vt.Add(VarNormal, "o")

	row := NewRow(vt)
	lit := literal.NewInteger(5)
	row.SetValue(o.Offset, lit)

	row.BindVariables(vt)
	assert.Nil(t, s.Value)
	assert.Same(t, lit, o.Value)
}

func TestRow_Copy(t *testing.T) {
	vt := NewVarTable()
	vt.Add(VarNormal, "s")
	row := NewRow(vt)
	row.SetValue(0, literal.NewInteger(1))
	row.OrderValues = []*literal.Literal{literal.NewInteger(2)}
	row.GroupID = 3
	row.Offset = 4

	cp := row.Copy()
	cp.SetValue(0, literal.NewInteger(9))

	assert.Equal(t, int64(1), row.Value(0).Integer(), "copy does not alias slots")
	assert.Equal(t, 3, cp.GroupID)
	assert.Equal(t, 4, cp.Offset)
	require.Len(t, cp.OrderValues, 1)
}

func TestCompareValues_UnboundFirst(t *testing.T) {
	bound := literal.NewInteger(1)

	assert.Equal(t, 0, CompareValues(nil, nil, literal.CompareXQuery))
	assert.Equal(t, -1, CompareValues(nil, bound, literal.CompareXQuery))
	assert.Equal(t, 1, CompareValues(bound, nil, literal.CompareXQuery))
}

func TestCompareValues_TypeErrorReadsAsEqual(t *testing.T) {
	a := literal.NewTyped("x", "http://example.org/t1")
	b := literal.NewTyped("y", "http://example.org/t2")

	// Documented legacy fallback: an incomparable pair ties.
	assert.Equal(t, 0, CompareValues(a, b, literal.CompareXQuery))
}

func TestCompareSequences(t *testing.T) {
	one := literal.NewInteger(1)
	two := literal.NewInteger(2)

	assert.Equal(t, 0, CompareSequences(
		[]*literal.Literal{one, two},
		[]*literal.Literal{one, two},
		literal.CompareXQuery))

	assert.Negative(t, CompareSequences(
		[]*literal.Literal{one, one},
		[]*literal.Literal{one, two},
		literal.CompareXQuery))

	assert.Negative(t, CompareSequences(
		[]*literal.Literal{one},
		[]*literal.Literal{one, two},
		literal.CompareXQuery), "shorter sequence first on tie")

	assert.Positive(t, CompareSequences(
		[]*literal.Literal{two},
		[]*literal.Literal{nil},
		literal.CompareXQuery), "unbound before bound")
}

func TestEqualSequences(t *testing.T) {
	one := literal.NewInteger(1)
	dec, err := literal.NewDecimalString("1.0")
	require.NoError(t, err)

	assert.True(t, EqualSequences(
		[]*literal.Literal{one, nil},
		[]*literal.Literal{dec, nil},
		literal.CompareXQuery), "numeric value equality across kinds")

	assert.False(t, EqualSequences(
		[]*literal.Literal{one},
		[]*literal.Literal{nil},
		literal.CompareXQuery))

	assert.False(t, EqualSequences(
		[]*literal.Literal{one},
		[]*literal.Literal{one, one},
		literal.CompareXQuery), "length mismatch")
}
