package literal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEBV(t *testing.T) {
	testCases := []struct {
		name string
		lit  *Literal
		want bool
	}{
		{"true boolean", NewBoolean(true), true},
		{"false boolean", NewBoolean(false), false},
		{"empty plain", NewPlain("", ""), false},
		{"non-empty plain", NewPlain("x", ""), true},
		{"empty xsd:string", NewString(""), false},
		{"zero integer", NewInteger(0), false},
		{"non-zero integer", NewInteger(-1), true},
		{"zero double", NewDouble(0), false},
		{"NaN double", NewDouble(math.NaN()), false},
		{"infinity", NewDouble(math.Inf(1)), true},
		{"non-zero float", NewFloat(0.5), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EBV(tc.lit)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEBV_Decimal(t *testing.T) {
	zero := mustDecimal(t, "0.00")
	got, err := EBV(zero)
	require.NoError(t, err)
	assert.False(t, got)

	nonZero := mustDecimal(t, "0.001")
	got, err = EBV(nonZero)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestEBV_TypeErrors(t *testing.T) {
	for _, l := range []*Literal{
		NewURI("http://example.org/x"),
		NewBlank("b"),
		NewTyped("v", "http://example.org/udt"),
		NewTyped("2024-03-01", XSDDate),
	} {
		_, err := EBV(l)
		var te *TypeError
		assert.ErrorAs(t, err, &te, "EBV of %s", l)
	}
}
