package literal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTyped_ValidForms(t *testing.T) {
	testCases := []struct {
		name     string
		lexical  string
		datatype string
		wantKind Kind
	}{
		{"integer", "42", XSDInteger, KindInteger},
		{"negative integer", "-7", XSDInteger, KindInteger},
		{"int subtype", "1000", XSDInt, KindInteger},
		{"boolean true", "true", XSDBoolean, KindBoolean},
		{"boolean numeric form", "1", XSDBoolean, KindBoolean},
		{"decimal", "3.14", XSDDecimal, KindDecimal},
		{"double", "1.5e3", XSDDouble, KindDouble},
		{"float", "2.5", XSDFloat, KindFloat},
		{"string", "hello", XSDString, KindXSDString},
		{"date", "2024-03-01", XSDDate, KindDate},
		{"dateTime", "2024-03-01T12:00:00Z", XSDDateTime, KindDateTime},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewTyped(tc.lexical, tc.datatype)
			assert.Equal(t, tc.wantKind, l.Kind())
		})
	}
}

func TestNewTyped_MalformedRetypesToUDT(t *testing.T) {
	testCases := []struct {
		name     string
		lexical  string
		datatype string
	}{
		{"non-numeric integer", "abc", XSDInteger},
		{"bad boolean", "yes", XSDBoolean},
		{"bad date", "March 1st", XSDDate},
		{"subtype out of range", "300", XSDByte},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewTyped(tc.lexical, tc.datatype)
			// Malformed typed literals degrade to an opaque term, not an error.
			assert.Equal(t, KindUDT, l.Kind())
			assert.Equal(t, tc.lexical, l.Lexical())
			assert.Equal(t, tc.datatype, l.Datatype())
		})
	}
}

func TestNewTyped_IntegerOverflowRetypesToDecimal(t *testing.T) {
	l := NewTyped("9223372036854775808", XSDInteger)
	require.Equal(t, KindDecimal, l.Kind())
	assert.Equal(t, "9223372036854775808", l.Lexical())
}

func TestNewTyped_UnknownDatatypeIsUDT(t *testing.T) {
	l := NewTyped("POINT(1 2)", "http://example.org/geo#wkt")
	assert.Equal(t, KindUDT, l.Kind())
	assert.Equal(t, "http://example.org/geo#wkt", l.Datatype())
}

func TestParseTerm_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		term string
	}{
		{"uri", "<http://example.org/s>"},
		{"blank", "_:b1"},
		{"plain", `"chat"`},
		{"language tagged", `"chat"@fr`},
		{"typed string", `"hello"^^<http://www.w3.org/2001/XMLSchema#string>`},
		{"escaped quote", `"say \"hi\""`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := ParseTerm(tc.term)
			require.NoError(t, err)

			reparsed, err := ParseTerm(l.String())
			require.NoError(t, err)

			assert.Equal(t, l.Kind(), reparsed.Kind())
			assert.Equal(t, l.Lexical(), reparsed.Lexical())
			assert.Equal(t, l.Language(), reparsed.Language())
			assert.Equal(t, l.Datatype(), reparsed.Datatype())
		})
	}
}

func TestParseTerm_BareForms(t *testing.T) {
	i, err := ParseTerm("42")
	require.NoError(t, err)
	assert.Equal(t, KindInteger, i.Kind())

	d, err := ParseTerm("3.5")
	require.NoError(t, err)
	assert.Equal(t, KindDecimal, d.Kind())

	b, err := ParseTerm("true")
	require.NoError(t, err)
	assert.Equal(t, KindBoolean, b.Kind())

	f, err := ParseTerm("1.5e2")
	require.NoError(t, err)
	assert.Equal(t, KindDouble, f.Kind())
}

func TestParseTerm_PrefixedDatatype(t *testing.T) {
	l, err := ParseTerm(`"5"^^xsd:integer`)
	require.NoError(t, err)
	assert.Equal(t, KindInteger, l.Kind())
	assert.Equal(t, int64(5), l.Integer())
}

func TestParseTerm_Errors(t *testing.T) {
	for _, bad := range []string{"", `"unterminated`, "not a term", `"x"^^`} {
		_, err := ParseTerm(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestNewPlain_LanguageCanonicalized(t *testing.T) {
	l := NewPlain("hello", "EN-us")
	assert.Equal(t, "en-us", l.Language())
}

func TestAsNode_RoundTripsThroughSyntax(t *testing.T) {
	for _, l := range []*Literal{
		NewURI("http://example.org/x"),
		NewBlank("b0"),
		NewString("s"),
		NewPlain("p", "en"),
		NewInteger(5),
	} {
		node := l.AsNode()
		reparsed, err := ParseTerm(node.String())
		require.NoError(t, err)
		assert.Equal(t, node.Kind(), reparsed.Kind())
		assert.Equal(t, node.Lexical(), reparsed.Lexical())
		assert.Equal(t, node.Language(), reparsed.Language())
		assert.Equal(t, node.Datatype(), reparsed.Datatype())
	}
}
