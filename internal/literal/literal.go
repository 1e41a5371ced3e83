// Package literal implements the typed RDF term value system used by the
// query engine: construction and validation of XSD-typed literals,
// comparison and equality under the RDF / XQuery / legacy RDQL regimes,
// numeric type promotion, casting, effective boolean value, and arithmetic.
//
// Literals are immutable once constructed. The one exception is baked into
// construction itself: a lexical form that fails validation against its
// declared datatype is retyped to a user-defined-type literal, and an
// integer lexical that overflows int64 is retyped to a decimal. Neither
// transition can happen after the constructor returns.
package literal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Kind tags the value variant held by a Literal.
type Kind int

const (
	// KindUnknown is the zero value and never appears on a valid literal.
	KindUnknown Kind = iota

	// KindURI is an IRI reference term.
	KindURI

	// KindBlank is a blank node with a local label.
	KindBlank

	// KindPlain is an untyped literal, optionally language-tagged.
	KindPlain

	// KindXSDString is a literal typed xsd:string.
	KindXSDString

	// KindBoolean is a literal typed xsd:boolean.
	KindBoolean

	// KindInteger covers xsd:integer and its derived subtypes
	// (int, long, short, byte and the unsigned/non-negative family).
	// The original subtype survives in the Datatype field.
	KindInteger

	// KindFloat is a literal typed xsd:float.
	KindFloat

	// KindDouble is a literal typed xsd:double.
	KindDouble

	// KindDecimal is a literal typed xsd:decimal.
	KindDecimal

	// KindDate is a literal typed xsd:date.
	KindDate

	// KindDateTime is a literal typed xsd:dateTime.
	KindDateTime

	// KindUDT is a literal with a datatype the engine does not know.
	// Also the retype target for malformed typed lexical forms.
	KindUDT
)

// String returns the kind name used in error messages and explain output.
func (k Kind) String() string {
	switch k {
	case KindURI:
		return "uri"
	case KindBlank:
		return "blank"
	case KindPlain:
		return "plain"
	case KindXSDString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindDecimal:
		return "decimal"
	case KindDate:
		return "date"
	case KindDateTime:
		return "dateTime"
	case KindUDT:
		return "udt"
	default:
		return "unknown"
	}
}

// Literal is an immutable RDF term.
//
// Exactly one of the native value fields is authoritative for a given kind;
// lexical always carries the canonical lexical form once construction
// finishes. Plain literals may carry a language tag; typed literals carry a
// datatype URI.
type Literal struct {
	kind     Kind
	lexical  string
	language string
	datatype string

	integer int64
	double  float64
	decimal *apd.Decimal
	boolean bool
	when    time.Time
	hasTZ   bool
}

// Kind returns the value variant tag.
func (l *Literal) Kind() Kind { return l.kind }

// Lexical returns the canonical lexical form. For URIs this is the IRI
// string, for blank nodes the local label.
func (l *Literal) Lexical() string { return l.lexical }

// Language returns the language tag of a plain literal, or "".
func (l *Literal) Language() string { return l.language }

// Datatype returns the datatype URI, or "" for plain literals, URIs and
// blank nodes.
func (l *Literal) Datatype() string { return l.datatype }

// Integer returns the native integer value. Valid only for KindInteger.
func (l *Literal) Integer() int64 { return l.integer }

// Double returns the native floating value. Valid for KindFloat and
// KindDouble.
func (l *Literal) Double() float64 { return l.double }

// Decimal returns the native decimal value. Valid only for KindDecimal.
// Callers must not mutate the returned value.
func (l *Literal) Decimal() *apd.Decimal { return l.decimal }

// Boolean returns the native boolean value. Valid only for KindBoolean.
func (l *Literal) Boolean() bool { return l.boolean }

// Time returns the native temporal value in UTC-normalized form.
// Valid for KindDate and KindDateTime.
func (l *Literal) Time() time.Time { return l.when }

// HasTimezone reports whether the temporal lexical form carried an
// explicit timezone. Timezone-less temporals compare as if UTC.
func (l *Literal) HasTimezone() bool { return l.hasTZ }

// IsNumeric reports whether the literal participates in numeric promotion.
func (l *Literal) IsNumeric() bool {
	switch l.kind {
	case KindInteger, KindFloat, KindDouble, KindDecimal:
		return true
	}
	return false
}

// IsString reports whether the literal is in the string value space: a
// plain literal or an xsd:string.
func (l *Literal) IsString() bool {
	return l.kind == KindPlain || l.kind == KindXSDString
}

// NewURI constructs an IRI term.
func NewURI(uri string) *Literal {
	return &Literal{kind: KindURI, lexical: uri}
}

// NewBlank constructs a blank node term with the given local label.
func NewBlank(label string) *Literal {
	return &Literal{kind: KindBlank, lexical: label}
}

// NewPlain constructs an untyped literal. The lexical form is normalized to
// NFC; a non-empty language tag is canonicalized via BCP 47 parsing and
// lowercased as-is when it does not parse (tags are carried, not enforced).
func NewPlain(lexical, lang string) *Literal {
	l := &Literal{kind: KindPlain, lexical: norm.NFC.String(lexical)}
	if lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			l.language = strings.ToLower(tag.String())
		} else {
			l.language = strings.ToLower(lang)
		}
	}
	return l
}

// NewString constructs an xsd:string literal.
func NewString(s string) *Literal {
	return &Literal{kind: KindXSDString, lexical: norm.NFC.String(s), datatype: XSDString}
}

// NewBoolean constructs an xsd:boolean literal.
func NewBoolean(b bool) *Literal {
	lex := "false"
	if b {
		lex = "true"
	}
	return &Literal{kind: KindBoolean, lexical: lex, datatype: XSDBoolean, boolean: b}
}

// NewInteger constructs an xsd:integer literal.
func NewInteger(i int64) *Literal {
	return &Literal{
		kind:     KindInteger,
		lexical:  strconv.FormatInt(i, 10),
		datatype: XSDInteger,
		integer:  i,
	}
}

// NewDouble constructs an xsd:double literal.
func NewDouble(f float64) *Literal {
	return &Literal{
		kind:     KindDouble,
		lexical:  formatFloat(f),
		datatype: XSDDouble,
		double:   f,
	}
}

// NewFloat constructs an xsd:float literal. The native value is held as a
// float64 but round-tripped through float32 to match xsd:float's value
// space.
func NewFloat(f float64) *Literal {
	f = float64(float32(f))
	return &Literal{
		kind:     KindFloat,
		lexical:  formatFloat(f),
		datatype: XSDFloat,
		double:   f,
	}
}

// NewDecimal constructs an xsd:decimal literal from an apd value.
// The decimal is not copied; callers hand over ownership.
func NewDecimal(d *apd.Decimal) *Literal {
	return &Literal{
		kind:     KindDecimal,
		lexical:  d.Text('f'),
		datatype: XSDDecimal,
		decimal:  d,
	}
}

// NewDecimalString constructs an xsd:decimal literal from a lexical form.
func NewDecimalString(s string) (*Literal, error) {
	d, cond, err := decimalCtx.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid xsd:decimal %q: %w", s, err)
	}
	if cond.Any() {
		return nil, fmt.Errorf("invalid xsd:decimal %q: %s", s, cond.String())
	}
	return NewDecimal(d), nil
}

// NewDateTime constructs an xsd:dateTime literal from a time value.
func NewDateTime(t time.Time, hasTZ bool) *Literal {
	t = t.UTC()
	return &Literal{
		kind:     KindDateTime,
		lexical:  formatDateTime(t, hasTZ),
		datatype: XSDDateTime,
		when:     t,
		hasTZ:    hasTZ,
	}
}

// NewDate constructs an xsd:date literal from a time value. The time
// component is truncated.
func NewDate(t time.Time, hasTZ bool) *Literal {
	t = t.UTC().Truncate(24 * time.Hour)
	return &Literal{
		kind:     KindDate,
		lexical:  formatDate(t, hasTZ),
		datatype: XSDDate,
		when:     t,
		hasTZ:    hasTZ,
	}
}

// NewTyped constructs a literal from a lexical form and a datatype URI,
// validating the lexical form against the datatype.
//
// A lexical form that fails validation does not produce an error: the
// literal is retyped to a user-defined-type literal carrying the original
// lexical form and datatype. Malformed data degrades to an opaque term
// instead of aborting query execution. An integer lexical that overflows
// int64 retypes to xsd:decimal.
func NewTyped(lexical, datatype string) *Literal {
	switch datatype {
	case "":
		return NewPlain(lexical, "")
	case XSDString:
		return NewString(lexical)
	case XSDBoolean:
		switch strings.TrimSpace(lexical) {
		case "true", "1":
			return NewBoolean(true)
		case "false", "0":
			return NewBoolean(false)
		}
	case XSDFloat:
		if f, err := strconv.ParseFloat(strings.TrimSpace(lexical), 64); err == nil {
			return NewFloat(f)
		}
	case XSDDouble:
		if f, err := strconv.ParseFloat(strings.TrimSpace(lexical), 64); err == nil {
			return NewDouble(f)
		}
	case XSDDecimal:
		if l, err := NewDecimalString(lexical); err == nil {
			return l
		}
	case XSDDate:
		if t, hasTZ, err := parseDate(strings.TrimSpace(lexical)); err == nil {
			return NewDate(t, hasTZ)
		}
	case XSDDateTime:
		if t, hasTZ, err := parseDateTime(strings.TrimSpace(lexical)); err == nil {
			return NewDateTime(t, hasTZ)
		}
	default:
		if IsIntegerDatatype(datatype) {
			trimmed := strings.TrimSpace(lexical)
			if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil && integerInRange(datatype, i) {
				l := NewInteger(i)
				l.datatype = datatype
				return l
			}
			// Overflow of xsd:integer itself retypes to decimal; the
			// bounded subtypes fall through to UDT like any other
			// validation failure.
			if datatype == XSDInteger {
				if l, err := NewDecimalString(trimmed); err == nil {
					return l
				}
			}
			break
		}
		// A datatype the engine does not implement is carried opaquely.
		return newUDT(lexical, datatype)
	}
	return newUDT(lexical, datatype)
}

func newUDT(lexical, datatype string) *Literal {
	return &Literal{kind: KindUDT, lexical: lexical, datatype: datatype}
}

// AsNode returns the literal in its graph-node form. Every literal here
// already carries its canonical lexical form and datatype, so the node
// form is the literal itself; the method exists so result consumers have
// an explicit seam between value space and node space.
func (l *Literal) AsNode() *Literal {
	return l
}

// String renders the literal in N-Triples-like syntax. URIs are angle
// quoted, blank nodes prefixed "_:", literals quoted with optional
// language or datatype suffix.
func (l *Literal) String() string {
	switch l.kind {
	case KindURI:
		return "<" + l.lexical + ">"
	case KindBlank:
		return "_:" + l.lexical
	default:
		var b strings.Builder
		b.WriteByte('"')
		b.WriteString(escapeLexical(l.lexical))
		b.WriteByte('"')
		if l.language != "" {
			b.WriteByte('@')
			b.WriteString(l.language)
		} else if l.datatype != "" {
			b.WriteString("^^<")
			b.WriteString(l.datatype)
			b.WriteByte('>')
		}
		return b.String()
	}
}

func escapeLexical(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return r.Replace(s)
}

func unescapeLexical(s string) string {
	r := strings.NewReplacer(`\\`, `\`, `\"`, `"`, `\n`, "\n", `\r`, "\r", `\t`, "\t")
	return r.Replace(s)
}

// ParseTerm parses the N-Triples-like syntax produced by String:
// "<uri>", "_:label", and quoted literals with an optional @lang or
// ^^<datatype> suffix. Bare integers, decimals, doubles and booleans are
// accepted as a convenience for data fixtures.
func ParseTerm(s string) (*Literal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty term")
	}
	switch {
	case strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">"):
		return NewURI(s[1 : len(s)-1]), nil
	case strings.HasPrefix(s, "_:"):
		return NewBlank(s[2:]), nil
	case strings.HasPrefix(s, `"`):
		end := closingQuote(s)
		if end < 0 {
			return nil, fmt.Errorf("unterminated literal %q", s)
		}
		lex := unescapeLexical(s[1:end])
		rest := s[end+1:]
		switch {
		case rest == "":
			return NewPlain(lex, ""), nil
		case strings.HasPrefix(rest, "@"):
			return NewPlain(lex, rest[1:]), nil
		case strings.HasPrefix(rest, "^^<") && strings.HasSuffix(rest, ">"):
			return NewTyped(lex, rest[3:len(rest)-1]), nil
		case strings.HasPrefix(rest, "^^"):
			// Prefixed datatype names resolve against the xsd: namespace.
			return NewTyped(lex, expandXSD(rest[2:])), nil
		default:
			return nil, fmt.Errorf("malformed literal suffix %q", rest)
		}
	case s == "true" || s == "false":
		return NewBoolean(s == "true"), nil
	default:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return NewInteger(i), nil
		}
		if strings.ContainsAny(s, "eE") {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return NewDouble(f), nil
			}
		}
		if strings.Contains(s, ".") {
			if l, err := NewDecimalString(s); err == nil {
				return l, nil
			}
		}
		return nil, fmt.Errorf("unrecognized term syntax %q", s)
	}
}

// closingQuote finds the index of the unescaped closing quote, or -1.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

func expandXSD(name string) string {
	if strings.HasPrefix(name, "xsd:") {
		return XSDNamespace + name[4:]
	}
	return name
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
