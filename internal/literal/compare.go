package literal

import (
	"fmt"
	"math"
	"strings"
)

// CompareFlags selects the comparison regime.
type CompareFlags int

const (
	// CompareRDQL is the legacy regime: ad hoc boolean/numeric/string
	// voting with no error reporting for mixed pairs.
	CompareRDQL CompareFlags = 0

	// CompareRDF orders terms by RDF term kind (URI < literal < blank)
	// with no value promotion.
	CompareRDF CompareFlags = 1 << iota

	// CompareXQuery attempts numeric and temporal promotion first and
	// falls back to RDF term order when the pair has no common type.
	CompareXQuery

	// CompareNoCase folds case for string comparison.
	CompareNoCase
)

// TypeError reports an incomparable or inconvertible pair. Callers must
// distinguish it from a value ordering: a non-nil error means the returned
// result carries no information.
type TypeError struct {
	Op   string
	A, B Kind
}

func (e *TypeError) Error() string {
	if e.A == e.B {
		return fmt.Sprintf("type error: cannot %s %s", e.Op, e.A)
	}
	return fmt.Sprintf("type error: cannot %s %s and %s", e.Op, e.A, e.B)
}

func typeErr(op string, a, b *Literal) error {
	return &TypeError{Op: op, A: a.kind, B: b.kind}
}

// Compare orders two literals under the selected regime, returning a
// negative, zero or positive result. The error return is out-of-band: when
// non-nil the pair is incomparable and the int result is meaningless.
func Compare(a, b *Literal, flags CompareFlags) (int, error) {
	switch {
	case flags&CompareXQuery != 0:
		return compareXQuery(a, b, flags)
	case flags&CompareRDF != 0:
		return compareRDFTerms(a, b, flags), nil
	default:
		return compareRDQL(a, b, flags), nil
	}
}

// termClass buckets kinds into the RDF term-kind order: URI < literal <
// blank.
func termClass(k Kind) int {
	switch k {
	case KindURI:
		return 0
	case KindBlank:
		return 2
	default:
		return 1
	}
}

// compareRDFTerms is a total order over terms: first by term-kind class,
// then within literals by lexical form, language and datatype.
func compareRDFTerms(a, b *Literal, flags CompareFlags) int {
	if ca, cb := termClass(a.kind), termClass(b.kind); ca != cb {
		return ca - cb
	}
	if r := compareStrings(a.lexical, b.lexical, flags); r != 0 {
		return r
	}
	if r := strings.Compare(a.language, b.language); r != 0 {
		return r
	}
	return strings.Compare(a.datatype, b.datatype)
}

func compareXQuery(a, b *Literal, flags CompareFlags) (int, error) {
	// UDT against UDT is always a type error; neither promotion nor term
	// order is defined for opaque datatypes.
	if a.kind == KindUDT && b.kind == KindUDT {
		return 0, typeErr("compare", a, b)
	}
	if kind, ok := Promote(a.kind, b.kind); ok {
		// NaN is unordered against every value, itself included.
		if (kind == KindFloat || kind == KindDouble) &&
			(math.IsNaN(a.asDouble()) || math.IsNaN(b.asDouble())) {
			return 0, typeErr("compare", a, b)
		}
		return compareNumeric(a, b, kind), nil
	}
	if _, ok := promoteTemporal(a.kind, b.kind); ok {
		return compareTemporal(a, b), nil
	}
	if a.IsString() && b.IsString() {
		if r := compareStrings(a.lexical, b.lexical, flags); r != 0 {
			return r, nil
		}
		return strings.Compare(a.language, b.language), nil
	}
	if a.kind == KindBoolean && b.kind == KindBoolean {
		return compareBools(a.boolean, b.boolean), nil
	}
	// No common value type: fall back to term order.
	return compareRDFTerms(a, b, flags), nil
}

// compareRDQL is the legacy voting regime: booleans beat numerics beat
// strings; a mixed pair is compared in the weaker of the two spaces.
func compareRDQL(a, b *Literal, flags CompareFlags) int {
	if a.kind == KindBoolean && b.kind == KindBoolean {
		return compareBools(a.boolean, b.boolean)
	}
	if a.IsNumeric() && b.IsNumeric() {
		kind, _ := Promote(a.kind, b.kind)
		return compareNumeric(a, b, kind)
	}
	return compareStrings(a.lexical, b.lexical, flags)
}

func compareNumeric(a, b *Literal, kind Kind) int {
	switch kind {
	case KindInteger:
		switch {
		case a.integer < b.integer:
			return -1
		case a.integer > b.integer:
			return 1
		default:
			return 0
		}
	case KindDecimal:
		da, db := a.toDecimal(), b.toDecimal()
		return da.Cmp(db)
	default:
		fa, fb := a.asDouble(), b.asDouble()
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
}

func compareStrings(a, b string, flags CompareFlags) int {
	if flags&CompareNoCase != 0 {
		a, b = strings.ToLower(a), strings.ToLower(b)
	}
	return strings.Compare(a, b)
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
