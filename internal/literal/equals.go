package literal

import "math"

// Equals tests RDF value equality under the selected regime.
//
// Numeric pairs compare by promoted value, not lexical form, so integer 5
// equals decimal 5.0 under CompareXQuery but not under CompareRDF (where
// they are distinct terms). Temporal pairs compare by calendar instant
// with implicit-UTC promotion. The error return is out-of-band and means
// the pair is incomparable, which is not the same as unequal.
func Equals(a, b *Literal, flags CompareFlags) (bool, error) {
	if flags&CompareRDF != 0 {
		return termEquals(a, b), nil
	}
	switch {
	case a.kind == KindURI || a.kind == KindBlank ||
		b.kind == KindURI || b.kind == KindBlank:
		// Term kinds only ever equal terms of the same kind.
		return termEquals(a, b), nil
	case a.kind == KindUDT || b.kind == KindUDT:
		return udtEquals(a, b)
	}
	if kind, ok := Promote(a.kind, b.kind); ok {
		// NaN equals nothing, itself included.
		if (kind == KindFloat || kind == KindDouble) &&
			(math.IsNaN(a.asDouble()) || math.IsNaN(b.asDouble())) {
			return false, nil
		}
		return compareNumeric(a, b, kind) == 0, nil
	}
	if _, ok := promoteTemporal(a.kind, b.kind); ok {
		return compareTemporal(a, b) == 0, nil
	}
	if a.IsString() && b.IsString() {
		// Simple literals and xsd:string share a value space; a language
		// tag on either side must match exactly.
		return a.lexical == b.lexical && a.language == b.language, nil
	}
	if a.kind == KindBoolean && b.kind == KindBoolean {
		return a.boolean == b.boolean, nil
	}
	if flags&CompareXQuery != 0 {
		return false, typeErr("test equality of", a, b)
	}
	// Legacy regime: incomparable pairs are simply unequal.
	return false, nil
}

// termEquals is plain RDF term identity: same kind, same lexical form,
// same language and datatype.
func termEquals(a, b *Literal) bool {
	return a.kind == b.kind &&
		a.lexical == b.lexical &&
		a.language == b.language &&
		a.datatype == b.datatype
}

// udtEquals follows SPARQL's unknown-datatype rule: identical datatype
// URIs compare by lexical form; differing datatypes are incomparable.
func udtEquals(a, b *Literal) (bool, error) {
	if a.kind != KindUDT || b.kind != KindUDT {
		return false, typeErr("test equality of", a, b)
	}
	if a.datatype != b.datatype {
		return false, typeErr("test equality of", a, b)
	}
	return a.lexical == b.lexical, nil
}
