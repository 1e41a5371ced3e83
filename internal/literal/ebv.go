package literal

import "math"

// EBV computes the SPARQL effective boolean value of a literal:
//
//   - xsd:boolean: its value
//   - plain or xsd:string: false iff the lexical form is empty
//   - numeric: false iff zero or NaN
//   - anything else (URI, blank node, UDT): a type error
//
// The caller decides what a type error means in context; SPARQL's FILTER
// treats it as false, but that policy lives at the call site, not here.
func EBV(l *Literal) (bool, error) {
	switch l.kind {
	case KindBoolean:
		return l.boolean, nil
	case KindPlain, KindXSDString:
		return len(l.lexical) > 0, nil
	case KindInteger:
		return l.integer != 0, nil
	case KindFloat, KindDouble:
		return l.double != 0 && !math.IsNaN(l.double), nil
	case KindDecimal:
		return !l.decimal.IsZero(), nil
	default:
		return false, &TypeError{Op: "take effective boolean value of", A: l.kind, B: l.kind}
	}
}
