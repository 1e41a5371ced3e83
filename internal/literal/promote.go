package literal

// Numeric type promotion per the XPath/XQuery operator mapping.
//
// The promotion chain is integer → decimal → float → double: two numeric
// operands are promoted to the higher-ranked kind before comparison or
// arithmetic. Integer subtypes have already collapsed to KindInteger at
// construction, so only the four canonical numeric kinds appear here.

var numericRank = map[Kind]int{
	KindInteger: 1,
	KindDecimal: 2,
	KindFloat:   3,
	KindDouble:  4,
}

// Promote returns the common numeric kind for a pair of kinds, or false
// when the pair has no common numeric supertype. Callers are expected to
// fall back to term comparison in the false case rather than treat it as
// an error.
func Promote(a, b Kind) (Kind, bool) {
	ra, ok := numericRank[a]
	if !ok {
		return KindUnknown, false
	}
	rb, ok := numericRank[b]
	if !ok {
		return KindUnknown, false
	}
	if ra >= rb {
		return a, true
	}
	return b, true
}

// promoteTemporal returns the common temporal kind for a pair, promoting
// date to dateTime when mixed, or false when either side is not temporal.
func promoteTemporal(a, b Kind) (Kind, bool) {
	temporal := func(k Kind) bool { return k == KindDate || k == KindDateTime }
	if !temporal(a) || !temporal(b) {
		return KindUnknown, false
	}
	if a == KindDateTime || b == KindDateTime {
		return KindDateTime, true
	}
	return KindDate, true
}

// asDouble reads any numeric literal as a float64.
func (l *Literal) asDouble() float64 {
	switch l.kind {
	case KindInteger:
		return float64(l.integer)
	case KindDecimal:
		f, _ := l.decimal.Float64()
		return f
	default:
		return l.double
	}
}
