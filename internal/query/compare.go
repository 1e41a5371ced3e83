package query

import "github.com/roach88/sparq/internal/literal"

// Multi-key comparison over literal sequences, shared by ORDER BY,
// DISTINCT and GROUP BY.
//
// Two conventions apply throughout:
//
//   - nil (unbound) sorts before any bound value, per SPARQL ORDER BY.
//   - A per-position type error stops the comparison and reports the
//     sequences as equal. This conflates "proven equal" with "comparison
//     undefined" and can produce non-transitive orderings on adversarial
//     mixed-type inputs; it is kept as the established engine behavior,
//     not endorsed as a contract.

// CompareValues orders two optional literals with nil-first semantics.
func CompareValues(a, b *literal.Literal, flags literal.CompareFlags) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	r, err := literal.Compare(a, b, flags)
	if err != nil {
		return 0
	}
	return r
}

// EqualValues tests two optional literals for equality; a type error
// counts as unequal here, since equality has a meaningful negative answer.
func EqualValues(a, b *literal.Literal, flags literal.CompareFlags) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	}
	eq, err := literal.Equals(a, b, flags)
	if err != nil {
		return false
	}
	return eq
}

// CompareSequences orders two literal slices position by position. The
// shorter sequence sorts first when all shared positions tie.
func CompareSequences(a, b []*literal.Literal, flags literal.CompareFlags) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if r := CompareValues(a[i], b[i], flags); r != 0 {
			return r
		}
	}
	return len(a) - len(b)
}

// EqualSequences tests two literal slices for positionwise equality.
func EqualSequences(a, b []*literal.Literal, flags literal.CompareFlags) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualValues(a[i], b[i], flags) {
			return false
		}
	}
	return true
}
