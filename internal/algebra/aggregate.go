package algebra

import (
	"github.com/roach88/sparq/internal/query"
)

// AggOp names an aggregate function.
type AggOp int

const (
	// AggCount counts solutions; with a nil Expr it counts rows (*).
	AggCount AggOp = iota
	// AggSum sums numeric values.
	AggSum
	// AggAvg averages numeric values.
	AggAvg
	// AggMin takes the minimum under XQuery ordering.
	AggMin
	// AggMax takes the maximum under XQuery ordering.
	AggMax
	// AggGroupConcat joins lexical forms with a separator.
	AggGroupConcat
	// AggSample picks an arbitrary (here: first) value.
	AggSample
)

var aggNames = [...]string{"count", "sum", "avg", "min", "max", "group_concat", "sample"}

func (op AggOp) String() string { return aggNames[op] }

// AggOpByName resolves an aggregate function name.
func AggOpByName(name string) (AggOp, bool) {
	for i, n := range aggNames {
		if n == name {
			return AggOp(i), true
		}
	}
	return 0, false
}

// Aggregate is one aggregate output of a grouped query: the function, its
// argument expression (nil only for COUNT(*)), an optional DISTINCT
// modifier, a separator for GROUP_CONCAT, and the variable receiving the
// per-group result.
type Aggregate struct {
	Op        AggOp
	Expr      Expr
	Distinct  bool
	Separator string
	Target    *query.Variable
}
