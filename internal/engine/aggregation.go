package engine

import (
	"errors"
	"strings"

	"github.com/roach88/sparq/internal/algebra"
	"github.com/roach88/sparq/internal/literal"
	"github.com/roach88/sparq/internal/query"
)

// errNoValues marks an aggregate applied to zero values; the target
// variable stays unbound.
var errNoValues = errors.New("aggregate over empty group")

// aggregationRowsource collapses each run of rows sharing a group id
// into one output row carrying the aggregate results. The output row is
// a copy of the group's first row, so grouping variables stay bound.
//
// An aggregate whose evaluation fails leaves its target unbound; COUNT
// instead skips the failing row, per SPARQL. With implicit set (a query
// aggregating without GROUP BY), an empty input still yields one row:
// COUNT 0, SUM 0, everything else unbound.
type aggregationRowsource struct {
	baseRowsource

	inner    Rowsource
	vt       *query.VarTable
	ec       *algebra.EvalContext
	aggs     []*algebra.Aggregate
	implicit bool

	pending *query.Row
	done    bool
	emitted bool
	binding rowBinding
}

func newAggregationRowsource(inner Rowsource, vt *query.VarTable, ec *algebra.EvalContext, aggs []*algebra.Aggregate, implicit bool) *aggregationRowsource {
	vars := inner.Vars()
	for _, a := range aggs {
		vars = mergeVars(vars, []*query.Variable{a.Target})
	}
	return &aggregationRowsource{
		baseRowsource: baseRowsource{
			name:     "aggregation",
			vars:     vars,
			children: []Rowsource{inner},
		},
		inner:    inner,
		vt:       vt,
		ec:       ec,
		aggs:     aggs,
		implicit: implicit,
	}
}

func (s *aggregationRowsource) ReadRow() (*query.Row, error) {
	if s.done && s.pending == nil {
		return nil, nil
	}
	group, err := s.nextGroup()
	if err != nil {
		return nil, err
	}
	if len(group) == 0 {
		if s.implicit && !s.emitted {
			out := query.NewRow(s.vt)
			s.applyAggregates(out, nil)
			s.emitted = true
			return s.stamp(out), nil
		}
		return nil, nil
	}
	out := group[0].Copy()
	s.applyAggregates(out, group)
	s.emitted = true
	return s.stamp(out), nil
}

// nextGroup reads rows until the group id changes, holding the first row
// of the following group for the next call.
func (s *aggregationRowsource) nextGroup() ([]*query.Row, error) {
	var group []*query.Row
	if s.pending != nil {
		group = append(group, s.pending)
		s.pending = nil
	}
	for !s.done {
		row, err := s.inner.ReadRow()
		if err != nil {
			return nil, err
		}
		if row == nil {
			s.done = true
			break
		}
		if len(group) > 0 && row.GroupID != group[0].GroupID {
			s.pending = row
			break
		}
		group = append(group, row)
	}
	return group, nil
}

func (s *aggregationRowsource) applyAggregates(out *query.Row, group []*query.Row) {
	for _, agg := range s.aggs {
		v, err := s.evalAggregate(agg, group)
		if err != nil {
			v = nil
		}
		out.SetValue(agg.Target.Offset, v)
	}
}

func (s *aggregationRowsource) evalAggregate(agg *algebra.Aggregate, group []*query.Row) (*literal.Literal, error) {
	if agg.Op == algebra.AggCount && agg.Expr == nil {
		return literal.NewInteger(int64(len(group))), nil
	}
	values, err := s.argumentValues(agg, group)
	if err != nil {
		return nil, err
	}
	switch agg.Op {
	case algebra.AggCount:
		return literal.NewInteger(int64(len(values))), nil
	case algebra.AggSum:
		return sumValues(values)
	case algebra.AggAvg:
		if len(values) == 0 {
			return nil, errNoValues
		}
		sum, err := sumValues(values)
		if err != nil {
			return nil, err
		}
		return literal.Divide(sum, literal.NewInteger(int64(len(values))))
	case algebra.AggMin:
		return s.extremum(values, -1)
	case algebra.AggMax:
		return s.extremum(values, 1)
	case algebra.AggGroupConcat:
		sep := agg.Separator
		if sep == "" {
			sep = " "
		}
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = v.Lexical()
		}
		return literal.NewPlain(strings.Join(parts, sep), ""), nil
	default: // AggSample
		if len(values) == 0 {
			return nil, errNoValues
		}
		return values[0], nil
	}
}

// argumentValues evaluates the aggregate's argument per row. COUNT skips
// rows where the argument errors or is unbound; other aggregates fail on
// the first error. DISTINCT drops value-equal repeats.
func (s *aggregationRowsource) argumentValues(agg *algebra.Aggregate, group []*query.Row) ([]*literal.Literal, error) {
	var values []*literal.Literal
	for _, row := range group {
		s.binding.bind(s.vt, row)
		v, err := agg.Expr.Eval(s.ec)
		s.binding.unbind()
		if err != nil {
			if agg.Op == algebra.AggCount {
				continue
			}
			return nil, err
		}
		if agg.Distinct && containsValue(values, v, s.ec.Flags) {
			continue
		}
		values = append(values, v)
	}
	return values, nil
}

func containsValue(values []*literal.Literal, v *literal.Literal, flags literal.CompareFlags) bool {
	for _, seen := range values {
		if query.EqualValues(seen, v, flags) {
			return true
		}
	}
	return false
}

func sumValues(values []*literal.Literal) (*literal.Literal, error) {
	sum := literal.NewInteger(0)
	for _, v := range values {
		var err error
		sum, err = literal.Add(sum, v)
		if err != nil {
			return nil, err
		}
	}
	return sum, nil
}

func (s *aggregationRowsource) extremum(values []*literal.Literal, sign int) (*literal.Literal, error) {
	if len(values) == 0 {
		return nil, errNoValues
	}
	best := values[0]
	for _, v := range values[1:] {
		c, err := literal.Compare(v, best, s.ec.Flags)
		if err != nil {
			return nil, err
		}
		if c*sign > 0 {
			best = v
		}
	}
	return best, nil
}

func (s *aggregationRowsource) ReadAllRows() ([]*query.Row, error) { return drainRows(s) }

func (s *aggregationRowsource) Reset() error {
	s.pending = nil
	s.done = false
	s.emitted = false
	s.resetCount()
	return s.inner.Reset()
}

func (s *aggregationRowsource) Close() error { return closeChildren(s.children) }
