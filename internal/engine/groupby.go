package engine

import (
	"github.com/roach88/sparq/internal/algebra"
	"github.com/roach88/sparq/internal/literal"
	"github.com/roach88/sparq/internal/query"
)

// groupByRowsource assigns group ids to a stream already sorted on the
// grouping expressions: each row's key vector is compared with the
// previous row's, and a difference starts the next group. The compiler
// guarantees the ordering by stacking a sort on the same expressions
// underneath.
type groupByRowsource struct {
	baseRowsource

	inner Rowsource
	vt    *query.VarTable
	ec    *algebra.EvalContext
	exprs []algebra.Expr

	last     []*literal.Literal
	haveLast bool
	groupID  int
	binding  rowBinding
}

func newGroupByRowsource(inner Rowsource, vt *query.VarTable, ec *algebra.EvalContext, exprs []algebra.Expr) *groupByRowsource {
	return &groupByRowsource{
		baseRowsource: baseRowsource{
			name:     "groupby",
			vars:     inner.Vars(),
			children: []Rowsource{inner},
		},
		inner:   inner,
		vt:      vt,
		ec:      ec,
		exprs:   exprs,
		groupID: -1,
	}
}

func (s *groupByRowsource) ReadRow() (*query.Row, error) {
	row, err := s.inner.ReadRow()
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	key := s.evalKey(row)
	if !s.haveLast || !query.EqualSequences(s.last, key, s.ec.Flags) {
		s.groupID++
	}
	s.last = key
	s.haveLast = true
	row.GroupID = s.groupID
	return s.stamp(row), nil
}

func (s *groupByRowsource) evalKey(row *query.Row) []*literal.Literal {
	key := make([]*literal.Literal, len(s.exprs))
	s.binding.bind(s.vt, row)
	for i, e := range s.exprs {
		v, err := e.Eval(s.ec)
		if err != nil {
			v = nil
		}
		key[i] = v
	}
	s.binding.unbind()
	return key
}

func (s *groupByRowsource) ReadAllRows() ([]*query.Row, error) { return drainRows(s) }

func (s *groupByRowsource) Reset() error {
	s.last = nil
	s.haveLast = false
	s.groupID = -1
	s.resetCount()
	return s.inner.Reset()
}

func (s *groupByRowsource) Close() error { return closeChildren(s.children) }
