package engine

import (
	"github.com/roach88/sparq/internal/algebra"
	"github.com/roach88/sparq/internal/query"
)

// projectRowsource trims each row to the projected variables. Slots keep
// their table offsets; non-projected slots are cleared rather than
// removed, so downstream operators address rows the same way.
//
// A projected variable with a defining expression (SELECT (expr AS ?v))
// is evaluated against the row first; an evaluation error leaves the
// slot unbound.
type projectRowsource struct {
	baseRowsource

	inner   Rowsource
	vt      *query.VarTable
	ec      *algebra.EvalContext
	keep    []bool
	exprs   []*query.Variable
	binding rowBinding
}

func newProjectRowsource(inner Rowsource, vt *query.VarTable, ec *algebra.EvalContext, vars []*query.Variable) *projectRowsource {
	keep := make([]bool, vt.Size())
	var exprs []*query.Variable
	for _, v := range vars {
		keep[v.Offset] = true
		if v.Expr != nil {
			exprs = append(exprs, v)
		}
	}
	return &projectRowsource{
		baseRowsource: baseRowsource{
			name:     "project",
			vars:     vars,
			children: []Rowsource{inner},
		},
		inner: inner,
		vt:    vt,
		ec:    ec,
		keep:  keep,
		exprs: exprs,
	}
}

func (s *projectRowsource) ReadRow() (*query.Row, error) {
	row, err := s.inner.ReadRow()
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	if len(s.exprs) > 0 {
		s.binding.bind(s.vt, row)
		for _, v := range s.exprs {
			expr, ok := v.Expr.(algebra.Expr)
			if !ok {
				continue
			}
			val, err := expr.Eval(s.ec)
			if err != nil {
				val = nil
			}
			row.SetValue(v.Offset, val)
		}
		s.binding.unbind()
	}
	for i := range row.Values {
		if !s.keep[i] {
			row.Values[i] = nil
		}
	}
	return s.stamp(row), nil
}

func (s *projectRowsource) ReadAllRows() ([]*query.Row, error) { return drainRows(s) }

func (s *projectRowsource) Reset() error {
	s.resetCount()
	return s.inner.Reset()
}

func (s *projectRowsource) Close() error { return closeChildren(s.children) }
