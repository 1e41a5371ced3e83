package engine

import (
	"github.com/roach88/sparq/internal/algebra"
	"github.com/roach88/sparq/internal/query"
)

// filterRowsource keeps the inner rows whose expression has an effective
// boolean value of true. Evaluation errors reject the row, per SPARQL's
// FILTER error convention. HAVING compiles to the same operator running
// above aggregation.
type filterRowsource struct {
	baseRowsource

	inner   Rowsource
	vt      *query.VarTable
	ec      *algebra.EvalContext
	expr    algebra.Expr
	binding rowBinding
}

func newFilterRowsource(inner Rowsource, vt *query.VarTable, ec *algebra.EvalContext, expr algebra.Expr) *filterRowsource {
	return &filterRowsource{
		baseRowsource: baseRowsource{
			name:     "filter",
			vars:     inner.Vars(),
			children: []Rowsource{inner},
		},
		inner: inner,
		vt:    vt,
		ec:    ec,
		expr:  expr,
	}
}

func (s *filterRowsource) ReadRow() (*query.Row, error) {
	for {
		row, err := s.inner.ReadRow()
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, nil
		}
		s.binding.bind(s.vt, row)
		keep := algebra.EvalEBV(s.expr, s.ec)
		s.binding.unbind()
		if keep {
			return s.stamp(row), nil
		}
	}
}

func (s *filterRowsource) ReadAllRows() ([]*query.Row, error) { return drainRows(s) }

func (s *filterRowsource) Reset() error {
	s.resetCount()
	return s.inner.Reset()
}

func (s *filterRowsource) Close() error { return closeChildren(s.children) }
