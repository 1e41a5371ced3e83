package engine

import (
	"github.com/roach88/sparq/internal/algebra"
	"github.com/roach88/sparq/internal/literal"
	"github.com/roach88/sparq/internal/query"
)

// joinRowsource is a nested-loop join. For each left row it binds the
// row's values into the variables table (so basic graph patterns on the
// right prune against them), re-runs the right side, and emits the
// merged row for every compatible right row that also satisfies the
// optional join expression.
//
// With leftOuter set, a left row with no surviving right row is emitted
// on its own, implementing OPTIONAL.
type joinRowsource struct {
	baseRowsource

	left, right Rowsource
	vt          *query.VarTable
	ec          *algebra.EvalContext
	expr        algebra.Expr
	leftOuter   bool

	leftRow   *query.Row
	matched   bool
	leftBound rowBinding
	exprBound rowBinding
}

func newJoinRowsource(left, right Rowsource, vt *query.VarTable, ec *algebra.EvalContext, expr algebra.Expr, leftOuter bool) *joinRowsource {
	name := "join"
	if leftOuter {
		name = "leftjoin"
	}
	// A right side sharing no variables with the left yields the same
	// rows on every re-iteration, so a materializing operator there may
	// keep its buffer across the per-left-row Reset.
	if !sharesVars(left.Vars(), right.Vars()) {
		right.SetPreserve(true)
	}
	return &joinRowsource{
		baseRowsource: baseRowsource{
			name:     name,
			vars:     mergeVars(left.Vars(), right.Vars()),
			children: []Rowsource{left, right},
		},
		left:      left,
		right:     right,
		vt:        vt,
		ec:        ec,
		expr:      expr,
		leftOuter: leftOuter,
	}
}

func sharesVars(a, b []*query.Variable) bool {
	seen := make(map[int]bool, len(a))
	for _, v := range a {
		seen[v.Offset] = true
	}
	for _, v := range b {
		if seen[v.Offset] {
			return true
		}
	}
	return false
}

func mergeVars(a, b []*query.Variable) []*query.Variable {
	out := make([]*query.Variable, 0, len(a)+len(b))
	seen := make(map[int]bool)
	for _, v := range a {
		seen[v.Offset] = true
		out = append(out, v)
	}
	for _, v := range b {
		if !seen[v.Offset] {
			out = append(out, v)
		}
	}
	return out
}

func (s *joinRowsource) ReadRow() (*query.Row, error) {
	for {
		if s.leftRow == nil {
			row, err := s.left.ReadRow()
			if err != nil {
				return nil, err
			}
			if row == nil {
				return nil, nil
			}
			s.leftRow = row
			s.matched = false
			s.leftBound.bind(s.vt, row)
			if err := s.right.Reset(); err != nil {
				s.leftBound.unbind()
				return nil, err
			}
		}
		right, err := s.right.ReadRow()
		if err != nil {
			s.leftBound.unbind()
			return nil, err
		}
		if right == nil {
			emit := s.leftOuter && !s.matched
			left := s.leftRow
			s.leftRow = nil
			s.leftBound.unbind()
			if emit {
				return s.stamp(left.Copy()), nil
			}
			continue
		}
		if !compatibleRows(s.leftRow, right) {
			continue
		}
		merged := mergeRows(s.leftRow, right)
		if s.expr != nil {
			s.exprBound.bind(s.vt, merged)
			ok := algebra.EvalEBV(s.expr, s.ec)
			s.exprBound.unbind()
			if !ok {
				continue
			}
		}
		s.matched = true
		return s.stamp(merged), nil
	}
}

// compatibleRows reports whether two rows agree, as RDF terms, on every
// slot bound in both.
func compatibleRows(a, b *query.Row) bool {
	for i, av := range a.Values {
		bv := b.Value(i)
		if av == nil || bv == nil {
			continue
		}
		if !query.EqualValues(av, bv, literal.CompareRDF) {
			return false
		}
	}
	return true
}

// mergeRows combines two compatible rows, left slots winning.
func mergeRows(a, b *query.Row) *query.Row {
	out := a.Copy()
	for i, bv := range b.Values {
		if i >= len(out.Values) {
			break
		}
		if out.Values[i] == nil {
			out.Values[i] = bv
		}
	}
	return out
}

func (s *joinRowsource) ReadAllRows() ([]*query.Row, error) { return drainRows(s) }

func (s *joinRowsource) Reset() error {
	s.leftBound.unbind()
	s.leftRow = nil
	s.matched = false
	s.resetCount()
	if err := s.left.Reset(); err != nil {
		return err
	}
	return s.right.Reset()
}

func (s *joinRowsource) Close() error {
	s.leftBound.unbind()
	s.leftRow = nil
	return closeChildren(s.children)
}
