package engine

import (
	"sort"

	"github.com/roach88/sparq/internal/algebra"
	"github.com/roach88/sparq/internal/literal"
	"github.com/roach88/sparq/internal/query"
)

// sortRowsource materializes its input and emits it ordered. It backs
// both ORDER BY and DISTINCT: order keys are evaluated per row into the
// row's order vector, the buffer is stable-sorted on that vector (so
// equal keys keep arrival order), and with distinct set, value-equal
// rows collapse to their first occurrence.
//
// Unbound sorts before any bound value. A key whose expression errors is
// unbound for that row.
type sortRowsource struct {
	baseRowsource

	inner    Rowsource
	vt       *query.VarTable
	ec       *algebra.EvalContext
	keys     []algebra.OrderKey
	distinct bool

	rows         []*query.Row
	pos          int
	materialized bool
	binding      rowBinding
}

func newSortRowsource(inner Rowsource, vt *query.VarTable, ec *algebra.EvalContext, keys []algebra.OrderKey, distinct bool) *sortRowsource {
	return &sortRowsource{
		baseRowsource: baseRowsource{
			name:     "sort",
			vars:     inner.Vars(),
			children: []Rowsource{inner},
		},
		inner:    inner,
		vt:       vt,
		ec:       ec,
		keys:     keys,
		distinct: distinct,
	}
}

func (s *sortRowsource) ReadRow() (*query.Row, error) {
	if !s.materialized {
		if err := s.materialize(); err != nil {
			return nil, err
		}
	}
	if s.pos >= len(s.rows) {
		return nil, nil
	}
	row := s.rows[s.pos]
	s.pos++
	return s.stamp(row), nil
}

func (s *sortRowsource) materialize() error {
	rows, err := drainRows(s.inner)
	if err != nil {
		return err
	}
	for _, row := range rows {
		row.OrderValues = s.evalKeys(row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return s.compare(rows[i], rows[j]) < 0
	})
	if s.distinct {
		rows = dedupeRows(rows, s.ec)
	}
	s.rows = rows
	s.pos = 0
	s.materialized = true
	return nil
}

func (s *sortRowsource) evalKeys(row *query.Row) []*literal.Literal {
	if len(s.keys) == 0 {
		return nil
	}
	vec := make([]*literal.Literal, len(s.keys))
	s.binding.bind(s.vt, row)
	for i, k := range s.keys {
		v, err := k.Expr.Eval(s.ec)
		if err != nil {
			v = nil
		}
		vec[i] = v
	}
	s.binding.unbind()
	return vec
}

// compare orders two rows by the key vectors, then, under distinct, by
// the full value sequence so duplicates end up adjacent even when their
// keys tie with non-duplicates.
func (s *sortRowsource) compare(a, b *query.Row) int {
	for i, k := range s.keys {
		c := query.CompareValues(a.OrderValues[i], b.OrderValues[i], s.ec.Flags)
		if !k.Ascending {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	if s.distinct {
		return query.CompareSequences(a.Values, b.Values, s.ec.Flags)
	}
	return 0
}

// dedupeRows drops every row whose value sequence equals the previously
// kept row's.
func dedupeRows(rows []*query.Row, ec *algebra.EvalContext) []*query.Row {
	out := rows[:0]
	for _, row := range rows {
		if len(out) > 0 && query.EqualSequences(out[len(out)-1].Values, row.Values, ec.Flags) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func (s *sortRowsource) ReadAllRows() ([]*query.Row, error) { return drainRows(s) }

// Reset rewinds the buffer when preserve is set and the buffer exists;
// otherwise it drops the buffer and resets the input, so the next read
// re-materializes.
func (s *sortRowsource) Reset() error {
	s.resetCount()
	if s.materialized && s.preserve {
		s.pos = 0
		return nil
	}
	s.rows = nil
	s.pos = 0
	s.materialized = false
	return s.inner.Reset()
}

func (s *sortRowsource) Close() error {
	s.rows = nil
	s.materialized = false
	return closeChildren(s.children)
}
