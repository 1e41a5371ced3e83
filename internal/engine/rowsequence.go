package engine

import (
	"github.com/roach88/sparq/internal/query"
)

// rowSequenceRowsource replays a materialized row slice. VALUES compiles
// to it, and the compiler uses a single-empty-row instance for an empty
// basic graph pattern (the join identity). Rows are copied on the way
// out so downstream mutation never corrupts the backing slice.
type rowSequenceRowsource struct {
	baseRowsource

	rows []*query.Row
	pos  int
}

// NewRowSequence builds a rowsource replaying fixed rows binding the
// given variables.
func NewRowSequence(vars []*query.Variable, rows []*query.Row) Rowsource {
	return &rowSequenceRowsource{
		baseRowsource: baseRowsource{name: "rowsequence", vars: vars},
		rows:          rows,
	}
}

func (s *rowSequenceRowsource) ReadRow() (*query.Row, error) {
	if s.pos >= len(s.rows) {
		return nil, nil
	}
	row := s.rows[s.pos].Copy()
	s.pos++
	return s.stamp(row), nil
}

func (s *rowSequenceRowsource) ReadAllRows() ([]*query.Row, error) { return drainRows(s) }

func (s *rowSequenceRowsource) Reset() error {
	s.pos = 0
	s.resetCount()
	return nil
}

func (s *rowSequenceRowsource) Close() error { return nil }

// emptyRowsource produces no rows. GRAPH over an absent graph compiles
// to it.
type emptyRowsource struct {
	baseRowsource
}

func newEmptyRowsource() *emptyRowsource {
	return &emptyRowsource{baseRowsource{name: "empty"}}
}

func (s *emptyRowsource) ReadRow() (*query.Row, error) { return nil, nil }

func (s *emptyRowsource) ReadAllRows() ([]*query.Row, error) { return nil, nil }

func (s *emptyRowsource) Reset() error { return nil }

func (s *emptyRowsource) Close() error { return nil }
