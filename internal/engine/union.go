package engine

import (
	"github.com/roach88/sparq/internal/query"
)

// unionRowsource concatenates the two sides' rows, left side first. Rows
// are sized to the whole variables table, so a side binding fewer
// variables simply leaves the other side's slots unbound.
type unionRowsource struct {
	baseRowsource

	left, right Rowsource
	onRight     bool
}

func newUnionRowsource(left, right Rowsource) *unionRowsource {
	return &unionRowsource{
		baseRowsource: baseRowsource{
			name:     "union",
			vars:     mergeVars(left.Vars(), right.Vars()),
			children: []Rowsource{left, right},
		},
		left:  left,
		right: right,
	}
}

func (s *unionRowsource) ReadRow() (*query.Row, error) {
	if !s.onRight {
		row, err := s.left.ReadRow()
		if err != nil {
			return nil, err
		}
		if row != nil {
			return s.stamp(row), nil
		}
		s.onRight = true
	}
	row, err := s.right.ReadRow()
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return s.stamp(row), nil
}

func (s *unionRowsource) ReadAllRows() ([]*query.Row, error) { return drainRows(s) }

func (s *unionRowsource) Reset() error {
	s.onRight = false
	s.resetCount()
	if err := s.left.Reset(); err != nil {
		return err
	}
	return s.right.Reset()
}

func (s *unionRowsource) Close() error { return closeChildren(s.children) }
