package engine

import (
	"github.com/roach88/sparq/internal/query"
)

// sliceRowsource applies LIMIT/OFFSET: it skips the first offset rows,
// passes through at most limit rows (limit < 0 meaning unlimited, 0 a
// valid empty window), and renumbers output offsets from 1.
type sliceRowsource struct {
	baseRowsource

	inner  Rowsource
	limit  int
	offset int

	skipped int
	done    bool
}

func newSliceRowsource(inner Rowsource, limit, offset int) *sliceRowsource {
	if offset < 0 {
		offset = 0
	}
	return &sliceRowsource{
		baseRowsource: baseRowsource{
			name:     "slice",
			vars:     inner.Vars(),
			children: []Rowsource{inner},
		},
		inner:  inner,
		limit:  limit,
		offset: offset,
	}
}

func (s *sliceRowsource) ReadRow() (*query.Row, error) {
	if s.done {
		return nil, nil
	}
	if s.limit >= 0 && s.count >= s.limit {
		s.done = true
		return nil, nil
	}
	for {
		row, err := s.inner.ReadRow()
		if err != nil {
			return nil, err
		}
		if row == nil {
			s.done = true
			return nil, nil
		}
		if s.skipped < s.offset {
			s.skipped++
			continue
		}
		return s.stamp(row), nil
	}
}

func (s *sliceRowsource) ReadAllRows() ([]*query.Row, error) { return drainRows(s) }

func (s *sliceRowsource) Reset() error {
	s.skipped = 0
	s.done = false
	s.resetCount()
	return s.inner.Reset()
}

func (s *sliceRowsource) Close() error { return closeChildren(s.children) }
