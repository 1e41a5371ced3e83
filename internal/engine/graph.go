package engine

import (
	"github.com/roach88/sparq/internal/literal"
	"github.com/roach88/sparq/internal/query"
)

// graphRowsource implements GRAPH ?g: it re-runs its inner pattern once
// per named graph, rescoping the inner triple patterns to that graph via
// SetOrigin and binding the graph variable in every emitted row. A
// dataset with no named graphs yields no rows.
//
// The other two GRAPH cases never reach execution as a graph node: a
// ground graph term present in the dataset compiles to the inner pattern
// with rewritten origins, and an absent one compiles to an empty
// rowsource.
type graphRowsource struct {
	baseRowsource

	inner    Rowsource
	graphVar *query.Variable
	graphs   []*literal.Literal

	idx     int
	started bool
}

func newGraphRowsource(inner Rowsource, graphVar *query.Variable, graphs []*literal.Literal) *graphRowsource {
	return &graphRowsource{
		baseRowsource: baseRowsource{
			name:     "graph",
			vars:     mergeVars([]*query.Variable{graphVar}, inner.Vars()),
			children: []Rowsource{inner},
		},
		inner:    inner,
		graphVar: graphVar,
		graphs:   graphs,
	}
}

func (s *graphRowsource) ReadRow() (*query.Row, error) {
	for {
		if s.idx >= len(s.graphs) {
			return nil, nil
		}
		g := s.graphs[s.idx]
		if !s.started {
			s.inner.SetOrigin(g)
			if err := s.inner.Reset(); err != nil {
				return nil, err
			}
			s.started = true
		}
		row, err := s.inner.ReadRow()
		if err != nil {
			return nil, err
		}
		if row == nil {
			s.idx++
			s.started = false
			continue
		}
		row.SetValue(s.graphVar.Offset, g)
		return s.stamp(row), nil
	}
}

func (s *graphRowsource) ReadAllRows() ([]*query.Row, error) { return drainRows(s) }

func (s *graphRowsource) Reset() error {
	s.idx = 0
	s.started = false
	s.resetCount()
	return s.inner.Reset()
}

func (s *graphRowsource) Close() error { return closeChildren(s.children) }

// SetOrigin is ignored: the operator owns its inner pattern's origin.
func (s *graphRowsource) SetOrigin(*literal.Literal) {}
