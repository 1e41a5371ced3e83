package engine

import (
	"context"

	"github.com/roach88/sparq/internal/literal"
	"github.com/roach88/sparq/internal/query"
	"github.com/roach88/sparq/internal/store"
)

// triplesRowsource evaluates a basic graph pattern as a backtracking
// multi-way join over the triples source.
//
// One match cursor exists per pattern column. The rowsource binds the
// current column's candidate, advances to the next column, and when a
// column's cursor is exhausted backs up one column, unbinds its tentative
// bindings and retries the previous cursor's next candidate. A full
// binding at the last column yields a row; end-of-stream is reached when
// the first column's cursor is exhausted.
type triplesRowsource struct {
	baseRowsource

	ctx      context.Context
	src      store.Source
	vt       *query.VarTable
	patterns []*store.Pattern

	matches []store.Match
	bound   []store.BindFlags
	col     int
	done    bool
}

func newTriplesRowsource(ctx context.Context, src store.Source, vt *query.VarTable, patterns []*store.Pattern) *triplesRowsource {
	return &triplesRowsource{
		baseRowsource: baseRowsource{
			name: "triples",
			vars: patternVars(patterns),
		},
		ctx:      ctx,
		src:      src,
		vt:       vt,
		patterns: patterns,
		matches:  make([]store.Match, len(patterns)),
		bound:    make([]store.BindFlags, len(patterns)),
	}
}

// patternVars collects the distinct variables of a pattern sequence in
// offset order of first appearance.
func patternVars(patterns []*store.Pattern) []*query.Variable {
	var out []*query.Variable
	seen := make(map[int]bool)
	add := func(v *query.Variable) {
		if v != nil && !seen[v.Offset] {
			seen[v.Offset] = true
			out = append(out, v)
		}
	}
	for _, p := range patterns {
		add(p.Subject.Var)
		add(p.Predicate.Var)
		add(p.Object.Var)
		add(p.OriginVar)
	}
	return out
}

func (s *triplesRowsource) ReadRow() (*query.Row, error) {
	if s.done {
		return nil, nil
	}
	if err := s.ctx.Err(); err != nil {
		return nil, canceledError(s.name, err)
	}
	last := len(s.patterns) - 1
	for {
		if s.col < 0 {
			s.done = true
			return nil, nil
		}
		m := s.matches[s.col]
		if m == nil {
			var err error
			m, err = s.newMatch(s.patterns[s.col])
			if err != nil {
				return nil, sourceError(s.name, err)
			}
			s.matches[s.col] = m
		}
		if m.End() {
			// Back up one column: undo its bindings and retry the next
			// candidate there.
			m.Close()
			s.matches[s.col] = nil
			s.col--
			if s.col >= 0 {
				store.UnbindFlags(s.patterns[s.col], s.bound[s.col])
				s.bound[s.col] = 0
				s.matches[s.col].Next()
			}
			continue
		}
		flags, ok := m.Bind()
		if !ok {
			m.Next()
			continue
		}
		s.bound[s.col] = flags
		if s.col < last {
			s.col++
			continue
		}
		row := s.captureRow()
		store.UnbindFlags(s.patterns[s.col], flags)
		s.bound[s.col] = 0
		m.Next()
		return s.stamp(row), nil
	}
}

// captureRow snapshots the current bindings of this pattern's variables.
// Variables bound by enclosing operators are left to the join to merge,
// so rows from one union branch never leak into the other.
func (s *triplesRowsource) captureRow() *query.Row {
	row := query.NewRow(s.vt)
	for _, v := range s.vars {
		row.SetValue(v.Offset, v.Value)
	}
	return row
}

// newMatch builds the cursor for one column. Ground patterns take the
// exact-presence fast path instead of a scan.
func (s *triplesRowsource) newMatch(p *store.Pattern) (store.Match, error) {
	if p.IsGround() {
		present, err := s.src.TriplePresent(s.ctx, p.GroundTriple())
		if err != nil {
			return nil, err
		}
		return &presenceMatch{present: present}, nil
	}
	return s.src.NewMatch(s.ctx, p)
}

func (s *triplesRowsource) ReadAllRows() ([]*query.Row, error) { return drainRows(s) }

func (s *triplesRowsource) Reset() error {
	s.releaseMatches()
	s.col = 0
	s.done = false
	s.resetCount()
	return nil
}

func (s *triplesRowsource) Close() error {
	s.releaseMatches()
	s.done = true
	return nil
}

func (s *triplesRowsource) releaseMatches() {
	for i, m := range s.matches {
		if m != nil {
			m.Close()
			s.matches[i] = nil
		}
		store.UnbindFlags(s.patterns[i], s.bound[i])
		s.bound[i] = 0
	}
}

// SetOrigin rescopes every pattern to one named graph. The graph
// rowsource calls this once per named graph before Reset.
func (s *triplesRowsource) SetOrigin(origin *literal.Literal) {
	for _, p := range s.patterns {
		p.Origin = origin
	}
}

// presenceMatch adapts the ground-pattern presence probe to the Match
// cursor contract: one candidate when present, none otherwise.
type presenceMatch struct {
	present bool
	used    bool
}

func (m *presenceMatch) Bind() (store.BindFlags, bool) { return 0, true }

func (m *presenceMatch) Next() { m.used = true }

func (m *presenceMatch) End() bool { return m.used || !m.present }

func (m *presenceMatch) Close() {}
