package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparq/internal/algebra"
	"github.com/roach88/sparq/internal/store"
)

// GRAPH with a ground URI present in the dataset scopes the inner
// pattern to that graph only.
func TestGraph_BoundPresentGraph(t *testing.T) {
	f := newFixture(t)
	email := f.variable("email")
	q := algebra.NewQuery(&algebra.Graph{
		Term: store.GroundTerm(uri("g1")),
		Inner: &algebra.BGP{Patterns: []*store.Pattern{
			f.pattern("?s", "email", "?email"),
		}},
	})

	rows := f.run(q)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice@example.org", rows[0].Value(email.Offset).Lexical())
}

// GRAPH with a URI the dataset does not contain is statically empty.
func TestGraph_BoundAbsentGraph(t *testing.T) {
	f := newFixture(t)
	q := algebra.NewQuery(&algebra.Graph{
		Term: store.GroundTerm(uri("nope")),
		Inner: &algebra.BGP{Patterns: []*store.Pattern{
			f.pattern("?s", "email", "?email"),
		}},
	})

	rows := f.run(q)
	assert.Empty(t, rows)
}

// GRAPH ?g iterates every named graph and binds ?g per row.
func TestGraph_VariableIteratesNamedGraphs(t *testing.T) {
	f := newFixture(t)
	g := f.variable("g")
	email := f.variable("email")
	q := algebra.NewQuery(&algebra.Graph{
		Term: store.VarTerm(g),
		Inner: &algebra.BGP{Patterns: []*store.Pattern{
			f.pattern("?s", "email", "?email"),
		}},
	})
	q.OrderBy = []algebra.OrderKey{{Expr: &algebra.VarRef{Var: g}, Ascending: true}}

	rows := f.run(q)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"http://example.org/g1",
		"http://example.org/g2",
	}, rowValues(rows, g))
	assert.Equal(t, []string{
		"alice@example.org",
		"bob@example.org",
	}, rowValues(rows, email))
}

// The default graph's triples are invisible inside GRAPH.
func TestGraph_DefaultGraphNotIncluded(t *testing.T) {
	f := newFixture(t)
	g := f.variable("g")
	q := algebra.NewQuery(&algebra.Graph{
		Term: store.VarTerm(g),
		Inner: &algebra.BGP{Patterns: []*store.Pattern{
			f.pattern("?s", "name", "?name"),
		}},
	})

	rows := f.run(q)
	assert.Empty(t, rows)
}

func TestGraph_VariableNoNamedGraphs(t *testing.T) {
	f := newFixture(t)
	// A fresh dataset with no named graphs.
	ds := store.NewDataset()
	ds.Add(uri("a"), uri("p"), uri("b"))
	f.ds = ds
	f.src = store.NewMemorySource(ds)

	g := f.variable("g")
	q := algebra.NewQuery(&algebra.Graph{
		Term: store.VarTerm(g),
		Inner: &algebra.BGP{Patterns: []*store.Pattern{
			f.pattern("?s", "p", "?o"),
		}},
	})

	rows := f.run(q)
	assert.Empty(t, rows)
}
