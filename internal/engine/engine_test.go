package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/sparq/internal/algebra"
	"github.com/roach88/sparq/internal/literal"
	"github.com/roach88/sparq/internal/query"
	"github.com/roach88/sparq/internal/store"
)

func uri(local string) *literal.Literal {
	return literal.NewURI("http://example.org/" + local)
}

// fixture bundles the shared test dataset with a fresh variables table.
type fixture struct {
	t   *testing.T
	ds  *store.Dataset
	src *store.MemorySource
	vt  *query.VarTable
}

// newFixture builds the standard test graph:
//
//	alice name "Alice" ; age 30 ; knows bob
//	bob   name "Bob"   ; age 25 ; knows carol
//	carol name "Carol"
//
// plus two named graphs holding one email triple each.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ds := store.NewDataset()
	ds.Add(uri("alice"), uri("name"), literal.NewString("Alice"))
	ds.Add(uri("alice"), uri("age"), literal.NewInteger(30))
	ds.Add(uri("alice"), uri("knows"), uri("bob"))
	ds.Add(uri("bob"), uri("name"), literal.NewString("Bob"))
	ds.Add(uri("bob"), uri("age"), literal.NewInteger(25))
	ds.Add(uri("bob"), uri("knows"), uri("carol"))
	ds.Add(uri("carol"), uri("name"), literal.NewString("Carol"))
	ds.AddToGraph("http://example.org/g1", uri("alice"), uri("email"), literal.NewString("alice@example.org"))
	ds.AddToGraph("http://example.org/g2", uri("bob"), uri("email"), literal.NewString("bob@example.org"))
	return &fixture{
		t:   t,
		ds:  ds,
		src: store.NewMemorySource(ds),
		vt:  query.NewVarTable(),
	}
}

func (f *fixture) variable(name string) *query.Variable {
	f.t.Helper()
	v, err := f.vt.Add(query.VarNormal, name)
	require.NoError(f.t, err)
	return v
}

// pattern builds a triple pattern from compact strings: a leading '?'
// makes a variable, a leading '"' or digit parses a literal term, and
// anything else becomes an example-namespace URI.
func (f *fixture) pattern(s, p, o string) *store.Pattern {
	f.t.Helper()
	return &store.Pattern{
		Subject:   f.term(s),
		Predicate: f.term(p),
		Object:    f.term(o),
	}
}

func (f *fixture) term(s string) store.PatternTerm {
	f.t.Helper()
	if s[0] == '?' {
		return store.VarTerm(f.variable(s[1:]))
	}
	if s[0] == '"' || (s[0] >= '0' && s[0] <= '9') {
		l, err := literal.ParseTerm(s)
		require.NoError(f.t, err)
		return store.GroundTerm(l)
	}
	return store.GroundTerm(uri(s))
}

// run compiles and drains a query.
func (f *fixture) run(q *algebra.Query) []*query.Row {
	f.t.Helper()
	rs, err := Compile(context.Background(), q, f.src, f.vt)
	require.NoError(f.t, err)
	f.t.Cleanup(func() { rs.Close() })
	rows, err := rs.ReadAllRows()
	require.NoError(f.t, err)
	return rows
}

// values extracts one variable's binding from every row.
func rowValues(rows []*query.Row, v *query.Variable) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		if val := r.Value(v.Offset); val != nil {
			out[i] = val.Lexical()
		}
	}
	return out
}

// requireSameRows checks two reads of the same rowsource produce the
// same value sequences in the same order.
func requireSameRows(t *testing.T, a, b []*query.Row) {
	t.Helper()
	require.Equal(t, len(a), len(b))
	for i := range a {
		require.True(t, query.EqualSequences(a[i].Values, b[i].Values, literal.CompareRDF),
			"row %d differs: %s vs %s", i, a[i], b[i])
	}
}

func TestCompile_EmptyBGPProducesJoinIdentity(t *testing.T) {
	f := newFixture(t)
	rows := f.run(algebra.NewQuery(&algebra.BGP{}))
	require.Len(t, rows, 1)
}

func TestExecutor_EndToEnd(t *testing.T) {
	f := newFixture(t)
	name := f.variable("name")
	q := algebra.NewQuery(&algebra.BGP{Patterns: []*store.Pattern{
		f.pattern("alice", "name", "?name"),
	}})

	e := NewExecutor(f.src)
	res, err := e.Execute(context.Background(), q, f.vt)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, "Alice", res.Rows[0].Value(name.Offset).Lexical())
}

func TestExecutor_CanceledContext(t *testing.T) {
	f := newFixture(t)
	q := algebra.NewQuery(&algebra.BGP{Patterns: []*store.Pattern{
		f.pattern("?s", "name", "?name"),
	}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewExecutor(f.src)
	_, err := e.Execute(ctx, q, f.vt)
	require.Error(t, err)
	require.True(t, IsCanceled(err))
}
