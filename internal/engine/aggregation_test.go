package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparq/internal/algebra"
	"github.com/roach88/sparq/internal/literal"
	"github.com/roach88/sparq/internal/query"
	"github.com/roach88/sparq/internal/store"
)

// scoresFixture extends the base graph with per-person scores so groups
// have multiple members:
//
//	alice score 10, 20   bob score 30   carol score 40, 40
func scoresFixture(t *testing.T) (*fixture, *query.Variable, *query.Variable) {
	t.Helper()
	f := newFixture(t)
	f.ds.Add(uri("alice"), uri("score"), literal.NewInteger(10))
	f.ds.Add(uri("alice"), uri("score"), literal.NewInteger(20))
	f.ds.Add(uri("bob"), uri("score"), literal.NewInteger(30))
	f.ds.Add(uri("carol"), uri("score"), literal.NewInteger(40))
	f.ds.Add(uri("carol"), uri("score"), literal.NewInteger(40))
	s := f.variable("s")
	score := f.variable("score")
	return f, s, score
}

func scoresQuery(f *fixture) *algebra.Query {
	return algebra.NewQuery(&algebra.BGP{Patterns: []*store.Pattern{
		f.pattern("?s", "score", "?score"),
	}})
}

func TestGroupBy_AssignsConsecutiveGroups(t *testing.T) {
	f, s, _ := scoresFixture(t)

	q := scoresQuery(f)
	q.GroupBy = []algebra.Expr{&algebra.VarRef{Var: s}}
	total := f.variable("total")
	q.Aggregates = []*algebra.Aggregate{
		{Op: algebra.AggCount, Target: total},
	}
	q.OrderBy = []algebra.OrderKey{{Expr: &algebra.VarRef{Var: s}, Ascending: true}}

	rows := f.run(q)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2", "1", "2"}, rowValues(rows, total))
}

// GROUP BY without any aggregate still collapses each group to one row.
func TestGroupBy_WithoutAggregates(t *testing.T) {
	f, s, _ := scoresFixture(t)

	q := scoresQuery(f)
	q.GroupBy = []algebra.Expr{&algebra.VarRef{Var: s}}
	q.OrderBy = []algebra.OrderKey{{Expr: &algebra.VarRef{Var: s}, Ascending: true}}

	rows := f.run(q)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"http://example.org/alice",
		"http://example.org/bob",
		"http://example.org/carol",
	}, rowValues(rows, s))
}

func TestAggregation_SumAvgMinMax(t *testing.T) {
	f, s, score := scoresFixture(t)

	sum := f.variable("sum")
	avg := f.variable("avg")
	min := f.variable("min")
	max := f.variable("max")

	q := scoresQuery(f)
	q.GroupBy = []algebra.Expr{&algebra.VarRef{Var: s}}
	q.Aggregates = []*algebra.Aggregate{
		{Op: algebra.AggSum, Expr: &algebra.VarRef{Var: score}, Target: sum},
		{Op: algebra.AggAvg, Expr: &algebra.VarRef{Var: score}, Target: avg},
		{Op: algebra.AggMin, Expr: &algebra.VarRef{Var: score}, Target: min},
		{Op: algebra.AggMax, Expr: &algebra.VarRef{Var: score}, Target: max},
	}
	q.OrderBy = []algebra.OrderKey{{Expr: &algebra.VarRef{Var: s}, Ascending: true}}

	rows := f.run(q)
	require.Len(t, rows, 3)

	// alice: 10+20.
	assert.Equal(t, "30", rows[0].Value(sum.Offset).Lexical())
	assert.Equal(t, "15", rows[0].Value(avg.Offset).Lexical())
	assert.Equal(t, "10", rows[0].Value(min.Offset).Lexical())
	assert.Equal(t, "20", rows[0].Value(max.Offset).Lexical())
	// bob: single value.
	assert.Equal(t, "30", rows[1].Value(sum.Offset).Lexical())
	// carol: 40+40.
	assert.Equal(t, "80", rows[2].Value(sum.Offset).Lexical())
}

func TestAggregation_CountDistinct(t *testing.T) {
	f, s, score := scoresFixture(t)

	distinct := f.variable("distinct")
	q := scoresQuery(f)
	q.GroupBy = []algebra.Expr{&algebra.VarRef{Var: s}}
	q.Aggregates = []*algebra.Aggregate{
		{Op: algebra.AggCount, Expr: &algebra.VarRef{Var: score}, Distinct: true, Target: distinct},
	}
	q.OrderBy = []algebra.OrderKey{{Expr: &algebra.VarRef{Var: s}, Ascending: true}}

	rows := f.run(q)
	require.Len(t, rows, 3)
	// carol's two 40s collapse.
	assert.Equal(t, []string{"2", "1", "1"}, rowValues(rows, distinct))
}

func TestAggregation_GroupConcatAndSample(t *testing.T) {
	f, s, score := scoresFixture(t)

	concat := f.variable("concat")
	sample := f.variable("sample")
	q := scoresQuery(f)
	q.GroupBy = []algebra.Expr{&algebra.VarRef{Var: s}}
	q.Aggregates = []*algebra.Aggregate{
		{Op: algebra.AggGroupConcat, Expr: &algebra.VarRef{Var: score}, Separator: ",", Target: concat},
		{Op: algebra.AggSample, Expr: &algebra.VarRef{Var: score}, Target: sample},
	}
	q.OrderBy = []algebra.OrderKey{{Expr: &algebra.VarRef{Var: s}, Ascending: true}}

	rows := f.run(q)
	require.Len(t, rows, 3)
	assert.Equal(t, "10,20", rows[0].Value(concat.Offset).Lexical())
	assert.Equal(t, "10", rows[0].Value(sample.Offset).Lexical())
}

// Aggregating without GROUP BY treats the whole input as one group.
func TestAggregation_ImplicitGroup(t *testing.T) {
	f, _, score := scoresFixture(t)

	sum := f.variable("sum")
	q := scoresQuery(f)
	q.Aggregates = []*algebra.Aggregate{
		{Op: algebra.AggSum, Expr: &algebra.VarRef{Var: score}, Target: sum},
	}

	rows := f.run(q)
	require.Len(t, rows, 1)
	assert.Equal(t, "140", rows[0].Value(sum.Offset).Lexical())
}

// COUNT over an empty implicit group still yields one row with 0.
func TestAggregation_ImplicitGroupEmptyInput(t *testing.T) {
	f := newFixture(t)
	total := f.variable("total")
	sum := f.variable("sum")
	avg := f.variable("avg")
	v := f.variable("v")

	q := algebra.NewQuery(&algebra.BGP{Patterns: []*store.Pattern{
		f.pattern("?s", "missing", "?v"),
	}})
	q.Aggregates = []*algebra.Aggregate{
		{Op: algebra.AggCount, Target: total},
		{Op: algebra.AggSum, Expr: &algebra.VarRef{Var: v}, Target: sum},
		{Op: algebra.AggAvg, Expr: &algebra.VarRef{Var: v}, Target: avg},
	}

	rows := f.run(q)
	require.Len(t, rows, 1)
	assert.Equal(t, "0", rows[0].Value(total.Offset).Lexical())
	assert.Equal(t, "0", rows[0].Value(sum.Offset).Lexical())
	assert.Nil(t, rows[0].Value(avg.Offset), "avg of nothing stays unbound")
}

func TestHaving_FiltersGroups(t *testing.T) {
	f, s, score := scoresFixture(t)

	sum := f.variable("sum")
	q := scoresQuery(f)
	q.GroupBy = []algebra.Expr{&algebra.VarRef{Var: s}}
	q.Aggregates = []*algebra.Aggregate{
		{Op: algebra.AggSum, Expr: &algebra.VarRef{Var: score}, Target: sum},
	}
	q.Having = []algebra.Expr{&algebra.Cmp{
		Op:    algebra.OpGT,
		Left:  &algebra.VarRef{Var: sum},
		Right: &algebra.Const{Value: literal.NewInteger(30)},
	}}
	q.OrderBy = []algebra.OrderKey{{Expr: &algebra.VarRef{Var: s}, Ascending: true}}

	rows := f.run(q)
	require.Len(t, rows, 1)
	assert.Equal(t, "80", rows[0].Value(sum.Offset).Lexical())
}
