package engine

import (
	"context"
	"fmt"

	"github.com/roach88/sparq/internal/algebra"
	"github.com/roach88/sparq/internal/literal"
	"github.com/roach88/sparq/internal/query"
	"github.com/roach88/sparq/internal/store"
)

// Dataset is the store surface compilation needs: triple matching plus
// named-graph membership. Both the in-memory and the SQLite backends
// satisfy it.
type Dataset interface {
	store.Source
	store.Graphs
}

// compileEnv carries the fixed collaborators of one compilation. The
// context is captured into leaf rowsources, so a compiled tree is bound
// to a single execution.
type compileEnv struct {
	ctx context.Context
	src Dataset
	vt  *query.VarTable
	ec  *algebra.EvalContext
}

// Compile turns a query into an executable rowsource tree over the given
// dataset. Solution modifiers stack above the WHERE pattern in a fixed
// order: group sort, group by, aggregation, having, projection,
// order/distinct sort, slice. The caller owns Close on the result.
func Compile(ctx context.Context, q *algebra.Query, src Dataset, vt *query.VarTable) (Rowsource, error) {
	env := &compileEnv{ctx: ctx, src: src, vt: vt, ec: algebra.NewEvalContext()}

	rs, err := env.compileNode(q.Where)
	if err != nil {
		return nil, err
	}

	if len(q.GroupBy) > 0 {
		keys := make([]algebra.OrderKey, len(q.GroupBy))
		for i, e := range q.GroupBy {
			keys[i] = algebra.OrderKey{Expr: e, Ascending: true}
		}
		rs = newSortRowsource(rs, vt, env.ec, keys, false)
		rs = newGroupByRowsource(rs, vt, env.ec, q.GroupBy)
	}
	// With GROUP BY present the aggregation stage runs even with no
	// aggregates: each group still collapses to one row.
	if len(q.Aggregates) > 0 || len(q.GroupBy) > 0 {
		rs = newAggregationRowsource(rs, vt, env.ec, q.Aggregates, len(q.GroupBy) == 0)
	}
	for _, h := range q.Having {
		rs = newFilterRowsource(rs, vt, env.ec, h)
	}

	project := q.Project
	if project == nil {
		for _, v := range vt.Variables() {
			if v.Kind == query.VarNormal {
				project = append(project, v)
			}
		}
	}
	rs = newProjectRowsource(rs, vt, env.ec, project)

	if len(q.OrderBy) > 0 || q.Distinct {
		rs = newSortRowsource(rs, vt, env.ec, q.OrderBy, q.Distinct)
	}
	if q.HasSlice() {
		rs = newSliceRowsource(rs, q.Limit, q.Offset)
	}
	return rs, nil
}

func (env *compileEnv) compileNode(n algebra.Node) (Rowsource, error) {
	switch n := n.(type) {
	case *algebra.BGP:
		if len(n.Patterns) == 0 {
			// Empty pattern: one all-unbound row, the join identity.
			return NewRowSequence(nil, []*query.Row{query.NewRow(env.vt)}), nil
		}
		return newTriplesRowsource(env.ctx, env.src, env.vt, n.Patterns), nil

	case *algebra.Filter:
		inner, err := env.compileNode(n.Inner)
		if err != nil {
			return nil, err
		}
		return newFilterRowsource(inner, env.vt, env.ec, n.Expr), nil

	case *algebra.Join:
		return env.compileJoin(n.Left, n.Right, n.Expr, false)

	case *algebra.LeftJoin:
		return env.compileJoin(n.Left, n.Right, n.Expr, true)

	case *algebra.Union:
		left, err := env.compileNode(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := env.compileNode(n.Right)
		if err != nil {
			return nil, err
		}
		return newUnionRowsource(left, right), nil

	case *algebra.Graph:
		return env.compileGraph(n)

	case *algebra.Values:
		return env.compileValues(n)

	case *algebra.Empty:
		return newEmptyRowsource(), nil

	default:
		return nil, NewCompileError(fmt.Sprintf("unknown algebra node %T", n), nil)
	}
}

func (env *compileEnv) compileJoin(l, r algebra.Node, expr algebra.Expr, leftOuter bool) (Rowsource, error) {
	left, err := env.compileNode(l)
	if err != nil {
		return nil, err
	}
	right, err := env.compileNode(r)
	if err != nil {
		return nil, err
	}
	return newJoinRowsource(left, right, env.vt, env.ec, expr, leftOuter), nil
}

// compileGraph splits the three GRAPH cases on the graph term:
//
//   - ground URI present in the dataset: compile the inner pattern and
//     rewrite its origins, no extra operator
//   - ground URI absent: statically empty
//   - variable: a graph rowsource iterating the named graphs
func (env *compileEnv) compileGraph(n *algebra.Graph) (Rowsource, error) {
	if !n.Term.IsVar() {
		uri := n.Term.Term
		if uri == nil || uri.Kind() != literal.KindURI {
			return nil, NewCompileError("GRAPH term must be a URI or variable", nil)
		}
		if !env.src.ContainsNamedGraph(uri.Lexical()) {
			return newEmptyRowsource(), nil
		}
		inner, err := env.compileNode(n.Inner)
		if err != nil {
			return nil, err
		}
		inner.SetOrigin(uri)
		return inner, nil
	}
	inner, err := env.compileNode(n.Inner)
	if err != nil {
		return nil, err
	}
	return newGraphRowsource(inner, n.Term.Var, env.src.NamedGraphs()), nil
}

func (env *compileEnv) compileValues(n *algebra.Values) (Rowsource, error) {
	rows := make([]*query.Row, 0, len(n.Rows))
	for _, tuple := range n.Rows {
		if len(tuple) != len(n.Vars) {
			return nil, NewCompileError(
				fmt.Sprintf("VALUES row has %d terms for %d variables", len(tuple), len(n.Vars)), nil)
		}
		row := query.NewRow(env.vt)
		for i, v := range tuple {
			if v != nil {
				row.SetValue(n.Vars[i].Offset, v)
			}
		}
		rows = append(rows, row)
	}
	return NewRowSequence(n.Vars, rows), nil
}
