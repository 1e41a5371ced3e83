package engine

import (
	"fmt"
	"strings"

	"github.com/roach88/sparq/internal/algebra"
	"github.com/roach88/sparq/internal/query"
	"github.com/roach88/sparq/internal/store"
)

// Explain renders the rowsource tree as an indented plan, one operator
// per line with its salient parameters. The output is deterministic for
// a given compiled query and is what `sparq explain` prints.
func Explain(rs Rowsource) string {
	var b strings.Builder
	explainNode(&b, rs, 0)
	return b.String()
}

func explainNode(b *strings.Builder, rs Rowsource, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(rs.Name())
	if d := explainDetail(rs); d != "" {
		b.WriteByte(' ')
		b.WriteString(d)
	}
	b.WriteByte('\n')
	for _, c := range rs.Children() {
		explainNode(b, c, depth+1)
	}
}

func explainDetail(rs Rowsource) string {
	switch s := rs.(type) {
	case *triplesRowsource:
		return fmt.Sprintf("patterns=%d vars=%s", len(s.patterns), varNames(s.vars))
	case *filterRowsource:
		return s.expr.String()
	case *joinRowsource:
		if s.expr != nil {
			return s.expr.String()
		}
		return ""
	case *graphRowsource:
		return s.graphVar.String()
	case *projectRowsource:
		return varNames(s.vars)
	case *sortRowsource:
		return sortDetail(s)
	case *groupByRowsource:
		return exprList(s.exprs)
	case *aggregationRowsource:
		return aggDetail(s.aggs)
	case *sliceRowsource:
		return fmt.Sprintf("limit=%d offset=%d", s.limit, s.offset)
	case *rowSequenceRowsource:
		return fmt.Sprintf("rows=%d", len(s.rows))
	default:
		return ""
	}
}

func varNames(vars []*query.Variable) string {
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func sortDetail(s *sortRowsource) string {
	parts := make([]string, 0, len(s.keys)+1)
	for _, k := range s.keys {
		dir := "asc"
		if !k.Ascending {
			dir = "desc"
		}
		parts = append(parts, k.Expr.String()+" "+dir)
	}
	out := "keys=[" + strings.Join(parts, ", ") + "]"
	if s.distinct {
		out += " distinct"
	}
	return out
}

func exprList(exprs []algebra.Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func aggDetail(aggs []*algebra.Aggregate) string {
	parts := make([]string, len(aggs))
	for i, a := range aggs {
		arg := "*"
		if a.Expr != nil {
			arg = a.Expr.String()
		}
		if a.Distinct {
			arg = "distinct " + arg
		}
		parts[i] = fmt.Sprintf("%s(%s) -> %s", a.Op, arg, a.Target)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// PatternString renders a triple pattern for diagnostics.
func PatternString(p *store.Pattern) string {
	pos := func(t store.PatternTerm) string {
		if t.IsVar() {
			return t.Var.String()
		}
		return t.Term.String()
	}
	out := fmt.Sprintf("%s %s %s", pos(p.Subject), pos(p.Predicate), pos(p.Object))
	switch {
	case p.Origin != nil:
		out += " @" + p.Origin.String()
	case p.OriginVar != nil:
		out += " @" + p.OriginVar.String()
	}
	return out
}
