package cli

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/sparq/internal/algebra"
	"github.com/roach88/sparq/internal/literal"
	"github.com/roach88/sparq/internal/query"
	"github.com/roach88/sparq/internal/store"
)

// Query files are JSON renderings of the algebra tree. Terms use
// N-Triples-like syntax ("<uri>", `"lit"^^<dt>`, "_:b1") and a leading
// '?' marks a variable.
//
// Node objects carry a "type" discriminator:
//
//	{"type":"bgp","patterns":[["?s","<p>","?o"],["?s","<p2>","?o2","?g"]]}
//	{"type":"filter","expr":E,"inner":N}
//	{"type":"join"|"leftjoin","left":N,"right":N,"expr":E?}
//	{"type":"union","left":N,"right":N}
//	{"type":"graph","term":"?g"|"<uri>","inner":N}
//	{"type":"values","vars":["x"],"rows":[["<a>"],[null]]}
//	{"type":"empty"}
//
// Expression objects are one of {"var":...}, {"term":...}, or
// {"op":...} with operator-specific fields.
type queryFile struct {
	Where      json.RawMessage   `json:"where"`
	GroupBy    []json.RawMessage `json:"groupBy"`
	Aggregates []aggregateJSON   `json:"aggregates"`
	Having     []json.RawMessage `json:"having"`
	Project    []string          `json:"project"`
	Bind       []bindJSON        `json:"bind"`
	OrderBy    []orderKeyJSON    `json:"orderBy"`
	Distinct   bool              `json:"distinct"`
	Limit      *int              `json:"limit"`
	Offset     *int              `json:"offset"`
}

type nodeJSON struct {
	Type     string          `json:"type"`
	Patterns [][]string      `json:"patterns"`
	Expr     json.RawMessage `json:"expr"`
	Inner    json.RawMessage `json:"inner"`
	Left     json.RawMessage `json:"left"`
	Right    json.RawMessage `json:"right"`
	Term     string          `json:"term"`
	Vars     []string        `json:"vars"`
	Rows     [][]*string     `json:"rows"`
}

type exprJSON struct {
	Var      string            `json:"var"`
	Term     string            `json:"term"`
	Op       string            `json:"op"`
	Left     json.RawMessage   `json:"left"`
	Right    json.RawMessage   `json:"right"`
	Inner    json.RawMessage   `json:"inner"`
	Datatype string            `json:"datatype"`
	Fn       string            `json:"fn"`
	Args     []json.RawMessage `json:"args"`
}

type orderKeyJSON struct {
	Expr json.RawMessage `json:"expr"`
	Desc bool            `json:"desc"`
}

type aggregateJSON struct {
	Op        string          `json:"op"`
	Expr      json.RawMessage `json:"expr"`
	As        string          `json:"as"`
	Distinct  bool            `json:"distinct"`
	Separator string          `json:"separator"`
}

type bindJSON struct {
	Var  string          `json:"var"`
	Expr json.RawMessage `json:"expr"`
}

var cmpOps = map[string]algebra.CmpOp{
	"=": algebra.OpEQ, "!=": algebra.OpNE,
	"<": algebra.OpLT, ">": algebra.OpGT,
	"<=": algebra.OpLE, ">=": algebra.OpGE,
}

var arithOps = map[string]algebra.ArithOp{
	"+": algebra.OpAdd, "-": algebra.OpSub,
	"*": algebra.OpMul, "/": algebra.OpDiv,
}

// queryDecoder accumulates the variables table and the triple patterns
// while walking the JSON tree.
type queryDecoder struct {
	vt       *query.VarTable
	patterns []*store.Pattern
}

// DecodeQuery parses a JSON query file into an algebra query plus the
// variables table its patterns are built against. The returned patterns
// list is for diagnostics.
func DecodeQuery(data []byte) (*algebra.Query, *query.VarTable, []*store.Pattern, error) {
	var qf queryFile
	if err := json.Unmarshal(data, &qf); err != nil {
		return nil, nil, nil, fmt.Errorf("parsing query file: %w", err)
	}
	if len(qf.Where) == 0 {
		return nil, nil, nil, fmt.Errorf("query file has no \"where\" pattern")
	}

	d := &queryDecoder{vt: query.NewVarTable()}
	where, err := d.decodeNode(qf.Where)
	if err != nil {
		return nil, nil, nil, err
	}
	q := algebra.NewQuery(where)

	for _, raw := range qf.GroupBy {
		e, err := d.decodeExpr(raw)
		if err != nil {
			return nil, nil, nil, err
		}
		q.GroupBy = append(q.GroupBy, e)
	}
	for _, a := range qf.Aggregates {
		agg, err := d.decodeAggregate(a)
		if err != nil {
			return nil, nil, nil, err
		}
		q.Aggregates = append(q.Aggregates, agg)
	}
	for _, raw := range qf.Having {
		e, err := d.decodeExpr(raw)
		if err != nil {
			return nil, nil, nil, err
		}
		q.Having = append(q.Having, e)
	}
	for _, b := range qf.Bind {
		v, err := d.variable(b.Var)
		if err != nil {
			return nil, nil, nil, err
		}
		e, err := d.decodeExpr(b.Expr)
		if err != nil {
			return nil, nil, nil, err
		}
		v.Expr = e
	}
	for _, name := range qf.Project {
		v, err := d.variable(name)
		if err != nil {
			return nil, nil, nil, err
		}
		q.Project = append(q.Project, v)
	}
	for _, k := range qf.OrderBy {
		e, err := d.decodeExpr(k.Expr)
		if err != nil {
			return nil, nil, nil, err
		}
		q.OrderBy = append(q.OrderBy, algebra.OrderKey{Expr: e, Ascending: !k.Desc})
	}
	q.Distinct = qf.Distinct
	if qf.Limit != nil {
		q.Limit = *qf.Limit
	}
	if qf.Offset != nil {
		q.Offset = *qf.Offset
	}
	return q, d.vt, d.patterns, nil
}

func (d *queryDecoder) decodeNode(raw json.RawMessage) (algebra.Node, error) {
	var n nodeJSON
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("parsing node: %w", err)
	}
	switch n.Type {
	case "bgp":
		return d.decodeBGP(n.Patterns)

	case "filter":
		expr, err := d.decodeExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		inner, err := d.decodeNode(n.Inner)
		if err != nil {
			return nil, err
		}
		return &algebra.Filter{Expr: expr, Inner: inner}, nil

	case "join", "leftjoin":
		left, err := d.decodeNode(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.decodeNode(n.Right)
		if err != nil {
			return nil, err
		}
		var expr algebra.Expr
		if len(n.Expr) > 0 {
			if expr, err = d.decodeExpr(n.Expr); err != nil {
				return nil, err
			}
		}
		if n.Type == "leftjoin" {
			return &algebra.LeftJoin{Left: left, Right: right, Expr: expr}, nil
		}
		return &algebra.Join{Left: left, Right: right, Expr: expr}, nil

	case "union":
		left, err := d.decodeNode(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.decodeNode(n.Right)
		if err != nil {
			return nil, err
		}
		return &algebra.Union{Left: left, Right: right}, nil

	case "graph":
		term, err := d.patternTerm(n.Term)
		if err != nil {
			return nil, err
		}
		inner, err := d.decodeNode(n.Inner)
		if err != nil {
			return nil, err
		}
		return &algebra.Graph{Term: term, Inner: inner}, nil

	case "values":
		return d.decodeValues(n.Vars, n.Rows)

	case "empty":
		return &algebra.Empty{}, nil

	default:
		return nil, fmt.Errorf("unknown node type %q", n.Type)
	}
}

func (d *queryDecoder) decodeBGP(patterns [][]string) (algebra.Node, error) {
	bgp := &algebra.BGP{}
	for _, terms := range patterns {
		if len(terms) != 3 && len(terms) != 4 {
			return nil, fmt.Errorf("pattern needs 3 or 4 terms, got %d", len(terms))
		}
		p := &store.Pattern{}
		var err error
		if p.Subject, err = d.patternTerm(terms[0]); err != nil {
			return nil, err
		}
		if p.Predicate, err = d.patternTerm(terms[1]); err != nil {
			return nil, err
		}
		if p.Object, err = d.patternTerm(terms[2]); err != nil {
			return nil, err
		}
		if len(terms) == 4 {
			g, err := d.patternTerm(terms[3])
			if err != nil {
				return nil, err
			}
			if g.IsVar() {
				p.OriginVar = g.Var
			} else {
				p.Origin = g.Term
			}
		}
		bgp.Patterns = append(bgp.Patterns, p)
		d.patterns = append(d.patterns, p)
	}
	return bgp, nil
}

func (d *queryDecoder) decodeValues(names []string, rows [][]*string) (algebra.Node, error) {
	vals := &algebra.Values{}
	for _, name := range names {
		v, err := d.variable(name)
		if err != nil {
			return nil, err
		}
		vals.Vars = append(vals.Vars, v)
	}
	for _, tuple := range rows {
		row := make([]*literal.Literal, len(tuple))
		for i, s := range tuple {
			if s == nil {
				continue // UNDEF
			}
			l, err := literal.ParseTerm(*s)
			if err != nil {
				return nil, fmt.Errorf("VALUES term %q: %w", *s, err)
			}
			row[i] = l
		}
		vals.Rows = append(vals.Rows, row)
	}
	return vals, nil
}

func (d *queryDecoder) decodeExpr(raw json.RawMessage) (algebra.Expr, error) {
	var e exprJSON
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("parsing expression: %w", err)
	}
	switch {
	case e.Var != "":
		v, err := d.variable(e.Var)
		if err != nil {
			return nil, err
		}
		return &algebra.VarRef{Var: v}, nil

	case e.Term != "":
		l, err := literal.ParseTerm(e.Term)
		if err != nil {
			return nil, fmt.Errorf("expression term %q: %w", e.Term, err)
		}
		return &algebra.Const{Value: l}, nil
	}

	if op, ok := cmpOps[e.Op]; ok {
		left, right, err := d.decodePair(e.Left, e.Right)
		if err != nil {
			return nil, err
		}
		return &algebra.Cmp{Op: op, Left: left, Right: right}, nil
	}
	switch e.Op {
	case "&&", "||":
		left, right, err := d.decodePair(e.Left, e.Right)
		if err != nil {
			return nil, err
		}
		op := algebra.OpAnd
		if e.Op == "||" {
			op = algebra.OpOr
		}
		return &algebra.Logic{Op: op, Left: left, Right: right}, nil

	case "!":
		left, err := d.decodeExpr(e.Left)
		if err != nil {
			return nil, err
		}
		return &algebra.Logic{Op: algebra.OpNot, Left: left}, nil

	case "neg":
		left, err := d.decodeExpr(e.Left)
		if err != nil {
			return nil, err
		}
		return &algebra.Arith{Op: algebra.OpNeg, Left: left}, nil

	case "cast":
		inner, err := d.decodeExpr(e.Inner)
		if err != nil {
			return nil, err
		}
		return &algebra.CastExpr{Datatype: e.Datatype, Inner: inner}, nil

	case "call":
		fn, ok := algebra.CallOpByName(e.Fn)
		if !ok {
			return nil, fmt.Errorf("unknown function %q", e.Fn)
		}
		call := &algebra.Call{Op: fn}
		for _, arg := range e.Args {
			a, err := d.decodeExpr(arg)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, a)
		}
		return call, nil
	}
	if op, ok := arithOps[e.Op]; ok {
		left, right, err := d.decodePair(e.Left, e.Right)
		if err != nil {
			return nil, err
		}
		return &algebra.Arith{Op: op, Left: left, Right: right}, nil
	}
	return nil, fmt.Errorf("unknown expression operator %q", e.Op)
}

func (d *queryDecoder) decodePair(left, right json.RawMessage) (algebra.Expr, algebra.Expr, error) {
	l, err := d.decodeExpr(left)
	if err != nil {
		return nil, nil, err
	}
	r, err := d.decodeExpr(right)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func (d *queryDecoder) decodeAggregate(a aggregateJSON) (*algebra.Aggregate, error) {
	op, ok := algebra.AggOpByName(a.Op)
	if !ok {
		return nil, fmt.Errorf("unknown aggregate %q", a.Op)
	}
	if a.As == "" {
		return nil, fmt.Errorf("aggregate %s needs an \"as\" target variable", a.Op)
	}
	target, err := d.variable(a.As)
	if err != nil {
		return nil, err
	}
	agg := &algebra.Aggregate{
		Op:        op,
		Distinct:  a.Distinct,
		Separator: a.Separator,
		Target:    target,
	}
	if len(a.Expr) > 0 {
		if agg.Expr, err = d.decodeExpr(a.Expr); err != nil {
			return nil, err
		}
	} else if op != algebra.AggCount {
		return nil, fmt.Errorf("aggregate %s needs an expression", op)
	}
	return agg, nil
}

func (d *queryDecoder) variable(name string) (*query.Variable, error) {
	if len(name) > 0 && name[0] == '?' {
		name = name[1:]
	}
	if name == "" {
		return nil, fmt.Errorf("empty variable name")
	}
	return d.vt.Add(query.VarNormal, name)
}

func (d *queryDecoder) patternTerm(s string) (store.PatternTerm, error) {
	if s == "" {
		return store.PatternTerm{}, fmt.Errorf("empty pattern term")
	}
	if s[0] == '?' {
		v, err := d.variable(s)
		if err != nil {
			return store.PatternTerm{}, err
		}
		return store.VarTerm(v), nil
	}
	l, err := literal.ParseTerm(s)
	if err != nil {
		return store.PatternTerm{}, fmt.Errorf("pattern term %q: %w", s, err)
	}
	return store.GroundTerm(l), nil
}
