// Package algebra defines the query algebra the engine compiles: graph
// pattern nodes, the expression tree evaluated by filters and modifiers,
// and the top-level Query shape carrying solution modifiers in their
// fixed application order.
package algebra

import (
	"github.com/roach88/sparq/internal/literal"
	"github.com/roach88/sparq/internal/query"
	"github.com/roach88/sparq/internal/store"
)

// Node represents one graph-pattern operator in the algebra tree.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the compiler.
type Node interface {
	algebraNode() // Marker method - seals interface to this package
}

// BGP is a basic graph pattern: a conjunction of triple patterns sharing
// variable bindings, evaluated as a backtracking multi-way join.
type BGP struct {
	Patterns []*store.Pattern
}

func (*BGP) algebraNode() {}

// Filter keeps only the inner solutions whose expression has an effective
// boolean value of true. An expression error counts as false.
type Filter struct {
	Expr  Expr
	Inner Node
}

func (*Filter) algebraNode() {}

// Join is the natural join of two patterns, with an optional additional
// join expression.
type Join struct {
	Left, Right Node
	Expr        Expr
}

func (*Join) algebraNode() {}

// LeftJoin implements OPTIONAL: every left solution survives, extended by
// compatible right solutions when they exist.
type LeftJoin struct {
	Left, Right Node
	Expr        Expr
}

func (*LeftJoin) algebraNode() {}

// Union concatenates the solutions of both sides.
type Union struct {
	Left, Right Node
}

func (*Union) algebraNode() {}

// Graph scopes the inner pattern to one graph. Term is either a ground
// URI or a variable; the compiler splits the three dataset-membership
// cases.
type Graph struct {
	Term  store.PatternTerm
	Inner Node
}

func (*Graph) algebraNode() {}

// Values is an inline binding table (SPARQL VALUES): each row binds the
// listed variables positionally, nil meaning UNDEF.
type Values struct {
	Vars []*query.Variable
	Rows [][]*literal.Literal
}

func (*Values) algebraNode() {}

// Empty produces no solutions. The compiler substitutes it for statically
// empty subtrees such as GRAPH over an absent graph.
type Empty struct{}

func (*Empty) algebraNode() {}

// OrderKey is one ORDER BY sort key.
type OrderKey struct {
	Expr      Expr
	Ascending bool
}

// Query is a complete parsed query: the WHERE pattern plus solution
// modifiers. The engine applies the modifiers in a fixed order - group by,
// aggregation, having, projection, order by, distinct, slice - and that
// order is a contract: ORDER BY must see post-projection variables but
// pre-slice rows.
type Query struct {
	Where Node

	GroupBy    []Expr
	Aggregates []*Aggregate
	Having     []Expr

	// Project lists the output variables; nil projects all named
	// variables.
	Project []*query.Variable

	OrderBy  []OrderKey
	Distinct bool

	// Limit and Offset are -1 when absent. Limit 0 is a valid empty
	// window.
	Limit  int
	Offset int
}

// NewQuery creates a query with no modifiers set.
func NewQuery(where Node) *Query {
	return &Query{Where: where, Limit: -1, Offset: -1}
}

// HasSlice reports whether a LIMIT or OFFSET applies.
func (q *Query) HasSlice() bool {
	return q.Limit >= 0 || q.Offset >= 0
}
