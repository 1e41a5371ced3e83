// Package store provides the triples-source abstraction the execution
// engine matches basic graph patterns against, together with two concrete
// backends: an in-memory dataset and a SQLite-backed one.
//
// The engine is agnostic to where matches come from; it drives the Match
// cursor contract and nothing else.
package store

import (
	"context"

	"github.com/roach88/sparq/internal/literal"
	"github.com/roach88/sparq/internal/query"
)

// Triple is a fully-ground subject/predicate/object statement. Origin is
// the named graph holding the triple, nil for the default graph.
type Triple struct {
	Subject   *literal.Literal
	Predicate *literal.Literal
	Object    *literal.Literal
	Origin    *literal.Literal
}

// PatternTerm is one position of a triple pattern: either a ground term or
// a variable. Exactly one of the two fields is set.
type PatternTerm struct {
	Term *literal.Literal
	Var  *query.Variable
}

// IsVar reports whether the position is a variable.
func (p PatternTerm) IsVar() bool { return p.Var != nil }

// GroundTerm creates a ground pattern position.
func GroundTerm(l *literal.Literal) PatternTerm { return PatternTerm{Term: l} }

// VarTerm creates a variable pattern position.
func VarTerm(v *query.Variable) PatternTerm { return PatternTerm{Var: v} }

// Pattern is a triple pattern with 0-3 variable positions plus an origin
// restricting the match to one named graph (nil matches the default
// graph). The GRAPH compiler rewrites Origin for bound-IRI scoping; the
// graph rowsource swaps it per named graph at execution time.
type Pattern struct {
	Subject   PatternTerm
	Predicate PatternTerm
	Object    PatternTerm
	Origin    *literal.Literal

	// OriginVar, when set, receives the matched triple's graph URI. Used
	// by GRAPH ?g scoping.
	OriginVar *query.Variable
}

// IsGround reports whether the pattern has no variable positions.
func (p *Pattern) IsGround() bool {
	return !p.Subject.IsVar() && !p.Predicate.IsVar() && !p.Object.IsVar() && p.OriginVar == nil
}

// GroundTriple converts a ground pattern to the triple it denotes.
func (p *Pattern) GroundTriple() Triple {
	return Triple{
		Subject:   p.Subject.Term,
		Predicate: p.Predicate.Term,
		Object:    p.Object.Term,
		Origin:    p.Origin,
	}
}

// BindFlags is a bitmask of pattern positions a Bind call newly bound.
type BindFlags int

const (
	// BindSubject marks the subject position.
	BindSubject BindFlags = 1 << iota
	// BindPredicate marks the predicate position.
	BindPredicate
	// BindObject marks the object position.
	BindObject
	// BindOrigin marks the graph position.
	BindOrigin
)

// Match is a cursor over candidate triples for one pattern.
//
// The caller loop is: while !End(), try Bind(); Bind either binds the
// pattern's unbound variables to the current candidate and reports which
// positions it bound, or reports false when the candidate conflicts with
// variables bound by an outer pattern. Next advances to the following
// candidate. Close releases cursor resources and is idempotent.
type Match interface {
	Bind() (BindFlags, bool)
	Next()
	End() bool
	Close()
}

// Source matches triple patterns against stored facts.
//
// TriplePresent is the exact-match fast path for ground patterns;
// NewMatch constructs a cursor for patterns with at least one variable
// position.
type Source interface {
	TriplePresent(ctx context.Context, t Triple) (bool, error)
	NewMatch(ctx context.Context, p *Pattern) (Match, error)
}

// Graphs is the dataset-membership collaborator consumed by the GRAPH
// compiler step.
type Graphs interface {
	ContainsNamedGraph(uri string) bool
	NamedGraphs() []*literal.Literal
}

// matchesTerm tests one candidate term against one pattern position,
// recording tentative variable bindings in bound. Term identity (not
// value equality) applies: BGP matching joins on terms.
func matchTerm(pos PatternTerm, term *literal.Literal, flag BindFlags, bound *BindFlags) bool {
	if !pos.IsVar() {
		eq, err := literal.Equals(pos.Term, term, literal.CompareRDF)
		return err == nil && eq
	}
	if pos.Var.Value != nil {
		eq, err := literal.Equals(pos.Var.Value, term, literal.CompareRDF)
		return err == nil && eq
	}
	pos.Var.Value = term
	*bound |= flag
	return true
}

// bindCandidate applies a candidate triple to a pattern, binding unbound
// variables. On conflict every tentatively bound variable is unbound
// before returning false, so a failed Bind leaves no trace.
func bindCandidate(p *Pattern, t Triple) (BindFlags, bool) {
	var bound BindFlags
	ok := matchTerm(p.Subject, t.Subject, BindSubject, &bound) &&
		matchTerm(p.Predicate, t.Predicate, BindPredicate, &bound) &&
		matchTerm(p.Object, t.Object, BindObject, &bound)
	if ok && p.OriginVar != nil && t.Origin != nil {
		if p.OriginVar.Value != nil {
			eq, err := literal.Equals(p.OriginVar.Value, t.Origin, literal.CompareRDF)
			ok = err == nil && eq
		} else {
			p.OriginVar.Value = t.Origin
			bound |= BindOrigin
		}
	}
	if !ok {
		UnbindFlags(p, bound)
		return 0, false
	}
	return bound, true
}

// UnbindFlags clears the variable bindings a Bind call made, identified
// by its returned flags. The BGP rowsource calls this while backtracking.
func UnbindFlags(p *Pattern, flags BindFlags) {
	if flags&BindSubject != 0 && p.Subject.IsVar() {
		p.Subject.Var.Value = nil
	}
	if flags&BindPredicate != 0 && p.Predicate.IsVar() {
		p.Predicate.Var.Value = nil
	}
	if flags&BindObject != 0 && p.Object.IsVar() {
		p.Object.Var.Value = nil
	}
	if flags&BindOrigin != 0 && p.OriginVar != nil {
		p.OriginVar.Value = nil
	}
}
