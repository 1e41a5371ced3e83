package store

import (
	"context"

	"github.com/roach88/sparq/internal/literal"
)

// Dataset is an in-memory RDF dataset: one default graph plus zero or
// more named graphs. Graph insertion order is preserved so GRAPH ?g
// iteration is deterministic.
type Dataset struct {
	defaultGraph []Triple
	named        map[string][]Triple
	graphOrder   []string
}

// NewDataset creates an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{named: make(map[string][]Triple)}
}

// Add appends a triple to the default graph.
func (d *Dataset) Add(s, p, o *literal.Literal) {
	d.defaultGraph = append(d.defaultGraph, Triple{Subject: s, Predicate: p, Object: o})
}

// AddToGraph appends a triple to the named graph with the given URI,
// creating the graph if absent.
func (d *Dataset) AddToGraph(graphURI string, s, p, o *literal.Literal) {
	if _, ok := d.named[graphURI]; !ok {
		d.graphOrder = append(d.graphOrder, graphURI)
	}
	origin := literal.NewURI(graphURI)
	d.named[graphURI] = append(d.named[graphURI], Triple{
		Subject: s, Predicate: p, Object: o, Origin: origin,
	})
}

// ContainsNamedGraph implements Graphs.
func (d *Dataset) ContainsNamedGraph(uri string) bool {
	_, ok := d.named[uri]
	return ok
}

// NamedGraphs implements Graphs, returning graph URIs in insertion order.
func (d *Dataset) NamedGraphs() []*literal.Literal {
	out := make([]*literal.Literal, 0, len(d.graphOrder))
	for _, uri := range d.graphOrder {
		out = append(out, literal.NewURI(uri))
	}
	return out
}

// Size returns the total triple count across all graphs.
func (d *Dataset) Size() int {
	n := len(d.defaultGraph)
	for _, g := range d.named {
		n += len(g)
	}
	return n
}

// graph returns the triples visible to a pattern origin: the default
// graph for nil, the matching named graph otherwise.
func (d *Dataset) graph(origin *literal.Literal) []Triple {
	if origin == nil {
		return d.defaultGraph
	}
	return d.named[origin.Lexical()]
}

// MemorySource exposes a Dataset through the Source contract. Matching is
// a filtered scan; candidate triples are selected by the pattern's ground
// positions at cursor creation.
type MemorySource struct {
	ds *Dataset
}

// NewMemorySource wraps a dataset.
func NewMemorySource(ds *Dataset) *MemorySource {
	return &MemorySource{ds: ds}
}

// ContainsNamedGraph implements Graphs.
func (m *MemorySource) ContainsNamedGraph(uri string) bool {
	return m.ds.ContainsNamedGraph(uri)
}

// NamedGraphs implements Graphs.
func (m *MemorySource) NamedGraphs() []*literal.Literal {
	return m.ds.NamedGraphs()
}

// TriplePresent implements Source.
func (m *MemorySource) TriplePresent(_ context.Context, t Triple) (bool, error) {
	for _, cand := range m.ds.graph(t.Origin) {
		if sameTerm(cand.Subject, t.Subject) &&
			sameTerm(cand.Predicate, t.Predicate) &&
			sameTerm(cand.Object, t.Object) {
			return true, nil
		}
	}
	return false, nil
}

// NewMatch implements Source.
func (m *MemorySource) NewMatch(_ context.Context, p *Pattern) (Match, error) {
	var candidates []Triple
	if p.Origin == nil && p.OriginVar != nil {
		// GRAPH ?g with no scope yet: candidates come from every named
		// graph, in dataset insertion order.
		for _, uri := range m.ds.graphOrder {
			candidates = append(candidates, m.ds.named[uri]...)
		}
	} else {
		candidates = m.ds.graph(p.Origin)
	}
	// Pre-filter on ground positions; variable conflicts are Bind's job.
	filtered := make([]Triple, 0, len(candidates))
	for _, t := range candidates {
		if !p.Subject.IsVar() && !sameTerm(t.Subject, p.Subject.Term) {
			continue
		}
		if !p.Predicate.IsVar() && !sameTerm(t.Predicate, p.Predicate.Term) {
			continue
		}
		if !p.Object.IsVar() && !sameTerm(t.Object, p.Object.Term) {
			continue
		}
		filtered = append(filtered, t)
	}
	return &sliceMatch{pattern: p, triples: filtered}, nil
}

func sameTerm(a, b *literal.Literal) bool {
	if a == nil || b == nil {
		return a == b
	}
	eq, err := literal.Equals(a, b, literal.CompareRDF)
	return err == nil && eq
}

// sliceMatch is a Match over a pre-filtered triple slice. Both backends
// use it: the memory source filters a graph scan, the SQLite source
// materializes its result set into one.
type sliceMatch struct {
	pattern *Pattern
	triples []Triple
	pos     int
}

func (m *sliceMatch) Bind() (BindFlags, bool) {
	if m.End() {
		return 0, false
	}
	return bindCandidate(m.pattern, m.triples[m.pos])
}

func (m *sliceMatch) Next() { m.pos++ }

func (m *sliceMatch) End() bool { return m.pos >= len(m.triples) }

func (m *sliceMatch) Close() { m.triples = nil }
