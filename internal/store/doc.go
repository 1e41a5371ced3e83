// Package store provides triple storage behind the Source matching
// contract: an in-memory Dataset for fixtures and tests, and a
// SQLite-backed store for data that outlives a process.
//
// # Architecture
//
// Both backends expose the same two read paths:
//
//   - TriplePresent: membership test for a fully ground triple
//   - NewMatch: a cursor over the triples a pattern can match, driven
//     by the caller through Bind/Next/End
//
// A Pattern addresses one graph at a time. Origin nil selects the
// default graph; a URI origin selects that named graph. The Graphs
// interface enumerates named graphs so callers can iterate them.
//
// # Critical Patterns
//
// Deterministic Match Order
//   - Dataset cursors walk triples in insertion order
//   - SQLite cursors order by rowid
//   - Identical data loaded in identical order yields identical
//     result sequences, which golden tests depend on
//
// Document-Scoped Blank Nodes
//   - YAML fixtures rewrite every "_:label" through a
//     BlankLabelGenerator on load
//   - Loading the same fixture twice never aliases blank nodes
//     across loads
package store
