// Package testutil provides deterministic substitutes for the engine's
// sources of nondeterminism, so tests and golden snapshots stay
// byte-identical across runs.
package testutil

import (
	"fmt"
	"sync"
)

// SequenceLabelGenerator generates blank node labels b1, b2, b3, ...
//
// Unlike store.UUIDv7Generator, the same loading order always produces
// the same labels, which keeps dataset fixtures and golden files stable.
//
// Thread-safety: all methods are safe for concurrent use via an internal
// mutex.
type SequenceLabelGenerator struct {
	mu sync.Mutex
	n  int
}

// NewSequenceLabelGenerator creates a generator starting at b1.
func NewSequenceLabelGenerator() *SequenceLabelGenerator {
	return &SequenceLabelGenerator{}
}

// Generate returns the next label in sequence.
//
// Implements store.BlankLabelGenerator.
func (g *SequenceLabelGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("b%d", g.n)
}
