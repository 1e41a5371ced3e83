// Package query holds the binding-level data model shared by the engine:
// variables with stable table offsets, rows of literal slots, and the
// row/value comparison helpers used by ORDER BY, DISTINCT and GROUP BY.
package query

import (
	"fmt"

	"github.com/roach88/sparq/internal/literal"
)

// VarKind distinguishes user-named variables from anonymous ones the
// compiler introduces.
type VarKind int

const (
	// VarNormal is a named query variable.
	VarNormal VarKind = iota

	// VarAnonymous is a compiler-introduced variable with no user name.
	VarAnonymous
)

// Variable is a named or anonymous slot with a stable offset into the
// variables table. The Value field is the variable's current binding and
// is the only mutable part: triple matching writes it, expression
// evaluation reads it, and Reset clears it between match attempts.
type Variable struct {
	Name   string
	Kind   VarKind
	Offset int

	// Value is the current binding, nil when unbound.
	Value *literal.Literal

	// Expr is the defining expression for SELECT (expr AS ?v) variables,
	// nil for pattern variables.
	Expr any
}

// String renders ?name for named variables and an offset-qualified form
// for anonymous ones.
func (v *Variable) String() string {
	if v.Kind == VarAnonymous {
		return fmt.Sprintf("?_anon%d", v.Offset)
	}
	return "?" + v.Name
}

// VarTable owns the canonical Variable instances for one query and
// assigns their offsets.
//
// Offset discipline: named variables occupy offsets 0..n-1 in insertion
// order; anonymous variables always follow the named block. Adding a
// named variable after anonymous ones already exist therefore shifts
// every anonymous offset up by one. Rows are indexed by these offsets, so
// the renumbering must happen before any row is allocated; the table
// tracks whether it has been sealed by a row allocation and refuses late
// additions.
type VarTable struct {
	named  []*Variable
	anon   []*Variable
	byName map[string]*Variable
	sealed bool
}

// NewVarTable creates an empty variables table.
func NewVarTable() *VarTable {
	return &VarTable{byName: make(map[string]*Variable)}
}

// Add returns the variable for (kind, name), creating it if absent.
// Lookup is idempotent by name for named variables; every anonymous Add
// creates a fresh variable.
func (t *VarTable) Add(kind VarKind, name string) (*Variable, error) {
	if t.sealed {
		return nil, fmt.Errorf("variables table is sealed; cannot add %q", name)
	}
	if kind == VarNormal {
		if v, ok := t.byName[name]; ok {
			return v, nil
		}
		v := &Variable{Name: name, Kind: VarNormal, Offset: len(t.named)}
		t.named = append(t.named, v)
		t.byName[name] = v
		// The anonymous block slides up to stay after the named block.
		for i, a := range t.anon {
			a.Offset = len(t.named) + i
		}
		return v, nil
	}
	v := &Variable{Kind: VarAnonymous, Offset: len(t.named) + len(t.anon)}
	t.anon = append(t.anon, v)
	return v, nil
}

// Get returns the named variable or nil.
func (t *VarTable) Get(name string) *Variable {
	return t.byName[name]
}

// Size returns the total number of variables, named and anonymous.
func (t *VarTable) Size() int {
	return len(t.named) + len(t.anon)
}

// NamedCount returns the number of named variables.
func (t *VarTable) NamedCount() int {
	return len(t.named)
}

// Variables returns all variables in offset order.
func (t *VarTable) Variables() []*Variable {
	out := make([]*Variable, 0, t.Size())
	out = append(out, t.named...)
	out = append(out, t.anon...)
	return out
}

// Seal freezes the table. Row allocation calls this; any later Add is an
// error because existing rows would be mis-sized.
func (t *VarTable) Seal() {
	t.sealed = true
}

// ResetValues clears every variable's current binding.
func (t *VarTable) ResetValues() {
	for _, v := range t.named {
		v.Value = nil
	}
	for _, v := range t.anon {
		v.Value = nil
	}
}
