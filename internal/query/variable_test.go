package query

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarTable_AddIsIdempotentByName(t *testing.T) {
	vt := NewVarTable()

	a, err := vt.Add(VarNormal, "s")
	require.NoError(t, err)
	b, err := vt.Add(VarNormal, "s")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, vt.Size())
}

func TestVarTable_AnonymousAfterNamed(t *testing.T) {
	vt := NewVarTable()

	s, err := vt.Add(VarNormal, "s")
	require.NoError(t, err)
	anon1, err := vt.Add(VarAnonymous, "")
	require.NoError(t, err)
	anon2, err := vt.Add(VarAnonymous, "")
	require.NoError(t, err)

	assert.Equal(t, 0, s.Offset)
	assert.Equal(t, 1, anon1.Offset)
	assert.Equal(t, 2, anon2.Offset)
}

func TestVarTable_LateNamedShiftsAnonymous(t *testing.T) {
	vt := NewVarTable()

	s, _ := vt.Add(VarNormal, "s")
	anon, _ := vt.Add(VarAnonymous, "")
	require.Equal(t, 1, anon.Offset)

	// A named variable added after an anonymous one slots into the named
	// block, pushing the anonymous block up.
	o, err := vt.Add(VarNormal, "o")
	require.NoError(t, err)

	assert.Equal(t, 0, s.Offset)
	assert.Equal(t, 1, o.Offset)
	assert.Equal(t, 2, anon.Offset)
}

// Property check on the renumbering rule: named offsets never move, and
// anonymous offsets always form the contiguous block after the named one,
// whatever the interleaving of additions.
func TestVarTable_OffsetStabilityProperty(t *testing.T) {
	// Interleave named and anonymous additions in several patterns.
	patterns := [][]VarKind{
		{VarNormal, VarAnonymous, VarNormal, VarAnonymous, VarNormal},
		{VarAnonymous, VarNormal, VarNormal, VarAnonymous},
		{VarAnonymous, VarAnonymous, VarNormal},
		{VarNormal, VarNormal, VarAnonymous, VarNormal},
	}

	for pi, pattern := range patterns {
		t.Run(fmt.Sprintf("pattern_%d", pi), func(t *testing.T) {
			vt := NewVarTable()
			var named, anon []*Variable

			for i, kind := range pattern {
				if kind == VarNormal {
					v, err := vt.Add(VarNormal, fmt.Sprintf("v%d", i))
					require.NoError(t, err)
					named = append(named, v)
					// Named offsets are assigned in insertion order and
					// never change afterwards.
					for j, n := range named {
						assert.Equal(t, j, n.Offset)
					}
				} else {
					v, err := vt.Add(VarAnonymous, "")
					require.NoError(t, err)
					anon = append(anon, v)
				}
				// Anonymous block sits immediately after the named block.
				for j, a := range anon {
					assert.Equal(t, len(named)+j, a.Offset)
				}
			}
			assert.Equal(t, len(named)+len(anon), vt.Size())
		})
	}
}

func TestVarTable_SealedRejectsAdd(t *testing.T) {
	vt := NewVarTable()
	_, err := vt.Add(VarNormal, "s")
	require.NoError(t, err)

	_ = NewRow(vt) // seals

	_, err = vt.Add(VarNormal, "late")
	assert.Error(t, err)
}

func TestVarTable_VariablesInOffsetOrder(t *testing.T) {
	vt := NewVarTable()
	vt.Add(VarAnonymous, "")
	vt.Add(VarNormal, "a")
	vt.Add(VarNormal, "b")

	vars := vt.Variables()
	require.Len(t, vars, 3)
	for i, v := range vars {
		assert.Equal(t, i, v.Offset)
	}
}
