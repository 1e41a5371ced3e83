package query

import (
	"strings"

	"github.com/roach88/sparq/internal/literal"
)

// Row is the unit flowing through the rowsource pipeline: one literal slot
// per variable offset, an auxiliary order-key vector written by the sort
// stage, a group id assigned by GROUP BY, and a 1-based output offset.
type Row struct {
	// Values holds one slot per variable offset; nil means unbound.
	Values []*literal.Literal

	// OrderValues mirrors the ORDER BY expression list and exists purely
	// for comparison; it never reaches result consumers.
	OrderValues []*literal.Literal

	// GroupID is the group assigned by GROUP BY, -1 when ungrouped.
	GroupID int

	// Offset is the 1-based position in the output sequence.
	Offset int
}

// NewRow allocates an all-unbound row sized to the variables table and
// seals the table so offsets stay stable from here on.
func NewRow(vt *VarTable) *Row {
	vt.Seal()
	return &Row{
		Values:  make([]*literal.Literal, vt.Size()),
		GroupID: -1,
	}
}

// NewRowOfSize allocates an all-unbound row with an explicit slot count.
// Used by sources that materialize rows without a variables table, e.g.
// the VALUES rowsource.
func NewRowOfSize(n int) *Row {
	return &Row{
		Values:  make([]*literal.Literal, n),
		GroupID: -1,
	}
}

// SetValue replaces the literal at a slot. Literals are immutable, so the
// row simply aliases the input.
func (r *Row) SetValue(offset int, l *literal.Literal) {
	r.Values[offset] = l
}

// Value returns the literal at a slot, nil when unbound or out of range.
// Out-of-range reads happen legitimately when a union side carries a
// narrower schema than the reconciled superset.
func (r *Row) Value(offset int) *literal.Literal {
	if offset < 0 || offset >= len(r.Values) {
		return nil
	}
	return r.Values[offset]
}

// Copy clones the row. Slots alias the same immutable literals; the order
// vector and bookkeeping fields are copied.
func (r *Row) Copy() *Row {
	out := &Row{
		Values:  make([]*literal.Literal, len(r.Values)),
		GroupID: r.GroupID,
		Offset:  r.Offset,
	}
	copy(out.Values, r.Values)
	if r.OrderValues != nil {
		out.OrderValues = make([]*literal.Literal, len(r.OrderValues))
		copy(out.OrderValues, r.OrderValues)
	}
	return out
}

// BindVariables pushes each slot's literal into the corresponding
// variable's current value so that variable-referencing expressions
// resolve against this row.
func (r *Row) BindVariables(vt *VarTable) {
	for _, v := range vt.Variables() {
		v.Value = r.Value(v.Offset)
	}
}

// String renders the bound slots for debug output, e.g. "[<a>, _, "5"]".
func (r *Row) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, l := range r.Values {
		if i > 0 {
			b.WriteString(", ")
		}
		if l == nil {
			b.WriteByte('_')
		} else {
			b.WriteString(l.String())
		}
	}
	b.WriteByte(']')
	return b.String()
}
