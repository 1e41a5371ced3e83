package engine

import (
	"github.com/roach88/sparq/internal/literal"
	"github.com/roach88/sparq/internal/query"
)

// Rowsource is one operator in the pull pipeline.
//
// ReadRow returns the next row, (nil, nil) on clean end-of-stream, or a
// non-nil error on failure. Reset rewinds the operator so the same
// sequence can be produced again; it must be valid at any point,
// including mid-stream and after end-of-stream. Close releases resources
// and is idempotent.
//
// SetOrigin rebinds the operator's triple patterns to one named graph;
// pass-through operators forward it to their children. SetPreserve asks
// a materializing operator to keep its buffer across Reset instead of
// re-reading its input.
//
// Rowsources are not safe for concurrent use.
type Rowsource interface {
	Init() error
	ReadRow() (*query.Row, error)
	ReadAllRows() ([]*query.Row, error)
	Reset() error
	Close() error

	// Name returns the operator name used by Explain.
	Name() string

	// Vars returns the variables this operator can bind, in offset order.
	Vars() []*query.Variable

	// Children returns the operator's inputs, left to right.
	Children() []Rowsource

	SetOrigin(origin *literal.Literal)
	SetPreserve(preserve bool)
}

// baseRowsource carries the bookkeeping every operator shares: name,
// bound variables, children, the preserve flag and the 1-based output
// offset counter.
type baseRowsource struct {
	name     string
	vars     []*query.Variable
	children []Rowsource
	preserve bool
	count    int
}

func (b *baseRowsource) Init() error {
	for _, c := range b.children {
		if err := c.Init(); err != nil {
			return err
		}
	}
	return nil
}

func (b *baseRowsource) Name() string { return b.name }

func (b *baseRowsource) Vars() []*query.Variable { return b.vars }

func (b *baseRowsource) Children() []Rowsource { return b.children }

func (b *baseRowsource) SetOrigin(origin *literal.Literal) {
	for _, c := range b.children {
		c.SetOrigin(origin)
	}
}

func (b *baseRowsource) SetPreserve(preserve bool) { b.preserve = preserve }

// stamp assigns the row's 1-based position in this operator's output.
// Every operator stamps, so a consumer always sees the outermost stage's
// numbering.
func (b *baseRowsource) stamp(row *query.Row) *query.Row {
	b.count++
	row.Offset = b.count
	return row
}

func (b *baseRowsource) resetCount() { b.count = 0 }

// drainRows pulls a rowsource to end-of-stream.
func drainRows(rs Rowsource) ([]*query.Row, error) {
	var rows []*query.Row
	for {
		row, err := rs.ReadRow()
		if err != nil {
			return nil, err
		}
		if row == nil {
			return rows, nil
		}
		rows = append(rows, row)
	}
}

// closeChildren closes every child, keeping the first error.
func closeChildren(children []Rowsource) error {
	var first error
	for _, c := range children {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// rowBinding pushes a row's bound slots into the variables table around
// expression evaluation and undoes exactly those bindings afterwards.
// Slots already bound by an enclosing operator are left alone, so nested
// joins see their outer bindings survive.
type rowBinding struct {
	bound []*query.Variable
}

func (b *rowBinding) bind(vt *query.VarTable, row *query.Row) {
	for _, v := range vt.Variables() {
		if v.Value != nil {
			continue
		}
		if val := row.Value(v.Offset); val != nil {
			v.Value = val
			b.bound = append(b.bound, v)
		}
	}
}

func (b *rowBinding) unbind() {
	for _, v := range b.bound {
		v.Value = nil
	}
	b.bound = b.bound[:0]
}
