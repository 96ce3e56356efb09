// Package row implements the solution row data model and the rowsource
// operator framework contract: a fixed-width vector of typed literal
// references plus group/order tags, and the uniform
// init/ensure-variables/read-row/read-all/reset contract every operator
// in package rowsource implements.
package row

import (
	"io"

	"github.com/dajobe/rasqal-sub006/literal"
	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/variable"
)

// UnboundGroupID marks a row that has not been tagged by a GroupBy
// operator.
const UnboundGroupID = -1

// Row is a fixed-size vector of bound/unbound literal values plus
// bookkeeping: a back-reference to the operator that produced it, a
// monotonically increasing output offset, and a group tag.
type Row struct {
	Values   []*literal.Value
	Producer Rowsource
	Offset   int64
	GroupID  int
	// Origin is the provenance term stamped by a Graph operator: the IRI
	// of the named graph this row was matched against. Nil for rows
	// produced outside a GRAPH pattern.
	Origin *literal.Value
}

// New allocates an all-unbound row of the given width.
func New(size int) *Row {
	return &Row{Values: make([]*literal.Value, size), GroupID: UnboundGroupID}
}

// At implements expr.Binding, letting Row be evaluated against directly
// without package expr importing package row.
func (r *Row) At(offset int) *literal.Value {
	if offset < 0 || offset >= len(r.Values) {
		return nil
	}
	return r.Values[offset]
}

// Clone returns a shallow copy (literal values are immutable, so copying
// the slice of pointers is a full logical copy).
func (r *Row) Clone() *Row {
	nv := make([]*literal.Value, len(r.Values))
	copy(nv, r.Values)
	return &Row{Values: nv, Producer: r.Producer, Offset: r.Offset, GroupID: r.GroupID, Origin: r.Origin}
}

// Rowsource is the contract every operator in package rowsource
// implements.
type Rowsource interface {
	// Init performs one-time setup; it may pre-read rows or collapse
	// constant sub-expressions.
	Init(ctx *rctx.Context) error
	// EnsureVariables computes and publishes the operator's output
	// variables and Size; it is idempotent and must ensure its own
	// inputs' variables first.
	EnsureVariables(ctx *rctx.Context) error
	// ReadRow returns the next row, or io.EOF at end of stream. It
	// blocks only on its inputs.
	ReadRow(ctx *rctx.Context) (*Row, error)
	// ReadAllRows returns all remaining rows; the default behavior
	// (ReadAll, below) is exactly "loop ReadRow until io.EOF".
	ReadAllRows(ctx *rctx.Context) ([]*Row, error)
	// Reset returns to the start of the stream. Only valid if
	// SetRequirements(true) was previously called.
	Reset(ctx *rctx.Context) error
	// SetRequirements signals that the caller may Reset later, so this
	// operator (and transitively its inputs) must retain rather than
	// discard consumed rows.
	SetRequirements(preserve bool)
	// InnerRowsource exposes the i-th input for structural inspection,
	// or (nil, false) if there is no such input.
	InnerRowsource(i int) (Rowsource, bool)
	// SetOrigin stamps a provenance term (e.g. the active named graph)
	// onto rows this operator produces.
	SetOrigin(term *literal.Value)
	// Size is the number of output columns.
	Size() int
	// OrderSize is the number of sort keys this operator's output is
	// ordered by (0 if unordered).
	OrderSize() int
	// Variables is the output variables table.
	Variables() *variable.Table
}

// ReadAll drives rs with ReadRow until io.EOF, the default
// ReadAllRows implementation.
func ReadAll(ctx *rctx.Context, rs Rowsource) ([]*Row, error) {
	var rows []*Row
	for {
		r, err := rs.ReadRow(ctx)
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, r)
	}
}

// Unary is implemented by operators with exactly one input.
type Unary interface {
	Inner() Rowsource
}

// Binary is implemented by operators with exactly two inputs (Left,
// Right).
type Binary interface {
	Left() Rowsource
	Right() Rowsource
}

// IsUnary reports whether rs implements Unary.
func IsUnary(rs Rowsource) bool {
	_, ok := rs.(Unary)
	return ok
}

// IsBinary reports whether rs implements Binary.
func IsBinary(rs Rowsource) bool {
	_, ok := rs.(Binary)
	return ok
}

// Base is embedded by concrete operators to share the bookkeeping common
// to the framework contract: the output variables table/size, the
// monotonic offset counter, the exhausted/preserve flags, and the
// provenance term set by SetOrigin.
type Base struct {
	vars      *variable.Table
	size      int
	orderSize int
	offset    int64
	exhausted bool
	preserve  bool
	origin    *literal.Value
}

func (b *Base) Variables() *variable.Table     { return b.vars }
func (b *Base) SetVariables(t *variable.Table) { b.vars = t }
func (b *Base) Size() int                      { return b.size }
func (b *Base) SetSize(n int)                  { b.size = n }
func (b *Base) OrderSize() int                 { return b.orderSize }
func (b *Base) SetOrderSize(n int)             { b.orderSize = n }
func (b *Base) SetRequirements(preserve bool)  { b.preserve = preserve }
func (b *Base) Preserve() bool                 { return b.preserve }
func (b *Base) SetOrigin(t *literal.Value)     { b.origin = t }
func (b *Base) Origin() *literal.Value         { return b.origin }
func (b *Base) Exhausted() bool                { return b.exhausted }
func (b *Base) MarkExhausted()                 { b.exhausted = true }
func (b *Base) ResetOffset() {
	b.offset = 0
	b.exhausted = false
}

// NextOffset returns the next 1-based output offset, incrementing a
// monotonically increasing per-operator counter.
func (b *Base) NextOffset() int64 {
	b.offset++
	return b.offset
}

// StampOrigin sets the provenance term on row r if one has been
// configured via SetOrigin. Origin-stamped rows are how the Graph
// operator records which named graph a row came from.
func (b *Base) StampOrigin(r *Row) *Row {
	if b.origin != nil {
		r.Origin = b.origin
	}
	return r
}
