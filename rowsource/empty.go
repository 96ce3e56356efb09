// Package rowsource implements the operator tree: the leaf, unary and
// binary rowsources that the algebra builder wires into a pipeline,
// each satisfying row.Rowsource by embedding row.Base.
package rowsource

import (
	"io"

	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/row"
	"github.com/dajobe/rasqal-sub006/variable"
)

// Empty produces no rows.
type Empty struct {
	row.Base
}

// NewEmpty builds an Empty operator over an already-computed variables table.
func NewEmpty(vars *variable.Table) *Empty {
	e := &Empty{}
	e.SetVariables(vars)
	e.SetSize(vars.Size())
	return e
}

func (e *Empty) Init(*rctx.Context) error              { return nil }
func (e *Empty) EnsureVariables(*rctx.Context) error    { return nil }
func (e *Empty) ReadRow(*rctx.Context) (*row.Row, error) { return nil, io.EOF }
func (e *Empty) ReadAllRows(ctx *rctx.Context) ([]*row.Row, error) {
	return row.ReadAll(ctx, e)
}
func (e *Empty) Reset(*rctx.Context) error                      { return nil }
func (e *Empty) InnerRowsource(int) (row.Rowsource, bool)       { return nil, false }
