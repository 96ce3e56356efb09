package rowsource

import (
	"io"

	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/row"
	"github.com/dajobe/rasqal-sub006/variable"
)

// RowSequence is the leaf operator owning a fixed vector of rows and a
// variables table. ReadRow pops from the front; Reset restarts from the
// head if preserve was requested.
type RowSequence struct {
	row.Base
	all   []*row.Row
	pos   int
	drain bool
}

// NewRowSequence builds a leaf operator over pre-materialized rows.
func NewRowSequence(vars *variable.Table, rows []*row.Row) *RowSequence {
	rs := &RowSequence{all: rows}
	rs.SetVariables(vars)
	rs.SetSize(vars.Size())
	return rs
}

func (rs *RowSequence) Init(*rctx.Context) error           { return nil }
func (rs *RowSequence) EnsureVariables(*rctx.Context) error { return nil }

func (rs *RowSequence) ReadRow(ctx *rctx.Context) (*row.Row, error) {
	if rs.Exhausted() || rs.pos >= len(rs.all) {
		rs.MarkExhausted()
		if !rs.Preserve() {
			rs.all = nil
		}
		return nil, io.EOF
	}
	r := rs.all[rs.pos]
	rs.pos++
	out := r.Clone()
	out.Producer = rs
	out.Offset = rs.NextOffset()
	return rs.StampOrigin(out), nil
}

func (rs *RowSequence) ReadAllRows(ctx *rctx.Context) ([]*row.Row, error) {
	return row.ReadAll(ctx, rs)
}

func (rs *RowSequence) Reset(ctx *rctx.Context) error {
	if !rs.Preserve() {
		return errReset
	}
	rs.pos = 0
	rs.ResetOffset()
	return nil
}

func (rs *RowSequence) InnerRowsource(int) (row.Rowsource, bool) { return nil, false }
