package aggregation

import (
	"io"
	"strings"

	"github.com/dajobe/rasqal-sub006/expr"
	"github.com/dajobe/rasqal-sub006/literal"
	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/row"
	"github.com/dajobe/rasqal-sub006/variable"
)

// Spec describes one output aggregate column: the accumulator kind, its
// argument expression tuple (a single expr.Star{} for COUNT(*), which
// isCountStar recognizes and special-cases rather than evaluating),
// whether duplicate argument tuples are filtered per group, and its
// output column name.
type Spec struct {
	Name     string
	Acc      Accumulator
	Args     []expr.Expression
	Distinct bool
	Named    bool // true: output column is a named variable; false: anonymous
}

// isCountStar reports whether s is COUNT(*): its sole argument is the
// Star sentinel, which evaluates to an error if run through expr.Tuple
// like a normal argument, so accumulate special-cases it below.
func isCountStar(s Spec) bool {
	return len(s.Args) == 1 && expr.IsStar(s.Args[0])
}

// Aggregation consumes a grouped input and produces one row per group:
// the group's pass-through columns followed by each aggregate's
// finalized value. It requires its input grouped into contiguous group
// id runs (the ids need not be ascending) — the shape rowsource.GroupBy
// produces.
type Aggregation struct {
	row.Base
	inner       row.Rowsource
	passThrough []expr.Expression
	ptNames     []string
	specs       []Spec

	groupOpen      bool
	currentGroupID int
	ptHold         []*literal.Value
	buffers        []Buffer
	distinctSeen   []map[string]bool
	pending        *row.Row
	sawAnyRow      bool
	done           bool
}

// groupCounter is implemented by a grouping operator (rowsource.GroupBy)
// that still reports one group when its own input was empty — the
// empty-key-list edge case where grouping by no expressions always
// yields exactly one group, even with zero input rows.
type groupCounter interface {
	GroupCount() int
}

// NewAggregation builds an Aggregation operator. passThrough/ptNames name
// the non-aggregate columns copied from each group's first row — a
// sample of the input's scalar columns, typically the GroupBy key
// expressions.
func NewAggregation(inner row.Rowsource, passThrough []expr.Expression, ptNames []string, specs []Spec) *Aggregation {
	return &Aggregation{inner: inner, passThrough: passThrough, ptNames: ptNames, specs: specs}
}

func (a *Aggregation) Inner() row.Rowsource { return a.inner }

func (a *Aggregation) Init(ctx *rctx.Context) error {
	a.inner.SetRequirements(false)
	return a.inner.Init(ctx)
}

func (a *Aggregation) EnsureVariables(ctx *rctx.Context) error {
	if err := a.inner.EnsureVariables(ctx); err != nil {
		return err
	}
	outVars := variable.NewTable()
	for _, n := range a.ptNames {
		outVars.AddNamed(n)
	}
	for _, s := range a.specs {
		switch {
		case s.Named:
			outVars.AddNamed(s.Name)
		case s.Name != "":
			outVars.AddAnonymous(s.Name)
		default:
			// No output name was supplied (e.g. a builder that doesn't
			// pre-allocate names for SELECT-expression aggregates): mint
			// a process-unique one rather than collide on "". Anonymous
			// variables are never selectable by name from outside the
			// query, so any unique name is as good as any other.
			outVars.AddFreshAnonymous("agg")
		}
	}
	a.SetVariables(outVars)
	a.SetSize(len(a.ptNames) + len(a.specs))
	return nil
}

func (a *Aggregation) startGroup(ctx *rctx.Context, r *row.Row) {
	a.currentGroupID = r.GroupID
	a.groupOpen = true
	hold, _ := expr.Tuple(ctx, r, a.passThrough)
	a.ptHold = hold
	a.buffers = make([]Buffer, len(a.specs))
	a.distinctSeen = make([]map[string]bool, len(a.specs))
	for i, s := range a.specs {
		a.buffers[i] = s.Acc.NewBuffer()
		if s.Distinct {
			a.distinctSeen[i] = make(map[string]bool)
		}
	}
}

func (a *Aggregation) accumulate(ctx *rctx.Context, r *row.Row) {
	for i, s := range a.specs {
		if isCountStar(s) {
			_ = a.buffers[i].Update(ctx, nil)
			continue
		}
		args, _ := expr.Tuple(ctx, r, s.Args)
		if s.Distinct {
			key := distinctKey(args)
			if a.distinctSeen[i][key] {
				continue
			}
			a.distinctSeen[i][key] = true
		}
		_ = a.buffers[i].Update(ctx, args)
	}
}

func distinctKey(args []*literal.Value) string {
	var b strings.Builder
	for i, v := range args {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		if v == nil {
			b.WriteByte(0)
			continue
		}
		b.WriteString(v.Kind().String())
		b.WriteByte(0x1e)
		b.WriteString(v.String())
	}
	return b.String()
}

func (a *Aggregation) finalize(ctx *rctx.Context) *row.Row {
	out := row.New(a.Size())
	copy(out.Values[:len(a.ptHold)], a.ptHold)
	for i, buf := range a.buffers {
		v, err := buf.Eval(ctx)
		if err == nil {
			out.Values[len(a.ptHold)+i] = &v
		}
	}
	out.GroupID = a.currentGroupID
	out.Producer = a
	out.Offset = a.NextOffset()
	return a.StampOrigin(out)
}

func (a *Aggregation) ReadRow(ctx *rctx.Context) (*row.Row, error) {
	if a.done {
		return nil, io.EOF
	}
	for {
		var r *row.Row
		if a.pending != nil {
			r = a.pending
			a.pending = nil
		} else {
			rr, err := a.inner.ReadRow(ctx)
			if err == io.EOF {
				if a.groupOpen {
					out := a.finalize(ctx)
					a.groupOpen = false
					a.done = true
					return out, nil
				}
				if !a.sawAnyRow {
					if gc, ok := a.inner.(groupCounter); ok && gc.GroupCount() == 1 {
						empty := row.New(a.inner.Size())
						empty.GroupID = 0
						a.startGroup(ctx, empty)
						out := a.finalize(ctx)
						a.done = true
						return out, nil
					}
				}
				a.done = true
				return nil, io.EOF
			}
			if err != nil {
				return nil, err
			}
			r = rr
			a.sawAnyRow = true
		}
		if a.groupOpen && r.GroupID != a.currentGroupID {
			out := a.finalize(ctx)
			a.pending = r
			a.groupOpen = false
			return out, nil
		}
		if !a.groupOpen {
			a.startGroup(ctx, r)
		}
		a.accumulate(ctx, r)
	}
}

func (a *Aggregation) ReadAllRows(ctx *rctx.Context) ([]*row.Row, error) {
	return row.ReadAll(ctx, a)
}

func (a *Aggregation) Reset(ctx *rctx.Context) error {
	if !a.Preserve() {
		return rowResetErr
	}
	if err := a.inner.Reset(ctx); err != nil {
		return err
	}
	a.groupOpen = false
	a.pending = nil
	a.sawAnyRow = false
	a.done = false
	a.ResetOffset()
	return nil
}

func (a *Aggregation) SetRequirements(preserve bool) {
	a.Base.SetRequirements(preserve)
	a.inner.SetRequirements(preserve)
}

func (a *Aggregation) InnerRowsource(i int) (row.Rowsource, bool) {
	if i == 0 {
		return a.inner, true
	}
	return nil, false
}
