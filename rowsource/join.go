package rowsource

import (
	"github.com/dajobe/rasqal-sub006/expr"
	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/row"
	"github.com/dajobe/rasqal-sub006/variable"
)

// Join implements natural (inner) and left-outer join over two inputs: a
// nested loop over the left input against a fully materialized right
// input, merging compatible rows and optionally testing a constraint
// expression.
type Join struct {
	row.Base
	left, right row.Rowsource
	leftOuter   bool
	constraint  expr.Expression

	constraintAlwaysFalse bool
	constraintAlwaysTrue  bool

	leftNamedCount int
	// sharedRightToOut maps a right-side named offset shared with left to
	// its (already-occupied-by-left) output offset.
	sharedRightToOut map[int]int
	// rightOnlyToOut maps a right-side named offset unique to right to a
	// freshly appended output offset.
	rightOnlyToOut map[int]int

	rightRows []*row.Row

	curLeft   *row.Row
	rightIdx  int
	foundAny  bool
}

// NewJoin builds a Join operator. constraint may be nil for an
// unconstrained join.
func NewJoin(left, right row.Rowsource, leftOuter bool, constraint expr.Expression) *Join {
	return &Join{left: left, right: right, leftOuter: leftOuter, constraint: constraint}
}

func (j *Join) Left() row.Rowsource  { return j.left }
func (j *Join) Right() row.Rowsource { return j.right }

// Init evaluates a constant constraint once: false collapses emission to
// nothing for the natural case (left-outer padding still happens); true
// removes the per-row evaluation cost.
func (j *Join) Init(ctx *rctx.Context) error {
	if err := j.left.Init(ctx); err != nil {
		return err
	}
	if err := j.right.Init(ctx); err != nil {
		return err
	}
	j.right.SetRequirements(true)
	if j.constraint != nil && j.constraint.IsConstant() {
		v, err := j.constraint.Eval(ctx, emptyBinding{})
		if err != nil {
			j.constraintAlwaysFalse = true
		} else if b, berr := v.AsBoolean(); berr == nil && b {
			j.constraintAlwaysTrue = true
		} else {
			j.constraintAlwaysFalse = true
		}
	}
	return nil
}

// EnsureVariables precomputes the output schema and the right-to-output
// column mapping: shared names occupy the same output column as left's,
// new right-only names are appended.
func (j *Join) EnsureVariables(ctx *rctx.Context) error {
	if err := j.left.EnsureVariables(ctx); err != nil {
		return err
	}
	if err := j.right.EnsureVariables(ctx); err != nil {
		return err
	}
	leftVars := j.left.Variables()
	rightVars := j.right.Variables()

	outVars := variable.NewTable()
	for _, n := range leftVars.Names() {
		outVars.AddNamed(n)
	}
	j.sharedRightToOut = make(map[int]int)
	j.rightOnlyToOut = make(map[int]int)
	for _, rv := range rightVars.Named() {
		if _, ok := leftVars.Lookup(rv.Name); ok {
			ov, _ := outVars.Lookup(rv.Name)
			j.sharedRightToOut[rv.Offset] = ov.Offset
		} else {
			nv := outVars.AddNamed(rv.Name)
			j.rightOnlyToOut[rv.Offset] = nv.Offset
		}
	}
	j.leftNamedCount = leftVars.NamedCount()
	j.SetVariables(outVars)
	j.SetSize(outVars.Size())
	return nil
}

func (j *Join) materializeRight(ctx *rctx.Context) error {
	if j.rightRows != nil {
		return nil
	}
	rows, err := j.right.ReadAllRows(ctx)
	if err != nil {
		return err
	}
	j.rightRows = rows
	return nil
}

// compatible reports whether no shared variable is bound to conflicting
// values between l and r.
func (j *Join) compatible(l, r *row.Row) bool {
	for rOff, outOff := range j.sharedRightToOut {
		lv := l.At(outOff)
		rv := r.At(rOff)
		if lv != nil && rv != nil && !lv.Equals(*rv) {
			return false
		}
	}
	return true
}

func (j *Join) merge(l, r *row.Row) *row.Row {
	out := row.New(j.Size())
	copy(out.Values[:j.leftNamedCount], l.Values[:j.leftNamedCount])
	for rOff, outOff := range j.sharedRightToOut {
		if out.Values[outOff] == nil {
			out.Values[outOff] = r.Values[rOff]
		}
	}
	for rOff, outOff := range j.rightOnlyToOut {
		out.Values[outOff] = r.Values[rOff]
	}
	return out
}

func (j *Join) padLeft(l *row.Row) *row.Row {
	out := row.New(j.Size())
	copy(out.Values[:j.leftNamedCount], l.Values[:j.leftNamedCount])
	return out
}

func (j *Join) constraintHolds(ctx *rctx.Context, merged *row.Row) bool {
	if j.constraintAlwaysFalse {
		return false
	}
	if j.constraintAlwaysTrue || j.constraint == nil {
		return true
	}
	v, err := j.constraint.Eval(ctx, merged)
	if err != nil {
		return false
	}
	ok, err := v.AsBoolean()
	return err == nil && ok
}

func (j *Join) ReadRow(ctx *rctx.Context) (*row.Row, error) {
	if err := j.materializeRight(ctx); err != nil {
		return nil, err
	}
	for {
		if j.curLeft == nil {
			lr, err := j.left.ReadRow(ctx)
			if err != nil {
				return nil, err
			}
			j.curLeft = lr
			j.rightIdx = 0
			j.foundAny = false
		}
		if j.rightIdx >= len(j.rightRows) {
			left := j.curLeft
			j.curLeft = nil
			if j.leftOuter && !j.foundAny {
				out := j.padLeft(left)
				out.GroupID = left.GroupID
				out.Producer = j
				out.Offset = j.NextOffset()
				return j.StampOrigin(out), nil
			}
			continue
		}
		rr := j.rightRows[j.rightIdx]
		j.rightIdx++
		if !j.compatible(j.curLeft, rr) {
			continue
		}
		merged := j.merge(j.curLeft, rr)
		if !j.constraintHolds(ctx, merged) {
			continue
		}
		j.foundAny = true
		merged.Producer = j
		merged.Offset = j.NextOffset()
		return j.StampOrigin(merged), nil
	}
}

func (j *Join) ReadAllRows(ctx *rctx.Context) ([]*row.Row, error) {
	return row.ReadAll(ctx, j)
}

func (j *Join) Reset(ctx *rctx.Context) error {
	if !j.Preserve() {
		return errReset
	}
	if err := j.left.Reset(ctx); err != nil {
		return err
	}
	j.curLeft = nil
	j.rightIdx = 0
	j.foundAny = false
	j.ResetOffset()
	return nil
}

func (j *Join) SetRequirements(preserve bool) {
	j.Base.SetRequirements(preserve)
	j.left.SetRequirements(preserve)
	j.right.SetRequirements(true)
}

func (j *Join) InnerRowsource(i int) (row.Rowsource, bool) {
	switch i {
	case 0:
		return j.left, true
	case 1:
		return j.right, true
	default:
		return nil, false
	}
}
