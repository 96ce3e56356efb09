package rowsource

import (
	"github.com/dajobe/rasqal-sub006/expr"
	"github.com/dajobe/rasqal-sub006/literal"
	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/row"
)

// emptyBinding satisfies expr.Binding for evaluating a constant expression
// with no row context.
type emptyBinding struct{}

func (emptyBinding) At(int) *literal.Value { return nil }

// Filter evaluates a boolean expression against each row's bindings,
// passing through rows where it is effectively true. Rows where the
// expression errors are treated as false, never fatal.
type Filter struct {
	row.Base
	inner     row.Rowsource
	condition expr.Expression
	// collapsed is set in Init when condition is constant: passThrough
	// mirrors inner unconditionally, dropAll produces nothing.
	collapsed   bool
	passThrough bool
}

// NewFilter builds a Filter operator testing condition against inner's rows.
func NewFilter(inner row.Rowsource, condition expr.Expression) *Filter {
	return &Filter{inner: inner, condition: condition}
}

func (f *Filter) Inner() row.Rowsource { return f.inner }

// Init collapses a constant condition to pass-through or drop-all, an
// important correctness and performance shortcut for conditions that
// don't reference any row.
func (f *Filter) Init(ctx *rctx.Context) error {
	if err := f.inner.Init(ctx); err != nil {
		return err
	}
	if f.condition.IsConstant() {
		v, err := f.condition.Eval(ctx, emptyBinding{})
		if err == nil {
			if b, berr := v.AsBoolean(); berr == nil {
				f.collapsed = true
				f.passThrough = b
			}
		} else {
			f.collapsed = true
			f.passThrough = false
		}
	}
	return nil
}

func (f *Filter) EnsureVariables(ctx *rctx.Context) error {
	if err := f.inner.EnsureVariables(ctx); err != nil {
		return err
	}
	f.SetVariables(f.inner.Variables())
	f.SetSize(f.inner.Size())
	return nil
}

func (f *Filter) ReadRow(ctx *rctx.Context) (*row.Row, error) {
	for {
		in, err := f.inner.ReadRow(ctx)
		if err != nil {
			return nil, err
		}
		if f.collapsed && !f.passThrough {
			continue
		}
		if !f.collapsed {
			v, everr := f.condition.Eval(ctx, in)
			ok := false
			if everr == nil {
				ok, _ = v.AsBoolean()
			}
			if everr != nil {
				ctx.Log().WithField("op", "filter").Debug("condition evaluation error treated as false")
			}
			if !ok {
				continue
			}
		}
		out := in.Clone()
		out.Producer = f
		out.Offset = f.NextOffset()
		return f.StampOrigin(out), nil
	}
}

func (f *Filter) ReadAllRows(ctx *rctx.Context) ([]*row.Row, error) {
	return row.ReadAll(ctx, f)
}

func (f *Filter) Reset(ctx *rctx.Context) error {
	if !f.Preserve() {
		return errReset
	}
	if err := f.inner.Reset(ctx); err != nil {
		return err
	}
	f.ResetOffset()
	return nil
}

func (f *Filter) SetRequirements(preserve bool) {
	f.Base.SetRequirements(preserve)
	f.inner.SetRequirements(preserve)
}

func (f *Filter) InnerRowsource(i int) (row.Rowsource, bool) {
	if i == 0 {
		return f.inner, true
	}
	return nil, false
}
