package rowsource

import (
	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/row"
	"github.com/dajobe/rasqal-sub006/variable"
)

// Project keeps a fixed variable list, copying by name into the declared
// output positions from each input row; unbound positions stay unbound.
type Project struct {
	row.Base
	inner   row.Rowsource
	columns []string
	mapping []int // mapping[outOffset] = inner offset, or -1
}

// NewProject builds a Project operator over inner, keeping only columns
// (in the given order) of inner's output.
func NewProject(inner row.Rowsource, columns []string) *Project {
	return &Project{inner: inner, columns: columns}
}

func (p *Project) Inner() row.Rowsource { return p.inner }

func (p *Project) Init(ctx *rctx.Context) error {
	return p.inner.Init(ctx)
}

func (p *Project) EnsureVariables(ctx *rctx.Context) error {
	if err := p.inner.EnsureVariables(ctx); err != nil {
		return err
	}
	outVars := variable.NewTable()
	mapping := make([]int, len(p.columns))
	innerVars := p.inner.Variables()
	for i, name := range p.columns {
		outVars.AddNamed(name)
		if v, ok := innerVars.Lookup(name); ok {
			mapping[i] = v.Offset
		} else {
			mapping[i] = -1
		}
	}
	p.SetVariables(outVars)
	p.SetSize(len(p.columns))
	p.mapping = mapping
	return nil
}

func (p *Project) ReadRow(ctx *rctx.Context) (*row.Row, error) {
	in, err := p.inner.ReadRow(ctx)
	if err != nil {
		return nil, err
	}
	out := row.New(p.Size())
	for i, off := range p.mapping {
		if off >= 0 {
			out.Values[i] = in.At(off)
		}
	}
	out.GroupID = in.GroupID
	out.Origin = in.Origin
	out.Producer = p
	out.Offset = p.NextOffset()
	return p.StampOrigin(out), nil
}

func (p *Project) ReadAllRows(ctx *rctx.Context) ([]*row.Row, error) {
	return row.ReadAll(ctx, p)
}

func (p *Project) Reset(ctx *rctx.Context) error {
	if !p.Preserve() {
		return errReset
	}
	if err := p.inner.Reset(ctx); err != nil {
		return err
	}
	p.ResetOffset()
	return nil
}

// SetRequirements propagates the preserve requirement to inner, since a
// caller that may reset p transitively needs inner retained too.
func (p *Project) SetRequirements(preserve bool) {
	p.Base.SetRequirements(preserve)
	p.inner.SetRequirements(preserve)
}

func (p *Project) InnerRowsource(i int) (row.Rowsource, bool) {
	if i == 0 {
		return p.inner, true
	}
	return nil, false
}
