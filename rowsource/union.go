package rowsource

import (
	"io"

	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/row"
	"github.com/dajobe/rasqal-sub006/variable"
)

// Union concatenates two inputs. The output schema is vars(left) ∪
// vars(right) in left-then-right order, duplicates merged; left rows
// are copied into fresh output-size rows, right rows are resized and
// permuted through a precomputed mapping.
type Union struct {
	row.Base
	left, right    row.Rowsource
	rightMapping   []int // indexed by right named offset -> output offset
	leftNamedCount int
	phase          int // 0=left, 1=right, 2=done
}

// NewUnion builds a Union operator over left and right.
func NewUnion(left, right row.Rowsource) *Union {
	return &Union{left: left, right: right}
}

func (u *Union) Left() row.Rowsource  { return u.left }
func (u *Union) Right() row.Rowsource { return u.right }

func (u *Union) Init(ctx *rctx.Context) error {
	if err := u.left.Init(ctx); err != nil {
		return err
	}
	return u.right.Init(ctx)
}

func (u *Union) EnsureVariables(ctx *rctx.Context) error {
	if err := u.left.EnsureVariables(ctx); err != nil {
		return err
	}
	if err := u.right.EnsureVariables(ctx); err != nil {
		return err
	}
	leftVars := u.left.Variables()
	rightVars := u.right.Variables()

	outVars := variable.NewTable()
	for _, n := range leftVars.Names() {
		outVars.AddNamed(n)
	}
	mapping := make([]int, rightVars.NamedCount())
	for _, rv := range rightVars.Named() {
		if v, ok := outVars.Lookup(rv.Name); ok {
			mapping[rv.Offset] = v.Offset
		} else {
			nv := outVars.AddNamed(rv.Name)
			mapping[rv.Offset] = nv.Offset
		}
	}
	u.rightMapping = mapping
	u.leftNamedCount = leftVars.NamedCount()
	u.SetVariables(outVars)
	u.SetSize(outVars.Size())
	return nil
}

func (u *Union) ReadRow(ctx *rctx.Context) (*row.Row, error) {
	for {
		switch u.phase {
		case 0:
			r, err := u.left.ReadRow(ctx)
			if err == io.EOF {
				u.phase = 1
				continue
			}
			if err != nil {
				return nil, err
			}
			out := row.New(u.Size())
			copy(out.Values[:u.leftNamedCount], r.Values[:u.leftNamedCount])
			out.Producer = u
			out.Offset = u.NextOffset()
			return u.StampOrigin(out), nil
		case 1:
			r, err := u.right.ReadRow(ctx)
			if err == io.EOF {
				u.phase = 2
				return nil, io.EOF
			}
			if err != nil {
				return nil, err
			}
			out := row.New(u.Size())
			for off, outOff := range u.rightMapping {
				out.Values[outOff] = r.Values[off]
			}
			out.Producer = u
			out.Offset = u.NextOffset()
			return u.StampOrigin(out), nil
		default:
			return nil, io.EOF
		}
	}
}

// ReadAllRows collects both inputs, transforms right rows through the
// mapping, appends, and stamps fresh output offsets.
func (u *Union) ReadAllRows(ctx *rctx.Context) ([]*row.Row, error) {
	leftRows, err := u.left.ReadAllRows(ctx)
	if err != nil {
		return nil, err
	}
	rightRows, err := u.right.ReadAllRows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*row.Row, 0, len(leftRows)+len(rightRows))
	for _, r := range leftRows {
		o := row.New(u.Size())
		copy(o.Values[:u.leftNamedCount], r.Values[:u.leftNamedCount])
		o.Producer = u
		o.Offset = u.NextOffset()
		out = append(out, u.StampOrigin(o))
	}
	for _, r := range rightRows {
		o := row.New(u.Size())
		for off, outOff := range u.rightMapping {
			o.Values[outOff] = r.Values[off]
		}
		o.Producer = u
		o.Offset = u.NextOffset()
		out = append(out, u.StampOrigin(o))
	}
	u.phase = 2
	return out, nil
}

func (u *Union) Reset(ctx *rctx.Context) error {
	if !u.Preserve() {
		return errReset
	}
	if err := u.left.Reset(ctx); err != nil {
		return err
	}
	if err := u.right.Reset(ctx); err != nil {
		return err
	}
	u.phase = 0
	u.ResetOffset()
	return nil
}

func (u *Union) SetRequirements(preserve bool) {
	u.Base.SetRequirements(preserve)
	u.left.SetRequirements(preserve)
	u.right.SetRequirements(preserve)
}

func (u *Union) InnerRowsource(i int) (row.Rowsource, bool) {
	switch i {
	case 0:
		return u.left, true
	case 1:
		return u.right, true
	default:
		return nil, false
	}
}
