// Package aggregation implements the per-group accumulator states and the
// Aggregation rowsource operator: COUNT/SUM/AVG/MIN/MAX/SAMPLE/
// GROUP_CONCAT over a grouped input.
package aggregation

import (
	"sort"
	"strings"

	"github.com/dajobe/rasqal-sub006/literal"
	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/rerror"
)

// Buffer is the per-group accumulator state for one aggregate expression.
type Buffer interface {
	// Update folds one row's already-evaluated argument tuple into the
	// buffer. A nil element means that argument failed to evaluate for
	// this row and is skipped.
	Update(ctx *rctx.Context, args []*literal.Value) error
	// Eval finalizes the buffer. An error means the aggregate's result is
	// unbound for this group.
	Eval(ctx *rctx.Context) (literal.Value, error)
}

// Accumulator is a stateless aggregate kind that manufactures a fresh
// Buffer per group.
type Accumulator interface {
	NewBuffer() Buffer
}

var errUnbound = rerror.New(rerror.KindType, "aggregate result is unbound")

// rowResetErr is returned by Aggregation.Reset when SetRequirements(true)
// was never called.
var rowResetErr = rerror.New(rerror.KindSchema, "reset called without a prior SetRequirements(true)")

// --- COUNT ---

// Count is shared by COUNT(expr) and COUNT(*); the Aggregation operator
// passes a nil argument tuple to countBuffer.Update for COUNT(*) rather
// than evaluating an argument expression (see isCountStar).
type Count struct{}

func (Count) NewBuffer() Buffer { return &countBuffer{} }

type countBuffer struct{ n int64 }

func (b *countBuffer) Update(_ *rctx.Context, args []*literal.Value) error {
	if len(args) == 0 {
		b.n++
		return nil
	}
	for _, a := range args {
		if a != nil {
			b.n++
			return nil
		}
	}
	return nil
}

func (b *countBuffer) Eval(*rctx.Context) (literal.Value, error) {
	return literal.NewInteger(b.n), nil
}

// --- SUM / AVG ---

type Sum struct{}

func (Sum) NewBuffer() Buffer { return &sumBuffer{} }

type sumBuffer struct {
	sum    literal.Value
	have   bool
	failed bool
}

func (b *sumBuffer) Update(_ *rctx.Context, args []*literal.Value) error {
	if len(args) == 0 || args[0] == nil {
		return nil
	}
	if b.failed {
		return nil
	}
	if !args[0].IsNumeric() {
		b.failed = true
		return nil
	}
	if !b.have {
		b.sum = *args[0]
		b.have = true
		return nil
	}
	v, err := b.sum.Add(*args[0])
	if err != nil {
		b.failed = true
		return nil
	}
	b.sum = v
	return nil
}

func (b *sumBuffer) Eval(*rctx.Context) (literal.Value, error) {
	if b.failed {
		return literal.Value{}, errUnbound
	}
	if !b.have {
		return literal.NewInteger(0), nil
	}
	return b.sum, nil
}

type Avg struct{}

func (Avg) NewBuffer() Buffer { return &avgBuffer{} }

type avgBuffer struct {
	sum    literal.Value
	have   bool
	n      int64
	failed bool
}

func (b *avgBuffer) Update(_ *rctx.Context, args []*literal.Value) error {
	if len(args) == 0 || args[0] == nil {
		return nil
	}
	if b.failed {
		return nil
	}
	if !args[0].IsNumeric() {
		b.failed = true
		return nil
	}
	if !b.have {
		b.sum = *args[0]
		b.have = true
	} else {
		v, err := b.sum.Add(*args[0])
		if err != nil {
			b.failed = true
			return nil
		}
		b.sum = v
	}
	b.n++
	return nil
}

func (b *avgBuffer) Eval(*rctx.Context) (literal.Value, error) {
	if b.failed {
		return literal.Value{}, errUnbound
	}
	// AVG on an empty group returns integer 0.
	if b.n == 0 {
		return literal.NewInteger(0), nil
	}
	return b.sum.Divide(literal.NewInteger(b.n))
}

// --- MIN / MAX ---

type Min struct{}

func (Min) NewBuffer() Buffer { return &extremumBuffer{wantMax: false} }

type Max struct{}

func (Max) NewBuffer() Buffer { return &extremumBuffer{wantMax: true} }

type extremumBuffer struct {
	cur     literal.Value
	have    bool
	wantMax bool
	failed  bool
}

func (b *extremumBuffer) Update(_ *rctx.Context, args []*literal.Value) error {
	if len(args) == 0 || args[0] == nil || b.failed {
		return nil
	}
	if !b.have {
		b.cur = *args[0]
		b.have = true
		return nil
	}
	c, err := b.cur.Compare(literal.DefaultCompareFlags, *args[0])
	if err != nil {
		b.failed = true
		return nil
	}
	if (b.wantMax && c < 0) || (!b.wantMax && c > 0) {
		b.cur = *args[0]
	}
	return nil
}

func (b *extremumBuffer) Eval(*rctx.Context) (literal.Value, error) {
	if b.failed {
		return literal.Value{}, errUnbound
	}
	if !b.have {
		return literal.Value{}, errUnbound
	}
	return b.cur, nil
}

// --- SAMPLE ---

type Sample struct{}

func (Sample) NewBuffer() Buffer { return &sampleBuffer{} }

type sampleBuffer struct {
	v    literal.Value
	have bool
}

func (b *sampleBuffer) Update(_ *rctx.Context, args []*literal.Value) error {
	if !b.have && len(args) > 0 && args[0] != nil {
		b.v = *args[0]
		b.have = true
	}
	return nil
}

func (b *sampleBuffer) Eval(*rctx.Context) (literal.Value, error) {
	if !b.have {
		return literal.Value{}, errUnbound
	}
	return b.v, nil
}

// --- GROUP_CONCAT ---

// GroupConcat joins string forms of successfully bound arguments with
// Separator (default single space). OrderBy, when set, sorts the
// concatenated values lexicographically before joining instead of
// preserving input order, the common SPARQL GROUP_CONCAT/ORDER BY
// extension.
type GroupConcat struct {
	Separator string
	OrderBy   bool
}

func (g GroupConcat) NewBuffer() Buffer {
	sep := g.Separator
	if sep == "" {
		sep = " "
	}
	return &groupConcatBuffer{sep: sep, orderBy: g.OrderBy}
}

type groupConcatBuffer struct {
	sep     string
	orderBy bool
	parts   []string
}

func (b *groupConcatBuffer) Update(_ *rctx.Context, args []*literal.Value) error {
	if len(args) == 0 || args[0] == nil {
		return nil
	}
	s, err := args[0].AsString()
	if err != nil {
		return nil
	}
	b.parts = append(b.parts, s)
	return nil
}

func (b *groupConcatBuffer) Eval(*rctx.Context) (literal.Value, error) {
	parts := b.parts
	if b.orderBy {
		parts = append([]string(nil), parts...)
		sort.Strings(parts)
	}
	return literal.NewPlainString(strings.Join(parts, b.sep)), nil
}
