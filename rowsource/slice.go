package rowsource

import (
	"io"

	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/row"
)

// Slice implements (limit, offset) with negative meaning "unbounded". It
// maintains a 1-based input counter: skip while counter < offset+1, emit
// while counter <= offset+limit, then stop.
type Slice struct {
	row.Base
	inner   row.Rowsource
	limit   int64
	offset  int64
	counter int64
	done    bool
}

// NewSlice builds a Slice operator; negative limit/offset mean unbounded.
func NewSlice(inner row.Rowsource, limit, offset int64) *Slice {
	return &Slice{inner: inner, limit: limit, offset: offset}
}

func (s *Slice) Inner() row.Rowsource { return s.inner }

func (s *Slice) Init(ctx *rctx.Context) error { return s.inner.Init(ctx) }

func (s *Slice) EnsureVariables(ctx *rctx.Context) error {
	if err := s.inner.EnsureVariables(ctx); err != nil {
		return err
	}
	s.SetVariables(s.inner.Variables())
	s.SetSize(s.inner.Size())
	return nil
}

func (s *Slice) upperBound() int64 {
	if s.limit < 0 {
		return -1 // unbounded
	}
	return s.offset + s.limit
}

func (s *Slice) ReadRow(ctx *rctx.Context) (*row.Row, error) {
	if s.done {
		return nil, io.EOF
	}
	upper := s.upperBound()
	for {
		in, err := s.inner.ReadRow(ctx)
		if err != nil {
			s.done = true
			return nil, err
		}
		s.counter++
		if s.offset >= 0 && s.counter < s.offset+1 {
			continue
		}
		if upper >= 0 && s.counter > upper {
			s.done = true
			return nil, io.EOF
		}
		out := in.Clone()
		out.Producer = s
		out.Offset = s.NextOffset()
		return s.StampOrigin(out), nil
	}
}

func (s *Slice) ReadAllRows(ctx *rctx.Context) ([]*row.Row, error) {
	return row.ReadAll(ctx, s)
}

func (s *Slice) Reset(ctx *rctx.Context) error {
	if !s.Preserve() {
		return errReset
	}
	if err := s.inner.Reset(ctx); err != nil {
		return err
	}
	s.counter = 0
	s.done = false
	s.ResetOffset()
	return nil
}

func (s *Slice) SetRequirements(preserve bool) {
	s.Base.SetRequirements(preserve)
	s.inner.SetRequirements(preserve)
}

func (s *Slice) InnerRowsource(i int) (row.Rowsource, bool) {
	if i == 0 {
		return s.inner, true
	}
	return nil, false
}
