package rowsource

import (
	"io"
	"sort"

	"github.com/dajobe/rasqal-sub006/expr"
	"github.com/dajobe/rasqal-sub006/literal"
	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/row"
)

// groupState is one node of the key-ordered group tree. id is assigned
// by discovery order, independent of the tree's key order.
type groupState struct {
	key  []*literal.Value
	id   int
	rows []*row.Row
}

// GroupBy groups input rows by a tuple of key expressions: it drains its
// input fully on first read, tags each row with its group's id, then
// emits rows in key-tree order, preserving each group's input order.
type GroupBy struct {
	row.Base
	inner    row.Rowsource
	keyExprs []expr.Expression
	flags    literal.CompareFlags

	sorted  []*groupState // kept sorted by key for O(log n) lookup
	nextID  int
	output  []*row.Row
	pos     int
	drained bool
}

// NewGroupBy builds a GroupBy operator keying on keyExprs evaluated
// against inner's rows. An empty keyExprs means a single implicit group.
func NewGroupBy(inner row.Rowsource, keyExprs []expr.Expression, flags literal.CompareFlags) *GroupBy {
	return &GroupBy{inner: inner, keyExprs: keyExprs, flags: flags}
}

func (g *GroupBy) Inner() row.Rowsource { return g.inner }

func (g *GroupBy) Init(ctx *rctx.Context) error { return g.inner.Init(ctx) }

func (g *GroupBy) EnsureVariables(ctx *rctx.Context) error {
	if err := g.inner.EnsureVariables(ctx); err != nil {
		return err
	}
	g.SetVariables(g.inner.Variables())
	g.SetSize(g.inner.Size())
	return nil
}

// compareKeyTuple orders two key tuples lexicographically. A nil element
// (an unbound key position) sorts before any bound value; two values
// whose Compare reports a type error fall back to KindRank, then to
// lexical string form, so the tree always has a deterministic total
// order.
func (g *GroupBy) compareKeyTuple(a, b []*literal.Value) int {
	for i := range a {
		av, bv := a[i], b[i]
		switch {
		case av == nil && bv == nil:
			continue
		case av == nil:
			return -1
		case bv == nil:
			return 1
		}
		if c, err := av.Compare(g.flags, *bv); err == nil {
			if c != 0 {
				return c
			}
			continue
		}
		if av.KindRank() != bv.KindRank() {
			if av.KindRank() < bv.KindRank() {
				return -1
			}
			return 1
		}
		if as, bs := av.String(), bv.String(); as != bs {
			if as < bs {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (g *GroupBy) find(key []*literal.Value) (int, bool) {
	idx := sort.Search(len(g.sorted), func(i int) bool {
		return g.compareKeyTuple(g.sorted[i].key, key) >= 0
	})
	if idx < len(g.sorted) && g.compareKeyTuple(g.sorted[idx].key, key) == 0 {
		return idx, true
	}
	return idx, false
}

func (g *GroupBy) drain(ctx *rctx.Context) error {
	if g.drained {
		return nil
	}
	g.drained = true
	rows, err := g.inner.ReadAllRows(ctx)
	if err != nil {
		return err
	}
	if len(g.keyExprs) == 0 {
		// Single implicit group, id 0, rows in input order. A zero-row
		// input still counts as exactly one group with no rows — see
		// GroupCount and aggregation.Aggregation's empty-group handling.
		for _, r := range rows {
			r.GroupID = 0
		}
		g.output = rows
		g.nextID = 1
		return nil
	}
	for _, r := range rows {
		key, _ := expr.Tuple(ctx, r, g.keyExprs)
		idx, ok := g.find(key)
		var gs *groupState
		if ok {
			gs = g.sorted[idx]
		} else {
			gs = &groupState{key: key, id: g.nextID}
			g.nextID++
			g.sorted = append(g.sorted, nil)
			copy(g.sorted[idx+1:], g.sorted[idx:])
			g.sorted[idx] = gs
		}
		r.GroupID = gs.id
		gs.rows = append(gs.rows, r)
	}
	g.output = g.output[:0]
	for _, gs := range g.sorted {
		g.output = append(g.output, gs.rows...)
	}
	return nil
}

func (g *GroupBy) ReadRow(ctx *rctx.Context) (*row.Row, error) {
	if err := g.drain(ctx); err != nil {
		return nil, err
	}
	if g.pos >= len(g.output) {
		return nil, io.EOF
	}
	r := g.output[g.pos]
	g.pos++
	out := r.Clone()
	out.GroupID = r.GroupID
	out.Producer = g
	out.Offset = g.NextOffset()
	return g.StampOrigin(out), nil
}

func (g *GroupBy) ReadAllRows(ctx *rctx.Context) ([]*row.Row, error) {
	if err := g.drain(ctx); err != nil {
		return nil, err
	}
	return row.ReadAll(ctx, g)
}

func (g *GroupBy) Reset(ctx *rctx.Context) error {
	if !g.Preserve() {
		return errReset
	}
	g.pos = 0
	g.ResetOffset()
	return nil
}

func (g *GroupBy) SetRequirements(preserve bool) {
	g.Base.SetRequirements(preserve)
}

func (g *GroupBy) InnerRowsource(i int) (row.Rowsource, bool) {
	if i == 0 {
		return g.inner, true
	}
	return nil, false
}

// GroupCount returns the number of distinct groups discovered, used by
// Aggregation to detect the empty-key-list, zero-row edge case where
// exactly one (empty) group must still be emitted.
func (g *GroupBy) GroupCount() int { return g.nextID }
