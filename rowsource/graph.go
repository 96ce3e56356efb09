package rowsource

import (
	"io"

	"github.com/dajobe/rasqal-sub006/literal"
	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/row"
)

// GraphRef names one graph of a dataset for Graph iteration. A nil Name
// means the graph has no name and must be skipped.
type GraphRef struct {
	Name *literal.Value
}

// Dataset supplies the ordered list of graphs a Graph operator iterates.
// The dataset itself (triple storage, indexing) is external to the core.
type Dataset interface {
	Graphs() []GraphRef
}

// Graph implements `GRAPH ?g { P }` iteration: for each named graph it
// stamps the graph IRI as row origin on the inner pattern's rows,
// resetting the inner rowsource between graphs.
type Graph struct {
	row.Base
	inner   row.Rowsource
	dataset Dataset

	graphs  []GraphRef
	idx     int // index into graphs of the graph currently being read
	started bool
	done    bool
}

// NewGraph builds a Graph operator driving inner once per named graph.
func NewGraph(inner row.Rowsource, dataset Dataset) *Graph {
	return &Graph{inner: inner, dataset: dataset, idx: -1}
}

func (g *Graph) Inner() row.Rowsource { return g.inner }

func (g *Graph) Init(ctx *rctx.Context) error {
	if err := g.inner.Init(ctx); err != nil {
		return err
	}
	g.inner.SetRequirements(true)
	for _, ref := range g.dataset.Graphs() {
		if ref.Name == nil {
			continue
		}
		g.graphs = append(g.graphs, ref)
	}
	return nil
}

func (g *Graph) EnsureVariables(ctx *rctx.Context) error {
	if err := g.inner.EnsureVariables(ctx); err != nil {
		return err
	}
	g.SetVariables(g.inner.Variables())
	g.SetSize(g.inner.Size())
	return nil
}

// advance moves to the next graph in dataset order, resetting the inner
// rowsource to iterate it from the start. Returns false once graphs are
// exhausted.
func (g *Graph) advance(ctx *rctx.Context) (bool, error) {
	g.idx++
	if g.idx >= len(g.graphs) {
		return false, nil
	}
	if g.started {
		if err := g.inner.Reset(ctx); err != nil {
			return false, err
		}
	}
	g.started = true
	g.inner.SetOrigin(g.graphs[g.idx].Name)
	return true, nil
}

func (g *Graph) ReadRow(ctx *rctx.Context) (*row.Row, error) {
	if g.done {
		return nil, io.EOF
	}
	if g.idx < 0 {
		ok, err := g.advance(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			g.done = true
			return nil, io.EOF
		}
	}
	for {
		r, err := g.inner.ReadRow(ctx)
		if err == io.EOF {
			ok, aerr := g.advance(ctx)
			if aerr != nil {
				return nil, aerr
			}
			if !ok {
				g.done = true
				return nil, io.EOF
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		out := r.Clone()
		out.Origin = g.graphs[g.idx].Name
		out.Producer = g
		out.Offset = g.NextOffset()
		return out, nil
	}
}

func (g *Graph) ReadAllRows(ctx *rctx.Context) ([]*row.Row, error) {
	return row.ReadAll(ctx, g)
}

func (g *Graph) Reset(ctx *rctx.Context) error {
	if !g.Preserve() {
		return errReset
	}
	g.idx = -1
	// started stays set, so advance resets the inner rowsource before
	// re-reading the first graph.
	g.done = false
	g.ResetOffset()
	return nil
}

func (g *Graph) SetRequirements(preserve bool) {
	g.Base.SetRequirements(preserve)
	g.inner.SetRequirements(true)
}

func (g *Graph) InnerRowsource(i int) (row.Rowsource, bool) {
	if i == 0 {
		return g.inner, true
	}
	return nil, false
}
