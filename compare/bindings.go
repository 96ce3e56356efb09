package compare

import (
	"fmt"
	"sort"

	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/results"
)

// compareBindings implements the Bindings dispatch:
//   1. variable-table sizes/names in declared order
//   2. collect both sides' rows
//   3. sort by lexicographic row comparison (with offset tiebreak) unless
//      order-sensitive
//   4. compare row counts
//   5. compare each cell pairwise
//   6. cap reported differences at MaxDifferences
func compareBindings(ctx *rctx.Context, expected, actual results.Reader, opts Options) (*Result, error) {
	res := &Result{Equal: true}

	evars := expected.Variables()
	avars := actual.Variables()
	if len(evars) != len(avars) {
		res.addCell(opts, "variable count", fmt.Sprintf("%d", len(evars)), fmt.Sprintf("%d", len(avars)))
		return res, nil
	}
	for i := range evars {
		if evars[i] != avars[i] {
			res.addCell(opts, fmt.Sprintf("variable name at position %d", i), evars[i], avars[i])
			return res, nil
		}
	}

	erows, err := drainRows(expected)
	if err != nil {
		return nil, err
	}
	arows, err := drainRows(actual)
	if err != nil {
		return nil, err
	}

	cmp := rowComparator(evars, opts)
	if !opts.OrderSensitive {
		sort.SliceStable(erows, func(i, j int) bool {
			if c := cmp(erows[i], erows[j]); c != 0 {
				return c < 0
			}
			return erows[i].Offset < erows[j].Offset
		})
		sort.SliceStable(arows, func(i, j int) bool {
			if c := cmp(arows[i], arows[j]); c != 0 {
				return c < 0
			}
			return arows[i].Offset < arows[j].Offset
		})
	}

	if len(erows) != len(arows) {
		res.addCell(opts, "row count", fmt.Sprintf("%d", len(erows)), fmt.Sprintf("%d", len(arows)))
		return res, nil
	}

	var blankCtx *blankNodeContext
	if opts.BlankNodeStrategy == MatchStructural {
		blankCtx = newBlankNodeContext(expected, actual)
	}

	for i := range erows {
		for _, v := range evars {
			ec := erows[i].At(v)
			ac := arows[i].At(v)
			if ec == nil && ac == nil {
				continue
			}
			if ec == nil || ac == nil {
				res.addCell(opts, fmt.Sprintf("row %d, variable ?%s", i+1, v), describeTerm(ec), describeTerm(ac))
				if res.Truncated {
					return res, nil
				}
				continue
			}
			if !cellsEqual(*ec, *ac, opts, blankCtx) {
				res.addCell(opts, fmt.Sprintf("row %d, variable ?%s", i+1, v), describeTerm(ec), describeTerm(ac))
				if res.Truncated {
					return res, nil
				}
			}
		}
	}
	return res, nil
}

func drainRows(r results.Reader) ([]*results.Row, error) {
	if err := r.Rewind(); err != nil {
		return nil, err
	}
	var rows []*results.Row
	for {
		ok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return rows, nil
		}
		row, found := r.RowByOffset(int64(len(rows) + 1))
		if found {
			rows = append(rows, row)
		}
	}
}

// rowComparator returns a lexicographic comparison over a row's cells in
// variable-declaration order, using literal comparison flags; an unbound
// cell sorts before a bound one, and incomparable cells fall back to a
// string-based tiebreak on their rendered form.
func rowComparator(vars []string, opts Options) func(a, b *results.Row) int {
	return func(a, b *results.Row) int {
		for _, v := range vars {
			at, bt := a.At(v), b.At(v)
			switch {
			case at == nil && bt == nil:
				continue
			case at == nil:
				return -1
			case bt == nil:
				return 1
			}
			av, bv := at.Literal(), bt.Literal()
			if c, err := av.Compare(opts.LiteralFlags, bv); err == nil {
				if c != 0 {
					return c
				}
				continue
			}
			as, bs := describeTerm(at), describeTerm(bt)
			if as != bs {
				if as < bs {
					return -1
				}
				return 1
			}
		}
		return 0
	}
}

// cellsEqual implements the per-cell equality rules.
func cellsEqual(e, a results.Term, opts Options, blankCtx *blankNodeContext) bool {
	if e.Type == results.TermBnode && a.Type == results.TermBnode {
		return blankNodesEqual(e.Value, a.Value, opts.BlankNodeStrategy, blankCtx)
	}
	return e.Literal().Equals(a.Literal())
}

func describeTerm(t *results.Term) string {
	if t == nil {
		return "(unbound)"
	}
	switch t.Type {
	case results.TermURI:
		return "<" + t.Value + ">"
	case results.TermBnode:
		return "_:" + t.Value
	default:
		if t.Lang != "" {
			return fmt.Sprintf("%q@%s", t.Value, t.Lang)
		}
		if t.Datatype != "" {
			return fmt.Sprintf("%q^^<%s>", t.Value, t.Datatype)
		}
		return fmt.Sprintf("%q", t.Value)
	}
}
