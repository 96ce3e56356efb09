package aggregation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dajobe/rasqal-sub006/expr"
	"github.com/dajobe/rasqal-sub006/literal"
	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/row"
	"github.com/dajobe/rasqal-sub006/rowsource"
	"github.com/dajobe/rasqal-sub006/variable"
)

func intRow(vals ...int64) *row.Row {
	r := row.New(len(vals))
	for i, v := range vals {
		lv := literal.NewInteger(v)
		r.Values[i] = &lv
	}
	return r
}

func namedTable(names ...string) *variable.Table {
	t := variable.NewTable()
	for _, n := range names {
		t.AddNamed(n)
	}
	return t
}

func drainAll(t *testing.T, rs row.Rowsource) []*row.Row {
	t.Helper()
	ctx := rctx.Background()
	require.NoError(t, rs.Init(ctx))
	require.NoError(t, rs.EnsureVariables(ctx))
	rows, err := rs.ReadAllRows(ctx)
	require.NoError(t, err)
	return rows
}

func TestCountStarOverGroupedInput(t *testing.T) {
	vars := namedTable("x")
	rows := []*row.Row{intRow(1), intRow(1), intRow(2)}
	src := rowsource.NewRowSequence(vars, rows)
	key := []expr.Expression{expr.GetField{Offset: 0, Name: "x"}}
	gb := rowsource.NewGroupBy(src, key, literal.DefaultCompareFlags)

	specs := []Spec{{Name: "count", Acc: Count{}, Args: []expr.Expression{expr.Star{}}, Named: true}}
	agg := NewAggregation(gb, key, []string{"x"}, specs)

	out := drainAll(t, agg)
	require.Len(t, out, 2)
	c0, _ := out[0].At(1).AsInteger()
	c1, _ := out[1].At(1).AsInteger()
	require.Equal(t, int64(2), c0)
	require.Equal(t, int64(1), c1)
}

func TestCountStarOverEmptyInputWithEmptyKeyList(t *testing.T) {
	vars := namedTable("x")
	src := rowsource.NewRowSequence(vars, nil)
	gb := rowsource.NewGroupBy(src, nil, literal.DefaultCompareFlags)

	specs := []Spec{{Name: "count", Acc: Count{}, Args: []expr.Expression{expr.Star{}}, Named: true}}
	agg := NewAggregation(gb, nil, nil, specs)

	out := drainAll(t, agg)
	require.Len(t, out, 1)
	c, _ := out[0].At(0).AsInteger()
	require.Equal(t, int64(0), c)
}

func TestCountStarOverNonEmptyInputWithEmptyKeyList(t *testing.T) {
	vars := namedTable("x")
	rows := []*row.Row{intRow(1), intRow(2), intRow(3)}
	src := rowsource.NewRowSequence(vars, rows)
	gb := rowsource.NewGroupBy(src, nil, literal.DefaultCompareFlags)

	specs := []Spec{{Name: "count", Acc: Count{}, Args: []expr.Expression{expr.Star{}}, Named: true}}
	agg := NewAggregation(gb, nil, nil, specs)

	out := drainAll(t, agg)
	require.Len(t, out, 1)
	c, _ := out[0].At(0).AsInteger()
	require.Equal(t, int64(3), c)
}

func TestSumAndAvgOverGroups(t *testing.T) {
	vars := namedTable("g", "v")
	rows := []*row.Row{intRow(1, 10), intRow(1, 20), intRow(2, 5)}
	src := rowsource.NewRowSequence(vars, rows)
	key := []expr.Expression{expr.GetField{Offset: 0, Name: "g"}}
	gb := rowsource.NewGroupBy(src, key, literal.DefaultCompareFlags)

	args := []expr.Expression{expr.GetField{Offset: 1, Name: "v"}}
	specs := []Spec{
		{Name: "sum", Acc: Sum{}, Args: args, Named: true},
		{Name: "avg", Acc: Avg{}, Args: args, Named: true},
	}
	agg := NewAggregation(gb, key, []string{"g"}, specs)

	out := drainAll(t, agg)
	require.Len(t, out, 2)
	sum0, _ := out[0].At(1).AsInteger()
	avg0, err := out[0].At(2).AsInteger()
	require.NoError(t, err)
	require.Equal(t, int64(30), sum0)
	require.Equal(t, int64(15), avg0)
	sum1, _ := out[1].At(1).AsInteger()
	avg1, err := out[1].At(2).AsInteger()
	require.NoError(t, err)
	require.Equal(t, int64(5), sum1)
	require.Equal(t, int64(5), avg1)
}

func TestDistinctCountSkipsDuplicateArgumentTuples(t *testing.T) {
	vars := namedTable("v")
	rows := []*row.Row{intRow(1), intRow(1), intRow(2)}
	src := rowsource.NewRowSequence(vars, rows)

	specs := []Spec{{
		Name:     "count",
		Acc:      Count{},
		Args:     []expr.Expression{expr.GetField{Offset: 0, Name: "v"}},
		Distinct: true,
		Named:    true,
	}}
	agg := NewAggregation(src, nil, nil, specs)

	out := drainAll(t, agg)
	require.Len(t, out, 1)
	c, _ := out[0].At(0).AsInteger()
	require.Equal(t, int64(2), c)
}
