package rowsource

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dajobe/rasqal-sub006/expr"
	"github.com/dajobe/rasqal-sub006/literal"
	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/row"
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

func TestSliceScenario(t *testing.T) {
	vars := namedTable("x")
	rows := []*row.Row{intRow(1), intRow(2), intRow(3), intRow(4), intRow(5)}
	src := NewRowSequence(vars, rows)
	sl := NewSlice(src, 2, 1)

	out := drainAll(t, sl)
	require.Len(t, out, 2)
	v0, _ := out[0].At(0).AsInteger()
	v1, _ := out[1].At(0).AsInteger()
	require.Equal(t, int64(2), v0)
	require.Equal(t, int64(3), v1)
	require.Equal(t, int64(1), out[0].Offset)
	require.Equal(t, int64(2), out[1].Offset)
}

func TestUnionScenario(t *testing.T) {
	leftVars := namedTable("a", "b")
	leftRows := []*row.Row{intRow(1, 10), intRow(2, 20), intRow(3, 30)}
	left := NewRowSequence(leftVars, leftRows)

	rightVars := namedTable("b", "c", "d")
	rightRows := []*row.Row{intRow(10, 100, 1000), intRow(20, 200, 2000), intRow(30, 300, 3000), intRow(40, 400, 4000)}
	right := NewRowSequence(rightVars, rightRows)

	u := NewUnion(left, right)
	out := drainAll(t, u)
	require.Len(t, out, 7)
	require.Equal(t, 4, u.Size())
	require.Equal(t, []string{"a", "b", "c", "d"}, u.Variables().Names())
}

func TestLeftOuterJoinScenario(t *testing.T) {
	leftVars := namedTable("a", "b")
	leftRows := []*row.Row{intRow(1, 10), intRow(2, 20), intRow(3, 30)}
	left := NewRowSequence(leftVars, leftRows)

	rightVars := namedTable("b", "c")
	rightRows := []*row.Row{intRow(10, 100), intRow(10, 101), intRow(20, 200), intRow(99, 999)}
	right := NewRowSequence(rightVars, rightRows)

	j := NewJoin(left, right, true, nil)
	out := drainAll(t, j)
	// left a=1,b=10 matches 2 right rows; a=2,b=20 matches 1; a=3,b=30
	// matches none -> padded. Total 2+1+1=4.
	require.Len(t, out, 4)
}

func TestNaturalJoinCompatibility(t *testing.T) {
	leftVars := namedTable("a", "b")
	left := NewRowSequence(leftVars, []*row.Row{intRow(1, 10), intRow(2, 20)})

	rightVars := namedTable("b", "c")
	right := NewRowSequence(rightVars, []*row.Row{intRow(10, 100), intRow(99, 999)})

	j := NewJoin(left, right, false, nil)
	out := drainAll(t, j)
	require.Len(t, out, 1)
	a, _ := out[0].At(0).AsInteger()
	b, _ := out[0].At(1).AsInteger()
	c, _ := out[0].At(2).AsInteger()
	require.Equal(t, int64(1), a)
	require.Equal(t, int64(10), b)
	require.Equal(t, int64(100), c)
}

func TestGroupByTwoGroups(t *testing.T) {
	vars := namedTable("x", "y")
	rows := []*row.Row{intRow(2, 3), intRow(2, 5), intRow(6, 7)}
	src := NewRowSequence(vars, rows)
	key := []expr.Expression{expr.GetField{Offset: 0, Name: "x"}}
	gb := NewGroupBy(src, key, literal.DefaultCompareFlags)

	out := drainAll(t, gb)
	require.Len(t, out, 3)
	require.Equal(t, out[0].GroupID, out[1].GroupID)
	require.NotEqual(t, out[0].GroupID, out[2].GroupID)
	// Within the first group, input order (y=3 then y=5) is preserved.
	y0, _ := out[0].At(1).AsInteger()
	y1, _ := out[1].At(1).AsInteger()
	require.Equal(t, int64(3), y0)
	require.Equal(t, int64(5), y1)
	require.Equal(t, 2, gb.GroupCount())
}

func TestGroupByEmptyKeyListIsSingleGroup(t *testing.T) {
	vars := namedTable("x")
	src := NewRowSequence(vars, nil)
	gb := NewGroupBy(src, nil, literal.DefaultCompareFlags)

	ctx := rctx.Background()
	require.NoError(t, gb.Init(ctx))
	require.NoError(t, gb.EnsureVariables(ctx))
	_, err := gb.ReadRow(ctx)
	require.Equal(t, io.EOF, err)
	require.Equal(t, 1, gb.GroupCount())
}

func TestFilterTreatsErrorAsFalse(t *testing.T) {
	vars := namedTable("x")
	rows := []*row.Row{intRow(1), intRow(2)}
	src := NewRowSequence(vars, rows)
	// GetField at an out-of-range offset always errors -> effective false.
	f := NewFilter(src, expr.GetField{Offset: 5, Name: "missing"})
	out := drainAll(t, f)
	require.Empty(t, out)
}

func TestProjectKeepsOnlyNamedColumns(t *testing.T) {
	vars := namedTable("a", "b", "c")
	rows := []*row.Row{intRow(1, 2, 3)}
	src := NewRowSequence(vars, rows)
	p := NewProject(src, []string{"c", "a"})
	out := drainAll(t, p)
	require.Len(t, out, 1)
	c, _ := out[0].At(0).AsInteger()
	a, _ := out[0].At(1).AsInteger()
	require.Equal(t, int64(3), c)
	require.Equal(t, int64(1), a)
}
