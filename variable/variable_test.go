package variable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNamedOffsetsAndAnonymousShift(t *testing.T) {
	tbl := NewTable()
	x := tbl.AddNamed("x")
	require.Equal(t, 0, x.Offset)

	agg := tbl.AddAnonymous("__agg0")
	require.Equal(t, 1, agg.Offset)

	y := tbl.AddNamed("y")
	require.Equal(t, 1, y.Offset)
	// Inserting a new named variable shifts the anonymous offset by +1.
	require.Equal(t, 2, agg.Offset)

	require.Equal(t, 3, tbl.Size())
	require.Equal(t, []string{"x", "y"}, tbl.Names())
}

func TestAddingExistingNameReturnsSameEntry(t *testing.T) {
	tbl := NewTable()
	a := tbl.AddNamed("x")
	b := tbl.AddNamed("x")
	require.Same(t, a, b)
	require.Equal(t, 1, tbl.NamedCount())
}

func TestAddFreshAnonymousGeneratesUniqueNames(t *testing.T) {
	tbl := NewTable()
	a := tbl.AddFreshAnonymous("agg")
	b := tbl.AddFreshAnonymous("agg")
	require.NotEqual(t, a.Name, b.Name)
	require.Equal(t, Anonymous, a.Kind)
	require.Equal(t, 2, tbl.AnonymousCount())
}

func TestNamedAndAnonymousCanShareAName(t *testing.T) {
	tbl := NewTable()
	named := tbl.AddNamed("count")
	anon := tbl.AddAnonymous("count")
	require.NotSame(t, named, anon)

	v, ok := tbl.Lookup("count")
	require.True(t, ok)
	require.Same(t, named, v)
}
