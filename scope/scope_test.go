package scope

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVisibleUnionsParentChain(t *testing.T) {
	root := NewRoot()
	root.Local().AddNamed("x")

	child := root.NewChild(Subquery)
	child.Local().AddNamed("y")

	grandchild := child.NewChild(Union)
	grandchild.Local().AddNamed("z")

	require.ElementsMatch(t, []string{"x", "y", "z"}, grandchild.Visible())
	require.ElementsMatch(t, []string{"x", "y"}, child.Visible())
	require.ElementsMatch(t, []string{"x"}, root.Visible())
}

func TestResolveFallsBackToParent(t *testing.T) {
	root := NewRoot()
	xv := root.Local().AddNamed("x")

	child := root.NewChild(Minus)

	v, owner, ok := child.Resolve("x")
	require.True(t, ok)
	require.Same(t, xv, v)
	require.Same(t, root, owner)

	_, _, ok = child.Resolve("nope")
	require.False(t, ok)
}

func TestDisableInheritanceStopsResolveAndVisible(t *testing.T) {
	root := NewRoot()
	root.Local().AddNamed("x")

	child := root.NewChild(Exists)
	child.DisableInheritance()
	child.Local().AddNamed("y")

	require.Equal(t, []string{"y"}, child.Visible())
	_, _, ok := child.Resolve("x")
	require.False(t, ok)
}

func TestSiblingGroupScopesCannotShareAName(t *testing.T) {
	root := NewRoot()
	g1 := root.NewChild(Group)
	g2 := root.NewChild(Group)

	_, err := g1.DeclareNamed("total")
	require.NoError(t, err)

	_, err = g2.DeclareNamed("total")
	require.Error(t, err)
}

func TestNonGroupSiblingsMaySharEAName(t *testing.T) {
	root := NewRoot()
	u1 := root.NewChild(Union)
	u2 := root.NewChild(Union)

	_, err := u1.DeclareNamed("x")
	require.NoError(t, err)
	_, err = u2.DeclareNamed("x")
	require.NoError(t, err)
}

func TestDeclareNamedIsIdempotentWithinAGroupScope(t *testing.T) {
	root := NewRoot()
	g := root.NewChild(Group)

	a, err := g.DeclareNamed("total")
	require.NoError(t, err)
	b, err := g.DeclareNamed("total")
	require.NoError(t, err)
	require.Same(t, a, b)
}
