package row

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dajobe/rasqal-sub006/literal"
)

func TestRowAtOutOfRangeIsUnbound(t *testing.T) {
	r := New(2)
	require.Nil(t, r.At(0))
	require.Nil(t, r.At(5))
	v := literal.NewInteger(1)
	r.Values[0] = &v
	require.Equal(t, int64(1), mustInt(t, r.At(0)))
}

func TestCloneIsIndependent(t *testing.T) {
	r := New(1)
	v := literal.NewInteger(1)
	r.Values[0] = &v
	c := r.Clone()
	v2 := literal.NewInteger(2)
	c.Values[0] = &v2
	require.Equal(t, int64(1), mustInt(t, r.At(0)))
	require.Equal(t, int64(2), mustInt(t, c.At(0)))
}

func mustInt(t *testing.T, v *literal.Value) int64 {
	t.Helper()
	i, err := v.AsInteger()
	require.NoError(t, err)
	return i
}
