package literal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dajobe/rasqal-sub006/xsddatetime"
)

func TestNumericEqualsCrossSubtype(t *testing.T) {
	require.True(t, NewInteger(2).Equals(NewDouble(2)))
	dec, err := NewDecimal("2.0")
	require.NoError(t, err)
	require.True(t, NewInteger(2).Equals(dec))
}

func TestAddPromotion(t *testing.T) {
	sum, err := NewInteger(1).Add(NewInteger(2))
	require.NoError(t, err)
	require.Equal(t, KindInteger, sum.Kind())
	i, err := sum.AsInteger()
	require.NoError(t, err)
	require.Equal(t, int64(3), i)

	dec, err := NewDecimal("1.5")
	require.NoError(t, err)
	sum2, err := NewInteger(1).Add(dec)
	require.NoError(t, err)
	require.Equal(t, KindDecimal, sum2.Kind())
}

func TestDivideByZeroIsTypeError(t *testing.T) {
	_, err := NewInteger(1).Divide(NewInteger(0))
	require.Error(t, err)
}

func TestEffectiveBooleanValue(t *testing.T) {
	b, err := NewInteger(0).AsBoolean()
	require.NoError(t, err)
	require.False(t, b)

	b, err = NewPlainString("x").AsBoolean()
	require.NoError(t, err)
	require.True(t, b)

	_, err = NewURI("http://example/").AsBoolean()
	require.Error(t, err)
}

func TestDateTimeLiteralCompare(t *testing.T) {
	a, err := xsddatetime.Parse("2004-12-31T23:50:22-01:15")
	require.NoError(t, err)
	b, err := xsddatetime.Parse("2005-01-01T01:05:22Z")
	require.NoError(t, err)
	va := NewDateTime(a)
	vb := NewDateTime(b)
	require.True(t, va.Equals(vb))
	c, err := va.Compare(DefaultCompareFlags, vb)
	require.NoError(t, err)
	require.Equal(t, 0, c)
}

func TestNewFreshBlankGeneratesUniqueIdentifiers(t *testing.T) {
	a := NewFreshBlank()
	b := NewFreshBlank()
	require.Equal(t, KindBlank, a.Kind())
	require.NotEqual(t, a.Lexical(), b.Lexical())
}

func TestURIAwareComparisonRejectsStringMix(t *testing.T) {
	_, err := NewURI("http://example/").Compare(DefaultCompareFlags, NewPlainString("http://example/"))
	require.Error(t, err)
}
