package xsddatetime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func canon(t *testing.T, s string) string {
	t.Helper()
	v, err := Parse(s)
	require.NoError(t, err)
	return v.Normalize().Canonical()
}

func TestCanonicalizationVectors(t *testing.T) {
	cases := map[string]string{
		"2004-12-31T23:50:22-01:15": "2005-01-01T01:05:22Z",
		"2012-04-12T24:00:00":       "2012-04-13T00:00:00",
		"2006-05-18T18:36:03.10Z":   "2006-05-18T18:36:03.1Z",
		"0001-01-01T00:00:00+00:01": "-0001-12-31T23:59:00Z",
	}
	for in, want := range cases {
		require.Equal(t, want, canon(t, in), "input %q", in)
	}
}

func TestParseRejectsYearZero(t *testing.T) {
	_, err := Parse("0000-01-01")
	require.Error(t, err)
}

func TestParseRejectsLeadingZeroLongYear(t *testing.T) {
	_, err := Parse("01234-01-01")
	require.Error(t, err)
}

func TestParseRejectsInvalidDayForMonth(t *testing.T) {
	_, err := Parse("2023-02-29")
	require.Error(t, err)
	_, err = Parse("2024-02-29")
	require.NoError(t, err)
}

func TestParseRejectsTZMaxOffsetWithMinutes(t *testing.T) {
	_, err := Parse("2020-01-01T00:00:00+14:01")
	require.Error(t, err)
	_, err = Parse("2020-01-01T00:00:00+14:00")
	require.NoError(t, err)
}

func TestIdempotentCanonicalizeParse(t *testing.T) {
	v, err := Parse("2020-06-15T12:00:00.5Z")
	require.NoError(t, err)
	c1 := v.Normalize().Canonical()
	v2, err := Parse(c1)
	require.NoError(t, err)
	c2 := v2.Normalize().Canonical()
	require.Equal(t, c1, c2)
}

func TestLeapYear(t *testing.T) {
	require.True(t, IsLeapYear(2000))
	require.False(t, IsLeapYear(1900))
	require.True(t, IsLeapYear(2024))
	require.False(t, IsLeapYear(2023))
	require.Contains(t, []int{28, 29}, DaysInMonth(2021, 2))
}

func TestNormalizeAcrossTimezoneOffsetEqual(t *testing.T) {
	a, err := Parse("2020-01-01T00:00:00+01:00")
	require.NoError(t, err)
	b, err := Parse("2019-12-31T23:00:00Z")
	require.NoError(t, err)
	require.True(t, Equal(a, b))
}

func TestDateOnlyHasNoTime(t *testing.T) {
	v, err := Parse("2020-01-01")
	require.NoError(t, err)
	require.False(t, v.HasTime)
	require.Equal(t, "2020-01-01", v.Canonical())
}
