package compare

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dajobe/rasqal-sub006/rctx"
	"github.com/dajobe/rasqal-sub006/results"
)

func uriTerm(v string) *results.Term { return &results.Term{Type: results.TermURI, Value: v} }
func litTerm(v string) *results.Term { return &results.Term{Type: results.TermLiteral, Value: v} }

func bindingsRows(rows ...map[string]*results.Term) []*results.Row {
	out := make([]*results.Row, len(rows))
	for i, r := range rows {
		out[i] = &results.Row{Offset: int64(i + 1), Bindings: r}
	}
	return out
}

func TestCompareBindingsEqualIdenticalRows(t *testing.T) {
	vars := []string{"x", "y"}
	rows := bindingsRows(
		map[string]*results.Term{"x": uriTerm("a"), "y": litTerm("1")},
		map[string]*results.Term{"x": uriTerm("b"), "y": litTerm("2")},
	)
	expected := results.NewBindingsReader(vars, rows)
	actual := results.NewBindingsReader(vars, rows)

	res, err := Compare(rctx.Background(), expected, actual, DefaultOptions)
	require.NoError(t, err)
	require.True(t, res.Equal)
}

func TestCompareBindingsReorderedRowsOrderInsensitive(t *testing.T) {
	vars := []string{"x"}
	eRows := bindingsRows(
		map[string]*results.Term{"x": litTerm("1")},
		map[string]*results.Term{"x": litTerm("2")},
	)
	aRows := bindingsRows(
		map[string]*results.Term{"x": litTerm("2")},
		map[string]*results.Term{"x": litTerm("1")},
	)
	expected := results.NewBindingsReader(vars, eRows)
	actual := results.NewBindingsReader(vars, aRows)

	opts := DefaultOptions
	opts.OrderSensitive = false
	res, err := Compare(rctx.Background(), expected, actual, opts)
	require.NoError(t, err)
	require.True(t, res.Equal)

	opts.OrderSensitive = true
	res, err = Compare(rctx.Background(), expected, actual, opts)
	require.NoError(t, err)
	require.False(t, res.Equal)
}

func TestCompareBindingsMaxDifferencesCaps(t *testing.T) {
	vars := []string{"x", "y"}
	eRows := bindingsRows(map[string]*results.Term{"x": litTerm("1"), "y": litTerm("a")})
	aRows := bindingsRows(map[string]*results.Term{"x": litTerm("2"), "y": litTerm("b")})
	expected := results.NewBindingsReader(vars, eRows)
	actual := results.NewBindingsReader(vars, aRows)

	opts := DefaultOptions
	opts.MaxDifferences = 1
	res, err := Compare(rctx.Background(), expected, actual, opts)
	require.NoError(t, err)
	require.False(t, res.Equal)
	require.Len(t, res.CellDiffs, 1)
	require.True(t, res.Truncated)
}

func TestCompareBindingsUnboundVsBoundDiffers(t *testing.T) {
	vars := []string{"x"}
	eRows := bindingsRows(map[string]*results.Term{})
	aRows := bindingsRows(map[string]*results.Term{"x": litTerm("1")})
	expected := results.NewBindingsReader(vars, eRows)
	actual := results.NewBindingsReader(vars, aRows)

	res, err := Compare(rctx.Background(), expected, actual, DefaultOptions)
	require.NoError(t, err)
	require.False(t, res.Equal)
	require.Len(t, res.CellDiffs, 1)
}

func TestCompareBoolean(t *testing.T) {
	res, err := Compare(rctx.Background(), results.NewBooleanReader(true), results.NewBooleanReader(true), DefaultOptions)
	require.NoError(t, err)
	require.True(t, res.Equal)

	res, err = Compare(rctx.Background(), results.NewBooleanReader(true), results.NewBooleanReader(false), DefaultOptions)
	require.NoError(t, err)
	require.False(t, res.Equal)
}

func TestCompareBindingsBlankNodeMatchAny(t *testing.T) {
	vars := []string{"x"}
	eRows := bindingsRows(map[string]*results.Term{"x": {Type: results.TermBnode, Value: "b0"}})
	aRows := bindingsRows(map[string]*results.Term{"x": {Type: results.TermBnode, Value: "b99"}})
	expected := results.NewBindingsReader(vars, eRows)
	actual := results.NewBindingsReader(vars, aRows)

	res, err := Compare(rctx.Background(), expected, actual, DefaultOptions)
	require.NoError(t, err)
	require.True(t, res.Equal)

	opts := DefaultOptions
	opts.BlankNodeStrategy = MatchByID
	res, err = Compare(rctx.Background(), expected, actual, opts)
	require.NoError(t, err)
	require.False(t, res.Equal)
}

func TestCompareGraphIsomorphicBlankNodes(t *testing.T) {
	expected := results.NewTripleSetReader([]results.Triple{
		{Subject: results.Term{Type: results.TermBnode, Value: "e1"}, Predicate: results.Term{Type: results.TermURI, Value: "knows"}, Object: results.Term{Type: results.TermURI, Value: "alice"}},
	})
	actual := results.NewTripleSetReader([]results.Triple{
		{Subject: results.Term{Type: results.TermBnode, Value: "a7"}, Predicate: results.Term{Type: results.TermURI, Value: "knows"}, Object: results.Term{Type: results.TermURI, Value: "alice"}},
	})

	res, err := Compare(rctx.Background(), expected, actual, DefaultOptions)
	require.NoError(t, err)
	require.True(t, res.Equal)
}

func TestCompareGraphGroundTripleMismatch(t *testing.T) {
	expected := results.NewTripleSetReader([]results.Triple{
		{Subject: results.Term{Type: results.TermURI, Value: "alice"}, Predicate: results.Term{Type: results.TermURI, Value: "knows"}, Object: results.Term{Type: results.TermURI, Value: "bob"}},
	})
	actual := results.NewTripleSetReader([]results.Triple{
		{Subject: results.Term{Type: results.TermURI, Value: "alice"}, Predicate: results.Term{Type: results.TermURI, Value: "knows"}, Object: results.Term{Type: results.TermURI, Value: "carol"}},
	})

	res, err := Compare(rctx.Background(), expected, actual, DefaultOptions)
	require.NoError(t, err)
	require.False(t, res.Equal)
	require.NotEmpty(t, res.TripleDiffs)
}
