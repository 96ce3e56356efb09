package results

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func openerForString(doc string) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(doc)), nil
	}
}

func TestJSONReaderBindings(t *testing.T) {
	doc := `{
		"head": {"vars": ["x", "y"]},
		"results": {
			"bindings": [
				{"x": {"type": "uri", "value": "http://example/a"}, "y": {"type": "literal", "value": "1"}},
				{"x": {"type": "bnode", "value": "b0"}}
			]
		}
	}`
	r := NewJSONReader(openerForString(doc))
	require.NoError(t, r.Rewind())
	require.True(t, r.IsBindings())
	require.Equal(t, []string{"x", "y"}, r.Variables())

	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, TermURI, rows[0].At("x").Type)
	require.Equal(t, "http://example/a", rows[0].At("x").Value)
	require.Equal(t, "1", rows[0].At("y").Value)
	require.Nil(t, rows[1].At("y"))
	require.Equal(t, TermBnode, rows[1].At("x").Type)
}

func TestJSONReaderBoolean(t *testing.T) {
	doc := `{"head": {}, "boolean": true}`
	r := NewJSONReader(openerForString(doc))
	require.NoError(t, r.Rewind())
	require.True(t, r.IsBoolean())
	v, err := r.Boolean()
	require.NoError(t, err)
	require.True(t, v)
}

func TestJSONReaderRewindRestartsStream(t *testing.T) {
	doc := `{"head": {"vars": ["x"]}, "results": {"bindings": [{"x": {"type": "literal", "value": "1"}}]}}`
	r := NewJSONReader(openerForString(doc))
	require.NoError(t, r.Rewind())
	rows1, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows1, 1)

	require.NoError(t, r.Rewind())
	rows2, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows2, 1)
}
