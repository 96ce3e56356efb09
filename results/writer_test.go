package results

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONWriterRoundTrip(t *testing.T) {
	vars := []string{"x"}
	rows := []*Row{{Offset: 1, Bindings: map[string]*Term{"x": {Type: TermURI, Value: "http://example/a"}}}}
	reader := NewBindingsReader(vars, rows)

	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter(&buf).WriteBindings(reader))
	require.Contains(t, buf.String(), "http://example/a")
	require.Contains(t, buf.String(), `"vars"`)
}

func TestTableWriter(t *testing.T) {
	vars := []string{"x", "y"}
	rows := []*Row{{Offset: 1, Bindings: map[string]*Term{
		"x": {Type: TermURI, Value: "a"},
		"y": {Type: TermLiteral, Value: "1"},
	}}}
	reader := NewBindingsReader(vars, rows)

	var buf bytes.Buffer
	require.NoError(t, NewTableWriter(&buf).Write(reader))
	require.Contains(t, buf.String(), "x")
	require.Contains(t, buf.String(), "<a>")
}
