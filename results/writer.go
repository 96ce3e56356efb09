package results

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// jsonBindingsDoc mirrors the grammar JSONReader parses, used in reverse
// by JSONWriter.
type jsonBindingsDoc struct {
	Head    jsonHead                      `json:"head"`
	Results *jsonBindingsResults          `json:"results,omitempty"`
	Boolean *bool                         `json:"boolean,omitempty"`
}

type jsonBindingsResults struct {
	Bindings []map[string]jsonBindingValue `json:"bindings"`
}

func termToJSON(t *Term) jsonBindingValue {
	return jsonBindingValue{Type: t.Type.String(), Value: t.Value, Datatype: t.Datatype, Lang: t.Lang}
}

// JSONWriter emits one SPARQL-Results-JSON object per query result.
type JSONWriter struct {
	w io.Writer
}

func NewJSONWriter(w io.Writer) *JSONWriter { return &JSONWriter{w: w} }

// WriteBindings drains r (which must be a bindings Reader) and writes it
// as a single SPARQL-Results-JSON document.
func (jw *JSONWriter) WriteBindings(r Reader) error {
	doc := jsonBindingsDoc{Head: jsonHead{Vars: r.Variables()}, Results: &jsonBindingsResults{}}
	if err := r.Rewind(); err != nil {
		return err
	}
	for {
		ok, err := r.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		row, _ := r.RowByOffset(int64(len(doc.Results.Bindings) + 1))
		if row == nil {
			continue
		}
		out := make(map[string]jsonBindingValue, len(row.Bindings))
		for name, term := range row.Bindings {
			if term == nil {
				continue
			}
			out[name] = termToJSON(term)
		}
		doc.Results.Bindings = append(doc.Results.Bindings, out)
	}
	enc := json.NewEncoder(jw.w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteBoolean writes an ASK-style { "head": {"vars": []}, "boolean": ... }
// document.
func (jw *JSONWriter) WriteBoolean(value bool) error {
	doc := jsonBindingsDoc{Head: jsonHead{Vars: []string{}}, Boolean: &value}
	enc := json.NewEncoder(jw.w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// BooleanWriter writes a bare boolean result as plain text, one line per
// result.
type BooleanWriter struct{ w io.Writer }

func NewBooleanWriter(w io.Writer) *BooleanWriter { return &BooleanWriter{w: w} }

func (bw *BooleanWriter) Write(value bool) error {
	_, err := fmt.Fprintln(bw.w, value)
	return err
}

// TableWriter renders a bindings Reader as an aligned plain-text table,
// the human-readable counterpart to JSONWriter.
type TableWriter struct{ w io.Writer }

func NewTableWriter(w io.Writer) *TableWriter { return &TableWriter{w: w} }

func (tw *TableWriter) Write(r Reader) error {
	vars := r.Variables()
	widths := make([]int, len(vars))
	for i, v := range vars {
		widths[i] = len(v)
	}
	if err := r.Rewind(); err != nil {
		return err
	}
	var rows []*Row
	for {
		ok, err := r.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		row, _ := r.RowByOffset(int64(len(rows) + 1))
		if row == nil {
			continue
		}
		rows = append(rows, row)
		for i, v := range vars {
			if cell := cellString(row.At(v)); len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	tw.writeRow(vars, widths)
	for _, row := range rows {
		cells := make([]string, len(vars))
		for i, v := range vars {
			cells[i] = cellString(row.At(v))
		}
		tw.writeRow(cells, widths)
	}
	return nil
}

func cellString(t *Term) string {
	if t == nil {
		return ""
	}
	switch t.Type {
	case TermURI:
		return "<" + t.Value + ">"
	case TermBnode:
		return "_:" + t.Value
	default:
		return t.Value
	}
}

func (tw *TableWriter) writeRow(cells []string, widths []int) {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteString(" | ")
		}
		fmt.Fprintf(&b, "%-*s", widths[i], c)
	}
	fmt.Fprintln(tw.w, b.String())
}
