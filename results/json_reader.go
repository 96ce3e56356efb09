package results

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/dajobe/rasqal-sub006/rerror"
)

// jsonBindingValue mirrors one SPARQL-Results-JSON binding value object:
// { "type": "uri"|"literal"|"bnode", "value": "...", "datatype"?: "...",
// "xml:lang"?: "..." }.
type jsonBindingValue struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype"`
	Lang     string `json:"xml:lang"`
}

func (v jsonBindingValue) toTerm() (*Term, error) {
	t := &Term{Value: v.Value, Datatype: v.Datatype, Lang: v.Lang}
	switch v.Type {
	case "uri":
		t.Type = TermURI
	case "literal", "typed-literal":
		t.Type = TermLiteral
	case "bnode":
		t.Type = TermBnode
	default:
		return nil, rerror.Newf(rerror.KindParse, "unknown binding type %q", v.Type)
	}
	return t, nil
}

// jsonHead mirrors the top-level "head" object.
type jsonHead struct {
	Vars []string `json:"vars"`
}

// JSONReader implements Reader over the SPARQL-Results-JSON grammar: a
// top-level object with head.vars, optional boolean, and
// results.bindings as an array of { varName: bindingValue } objects. It
// is an incremental, encoding/json.Decoder Token()-driven parser: each
// bindings[i] object is decoded and surfaced as a Row as soon as it
// closes, rather than buffering the whole document.
type JSONReader struct {
	open func() (io.ReadCloser, error)
	src  io.ReadCloser
	dec  *json.Decoder

	vars      []string
	isBoolean bool
	boolVal   bool
	haveBool  bool
	isGraph   bool

	rows   []*Row // materialized as Next() is called, indexable by offset
	offset int64
	done   bool
}

// NewJSONReader builds a reader over the stream open returns. open is not
// called until Rewind is first called (Next before Rewind reports end of
// stream), so building a reader never touches the network or filesystem.
func NewJSONReader(open func() (io.ReadCloser, error)) *JSONReader {
	return &JSONReader{open: open}
}

func (r *JSONReader) Variables() []string { return r.vars }
func (r *JSONReader) IsBindings() bool    { return !r.isBoolean && !r.isGraph }
func (r *JSONReader) IsBoolean() bool     { return r.isBoolean }
func (r *JSONReader) IsGraph() bool       { return r.isGraph }

func (r *JSONReader) Boolean() (bool, error) {
	if !r.isBoolean {
		return false, rerror.New(rerror.KindSchema, "result is not a boolean result")
	}
	return r.boolVal, nil
}

// Triple is never satisfied by JSONReader: SPARQL-Results-JSON has no
// graph/triple result shape, so graph comparisons are driven by a
// different Reader.
func (r *JSONReader) Triple(int64) (*Triple, bool) { return nil, false }

func (r *JSONReader) Rewind() error {
	if r.src != nil {
		_ = r.src.Close()
	}
	src, err := r.open()
	if err != nil {
		return rerror.Wrap(err, "opening results source")
	}
	r.src = src
	r.dec = json.NewDecoder(src)
	r.vars = nil
	r.isBoolean = false
	r.haveBool = false
	r.isGraph = false
	r.rows = nil
	r.offset = 0
	r.done = false
	return r.parseUntilBindings()
}

// parseUntilBindings walks head/boolean tokens and positions the decoder
// immediately after "results":{"bindings":[ , ready for Next to decode one
// bindings element at a time.
func (r *JSONReader) parseUntilBindings() error {
	tok, err := r.dec.Token()
	if err != nil {
		return rerror.AtLocator(rerror.KindParse, "offset 0", "expected top-level JSON object")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return rerror.New(rerror.KindParse, "SPARQL results document must be a JSON object")
	}
	for r.dec.More() {
		keyTok, err := r.dec.Token()
		if err != nil {
			return rerror.Wrap(err, "reading top-level key")
		}
		key, _ := keyTok.(string)
		switch key {
		case "head":
			var h jsonHead
			if err := r.dec.Decode(&h); err != nil {
				return rerror.Wrap(err, "decoding head")
			}
			r.vars = h.Vars
		case "boolean":
			var b bool
			if err := r.dec.Decode(&b); err != nil {
				return rerror.Wrap(err, "decoding boolean")
			}
			r.boolVal = b
			r.isBoolean = true
			r.haveBool = true
		case "results":
			if err := r.enterResults(); err != nil {
				return err
			}
			return nil // positioned right after "bindings": [
		default:
			var skip interface{}
			if err := r.dec.Decode(&skip); err != nil {
				return rerror.Wrapf(err, "skipping unknown key %q", key)
			}
		}
	}
	// Close the outer object if there was no "results" key (boolean-only
	// result, e.g. an ASK response).
	if _, err := r.dec.Token(); err != nil && err != io.EOF {
		return rerror.Wrap(err, "closing top-level object")
	}
	r.done = true
	return nil
}

func (r *JSONReader) enterResults() error {
	tok, err := r.dec.Token()
	if err != nil {
		return rerror.Wrap(err, "reading results object")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return rerror.New(rerror.KindParse, `"results" must be an object`)
	}
	for r.dec.More() {
		keyTok, err := r.dec.Token()
		if err != nil {
			return rerror.Wrap(err, "reading results key")
		}
		key, _ := keyTok.(string)
		if key != "bindings" {
			var skip interface{}
			if err := r.dec.Decode(&skip); err != nil {
				return rerror.Wrapf(err, "skipping unknown results key %q", key)
			}
			continue
		}
		arrTok, err := r.dec.Token()
		if err != nil {
			return rerror.Wrap(err, "reading bindings array")
		}
		if d, ok := arrTok.(json.Delim); !ok || d != '[' {
			return rerror.New(rerror.KindParse, `"bindings" must be an array`)
		}
		return nil
	}
	return rerror.New(rerror.KindParse, `"results" object missing "bindings"`)
}

// Next decodes the next bindings[i] object, if any, appending it to the
// materialized row slice. It is idempotent past end of stream.
func (r *JSONReader) Next() (bool, error) {
	if r.done || r.dec == nil {
		return false, nil
	}
	if !r.dec.More() {
		r.done = true
		return false, nil
	}
	var raw map[string]jsonBindingValue
	if err := r.dec.Decode(&raw); err != nil {
		return false, rerror.Wrap(err, "decoding bindings element")
	}
	r.offset++
	row := &Row{Offset: r.offset, Bindings: make(map[string]*Term, len(raw))}
	for name, bv := range raw {
		term, err := bv.toTerm()
		if err != nil {
			return false, errors.Wrapf(err, "binding %q", name)
		}
		row.Bindings[name] = term
	}
	r.rows = append(r.rows, row)
	return true, nil
}

// RowByOffset returns a previously-Next()'d row by its 1-based offset.
// Offsets not yet reached by Next (or past end of stream) return ok=false.
func (r *JSONReader) RowByOffset(offset int64) (*Row, bool) {
	if offset < 1 || offset > int64(len(r.rows)) {
		return nil, false
	}
	return r.rows[offset-1], true
}

// ReadAll drains the reader via repeated Next calls, matching the
// row.ReadAll idiom used by the rowsource framework.
func (r *JSONReader) ReadAll() ([]*Row, error) {
	for {
		ok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return r.rows, nil
		}
	}
}
