package results

import "github.com/dajobe/rasqal-sub006/rerror"

// TripleSetReader is an in-memory Reader over a fixed set of triples, the
// minimal graph-result source the comparison engine's Graph dispatch
// needs. Parsing Turtle/N-Triples into a []Triple is an external
// collaborator's job; this type only carries the result across the
// Reader boundary.
type TripleSetReader struct {
	triples []Triple
	pos     int64
}

// NewTripleSetReader builds a graph Reader over triples.
func NewTripleSetReader(triples []Triple) *TripleSetReader {
	return &TripleSetReader{triples: triples}
}

func (r *TripleSetReader) Variables() []string   { return nil }
func (r *TripleSetReader) IsBindings() bool       { return false }
func (r *TripleSetReader) IsBoolean() bool        { return false }
func (r *TripleSetReader) IsGraph() bool          { return true }
func (r *TripleSetReader) Boolean() (bool, error) { return false, errNotBoolean }
func (r *TripleSetReader) RowByOffset(int64) (*Row, bool) { return nil, false }

func (r *TripleSetReader) Triple(offset int64) (*Triple, bool) {
	if offset < 1 || offset > int64(len(r.triples)) {
		return nil, false
	}
	return &r.triples[offset-1], true
}

func (r *TripleSetReader) Triples() []Triple { return r.triples }

func (r *TripleSetReader) Rewind() error {
	r.pos = 0
	return nil
}

func (r *TripleSetReader) Next() (bool, error) {
	if r.pos >= int64(len(r.triples)) {
		return false, nil
	}
	r.pos++
	return true, nil
}

// BooleanReader is an in-memory Reader over a single ASK result.
type BooleanReader struct {
	value bool
}

func NewBooleanReader(value bool) *BooleanReader { return &BooleanReader{value: value} }

func (r *BooleanReader) Variables() []string           { return nil }
func (r *BooleanReader) IsBindings() bool               { return false }
func (r *BooleanReader) IsBoolean() bool                { return true }
func (r *BooleanReader) IsGraph() bool                  { return false }
func (r *BooleanReader) Boolean() (bool, error)         { return r.value, nil }
func (r *BooleanReader) RowByOffset(int64) (*Row, bool) { return nil, false }
func (r *BooleanReader) Triple(int64) (*Triple, bool)   { return nil, false }
func (r *BooleanReader) Rewind() error                  { return nil }
func (r *BooleanReader) Next() (bool, error)            { return false, nil }

// BindingsReader is an in-memory Reader over a fixed set of rows, used by
// tests and by any caller that already has rows in hand (e.g. the
// rowsource core's own output, bridged into the comparator).
type BindingsReader struct {
	vars []string
	rows []*Row
	pos  int64
}

// NewBindingsReader builds an in-memory bindings Reader.
func NewBindingsReader(vars []string, rows []*Row) *BindingsReader {
	return &BindingsReader{vars: vars, rows: rows}
}

func (r *BindingsReader) Variables() []string           { return r.vars }
func (r *BindingsReader) IsBindings() bool               { return true }
func (r *BindingsReader) IsBoolean() bool                { return false }
func (r *BindingsReader) IsGraph() bool                  { return false }
func (r *BindingsReader) Boolean() (bool, error)         { return false, errNotBoolean }
func (r *BindingsReader) Triple(int64) (*Triple, bool)   { return nil, false }

func (r *BindingsReader) RowByOffset(offset int64) (*Row, bool) {
	if offset < 1 || offset > int64(len(r.rows)) {
		return nil, false
	}
	return r.rows[offset-1], true
}

func (r *BindingsReader) Rewind() error {
	r.pos = 0
	return nil
}

func (r *BindingsReader) Next() (bool, error) {
	if r.pos >= int64(len(r.rows)) {
		return false, nil
	}
	r.pos++
	return true, nil
}

var errNotBoolean = rerror.New(rerror.KindSchema, "result is not a boolean result")
