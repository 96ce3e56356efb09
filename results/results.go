// Package results models SPARQL query results at the boundary the
// comparison engine consumes: a reader contract exposing variables,
// result kind (bindings/boolean/graph), rows by offset and triples by
// offset, plus writers for the same three result kinds. Concrete RDF
// term parsing and full results serialization formats besides
// SPARQL-Results-JSON remain external collaborators; this package only
// fixes the shape package compare evaluates over.
package results

import (
	"github.com/dajobe/rasqal-sub006/literal"
	"github.com/dajobe/rasqal-sub006/xsddatetime"
)

const (
	xsdDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"
	xsdDate     = "http://www.w3.org/2001/XMLSchema#date"
)

// TermType tags the kind of RDF term a binding's Term names, matching the
// SPARQL-Results-JSON grammar's type field.
type TermType int

const (
	TermURI TermType = iota
	TermLiteral
	TermBnode
)

func (t TermType) String() string {
	switch t {
	case TermURI:
		return "uri"
	case TermLiteral:
		return "literal"
	case TermBnode:
		return "bnode"
	default:
		return "unknown"
	}
}

// Term is one bound value as read from a results source: a URI, a typed
// or language-tagged literal, or a blank node identifier.
type Term struct {
	Type     TermType
	Value    string
	Datatype string
	Lang     string
}

// Literal converts a Term into the core's literal.Value representation,
// so the comparison engine can reuse literal.Value.Equals/Compare instead
// of a second notion of term equality. xsd:dateTime and xsd:date typed
// literals with a valid lexical form become date/dateTime values; any
// other datatype is kept opaque.
func (t *Term) Literal() literal.Value {
	if t == nil {
		return literal.Value{}
	}
	switch t.Type {
	case TermURI:
		return literal.NewURI(t.Value)
	case TermBnode:
		return literal.NewBlank(t.Value)
	default:
		if t.Lang != "" {
			return literal.NewLangString(t.Value, t.Lang)
		}
		switch t.Datatype {
		case xsdDateTime, xsdDate:
			if v, err := xsddatetime.Parse(t.Value); err == nil {
				if t.Datatype == xsdDate {
					return literal.NewDate(v)
				}
				return literal.NewDateTime(v)
			}
		}
		if t.Datatype != "" {
			return literal.NewTypedString(t.Value, t.Datatype)
		}
		return literal.NewPlainString(t.Value)
	}
}

// Row is one solution: bindings by variable name. A missing key means
// that variable is unbound in this row.
type Row struct {
	Offset   int64
	Bindings map[string]*Term
}

// At returns the binding for name, or nil if unbound.
func (r *Row) At(name string) *Term { return r.Bindings[name] }

// Triple is one RDF statement, used by graph results and by the blank
// node structural-signature computation.
type Triple struct {
	Subject, Predicate, Object Term
}

// TripleSource is optionally implemented by a Reader that can supply the
// triples mentioning the blank nodes appearing in its bindings, needed
// for the comparison engine's match-structural blank-node strategy over
// Bindings results. Readers that cannot supply this (e.g. a bare
// SPARQL-Results-JSON stream, which carries no triples) simply don't
// implement it; compare.Compare degrades match-structural to
// match-by-id in that case.
type TripleSource interface {
	Triples() []Triple
}

// Reader is the abstract results source the comparison engine consumes:
// variables, result kind, boolean value, rows/triples by offset, and a
// rewind/next cursor for streaming sources.
type Reader interface {
	// Variables returns the declared variable names in source order
	// (bindings results only; empty for boolean/graph).
	Variables() []string
	IsBindings() bool
	IsBoolean() bool
	IsGraph() bool
	// Boolean returns the ASK result; only valid when IsBoolean.
	Boolean() (bool, error)
	// RowByOffset returns the 1-based-offset row, or ok=false past the
	// end of a bindings result.
	RowByOffset(offset int64) (*Row, bool)
	// Triple returns the 1-based-offset triple, or ok=false past the end
	// of a graph result.
	Triple(offset int64) (*Triple, bool)
	// Rewind returns to the start of the stream.
	Rewind() error
	// Next advances the stream by one row/triple, returning false at
	// end of stream. Incremental readers (JSONReader) do real I/O here;
	// in-memory readers just advance a cursor.
	Next() (bool, error)
}
