// Package literal implements the RDF/XSD term value space as a concrete,
// immutable value type: factory functions per XSD kind, equality,
// ordering comparison, numeric add/divide, and the as_integer/
// as_boolean/as_string/as_double conversions. Term parsing and
// URI/triple I/O remain external collaborators; this package only
// represents the value space the operator tree and the comparison
// engine evaluate over.
package literal

import (
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dajobe/rasqal-sub006/rerror"
	"github.com/dajobe/rasqal-sub006/xsddatetime"
)

// Kind tags the member of the XSD type lattice a Value belongs to.
type Kind int

const (
	KindURI Kind = iota
	KindBlank
	KindString
	KindBoolean
	KindInteger
	KindDecimal
	KindFloat
	KindDouble
	KindDate
	KindDateTime
	KindUDT // typed literal whose datatype the core does not interpret
	KindPattern
	KindVariable
)

func (k Kind) String() string {
	names := [...]string{"uri", "blank", "string", "boolean", "integer", "decimal", "float", "double", "date", "dateTime", "udt", "pattern", "variable"}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// Value is a small immutable struct; copying it is cheap and safe, and
// Go's GC retires the backing memory once the last copy is gone, so no
// explicit reference count is needed.
type Value struct {
	kind     Kind
	lex      string // canonical lexical form: URI, blank id, string text, pattern/variable name
	datatype string // xsd: datatype URI for UDT, or language-less typed strings
	lang     string
	boolVal  bool
	dec      decimal.Decimal // populated for KindInteger / KindDecimal
	dbl      float64         // populated for KindFloat / KindDouble
	cal      *xsddatetime.Value
}

// CompareFlags configures ordering/equality behavior.
type CompareFlags struct {
	// URIAware keeps URIs a distinct comparison class from plain strings
	// that happen to share lexical form, the SPARQL default.
	URIAware bool
}

// DefaultCompareFlags matches the SPARQL default comparison semantics.
var DefaultCompareFlags = CompareFlags{URIAware: true}

func NewURI(uri string) Value { return Value{kind: KindURI, lex: uri} }

func NewBlank(id string) Value { return Value{kind: KindBlank, lex: id} }

// NewFreshBlank mints a blank node identifier guaranteed unique within
// this process, for callers that must allocate a node with no source
// identifier to reuse — e.g. skolemizing an unlabeled blank node when
// the comparison engine's graph dispatch needs a stable per-run identity
// to key its structural-signature map by.
func NewFreshBlank() Value {
	return Value{kind: KindBlank, lex: "b" + uuid.NewString()}
}

func NewPlainString(s string) Value { return Value{kind: KindString, lex: s} }

func NewLangString(s, lang string) Value { return Value{kind: KindString, lex: s, lang: lang} }

// NewTypedString builds a literal whose datatype the core treats opaquely
// (a UDT), for any XSD-or-custom datatype not otherwise represented.
func NewTypedString(s, datatypeURI string) Value {
	return Value{kind: KindUDT, lex: s, datatype: datatypeURI}
}

func NewBoolean(b bool) Value {
	lex := "false"
	if b {
		lex = "true"
	}
	return Value{kind: KindBoolean, lex: lex, boolVal: b}
}

func NewInteger(i int64) Value {
	d := decimal.NewFromInt(i)
	return Value{kind: KindInteger, lex: d.String(), dec: d}
}

// NewDecimal builds a decimal literal from its lexical form.
func NewDecimal(lex string) (Value, error) {
	d, err := decimal.NewFromString(lex)
	if err != nil {
		return Value{}, rerror.AtLocator(rerror.KindParse, fmt.Sprintf("%q", lex), "invalid xsd:decimal lexical form")
	}
	return Value{kind: KindDecimal, lex: d.String(), dec: d}, nil
}

func NewDecimalFromValue(d decimal.Decimal) Value {
	return Value{kind: KindDecimal, lex: d.String(), dec: d}
}

func NewFloat(f float64) Value {
	return Value{kind: KindFloat, lex: formatDouble(f), dbl: f}
}

func NewDouble(f float64) Value {
	return Value{kind: KindDouble, lex: formatDouble(f), dbl: f}
}

func NewDate(v *xsddatetime.Value) Value {
	return Value{kind: KindDate, lex: v.Canonical(), cal: v}
}

func NewDateTime(v *xsddatetime.Value) Value {
	return Value{kind: KindDateTime, lex: v.Canonical(), cal: v}
}

func NewPattern(p string) Value { return Value{kind: KindPattern, lex: p} }

func NewVariableRef(name string) Value { return Value{kind: KindVariable, lex: name} }

func (v Value) Kind() Kind       { return v.kind }
func (v Value) Lexical() string  { return v.lex }
func (v Value) Language() string { return v.lang }
func (v Value) Datatype() string { return v.datatype }

// IsNumeric reports whether v belongs to the numeric subset of the
// lattice (integer, decimal, float, double).
func (v Value) IsNumeric() bool {
	switch v.kind {
	case KindInteger, KindDecimal, KindFloat, KindDouble:
		return true
	default:
		return false
	}
}

func formatDouble(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "INF"
	}
	if math.IsInf(f, -1) {
		return "-INF"
	}
	return strconv.FormatFloat(f, 'G', -1, 64)
}

// asDecimal returns the decimal value for Integer/Decimal kinds.
func (v Value) asDecimal() (decimal.Decimal, bool) {
	switch v.kind {
	case KindInteger, KindDecimal:
		return v.dec, true
	default:
		return decimal.Zero, false
	}
}

// asFloat returns a float64 view for any numeric kind.
func (v Value) asFloat() (float64, bool) {
	switch v.kind {
	case KindFloat, KindDouble:
		return v.dbl, true
	case KindInteger, KindDecimal:
		f, _ := v.dec.Float64()
		return f, true
	default:
		return 0, false
	}
}

// Equals implements XQuery value-space equality: numeric values compare
// across subtypes; every other kind requires an exact kind (and, for
// strings, lang/datatype) match. Blank-node cross-input identity is a
// comparison-engine policy, not literal equality.
func (v Value) Equals(other Value) bool {
	if v.IsNumeric() && other.IsNumeric() {
		eq, err := numericCompare(v, other)
		return err == nil && eq == 0
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindURI, KindBlank, KindPattern, KindVariable:
		return v.lex == other.lex
	case KindString:
		return v.lex == other.lex && v.lang == other.lang
	case KindUDT:
		return v.lex == other.lex && v.datatype == other.datatype
	case KindBoolean:
		return v.boolVal == other.boolVal
	case KindDate, KindDateTime:
		return xsddatetime.Equal(v.cal, other.cal)
	default:
		return false
	}
}

func numericCompare(a, b Value) (int, error) {
	if a.kind == KindFloat || a.kind == KindDouble || b.kind == KindFloat || b.kind == KindDouble {
		fa, _ := a.asFloat()
		fb, _ := b.asFloat()
		if math.IsNaN(fa) || math.IsNaN(fb) {
			return 0, rerror.New(rerror.KindType, "NaN is not ordered")
		}
		switch {
		case fa < fb:
			return -1, nil
		case fa > fb:
			return 1, nil
		default:
			return 0, nil
		}
	}
	da, _ := a.asDecimal()
	db, _ := b.asDecimal()
	return da.Cmp(db), nil
}

// Compare returns -1, 0 or 1 ordering v against other under flags, or a
// type error if the two values belong to incomparable kinds. Callers
// that need a total order regardless (GroupBy key trees) fall back to
// KindRank on error — see Value.KindRank.
func (v Value) Compare(flags CompareFlags, other Value) (int, error) {
	if v.IsNumeric() && other.IsNumeric() {
		return numericCompare(v, other)
	}
	if v.kind != other.kind {
		if flags.URIAware && (v.kind == KindURI || other.kind == KindURI) {
			return 0, rerror.New(rerror.KindType, "cannot compare a uri with a non-uri value")
		}
		return 0, rerror.New(rerror.KindType, fmt.Sprintf("cannot compare %s with %s", v.kind, other.kind))
	}
	switch v.kind {
	case KindURI, KindBlank, KindPattern, KindVariable:
		return stringCompare(v.lex, other.lex), nil
	case KindString:
		if c := stringCompare(v.lang, other.lang); c != 0 {
			return c, nil
		}
		return stringCompare(v.lex, other.lex), nil
	case KindUDT:
		if c := stringCompare(v.datatype, other.datatype); c != 0 {
			return c, nil
		}
		return stringCompare(v.lex, other.lex), nil
	case KindBoolean:
		if v.boolVal == other.boolVal {
			return 0, nil
		}
		if !v.boolVal {
			return -1, nil
		}
		return 1, nil
	case KindDate, KindDateTime:
		return xsddatetime.Compare(v.cal, other.cal), nil
	default:
		return 0, rerror.New(rerror.KindType, "incomparable kind")
	}
}

// KindRank gives a stable, total ordering across mismatched kinds, used as
// a tiebreak so GroupBy/sort trees always have a deterministic iteration
// order even when two values are not semantically comparable.
func (v Value) KindRank() int { return int(v.kind) }

func stringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Add implements XPath-style numeric promotion: integer+integer stays
// integer, any decimal operand promotes to decimal, any float/double
// operand promotes to double. Used by SUM.
func (v Value) Add(other Value) (Value, error) {
	if !v.IsNumeric() || !other.IsNumeric() {
		return Value{}, rerror.New(rerror.KindType, "add requires numeric operands")
	}
	if (v.kind == KindFloat || v.kind == KindDouble) || (other.kind == KindFloat || other.kind == KindDouble) {
		fa, _ := v.asFloat()
		fb, _ := other.asFloat()
		return NewDouble(fa + fb), nil
	}
	da, _ := v.asDecimal()
	db, _ := other.asDecimal()
	sum := da.Add(db)
	if v.kind == KindInteger && other.kind == KindInteger {
		return Value{kind: KindInteger, lex: sum.String(), dec: sum}, nil
	}
	return NewDecimalFromValue(sum), nil
}

// Divide implements XPath 'div' numeric division; division by zero is a
// type error, surfaced by AVG as a per-aggregate error flag.
func (v Value) Divide(other Value) (Value, error) {
	if !v.IsNumeric() || !other.IsNumeric() {
		return Value{}, rerror.New(rerror.KindType, "divide requires numeric operands")
	}
	if (v.kind == KindFloat || v.kind == KindDouble) || (other.kind == KindFloat || other.kind == KindDouble) {
		fa, _ := v.asFloat()
		fb, _ := other.asFloat()
		if fb == 0 {
			return Value{}, rerror.New(rerror.KindType, "division by zero")
		}
		return NewDouble(fa / fb), nil
	}
	da, _ := v.asDecimal()
	db, _ := other.asDecimal()
	if db.IsZero() {
		return Value{}, rerror.New(rerror.KindType, "division by zero")
	}
	return NewDecimalFromValue(da.DivRound(db, 18)), nil
}

// AsInteger converts v to an integer, as used by numeric builtins.
func (v Value) AsInteger() (int64, error) {
	switch v.kind {
	case KindInteger:
		return v.dec.IntPart(), nil
	case KindDecimal:
		if !v.dec.Equal(v.dec.Truncate(0)) {
			return 0, rerror.New(rerror.KindType, "decimal value has a fractional part")
		}
		return v.dec.IntPart(), nil
	case KindFloat, KindDouble:
		if v.dbl != math.Trunc(v.dbl) {
			return 0, rerror.New(rerror.KindType, "floating value has a fractional part")
		}
		return int64(v.dbl), nil
	case KindBoolean:
		if v.boolVal {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, rerror.New(rerror.KindType, fmt.Sprintf("cannot convert %s to integer", v.kind))
	}
}

// AsBoolean computes the SPARQL effective boolean value. Non-boolean,
// non-numeric, non-string kinds are a type error — callers in Filter
// treat that error as a false result.
func (v Value) AsBoolean() (bool, error) {
	switch v.kind {
	case KindBoolean:
		return v.boolVal, nil
	case KindInteger, KindDecimal:
		return !v.dec.IsZero(), nil
	case KindFloat, KindDouble:
		return v.dbl != 0 && !math.IsNaN(v.dbl), nil
	case KindString:
		return v.lex != "", nil
	default:
		return false, rerror.New(rerror.KindType, fmt.Sprintf("%s has no effective boolean value", v.kind))
	}
}

// AsString returns the lexical form. This always succeeds.
func (v Value) AsString() (string, error) {
	return v.lex, nil
}

// AsDouble converts any numeric value to a float64.
func (v Value) AsDouble() (float64, error) {
	f, ok := v.asFloat()
	if !ok {
		return 0, rerror.New(rerror.KindType, fmt.Sprintf("cannot convert %s to double", v.kind))
	}
	return f, nil
}

// DateTimeValue exposes the underlying calendar value for Date/DateTime
// kinds, used by the comparison engine and tests.
func (v Value) DateTimeValue() (*xsddatetime.Value, error) {
	if v.kind != KindDate && v.kind != KindDateTime {
		return nil, errors.New("not a date or dateTime literal")
	}
	return v.cal, nil
}

func (v Value) String() string {
	switch v.kind {
	case KindURI:
		return "<" + v.lex + ">"
	case KindBlank:
		return "_:" + v.lex
	case KindString:
		if v.lang != "" {
			return strconv.Quote(v.lex) + "@" + v.lang
		}
		return strconv.Quote(v.lex)
	default:
		return v.lex
	}
}
