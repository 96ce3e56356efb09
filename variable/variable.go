// Package variable implements the variables table data model: named and
// anonymous variables partitioned into stable, insertion-ordered offset
// ranges.
package variable

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dajobe/rasqal-sub006/expr"
	"github.com/dajobe/rasqal-sub006/literal"
)

// Kind classifies a variable's visibility.
type Kind int

const (
	// Normal variables are user-written and selectable by name.
	Normal Kind = iota
	// Anonymous variables back generated bindings (e.g. aggregation
	// outputs); they are never selectable by name from outside the query.
	Anonymous
	// Unknown marks a variable reference the builder has not yet resolved.
	Unknown
)

// Variable is one entry of a Table.
type Variable struct {
	Name   string
	Kind   Kind
	Offset int
	// Value is the variable's bound literal, if any (nil if unbound).
	Value *literal.Value
	// Expr is the expression that defines this variable's value, if it
	// was introduced by a BIND or a SELECT-expression rather than a
	// pattern match.
	Expr Expression
	// RefCount is a shape hint only; Go's GC owns actual lifetime. It is
	// exposed for callers that want to detect an unreferenced
	// projected-out variable for diagnostics.
	RefCount int
}

// Expression aliases expr.Expression so callers of this package don't need
// a second import for the common case of naming a variable's defining
// expression.
type Expression = expr.Expression

// Table is the ordered (name -> Variable) map partitioned into named and
// anonymous insertion-ordered vectors. Named offsets occupy [0, N);
// anonymous offsets occupy [N, N+A). Inserting a new named variable
// shifts existing anonymous offsets by +1.
type Table struct {
	named     []*Variable
	anonymous []*Variable
	byName    map[nameKey]*Variable
}

type nameKey struct {
	kind Kind
	name string
}

// NewTable builds an empty variables table.
func NewTable() *Table {
	return &Table{byName: make(map[nameKey]*Variable)}
}

// Size returns the total number of variables (named + anonymous); this is
// the row width for any row produced in this table's scope.
func (t *Table) Size() int { return len(t.named) + len(t.anonymous) }

// NamedCount returns the count of named variables.
func (t *Table) NamedCount() int { return len(t.named) }

// AnonymousCount returns the count of anonymous variables.
func (t *Table) AnonymousCount() int { return len(t.anonymous) }

// Named returns the named variables in insertion order.
func (t *Table) Named() []*Variable { return t.named }

// Anonymous returns the anonymous variables in insertion order.
func (t *Table) Anonymous() []*Variable { return t.anonymous }

// AddNamed inserts (or returns the existing) named variable. Adding an
// already-present name yields the existing entry unchanged.
func (t *Table) AddNamed(name string) *Variable {
	return t.add(Normal, name)
}

// AddAnonymous inserts (or returns the existing) anonymous variable.
// Anonymous names are scoped separately from named ones, so a named
// variable "x" and an anonymous variable "x" (e.g. an aggregate's
// generated output column) can coexist.
func (t *Table) AddAnonymous(name string) *Variable {
	return t.add(Anonymous, name)
}

// AddFreshAnonymous inserts an anonymous variable with an auto-generated,
// process-unique name, for a caller (e.g. an aggregate) that needs an
// output column but was not given one to name itself. The uuid suffix
// guarantees it never collides with a name the algebra builder chose.
func (t *Table) AddFreshAnonymous(prefix string) *Variable {
	return t.add(Anonymous, prefix+"_"+uuid.NewString())
}

func (t *Table) add(kind Kind, name string) *Variable {
	key := nameKey{kind, name}
	if v, ok := t.byName[key]; ok {
		return v
	}
	v := &Variable{Name: name, Kind: kind}
	switch kind {
	case Normal:
		v.Offset = len(t.named)
		t.named = append(t.named, v)
		// Inserting a new named variable shifts existing anonymous
		// offsets by +1.
		for _, a := range t.anonymous {
			a.Offset++
		}
	case Anonymous:
		v.Offset = len(t.named) + len(t.anonymous)
		t.anonymous = append(t.anonymous, v)
	default:
		v.Offset = -1
	}
	t.byName[key] = v
	return v
}

// Lookup finds a variable (named or anonymous) by name, preferring a
// named variable if both a named and anonymous entry share the name.
func (t *Table) Lookup(name string) (*Variable, bool) {
	if v, ok := t.byName[nameKey{Normal, name}]; ok {
		return v, true
	}
	if v, ok := t.byName[nameKey{Anonymous, name}]; ok {
		return v, true
	}
	return nil, false
}

// Names returns the named variables' names, in offset order — this is a
// row-producing operator's output schema.
func (t *Table) Names() []string {
	out := make([]string, len(t.named))
	for i, v := range t.named {
		out[i] = v.Name
	}
	return out
}

func (t *Table) String() string {
	return fmt.Sprintf("Table(named=%v, anon=%v)", t.Names(), anonymousNames(t.anonymous))
}

func anonymousNames(vs []*Variable) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Name
	}
	return out
}
