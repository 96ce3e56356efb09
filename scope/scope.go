// Package scope implements the query scope tree: nested visibility
// regions for EXISTS/NOT EXISTS/MINUS/UNION/SUBQUERY/GROUP, each owning
// a local variables table and the triples introduced within it.
package scope

import (
	"github.com/dajobe/rasqal-sub006/literal"
	"github.com/dajobe/rasqal-sub006/rerror"
	"github.com/dajobe/rasqal-sub006/variable"
)

// Kind names the kind of region a Scope represents.
type Kind int

const (
	Root Kind = iota
	Exists
	NotExists
	Minus
	Union
	Subquery
	Group
)

func (k Kind) String() string {
	names := [...]string{"ROOT", "EXISTS", "NOT EXISTS", "MINUS", "UNION", "SUBQUERY", "GROUP"}
	if int(k) < len(names) {
		return names[k]
	}
	return "?"
}

// Triple is the minimal (subject, predicate, object) shape a scope needs
// to track which triples were introduced within it; full RDF term
// parsing/typing is an external collaborator.
type Triple struct {
	Subject, Predicate, Object literal.Value
}

// Scope is one node of the scope tree. Parent is a plain Go pointer: the
// child keeps the parent reachable for as long as the child itself is,
// so a child may briefly outlive the parent reference it captures
// without any explicit reference counting.
type Scope struct {
	kind          Kind
	parent        *Scope
	children      []*Scope
	vars          *variable.Table
	triples       []Triple
	inheritParent bool
}

// NewRoot creates the top-level scope of a query.
func NewRoot() *Scope {
	return &Scope{kind: Root, vars: variable.NewTable(), inheritParent: true}
}

// Kind returns this scope's region kind.
func (s *Scope) Kind() Kind { return s.kind }

// Parent returns the enclosing scope, or nil for the root.
func (s *Scope) Parent() *Scope { return s.parent }

// Children returns the child scopes created under this one, in creation order.
func (s *Scope) Children() []*Scope { return s.children }

// NewChild creates and registers a nested scope. Every region kind
// inherits its parent's visible variables by default: a nested region
// only ever restricts what it *exports*, not what it can *read*.
func (s *Scope) NewChild(kind Kind) *Scope {
	c := &Scope{kind: kind, parent: s, vars: variable.NewTable(), inheritParent: true}
	s.children = append(s.children, c)
	return c
}

// Local returns this scope's own variables table.
func (s *Scope) Local() *variable.Table { return s.vars }

// AddTriple records a triple as introduced within this scope.
func (s *Scope) AddTriple(t Triple) { s.triples = append(s.triples, t) }

// Triples returns the triples introduced directly in this scope (not its
// children).
func (s *Scope) Triples() []Triple { return s.triples }

// Visible returns every variable name visible from this scope: its own
// local names unioned with everything visible from its parent,
// nearest-scope-wins on name collision.
func (s *Scope) Visible() []string {
	seen := make(map[string]bool)
	var names []string
	for sc := s; sc != nil; sc = sc.parent {
		for _, n := range sc.vars.Names() {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
		if !sc.inheritParent {
			break
		}
	}
	return names
}

// Resolve looks up name starting at this scope and falling back through
// ancestors while inheritance is allowed, returning the variable and the
// scope that owns it.
func (s *Scope) Resolve(name string) (*variable.Variable, *Scope, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars.Lookup(name); ok {
			return v, sc, true
		}
		if !sc.inheritParent {
			return nil, nil, false
		}
	}
	return nil, nil, false
}

// DisableInheritance stops Visible/Resolve from climbing past this scope
// into its parent. No region kind disables inheritance by default (every
// nested region can still read outer bindings); callers use this for a
// region whose builder determined it should be fully isolated.
func (s *Scope) DisableInheritance() { s.inheritParent = false }

// DeclareNamed adds (or returns the existing) named variable local to
// this scope. For a GROUP scope it enforces isolation from sibling GROUP
// regions: two GROUP regions under the same parent may not claim the
// same name, since each GROUP's anonymous aggregate outputs must not be
// confusable with a sibling group's.
func (s *Scope) DeclareNamed(name string) (*variable.Variable, error) {
	if s.kind == Group && s.parent != nil {
		if sib := s.parent.siblingGroupOwning(name, s); sib != nil {
			return nil, rerror.Newf(rerror.KindSchema, "variable %q is already declared in a sibling GROUP scope", name)
		}
	}
	return s.vars.AddNamed(name), nil
}

func (s *Scope) siblingGroupOwning(name string, exclude *Scope) *Scope {
	for _, c := range s.children {
		if c == exclude || c.kind != Group {
			continue
		}
		if _, ok := c.vars.Lookup(name); ok {
			return c
		}
	}
	return nil
}
