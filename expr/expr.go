// Package expr defines the expression contract the rowsource core
// evaluates against row bindings. The core consumes only this abstract
// expression interface plus whatever expression tree the algebra builder
// hands it; evaluation itself — arithmetic, string and date builtins,
// property-path matching — is external to the core. This package only
// fixes the shape Filter/Join/GroupBy/Aggregation call through, plus the
// handful of concrete expressions (constant, field reference, star,
// alias) the core's own tests and operators need.
package expr

import (
	"github.com/dajobe/rasqal-sub006/literal"
	"github.com/dajobe/rasqal-sub006/rctx"
)

// Binding is the minimal view of a row an Expression needs: positional
// access to bound values. row.Row implements this structurally so that
// this package never has to import package row (which would cycle back
// through package variable).
type Binding interface {
	At(offset int) *literal.Value
}

// Expression evaluates to a literal given a row's bindings. Evaluation
// errors are not automatically fatal: Filter treats them as an effective
// boolean value of false, and Aggregation skips the offending argument.
type Expression interface {
	Eval(ctx *rctx.Context, row Binding) (literal.Value, error)
	// IsConstant reports whether Eval's result does not depend on row,
	// enabling the constant-filter/constant-join collapse in init().
	IsConstant() bool
	String() string
}

// Literal is a constant expression.
type Literal struct{ Value literal.Value }

func (l Literal) Eval(*rctx.Context, Binding) (literal.Value, error) { return l.Value, nil }
func (l Literal) IsConstant() bool                                   { return true }
func (l Literal) String() string                                     { return l.Value.String() }

// GetField reads the value bound at a fixed row offset.
type GetField struct {
	Offset int
	Name   string
}

func (g GetField) Eval(_ *rctx.Context, row Binding) (literal.Value, error) {
	v := row.At(g.Offset)
	if v == nil {
		return literal.Value{}, errUnbound{g.Name}
	}
	return *v, nil
}
func (g GetField) IsConstant() bool { return false }
func (g GetField) String() string   { return "?" + g.Name }

type errUnbound struct{ name string }

func (e errUnbound) Error() string { return "variable ?" + e.name + " is unbound" }

// IsUnbound reports whether err signals that a GetField read an unbound
// position, distinguishing it from a genuine evaluation failure.
func IsUnbound(err error) bool {
	_, ok := err.(errUnbound)
	return ok
}

// Star is the sentinel argument for COUNT(*): it is never evaluated
// directly (aggregation special-cases it to mean "count every row").
type Star struct{}

func (Star) Eval(*rctx.Context, Binding) (literal.Value, error) {
	return literal.Value{}, errUnbound{"*"}
}
func (Star) IsConstant() bool { return false }
func (Star) String() string   { return "*" }

// IsStar reports whether e is the COUNT(*) sentinel.
func IsStar(e Expression) bool {
	_, ok := e.(Star)
	return ok
}

// Alias names an expression's output column without changing its value.
// Project, GroupBy and Aggregation take their output column names
// separately and do not read this name.
type Alias struct {
	Name  string
	Inner Expression
}

func (a Alias) Eval(ctx *rctx.Context, row Binding) (literal.Value, error) {
	return a.Inner.Eval(ctx, row)
}
func (a Alias) IsConstant() bool { return a.Inner.IsConstant() }
func (a Alias) String() string   { return a.Inner.String() + " AS " + a.Name }

// IsNull wraps an expression, evaluating to boolean true iff the inner
// expression is unbound or errors.
type IsNull struct{ Inner Expression }

func (n IsNull) Eval(ctx *rctx.Context, row Binding) (literal.Value, error) {
	_, err := n.Inner.Eval(ctx, row)
	return literal.NewBoolean(err != nil), nil
}
func (n IsNull) IsConstant() bool { return false }
func (n IsNull) String() string   { return "ISNULL(" + n.Inner.String() + ")" }

// Tuple evaluates a sequence of expressions, used for GroupBy keys and
// aggregation argument lists. An error evaluating one member does not
// abort the tuple: that position is nil and the caller decides (GroupBy
// uses nil as part of the key; Aggregation hands the tuple to the
// accumulator, which skips the nil arguments — COUNT counts a row when at
// least one argument evaluated).
func Tuple(ctx *rctx.Context, row Binding, exprs []Expression) ([]*literal.Value, error) {
	out := make([]*literal.Value, len(exprs))
	var firstErr error
	for i, e := range exprs {
		v, err := e.Eval(ctx, row)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			out[i] = nil
			continue
		}
		out[i] = &v
	}
	return out, firstErr
}
