// Package rerror defines the error taxonomy shared by every layer of the
// rowsource core: type errors, schema mismatches, parse errors, resource
// exhaustion and timeouts. Callers test an error's Kind with Is, which
// unwraps chains built by Wrap/Wrapf (github.com/pkg/errors).
package rerror

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure so callers can decide whether it is locally
// recoverable (drop a row, skip an argument) or fatal for the subtree.
type Kind int

const (
	// KindType covers literal comparison and arithmetic type errors.
	KindType Kind = iota
	// KindSchema covers variable count/name and result-kind mismatches.
	KindSchema
	// KindParse covers lexical/grammar errors at a source boundary.
	KindParse
	// KindResource covers allocation/resource exhaustion.
	KindResource
	// KindTimeout covers a wall-clock bound being exceeded.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindSchema:
		return "schema"
	case KindParse:
		return "parse"
	case KindResource:
		return "resource"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is a classified, optionally located failure.
type Error struct {
	Kind    Kind
	Locator string // e.g. "line 4, column 12" for parse errors; empty otherwise
	msg     string
}

func (e *Error) Error() string {
	if e.Locator != "" {
		return fmt.Sprintf("%s error at %s: %s", e.Kind, e.Locator, e.msg)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.msg)
}

// New builds a classified error.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, msg: msg}
}

// Newf builds a classified error with formatting.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// AtLocator attaches a source locator (used by parse errors).
func AtLocator(kind Kind, locator, msg string) error {
	return &Error{Kind: kind, Locator: locator, msg: msg}
}

// Is reports whether err is (or wraps) a classified Error of the given kind.
func Is(err error, kind Kind) bool {
	var classified *Error
	for err != nil {
		if c, ok := err.(*Error); ok {
			classified = c
			break
		}
		err = errors.Unwrap(err)
	}
	return classified != nil && classified.Kind == kind
}

// Wrap wraps err with additional context, preserving classification for Is.
func Wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}

// Wrapf wraps err with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}
