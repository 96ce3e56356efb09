// Package rctx provides the per-query execution context threaded through
// every rowsource call: a context.Context for cancellation plus the
// world-level structured logger. Operators return their failures to the
// caller as errors and do not log them here; Filter logs, at debug level,
// condition evaluation errors it treats as false.
package rctx

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Context is the "world" handle passed to every Rowsource method.
type Context struct {
	context.Context
	log *logrus.Entry
}

// New wraps a context.Context with a logger. If log is nil, a logger that
// discards everything is used, so a non-nil logger is always available
// even when no sink was configured.
func New(ctx context.Context, log *logrus.Entry) *Context {
	if log == nil {
		l := logrus.New()
		l.Out = discard{}
		log = logrus.NewEntry(l)
	}
	return &Context{Context: ctx, log: log}
}

// Background returns a Context over context.Background() with a discarding
// logger, convenient for tests and one-shot comparisons.
func Background() *Context {
	return New(context.Background(), nil)
}

// Log returns the structured logger for this query's execution.
func (c *Context) Log() *logrus.Entry {
	return c.log
}

// WithField returns a derived Context whose logger carries an additional
// field, e.g. the operator kind and output offset, so every log line an
// operator emits carries its own provenance.
func (c *Context) WithField(key string, value interface{}) *Context {
	return &Context{Context: c.Context, log: c.log.WithField(key, value)}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
