package sql

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

// Context carries the per-statement cancellation signal checked at stage
// boundaries, a logger, and a tracer. It is created fresh per statement and
// discarded on completion; nothing on it outlives one Query call.
type Context struct {
	context.Context
	Logger *logrus.Entry
	Tracer opentracing.Tracer

	// JoinHashThreshold is the minimum hash-side size (in documents) below
	// which the join engine skips bucketing and falls back to a direct
	// nested-loop comparison. Zero means always bucket.
	JoinHashThreshold int
}

// NewContext wraps a context.Context with the engine's shared logger and
// tracer. The logger is shared across statements; per-statement fields are
// added with WithLogFields.
func NewContext(ctx context.Context, logger *logrus.Logger, tracer opentracing.Tracer) *Context {
	if logger == nil {
		logger = logrus.New()
	}
	if tracer == nil {
		tracer = opentracing.NoopTracer{}
	}
	return &Context{Context: ctx, Logger: logger.WithField("component", "docql"), Tracer: tracer}
}

// NewEmptyContext is a convenience constructor for tests and one-off calls.
func NewEmptyContext() *Context {
	return NewContext(context.Background(), logrus.New(), opentracing.NoopTracer{})
}

// Cancelled reports whether the externally supplied cancellation signal has
// fired, for stage-boundary checks.
func (c *Context) Cancelled() bool {
	select {
	case <-c.Context.Done():
		return true
	default:
		return false
	}
}

// StartSpan opens an opentracing span around a call that may block and
// returns its finish func.
func (c *Context) StartSpan(operation string) func() {
	span, spanCtx := opentracing.StartSpanFromContextWithTracer(c.Context, c.Tracer, operation)
	c.Context = spanCtx
	return span.Finish
}

// WithLogFields returns a derived Context whose Logger carries the given
// fields, without altering the underlying cancellation context.
func (c *Context) WithLogFields(fields logrus.Fields) *Context {
	return &Context{Context: c.Context, Logger: c.Logger.WithFields(fields), Tracer: c.Tracer, JoinHashThreshold: c.JoinHashThreshold}
}
