package rewrite

import (
	"context"
	"errors"
	"fmt"

	"recast/internal/diag"
	"recast/internal/trace"
)

var (
	// ErrCancelled is returned when the surrounding context is done.
	ErrCancelled = errors.New("rewrite cancelled")
	// ErrNilRoot is returned when a traversal is asked to start from nil.
	ErrNilRoot = errors.New("rewrite: nil root")
	// ErrDeferredLimit stops runaway scheduling of follow-up visitors.
	ErrDeferredLimit = errors.New("rewrite: deferred step limit exceeded")
)

// Context is the per-traversal execution context. It is passed by pointer
// through a whole traversal and must not be kept afterwards.
type Context struct {
	ctx      context.Context
	reporter diag.Reporter
	tracer   trace.Tracer
	parent   uint64
}

// NewContext binds ctx and reporter. The tracer and parent span are taken
// from ctx. A nil reporter drops diagnostics.
func NewContext(ctx context.Context, reporter diag.Reporter) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Context{
		ctx:      ctx,
		reporter: reporter,
		tracer:   trace.FromContext(ctx),
		parent:   trace.CurrentSpan(ctx),
	}
}

func (c *Context) orBackground() *Context {
	if c == nil {
		return NewContext(context.Background(), nil)
	}
	return c
}

func (c *Context) Context() context.Context { return c.ctx }
func (c *Context) Reporter() diag.Reporter  { return c.reporter }
func (c *Context) Tracer() trace.Tracer     { return c.tracer }

// TraceParent is the span id new spans should hang under.
func (c *Context) TraceParent() uint64 { return c.parent }

// Err returns nil while the traversal may continue, otherwise an error
// wrapping both ErrCancelled and the context's cause.
func (c *Context) Err() error {
	if err := c.ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, context.Cause(c.ctx))
	}
	return nil
}
