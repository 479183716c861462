package trace

import "context"

type ctxKey struct{}

type spanKey struct{}

// FromContext returns the Tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches a Tracer to context.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

// WithParent records span as the parent for spans begun under ctx.
func WithParent(ctx context.Context, span *Span) context.Context {
	return context.WithValue(ctx, spanKey{}, span.ID())
}

// ParentID returns the span ID recorded by WithParent, or 0.
func ParentID(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}

// BeginIn starts a span using the tracer and parent stored in ctx and
// returns a context carrying the new span as parent.
func BeginIn(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	span := Begin(FromContext(ctx), scope, name, ParentID(ctx))
	if span.ID() == 0 {
		return ctx, span
	}
	return WithParent(ctx, span), span
}

// PointIn emits an instant event under the span recorded in ctx.
func PointIn(ctx context.Context, scope Scope, name, detail string) {
	Point(FromContext(ctx), scope, name, detail, ParentID(ctx))
}
