package trace

import "context"

// ctxState is what a context carries: the run's tracer and the span the
// current work belongs to.
type ctxState struct {
	tracer Tracer
	span   uint64
}

type ctxKey struct{}

func stateOf(ctx context.Context) ctxState {
	if ctx != nil {
		if st, ok := ctx.Value(ctxKey{}).(ctxState); ok {
			return st
		}
	}
	return ctxState{tracer: Nop}
}

// FromContext returns the tracer of ctx, or Nop.
func FromContext(ctx context.Context) Tracer { return stateOf(ctx).tracer }

// WithTracer attaches t to ctx and resets the current span.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, ctxState{tracer: t})
}

// SpanContext identifies the span new work is parented to.
type SpanContext struct {
	SpanID uint64
}

// CurrentSpan returns the active span of ctx; zero at the root.
func CurrentSpan(ctx context.Context) SpanContext {
	return SpanContext{SpanID: stateOf(ctx).span}
}

// WithSpanContext makes sc the parent for spans begun under the result.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	st := stateOf(ctx)
	st.span = sc.SpanID
	return context.WithValue(ctx, ctxKey{}, st)
}

// Start begins a span under the current one and returns a context in
// which it is current.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	st := stateOf(ctx)
	span := Begin(st.tracer, scope, name, st.span)
	if span.ID() == 0 {
		return ctx, span
	}
	st.span = span.ID()
	return context.WithValue(ctx, ctxKey{}, st), span
}
