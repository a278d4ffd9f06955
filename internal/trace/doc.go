// Package trace records what the toolchain does while it transforms files.
//
// Events are spans (begin/end pairs) and points, grouped by scope:
//
//   - ScopeDriver: one CLI invocation
//   - ScopePass: parse, resolve, cut, jump, emit
//   - ScopeFile: one input file
//   - ScopeFunction: one rewritten function
//
// The level decides which scopes are recorded. Tracers travel through
// context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "cut", parent)
//	defer span.End("")
//
// Stream output goes through zap, in console or JSON form. The ring
// tracer keeps the last events in memory and dumps them on failure.
//
// Separately, Logger returns the package-wide zap logger used for
// per-file decisions (marker found, names kept, cache hits).
package trace
