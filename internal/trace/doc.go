// Package trace records what a generation run did.
//
// Events are emitted per span: the driver run as a whole, each binding
// target, and the steps inside a target (remove, translate, rewrite, write).
//
// # Usage
//
//	nxsdl gen --trace=- --trace-level=step
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelDriver: Run boundaries only
//   - LevelTarget: Per-target begin/end
//   - LevelStep: Everything including per-step events
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.BeginIn(ctx, trace.ScopeTarget, "target:ttf")
//	defer span.End("")
//
// Spans begun from the returned ctx are nested under span.
package trace
