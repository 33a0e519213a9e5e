// Package trace provides the tracing subsystem used as recast's structured log.
//
// The driver, the rewrite dispatcher and the rules emit span and point
// events so that slow files, long deferred-rule chains or cancelled
// traversals can be diagnosed after the fact.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	recast check --trace=- --trace-level=detail ./src
//
// # Architecture
//
//   - Nop: zero-overhead no-op tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr), text or NDJSON
//   - RingTracer: circular buffer, dumped when a run fails
//   - MultiTracer: combines multiple tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only dumps on failure
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: everything including node-level events
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "parse", parentID)
//	defer span.End("")
package trace
