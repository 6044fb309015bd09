// Package trace is the structured logging layer of deadend.
//
// Library code never prints; it emits span and point events through a
// Tracer carried in context.Context. The CLI decides where they go:
//
//	deadend check --trace=- --trace-level=detail broken.rb
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: failures only
//   - LevelPhase: driver and pass boundaries (ingest, indent-tree, search, capture)
//   - LevelDetail: per-file events in directory mode
//   - LevelDebug: every oracle call and frontier step
//
// # Usage
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "search", parentID)
//	defer span.End("")
package trace
