// Package trace records what the build is doing: driver operations,
// pipeline stages and per-entity translation.
//
// Enable it from the command line:
//
//	architect build --trace=- --trace-level=detail
//
// Tracers:
//
//   - Nop: used when tracing is off
//   - StreamTracer: writes every event as it happens
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans out to several tracers
//
// Levels: off, error, phase (driver + stages), detail (entities), debug.
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeStage, "emit", 0)
//	defer span.End("")
package trace
