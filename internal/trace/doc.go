// Package trace records span events of a lint run: the driver, its passes
// (load, parse, bind, lint) and per-file work.
//
// Enable it from the command line:
//
//	propguard lint --trace=- --trace-level=detail src/
//
// Tracers travel through the run in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", parentID)
//	defer span.End("")
//
// The stream tracer writes every event as it happens; the ring tracer keeps
// the last events in memory for Dump.
package trace
