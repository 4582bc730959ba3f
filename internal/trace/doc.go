// Package trace records what enumflags does while it runs.
//
// Tracing is off by default and enabled from the command line:
//
//	enumflags gen --trace=- --trace-level=detail ./flags
//
// Events have a scope: the whole run, one input file, or one declaration.
// The level decides which scopes reach the output.
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+path)
//	defer span.End("")
package trace
