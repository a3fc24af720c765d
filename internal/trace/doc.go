// Package trace records what the compiler is doing, for humans and for tools.
//
// A Tracer receives Events. Spans (Begin/End pairs) mark the build, each
// pipeline phase and each lowered function; points mark single decisions
// such as a constant-folding fallback. Scope orders events by granularity and
// Level picks how fine-grained the output is:
//
//	off    nothing
//	error  nothing is streamed; the ring keeps events for a crash dump
//	phase  driver and pass spans
//	detail plus per-function spans
//	debug  plus node-level points
//
// The tracer travels in a context.Context (WithTracer/FromContext) so library
// code never needs a global logger.
package trace
