// Package observe provides observability primitives for the gateway and
// the prep cache.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. Consumers wire the logger, metrics, and tracer
// into the gateway client and the cache store.
package observe
