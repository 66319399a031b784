// Package aggregate orchestrates the per-source adapters into one snapshot.
//
// The controller invokes adapters in registration order, pausing briefly
// between sources to stay under upstream rate limits, and isolates every
// failure at the invocation boundary: a source that errors or panics simply
// contributes zero events. An optional bounded worker pool parallelizes the
// run while preserving registration-order output.
package aggregate
