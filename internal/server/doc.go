// Package server exposes the snapshot query service: a read endpoint serving
// the last persisted aggregation result and a trigger endpoint that starts a
// re-run in the background without blocking its own response. Callers always
// receive a well-formed result; pipeline errors stay in the logs.
package server
