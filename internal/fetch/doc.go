// Package fetch provides resilient retrieval of upstream page bodies.
//
// Upstream tournament sites rate-limit, block datacenter IPs, and fail
// intermittently, so retrieval prefers a relay/proxy service when a credential
// is configured, retrying with exponential backoff and jitter, and falls back
// to direct HTTP with its own smaller retry budget. Callers get the first
// non-empty successful body, or a classified *Error after every attempt on
// both paths is exhausted — a fetch never panics and a missing credential only
// disables the relay path.
package fetch
