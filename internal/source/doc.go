// Package source defines the per-site adapters that extract raw tournament
// records from upstream listing pages.
//
// Three extraction strategies cover the current sources: CSS selection with an
// ordered fallback chain of candidate selectors (markup drifts, so the first
// selector that matches anything wins), structured endpoints whose record
// container is found under the first present key of a historical alias set,
// and inline script payloads located by a marker and cut out between their
// bounding brackets. All three fail soft: a strategy that cannot extract
// yields nothing and reports why, and one broken site never affects another.
package source
