// Package event defines the canonical tournament event schema and the
// normalization that maps heterogeneous source records into it.
//
// Every upstream site names its fields differently; rather than branching per
// source, each adapter carries an AliasTable listing the raw key names for
// each canonical field in lookup order. Normalize consults the table and falls
// back to the "N/A" sentinel, guaranteeing that every record — whatever its
// shape — produces a complete six-field event suitable for uniform JSON and
// CSV output.
package event
