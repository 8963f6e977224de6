// Package model defines the two parallel trees the rest of svdkit operates
// on: the parsed tree, a direct image of a CMSIS-SVD document with optional
// fields left as nil pointers where the XML omitted them, and the processed
// tree, produced by internal/resolve, where every inheritable property has
// been resolved to a concrete value and every derivedFrom/dim construct has
// been expanded away.
//
// Parsed nodes are immutable once built by internal/svdxml. Processed nodes
// are built incrementally by internal/resolve and never reference their
// parents; internal/graph is the only place parent/child relationships are
// tracked for the duration of a resolve call.
package model
