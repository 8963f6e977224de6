// Package graph implements the derivation graph the resolver drives: a
// directed graph of Element and Placeholder nodes connected by
// ChildUnresolved, ChildResolved, Placeholder and Derive edges (spec §4.3).
//
// Acyclicity is enforced on Derive edges only — AddDeriveEdge refuses an
// edge that would close a chain of Derive edges into a loop, while
// structural edges are never checked. The graph is a plain adjacency-list
// structure; nothing here decides what the nodes mean, that is
// internal/resolve's job.
package graph
