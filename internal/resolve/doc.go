// Package resolve drives the fixed-point resolution loop that turns a
// parsed CMSIS-SVD device tree into a processed one: dim expansion,
// derivedFrom resolution, property inheritance, and the final bottom-up
// sort-and-size pass (spec §4.4-§4.6).
//
// Resolve owns an internal/graph.Graph for the duration of one call; the
// graph is never exposed to callers. Warnings are collected and returned
// alongside the processed tree; fatal errors abort the call and discard
// all partial state, matching the teacher's own diagnostics-first error
// model (pkg/diag).
package resolve
