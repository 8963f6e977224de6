// Package dim implements the dim/dimIncrement/dimIndex array-and-list
// expansion rules for Peripherals, Clusters, Registers and Fields (spec §4.1
// of the CMSIS-SVD grammar this module resolves).
//
// Expand takes a dim group plus a base name and offset, and produces one
// instance per index: a substituted name and an address offset advanced by
// dimIncrement per step. Callers are responsible for cloning the parsed
// subtree per instance; this package only computes names and offsets.
package dim
