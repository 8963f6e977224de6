// Package enumval processes a Field's enumerated-value containers: wildcard
// bit expansion, duplicate detection, isDefault constraints, and the usage
// coexistence rule that governs how many containers a single field may
// carry (spec §4.2).
package enumval
