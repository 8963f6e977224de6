// Package svdxml is the CMSIS-SVD XML ingest/serialize boundary: the only
// package that builds the parsed model.Device tree from bytes, and the
// only one that turns a processed device back into XML text. Decoding
// follows the teacher's internal/regtext codec shape (a Decode entry
// point plus small per-element helpers and a dedicated numeric/bool
// literal parser); encoding follows the teacher's hive/printer shape (one
// ordered emit function per output concern).
package svdxml
