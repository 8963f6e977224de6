// Package diag is the diagnostics side channel shared by internal/resolve,
// internal/svdxml and cmd/svdresolve: a severity/kind/path/message record
// and a report that groups them, modeled directly on the teacher's
// pkg/types diagnostic shape.
package diag

import (
	"encoding/json"
	"sort"
)

// Severity classifies how serious a diagnostic is.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Kind names the category of condition a Diagnostic reports, matching the
// fatal/warning kinds spec.md §7 enumerates.
type Kind string

const (
	KindResolveCycle          Kind = "ResolveCycle"
	KindUnresolvedDerivation  Kind = "UnresolvedDerivation"
	KindAmbiguousDerivation   Kind = "AmbiguousDerivation"
	KindDimMisconfiguration   Kind = "DimMisconfiguration"
	KindFieldOverlap          Kind = "FieldOverlap"
	KindRegisterOverlap       Kind = "RegisterOverlap"
	KindEnumUsageConflict     Kind = "EnumUsageConflict"
	KindDuplicateEnumValue    Kind = "DuplicateEnumValue"
	KindDuplicateEnumName     Kind = "DuplicateEnumName"
	KindDerivationLevelMismatch Kind = "DerivationLevelMismatch"
	KindSelfDerivation        Kind = "SelfDerivation"
	KindBaseIsDevice          Kind = "BaseIsDevice"
	KindLegacyAccessToken     Kind = "LegacyAccessToken"
	KindSchemaViolation       Kind = "SchemaViolation"
)

// Diagnostic is a single reported issue, carrying a short locator for the
// offending element (for example "peripheral UART0") so a reader can find
// it without re-walking the tree.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Kind     Kind     `json:"kind"`
	Path     string   `json:"path,omitempty"`
	Message  string   `json:"message"`
}

// Report accumulates Diagnostics across one resolve/validate run.
type Report struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{}
}

// Add appends one diagnostic.
func (r *Report) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// Addf is a convenience wrapper building a Diagnostic inline.
func (r *Report) Addf(sev Severity, kind Kind, path, message string) {
	r.Add(Diagnostic{Severity: sev, Kind: kind, Path: path, Message: message})
}

// HasErrors reports whether any diagnostic is at SeverityError.
func (r *Report) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// BySeverity groups the report's diagnostics by severity, each group sorted
// by path then message for stable output — the grouping htmlreport and the
// diagnose command's text output render directly.
func (r *Report) BySeverity() map[Severity][]Diagnostic {
	out := map[Severity][]Diagnostic{}
	for _, d := range r.Diagnostics {
		out[d.Severity] = append(out[d.Severity], d)
	}
	for sev := range out {
		group := out[sev]
		sort.Slice(group, func(i, j int) bool {
			if group[i].Path != group[j].Path {
				return group[i].Path < group[j].Path
			}
			return group[i].Message < group[j].Message
		})
	}
	return out
}

// JSON renders the report as indented JSON, matching the teacher's own
// encoding/json-only serialisation choice (no third-party JSON library
// appears anywhere in the pack).
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
