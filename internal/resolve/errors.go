package resolve

import "errors"

// Fatal error kinds (spec §7). Each aborts the current Resolve call;
// partial state is discarded.
var (
	ErrResolveCycle         = errors.New("resolve: inheritance cycle")
	ErrUnresolvedDerivation = errors.New("resolve: derivation base never found")
	ErrAmbiguousDerivation  = errors.New("resolve: derivation path matched more than one node")
	ErrDimMisconfiguration  = errors.New("resolve: dim misconfiguration")
	ErrFieldOverlap         = errors.New("resolve: overlapping field bit ranges in one register")
	ErrRegisterOverlap      = errors.New("resolve: overlapping registers not explained by alternates")
	ErrEnumUsageConflict    = errors.New("resolve: invalid enumerated-value usage combination")
	ErrDuplicateEnumValue   = errors.New("resolve: duplicate enumerated value")
	ErrDuplicateEnumName    = errors.New("resolve: duplicate enumerated-value name")
	ErrDerivationLevelMismatch = errors.New("resolve: derivedFrom target is at a different level")
	ErrSelfDerivation       = errors.New("resolve: node derives from itself")
	ErrBaseIsDevice         = errors.New("resolve: derivedFrom cannot target the device root")
	ErrStuck                = errors.New("resolve: fixed point did not converge")
)

// WarningKind tags a non-fatal diagnostic (spec §7 "Warning" list).
type WarningKind string

const (
	WarnRegisterOverlapAlternate   WarningKind = "RegisterOverlapAlternate"
	WarnPeripheralOverlapAlternate WarningKind = "PeripheralOverlapAlternate"
	WarnCrossScopeEnumDerivation   WarningKind = "CrossScopeEnumDerivation"
	WarnLegacyAccessToken          WarningKind = "LegacyAccessToken"
)

// Warning is one non-fatal diagnostic raised during a Resolve call.
type Warning struct {
	Kind WarningKind
	Path string
	Msg  string
}
