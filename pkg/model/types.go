package model

// Access describes the read/write permission of a register or field.
type Access string

const (
	AccessReadOnly      Access = "read-only"
	AccessWriteOnly     Access = "write-only"
	AccessReadWrite     Access = "read-write"
	AccessWriteOnce     Access = "writeOnce"
	AccessReadWriteOnce Access = "read-writeOnce"
)

// legacy access tokens accepted with a warning, per spec.md §6.
const (
	legacyAccessRead  = "read"
	legacyAccessWrite = "write"
)

// ParseAccess parses an access token, accepting the five canonical values
// plus the legacy "read"/"write" tokens. legacy reports whether a legacy
// token was used, so the caller can raise a warning.
func ParseAccess(s string) (value Access, legacy bool, ok bool) {
	switch s {
	case string(AccessReadOnly), string(AccessWriteOnly), string(AccessReadWrite),
		string(AccessWriteOnce), string(AccessReadWriteOnce):
		return Access(s), false, true
	case legacyAccessRead:
		return AccessReadOnly, true, true
	case legacyAccessWrite:
		return AccessWriteOnly, true, true
	default:
		return "", false, false
	}
}

// Protection is the secure/non-secure/privileged attribute shared by
// registers, clusters, peripherals and address blocks.
type Protection string

const (
	ProtectionSecure     Protection = "s"
	ProtectionNonSecure  Protection = "n"
	ProtectionPrivileged Protection = "p"
)

// Usage constrains which enumerated-value containers may coexist on a
// field: read-write cannot coexist with any other usage, and at most one
// of each of read/write may be present otherwise.
type Usage string

const (
	UsageRead      Usage = "read"
	UsageWrite     Usage = "write"
	UsageReadWrite Usage = "read-write"
)

// ModifiedWriteValues describes the side effect of writing 1s/0s to a field.
type ModifiedWriteValues string

const (
	ModifiedWriteOneToClear    ModifiedWriteValues = "oneToClear"
	ModifiedWriteOneToSet      ModifiedWriteValues = "oneToSet"
	ModifiedWriteOneToToggle   ModifiedWriteValues = "oneToToggle"
	ModifiedWriteZeroToClear   ModifiedWriteValues = "zeroToClear"
	ModifiedWriteZeroToSet     ModifiedWriteValues = "zeroToSet"
	ModifiedWriteZeroToToggle  ModifiedWriteValues = "zeroToToggle"
	ModifiedWriteClear         ModifiedWriteValues = "clear"
	ModifiedWriteSet           ModifiedWriteValues = "set"
	ModifiedWriteModify        ModifiedWriteValues = "modify"
)

// ReadAction describes a side effect triggered by reading a field.
type ReadAction string

const (
	ReadActionClear           ReadAction = "clear"
	ReadActionSet             ReadAction = "set"
	ReadActionModify          ReadAction = "modify"
	ReadActionModifyExternal  ReadAction = "modifyExternal"
)

// AddressBlockUsage classifies what an address block is used for.
type AddressBlockUsage string

const (
	AddressBlockRegisters AddressBlockUsage = "registers"
	AddressBlockBuffer    AddressBlockUsage = "buffer"
	AddressBlockReserved  AddressBlockUsage = "reserved"
)

// Endian describes the CPU's byte order.
type Endian string

const (
	EndianLittle     Endian = "little"
	EndianBig        Endian = "big"
	EndianSelectable Endian = "selectable"
	EndianOther      Endian = "other"
)

// SauAccess classifies an SAU region's callable/non-secure access.
type SauAccess string

const (
	SauAccessNonSecureCallable SauAccess = "c"
	SauAccessNonSecure         SauAccess = "n"
)

// Level tags the position of a node within the containment chain. The
// derivation-path resolver and the graph both dispatch on Level: a
// derivedFrom path may only resolve to a node at the same Level as the
// node declaring it (spec.md §3, §4.5).
type Level int

const (
	LevelDevice Level = iota
	LevelPeripheral
	LevelCluster
	LevelRegister
	LevelField
	LevelEnumContainer
)

func (l Level) String() string {
	switch l {
	case LevelDevice:
		return "Device"
	case LevelPeripheral:
		return "Peripheral"
	case LevelCluster:
		return "Cluster"
	case LevelRegister:
		return "Register"
	case LevelField:
		return "Field"
	case LevelEnumContainer:
		return "EnumContainer"
	default:
		return "Unknown"
	}
}
