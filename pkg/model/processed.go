package model

// The processed tree is produced by internal/resolve. Every inheritable
// property has a concrete value (no nils), every derivedFrom has been
// expanded into an independent copy, and every dim'd element has been
// expanded into one node per index. Processed nodes never reference their
// parent or the graph that built them.

// ProcessedEnumValue is a fully expanded enumerated value: a wildcard
// 'x' in the source value has been turned into one ProcessedEnumValue per
// concrete bit pattern it covers.
type ProcessedEnumValue struct {
	Name        string
	Description string
	Value       uint64
	IsDefault   bool
}

// ProcessedEnumContainer is a field's resolved enumerated-value container.
type ProcessedEnumContainer struct {
	Name           string
	HeaderEnumName string
	Usage          Usage
	Values         []ProcessedEnumValue
}

// ProcessedField is a fully resolved bit range within a ProcessedRegister.
type ProcessedField struct {
	Name        string
	Description string

	LSB int
	MSB int

	Access              Access
	ModifiedWriteValues *ModifiedWriteValues
	ReadAction          *ReadAction
	WriteConstraint     *WriteConstraint

	EnumContainers []ProcessedEnumContainer
}

// ProcessedRegister is a fully resolved, addressable register.
type ProcessedRegister struct {
	Name          string
	DisplayName   string
	Description   string
	AddressOffset int

	Size       int
	Access     Access
	Protection Protection
	ResetValue uint64
	ResetMask  uint64

	AlternateGroup    string
	AlternateRegister string

	ModifiedWriteValues *ModifiedWriteValues
	ReadAction          *ReadAction
	WriteConstraint     *WriteConstraint

	Fields []ProcessedField
}

// ProcessedCluster is a fully resolved group of registers/clusters at a
// common address offset.
type ProcessedCluster struct {
	Name          string
	Description   string
	AddressOffset int
	HeaderStructName string

	Size       int
	Access     Access
	Protection Protection
	ResetValue uint64
	ResetMask  uint64

	Registers []ProcessedRegister
	Clusters  []ProcessedCluster
}

// ProcessedPeripheral is a fully resolved peripheral.
type ProcessedPeripheral struct {
	Name        string
	Version     string
	Description string
	GroupName   string
	BaseAddress uint64

	Size       int
	Access     Access
	Protection Protection
	ResetValue uint64
	ResetMask  uint64

	AddressBlocks []AddressBlock
	Interrupts    []Interrupt

	Registers []ProcessedRegister
	Clusters  []ProcessedCluster
}

// ProcessedSauRegion is a resolved SAU region; carried through from the
// parsed tree unchanged since SAU configuration has no inheritance rules
// of its own (SPEC_FULL.md §9.1).
type ProcessedSauRegion struct {
	Enabled bool
	Name    string
	Base    uint64
	Limit   uint64
	Access  SauAccess
}

// ProcessedCPU is the device's processor core description, passed through
// from the parsed tree.
type ProcessedCPU struct {
	Name                CPUName
	Revision            string
	Endian              Endian
	MPUPresent          bool
	FPUPresent          bool
	FPUDP               bool
	DSPPresent          bool
	ICachePresent       bool
	DCachePresent       bool
	ITCMPresent         bool
	DTCMPresent         bool
	VTORPresent         bool
	NVICPrioBits        int
	VendorSystickConfig bool
	DeviceNumInterrupts int
	SauNumRegions       int
	SauRegionsEnabled   bool
	SauRegions          []ProcessedSauRegion
}

// ProcessedDevice is the root of the fully resolved tree: every
// Peripheral/Cluster/Register/Field has concrete properties, and every
// dim'd and derivedFrom element has been expanded into an independent node.
type ProcessedDevice struct {
	Vendor      string
	VendorID    string
	Name        string
	Series      string
	Version     string
	Description string
	LicenseText string
	CPU         *ProcessedCPU

	AddressUnitBits int
	Width           int

	Peripherals []ProcessedPeripheral
}
