package model

// The parsed tree is a direct image of a CMSIS-SVD document. Optional
// elements/attributes are represented as nil pointers; internal/svdxml
// builds these values from XML, and internal/graph and internal/resolve
// read them.

// DimGroup holds the dim/dimIncrement/dimIndex/dimName attributes shared by
// Peripheral, Cluster, Register and Field. A nil Dim means the element is
// not array/list-expanded.
type DimGroup struct {
	Dim            *int
	DimIncrement   *int
	DimIndex       *string
	DimName        *string
	DimArrayIndex  *DimArrayIndex
}

// DimArrayIndex names the enumeration backing a dim'd element's index
// values, used by header generators. internal/svdxml does not decode it and
// the processed tree has no slot for it.
type DimArrayIndex struct {
	HeaderEnumName *string
	EnumeratedValues []EnumeratedValue
}

// RegisterPropertiesGroup holds the four inheritable register properties
// plus size. Any of them may be nil, meaning "inherit from the nearest
// ancestor that defines it, or the device default" (spec.md §3).
type RegisterPropertiesGroup struct {
	Size       *int
	Access     *Access
	Protection *Protection
	ResetValue *uint64
	ResetMask  *uint64
}

// WriteConstraint restricts which values may be written to a field or
// register.
type WriteConstraint struct {
	WriteAsRead         *bool
	UseEnumeratedValues *bool
	RangeMin, RangeMax  *uint64
}

// AddressBlock declares a contiguous span of a peripheral's address space.
type AddressBlock struct {
	Offset     int
	Size       int
	Usage      AddressBlockUsage
	Protection *Protection
}

// Interrupt names an interrupt line a peripheral raises.
type Interrupt struct {
	Name        string
	Description string
	Value       int
}

// EnumeratedValue is one entry of an EnumeratedValueContainer. Value may
// contain 'x' wildcard bits (e.g. "0bx10"); pkg/enumval expands those.
type EnumeratedValue struct {
	Name        string
	Description string
	Value       *string
	IsDefault   *bool
}

// EnumeratedValueContainer groups EnumeratedValues under a usage
// constraint. At most two containers may exist on one field (read, write);
// read-write excludes any other (spec.md §4.2).
type EnumeratedValueContainer struct {
	Name             *string
	HeaderEnumName   *string
	Usage            *Usage
	EnumeratedValues []EnumeratedValue
	DerivedFrom      *string
}

// Field is the smallest addressable unit, a bit range within a Register.
// Exactly one of (LSB+MSB), (BitOffset+BitWidth), (BitRange) is expected to
// be set; pkg/model does not normalise this — internal/resolve does.
type Field struct {
	DimGroup

	Name        string
	Description string

	LSB, MSB         *int
	BitOffset        *int
	BitWidth         *int
	BitRange         *string

	Access              *Access
	ModifiedWriteValues *ModifiedWriteValues
	WriteConstraint     *WriteConstraint
	ReadAction          *ReadAction

	EnumeratedValueContainers []EnumeratedValueContainer

	DerivedFrom *string
}

// Register is an addressable storage unit composed of Fields.
type Register struct {
	DimGroup
	RegisterPropertiesGroup

	Name            string
	DisplayName     string
	Description     string
	AlternateGroup  *string
	AlternateRegister *string
	AddressOffset   int
	ModifiedWriteValues *ModifiedWriteValues
	WriteConstraint     *WriteConstraint
	ReadAction          *ReadAction

	Fields []Field

	DerivedFrom *string
}

// Cluster groups Registers/Clusters under a common address offset.
type Cluster struct {
	DimGroup
	RegisterPropertiesGroup

	Name              string
	Description       string
	AlternateCluster  *string
	HeaderStructName  *string
	AddressOffset     int

	RegistersClusters []RegisterOrCluster

	DerivedFrom *string
}

// RegisterOrCluster holds exactly one of Register or Cluster, mirroring the
// SVD grammar's registersClusters union. Exactly one field is non-nil.
type RegisterOrCluster struct {
	Register *Register
	Cluster  *Cluster
}

// Peripheral is a named, base-addressed collection of Registers/Clusters.
type Peripheral struct {
	DimGroup
	RegisterPropertiesGroup

	Name              string
	Version           *string
	Description       string
	AlternatePeripheral *string
	GroupName         *string
	PrependToName     *string
	AppendToName      *string
	HeaderStructName  *string
	DisableCondition  *string
	BaseAddress       uint64

	AddressBlocks []AddressBlock
	Interrupts    []Interrupt

	RegistersClusters []RegisterOrCluster

	DerivedFrom *string
}

// SauRegion is one entry of a CPU's Secure Attribution Unit configuration.
type SauRegion struct {
	Enabled *bool
	Name    *string
	Base    uint64
	Limit   uint64
	Access  SauAccess
}

// SauRegionsConfig is a CPU's complete SAU configuration.
type SauRegionsConfig struct {
	Enabled                *bool
	ProtectionWhenDisabled *Protection
	Regions                []SauRegion
}

// CPU describes the processor core a Device integrates.
type CPU struct {
	Name                CPUName
	Revision            string
	Endian              Endian
	MPUPresent          *bool
	FPUPresent          *bool
	FPUDP               *bool
	DSPPresent          *bool
	ICachePresent       *bool
	DCachePresent       *bool
	ITCMPresent         *bool
	DTCMPresent         *bool
	VTORPresent         *bool
	NVICPrioBits        int
	VendorSystickConfig bool
	DeviceNumInterrupts *int
	SauNumRegions       *int
	SauRegionsConfig    *SauRegionsConfig
}

// CPUName is one of the CMSIS core identifiers (spec.md §1 names "CPU" as
// part of the domain the model covers; SPEC_FULL.md §9.1 expands it from
// original_source/model/types.py's CPUNameType).
type CPUName string

const (
	CPUCM0       CPUName = "CM0"
	CPUCM0Plus   CPUName = "CM0PLUS"
	CPUCM1       CPUName = "CM1"
	CPUCM3       CPUName = "CM3"
	CPUCM4       CPUName = "CM4"
	CPUCM7       CPUName = "CM7"
	CPUCM23      CPUName = "CM23"
	CPUCM33      CPUName = "CM33"
	CPUCM35P     CPUName = "CM35P"
	CPUCM52      CPUName = "CM52"
	CPUCM55      CPUName = "CM55"
	CPUCM85      CPUName = "CM85"
	CPUSC000     CPUName = "SC000"
	CPUSC300     CPUName = "SC300"
	CPUARMV8MML  CPUName = "ARMV8MML"
	CPUARMV8MBL  CPUName = "ARMV8MBL"
	CPUARMV81MML CPUName = "ARMV81MML"
	CPUCA5       CPUName = "CA5"
	CPUCA7       CPUName = "CA7"
	CPUCA8       CPUName = "CA8"
	CPUCA9       CPUName = "CA9"
	CPUCA15      CPUName = "CA15"
	CPUCA17      CPUName = "CA17"
	CPUCA53      CPUName = "CA53"
	CPUCA57      CPUName = "CA57"
	CPUCA72      CPUName = "CA72"
	CPUSMC1      CPUName = "SMC1"
	CPUOther     CPUName = "other"
)

// Device is the root of the parsed tree.
type Device struct {
	RegisterPropertiesGroup

	SchemaVersion string
	Vendor        *string
	VendorID      *string
	Name          string
	Series        *string
	Version       string
	Description   string
	LicenseText   *string
	CPU           *CPU

	HeaderSystemFilename  *string
	HeaderDefinitionsPrefix *string
	AddressUnitBits       int
	Width                 int

	Peripherals []Peripheral
}
