package svdxml

import "encoding/xml"

// The xml* types below are a direct image of the CMSIS-SVD grammar: every
// numeric/boolean attribute decodes as a string so literal.go's parsers
// (not encoding/xml's own int/bool conversion) own the four numeric
// formats and two boolean spellings the schema allows.

type xmlDimElementGroup struct {
	Dim          string `xml:"dim"`
	DimIncrement string `xml:"dimIncrement"`
	DimIndex     string `xml:"dimIndex"`
	DimName      string `xml:"dimName"`
}

type xmlRegisterPropertiesGroup struct {
	Size       string `xml:"size"`
	Access     string `xml:"access"`
	Protection string `xml:"protection"`
	ResetValue string `xml:"resetValue"`
	ResetMask  string `xml:"resetMask"`
}

// xmlRegistersClusters decodes the registersClusters interleaved union;
// see decode.go's registersClusters for why the two kinds are merged
// registers-first rather than preserving document order.
type xmlRegistersClusters struct {
	Register []xmlRegister `xml:"register"`
	Cluster  []xmlCluster  `xml:"cluster"`
}

type xmlDevice struct {
	XMLName       xml.Name `xml:"device"`
	SchemaVersion string   `xml:"schemaVersion,attr"`
	Vendor        string   `xml:"vendor"`
	VendorID      string   `xml:"vendorID"`
	Name          string   `xml:"name"`
	Series        string   `xml:"series"`
	Version       string   `xml:"version"`
	Description   string   `xml:"description"`
	LicenseText   string   `xml:"licenseText"`
	CPU           *xmlCPU  `xml:"cpu"`

	HeaderSystemFilename    string `xml:"headerSystemFilename"`
	HeaderDefinitionsPrefix string `xml:"headerDefinitionsPrefix"`
	AddressUnitBits         string `xml:"addressUnitBits"`
	Width                   string `xml:"width"`

	xmlRegisterPropertiesGroup

	Peripherals struct {
		Peripheral []xmlPeripheral `xml:"peripheral"`
	} `xml:"peripherals"`
}

type xmlCPU struct {
	Name                string                `xml:"name"`
	Revision            string                `xml:"revision"`
	Endian              string                `xml:"endian"`
	MPUPresent          string                `xml:"mpuPresent"`
	FPUPresent          string                `xml:"fpuPresent"`
	FPUDP               string                `xml:"fpuDP"`
	DSPPresent          string                `xml:"dspPresent"`
	ICachePresent       string                `xml:"icachePresent"`
	DCachePresent       string                `xml:"dcachePresent"`
	ITCMPresent         string                `xml:"itcmPresent"`
	DTCMPresent         string                `xml:"dtcmPresent"`
	VTORPresent         string                `xml:"vtorPresent"`
	NVICPrioBits        string                `xml:"nvicPrioBits"`
	VendorSystickConfig string                `xml:"vendorSystickConfig"`
	DeviceNumInterrupts string                `xml:"deviceNumInterrupts"`
	SauNumRegions       string                `xml:"sauNumRegions"`
	SauRegionsConfig    *xmlSauRegionsConfig  `xml:"sauRegionsConfig"`
}

type xmlSauRegionsConfig struct {
	Enabled                string         `xml:"enabled,attr"`
	ProtectionWhenDisabled string         `xml:"protectionWhenDisabled,attr"`
	Region                 []xmlSauRegion `xml:"region"`
}

type xmlSauRegion struct {
	Enabled string `xml:"enabled,attr"`
	Name    string `xml:"name,attr"`
	Base    string `xml:"base"`
	Limit   string `xml:"limit"`
	Access  string `xml:"access"`
}

type xmlPeripheral struct {
	xmlDimElementGroup
	xmlRegisterPropertiesGroup

	DerivedFrom string `xml:"derivedFrom,attr"`

	Name                string `xml:"name"`
	Version             string `xml:"version"`
	Description         string `xml:"description"`
	AlternatePeripheral string `xml:"alternatePeripheral"`
	GroupName           string `xml:"groupName"`
	PrependToName       string `xml:"prependToName"`
	AppendToName        string `xml:"appendToName"`
	HeaderStructName    string `xml:"headerStructName"`
	DisableCondition    string `xml:"disableCondition"`
	BaseAddress         string `xml:"baseAddress"`

	AddressBlock []xmlAddressBlock `xml:"addressBlock"`
	Interrupt    []xmlInterrupt    `xml:"interrupt"`

	Registers xmlRegistersClusters `xml:"registers"`
}

type xmlAddressBlock struct {
	Offset     string `xml:"offset"`
	Size       string `xml:"size"`
	Usage      string `xml:"usage"`
	Protection string `xml:"protection"`
}

type xmlInterrupt struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Value       string `xml:"value"`
}

type xmlCluster struct {
	xmlDimElementGroup
	xmlRegisterPropertiesGroup
	xmlRegistersClusters

	DerivedFrom string `xml:"derivedFrom,attr"`

	Name             string `xml:"name"`
	Description      string `xml:"description"`
	AlternateCluster string `xml:"alternateCluster"`
	HeaderStructName string `xml:"headerStructName"`
	AddressOffset    string `xml:"addressOffset"`
}

type xmlRegister struct {
	xmlDimElementGroup
	xmlRegisterPropertiesGroup

	DerivedFrom string `xml:"derivedFrom,attr"`

	Name              string `xml:"name"`
	DisplayName       string `xml:"displayName"`
	Description       string `xml:"description"`
	AlternateGroup    string `xml:"alternateGroup"`
	AlternateRegister string `xml:"alternateRegister"`
	AddressOffset     string `xml:"addressOffset"`

	ModifiedWriteValues string               `xml:"modifiedWriteValues"`
	ReadAction          string               `xml:"readAction"`
	WriteConstraint     *xmlWriteConstraint  `xml:"writeConstraint"`

	Fields struct {
		Field []xmlField `xml:"field"`
	} `xml:"fields"`
}

type xmlWriteConstraint struct {
	WriteAsRead         string                  `xml:"writeAsRead"`
	UseEnumeratedValues string                  `xml:"useEnumeratedValues"`
	Range               *xmlWriteConstraintRange `xml:"range"`
}

type xmlWriteConstraintRange struct {
	Minimum string `xml:"minimum"`
	Maximum string `xml:"maximum"`
}

type xmlField struct {
	xmlDimElementGroup

	DerivedFrom string `xml:"derivedFrom,attr"`

	Name        string `xml:"name"`
	Description string `xml:"description"`

	LSB       string `xml:"lsb"`
	MSB       string `xml:"msb"`
	BitOffset string `xml:"bitOffset"`
	BitWidth  string `xml:"bitWidth"`
	BitRange  string `xml:"bitRange"`

	Access              string              `xml:"access"`
	ModifiedWriteValues string              `xml:"modifiedWriteValues"`
	ReadAction          string              `xml:"readAction"`
	WriteConstraint     *xmlWriteConstraint `xml:"writeConstraint"`

	EnumeratedValues []xmlEnumeratedValues `xml:"enumeratedValues"`
}

type xmlEnumeratedValues struct {
	DerivedFrom    string `xml:"derivedFrom,attr"`
	Name           string `xml:"name"`
	HeaderEnumName string `xml:"headerEnumName"`
	Usage          string `xml:"usage"`

	EnumeratedValue []xmlEnumeratedValue `xml:"enumeratedValue"`
}

type xmlEnumeratedValue struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Value       string `xml:"value"`
	IsDefault   string `xml:"isDefault"`
}
