package svdxml

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/svdkit/svdkit/pkg/diag"
	"github.com/svdkit/svdkit/pkg/model"
)

// Decode reads a CMSIS-SVD document from r and returns its parsed tree.
// Legacy access tokens ("read"/"write") are accepted and recorded as
// warnings on report rather than rejected, matching spec.md §6. Decode is
// svdkit's only path from XML bytes to the parsed model.Device tree.
func Decode(r io.Reader, report *diag.Report) (*model.Device, error) {
	var raw xmlDevice
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("svdxml: decode: %w", err)
	}
	d := &dec2{report: report}
	return d.device(&raw)
}

// dec2 carries the report a Decode call accumulates warnings into;
// unexported so callers only ever see the Decode/Encode entry points.
type dec2 struct {
	report *diag.Report
}

func (d *dec2) warn(kind diag.Kind, path, msg string) {
	if d.report == nil {
		return
	}
	d.report.Addf(diag.SeverityWarning, kind, path, msg)
}

func (d *dec2) device(x *xmlDevice) (*model.Device, error) {
	dev := &model.Device{
		SchemaVersion: x.SchemaVersion,
		Vendor:        nilIfEmpty(x.Vendor),
		VendorID:      nilIfEmpty(x.VendorID),
		Name:          x.Name,
		Series:        nilIfEmpty(x.Series),
		Version:       x.Version,
		Description:   x.Description,
		LicenseText:   nilIfEmpty(x.LicenseText),
		HeaderSystemFilename:    nilIfEmpty(x.HeaderSystemFilename),
		HeaderDefinitionsPrefix: nilIfEmpty(x.HeaderDefinitionsPrefix),
	}

	aub, err := parseInt(orDefault(x.AddressUnitBits, "8"))
	if err != nil {
		return nil, fmt.Errorf("svdxml: device addressUnitBits: %w", err)
	}
	dev.AddressUnitBits = aub

	width, err := parseInt(x.Width)
	if err != nil {
		return nil, fmt.Errorf("svdxml: device width: %w", err)
	}
	dev.Width = width

	if err := d.registerProperties(&dev.RegisterPropertiesGroup, x.xmlRegisterPropertiesGroup, "device"); err != nil {
		return nil, err
	}

	if x.CPU != nil {
		cpu, err := d.cpu(x.CPU)
		if err != nil {
			return nil, err
		}
		dev.CPU = cpu
	}

	for i := range x.Peripherals.Peripheral {
		p, err := d.peripheral(&x.Peripherals.Peripheral[i])
		if err != nil {
			return nil, err
		}
		dev.Peripherals = append(dev.Peripherals, *p)
	}
	return dev, nil
}

func (d *dec2) cpu(x *xmlCPU) (*model.CPU, error) {
	c := &model.CPU{
		Name:     model.CPUName(x.Name),
		Revision: x.Revision,
		Endian:   model.Endian(x.Endian),
	}
	var err error
	if c.MPUPresent, err = optBool(x.MPUPresent); err != nil {
		return nil, err
	}
	if c.FPUPresent, err = optBool(x.FPUPresent); err != nil {
		return nil, err
	}
	if c.FPUDP, err = optBool(x.FPUDP); err != nil {
		return nil, err
	}
	if c.DSPPresent, err = optBool(x.DSPPresent); err != nil {
		return nil, err
	}
	if c.ICachePresent, err = optBool(x.ICachePresent); err != nil {
		return nil, err
	}
	if c.DCachePresent, err = optBool(x.DCachePresent); err != nil {
		return nil, err
	}
	if c.ITCMPresent, err = optBool(x.ITCMPresent); err != nil {
		return nil, err
	}
	if c.DTCMPresent, err = optBool(x.DTCMPresent); err != nil {
		return nil, err
	}
	if c.VTORPresent, err = optBool(x.VTORPresent); err != nil {
		return nil, err
	}

	prio, err := parseInt(x.NVICPrioBits)
	if err != nil {
		return nil, fmt.Errorf("svdxml: cpu nvicPrioBits: %w", err)
	}
	c.NVICPrioBits = prio

	sys, err := parseBool(x.VendorSystickConfig)
	if err != nil {
		return nil, fmt.Errorf("svdxml: cpu vendorSystickConfig: %w", err)
	}
	c.VendorSystickConfig = sys

	if c.DeviceNumInterrupts, err = optInt(x.DeviceNumInterrupts); err != nil {
		return nil, err
	}
	if c.SauNumRegions, err = optInt(x.SauNumRegions); err != nil {
		return nil, err
	}
	if x.SauRegionsConfig != nil {
		cfg, err := d.sauConfig(x.SauRegionsConfig)
		if err != nil {
			return nil, err
		}
		c.SauRegionsConfig = cfg
	}
	return c, nil
}

func (d *dec2) sauConfig(x *xmlSauRegionsConfig) (*model.SauRegionsConfig, error) {
	cfg := &model.SauRegionsConfig{}
	var err error
	if cfg.Enabled, err = optBool(x.Enabled); err != nil {
		return nil, err
	}
	if x.ProtectionWhenDisabled != "" {
		prot, err := parseProtection(x.ProtectionWhenDisabled)
		if err != nil {
			return nil, err
		}
		cfg.ProtectionWhenDisabled = &prot
	}
	for _, r := range x.Region {
		region := model.SauRegion{Name: nilIfEmpty(r.Name)}
		if region.Enabled, err = optBool(r.Enabled); err != nil {
			return nil, err
		}
		base, err := parseUint(r.Base)
		if err != nil {
			return nil, fmt.Errorf("svdxml: sauRegion base: %w", err)
		}
		limit, err := parseUint(r.Limit)
		if err != nil {
			return nil, fmt.Errorf("svdxml: sauRegion limit: %w", err)
		}
		region.Base, region.Limit = base, limit
		region.Access = model.SauAccess(r.Access)
		cfg.Regions = append(cfg.Regions, region)
	}
	return cfg, nil
}

func (d *dec2) registerProperties(out *model.RegisterPropertiesGroup, x xmlRegisterPropertiesGroup, path string) error {
	var err error
	if out.Size, err = optInt(x.Size); err != nil {
		return fmt.Errorf("svdxml: %s size: %w", path, err)
	}
	if x.Access != "" {
		access, legacy, err := parseAccess(x.Access)
		if err != nil {
			return fmt.Errorf("svdxml: %s access: %w", path, err)
		}
		if legacy {
			d.warn(diag.KindLegacyAccessToken, path, fmt.Sprintf("legacy access token %q", x.Access))
		}
		out.Access = &access
	}
	if x.Protection != "" {
		prot, err := parseProtection(x.Protection)
		if err != nil {
			return fmt.Errorf("svdxml: %s protection: %w", path, err)
		}
		out.Protection = &prot
	}
	if out.ResetValue, err = optUint(x.ResetValue); err != nil {
		return fmt.Errorf("svdxml: %s resetValue: %w", path, err)
	}
	if out.ResetMask, err = optUint(x.ResetMask); err != nil {
		return fmt.Errorf("svdxml: %s resetMask: %w", path, err)
	}
	return nil
}

func (d *dec2) dimGroup(out *model.DimGroup, x xmlDimElementGroup) error {
	var err error
	if out.Dim, err = optInt(x.Dim); err != nil {
		return err
	}
	if out.DimIncrement, err = optInt(x.DimIncrement); err != nil {
		return err
	}
	out.DimIndex = nilIfEmpty(x.DimIndex)
	out.DimName = nilIfEmpty(x.DimName)
	return nil
}

func (d *dec2) peripheral(x *xmlPeripheral) (*model.Peripheral, error) {
	p := &model.Peripheral{
		Name:                x.Name,
		Version:             nilIfEmpty(x.Version),
		Description:         x.Description,
		AlternatePeripheral: nilIfEmpty(x.AlternatePeripheral),
		GroupName:           nilIfEmpty(x.GroupName),
		PrependToName:       nilIfEmpty(x.PrependToName),
		AppendToName:        nilIfEmpty(x.AppendToName),
		HeaderStructName:    nilIfEmpty(x.HeaderStructName),
		DisableCondition:    nilIfEmpty(x.DisableCondition),
		DerivedFrom:         nilIfEmpty(x.DerivedFrom),
	}
	if err := d.dimGroup(&p.DimGroup, x.xmlDimElementGroup); err != nil {
		return nil, fmt.Errorf("svdxml: peripheral %q dim: %w", x.Name, err)
	}
	if err := d.registerProperties(&p.RegisterPropertiesGroup, x.xmlRegisterPropertiesGroup, "peripheral "+x.Name); err != nil {
		return nil, err
	}
	base, err := parseUint(x.BaseAddress)
	if err != nil {
		return nil, fmt.Errorf("svdxml: peripheral %q baseAddress: %w", x.Name, err)
	}
	p.BaseAddress = base

	for i := range x.AddressBlock {
		block, err := d.addressBlock(&x.AddressBlock[i])
		if err != nil {
			return nil, err
		}
		p.AddressBlocks = append(p.AddressBlocks, *block)
	}
	for i := range x.Interrupt {
		irq, err := d.interrupt(&x.Interrupt[i])
		if err != nil {
			return nil, err
		}
		p.Interrupts = append(p.Interrupts, *irq)
	}
	rc, err := d.registersClusters(x.Registers)
	if err != nil {
		return nil, err
	}
	p.RegistersClusters = rc
	return p, nil
}

func (d *dec2) addressBlock(x *xmlAddressBlock) (*model.AddressBlock, error) {
	off, err := parseInt(x.Offset)
	if err != nil {
		return nil, fmt.Errorf("svdxml: addressBlock offset: %w", err)
	}
	size, err := parseInt(x.Size)
	if err != nil {
		return nil, fmt.Errorf("svdxml: addressBlock size: %w", err)
	}
	ab := &model.AddressBlock{Offset: off, Size: size, Usage: model.AddressBlockUsage(x.Usage)}
	if x.Protection != "" {
		prot, err := parseProtection(x.Protection)
		if err != nil {
			return nil, err
		}
		ab.Protection = &prot
	}
	return ab, nil
}

func (d *dec2) interrupt(x *xmlInterrupt) (*model.Interrupt, error) {
	v, err := parseInt(x.Value)
	if err != nil {
		return nil, fmt.Errorf("svdxml: interrupt %q value: %w", x.Name, err)
	}
	return &model.Interrupt{Name: x.Name, Description: x.Description, Value: v}, nil
}

// registersClusters decodes the registersClusters union (CMSIS-SVD
// interleaves <register> and <cluster> children freely). encoding/xml has
// no ordered-choice construct, so xmlRegistersClusters decodes the two
// kinds into separate slices and this merges them registers-first,
// clusters-second; relative document order between the two kinds carries
// no semantic weight since internal/resolve's finalize pass re-sorts every
// register/cluster list by address offset before it reaches a caller.
func (d *dec2) registersClusters(x xmlRegistersClusters) ([]model.RegisterOrCluster, error) {
	out := make([]model.RegisterOrCluster, 0, len(x.Register)+len(x.Cluster))
	for i := range x.Register {
		r, err := d.register(&x.Register[i])
		if err != nil {
			return nil, err
		}
		out = append(out, model.RegisterOrCluster{Register: r})
	}
	for i := range x.Cluster {
		c, err := d.cluster(&x.Cluster[i])
		if err != nil {
			return nil, err
		}
		out = append(out, model.RegisterOrCluster{Cluster: c})
	}
	return out, nil
}

func (d *dec2) cluster(x *xmlCluster) (*model.Cluster, error) {
	cl := &model.Cluster{
		Name:             x.Name,
		Description:      x.Description,
		AlternateCluster: nilIfEmpty(x.AlternateCluster),
		HeaderStructName: nilIfEmpty(x.HeaderStructName),
		DerivedFrom:      nilIfEmpty(x.DerivedFrom),
	}
	if err := d.dimGroup(&cl.DimGroup, x.xmlDimElementGroup); err != nil {
		return nil, fmt.Errorf("svdxml: cluster %q dim: %w", x.Name, err)
	}
	if err := d.registerProperties(&cl.RegisterPropertiesGroup, x.xmlRegisterPropertiesGroup, "cluster "+x.Name); err != nil {
		return nil, err
	}
	off, err := parseInt(x.AddressOffset)
	if err != nil {
		return nil, fmt.Errorf("svdxml: cluster %q addressOffset: %w", x.Name, err)
	}
	cl.AddressOffset = off

	rc, err := d.registersClusters(x.xmlRegistersClusters)
	if err != nil {
		return nil, err
	}
	cl.RegistersClusters = rc
	return cl, nil
}

func (d *dec2) register(x *xmlRegister) (*model.Register, error) {
	r := &model.Register{
		Name:              x.Name,
		DisplayName:       x.DisplayName,
		Description:       x.Description,
		AlternateGroup:    nilIfEmpty(x.AlternateGroup),
		AlternateRegister: nilIfEmpty(x.AlternateRegister),
		DerivedFrom:       nilIfEmpty(x.DerivedFrom),
	}
	if err := d.dimGroup(&r.DimGroup, x.xmlDimElementGroup); err != nil {
		return nil, fmt.Errorf("svdxml: register %q dim: %w", x.Name, err)
	}
	if err := d.registerProperties(&r.RegisterPropertiesGroup, x.xmlRegisterPropertiesGroup, "register "+x.Name); err != nil {
		return nil, err
	}
	off, err := parseInt(x.AddressOffset)
	if err != nil {
		return nil, fmt.Errorf("svdxml: register %q addressOffset: %w", x.Name, err)
	}
	r.AddressOffset = off

	if x.ModifiedWriteValues != "" {
		mwv := model.ModifiedWriteValues(x.ModifiedWriteValues)
		r.ModifiedWriteValues = &mwv
	}
	if x.ReadAction != "" {
		ra := model.ReadAction(x.ReadAction)
		r.ReadAction = &ra
	}
	if x.WriteConstraint != nil {
		wc, err := d.writeConstraint(x.WriteConstraint)
		if err != nil {
			return nil, err
		}
		r.WriteConstraint = wc
	}

	for i := range x.Fields.Field {
		f, err := d.field(&x.Fields.Field[i])
		if err != nil {
			return nil, err
		}
		r.Fields = append(r.Fields, *f)
	}
	return r, nil
}

func (d *dec2) writeConstraint(x *xmlWriteConstraint) (*model.WriteConstraint, error) {
	wc := &model.WriteConstraint{}
	var err error
	if wc.WriteAsRead, err = optBool(x.WriteAsRead); err != nil {
		return nil, err
	}
	if wc.UseEnumeratedValues, err = optBool(x.UseEnumeratedValues); err != nil {
		return nil, err
	}
	if x.Range != nil {
		lo, err := parseUint(x.Range.Minimum)
		if err != nil {
			return nil, fmt.Errorf("svdxml: writeConstraint range minimum: %w", err)
		}
		hi, err := parseUint(x.Range.Maximum)
		if err != nil {
			return nil, fmt.Errorf("svdxml: writeConstraint range maximum: %w", err)
		}
		wc.RangeMin, wc.RangeMax = &lo, &hi
	}
	return wc, nil
}

func (d *dec2) field(x *xmlField) (*model.Field, error) {
	f := &model.Field{
		Name:        x.Name,
		Description: x.Description,
		DerivedFrom: nilIfEmpty(x.DerivedFrom),
	}
	if err := d.dimGroup(&f.DimGroup, x.xmlDimElementGroup); err != nil {
		return nil, fmt.Errorf("svdxml: field %q dim: %w", x.Name, err)
	}
	var err error
	if f.LSB, err = optInt(x.LSB); err != nil {
		return nil, err
	}
	if f.MSB, err = optInt(x.MSB); err != nil {
		return nil, err
	}
	if f.BitOffset, err = optInt(x.BitOffset); err != nil {
		return nil, err
	}
	if f.BitWidth, err = optInt(x.BitWidth); err != nil {
		return nil, err
	}
	f.BitRange = nilIfEmpty(x.BitRange)

	if x.Access != "" {
		access, legacy, err := parseAccess(x.Access)
		if err != nil {
			return nil, fmt.Errorf("svdxml: field %q access: %w", x.Name, err)
		}
		if legacy {
			d.warn(diag.KindLegacyAccessToken, "field "+x.Name, fmt.Sprintf("legacy access token %q", x.Access))
		}
		f.Access = &access
	}
	if x.ModifiedWriteValues != "" {
		mwv := model.ModifiedWriteValues(x.ModifiedWriteValues)
		f.ModifiedWriteValues = &mwv
	}
	if x.ReadAction != "" {
		ra := model.ReadAction(x.ReadAction)
		f.ReadAction = &ra
	}
	if x.WriteConstraint != nil {
		wc, err := d.writeConstraint(x.WriteConstraint)
		if err != nil {
			return nil, err
		}
		f.WriteConstraint = wc
	}

	for i := range x.EnumeratedValues {
		c, err := d.enumContainer(&x.EnumeratedValues[i])
		if err != nil {
			return nil, err
		}
		f.EnumeratedValueContainers = append(f.EnumeratedValueContainers, *c)
	}
	return f, nil
}

func (d *dec2) enumContainer(x *xmlEnumeratedValues) (*model.EnumeratedValueContainer, error) {
	c := &model.EnumeratedValueContainer{
		Name:           nilIfEmpty(x.Name),
		HeaderEnumName: nilIfEmpty(x.HeaderEnumName),
		DerivedFrom:    nilIfEmpty(x.DerivedFrom),
	}
	if x.Usage != "" {
		usage := model.Usage(x.Usage)
		c.Usage = &usage
	}
	for _, ev := range x.EnumeratedValue {
		v, err := d.enumValue(&ev)
		if err != nil {
			return nil, err
		}
		c.EnumeratedValues = append(c.EnumeratedValues, *v)
	}
	return c, nil
}

func (d *dec2) enumValue(x *xmlEnumeratedValue) (*model.EnumeratedValue, error) {
	v := &model.EnumeratedValue{Name: x.Name, Description: x.Description, Value: nilIfEmpty(x.Value)}
	isDefault, err := optBool(x.IsDefault)
	if err != nil {
		return nil, err
	}
	v.IsDefault = isDefault
	return v, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func optInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := parseInt(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optUint(s string) (*uint64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := parseUint(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optBool(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	v, err := parseBool(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
