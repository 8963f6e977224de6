package svdxml

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/svdkit/svdkit/pkg/model"
)

// Encode serializes a fully resolved device back to CMSIS-SVD XML with
// stable element ordering (registers/clusters/fields already sorted by
// internal/resolve's finalize pass carry straight through unchanged).
// Grounded on the teacher's hive/printer package: one emit function per
// output concern, rather than a single opaque Marshal call, so each level
// of the tree controls its own element order independently of Go struct
// field order.
func Encode(w io.Writer, dev *model.ProcessedDevice) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("svdxml: encode: %w", err)
	}

	out := encodeDevice(dev)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("svdxml: encode: %w", err)
	}
	return enc.Flush()
}

type outDevice struct {
	XMLName         xml.Name       `xml:"device"`
	SchemaVersion   string         `xml:"schemaVersion,attr"`
	Vendor          string         `xml:"vendor,omitempty"`
	VendorID        string         `xml:"vendorID,omitempty"`
	Name            string         `xml:"name"`
	Series          string         `xml:"series,omitempty"`
	Version         string         `xml:"version"`
	Description     string         `xml:"description"`
	LicenseText     string         `xml:"licenseText,omitempty"`
	AddressUnitBits int            `xml:"addressUnitBits"`
	Width           int            `xml:"width"`
	Size            int            `xml:"size"`
	Access          string         `xml:"access"`
	Peripherals     outPeripherals `xml:"peripherals"`
}

type outPeripherals struct {
	Peripheral []outPeripheral `xml:"peripheral"`
}

type outPeripheral struct {
	Name        string        `xml:"name"`
	Version     string        `xml:"version,omitempty"`
	Description string        `xml:"description,omitempty"`
	GroupName   string        `xml:"groupName,omitempty"`
	BaseAddress string        `xml:"baseAddress"`
	Size        int           `xml:"size"`
	Access      string        `xml:"access"`
	AddressBlock []outAddressBlock `xml:"addressBlock,omitempty"`
	Interrupt   []outInterrupt `xml:"interrupt,omitempty"`
	Registers   outRegisters  `xml:"registers"`
}

type outAddressBlock struct {
	Offset string `xml:"offset"`
	Size   string `xml:"size"`
	Usage  string `xml:"usage"`
}

type outInterrupt struct {
	Name        string `xml:"name"`
	Description string `xml:"description,omitempty"`
	Value       int    `xml:"value"`
}

type outRegisters struct {
	Register []outRegister `xml:"register,omitempty"`
	Cluster  []outCluster  `xml:"cluster,omitempty"`
}

type outCluster struct {
	Name          string       `xml:"name"`
	Description   string       `xml:"description,omitempty"`
	AddressOffset string       `xml:"addressOffset"`
	Size          int          `xml:"size"`
	Access        string       `xml:"access"`
	Register      []outRegister `xml:"register,omitempty"`
	Cluster       []outCluster  `xml:"cluster,omitempty"`
}

type outRegister struct {
	Name          string     `xml:"name"`
	DisplayName   string     `xml:"displayName,omitempty"`
	Description   string     `xml:"description,omitempty"`
	AddressOffset string     `xml:"addressOffset"`
	Size          int        `xml:"size"`
	Access        string     `xml:"access"`
	ResetValue    string     `xml:"resetValue"`
	ResetMask     string     `xml:"resetMask"`
	Fields        outFields  `xml:"fields"`
}

type outFields struct {
	Field []outField `xml:"field,omitempty"`
}

type outField struct {
	Name        string `xml:"name"`
	Description string `xml:"description,omitempty"`
	LSB         int    `xml:"lsb"`
	MSB         int    `xml:"msb"`
	Access      string `xml:"access"`
}

func encodeDevice(d *model.ProcessedDevice) outDevice {
	out := outDevice{
		SchemaVersion:   "1.3.11",
		Vendor:          d.Vendor,
		VendorID:        d.VendorID,
		Name:            d.Name,
		Series:          d.Series,
		Version:         d.Version,
		Description:     d.Description,
		LicenseText:     d.LicenseText,
		AddressUnitBits: d.AddressUnitBits,
		Width:           d.Width,
	}
	for _, p := range d.Peripherals {
		out.Peripherals.Peripheral = append(out.Peripherals.Peripheral, encodePeripheral(p))
	}
	return out
}

func encodePeripheral(p model.ProcessedPeripheral) outPeripheral {
	out := outPeripheral{
		Name:        p.Name,
		Version:     p.Version,
		Description: p.Description,
		GroupName:   p.GroupName,
		BaseAddress: hexString(p.BaseAddress),
		Size:        p.Size,
		Access:      string(p.Access),
	}
	for _, ab := range p.AddressBlocks {
		out.AddressBlock = append(out.AddressBlock, outAddressBlock{
			Offset: hexString(uint64(ab.Offset)),
			Size:   hexString(uint64(ab.Size)),
			Usage:  string(ab.Usage),
		})
	}
	for _, irq := range p.Interrupts {
		out.Interrupt = append(out.Interrupt, outInterrupt{Name: irq.Name, Description: irq.Description, Value: irq.Value})
	}
	for _, r := range p.Registers {
		out.Registers.Register = append(out.Registers.Register, encodeRegister(r))
	}
	for _, c := range p.Clusters {
		out.Registers.Cluster = append(out.Registers.Cluster, encodeCluster(c))
	}
	return out
}

func encodeCluster(c model.ProcessedCluster) outCluster {
	out := outCluster{
		Name:          c.Name,
		Description:   c.Description,
		AddressOffset: hexString(uint64(c.AddressOffset)),
		Size:          c.Size,
		Access:        string(c.Access),
	}
	for _, r := range c.Registers {
		out.Register = append(out.Register, encodeRegister(r))
	}
	for _, ch := range c.Clusters {
		out.Cluster = append(out.Cluster, encodeCluster(ch))
	}
	return out
}

func encodeRegister(r model.ProcessedRegister) outRegister {
	out := outRegister{
		Name:          r.Name,
		DisplayName:   r.DisplayName,
		Description:   r.Description,
		AddressOffset: hexString(uint64(r.AddressOffset)),
		Size:          r.Size,
		Access:        string(r.Access),
		ResetValue:    hexString(r.ResetValue),
		ResetMask:     hexString(r.ResetMask),
	}
	for _, f := range r.Fields {
		out.Fields.Field = append(out.Fields.Field, outField{
			Name:        f.Name,
			Description: f.Description,
			LSB:         f.LSB,
			MSB:         f.MSB,
			Access:      string(f.Access),
		})
	}
	return out
}

func hexString(v uint64) string {
	return fmt.Sprintf("0x%X", v)
}
