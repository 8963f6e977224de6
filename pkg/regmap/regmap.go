// Package regmap builds a flat, address-sorted register map from a fully
// resolved device tree: one entry per addressable register, with its
// absolute address already folded in from the containing peripheral's
// base address and any enclosing clusters' offsets. Grounded exactly on
// original_source/map.py's PeripheralRegisterMap, with the iterative,
// explicit-stack walking discipline of the teacher's hive/walker package
// in place of map.py's recursion.
package regmap

import (
	"errors"
	"fmt"
	"sort"

	"github.com/svdkit/svdkit/pkg/model"
)

// ErrNoAddressBlocks is returned for a peripheral with no declared address
// blocks, mirroring map.py's own ValueError for the same condition.
var ErrNoAddressBlocks = errors.New("regmap: peripheral has no address blocks")

// Register is one flattened, absolutely addressed register.
type Register struct {
	Address       uint64
	Peripheral    string
	Path          string
	Name          string
	DisplayName   string
	Description   string
	Size          int
	Access        model.Access
	Protection    model.Protection
	ResetValue    uint64
	ResetMask     uint64
	Fields        []model.ProcessedField
}

// Peripheral is one peripheral's flattened register list plus its
// allocated address range, equivalent to map.py's MapPeripheral.
type Peripheral struct {
	Name            string
	Description     string
	Address         uint64
	AllocatedBegin  uint64
	AllocatedEnd    uint64
	Registers       []Register
}

// Build walks every peripheral in dev and returns its address-sorted
// register map.
func Build(dev *model.ProcessedDevice) ([]Peripheral, error) {
	out := make([]Peripheral, 0, len(dev.Peripherals))
	for _, p := range dev.Peripherals {
		mp, err := buildPeripheral(&p)
		if err != nil {
			return nil, err
		}
		out = append(out, *mp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}

func buildPeripheral(p *model.ProcessedPeripheral) (*Peripheral, error) {
	begin, end, err := allocatedRange(p.BaseAddress, p.AddressBlocks)
	if err != nil {
		return nil, fmt.Errorf("regmap: peripheral %q: %w", p.Name, err)
	}

	mp := &Peripheral{
		Name:           p.Name,
		Description:    p.Description,
		Address:        p.BaseAddress,
		AllocatedBegin: begin,
		AllocatedEnd:   end,
	}

	// Explicit work-stack walk (container address, node) rather than
	// recursion, matching hive/walker's traversal discipline.
	type work struct {
		containerAddr uint64
		reg           *model.ProcessedRegister
		cluster       *model.ProcessedCluster
		path          string
	}
	var stack []work
	for i := range p.Registers {
		stack = append(stack, work{containerAddr: p.BaseAddress, reg: &p.Registers[i], path: p.Name})
	}
	for i := range p.Clusters {
		stack = append(stack, work{containerAddr: p.BaseAddress, cluster: &p.Clusters[i], path: p.Name})
	}

	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if w.reg != nil {
			mp.Registers = append(mp.Registers, buildRegister(p.Name, w.path, w.containerAddr, w.reg))
			continue
		}

		clAddr := w.containerAddr + uint64(w.cluster.AddressOffset)
		clPath := w.path + "." + w.cluster.Name
		for i := range w.cluster.Registers {
			stack = append(stack, work{containerAddr: clAddr, reg: &w.cluster.Registers[i], path: clPath})
		}
		for i := range w.cluster.Clusters {
			stack = append(stack, work{containerAddr: clAddr, cluster: &w.cluster.Clusters[i], path: clPath})
		}
	}

	sort.Slice(mp.Registers, func(i, j int) bool { return mp.Registers[i].Address < mp.Registers[j].Address })
	return mp, nil
}

func buildRegister(peripheral, containerPath string, containerAddr uint64, r *model.ProcessedRegister) Register {
	return Register{
		Address:     containerAddr + uint64(r.AddressOffset),
		Peripheral:  peripheral,
		Path:        containerPath + "." + r.Name,
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Description: r.Description,
		Size:        r.Size,
		Access:      r.Access,
		Protection:  r.Protection,
		ResetValue:  r.ResetValue,
		ResetMask:   r.ResetMask,
		Fields:      r.Fields,
	}
}

func allocatedRange(base uint64, blocks []model.AddressBlock) (begin, end uint64, err error) {
	if len(blocks) == 0 {
		return 0, 0, ErrNoAddressBlocks
	}
	sorted := append([]model.AddressBlock(nil), blocks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	begin = base + uint64(sorted[0].Offset)
	last := sorted[len(sorted)-1]
	end = base + uint64(last.Offset) + uint64(last.Size) - 1
	return begin, end, nil
}
