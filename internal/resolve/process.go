package resolve

import (
	"fmt"

	"github.com/svdkit/svdkit/internal/graph"
	"github.com/svdkit/svdkit/pkg/dim"
	"github.com/svdkit/svdkit/pkg/enumval"
	"github.com/svdkit/svdkit/pkg/model"
)

// resolveCtx carries the state shared by every node-processing step within
// one Resolve call.
type resolveCtx struct {
	g             *graph.Graph
	device        *model.Device
	deviceDefault concreteProps
	deviceRoot    graph.ID
	warnings      *[]Warning
}

// processNode runs the per-node processing step described in spec §4.6:
// merge parsed-with-optional-base into a processed node, expanding dim if
// present, and mark the node processed.
func (c *resolveCtx) processNode(id graph.ID) error {
	n := c.g.Node(id)
	switch n.Level {
	case model.LevelPeripheral:
		return c.processPeripheral(id)
	case model.LevelCluster:
		return c.processCluster(id)
	case model.LevelRegister:
		return c.processRegister(id)
	case model.LevelField:
		return c.processField(id)
	case model.LevelEnumContainer:
		return c.processEnumContainer(id)
	default:
		return fmt.Errorf("resolve: unexpected level %s for node %q", n.Level, n.Name)
	}
}

// nearestAncestorProps walks id's structural parents looking for the
// nearest already-processed Peripheral or Cluster, returning its resolved
// properties, or nil if none exists (own parent is the Device).
func (c *resolveCtx) nearestAncestorProps(id graph.ID) *concreteProps {
	for _, parent := range c.g.ElementParents(id) {
		pn := c.g.Node(parent)
		switch v := pn.Processed.(type) {
		case *model.ProcessedPeripheral:
			return &concreteProps{Size: v.Size, Access: v.Access, Protection: v.Protection, ResetValue: v.ResetValue, ResetMask: v.ResetMask}
		case *model.ProcessedCluster:
			return &concreteProps{Size: v.Size, Access: v.Access, Protection: v.Protection, ResetValue: v.ResetValue, ResetMask: v.ResetMask}
		}
		if pn.Level == model.LevelDevice {
			return nil
		}
	}
	return nil
}

func baseProps(processed any) *concreteProps {
	switch v := processed.(type) {
	case *model.ProcessedPeripheral:
		return &concreteProps{Size: v.Size, Access: v.Access, Protection: v.Protection, ResetValue: v.ResetValue, ResetMask: v.ResetMask}
	case *model.ProcessedCluster:
		return &concreteProps{Size: v.Size, Access: v.Access, Protection: v.Protection, ResetValue: v.ResetValue, ResetMask: v.ResetMask}
	case *model.ProcessedRegister:
		return &concreteProps{Size: v.Size, Access: v.Access, Protection: v.Protection, ResetValue: v.ResetValue, ResetMask: v.ResetMask}
	}
	return nil
}

// --- Peripheral ---

func (c *resolveCtx) processPeripheral(id graph.ID) error {
	n := c.g.Node(id)
	p := n.Parsed.(*model.Peripheral)

	var base *model.Peripheral
	var baseP *concreteProps
	if baseID, ok := c.g.BaseElementNode(id); ok {
		base = c.g.Node(baseID).Parsed.(*model.Peripheral)
		baseP = baseProps(c.g.Node(baseID).Processed)
	}

	props := resolveProperties(p.RegisterPropertiesGroup, baseP, nil, c.deviceDefault)

	processed := &model.ProcessedPeripheral{
		Name:          p.Name,
		Description:   stringOr(p.Description, baseDesc(base)),
		BaseAddress:   p.BaseAddress,
		Size:          props.Size,
		Access:        props.Access,
		Protection:    props.Protection,
		ResetValue:    props.ResetValue,
		ResetMask:     props.ResetMask,
		AddressBlocks: firstNonEmptyAB(p.AddressBlocks, baseAB(base)),
		Interrupts:    firstNonEmptyIRQ(p.Interrupts, baseIRQ(base)),
	}
	if p.Version != nil {
		processed.Version = *p.Version
	} else if base != nil && base.Version != nil {
		processed.Version = *base.Version
	}
	if p.GroupName != nil {
		processed.GroupName = *p.GroupName
	} else if base != nil && base.GroupName != nil {
		processed.GroupName = *base.GroupName
	}
	// headerStructName deliberately does not inherit (spec §4.6).

	if p.Dim != nil {
		if err := c.expandPeripheralDim(id, p); err != nil {
			return err
		}
	}
	return c.g.MarkProcessed(id, processed)
}

// expandPeripheralDim materialises one sibling Peripheral node per dim
// instance, each a full copy of the template's subtree with a substituted
// name/base address. The template node itself is flagged IsDimTemplate so
// finalize excludes it from its parent's child list (the replicas have the
// flag cleared), but it is still
// marked processed with its own fully resolved properties — a later
// derivedFrom may reference the template by name (spec's dim/derivedFrom
// interaction, Open Question (ii) in DESIGN.md).
func (c *resolveCtx) expandPeripheralDim(id graph.ID, p *model.Peripheral) error {
	instances, err := dim.Expand(model.LevelPeripheral, *p.Dim, derefInt(p.DimIncrement), p.DimIndex, p.Name, int(p.BaseAddress))
	if err != nil {
		return err
	}
	c.g.Node(id).IsDimTemplate = true
	parentID := firstParent(c.g, id)
	for _, inst := range instances {
		clone := *p
		clone.Name = inst.Name
		clone.BaseAddress = uint64(inst.Offset)
		clone.DimGroup = model.DimGroup{}
		replica, _, err := c.g.ReplicateDescendants(id, parentID, graph.EdgeChildResolved)
		if err != nil {
			return err
		}
		c.g.Node(replica).Parsed = &clone
		c.g.Node(replica).Name = inst.Name
		c.g.Node(replica).IsDimTemplate = false
	}
	return nil
}

// --- Cluster ---

func (c *resolveCtx) processCluster(id graph.ID) error {
	n := c.g.Node(id)
	cl := n.Parsed.(*model.Cluster)

	var base *model.Cluster
	var baseP *concreteProps
	if baseID, ok := c.g.BaseElementNode(id); ok {
		base = c.g.Node(baseID).Parsed.(*model.Cluster)
		baseP = baseProps(c.g.Node(baseID).Processed)
	}

	ancestor := c.nearestAncestorProps(id)
	props := resolveProperties(cl.RegisterPropertiesGroup, baseP, ancestor, c.deviceDefault)

	processed := &model.ProcessedCluster{
		Name:          cl.Name,
		Description:   stringOr(cl.Description, baseClusterDesc(base)),
		AddressOffset: cl.AddressOffset,
		Size:          props.Size,
		Access:        props.Access,
		Protection:    props.Protection,
		ResetValue:    props.ResetValue,
		ResetMask:     props.ResetMask,
	}
	if cl.HeaderStructName != nil {
		processed.HeaderStructName = *cl.HeaderStructName
	}

	if cl.Dim != nil {
		if err := c.expandClusterDim(id, cl); err != nil {
			return err
		}
	}
	return c.g.MarkProcessed(id, processed)
}

func (c *resolveCtx) expandClusterDim(id graph.ID, cl *model.Cluster) error {
	instances, err := dim.Expand(model.LevelCluster, *cl.Dim, derefInt(cl.DimIncrement), cl.DimIndex, cl.Name, cl.AddressOffset)
	if err != nil {
		return err
	}
	c.g.Node(id).IsDimTemplate = true
	parentID := firstParent(c.g, id)
	for _, inst := range instances {
		clone := *cl
		clone.Name = inst.Name
		clone.AddressOffset = inst.Offset
		clone.DimGroup = model.DimGroup{}
		replica, _, err := c.g.ReplicateDescendants(id, parentID, graph.EdgeChildResolved)
		if err != nil {
			return err
		}
		c.g.Node(replica).Parsed = &clone
		c.g.Node(replica).Name = inst.Name
		c.g.Node(replica).IsDimTemplate = false
	}
	return nil
}

// --- Register ---

func (c *resolveCtx) processRegister(id graph.ID) error {
	n := c.g.Node(id)
	r := n.Parsed.(*model.Register)

	var base *model.Register
	var baseP *concreteProps
	if baseID, ok := c.g.BaseElementNode(id); ok {
		base = c.g.Node(baseID).Parsed.(*model.Register)
		baseP = baseProps(c.g.Node(baseID).Processed)
	}

	ancestor := c.nearestAncestorProps(id)
	props := resolveProperties(r.RegisterPropertiesGroup, baseP, ancestor, c.deviceDefault)

	processed := &model.ProcessedRegister{
		Name:          r.Name,
		DisplayName:   r.DisplayName,
		Description:   stringOr(r.Description, baseRegisterDesc(base)),
		AddressOffset: r.AddressOffset,
		Size:          props.Size,
		Access:        props.Access,
		Protection:    props.Protection,
		ResetValue:    props.ResetValue,
		ResetMask:     props.ResetMask,
	}
	if r.AlternateGroup != nil {
		processed.AlternateGroup = *r.AlternateGroup
	}
	if r.AlternateRegister != nil {
		processed.AlternateRegister = *r.AlternateRegister
	}
	processed.ModifiedWriteValues = firstMWV(r.ModifiedWriteValues, baseMWV(base))
	processed.ReadAction = firstRA(r.ReadAction, baseRA(base))
	processed.WriteConstraint = firstWC(r.WriteConstraint, baseWC(base))

	if r.Dim != nil {
		if err := c.expandRegisterDim(id, r); err != nil {
			return err
		}
	}
	return c.g.MarkProcessed(id, processed)
}

func (c *resolveCtx) expandRegisterDim(id graph.ID, r *model.Register) error {
	instances, err := dim.Expand(model.LevelRegister, *r.Dim, derefInt(r.DimIncrement), r.DimIndex, r.Name, r.AddressOffset)
	if err != nil {
		return err
	}
	c.g.Node(id).IsDimTemplate = true
	parentID := firstParent(c.g, id)
	for _, inst := range instances {
		clone := *r
		clone.Name = inst.Name
		clone.AddressOffset = inst.Offset
		clone.DimGroup = model.DimGroup{}
		replica, _, err := c.g.ReplicateDescendants(id, parentID, graph.EdgeChildResolved)
		if err != nil {
			return err
		}
		c.g.Node(replica).Parsed = &clone
		c.g.Node(replica).Name = inst.Name
		c.g.Node(replica).IsDimTemplate = false
	}
	return nil
}

// --- Field ---

func (c *resolveCtx) processField(id graph.ID) error {
	n := c.g.Node(id)
	f := n.Parsed.(*model.Field)
	if f.Dim != nil {
		return fmt.Errorf("%w: field %q: %w", ErrDimMisconfiguration, f.Name, dim.ErrFieldDim)
	}

	var base *model.Field
	if baseID, ok := c.g.BaseElementNode(id); ok {
		base = c.g.Node(baseID).Parsed.(*model.Field)
	}

	lsb, msb, err := normalizeBitRange(f)
	if err != nil {
		if base == nil {
			return err
		}
		lsb, msb, err = normalizeBitRange(base)
		if err != nil {
			return err
		}
	}

	access := f.Access
	if access == nil && base != nil {
		access = base.Access
	}
	resolvedAccess := model.AccessReadWrite
	if access != nil {
		resolvedAccess = *access
	} else if pn := c.g.Node(firstParent(c.g, id)); pn != nil {
		if pr, ok := pn.Processed.(*model.ProcessedRegister); ok {
			resolvedAccess = pr.Access
		}
	}

	processed := &model.ProcessedField{
		Name:        f.Name,
		Description: stringOr(f.Description, baseFieldDesc(base)),
		LSB:         lsb,
		MSB:         msb,
		Access:      resolvedAccess,
	}
	processed.ModifiedWriteValues = firstMWV(f.ModifiedWriteValues, baseFieldMWV(base))
	processed.ReadAction = firstRA(f.ReadAction, baseFieldRA(base))
	processed.WriteConstraint = firstWC(f.WriteConstraint, baseFieldWC(base))

	return c.g.MarkProcessed(id, processed)
}

// normalizeBitRange resolves (lsb, msb) from whichever of the three SVD
// input forms is present: explicit lsb/msb, bitOffset/bitWidth, or the
// "[msb:lsb]" bitRange string.
func normalizeBitRange(f *model.Field) (lsb, msb int, err error) {
	switch {
	case f.LSB != nil && f.MSB != nil:
		return *f.LSB, *f.MSB, nil
	case f.BitOffset != nil && f.BitWidth != nil:
		return *f.BitOffset, *f.BitOffset + *f.BitWidth - 1, nil
	case f.BitRange != nil:
		var m, l int
		if _, scanErr := fmt.Sscanf(*f.BitRange, "[%d:%d]", &m, &l); scanErr != nil {
			return 0, 0, fmt.Errorf("resolve: malformed bitRange %q: %w", *f.BitRange, scanErr)
		}
		return l, m, nil
	default:
		return 0, 0, fmt.Errorf("resolve: field %q has no bit-range form", f.Name)
	}
}

// --- EnumeratedValueContainer ---

func (c *resolveCtx) processEnumContainer(id graph.ID) error {
	n := c.g.Node(id)
	ec := n.Parsed.(*model.EnumeratedValueContainer)

	if baseID, ok := c.g.BaseElementNode(id); ok {
		baseValues, _ := c.g.Node(baseID).Processed.([]model.ProcessedEnumValue)
		return c.g.MarkProcessed(id, append([]model.ProcessedEnumValue(nil), baseValues...))
	}

	values, err := enumval.Expand(ec.EnumeratedValues)
	if err != nil {
		return err
	}
	return c.g.MarkProcessed(id, values)
}

// --- small helpers ---

func firstParent(g *graph.Graph, id graph.ID) graph.ID {
	parents := g.ElementParents(id)
	if len(parents) == 0 {
		return 0
	}
	return parents[0]
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func stringOr(own, fallback string) string {
	if own != "" {
		return own
	}
	return fallback
}

func baseDesc(p *model.Peripheral) string {
	if p == nil {
		return ""
	}
	return p.Description
}
func baseClusterDesc(c *model.Cluster) string {
	if c == nil {
		return ""
	}
	return c.Description
}
func baseRegisterDesc(r *model.Register) string {
	if r == nil {
		return ""
	}
	return r.Description
}
func baseFieldDesc(f *model.Field) string {
	if f == nil {
		return ""
	}
	return f.Description
}

func baseAB(p *model.Peripheral) []model.AddressBlock {
	if p == nil {
		return nil
	}
	return p.AddressBlocks
}
func baseIRQ(p *model.Peripheral) []model.Interrupt {
	if p == nil {
		return nil
	}
	return p.Interrupts
}
func firstNonEmptyAB(own, fallback []model.AddressBlock) []model.AddressBlock {
	if len(own) > 0 {
		return own
	}
	return fallback
}

// firstNonEmptyIRQ implements "replace-if-declared, inherit-if-none" for a
// peripheral's interrupt list (DESIGN.md's reading of spec §4.6 for a
// list-valued inherited property).
func firstNonEmptyIRQ(own, fallback []model.Interrupt) []model.Interrupt {
	if len(own) > 0 {
		return own
	}
	return fallback
}

func firstMWV(own *model.ModifiedWriteValues, fallback *model.ModifiedWriteValues) *model.ModifiedWriteValues {
	if own != nil {
		return own
	}
	return fallback
}
func firstRA(own *model.ReadAction, fallback *model.ReadAction) *model.ReadAction {
	if own != nil {
		return own
	}
	return fallback
}
func firstWC(own *model.WriteConstraint, fallback *model.WriteConstraint) *model.WriteConstraint {
	if own != nil {
		return own
	}
	return fallback
}
func baseMWV(r *model.Register) *model.ModifiedWriteValues {
	if r == nil {
		return nil
	}
	return r.ModifiedWriteValues
}
func baseRA(r *model.Register) *model.ReadAction {
	if r == nil {
		return nil
	}
	return r.ReadAction
}
func baseWC(r *model.Register) *model.WriteConstraint {
	if r == nil {
		return nil
	}
	return r.WriteConstraint
}
func baseFieldMWV(f *model.Field) *model.ModifiedWriteValues {
	if f == nil {
		return nil
	}
	return f.ModifiedWriteValues
}
func baseFieldRA(f *model.Field) *model.ReadAction {
	if f == nil {
		return nil
	}
	return f.ReadAction
}
func baseFieldWC(f *model.Field) *model.WriteConstraint {
	if f == nil {
		return nil
	}
	return f.WriteConstraint
}
