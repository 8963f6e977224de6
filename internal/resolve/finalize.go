package resolve

import (
	"fmt"
	"sort"

	"github.com/svdkit/svdkit/internal/graph"
	"github.com/svdkit/svdkit/pkg/enumval"
	"github.com/svdkit/svdkit/pkg/model"
)

// finalize runs the closing pass (spec §4.6's closing step): for every
// internal node, collect its already-processed children (skipping dim
// templates), sort them, fold field/enum/register overlays, and recompute
// effective size as MAX(own, inherited, max child). It must run only after
// every Element node in the graph has been marked processed.
//
// Ordering follows two dependencies at once: a node after its structural
// children (bottom-up), and a node after its Derive base, if any — a
// derived register's field-overlay and a derived peripheral's register-
// overlay both read their base's already-finalized Fields/Registers list,
// which a purely structural bottom-up order does not guarantee when base
// and derived are unrelated siblings. resolvePath (internal/resolve/path.go)
// excludes only the deriving node itself, so a node may derive from its own
// structural ancestor; the two dependency sets then wait on each other, and
// finalize returns ErrResolveCycle for the nodes it could not order.
func (c *resolveCtx) finalize() (*model.ProcessedDevice, error) {
	g := c.g
	roots := g.ElementChildren(c.deviceRoot)

	discovered := map[graph.ID]bool{}
	var stack []graph.ID
	stack = append(stack, roots...)
	for _, r := range roots {
		discovered[r] = true
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, ch := range g.ElementChildren(n) {
			if !discovered[ch] {
				discovered[ch] = true
				stack = append(stack, ch)
			}
		}
	}

	remaining := make(map[graph.ID]int, len(discovered))
	childrenOf := make(map[graph.ID][]graph.ID, len(discovered))
	for id := range discovered {
		kids := g.ElementChildren(id)
		childrenOf[id] = kids
		count := len(kids)
		if _, ok := g.BaseElementNode(id); ok {
			count++
		}
		remaining[id] = count
	}

	var queue []graph.ID
	for id, n := range remaining {
		if n == 0 {
			queue = append(queue, id)
		}
	}
	sort.Slice(queue, func(i, j int) bool { return queue[i] < queue[j] })

	visited := map[graph.ID]bool{}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		n := g.Node(id)
		var err error
		switch n.Level {
		case model.LevelRegister:
			err = c.finalizeRegister(id, childrenOf[id])
		case model.LevelCluster:
			err = c.finalizeCluster(id, childrenOf[id])
		case model.LevelPeripheral:
			err = c.finalizePeripheral(id, childrenOf[id])
		case model.LevelField:
			err = c.finalizeField(id, childrenOf[id])
		}
		if err != nil {
			return nil, err
		}

		for _, parent := range g.ElementParents(id) {
			if discovered[parent] {
				remaining[parent]--
				if remaining[parent] == 0 {
					queue = append(queue, parent)
				}
			}
		}
		for _, derived := range g.DerivedNodes(id) {
			if discovered[derived] {
				remaining[derived]--
				if remaining[derived] == 0 {
					queue = append(queue, derived)
				}
			}
		}
	}
	if len(visited) != len(discovered) {
		return nil, fmt.Errorf("%w: %d node(s) could not be finalized", ErrResolveCycle, len(discovered)-len(visited))
	}
	return c.finalizeDevice(roots)
}

// liveChildren returns children excluding dim templates, in graph order.
func (c *resolveCtx) liveChildren(children []graph.ID) []graph.ID {
	out := make([]graph.ID, 0, len(children))
	for _, id := range children {
		if c.g.Node(id).IsDimTemplate {
			continue
		}
		out = append(out, id)
	}
	return out
}

func (c *resolveCtx) finalizeField(id graph.ID, children []graph.ID) error {
	n := c.g.Node(id)
	pf := n.Processed.(*model.ProcessedField)
	parsed := n.Parsed.(*model.Field)

	live := c.liveChildren(children)
	if len(live) == 0 {
		if baseID, ok := c.g.BaseElementNode(id); ok {
			pf.EnumContainers = c.g.Node(baseID).Processed.(*model.ProcessedField).EnumContainers
		}
		return nil
	}
	if err := enumval.CheckUsageCombination(parsed.EnumeratedValueContainers); err != nil {
		return fmt.Errorf("resolve: field %q: %w", pf.Name, err)
	}

	containers := make([]model.ProcessedEnumContainer, 0, len(live))
	for i, childID := range live {
		childNode := c.g.Node(childID)
		values, _ := childNode.Processed.([]model.ProcessedEnumValue)
		meta := parsed.EnumeratedValueContainers[i]
		pc := model.ProcessedEnumContainer{Values: values}
		if meta.Name != nil {
			pc.Name = *meta.Name
		}
		if meta.HeaderEnumName != nil {
			pc.HeaderEnumName = *meta.HeaderEnumName
		}
		if meta.Usage != nil {
			pc.Usage = *meta.Usage
		} else {
			pc.Usage = model.UsageReadWrite
		}
		containers = append(containers, pc)
	}
	pf.EnumContainers = containers
	return nil
}

func (c *resolveCtx) finalizeRegister(id graph.ID, children []graph.ID) error {
	n := c.g.Node(id)
	pr := n.Processed.(*model.ProcessedRegister)

	live := c.liveChildren(children)
	own := make([]model.ProcessedField, 0, len(live))
	for _, childID := range live {
		own = append(own, *c.g.Node(childID).Processed.(*model.ProcessedField))
	}

	var baseFields []model.ProcessedField
	if baseID, ok := c.g.BaseElementNode(id); ok {
		baseFields = c.g.Node(baseID).Processed.(*model.ProcessedRegister).Fields
	}

	merged, err := mergeFieldOverlay(own, baseFields)
	if err != nil {
		return fmt.Errorf("resolve: register %q: %w", pr.Name, err)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].LSB != merged[j].LSB {
			return merged[i].LSB < merged[j].LSB
		}
		return merged[i].Name < merged[j].Name
	})
	pr.Fields = merged

	maxBit := -1
	for _, f := range merged {
		if f.MSB > maxBit {
			maxBit = f.MSB
		}
	}
	if maxBit+1 > pr.Size {
		pr.Size = maxBit + 1
	}
	return nil
}

// mergeFieldOverlay implements the bit-range overlay (spec §4.6): own
// fields replace any base field whose bit range overlaps one of them;
// non-overlapping base fields are merged in unchanged. Two own fields
// overlapping each other is always an error.
func mergeFieldOverlay(own, base []model.ProcessedField) ([]model.ProcessedField, error) {
	for i := range own {
		for j := i + 1; j < len(own); j++ {
			if rangesOverlap(own[i].LSB, own[i].MSB, own[j].LSB, own[j].MSB) {
				return nil, fmt.Errorf("%w: %q and %q", ErrFieldOverlap, own[i].Name, own[j].Name)
			}
		}
	}
	if len(base) == 0 {
		return own, nil
	}

	out := make([]model.ProcessedField, 0, len(own)+len(base))
	out = append(out, own...)
	for _, b := range base {
		overlapped := false
		for _, o := range own {
			if rangesOverlap(b.LSB, b.MSB, o.LSB, o.MSB) {
				overlapped = true
				break
			}
		}
		if !overlapped {
			out = append(out, b)
		}
	}
	return out, nil
}

func rangesOverlap(lsb1, msb1, lsb2, msb2 int) bool {
	return lsb1 <= msb2 && lsb2 <= msb1
}

func (c *resolveCtx) finalizeCluster(id graph.ID, children []graph.ID) error {
	n := c.g.Node(id)
	pc := n.Processed.(*model.ProcessedCluster)

	regs, clusters := c.collectRegistersClusters(c.liveChildren(children))

	if baseID, ok := c.g.BaseElementNode(id); ok {
		base := c.g.Node(baseID).Processed.(*model.ProcessedCluster)
		merged, err := mergeRegisterOverlay(regs, base.Registers)
		if err != nil {
			return fmt.Errorf("resolve: cluster %q: %w", pc.Name, err)
		}
		regs = merged
		clusters = mergeClusterOverlay(clusters, base.Clusters)
	}

	sortRegisters(regs)
	sortClusters(clusters)
	pc.Registers = regs
	pc.Clusters = clusters
	pc.Size = maxChildSize(pc.Size, regs, clusters)
	return nil
}

func (c *resolveCtx) finalizePeripheral(id graph.ID, children []graph.ID) error {
	n := c.g.Node(id)
	pp := n.Processed.(*model.ProcessedPeripheral)

	regs, clusters := c.collectRegistersClusters(c.liveChildren(children))

	if baseID, ok := c.g.BaseElementNode(id); ok {
		base := c.g.Node(baseID).Processed.(*model.ProcessedPeripheral)
		merged, err := mergeRegisterOverlay(regs, base.Registers)
		if err != nil {
			return fmt.Errorf("resolve: peripheral %q: %w", pp.Name, err)
		}
		regs = merged
		clusters = mergeClusterOverlay(clusters, base.Clusters)
	}

	sortRegisters(regs)
	sortClusters(clusters)
	pp.Registers = regs
	pp.Clusters = clusters
	pp.Size = maxChildSize(pp.Size, regs, clusters)
	return nil
}

// maxChildSize widens own to the largest size declared by any live
// register or cluster child, mirroring finalizeRegister's own-vs-widest-
// field bump one level up the tree (spec §4.4's bottom-up size pass applies
// to every internal node, not registers alone).
func maxChildSize(own int, regs []model.ProcessedRegister, clusters []model.ProcessedCluster) int {
	for _, r := range regs {
		if r.Size > own {
			own = r.Size
		}
	}
	for _, cl := range clusters {
		if cl.Size > own {
			own = cl.Size
		}
	}
	return own
}

func (c *resolveCtx) collectRegistersClusters(live []graph.ID) (regs []model.ProcessedRegister, clusters []model.ProcessedCluster) {
	for _, childID := range live {
		switch v := c.g.Node(childID).Processed.(type) {
		case *model.ProcessedRegister:
			regs = append(regs, *v)
		case *model.ProcessedCluster:
			clusters = append(clusters, *v)
		}
	}
	return regs, clusters
}

func sortRegisters(regs []model.ProcessedRegister) {
	sort.Slice(regs, func(i, j int) bool {
		if regs[i].AddressOffset != regs[j].AddressOffset {
			return regs[i].AddressOffset < regs[j].AddressOffset
		}
		return regs[i].Name < regs[j].Name
	})
}

func sortClusters(clusters []model.ProcessedCluster) {
	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].AddressOffset != clusters[j].AddressOffset {
			return clusters[i].AddressOffset < clusters[j].AddressOffset
		}
		return clusters[i].Name < clusters[j].Name
	})
}

// mergeRegisterOverlay folds a peripheral's or cluster's own registers with
// its derivedFrom base's already-finalized ones: an own register replaces
// any base register whose byte range it overlaps; non-overlapping base
// registers merge in unchanged. Two own registers overlapping each other
// is an error unless both declare an alternateRegister.
func mergeRegisterOverlay(own, base []model.ProcessedRegister) ([]model.ProcessedRegister, error) {
	for i := range own {
		for j := i + 1; j < len(own); j++ {
			if !registersOverlap(own[i], own[j]) {
				continue
			}
			if own[i].AlternateRegister != "" && own[j].AlternateRegister != "" {
				continue
			}
			return nil, fmt.Errorf("%w: %q and %q", ErrRegisterOverlap, own[i].Name, own[j].Name)
		}
	}
	if len(base) == 0 {
		return own, nil
	}
	out := append([]model.ProcessedRegister(nil), own...)
	for _, b := range base {
		overlapped := false
		for _, o := range own {
			if registersOverlap(b, o) {
				overlapped = true
				break
			}
		}
		if !overlapped {
			out = append(out, b)
		}
	}
	return out, nil
}

func registersOverlap(a, b model.ProcessedRegister) bool {
	aEnd := a.AddressOffset + registerByteSize(a.Size) - 1
	bEnd := b.AddressOffset + registerByteSize(b.Size) - 1
	return a.AddressOffset <= bEnd && b.AddressOffset <= aEnd
}

func registerByteSize(bits int) int {
	if bits <= 0 {
		return 4
	}
	return (bits + 7) / 8
}

// mergeClusterOverlay folds own clusters with the base's already-finalized
// ones, keyed by address offset: an own cluster at the same offset as a
// base cluster replaces it outright (clusters are compound, unlike
// registers a byte-range overlap check would be misleading), distinct
// offsets merge in unchanged.
func mergeClusterOverlay(own, base []model.ProcessedCluster) []model.ProcessedCluster {
	if len(base) == 0 {
		return own
	}
	ownOffsets := make(map[int]bool, len(own))
	for _, o := range own {
		ownOffsets[o.AddressOffset] = true
	}
	out := append([]model.ProcessedCluster(nil), own...)
	for _, b := range base {
		if !ownOffsets[b.AddressOffset] {
			out = append(out, b)
		}
	}
	return out
}

func (c *resolveCtx) finalizeDevice(roots []graph.ID) (*model.ProcessedDevice, error) {
	live := c.liveChildren(roots)
	peripherals := make([]model.ProcessedPeripheral, 0, len(live))
	for _, id := range live {
		peripherals = append(peripherals, *c.g.Node(id).Processed.(*model.ProcessedPeripheral))
	}
	sort.Slice(peripherals, func(i, j int) bool {
		if peripherals[i].BaseAddress != peripherals[j].BaseAddress {
			return peripherals[i].BaseAddress < peripherals[j].BaseAddress
		}
		return peripherals[i].Name < peripherals[j].Name
	})

	dev := c.device
	pd := &model.ProcessedDevice{
		Name:            dev.Name,
		Version:         dev.Version,
		Description:     dev.Description,
		AddressUnitBits: dev.AddressUnitBits,
		Width:           dev.Width,
		Peripherals:     peripherals,
	}
	if dev.Vendor != nil {
		pd.Vendor = *dev.Vendor
	}
	if dev.VendorID != nil {
		pd.VendorID = *dev.VendorID
	}
	if dev.Series != nil {
		pd.Series = *dev.Series
	}
	if dev.LicenseText != nil {
		pd.LicenseText = *dev.LicenseText
	}
	if dev.CPU != nil {
		pd.CPU = finalizeCPU(dev.CPU)
	}
	return pd, nil
}

func finalizeCPU(cpu *model.CPU) *model.ProcessedCPU {
	pc := &model.ProcessedCPU{
		Name:         cpu.Name,
		Revision:     cpu.Revision,
		Endian:       cpu.Endian,
		NVICPrioBits: cpu.NVICPrioBits,
		VendorSystickConfig: cpu.VendorSystickConfig,
	}
	if cpu.MPUPresent != nil {
		pc.MPUPresent = *cpu.MPUPresent
	}
	if cpu.FPUPresent != nil {
		pc.FPUPresent = *cpu.FPUPresent
	}
	if cpu.FPUDP != nil {
		pc.FPUDP = *cpu.FPUDP
	}
	if cpu.DSPPresent != nil {
		pc.DSPPresent = *cpu.DSPPresent
	}
	if cpu.ICachePresent != nil {
		pc.ICachePresent = *cpu.ICachePresent
	}
	if cpu.DCachePresent != nil {
		pc.DCachePresent = *cpu.DCachePresent
	}
	if cpu.ITCMPresent != nil {
		pc.ITCMPresent = *cpu.ITCMPresent
	}
	if cpu.DTCMPresent != nil {
		pc.DTCMPresent = *cpu.DTCMPresent
	}
	if cpu.VTORPresent != nil {
		pc.VTORPresent = *cpu.VTORPresent
	}
	if cpu.DeviceNumInterrupts != nil {
		pc.DeviceNumInterrupts = *cpu.DeviceNumInterrupts
	}
	if cpu.SauNumRegions != nil {
		pc.SauNumRegions = *cpu.SauNumRegions
	}
	if cpu.SauRegionsConfig != nil {
		pc.SauRegionsEnabled = cpu.SauRegionsConfig.Enabled != nil && *cpu.SauRegionsConfig.Enabled
		for _, r := range cpu.SauRegionsConfig.Regions {
			pr := model.ProcessedSauRegion{
				Base:   r.Base,
				Limit:  r.Limit,
				Access: r.Access,
			}
			if r.Enabled != nil {
				pr.Enabled = *r.Enabled
			}
			if r.Name != nil {
				pr.Name = *r.Name
			}
			pc.SauRegions = append(pc.SauRegions, pr)
		}
	}
	return pc
}
