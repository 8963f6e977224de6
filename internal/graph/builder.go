package graph

import "github.com/svdkit/svdkit/pkg/model"

// Build constructs the initial derivation graph from a parsed device: one
// Element node per parsed node, plus a Placeholder for every derivedFrom
// attribute encountered (original_source/resolve/graph_builder.py). No dim
// expansion and no derivation resolution happens here — both are the
// resolver's job, round by round.
func Build(device *model.Device) (*Graph, ID) {
	g := New()
	root := g.AddRoot(device.Name, model.LevelDevice, device)

	for i := range device.Peripherals {
		p := &device.Peripherals[i]
		id := g.AddElementChild(root, p.Name, model.LevelPeripheral, p)
		addPlaceholderIfDerived(g, root, id, p.DerivedFrom)
		buildRegistersClusters(g, id, p.RegistersClusters)
	}

	return g, root
}

func buildRegistersClusters(g *Graph, parentID ID, items []model.RegisterOrCluster) {
	for i := range items {
		item := &items[i]
		switch {
		case item.Register != nil:
			r := item.Register
			id := g.AddElementChild(parentID, r.Name, model.LevelRegister, r)
			addPlaceholderIfDerived(g, parentID, id, r.DerivedFrom)
			buildFields(g, id, r.Fields)
		case item.Cluster != nil:
			c := item.Cluster
			id := g.AddElementChild(parentID, c.Name, model.LevelCluster, c)
			addPlaceholderIfDerived(g, parentID, id, c.DerivedFrom)
			buildRegistersClusters(g, id, c.RegistersClusters)
		}
	}
}

func buildFields(g *Graph, parentID ID, fields []model.Field) {
	for i := range fields {
		f := &fields[i]
		id := g.AddElementChild(parentID, f.Name, model.LevelField, f)
		addPlaceholderIfDerived(g, parentID, id, f.DerivedFrom)
		buildEnumContainers(g, id, f.EnumeratedValueContainers)
	}
}

func buildEnumContainers(g *Graph, parentID ID, containers []model.EnumeratedValueContainer) {
	for i := range containers {
		c := &containers[i]
		name := ""
		if c.Name != nil {
			name = *c.Name
		}
		id := g.AddElementChild(parentID, name, model.LevelEnumContainer, c)
		addPlaceholderIfDerived(g, parentID, id, c.DerivedFrom)
	}
}

// addPlaceholderIfDerived adds a Placeholder for derivedFrom, anchored to
// coParentID — the node whose children (the deriving node's siblings)
// must be fully structural before a sibling-first search can run.
func addPlaceholderIfDerived(g *Graph, coParentID, derivingID ID, derivedFrom *string) {
	if derivedFrom == nil {
		return
	}
	g.AddPlaceholder(*derivedFrom, coParentID, derivingID)
}
