package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/svdkit/svdkit/pkg/model"
)

// ErrCycle is returned when adding a Derive edge would close a cycle.
var ErrCycle = errors.New("graph: inheritance cycle")

// ErrNodeAlreadyProcessed is returned by MarkProcessed on a node that has
// already transitioned to Processed.
var ErrNodeAlreadyProcessed = errors.New("graph: node already processed")

// Graph is a directed graph of Element and Placeholder nodes. It is not
// safe for concurrent use; each resolve call owns one Graph.
type Graph struct {
	nodes  map[ID]*Node
	out    map[ID][]edge
	in     map[ID][]edge
	nextID ID
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[ID]*Node),
		out:   make(map[ID][]edge),
		in:    make(map[ID][]edge),
	}
}

func (g *Graph) alloc() ID {
	g.nextID++
	return g.nextID
}

// Node returns the node with the given ID, or nil if it does not exist.
func (g *Graph) Node(id ID) *Node {
	return g.nodes[id]
}

// AddRoot creates the Device root node, marked Processed immediately —
// children attach to it with ChildResolved edges from the start, since the
// device has nothing of its own to wait on (original_source/resolve/
// graph_builder.py: construct_directed_graph creates the root PROCESSED).
func (g *Graph) AddRoot(name string, level model.Level, parsed any) ID {
	id := g.alloc()
	g.nodes[id] = &Node{
		ID:     id,
		Kind:   KindElement,
		Name:   name,
		Level:  level,
		Status: StatusProcessed,
		Parsed: parsed,
	}
	return id
}

// AddElementChild adds an unprocessed Element node and connects it to
// parentID with a structural edge, whose kind depends on the parent's
// current status: ChildResolved if the parent is already Processed,
// ChildUnresolved otherwise.
func (g *Graph) AddElementChild(parentID ID, name string, level model.Level, parsed any) ID {
	id := g.alloc()
	g.nodes[id] = &Node{
		ID:     id,
		Kind:   KindElement,
		Name:   name,
		Level:  level,
		Status: StatusUnprocessed,
		Parsed: parsed,
	}
	kind := EdgeChildUnresolved
	if parent := g.nodes[parentID]; parent != nil && parent.Status == StatusProcessed {
		kind = EdgeChildResolved
	}
	g.connect(parentID, id, kind)
	return id
}

// AddPlaceholder creates a Placeholder node standing in for derivePath,
// anchored so the resolver can wait until coParentID is processed: an
// EdgePlaceholder edge runs placeholder->derivingChildID, and another
// coParentID->placeholder.
func (g *Graph) AddPlaceholder(derivePath string, coParentID, derivingChildID ID) ID {
	id := g.alloc()
	g.nodes[id] = &Node{
		ID:         id,
		Kind:       KindPlaceholder,
		DerivePath: derivePath,
	}
	g.connect(id, derivingChildID, EdgePlaceholder)
	g.connect(coParentID, id, EdgePlaceholder)
	return id
}

// ResolvePlaceholder removes placeholderID and replaces it with a Derive
// edge from baseID to the node that was deriving from it.
func (g *Graph) ResolvePlaceholder(placeholderID, baseID ID) error {
	derivingChild, ok := g.PlaceholderChild(placeholderID)
	if !ok {
		return fmt.Errorf("graph: placeholder %d has no deriving child", placeholderID)
	}
	g.RemoveNode(placeholderID)
	return g.AddDeriveEdge(baseID, derivingChild)
}

// AddDeriveEdge adds a base->derived Derive edge. It refuses to create a
// cycle: acyclicity is enforced on Derive edges only.
func (g *Graph) AddDeriveEdge(baseID, derivedID ID) error {
	if baseID == derivedID {
		return fmt.Errorf("%w: node derives from itself", ErrCycle)
	}
	if g.deriveReaches(derivedID, baseID) {
		return ErrCycle
	}
	g.connect(baseID, derivedID, EdgeDerive)
	return nil
}

// deriveReaches reports whether from can reach to by following Derive
// edges forward.
func (g *Graph) deriveReaches(from, to ID) bool {
	visited := map[ID]bool{from: true}
	stack := []ID{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == to {
			return true
		}
		for _, e := range g.out[n] {
			if e.kind != EdgeDerive || visited[e.to] {
				continue
			}
			visited[e.to] = true
			stack = append(stack, e.to)
		}
	}
	return false
}

func (g *Graph) connect(from, to ID, kind EdgeKind) {
	g.out[from] = append(g.out[from], edge{to: to, kind: kind})
	g.in[to] = append(g.in[to], edge{to: from, kind: kind})
}

// RemoveNode deletes a node and every edge touching it.
func (g *Graph) RemoveNode(id ID) {
	for _, e := range g.out[id] {
		g.in[e.to] = removeEdgeTo(g.in[e.to], id)
	}
	for _, e := range g.in[id] {
		g.out[e.to] = removeEdgeTo(g.out[e.to], id)
	}
	delete(g.out, id)
	delete(g.in, id)
	delete(g.nodes, id)
}

// RemoveEdge deletes one specific edge, if present.
func (g *Graph) RemoveEdge(from, to ID, kind EdgeKind) {
	g.out[from] = removeEdgeMatching(g.out[from], to, kind)
	g.in[to] = removeEdgeMatching(g.in[to], from, kind)
}

func removeEdgeTo(edges []edge, id ID) []edge {
	out := edges[:0]
	for _, e := range edges {
		if e.to != id {
			out = append(out, e)
		}
	}
	return out
}

func removeEdgeMatching(edges []edge, to ID, kind EdgeKind) []edge {
	out := edges[:0]
	for _, e := range edges {
		if !(e.to == to && e.kind == kind) {
			out = append(out, e)
		}
	}
	return out
}

// MarkProcessed sets a node's processed value, flips its status to
// Processed, and promotes every outgoing ChildUnresolved edge (to its
// children) to ChildResolved.
func (g *Graph) MarkProcessed(id ID, processed any) error {
	n := g.nodes[id]
	if n == nil {
		return fmt.Errorf("graph: unknown node %d", id)
	}
	if n.Status == StatusProcessed {
		return ErrNodeAlreadyProcessed
	}
	n.Processed = processed
	n.Status = StatusProcessed

	for i, e := range g.out[id] {
		if e.kind != EdgeChildUnresolved {
			continue
		}
		g.out[id][i].kind = EdgeChildResolved
		for j, back := range g.in[e.to] {
			if back.to == id && back.kind == EdgeChildUnresolved {
				g.in[e.to][j].kind = EdgeChildResolved
			}
		}
	}
	return nil
}

// HasIncomingEdgeOfKind reports whether id has at least one inbound edge
// of the given kind.
func (g *Graph) HasIncomingEdgeOfKind(id ID, kind EdgeKind) bool {
	for _, e := range g.in[id] {
		if e.kind == kind {
			return true
		}
	}
	return false
}

// Placeholders returns every Placeholder node's ID.
func (g *Graph) Placeholders() []ID {
	var out []ID
	for id, n := range g.nodes {
		if n.Kind == KindPlaceholder {
			out = append(out, id)
		}
	}
	sortIDs(out)
	return out
}

// PlaceholderCoParent returns the node anchoring placeholderID — the
// source of the inbound EdgePlaceholder edge.
func (g *Graph) PlaceholderCoParent(placeholderID ID) (ID, bool) {
	for _, e := range g.in[placeholderID] {
		if e.kind == EdgePlaceholder {
			return e.to, true
		}
	}
	return 0, false
}

// PlaceholderChild returns the node deriving from placeholderID — the
// target of the outbound EdgePlaceholder edge.
func (g *Graph) PlaceholderChild(placeholderID ID) (ID, bool) {
	for _, e := range g.out[placeholderID] {
		if e.kind == EdgePlaceholder {
			return e.to, true
		}
	}
	return 0, false
}

// ElementParents returns the nodes with a structural (ChildUnresolved or
// ChildResolved) edge to id.
func (g *Graph) ElementParents(id ID) []ID {
	var out []ID
	for _, e := range g.in[id] {
		if e.kind.IsChildEdge() {
			out = append(out, e.to)
		}
	}
	return out
}

// ElementChildren returns the nodes with a structural edge from id.
func (g *Graph) ElementChildren(id ID) []ID {
	var out []ID
	for _, e := range g.out[id] {
		if e.kind.IsChildEdge() {
			out = append(out, e.to)
		}
	}
	return out
}

// ElementSiblings returns id's parents' other structural children,
// excluding id itself.
func (g *Graph) ElementSiblings(id ID) []ID {
	seen := map[ID]bool{id: true}
	var out []ID
	for _, parent := range g.ElementParents(id) {
		for _, child := range g.ElementChildren(parent) {
			if !seen[child] {
				seen[child] = true
				out = append(out, child)
			}
		}
	}
	return out
}

// BaseElementNode returns the node derivedID derives from — the source of
// its inbound Derive edge.
func (g *Graph) BaseElementNode(derivedID ID) (ID, bool) {
	for _, e := range g.in[derivedID] {
		if e.kind == EdgeDerive {
			return e.to, true
		}
	}
	return 0, false
}

// DerivedNodes returns the nodes that derive from baseID directly — the
// targets of baseID's outgoing Derive edges.
func (g *Graph) DerivedNodes(baseID ID) []ID {
	var out []ID
	for _, e := range g.out[baseID] {
		if e.kind == EdgeDerive {
			out = append(out, e.to)
		}
	}
	return out
}

// UnprocessedRootNodes returns nodes that are themselves unprocessed but
// have an inbound ChildResolved edge — i.e. their parent is already
// processed. These are the DFS roots for processable-node selection.
func (g *Graph) UnprocessedRootNodes() []ID {
	var out []ID
	for id, n := range g.nodes {
		if n.Kind != KindElement || n.Status != StatusUnprocessed {
			continue
		}
		if g.HasIncomingEdgeOfKind(id, EdgeChildResolved) {
			out = append(out, id)
		}
	}
	sortIDs(out)
	return out
}

// UnprocessedNodes returns every Element node not yet processed.
func (g *Graph) UnprocessedNodes() []ID {
	var out []ID
	for id, n := range g.nodes {
		if n.Kind == KindElement && n.Status == StatusUnprocessed {
			out = append(out, id)
		}
	}
	sortIDs(out)
	return out
}

// TopologicalSort orders ids with the "derived last" tiebreaker: a node
// with an inbound Derive edge sorts after one without, and nodes within
// the same group sort lexicographically by name. This mirrors the
// reference resolver's ordering exactly — it is a heuristic sort, not a
// full dependency-respecting topological sort, and is only safe because
// the round loop never selects a derived node as processable before its
// base has an existing Derive edge pointing at it.
func (g *Graph) TopologicalSort(ids []ID) []ID {
	out := make([]ID, len(ids))
	copy(out, ids)
	sort.SliceStable(out, func(i, j int) bool {
		ni, nj := g.nodes[out[i]], g.nodes[out[j]]
		di := g.HasIncomingEdgeOfKind(out[i], EdgeDerive)
		dj := g.HasIncomingEdgeOfKind(out[j], EdgeDerive)
		if di != dj {
			return !di // non-derived first
		}
		return ni.Name < nj.Name
	})
	return out
}

func sortIDs(ids []ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// BottomUp visits every node reachable from roots via structural edges,
// leaves first. visit is invoked once per internal node (one with at
// least one structural child) with its direct children's IDs already
// visited; true leaves are skipped, matching the reference graph's
// bottom_up_node_traversal.
func (g *Graph) BottomUp(roots []ID, visit func(id ID, children []ID) error) error {
	discovered := map[ID]bool{}
	var stack []ID
	stack = append(stack, roots...)
	for _, r := range roots {
		discovered[r] = true
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range g.ElementChildren(n) {
			if !discovered[c] {
				discovered[c] = true
				stack = append(stack, c)
			}
		}
	}

	remaining := make(map[ID]int, len(discovered))
	childrenOf := make(map[ID][]ID, len(discovered))
	for id := range discovered {
		kids := g.ElementChildren(id)
		childrenOf[id] = kids
		remaining[id] = len(kids)
	}

	var queue []ID
	for id, n := range remaining {
		if n == 0 {
			queue = append(queue, id)
		}
	}
	sortIDs(queue)

	processed := map[ID]bool{}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if processed[id] {
			continue
		}
		processed[id] = true

		if len(childrenOf[id]) > 0 {
			if err := visit(id, childrenOf[id]); err != nil {
				return err
			}
		}

		for _, parent := range g.ElementParents(id) {
			if !discovered[parent] {
				continue
			}
			remaining[parent]--
			if remaining[parent] == 0 {
				queue = append(queue, parent)
			}
		}
	}
	return nil
}

// ReplicateDescendants copies sourceID's non-Derive-reachable subtree into
// fresh nodes, then attaches the replica of sourceID to parentID with
// attachKind. Any Derive edge whose derived endpoint lies within the
// copied subtree is re-anchored onto the corresponding replica — if its
// base also lies within the subtree, the replica edge runs
// replica(base)->replica(derived), so an internal derivedFrom chain stays
// internally consistent in the copy; otherwise it runs
// base->replica(derived), pointing the copy at the same external base the
// original used. The original subtree and its edges are left untouched.
// It returns the replica's ID and the original->replica ID mapping.
func (g *Graph) ReplicateDescendants(sourceID, parentID ID, attachKind EdgeKind) (ID, map[ID]ID, error) {
	visited := map[ID]bool{sourceID: true}
	order := []ID{sourceID}
	stack := []ID{sourceID}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range g.out[n] {
			if e.kind == EdgeDerive || visited[e.to] {
				continue
			}
			visited[e.to] = true
			order = append(order, e.to)
			stack = append(stack, e.to)
		}
	}

	mapping := make(map[ID]ID, len(order))
	for _, orig := range order {
		src := g.nodes[orig]
		id := g.alloc()
		cp := *src
		cp.ID = id
		g.nodes[id] = &cp
		mapping[orig] = id
	}

	for _, orig := range order {
		for _, e := range g.out[orig] {
			if e.kind == EdgeDerive {
				continue
			}
			if to, ok := mapping[e.to]; ok {
				g.connect(mapping[orig], to, e.kind)
			}
		}
	}

	for _, orig := range order {
		for _, e := range g.in[orig] {
			if e.kind != EdgeDerive {
				continue
			}
			base := e.to
			if replicaBase, ok := mapping[base]; ok {
				base = replicaBase
			}
			g.connect(base, mapping[orig], EdgeDerive)
		}
	}

	replicaRoot := mapping[sourceID]
	g.connect(parentID, replicaRoot, attachKind)
	return replicaRoot, mapping, nil
}
