package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svdkit/svdkit/pkg/model"
)

func TestAddRoot_StartsProcessed(t *testing.T) {
	g := New()
	root := g.AddRoot("Device", model.LevelDevice, nil)
	require.Equal(t, StatusProcessed, g.Node(root).Status)
}

func TestAddElementChild_EdgeKindFollowsParentStatus(t *testing.T) {
	g := New()
	root := g.AddRoot("Device", model.LevelDevice, nil)
	periph := g.AddElementChild(root, "GPIOA", model.LevelPeripheral, nil)
	require.True(t, g.HasIncomingEdgeOfKind(periph, EdgeChildResolved))

	reg := g.AddElementChild(periph, "CTRL", model.LevelRegister, nil)
	require.True(t, g.HasIncomingEdgeOfKind(reg, EdgeChildUnresolved))
	require.False(t, g.HasIncomingEdgeOfKind(reg, EdgeChildResolved))
}

func TestMarkProcessed_PromotesChildEdges(t *testing.T) {
	g := New()
	root := g.AddRoot("Device", model.LevelDevice, nil)
	periph := g.AddElementChild(root, "GPIOA", model.LevelPeripheral, nil)
	reg := g.AddElementChild(periph, "CTRL", model.LevelRegister, nil)
	require.True(t, g.HasIncomingEdgeOfKind(reg, EdgeChildUnresolved))

	require.NoError(t, g.MarkProcessed(periph, "processed-peripheral"))
	require.True(t, g.HasIncomingEdgeOfKind(reg, EdgeChildResolved))
	require.False(t, g.HasIncomingEdgeOfKind(reg, EdgeChildUnresolved))
}

func TestMarkProcessed_Twice(t *testing.T) {
	g := New()
	root := g.AddRoot("Device", model.LevelDevice, nil)
	require.ErrorIs(t, g.MarkProcessed(root, "x"), ErrNodeAlreadyProcessed)
}

func TestPlaceholderLifecycle(t *testing.T) {
	g := New()
	root := g.AddRoot("Device", model.LevelDevice, nil)
	base := g.AddElementChild(root, "GPIOA", model.LevelPeripheral, nil)
	derived := g.AddElementChild(root, "GPIOB", model.LevelPeripheral, nil)

	ph := g.AddPlaceholder("GPIOA", root, derived)
	require.Contains(t, g.Placeholders(), ph)

	coParent, ok := g.PlaceholderCoParent(ph)
	require.True(t, ok)
	require.Equal(t, root, coParent)

	child, ok := g.PlaceholderChild(ph)
	require.True(t, ok)
	require.Equal(t, derived, child)

	require.NoError(t, g.ResolvePlaceholder(ph, base))
	require.Empty(t, g.Placeholders())

	baseOf, ok := g.BaseElementNode(derived)
	require.True(t, ok)
	require.Equal(t, base, baseOf)
}

func TestAddDeriveEdge_RejectsSelfDerivation(t *testing.T) {
	g := New()
	root := g.AddRoot("Device", model.LevelDevice, nil)
	require.ErrorIs(t, g.AddDeriveEdge(root, root), ErrCycle)
}

func TestAddDeriveEdge_RejectsCycle(t *testing.T) {
	g := New()
	root := g.AddRoot("Device", model.LevelDevice, nil)
	a := g.AddElementChild(root, "A", model.LevelPeripheral, nil)
	b := g.AddElementChild(root, "B", model.LevelPeripheral, nil)
	c := g.AddElementChild(root, "C", model.LevelPeripheral, nil)

	require.NoError(t, g.AddDeriveEdge(a, b))
	require.NoError(t, g.AddDeriveEdge(b, c))
	require.ErrorIs(t, g.AddDeriveEdge(c, a), ErrCycle)
}

func TestTopologicalSort_DerivedLast(t *testing.T) {
	g := New()
	root := g.AddRoot("Device", model.LevelDevice, nil)
	a := g.AddElementChild(root, "Z", model.LevelPeripheral, nil)
	b := g.AddElementChild(root, "A", model.LevelPeripheral, nil)
	require.NoError(t, g.AddDeriveEdge(a, b))

	sorted := g.TopologicalSort([]ID{a, b})
	require.Equal(t, []ID{a, b}, sorted)
}

func TestTopologicalSort_LexicographicWithinGroup(t *testing.T) {
	g := New()
	root := g.AddRoot("Device", model.LevelDevice, nil)
	b := g.AddElementChild(root, "Bravo", model.LevelPeripheral, nil)
	a := g.AddElementChild(root, "Alpha", model.LevelPeripheral, nil)

	sorted := g.TopologicalSort([]ID{b, a})
	require.Equal(t, []ID{a, b}, sorted)
}

func TestBottomUp_LeavesFirstSkipsCallback(t *testing.T) {
	g := New()
	root := g.AddRoot("Device", model.LevelDevice, nil)
	periph := g.AddElementChild(root, "GPIOA", model.LevelPeripheral, nil)
	reg := g.AddElementChild(periph, "CTRL", model.LevelRegister, nil)
	_ = g.AddElementChild(reg, "EN", model.LevelField, nil)

	var visitedOrder []ID
	err := g.BottomUp([]ID{root}, func(id ID, children []ID) error {
		visitedOrder = append(visitedOrder, id)
		return nil
	})
	require.NoError(t, err)
	// the field itself is a true leaf and must not appear
	require.Equal(t, []ID{reg, periph, root}, visitedOrder)
}

func TestReplicateDescendants_ReanchorsInternalDeriveEdges(t *testing.T) {
	g := New()
	root := g.AddRoot("Device", model.LevelDevice, nil)
	template := g.AddElementChild(root, "GPIO", model.LevelPeripheral, nil)
	r1 := g.AddElementChild(template, "R1", model.LevelRegister, nil)
	r2 := g.AddElementChild(template, "R2", model.LevelRegister, nil)
	require.NoError(t, g.AddDeriveEdge(r1, r2))

	replica, mapping, err := g.ReplicateDescendants(template, root, EdgeChildResolved)
	require.NoError(t, err)
	require.NotEqual(t, template, replica)
	require.Contains(t, mapping, r1)
	require.Contains(t, mapping, r2)

	// the copy's internal derive edge must point within the copy...
	baseOfCopy, ok := g.BaseElementNode(mapping[r2])
	require.True(t, ok)
	require.Equal(t, mapping[r1], baseOfCopy)

	// ...and the original subtree's own derive edge is untouched.
	baseOfOrig, ok := g.BaseElementNode(r2)
	require.True(t, ok)
	require.Equal(t, r1, baseOfOrig)
}
