package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svdkit/svdkit/pkg/model"
)

func strp(s string) *string { return &s }

func TestBuild_MirrorsParsedTreeAndPlaceholders(t *testing.T) {
	device := &model.Device{
		Name: "TestDevice",
		Peripherals: []model.Peripheral{
			{
				Name: "GPIOA",
				RegistersClusters: []model.RegisterOrCluster{
					{Register: &model.Register{Name: "CTRL"}},
				},
			},
			{
				Name:        "GPIOB",
				DerivedFrom: strp("GPIOA"),
			},
		},
	}

	g, root := Build(device)
	require.Equal(t, StatusProcessed, g.Node(root).Status)

	children := g.ElementChildren(root)
	require.Len(t, children, 2)

	placeholders := g.Placeholders()
	require.Len(t, placeholders, 1)
	require.Equal(t, "GPIOA", g.Node(placeholders[0]).DerivePath)

	coParent, ok := g.PlaceholderCoParent(placeholders[0])
	require.True(t, ok)
	require.Equal(t, root, coParent)
}
