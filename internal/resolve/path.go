package resolve

import (
	"fmt"
	"strings"

	"github.com/svdkit/svdkit/internal/graph"
	"github.com/svdkit/svdkit/pkg/model"
)

// resolvePath searches for derivingID's derivedFrom target: first among
// derivingID's siblings (recursing into matching path components, level by
// level), then, if nothing matched, from the device's peripherals as
// roots. Matching explicitly excludes derivingID itself. Uniqueness is
// strict: more than one match anywhere is fatal. Zero matches returns
// found=false — "not yet found", retriable in a later round (spec §4.5).
func resolvePath(g *graph.Graph, deviceRoot, derivingID graph.ID, path string) (target graph.ID, found bool, err error) {
	components := strings.Split(path, ".")
	targetLevel := g.Node(derivingID).Level

	var matches []graph.ID

	for _, sib := range g.ElementSiblings(derivingID) {
		m, err := matchPath(g, sib, components, targetLevel, derivingID)
		if err != nil {
			return 0, false, err
		}
		matches = append(matches, m...)
	}

	if len(matches) == 0 {
		for _, periph := range g.ElementChildren(deviceRoot) {
			m, err := matchPath(g, periph, components, targetLevel, derivingID)
			if err != nil {
				return 0, false, err
			}
			matches = append(matches, m...)
		}
	}

	switch len(matches) {
	case 0:
		return 0, false, nil
	case 1:
		if matches[0] == deviceRoot {
			return 0, false, ErrBaseIsDevice
		}
		return matches[0], true, nil
	default:
		return 0, false, fmt.Errorf("%w: %q", ErrAmbiguousDerivation, path)
	}
}

// matchPath recursively descends from candidate, consuming one path
// component per level, and reports every node reached by fully consuming
// components at the requested level. candidate itself is checked against
// components[0]; if it matches and more components remain, its children
// are searched for components[1:].
func matchPath(g *graph.Graph, candidate graph.ID, components []string, targetLevel model.Level, exclude graph.ID) ([]graph.ID, error) {
	node := g.Node(candidate)
	if node.Name != components[0] {
		return nil, nil
	}
	if len(components) == 1 {
		if candidate == exclude {
			return nil, nil
		}
		if node.Level != targetLevel {
			return nil, nil
		}
		return []graph.ID{candidate}, nil
	}

	var matches []graph.ID
	for _, child := range g.ElementChildren(candidate) {
		m, err := matchPath(g, child, components[1:], targetLevel, exclude)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m...)
	}
	return matches, nil
}
