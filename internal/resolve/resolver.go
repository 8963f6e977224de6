package resolve

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/svdkit/svdkit/internal/graph"
	"github.com/svdkit/svdkit/pkg/model"
)

// log is the package-level tracer, discarding by default. SetLogger swaps
// it for a caller-supplied one (the CLI wires this up for --verbose),
// matching the teacher's cmd/hiveexplorer/logger package-var idiom.
var log = slog.New(slog.NewTextHandler(io.Discard, nil))

// SetLogger replaces the package's tracer. Passing nil restores the
// discarding default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log = l
}

// defaultMaxRounds bounds the fixed-point loop when Options.MaxRounds is
// left at zero. It comfortably exceeds any derivation chain length seen in
// a real SVD file; hitting it always means ErrStuck, not a slow-but-valid
// convergence.
const defaultMaxRounds = 256

// Options configures one Resolve call (spec's "strict-mode toggle,
// max-round limit, diagnostics verbosity" ambient config surface).
type Options struct {
	// MaxRounds caps the fixed-point loop. Zero means defaultMaxRounds.
	MaxRounds int
	// Strict escalates every Warning into a fatal error instead of
	// returning it on the side channel.
	Strict bool
}

// Resolve runs the full fixed-point loop over device and returns the
// processed tree plus any non-fatal warnings. A fatal error aborts the
// call; the returned tree and warnings are nil in that case.
func Resolve(device *model.Device, opts Options) (*model.ProcessedDevice, []Warning, error) {
	maxRounds := opts.MaxRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxRounds
	}

	g, root := graph.Build(device)
	c := &resolveCtx{
		g:             g,
		device:        device,
		deviceDefault: deviceDefaults(device),
		deviceRoot:    root,
		warnings:      &[]Warning{},
	}

	for round := 0; ; round++ {
		if len(g.UnprocessedNodes()) == 0 {
			break
		}
		if round >= maxRounds {
			return nil, nil, fmt.Errorf("%w: exceeded %d rounds", ErrStuck, maxRounds)
		}

		resolved, err := c.resolvePlaceholdersRound()
		if err != nil {
			return nil, nil, err
		}

		processable, err := c.selectProcessable()
		if err != nil {
			return nil, nil, err
		}

		log.Debug("resolve round", "round", round, "placeholdersResolved", resolved, "processable", len(processable))

		if len(processable) == 0 {
			if resolved == 0 {
				return nil, nil, classifyStuck(g)
			}
			continue
		}

		ordered := g.TopologicalSort(processable)
		for _, id := range ordered {
			if err := c.processNode(id); err != nil {
				return nil, nil, fmt.Errorf("resolve: %s %q: %w", g.Node(id).Level, g.Node(id).Name, err)
			}
		}
	}

	dev, err := c.finalize()
	if err != nil {
		return nil, nil, err
	}

	warnings := *c.warnings
	if opts.Strict && len(warnings) > 0 {
		return nil, nil, fmt.Errorf("resolve: strict mode: %d warning(s), first: %s", len(warnings), warnings[0].Msg)
	}
	return dev, warnings, nil
}

// resolvePlaceholdersRound attempts to resolve every placeholder whose
// anchor (co-parent) node is already processed, per spec §4.4 step 1. It
// returns the count of placeholders resolved this round.
func (c *resolveCtx) resolvePlaceholdersRound() (int, error) {
	resolved := 0
	for _, ph := range c.g.Placeholders() {
		coParent, ok := c.g.PlaceholderCoParent(ph)
		if !ok || c.g.Node(coParent).Status != graph.StatusProcessed {
			continue
		}
		derivingID, ok := c.g.PlaceholderChild(ph)
		if !ok {
			continue
		}

		target, found, err := resolvePath(c.g, c.deviceRoot, derivingID, c.g.Node(ph).DerivePath)
		if err != nil {
			return resolved, fmt.Errorf("resolve: %q deriving from %q: %w", c.g.Node(derivingID).Name, c.g.Node(ph).DerivePath, err)
		}
		if !found {
			continue
		}
		if c.g.Node(target).Level != c.g.Node(derivingID).Level {
			return resolved, fmt.Errorf("%w: %q -> %q", ErrDerivationLevelMismatch, c.g.Node(derivingID).Name, c.g.Node(ph).DerivePath)
		}
		if err := c.g.ResolvePlaceholder(ph, target); err != nil {
			return resolved, err
		}
		resolved++
	}
	return resolved, nil
}

// selectProcessable finds unprocessed nodes with no inbound Placeholder
// edge reachable without crossing an already-satisfied ancestor, i.e. root
// candidates whose own parent is processed and who aren't themselves still
// waiting on a placeholder (spec §4.4 step 2).
func (c *resolveCtx) selectProcessable() ([]graph.ID, error) {
	var out []graph.ID
	for _, id := range c.g.UnprocessedRootNodes() {
		if c.g.HasIncomingEdgeOfKind(id, graph.EdgePlaceholder) {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

// classifyStuck inspects the graph at loop exit to decide whether the
// fixed point failed due to a cycle or an unresolvable derivation path —
// both are only detectable once no further progress is possible, since
// either looks identical to "not yet found" mid-loop (spec §7).
func classifyStuck(g *graph.Graph) error {
	for _, ph := range g.Placeholders() {
		return fmt.Errorf("%w: %q", ErrUnresolvedDerivation, g.Node(ph).DerivePath)
	}
	return ErrResolveCycle
}
