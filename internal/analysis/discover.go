package analysis

import "fmt"

// DefaultWarmupEdges is the discovery window when the configuration does
// not say otherwise.
const DefaultWarmupEdges = 16

// DiscoverStateRegisters classifies which of the candidate signals hold
// clock-edge-updated state in the given domain.
//
// After bring-up it watches warmupEdges successive rising edges, snapshots
// the candidates immediately before and immediately after each edge, and
// admits a candidate the first time its value differs across a pair. The
// domain's own clock and reset are excluded unconditionally, even though
// both toggle at every edge. Unreadable candidates are skipped silently.
//
// The window is a heuristic. A state-holding signal that never toggles
// during it is missed.
func DiscoverStateRegisters(s *Session, d ClockDomain, candidates []string, warmupEdges int) ([]string, error) {
	clock := CanonicalSignal(d.Clock)
	reset := CanonicalSignal(d.Reset)

	pool := make([]string, 0, len(candidates))
	for _, c := range canonicalSet(candidates) {
		if c == clock || c == reset {
			continue
		}
		pool = append(pool, c)
	}

	if err := s.BringUp(d); err != nil {
		return nil, fmt.Errorf("discover %s: %w", d.Clock, err)
	}

	toggled := make(map[string]bool)
	before := s.snapshot(pool)
	for edge := 0; edge < warmupEdges; edge++ {
		if err := s.ctrl.AdvanceToNextEdge(d.Clock); err != nil {
			return nil, fmt.Errorf("discover %s: edge %d: %w", d.Clock, edge+1, err)
		}
		after := s.snapshot(pool)
		for _, c := range pool {
			if toggled[c] {
				continue
			}
			bv, okBefore := before[c]
			av, okAfter := after[c]
			if okBefore && okAfter && bv != av {
				toggled[c] = true
			}
		}
		// State only moves on edges, so the post-edge snapshot doubles
		// as the next pre-edge one.
		before = after
	}

	regs := make([]string, 0, len(toggled))
	for _, c := range pool {
		if toggled[c] {
			regs = append(regs, c)
		}
	}
	s.log.Debug("state registers discovered",
		"domain", d.Clock, "candidates", len(pool), "registers", len(regs), "edges", warmupEdges)
	return regs, nil
}
