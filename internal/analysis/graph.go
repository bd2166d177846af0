package analysis

import (
	"fmt"

	"github.com/davemt/seqprobe/internal/sim"
)

// progressInterval is how many trials pass between progress log lines.
// Each trial costs a full simulation restart, which against a slow engine
// can take seconds, so long domains must stay visibly alive.
const progressInterval = 50

// BuildDependencyGraph runs one perturbation trial per register in regs
// and returns the domain's dependency graph.
//
// The baseline and every trial replay the identical bring-up from time
// zero, so each comparison is against a reproducible reference rather than
// residual state. Registers whose value cannot be read or forced at trial
// time are skipped without failing the run. A stalled clock aborts the
// whole domain.
func BuildDependencyGraph(s *Session, d ClockDomain, regs []string, pol Policy) (*Graph, error) {
	g := &Graph{
		Domain:    d,
		Registers: regs,
		Succ:      make(map[string][]string, len(regs)),
	}
	if len(regs) == 0 {
		return g, nil
	}

	base, err := s.baseline(d, regs)
	if err != nil {
		return nil, fmt.Errorf("baseline %s: %w", d.Clock, err)
	}

	for i, src := range regs {
		if i > 0 && i%progressInterval == 0 {
			s.log.Info("dependency trials",
				"domain", d.Clock, "completed", i, "total", len(regs))
		}
		dests, err := s.perturbTrial(d, src, regs, base, pol)
		if err != nil {
			return nil, fmt.Errorf("trial %s: %w", src, err)
		}
		if dests != nil {
			g.Succ[src] = dests
		}
	}
	s.log.Info("dependency graph built",
		"domain", d.Clock, "registers", len(regs), "edges", g.EdgeCount(), "policy", pol.Name())
	return g, nil
}

// baseline captures the unperturbed post-edge snapshot: bring-up, one
// further edge, snapshot. Trials advance through the same edge count, so
// the two snapshots land at identical points in the protocol.
func (s *Session) baseline(d ClockDomain, regs []string) (Snapshot, error) {
	if err := s.BringUp(d); err != nil {
		return nil, err
	}
	if err := s.ctrl.AdvanceToNextEdge(d.Clock); err != nil {
		return nil, err
	}
	return s.snapshot(regs), nil
}

// perturbTrial perturbs src just before an edge and returns the registers
// whose post-edge value moved off the baseline, in register-processing
// order. A nil error with nil destinations means the trial was skipped
// (src unreadable or unforceable).
func (s *Session) perturbTrial(d ClockDomain, src string, regs []string, base Snapshot, pol Policy) ([]string, error) {
	if err := s.BringUp(d); err != nil {
		return nil, err
	}
	if err := s.ctrl.AdvanceTime(s.preEdgeSteps(d)); err != nil {
		return nil, err
	}

	cur, err := s.ctrl.Read(src)
	if err != nil {
		if sim.IsUnreadable(err) {
			s.log.Debug("trial skipped", "domain", d.Clock, "source", src, "cause", "unreadable")
			return nil, nil
		}
		return nil, err
	}
	if err := s.ctrl.Force(src, pol.Perturb(cur)); err != nil {
		if sim.IsUnforceable(err) {
			s.log.Debug("trial skipped", "domain", d.Clock, "source", src, "cause", "unforceable")
			return nil, nil
		}
		return nil, err
	}
	// The force must come off on every exit path, or it leaks into the
	// next trial's bring-up.
	defer s.ctrl.Release(src)

	if err := s.ctrl.AdvanceToNextEdge(d.Clock); err != nil {
		return nil, err
	}
	perturbed := s.snapshot(regs)

	var dests []string
	for _, dst := range regs {
		bv, okBase := base[dst]
		pv, okPert := perturbed[dst]
		if okBase && okPert && bv != pv {
			dests = append(dests, dst)
		}
	}
	return dests, nil
}
