package analysis

import (
	"fmt"
	"sync"

	"github.com/davemt/seqprobe/internal/sim"
)

// DomainAnalysis is everything the analyzer learned about one clock
// domain: its discovered register set, the dependency graph over it, and
// the graph's strongly connected components.
type DomainAnalysis struct {
	Domain     ClockDomain
	Registers  []string
	Graph      *Graph
	Components []Component
}

// AnalyzeDomain runs the full pipeline for one domain against the
// session's controller: enumerate, discover, build the graph, detect
// cycles. Zero discovered registers is not an error; it yields an empty
// graph and an empty component list.
func AnalyzeDomain(s *Session, d ClockDomain, warmupEdges int, pol Policy) (*DomainAnalysis, error) {
	if warmupEdges <= 0 {
		warmupEdges = DefaultWarmupEdges
	}

	regs, err := DiscoverStateRegisters(s, d, s.Enumerate(), warmupEdges)
	if err != nil {
		return nil, err
	}
	g, err := BuildDependencyGraph(s, d, regs, pol)
	if err != nil {
		return nil, err
	}
	return &DomainAnalysis{
		Domain:     d,
		Registers:  regs,
		Graph:      g,
		Components: StronglyConnectedComponents(g),
	}, nil
}

// ControllerFactory hands out a fresh simulation instance. AnalyzeDomains
// calls it once per domain: restarts are global to an instance, so domains
// analyzed in parallel must never share one.
type ControllerFactory func() (sim.Controller, error)

// PolicyFactory builds a perturbation policy. Called once per domain so
// stateful policies (flip-random-k) are never shared across goroutines.
type PolicyFactory func() Policy

// DomainOutcome pairs a domain's analysis with its error. A failed domain
// (stalled clock, failed bring-up) does not stop the others; the caller
// decides what a partial run is worth.
type DomainOutcome struct {
	Domain ClockDomain
	Result *DomainAnalysis
	Err    error
}

// AnalyzeDomains analyzes every domain, each against its own simulation
// instance, in parallel. Outcomes are returned in input order.
func AnalyzeDomains(factory ControllerFactory, domains []ClockDomain, warmupEdges int, newPolicy PolicyFactory, opts ...SessionOption) []DomainOutcome {
	outcomes := make([]DomainOutcome, len(domains))
	var wg sync.WaitGroup
	for i, d := range domains {
		wg.Add(1)
		go func(i int, d ClockDomain) {
			defer wg.Done()
			outcomes[i].Domain = d
			ctrl, err := factory()
			if err != nil {
				outcomes[i].Err = fmt.Errorf("controller for %s: %w", d.Clock, err)
				return
			}
			sess := NewSession(ctrl, opts...)
			outcomes[i].Result, outcomes[i].Err = AnalyzeDomain(sess, d, warmupEdges, newPolicy())
		}(i, d)
	}
	wg.Wait()
	return outcomes
}
