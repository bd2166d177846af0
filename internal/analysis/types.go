package analysis

import "github.com/davemt/seqprobe/internal/sim"

// ClockDomain identifies one analyzed clock: the clock signal, its period
// in simulation steps, and the reset that participates in bring-up.
type ClockDomain struct {
	Clock          string
	Period         int
	Reset          string
	ResetActiveLow bool
}

// Snapshot is an immutable capture of register values at one simulation
// instant. Registers that could not be read are absent.
type Snapshot map[string]sim.Value

// Edge records that forcing a perturbed value onto Source immediately
// before a clock edge changed Dest's post-edge value, all else being the
// standard bring-up sequence.
type Edge struct {
	Source string `json:"source"`
	Dest   string `json:"dest"`
	Domain string `json:"domain"`
}

// Graph is one clock domain's dependency graph over its discovered
// register set.
type Graph struct {
	Domain ClockDomain

	// Registers is the discovered register set in processing order
	// (sorted by canonical path).
	Registers []string

	// Succ maps each register to its edge destinations, each slice in
	// register-processing order. A register with no out-edges maps to a
	// nil slice. Self-edges are recorded, never filtered.
	Succ map[string][]string
}

// Edges flattens the graph in source-processing order, the order trials
// actually ran.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, src := range g.Registers {
		for _, dst := range g.Succ[src] {
			out = append(out, Edge{Source: src, Dest: dst, Domain: g.Domain.Clock})
		}
	}
	return out
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, dsts := range g.Succ {
		n += len(dsts)
	}
	return n
}

// Component is a strongly connected component of one domain's graph.
type Component struct {
	// Members is the component's register set, sorted.
	Members []string `json:"members"`

	// Feedback is set iff the component has more than one member. A
	// singleton with a self-edge is deliberately not flagged.
	Feedback bool `json:"feedback"`
}
