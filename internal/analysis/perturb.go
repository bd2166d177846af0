package analysis

import (
	"fmt"
	"math/rand"

	"github.com/davemt/seqprobe/internal/sim"
)

// Policy computes the perturbed value forced onto a register during a
// trial. Every policy must return a value different from its input, and
// must be deterministic for a given construction, or graph runs stop being
// reproducible.
//
// All of these are deliberately incomplete probes: flipping one bit of a
// wide register exercises one slice of its downstream logic, which is the
// cost/coverage trade the analyzer makes.
type Policy interface {
	Name() string
	Perturb(v sim.Value) sim.Value
}

// Policy names accepted by NewPolicy.
const (
	PolicyFlipLSB     = "flip-lsb"
	PolicyFlipAll     = "flip-all"
	PolicyFlipRandomK = "flip-random-k"
)

// FlipLSB inverts single-bit signals and flips only the least-significant
// bit of wider ones. This is the default policy.
type FlipLSB struct{}

// Name implements Policy.
func (FlipLSB) Name() string { return PolicyFlipLSB }

// Perturb implements Policy.
func (FlipLSB) Perturb(v sim.Value) sim.Value {
	return sim.Value{Bits: v.Bits, Word: (v.Word ^ 1) & sim.Mask(v.Bits)}
}

// FlipAll inverts every bit.
type FlipAll struct{}

// Name implements Policy.
func (FlipAll) Name() string { return PolicyFlipAll }

// Perturb implements Policy.
func (FlipAll) Perturb(v sim.Value) sim.Value {
	return sim.Value{Bits: v.Bits, Word: ^v.Word & sim.Mask(v.Bits)}
}

// FlipRandomK flips k distinct, pseudo-randomly chosen bits. The generator
// is seeded at construction, so a run with the same seed perturbs the same
// bits in the same trial order. Not safe for concurrent use; parallel
// domain analysis builds one policy per domain.
type FlipRandomK struct {
	k   int
	rng *rand.Rand
}

// NewFlipRandomK builds a FlipRandomK policy. k is clamped to at least 1.
func NewFlipRandomK(k int, seed int64) *FlipRandomK {
	if k < 1 {
		k = 1
	}
	return &FlipRandomK{k: k, rng: rand.New(rand.NewSource(seed))}
}

// Name implements Policy.
func (p *FlipRandomK) Name() string { return PolicyFlipRandomK }

// Perturb implements Policy. Flipping distinct bits always yields a value
// different from the input, so the Policy contract holds for any k.
func (p *FlipRandomK) Perturb(v sim.Value) sim.Value {
	k := p.k
	if k > v.Bits {
		k = v.Bits
	}
	var flip uint64
	for picked := 0; picked < k; {
		bit := uint64(1) << uint(p.rng.Intn(v.Bits))
		if flip&bit == 0 {
			flip |= bit
			picked++
		}
	}
	return sim.Value{Bits: v.Bits, Word: (v.Word ^ flip) & sim.Mask(v.Bits)}
}

// NewPolicy builds a policy from its configured name. k and seed are only
// consulted by flip-random-k.
func NewPolicy(name string, k int, seed int64) (Policy, error) {
	switch name {
	case "", PolicyFlipLSB:
		return FlipLSB{}, nil
	case PolicyFlipAll:
		return FlipAll{}, nil
	case PolicyFlipRandomK:
		return NewFlipRandomK(k, seed), nil
	default:
		return nil, fmt.Errorf("unknown perturbation policy %q", name)
	}
}
