// Package rtl is a small deterministic register-transfer simulator.
//
// It exists to give the analyzer an in-repo circuit to drive: the demo CPU
// and the test fixtures are built on it, and Circuit implements
// sim.Controller so the analyzer cannot tell it from an external engine.
//
// The model is synchronous and two-phase, in the usual evaluate-then-latch
// style: on a rising clock edge every register's next value is computed
// from the pre-edge state, then all registers commit at once, then
// combinational nets re-settle. Between edges nothing moves except forced
// values and input drives.
package rtl

import (
	"fmt"
	"sort"

	"github.com/davemt/seqprobe/internal/sim"
)

// Getter reads the current word of a named signal during evaluation.
type Getter func(name string) uint64

// RegSpec declares a clocked register.
type RegSpec struct {
	Name  string
	Bits  int
	Clock string

	// Init is the power-on value (before any reset).
	Init uint64

	// Reset names the reset signal, or "" for no reset. When the reset
	// is active at a rising edge the register loads ResetWord instead of
	// evaluating Next. ActiveLow selects the asserted level.
	Reset     string
	ActiveLow bool
	ResetWord uint64

	// Next computes the register's next value from pre-edge state.
	Next func(get Getter) uint64
}

// CombSpec declares a combinational net, re-evaluated after every step.
// Nets must be declared in dependency order; evaluation is a single pass.
type CombSpec struct {
	Name string
	Bits int
	Eval func(get Getter) uint64
}

type clockNode struct {
	name   string
	period int
}

type inputNode struct {
	name    string
	bits    int
	defWord uint64
}

// DefaultMaxEdgeWait bounds AdvanceToNextEdge. A clock that produces no
// rising edge within this many steps is reported as stalled.
const DefaultMaxEdgeWait = 1024

// Design accumulates signals before the circuit is built.
type Design struct {
	clocks []clockNode
	inputs []inputNode
	regs   []RegSpec
	combs  []CombSpec
}

// NewDesign returns an empty design.
func NewDesign() *Design {
	return &Design{}
}

// AddClock declares a free-running clock with the given period in steps.
// Periods below 2 never toggle, which is how a stalled clock is modeled.
func (d *Design) AddClock(name string, period int) {
	d.clocks = append(d.clocks, clockNode{name: name, period: period})
}

// AddInput declares an undriven input pinned to def unless forced.
func (d *Design) AddInput(name string, bits int, def uint64) {
	d.inputs = append(d.inputs, inputNode{name: name, bits: bits, defWord: def & sim.Mask(bits)})
}

// AddReg declares a clocked register.
func (d *Design) AddReg(r RegSpec) {
	d.regs = append(d.regs, r)
}

// AddComb declares a combinational net.
func (d *Design) AddComb(c CombSpec) {
	d.combs = append(d.combs, c)
}

// Circuit is a built design plus its simulation state. It implements
// sim.Controller. Not safe for concurrent use; the analyzer's access is
// strictly sequential by contract.
type Circuit struct {
	design      *Design
	maxEdgeWait int

	now    int64
	values map[string]sim.Value
	forced map[string]bool
	clockV map[string]bool
}

// Option configures a Circuit at build time.
type Option func(*Circuit)

// WithMaxEdgeWait overrides the stall bound for AdvanceToNextEdge.
func WithMaxEdgeWait(steps int) Option {
	return func(c *Circuit) { c.maxEdgeWait = steps }
}

// Build freezes the design into a runnable circuit at time zero.
// Duplicate or empty signal names panic: they are construction bugs in the
// fixture, not runtime conditions.
func (d *Design) Build(opts ...Option) *Circuit {
	seen := make(map[string]bool)
	check := func(name string) {
		if name == "" {
			panic("rtl: empty signal name")
		}
		if seen[name] {
			panic(fmt.Sprintf("rtl: duplicate signal %q", name))
		}
		seen[name] = true
	}
	for _, cl := range d.clocks {
		check(cl.name)
	}
	for _, in := range d.inputs {
		check(in.name)
	}
	for _, r := range d.regs {
		check(r.Name)
	}
	for _, cb := range d.combs {
		check(cb.Name)
	}

	c := &Circuit{design: d, maxEdgeWait: DefaultMaxEdgeWait}
	for _, opt := range opts {
		opt(c)
	}
	c.reset()
	return c
}

// reset puts the circuit back at time zero.
func (c *Circuit) reset() {
	c.now = 0
	c.values = make(map[string]sim.Value)
	c.forced = make(map[string]bool)
	c.clockV = make(map[string]bool)
	for _, cl := range c.design.clocks {
		c.values[cl.name] = sim.Bit(false)
		c.clockV[cl.name] = false
	}
	for _, in := range c.design.inputs {
		c.values[in.name] = sim.Value{Bits: in.bits, Word: in.defWord}
	}
	for _, r := range c.design.regs {
		c.values[r.Name] = sim.Value{Bits: r.Bits, Word: r.Init & sim.Mask(r.Bits)}
	}
	for _, cb := range c.design.combs {
		c.values[cb.Name] = sim.Value{Bits: cb.Bits}
	}
	c.settle()
}

func (c *Circuit) get(name string) uint64 {
	return c.values[name].Word
}

// settle re-evaluates combinational nets in declaration order. Forced nets
// keep their forced value.
func (c *Circuit) settle() {
	for _, cb := range c.design.combs {
		if c.forced[cb.Name] {
			continue
		}
		c.values[cb.Name] = sim.Value{Bits: cb.Bits, Word: cb.Eval(c.get) & sim.Mask(cb.Bits)}
	}
}

// clockLevel computes a clock's level at time t: low for the first half of
// each period, high for the second, so rising edges land mid-period.
func clockLevel(t int64, period int) bool {
	if period < 2 {
		return false
	}
	return int(t%int64(period)) >= period/2
}

// step advances one time step and returns the set of clocks that rose.
func (c *Circuit) step() map[string]bool {
	c.now++
	risen := make(map[string]bool)
	for _, cl := range c.design.clocks {
		level := clockLevel(c.now, cl.period)
		if level && !c.clockV[cl.name] {
			risen[cl.name] = true
		}
		c.clockV[cl.name] = level
		c.values[cl.name] = sim.Bit(level)
	}

	if len(risen) > 0 {
		// Evaluate every triggered register from pre-edge state,
		// then commit all at once.
		type latch struct {
			name string
			v    sim.Value
		}
		var pending []latch
		for _, r := range c.design.regs {
			if !risen[r.Clock] {
				continue
			}
			var next uint64
			if r.Reset != "" && c.resetActive(r) {
				next = r.ResetWord
			} else {
				next = r.Next(c.get)
			}
			pending = append(pending, latch{r.Name, sim.Value{Bits: r.Bits, Word: next & sim.Mask(r.Bits)}})
		}
		for _, l := range pending {
			c.values[l.name] = l.v
			// A deposit on a register lasts until its own latch.
			delete(c.forced, l.name)
		}
	}

	for _, in := range c.design.inputs {
		if !c.forced[in.name] {
			c.values[in.name] = sim.Value{Bits: in.bits, Word: in.defWord}
		}
	}
	c.settle()
	return risen
}

func (c *Circuit) resetActive(r RegSpec) bool {
	w := c.values[r.Reset].Word
	if r.ActiveLow {
		return w == 0
	}
	return w != 0
}

// Now returns the current simulation time in steps.
func (c *Circuit) Now() int64 { return c.now }

// Restart implements sim.Controller.
func (c *Circuit) Restart() error {
	c.reset()
	return nil
}

// AdvanceToNextEdge implements sim.Controller. The wait is bounded by the
// circuit's max edge wait.
func (c *Circuit) AdvanceToNextEdge(clock string) error {
	if _, ok := c.clockV[clock]; !ok {
		return &sim.StallError{Clock: clock, Waited: 0}
	}
	for i := 0; i < c.maxEdgeWait; i++ {
		if c.step()[clock] {
			return nil
		}
	}
	return &sim.StallError{Clock: clock, Waited: c.maxEdgeWait}
}

// Read implements sim.Controller.
func (c *Circuit) Read(signal string) (sim.Value, error) {
	v, ok := c.values[signal]
	if !ok {
		return sim.Value{}, &sim.UnreadableError{Signal: signal}
	}
	return v, nil
}

// Force implements sim.Controller. Clocks cannot be forced; width
// mismatches are rejected rather than coerced.
func (c *Circuit) Force(signal string, v sim.Value) error {
	cur, ok := c.values[signal]
	if !ok {
		return &sim.UnforceableError{Signal: signal}
	}
	if _, isClock := c.clockV[signal]; isClock {
		return &sim.UnforceableError{Signal: signal, Reason: "clocks are not forceable"}
	}
	if v.Bits != cur.Bits {
		return &sim.UnforceableError{
			Signal: signal,
			Reason: fmt.Sprintf("width mismatch: signal is %d bits, value is %d", cur.Bits, v.Bits),
		}
	}
	c.values[signal] = sim.Value{Bits: cur.Bits, Word: v.Word & sim.Mask(cur.Bits)}
	c.forced[signal] = true
	// Combinational fan-out of the forced value is visible immediately.
	c.settle()
	return nil
}

// Release implements sim.Controller.
func (c *Circuit) Release(signal string) {
	if !c.forced[signal] {
		return
	}
	delete(c.forced, signal)
	for _, in := range c.design.inputs {
		if in.name == signal {
			c.values[signal] = sim.Value{Bits: in.bits, Word: in.defWord}
			break
		}
	}
	c.settle()
}

// AdvanceTime implements sim.Controller.
func (c *Circuit) AdvanceTime(steps int) error {
	for i := 0; i < steps; i++ {
		c.step()
	}
	return nil
}

// Signals implements sim.Controller. Sorted for stable iteration.
func (c *Circuit) Signals() []string {
	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
