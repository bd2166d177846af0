package rtl

// Validation fixtures beyond the demo CPU. These are deliberately tiny
// circuits with known dependency structure, used by the test suite and
// exposed through the CLI fixture registry.

// Fixture domain signals shared by the small fixtures. Reset is
// active-high here, the opposite polarity of the CPU fixture.
const (
	FixtureClock  = "top.clk"
	FixtureReset  = "top.rst"
	FixturePeriod = 4
)

// NewSwapPair builds two registers that exchange values every edge:
// top.x loads top.y and top.y loads top.x. Reset values differ, so both
// toggle on every edge and the pair forms a genuine feedback loop.
func NewSwapPair(opts ...Option) *Circuit {
	d := NewDesign()
	d.AddClock(FixtureClock, FixturePeriod)
	d.AddInput(FixtureReset, 1, 0)
	d.AddReg(RegSpec{
		Name: "top.x", Bits: 4, Clock: FixtureClock,
		Init: 0x5, Reset: FixtureReset, ResetWord: 0x5,
		Next: func(get Getter) uint64 { return get("top.y") },
	})
	d.AddReg(RegSpec{
		Name: "top.y", Bits: 4, Clock: FixtureClock,
		Reset: FixtureReset, ResetWord: 0x0,
		Next: func(get Getter) uint64 { return get("top.x") },
	})
	return d.Build(opts...)
}

// ShiftChainRegs are the shift chain's registers in stage order.
var ShiftChainRegs = []string{"top.r0", "top.r1", "top.r2", "top.r3"}

// NewShiftChain builds a four-stage shift chain fed by the quiet input
// top.din: r0 <- din, r1 <- r0, r2 <- r1, r3 <- r2. No feedback anywhere.
// Reset loads a pulse into r0 that marches down the chain and falls off
// the end, so every stage toggles during the first few post-reset edges.
func NewShiftChain(opts ...Option) *Circuit {
	d := NewDesign()
	d.AddClock(FixtureClock, FixturePeriod)
	d.AddInput(FixtureReset, 1, 0)
	d.AddInput("top.din", 8, 0)
	feeds := append([]string{"top.din"}, ShiftChainRegs[:len(ShiftChainRegs)-1]...)
	for i, name := range ShiftChainRegs {
		feed := feeds[i]
		var rstWord uint64
		if i == 0 {
			rstWord = 0xff
		}
		d.AddReg(RegSpec{
			Name: name, Bits: 8, Clock: FixtureClock,
			Init: rstWord, Reset: FixtureReset, ResetWord: rstWord,
			Next: func(get Getter) uint64 { return get(feed) },
		})
	}
	return d.Build(opts...)
}

// NewStalledClock builds a circuit whose clock never toggles (period 0),
// for exercising the stall path.
func NewStalledClock(opts ...Option) *Circuit {
	d := NewDesign()
	d.AddClock(FixtureClock, 0)
	d.AddInput(FixtureReset, 1, 0)
	d.AddReg(RegSpec{
		Name: "top.q", Bits: 1, Clock: FixtureClock,
		Reset: FixtureReset,
		Next: func(get Getter) uint64 { return get("top.q") ^ 1 },
	})
	return d.Build(opts...)
}
