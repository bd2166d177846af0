package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davemt/seqprobe/internal/rtl"
	"github.com/davemt/seqprobe/internal/sim"
	"github.com/davemt/seqprobe/internal/testutil"
)

// counterCircuit is a single 4-bit register that increments itself.
func counterCircuit() *rtl.Circuit {
	d := rtl.NewDesign()
	d.AddClock(rtl.FixtureClock, rtl.FixturePeriod)
	d.AddInput(rtl.FixtureReset, 1, 0)
	d.AddReg(rtl.RegSpec{
		Name: "top.count", Bits: 4, Clock: rtl.FixtureClock,
		Reset: rtl.FixtureReset,
		Next:  func(get rtl.Getter) uint64 { return get("top.count") + 1 },
	})
	return d.Build()
}

func TestBuildGraph_SwapPairScenario(t *testing.T) {
	// Two registers that exchange values must yield edges both ways and
	// one feedback component.
	s := NewSession(rtl.NewSwapPair(), WithRunToken("test-run"))
	regs := []string{"top.x", "top.y"}

	g, err := BuildDependencyGraph(s, fixtureDomain(), regs, FlipLSB{})
	require.NoError(t, err)

	assert.Equal(t, []Edge{
		{Source: "top.x", Dest: "top.y", Domain: rtl.FixtureClock},
		{Source: "top.y", Dest: "top.x", Domain: rtl.FixtureClock},
	}, g.Edges())

	comps := StronglyConnectedComponents(g)
	require.Len(t, comps, 1)
	assert.Equal(t, []string{"top.x", "top.y"}, comps[0].Members)
	assert.True(t, comps[0].Feedback)
}

func TestBuildGraph_ShiftChainScenario(t *testing.T) {
	// A four-stage chain must yield exactly the three stage-to-stage
	// edges and four trivial components.
	s := NewSession(rtl.NewShiftChain(), WithRunToken("test-run"))

	g, err := BuildDependencyGraph(s, fixtureDomain(), rtl.ShiftChainRegs, FlipLSB{})
	require.NoError(t, err)

	assert.Equal(t, []Edge{
		{Source: "top.r0", Dest: "top.r1", Domain: rtl.FixtureClock},
		{Source: "top.r1", Dest: "top.r2", Domain: rtl.FixtureClock},
		{Source: "top.r2", Dest: "top.r3", Domain: rtl.FixtureClock},
	}, g.Edges())

	comps := StronglyConnectedComponents(g)
	require.Len(t, comps, 4)
	for _, c := range comps {
		assert.Len(t, c.Members, 1)
		assert.False(t, c.Feedback)
	}
}

func TestBuildGraph_SelfEdgeRecorded(t *testing.T) {
	s := NewSession(counterCircuit(), WithRunToken("test-run"))

	g, err := BuildDependencyGraph(s, fixtureDomain(), []string{"top.count"}, FlipLSB{})
	require.NoError(t, err)
	assert.Equal(t, []Edge{
		{Source: "top.count", Dest: "top.count", Domain: rtl.FixtureClock},
	}, g.Edges(), "self-edges are recorded, never filtered")
}

func TestBuildGraph_Deterministic(t *testing.T) {
	run := func() []Edge {
		s := NewSession(rtl.NewSwapPair(), WithRunToken("test-run"))
		g, err := BuildDependencyGraph(s, fixtureDomain(), []string{"top.x", "top.y"}, FlipLSB{})
		require.NoError(t, err)
		return g.Edges()
	}
	assert.Equal(t, run(), run(), "identical fixture and bring-up must yield an identical edge set")
}

func TestBuildGraph_UnforceableSourceSkipped(t *testing.T) {
	ctrl := testutil.Restrict(rtl.NewSwapPair())
	ctrl.Unforceable["top.x"] = true

	s := NewSession(ctrl, WithRunToken("test-run"))
	g, err := BuildDependencyGraph(s, fixtureDomain(), []string{"top.x", "top.y"}, FlipLSB{})
	require.NoError(t, err, "an unforceable source skips its trial, not the run")
	assert.Equal(t, []Edge{
		{Source: "top.y", Dest: "top.x", Domain: rtl.FixtureClock},
	}, g.Edges())
}

func TestBuildGraph_UnreadableSourceSkipped(t *testing.T) {
	ctrl := testutil.Restrict(rtl.NewSwapPair())
	ctrl.Unreadable["top.x"] = true

	s := NewSession(ctrl, WithRunToken("test-run"))
	g, err := BuildDependencyGraph(s, fixtureDomain(), []string{"top.x", "top.y"}, FlipLSB{})
	require.NoError(t, err)
	// top.x cannot be sampled, so its own trial is skipped and the
	// y-trial's only observable effect (on top.x) is invisible too.
	assert.Empty(t, g.Edges())
}

func TestBuildGraph_StalledClockAbortsDomain(t *testing.T) {
	s := NewSession(rtl.NewStalledClock(rtl.WithMaxEdgeWait(32)), WithRunToken("test-run"))
	d := ClockDomain{Clock: rtl.FixtureClock, Period: 0, Reset: rtl.FixtureReset}

	_, err := BuildDependencyGraph(s, d, []string{"top.q"}, FlipLSB{})
	require.Error(t, err)
	assert.True(t, sim.IsStall(err), "no partially-built graph on stall")
}

func TestBuildGraph_EmptyRegisterSet(t *testing.T) {
	s := NewSession(rtl.NewSwapPair(), WithRunToken("test-run"))
	g, err := BuildDependencyGraph(s, fixtureDomain(), nil, FlipLSB{})
	require.NoError(t, err, "zero registers is not an error")
	assert.Empty(t, g.Edges())
}

func TestBuildGraph_ForcesAlwaysReleased(t *testing.T) {
	tracker := testutil.Track(rtl.NewSwapPair())
	s := NewSession(tracker, WithRunToken("test-run"))

	_, err := BuildDependencyGraph(s, fixtureDomain(), []string{"top.x", "top.y"}, FlipLSB{})
	require.NoError(t, err)
	assert.Empty(t, tracker.Active, "every force must come off on every exit path")
	assert.Equal(t, 1, tracker.MaxActive, "at most one force is ever live")
}

func TestBuildGraph_EdgeEndpointsWithinRegisterSet(t *testing.T) {
	s := NewSession(rtl.NewCPU(), WithRunToken("test-run"))
	d := ClockDomain{Clock: rtl.CPUClock, Period: rtl.CPUClockPeriod, Reset: rtl.CPUReset, ResetActiveLow: true}

	regs, err := DiscoverStateRegisters(s, d, s.Enumerate(), 16)
	require.NoError(t, err)
	require.NotEmpty(t, regs)

	g, err := BuildDependencyGraph(s, d, regs, FlipLSB{})
	require.NoError(t, err)

	inSet := make(map[string]bool, len(regs))
	for _, r := range regs {
		inSet[r] = true
	}
	for _, e := range g.Edges() {
		assert.True(t, inSet[e.Source], "source %s outside register set", e.Source)
		assert.True(t, inSet[e.Dest], "dest %s outside register set", e.Dest)
		assert.Equal(t, rtl.CPUClock, e.Domain)
	}
}
