package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davemt/seqprobe/internal/analysis"
)

const fullDoc = `
clocks:
  - path: cpu.clk
    period: 10
  - path: io.clk
    period: 14
reset:
  path: cpu.rst_n
  active_low: true
warmup_edges: 24
settle_edges: 3
pre_edge_advance: 5
perturb:
  policy: flip-random-k
  k: 2
  seed: 11
`

func TestParse_FullDocument(t *testing.T) {
	cfg, err := Parse([]byte(fullDoc))
	require.NoError(t, err)

	require.Len(t, cfg.Clocks, 2)
	assert.Equal(t, "cpu.clk", cfg.Clocks[0].Path)
	assert.Equal(t, 10, cfg.Clocks[0].Period)
	assert.Equal(t, "io.clk", cfg.Clocks[1].Path)

	assert.Equal(t, "cpu.rst_n", cfg.Reset.Path)
	assert.True(t, cfg.Reset.ActiveLow)
	assert.Equal(t, 24, cfg.WarmupEdges)
	assert.Equal(t, 3, cfg.SettleEdges)
	assert.Equal(t, 5, cfg.PreEdgeAdvance)
	assert.Equal(t, analysis.PolicyFlipRandomK, cfg.Perturb.Policy)
	assert.Equal(t, 2, cfg.Perturb.K)
	assert.Equal(t, int64(11), cfg.Perturb.Seed)
}

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
clocks:
  - path: top.clk
    period: 4
reset:
  path: top.rst
`))
	require.NoError(t, err)
	assert.Equal(t, analysis.DefaultWarmupEdges, cfg.WarmupEdges)
	assert.Equal(t, analysis.DefaultSettleEdges, cfg.SettleEdges)
	assert.Equal(t, 0, cfg.PreEdgeAdvance, "pre_edge_advance defaults to derived")
	assert.Equal(t, analysis.PolicyFlipLSB, cfg.Perturb.Policy)
}

func TestParse_ExplicitZeroSettleEdges(t *testing.T) {
	cfg, err := Parse([]byte(`
clocks:
  - path: top.clk
    period: 4
reset:
  path: top.rst
settle_edges: 0
`))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.SettleEdges, "an explicit zero is not the absent value")
}

func TestParse_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"no clocks", "reset: {path: top.rst}", "at least one clock"},
		{"clock missing path", "clocks: [{period: 4}]\nreset: {path: top.rst}", "path is required"},
		{"negative period", "clocks: [{path: a, period: -1}]\nreset: {path: top.rst}", "period"},
		{"missing reset", "clocks: [{path: a, period: 4}]", "reset.path"},
		{"negative warmup", "clocks: [{path: a, period: 4}]\nreset: {path: r}\nwarmup_edges: -2", "warmup_edges"},
		{"negative settle", "clocks: [{path: a, period: 4}]\nreset: {path: r}\nsettle_edges: -1", "settle_edges"},
		{"unknown policy", "clocks: [{path: a, period: 4}]\nreset: {path: r}\nperturb: {policy: flip-everything}", "unknown perturbation policy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("clocks: ["))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullDoc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Clocks, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDomains(t *testing.T) {
	cfg, err := Parse([]byte(fullDoc))
	require.NoError(t, err)

	domains := cfg.Domains()
	require.Len(t, domains, 2)
	assert.Equal(t, analysis.ClockDomain{
		Clock:          "cpu.clk",
		Period:         10,
		Reset:          "cpu.rst_n",
		ResetActiveLow: true,
	}, domains[0])
	assert.Equal(t, "io.clk", domains[1].Clock)
	assert.Equal(t, 14, domains[1].Period)
}

func TestNewPolicy(t *testing.T) {
	cfg, err := Parse([]byte(fullDoc))
	require.NoError(t, err)
	assert.Equal(t, analysis.PolicyFlipRandomK, cfg.NewPolicy().Name())
}
