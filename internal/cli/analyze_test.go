package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davemt/seqprobe/internal/report"
)

func TestAnalyze_UnknownCircuit(t *testing.T) {
	_, err := execute(t, "analyze", "--circuit", "nonesuch")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestAnalyze_BadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("clocks: []\n"), 0o644))

	_, err := execute(t, "analyze", "--circuit", "swap-pair", "--config", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestAnalyze_SwapPairJSON(t *testing.T) {
	out, err := execute(t, "analyze", "--circuit", "swap-pair", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   report.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Data.RunToken)
	require.Len(t, resp.Data.Domains, 1)

	dom := resp.Data.Domains[0]
	assert.Equal(t, "top.clk", dom.Clock)
	assert.Empty(t, dom.Error)
	assert.Equal(t, []string{"top.x", "top.y"}, dom.Registers)

	edges := map[string]string{}
	for _, e := range dom.Edges {
		edges[e.Source] = e.Dest
	}
	assert.Equal(t, map[string]string{"top.x": "top.y", "top.y": "top.x"}, edges)

	require.Len(t, dom.Components, 1)
	assert.True(t, dom.Components[0].Feedback)
	assert.Equal(t, []string{"top.x", "top.y"}, dom.Components[0].Members)
}

func TestAnalyze_SwapPairText(t *testing.T) {
	out, err := execute(t, "analyze", "--circuit", "swap-pair")
	require.NoError(t, err)
	assert.Contains(t, out, "top.x -> top.y")
	assert.Contains(t, out, "top.y -> top.x")
	assert.Contains(t, out, "FEEDBACK")
	assert.NotContains(t, out, "FAILED DOMAINS")
}

func TestAnalyze_PersistsToDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")
	_, err := execute(t, "analyze", "--circuit", "swap-pair", "--db", dbPath)
	require.NoError(t, err)

	store, err := report.OpenStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	var edges int
	require.NoError(t, store.DB().QueryRow(`SELECT COUNT(*) FROM edges`).Scan(&edges))
	assert.Equal(t, 2, edges)

	var feedback int
	require.NoError(t, store.DB().QueryRow(`SELECT COUNT(*) FROM components WHERE feedback = 1`).Scan(&feedback))
	assert.Equal(t, 1, feedback)
}

func TestAnalyze_DemoCPUCompletes(t *testing.T) {
	out, err := execute(t, "analyze", "--circuit", "demo-cpu", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   report.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Domains, 1)

	dom := resp.Data.Domains[0]
	assert.Equal(t, "cpu.clk", dom.Clock)
	assert.Empty(t, dom.Error)
	assert.Contains(t, dom.Registers, "cpu.pc")

	regs := map[string]bool{}
	for _, r := range dom.Registers {
		regs[r] = true
	}
	for _, e := range dom.Edges {
		assert.True(t, regs[e.Source], "edge source %s outside register set", e.Source)
		assert.True(t, regs[e.Dest], "edge dest %s outside register set", e.Dest)
	}
}
