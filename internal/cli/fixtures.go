package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davemt/seqprobe/internal/rtl"
	"github.com/davemt/seqprobe/internal/sim"
)

// fixtureEntry is one builtin circuit: a factory producing fresh
// simulation instances plus the default configuration used when --config
// is not given.
type fixtureEntry struct {
	Summary       string
	Build         func() (sim.Controller, error)
	DefaultConfig string
}

// fixtureRegistry maps --circuit names to builtin circuits. Each Build
// call returns an independent instance, which is what permits per-domain
// parallelism.
var fixtureRegistry = map[string]fixtureEntry{
	"demo-cpu": {
		Summary: "16-bit demo processor: 8 general registers, word-addressed stores, looping program",
		Build:   func() (sim.Controller, error) { return rtl.NewCPU(), nil },
		DefaultConfig: `
clocks:
  - path: cpu.clk
    period: 10
reset:
  path: cpu.rst_n
  active_low: true
warmup_edges: 16
settle_edges: 2
`,
	},
	"swap-pair": {
		Summary: "two registers exchanging values every edge (one feedback loop)",
		Build:   func() (sim.Controller, error) { return rtl.NewSwapPair(), nil },
		DefaultConfig: `
clocks:
  - path: top.clk
    period: 4
reset:
  path: top.rst
  active_low: false
warmup_edges: 8
settle_edges: 2
`,
	},
	"shift-chain": {
		Summary: "four-stage shift chain (acyclic); a reset pulse marches through for discovery",
		Build:   func() (sim.Controller, error) { return rtl.NewShiftChain(), nil },
		DefaultConfig: `
clocks:
  - path: top.clk
    period: 4
reset:
  path: top.rst
  active_low: false
warmup_edges: 8
settle_edges: 0
`,
	},
}

// FixtureNames returns the registry keys, sorted.
func FixtureNames() []string {
	names := make([]string, 0, len(fixtureRegistry))
	for name := range fixtureRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupFixture(name string) (fixtureEntry, error) {
	entry, ok := fixtureRegistry[name]
	if !ok {
		return fixtureEntry{}, fmt.Errorf("unknown circuit %q: available: %s",
			name, strings.Join(FixtureNames(), ", "))
	}
	return entry, nil
}

// fixtureListing is the fixtures command's payload.
type fixtureListing struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// NewFixturesCommand creates the fixtures command.
func NewFixturesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fixtures",
		Short: "List builtin circuits",
		Long:  "List the builtin validation circuits usable with analyze --circuit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var listing []fixtureListing
			for _, name := range FixtureNames() {
				listing = append(listing, fixtureListing{Name: name, Summary: fixtureRegistry[name].Summary})
			}
			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if rootOpts.Format == "json" {
				return f.Success(listing)
			}
			for _, l := range listing {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", l.Name, l.Summary)
			}
			return nil
		},
	}
}
