// Package config loads the analyzer's run configuration from YAML.
//
// The configuration names what the tool consumes and nothing more: the
// clocks to analyze, the reset and its polarity, the warmup and settle
// windows, and the perturbation policy. The circuit itself is never
// described here; the analyzer learns everything else empirically.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/davemt/seqprobe/internal/analysis"
)

// Clock names one clock to analyze and its period in simulation steps.
type Clock struct {
	Path   string `yaml:"path"`
	Period int    `yaml:"period"`
}

// Reset names the design reset and its asserted level.
type Reset struct {
	Path      string `yaml:"path"`
	ActiveLow bool   `yaml:"active_low"`
}

// Perturb selects the perturbation policy. K and Seed are only consulted
// by flip-random-k.
type Perturb struct {
	Policy string `yaml:"policy"`
	K      int    `yaml:"k,omitempty"`
	Seed   int64  `yaml:"seed,omitempty"`
}

// Config is one analyzer invocation's configuration.
type Config struct {
	// Clocks lists the clock domains, analyzed in this order.
	Clocks []Clock `yaml:"clocks"`

	// Reset participates in every domain's bring-up.
	Reset Reset `yaml:"reset"`

	// WarmupEdges is the discovery window in rising edges.
	WarmupEdges int `yaml:"warmup_edges"`

	// SettleEdges is how many edges run after reset release in bring-up.
	SettleEdges int `yaml:"settle_edges"`

	// PreEdgeAdvance is how many steps a trial advances before forcing;
	// zero derives period-1 from the domain.
	PreEdgeAdvance int `yaml:"pre_edge_advance,omitempty"`

	Perturb Perturb `yaml:"perturb,omitempty"`
}

// Load reads and validates a configuration file, applying defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a configuration document. Defaults are in
// place before decoding, so an explicit zero (settle_edges: 0 in
// particular) survives as an explicit zero rather than reverting to the
// default.
func Parse(raw []byte) (*Config, error) {
	cfg := Config{
		WarmupEdges: analysis.DefaultWarmupEdges,
		SettleEdges: analysis.DefaultSettleEdges,
		Perturb: Perturb{
			Policy: analysis.PolicyFlipLSB,
			K:      1,
		},
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the analyzer cannot act on.
func (c *Config) Validate() error {
	if len(c.Clocks) == 0 {
		return fmt.Errorf("config: at least one clock is required")
	}
	for i, clk := range c.Clocks {
		if clk.Path == "" {
			return fmt.Errorf("config: clocks[%d]: path is required", i)
		}
		if clk.Period < 0 {
			return fmt.Errorf("config: clocks[%d]: period must not be negative", i)
		}
	}
	if c.Reset.Path == "" {
		return fmt.Errorf("config: reset.path is required")
	}
	if c.WarmupEdges < 1 {
		return fmt.Errorf("config: warmup_edges must be positive")
	}
	if c.SettleEdges < 0 {
		return fmt.Errorf("config: settle_edges must not be negative")
	}
	if c.PreEdgeAdvance < 0 {
		return fmt.Errorf("config: pre_edge_advance must not be negative")
	}
	if _, err := analysis.NewPolicy(c.Perturb.Policy, c.Perturb.K, c.Perturb.Seed); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Domains converts the clock list into analyzer clock domains.
func (c *Config) Domains() []analysis.ClockDomain {
	out := make([]analysis.ClockDomain, len(c.Clocks))
	for i, clk := range c.Clocks {
		out[i] = analysis.ClockDomain{
			Clock:          clk.Path,
			Period:         clk.Period,
			Reset:          c.Reset.Path,
			ResetActiveLow: c.Reset.ActiveLow,
		}
	}
	return out
}

// NewPolicy builds the configured perturbation policy.
func (c *Config) NewPolicy() analysis.Policy {
	pol, err := analysis.NewPolicy(c.Perturb.Policy, c.Perturb.K, c.Perturb.Seed)
	if err != nil {
		// Validate has already vetted the name.
		panic(err)
	}
	return pol
}
