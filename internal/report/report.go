// Package report serializes analysis results: a text rendering for humans
// and an optional SQLite sink for downstream tooling.
//
// The record-level contract is the edge table (source, destination,
// domain), the register list grouped by domain, and the SCC listing
// grouped by domain with feedback markers. Ordering follows processing
// order (domains as configured, sources as trialed), never a global sort,
// so output determinism rests on discovery order being deterministic.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/davemt/seqprobe/internal/analysis"
)

// Result is the complete output of one analyzer invocation.
type Result struct {
	RunToken string         `json:"run_token"`
	Domains  []DomainReport `json:"domains"`
}

// DomainReport is one domain's slice of the result. A failed domain
// carries its error and nothing else; no partially-built graph is ever
// reported.
type DomainReport struct {
	Clock      string               `json:"clock"`
	Error      string               `json:"error,omitempty"`
	Registers  []string             `json:"registers"`
	Edges      []analysis.Edge      `json:"edges"`
	Components []analysis.Component `json:"components"`
}

// FromOutcomes shapes per-domain outcomes into a result, preserving
// processing order.
func FromOutcomes(runToken string, outcomes []analysis.DomainOutcome) *Result {
	r := &Result{RunToken: runToken}
	for _, o := range outcomes {
		dr := DomainReport{Clock: o.Domain.Clock}
		if o.Err != nil {
			dr.Error = o.Err.Error()
		} else {
			dr.Registers = o.Result.Registers
			dr.Edges = o.Result.Graph.Edges()
			dr.Components = o.Result.Components
		}
		r.Domains = append(r.Domains, dr)
	}
	return r
}

// Failed reports whether every domain failed. One surviving domain keeps
// the run useful.
func (r *Result) Failed() bool {
	if len(r.Domains) == 0 {
		return true
	}
	for _, d := range r.Domains {
		if d.Error == "" {
			return false
		}
	}
	return true
}

// WriteText renders the result to w.
func WriteText(w io.Writer, r *Result) error {
	var b strings.Builder

	fmt.Fprintf(&b, "run %s\n", r.RunToken)

	b.WriteString("\nEDGES\n")
	edges := 0
	for _, d := range r.Domains {
		for _, e := range d.Edges {
			fmt.Fprintf(&b, "  %s -> %s  @ %s\n", e.Source, e.Dest, e.Domain)
			edges++
		}
	}
	if edges == 0 {
		b.WriteString("  (none)\n")
	}

	b.WriteString("\nREGISTERS\n")
	for _, d := range r.Domains {
		if d.Error != "" {
			continue
		}
		fmt.Fprintf(&b, "  domain %s (%d)\n", d.Clock, len(d.Registers))
		for _, reg := range d.Registers {
			fmt.Fprintf(&b, "    %s\n", reg)
		}
	}

	b.WriteString("\nCOMPONENTS\n")
	for _, d := range r.Domains {
		if d.Error != "" {
			continue
		}
		fmt.Fprintf(&b, "  domain %s\n", d.Clock)
		for _, c := range d.Components {
			marker := ""
			if c.Feedback {
				marker = "  FEEDBACK"
			}
			fmt.Fprintf(&b, "    {%s}%s\n", strings.Join(c.Members, ", "), marker)
		}
	}

	failed := false
	for _, d := range r.Domains {
		if d.Error != "" {
			if !failed {
				b.WriteString("\nFAILED DOMAINS\n")
				failed = true
			}
			fmt.Fprintf(&b, "  domain %s: %s\n", d.Clock, d.Error)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
