package analysis

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/davemt/seqprobe/internal/sim"
)

// DefaultSettleEdges is the number of extra edges run after reset release
// during bring-up, so derived state reaches its post-reset values before
// any measurement.
const DefaultSettleEdges = 2

// Session owns exclusive access to one simulation instance and the
// bring-up parameters shared by every measurement against it.
//
// All methods are strictly sequential: force, advance, snapshot and release
// execute as one uninterrupted ordered sequence, because simulation state
// is globally visible to every subsequent read. A Session must never be
// shared between goroutines; parallel domain analysis requires one Session
// (and one controller) per domain.
type Session struct {
	ctrl           sim.Controller
	settleEdges    int
	preEdgeAdvance int
	runToken       string
	log            *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) { s.log = l }
}

// WithSettleEdges overrides the post-reset settle edge count.
func WithSettleEdges(n int) SessionOption {
	return func(s *Session) { s.settleEdges = n }
}

// WithPreEdgeAdvance overrides how many steps a trial advances after
// bring-up before forcing, to land just before the next edge. Zero (the
// default) derives period-1 from the domain.
func WithPreEdgeAdvance(steps int) SessionOption {
	return func(s *Session) { s.preEdgeAdvance = steps }
}

// WithRunToken fixes the run token, for deterministic tests.
func WithRunToken(token string) SessionOption {
	return func(s *Session) { s.runToken = token }
}

// NewSession wraps a controller. The run token defaults to a UUIDv7 so
// log lines and persisted results from one invocation correlate.
func NewSession(ctrl sim.Controller, opts ...SessionOption) *Session {
	s := &Session{
		ctrl:        ctrl,
		settleEdges: DefaultSettleEdges,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runToken == "" {
		s.runToken = uuid.Must(uuid.NewV7()).String()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.log = s.log.With("run", s.runToken)
	return s
}

// RunToken returns the session's run token.
func (s *Session) RunToken() string { return s.runToken }

// Enumerate lists every addressable signal, canonicalized and sorted.
func (s *Session) Enumerate() []string {
	return canonicalSet(s.ctrl.Signals())
}

// BringUp replays the standard reset sequence from time zero: restart,
// assert reset for two edges, release it, then run the settle edges. Every
// measurement in the domain starts from this exact sequence, which is what
// makes baseline and trial snapshots comparable.
func (s *Session) BringUp(d ClockDomain) error {
	if err := s.ctrl.Restart(); err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	asserted := sim.Bit(!d.ResetActiveLow)
	if err := s.ctrl.Force(d.Reset, asserted); err != nil {
		return fmt.Errorf("assert reset %s: %w", d.Reset, err)
	}
	for i := 0; i < 2; i++ {
		if err := s.ctrl.AdvanceToNextEdge(d.Clock); err != nil {
			s.ctrl.Release(d.Reset)
			return fmt.Errorf("bring-up edge %d: %w", i+1, err)
		}
	}
	s.ctrl.Release(d.Reset)
	for i := 0; i < s.settleEdges; i++ {
		if err := s.ctrl.AdvanceToNextEdge(d.Clock); err != nil {
			return fmt.Errorf("settle edge %d: %w", i+1, err)
		}
	}
	return nil
}

// preEdgeSteps returns how far a trial advances after bring-up so the
// force lands while combinational logic has settled but before the edge.
func (s *Session) preEdgeSteps(d ClockDomain) int {
	if s.preEdgeAdvance > 0 {
		return s.preEdgeAdvance
	}
	if d.Period > 1 {
		return d.Period - 1
	}
	return 1
}

// snapshot captures the current values of the given signals. Unreadable
// signals are omitted, not reported.
func (s *Session) snapshot(signals []string) Snapshot {
	snap := make(Snapshot, len(signals))
	for _, sig := range signals {
		v, err := s.ctrl.Read(sig)
		if err != nil {
			continue
		}
		snap[sig] = v
	}
	return snap
}
