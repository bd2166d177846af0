// Package testutil provides controller test doubles for exercising the
// analyzer's skip and leak-prevention paths against otherwise healthy
// circuits.
package testutil

import "github.com/davemt/seqprobe/internal/sim"

// RestrictedController wraps a controller and denies access to chosen
// signals, simulating an engine that cannot sample or override them.
type RestrictedController struct {
	sim.Controller
	Unreadable  map[string]bool
	Unforceable map[string]bool
}

// Restrict wraps ctrl with empty deny sets.
func Restrict(ctrl sim.Controller) *RestrictedController {
	return &RestrictedController{
		Controller:  ctrl,
		Unreadable:  make(map[string]bool),
		Unforceable: make(map[string]bool),
	}
}

// Read implements sim.Controller.
func (r *RestrictedController) Read(signal string) (sim.Value, error) {
	if r.Unreadable[signal] {
		return sim.Value{}, &sim.UnreadableError{Signal: signal}
	}
	return r.Controller.Read(signal)
}

// Force implements sim.Controller.
func (r *RestrictedController) Force(signal string, v sim.Value) error {
	if r.Unforceable[signal] {
		return &sim.UnforceableError{Signal: signal, Reason: "denied by test"}
	}
	return r.Controller.Force(signal, v)
}

// ForceTracker wraps a controller and records which forces are currently
// active, so tests can prove every force comes off on every exit path.
type ForceTracker struct {
	sim.Controller
	Active    map[string]bool
	MaxActive int
}

// Track wraps ctrl with force bookkeeping.
func Track(ctrl sim.Controller) *ForceTracker {
	return &ForceTracker{Controller: ctrl, Active: make(map[string]bool)}
}

// Force implements sim.Controller.
func (t *ForceTracker) Force(signal string, v sim.Value) error {
	if err := t.Controller.Force(signal, v); err != nil {
		return err
	}
	t.Active[signal] = true
	if len(t.Active) > t.MaxActive {
		t.MaxActive = len(t.Active)
	}
	return nil
}

// Release implements sim.Controller.
func (t *ForceTracker) Release(signal string) {
	t.Controller.Release(signal)
	delete(t.Active, signal)
}
