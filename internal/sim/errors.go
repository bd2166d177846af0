package sim

import (
	"errors"
	"fmt"
)

// StallError reports a clock that produced no rising edge within the
// controller's wait bound. A stalled clock makes every subsequent trial in
// its domain meaningless, so callers treat it as fatal for the domain.
type StallError struct {
	// Clock is the hierarchical path of the clock that stalled.
	Clock string

	// Waited is the number of time steps the controller waited.
	Waited int
}

func (e *StallError) Error() string {
	return fmt.Sprintf("clock %s produced no edge within %d steps", e.Clock, e.Waited)
}

// UnreadableError reports a signal whose value cannot be sampled.
type UnreadableError struct {
	Signal string
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("signal %s is not readable", e.Signal)
}

// UnforceableError reports a signal whose value cannot be overridden.
type UnforceableError struct {
	Signal string
	Reason string
}

func (e *UnforceableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("signal %s is not forceable: %s", e.Signal, e.Reason)
	}
	return fmt.Sprintf("signal %s is not forceable", e.Signal)
}

// IsStall reports whether err is (or wraps) a StallError.
func IsStall(err error) bool {
	var se *StallError
	return errors.As(err, &se)
}

// IsUnreadable reports whether err is (or wraps) an UnreadableError.
func IsUnreadable(err error) bool {
	var ue *UnreadableError
	return errors.As(err, &ue)
}

// IsUnforceable reports whether err is (or wraps) an UnforceableError.
func IsUnforceable(err error) bool {
	var ue *UnforceableError
	return errors.As(err, &ue)
}
