package sim

import "fmt"

// Value is an opaque fixed-width signal value.
//
// Values are compared only by equality. The single place the analyzer looks
// inside a Value is the perturbation rule (invert a single-bit signal, flip
// the least-significant bit of a wider one), which operates on Word.
type Value struct {
	// Bits is the declared width of the signal, 1..64.
	Bits int

	// Word holds the value in the low Bits bits. Higher bits must be zero.
	Word uint64
}

// Bit returns a single-bit Value.
func Bit(b bool) Value {
	if b {
		return Value{Bits: 1, Word: 1}
	}
	return Value{Bits: 1, Word: 0}
}

// Word returns an n-bit Value holding w masked to n bits.
func Word(n int, w uint64) Value {
	return Value{Bits: n, Word: w & Mask(n)}
}

// Mask returns a mask covering the low n bits (n in 1..64).
func Mask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(n)) - 1
}

// String renders the value as width'hHEX, e.g. "16'h002a".
func (v Value) String() string {
	return fmt.Sprintf("%d'h%0*x", v.Bits, (v.Bits+3)/4, v.Word)
}

// Controller is the simulation control surface consumed by the analyzer.
//
// A Controller fronts exactly one simulation instance. The analyzer issues
// calls strictly sequentially; implementations are not required to be safe
// for concurrent use. Simulation state is globally visible: every Read
// observes the effects of every prior Force, Release and advance.
type Controller interface {
	// Restart returns the simulation to time zero with all signals at
	// their initial values and all forces cleared.
	Restart() error

	// AdvanceToNextEdge runs the simulation until the next rising edge of
	// the named clock has been processed, including the synchronous
	// updates it triggers. The wait is bounded; if the clock never
	// toggles within the implementation's bound the call fails with a
	// *StallError.
	AdvanceToNextEdge(clock string) error

	// Read samples the current value of a signal. Signals that cannot be
	// sampled fail with an *UnreadableError.
	Read(signal string) (Value, error)

	// Force overrides a signal's value. For input and combinational
	// signals the override pins the value until Release. For registers
	// the override is a deposit: the register's own next clock-edge
	// update may overwrite it, but every read and every dependent
	// evaluation up to that edge observes the forced value.
	// Signals that cannot be overridden fail with an *UnforceableError.
	Force(signal string, v Value) error

	// Release removes a force. Releasing a signal that is not forced is
	// a no-op.
	Release(signal string)

	// AdvanceTime runs the simulation for the given number of time
	// steps without regard to clock edges.
	AdvanceTime(steps int) error

	// Signals lists every addressable signal in scope as hierarchical
	// path strings. The order is unspecified.
	Signals() []string
}
