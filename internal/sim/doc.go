// Package sim defines the control interface the analyzer consumes to drive
// a simulation of the circuit under test.
//
// The analyzer never touches a simulator directly; everything it needs is
// expressed through Controller: restart to time zero, bounded waits for
// clock edges, per-signal read, force and release, and plain time advance.
// Any engine that can honor those six operations can sit behind the
// analyzer. The in-repo rtl package provides one such engine for the demo
// fixtures; a VPI or FFI bridge to a commercial simulator would be another.
//
// ERROR TAXONOMY:
//
// The three failure modes the analyzer distinguishes are typed errors:
//
//   - StallError: a clock never produced an edge within the wait bound.
//     Fatal for the domain being analyzed.
//   - UnreadableError: a signal's value cannot be sampled. Non-fatal; the
//     affected trial is skipped.
//   - UnforceableError: a signal cannot be overridden. Non-fatal; the
//     affected trial is skipped.
//
// Use IsStall, IsUnreadable and IsUnforceable rather than type assertions;
// they see through error wrapping.
package sim
