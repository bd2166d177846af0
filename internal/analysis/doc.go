// Package analysis discovers, empirically, the directed dependency graph
// among the state-holding signals of a synchronous circuit, and finds
// feedback cycles in it.
//
// The method is perturb-and-observe. For every clock domain:
//
//  1. DiscoverStateRegisters classifies which signals hold state, by
//     watching which values toggle across rising clock edges during a
//     warmup window.
//  2. BuildDependencyGraph runs one trial per discovered register: restart
//     from time zero, replay the standard bring-up, force a perturbed value
//     onto the register immediately before a clock edge, and record which
//     registers' post-edge values differ from an unperturbed baseline.
//  3. StronglyConnectedComponents runs Tarjan's algorithm over the
//     resulting graph; components with more than one member are feedback.
//
// Everything is sampling-based and can under-approximate: a register that
// never toggles in the warmup window is missed, and the perturbation
// policies deliberately probe a small part of each value's range. That
// trade is intentional; the output is a map for test planning, not a proof.
//
// DETERMINISM:
//
// Every trial restarts the simulation and replays an identical bring-up, so
// comparisons are against a reproducible baseline, never residual state
// from a prior trial. Registers are processed in sorted order, successor
// sets preserve that order, and the random perturbation policy is seeded.
// Two runs against the same deterministic circuit produce identical output.
//
// A Session owns exclusive access to one sim.Controller; all interaction
// within a domain is strictly sequential. Independent domains may run in
// parallel only when each owns its own controller (see AnalyzeDomains).
package analysis
