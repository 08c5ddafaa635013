// Package trace derives ground-truth causal dependency graphs by
// recording the simulator's own computation on an autodiff tape.
//
// Models express their dynamics a second time over [Val] handles
// (DeriveTape); every scalar operation lands on the [Tape] with its
// local partial derivatives. The [Tracer] unrolls integrator steps on
// the tape and reverse-sweeps from each output state variable: a
// nonzero accumulated partial with respect to an input variable means
// the output causally depends on it, and becomes a directed edge
// var@k -> var@k+1 in the unrolled graph.
//
// Tracing observes execution, not source: a dependency whose partial
// happens to vanish at the traced operating point (for example a term
// multiplied by a state that is exactly zero) produces no edge.
package trace
