// Package experiment wires the full benchmark pipeline: sample
// perturbed initial conditions, simulate the ensemble, flatten the
// trajectories into an observational dataset, trace the ground-truth
// dependency graph, run constraint-based discovery on the data and
// score the recovered graph against the traced one.
//
// The Registry maps model and integrator names to constructors so the
// CLI and stored configurations can refer to systems by name.
package experiment
