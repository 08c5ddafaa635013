// Package analysis provides signal and stability diagnostics for
// simulated trajectories: a radix-2 FFT with power spectrum, Lyapunov
// exponent estimates for judging how chaotic a system is before
// benchmarking discovery on it, and a bifurcation sweep over a model
// parameter.
package analysis
