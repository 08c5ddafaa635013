// Package sim provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of autonomous ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepper interface
//   - [Simulator]: orchestrates a single run
//   - [Ensemble]: parallel runs over many initial conditions
//
// # Example
//
//	dyn := models.NewLotkaVolterra()
//	integ := integrators.NewRK4()
//	s := sim.New(dyn, integ)
//	result, _ := s.Run(ctx, x0, cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel simulations,
// use [Ensemble], which builds one Simulator per run.
package sim
