// Package nbody implements a 4th-order time-reversible symplectic N-body
// integrator that propagates, alongside positions and velocities, the
// Jacobian of the state with respect to all initial conditions (positions,
// velocities, masses) and optionally the derivative with respect to time.
//
// One step is the AH18 operator split
//
//	Drift(h/2) Kick(h/6) [KeplerDrift_ij(h/2)] Phic(h)+Phisalpha(h,2)
//	[KeplerDrift_ji(h/2)] Kick(h/6) Drift(h/2)
//
// where the bracketed pair sweeps run in opposite orders so the composition
// is symmetric in time. Pairs flagged in the pair matrix are treated with
// fast kicks only; all other pairs get an exact universal-variable Kepler
// advance with its closed-form Jacobian.
//
// Every accumulator (positions, velocities, time, Jacobian, dq/dt) carries a
// compensated-summation residual so round-off behaves as a random walk
// rather than a secular drift over long integrations.
//
// Step functions allocate nothing: all scratch lives on [State] and
// [Derivatives], which the caller builds once per run.
package nbody
