// Package metrics provides conserved-quantity observers for integration
// runs: total energy, momenta, and relative energy drift.
package metrics

import (
	"math"

	"github.com/san-kum/symgrad/internal/nbody"
)

// Energy returns the total mechanical energy of the state, kinetic plus
// pairwise Newtonian potential.
func Energy(s *nbody.State) float64 {
	e := 0.0
	for i := 0; i < s.N; i++ {
		v2 := 0.0
		for p := 0; p < 3; p++ {
			v2 += s.V[3*i+p] * s.V[3*i+p]
		}
		e += 0.5 * s.M[i] * v2
		for j := i + 1; j < s.N; j++ {
			r2 := 0.0
			for p := 0; p < 3; p++ {
				d := s.X[3*i+p] - s.X[3*j+p]
				r2 += d * d
			}
			e -= s.G * s.M[i] * s.M[j] / math.Sqrt(r2)
		}
	}
	return e
}

// Momentum returns the total linear momentum vector.
func Momentum(s *nbody.State) [3]float64 {
	var mom [3]float64
	for i := 0; i < s.N; i++ {
		for p := 0; p < 3; p++ {
			mom[p] += s.M[i] * s.V[3*i+p]
		}
	}
	return mom
}

// AngularMomentum returns the total angular momentum vector about the
// origin.
func AngularMomentum(s *nbody.State) [3]float64 {
	var l [3]float64
	for i := 0; i < s.N; i++ {
		x, y, z := s.X[3*i], s.X[3*i+1], s.X[3*i+2]
		vx, vy, vz := s.V[3*i], s.V[3*i+1], s.V[3*i+2]
		l[0] += s.M[i] * (y*vz - z*vy)
		l[1] += s.M[i] * (z*vx - x*vz)
		l[2] += s.M[i] * (x*vy - y*vx)
	}
	return l
}

// EnergyDrift tracks the largest relative excursion of the total energy
// from its value at the first observation.
type EnergyDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(s *nbody.State) {
	energy := Energy(s)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++
	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
