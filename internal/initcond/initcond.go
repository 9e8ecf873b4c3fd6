// Package initcond constructs the Cartesian state an integration starts
// from, either from explicit positions and velocities or from Keplerian
// orbital elements assembled hierarchically: each elements-specified body is
// placed on a two-body orbit around the barycenter of everything interior
// to it, and the interior bodies recoil so total momentum stays zero.
package initcond

import (
	"fmt"
	"math"

	"github.com/san-kum/symgrad/internal/nbody"
)

// Body specifies one body. Either Position/Velocity or Elements is used;
// Elements wins when present.
type Body struct {
	Name     string
	Mass     float64
	Position [3]float64
	Velocity [3]float64
	Elements *Elements
}

// Elements is a minimal Keplerian element set relative to the barycenter of
// all interior bodies. Angles are radians.
type Elements struct {
	Period       float64 // orbital period
	Eccentricity float64
	Inclination  float64
	Omega        float64 // longitude of ascending node
	MeanAnomaly  float64 // at t0; only 0 (periastron) is currently honored
}

// Setup builds the integrator state for the given bodies under
// gravitational constant g. The returned state's JacInit is the identity
// for both Cartesian and element-specified bodies; derivatives with respect
// to orbital elements are not formed.
func Setup(g float64, bodies []Body) (*nbody.State, error) {
	if len(bodies) < 2 {
		return nil, fmt.Errorf("initcond: need at least 2 bodies, got %d", len(bodies))
	}
	s := nbody.NewState(len(bodies), g)
	interior := 0.0
	for i, b := range bodies {
		if b.Mass < 0 {
			return nil, fmt.Errorf("initcond: body %q has negative mass", b.Name)
		}
		if b.Elements == nil {
			s.SetBody(i, b.Mass, b.Position, b.Velocity)
			interior += b.Mass
			continue
		}
		if i == 0 {
			return nil, fmt.Errorf("initcond: body %q: the innermost body cannot carry elements", b.Name)
		}
		x, v, err := elementsToCartesian(g, interior, b.Mass, b.Elements)
		if err != nil {
			return nil, fmt.Errorf("initcond: body %q: %w", b.Name, err)
		}
		place(s, i, b.Mass, interior, x, v)
		interior += b.Mass
	}
	return s, nil
}

// elementsToCartesian returns the relative position and velocity of a body
// of mass m at periastron of its orbit about interior mass mint.
func elementsToCartesian(g, mint, m float64, el *Elements) ([3]float64, [3]float64, error) {
	if el.Period <= 0 {
		return [3]float64{}, [3]float64{}, fmt.Errorf("period must be positive, got %g", el.Period)
	}
	if el.Eccentricity < 0 || el.Eccentricity >= 1 {
		return [3]float64{}, [3]float64{}, fmt.Errorf("eccentricity out of [0,1): %g", el.Eccentricity)
	}
	gm := g * (mint + m)
	a := math.Cbrt(gm * el.Period * el.Period / (4 * math.Pi * math.Pi))
	rp := a * (1 - el.Eccentricity)
	// Vis-viva at periastron.
	vp := math.Sqrt(gm * (1 + el.Eccentricity) / rp)

	// Periastron along the node line, velocity perpendicular in the
	// inclined orbital plane.
	co, so := math.Cos(el.Omega), math.Sin(el.Omega)
	ci, si := math.Cos(el.Inclination), math.Sin(el.Inclination)
	x := [3]float64{rp * co, rp * so, 0}
	v := [3]float64{-vp * so * ci, vp * co * ci, vp * si}
	return x, v, nil
}

// place puts body i on the relative orbit (x, v) about the barycenter of
// bodies 0..i-1 and shifts the interior bodies so the position and velocity
// of the total barycenter are unchanged.
func place(s *nbody.State, i int, m, mint float64, x, v [3]float64) {
	var bx, bv [3]float64 // interior barycenter
	for j := 0; j < i; j++ {
		for p := 0; p < 3; p++ {
			bx[p] += s.M[j] * s.X[3*j+p]
			bv[p] += s.M[j] * s.V[3*j+p]
		}
	}
	if mint > 0 {
		for p := 0; p < 3; p++ {
			bx[p] /= mint
			bv[p] /= mint
		}
	}
	mtot := mint + m
	var xi, vi [3]float64
	for p := 0; p < 3; p++ {
		xi[p] = bx[p] + x[p]*mint/mtot
		vi[p] = bv[p] + v[p]*mint/mtot
		shiftX := -x[p] * m / mtot
		shiftV := -v[p] * m / mtot
		for j := 0; j < i; j++ {
			s.X[3*j+p] += shiftX
			s.V[3*j+p] += shiftV
		}
	}
	s.SetBody(i, m, xi, vi)
}
