package nbody

import "math"

// kickFast applies the pairwise 1/r^3 impulse over substep h to every pair
// flagged in the pair matrix. With grad set it accumulates the kick's local
// Jacobian into d.JacKick (identity omitted) and the derivative of the
// impulses with respect to the substep into d.DqdtKick; the caller zeroes
// both beforehand and rescales DqdtKick by d(substep)/d(step).
func kickFast(s *State, d *Derivatives, h float64, pair [][]bool, grad bool) {
	n := s.N
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if !pair[i][j] {
				continue
			}
			r2 := 0.0
			for p := 0; p < NDIM; p++ {
				s.rij[p] = s.X[NDIM*i+p] - s.X[NDIM*j+p]
				r2 += s.rij[p] * s.rij[p]
			}
			r3inv := 1 / (r2 * math.Sqrt(r2))
			fac := h * s.G * r3inv
			mi, mj := s.M[i], s.M[j]
			for p := 0; p < NDIM; p++ {
				vi, vj := NDIM*i+p, NDIM*j+p
				s.V[vi], s.Verr[vi] = CompSum(s.V[vi], s.Verr[vi], -fac*mj*s.rij[p])
				s.V[vj], s.Verr[vj] = CompSum(s.V[vj], s.Verr[vj], fac*mi*s.rij[p])
			}
			if !grad {
				continue
			}
			jk := d.JacKick
			fac2 := 3 * fac / r2
			for p := 0; p < NDIM; p++ {
				ri := 7*i + NDIM + p
				rj := 7*j + NDIM + p
				for c := 0; c < NDIM; c++ {
					// d(impulse)/d(position): r^-3 diagonal plus the
					// 3 r^-5 rij outer product.
					dk := fac2*s.rij[p]*s.rij[c] - boolF(p == c)*fac
					jk.Set(ri, 7*i+c, jk.At(ri, 7*i+c)+mj*dk)
					jk.Set(ri, 7*j+c, jk.At(ri, 7*j+c)-mj*dk)
					jk.Set(rj, 7*i+c, jk.At(rj, 7*i+c)-mi*dk)
					jk.Set(rj, 7*j+c, jk.At(rj, 7*j+c)+mi*dk)
				}
				// Cross-mass terms.
				jk.Set(ri, 7*j+6, jk.At(ri, 7*j+6)-fac*s.rij[p])
				jk.Set(rj, 7*i+6, jk.At(rj, 7*i+6)+fac*s.rij[p])
				// d(impulse)/d(substep).
				d.DqdtKick[ri] += -s.G * mj * s.rij[p] * r3inv
				d.DqdtKick[rj] += s.G * mi * s.rij[p] * r3inv
			}
		}
	}
}

func boolF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
