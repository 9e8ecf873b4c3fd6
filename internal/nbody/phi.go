package nbody

import "math"

// accumAccel adds body j's Newtonian pull on body i (and vice versa) to the
// acceleration scratch and, with grad set, to the dadq tensor of
// acceleration partials with respect to every position and mass.
func accumAccel(s *State, d *Derivatives, i, j int, grad bool) {
	r2 := 0.0
	for p := 0; p < NDIM; p++ {
		s.rij[p] = s.X[NDIM*i+p] - s.X[NDIM*j+p]
		r2 += s.rij[p] * s.rij[p]
	}
	r3inv := 1 / (r2 * math.Sqrt(r2))
	fac := s.G * r3inv
	mi, mj := s.M[i], s.M[j]
	for p := 0; p < NDIM; p++ {
		s.acc[NDIM*i+p] -= fac * mj * s.rij[p]
		s.acc[NDIM*j+p] += fac * mi * s.rij[p]
	}
	if !grad {
		return
	}
	fac5 := 3 * fac / r2
	for p := 0; p < NDIM; p++ {
		for c := 0; c < NDIM; c++ {
			dk := fac5*s.rij[p]*s.rij[c] - boolF(p == c)*fac
			d.dadq[p][i][c][i] += mj * dk
			d.dadq[p][i][c][j] -= mj * dk
			d.dadq[p][j][c][i] -= mi * dk
			d.dadq[p][j][c][j] += mi * dk
		}
		d.dadq[p][i][3][j] -= fac * s.rij[p]
		d.dadq[p][j][3][i] += fac * s.rij[p]
	}
}

// zeroAccel clears the acceleration scratch and, when grad is set, dadq.
func zeroAccel(s *State, d *Derivatives, grad bool) {
	for i := range s.acc {
		s.acc[i] = 0
	}
	if grad {
		d.zeroDadq()
	}
}

// applyCorrector applies the 4th-order pairwise correction impulse
//
//	m_other * fac1 * (rij*fac2 - r^2*aij)
//
// for one pair, together with its Jacobian and time-derivative
// contributions. fac2 carries the operator-specific scalar (3*ardot for the
// kick corrector, 2*G*(mi+mj)/r + 3*ardot for the Kepler corrector);
// dfac2m is the direct mass derivative of fac2 (zero for the kick
// corrector). The corrector scales as h^3, so its time derivative is three
// times the impulse over h.
func applyCorrector(s *State, d *Derivatives, i, j int, h, coeff, r2, r1, fac2, dfac2m float64, kepler, grad bool) {
	mi, mj := s.M[i], s.M[j]
	fac1 := coeff / (r2 * r2 * r1)
	for p := 0; p < NDIM; p++ {
		t := fac1 * (s.rij[p]*fac2 - r2*s.aij[p])
		vi, vj := NDIM*i+p, NDIM*j+p
		s.V[vi], s.Verr[vi] = CompSum(s.V[vi], s.Verr[vi], mj*t)
		s.V[vj], s.Verr[vj] = CompSum(s.V[vj], s.Verr[vj], -mi*t)
		if !grad {
			continue
		}
		ri := 7*i + NDIM + p
		rj := 7*j + NDIM + p
		d.DqdtPhi[ri] += 3 * mj * t / h
		d.DqdtPhi[rj] -= 3 * mi * t / h
		jp := d.JacPhi
		// Direct dependence on the separation vector.
		for c := 0; c < NDIM; c++ {
			dfac1 := -5 * fac1 * s.rij[c] / r2
			dfac2 := 3 * s.aij[c]
			if kepler {
				dfac2 -= 2 * s.G * (mi + mj) * s.rij[c] / (r2 * r1)
			}
			dt := dfac1*(s.rij[p]*fac2-r2*s.aij[p]) +
				fac1*(boolF(p == c)*fac2+s.rij[p]*dfac2-2*s.rij[c]*s.aij[p])
			jp.Set(ri, 7*i+c, jp.At(ri, 7*i+c)+mj*dt)
			jp.Set(ri, 7*j+c, jp.At(ri, 7*j+c)-mj*dt)
			jp.Set(rj, 7*i+c, jp.At(rj, 7*i+c)-mi*dt)
			jp.Set(rj, 7*j+c, jp.At(rj, 7*j+c)+mi*dt)
		}
		// Dependence through the accelerations of every body.
		for l := 0; l < s.N; l++ {
			for pq := 0; pq < 4; pq++ {
				da := d.dadq[p][i][pq][l] - d.dadq[p][j][pq][l]
				dd := d.dotdadq[pq][l]
				if da == 0 && dd == 0 {
					continue
				}
				dt := fac1 * (3*s.rij[p]*dd - r2*da)
				col := 7*l + pq
				if pq == 3 {
					col = 7*l + 6
				}
				jp.Set(ri, col, jp.At(ri, col)+mj*dt)
				jp.Set(rj, col, jp.At(rj, col)-mi*dt)
			}
		}
		// Direct mass dependence of fac2, and the outer mass weights.
		if dfac2m != 0 {
			dt := fac1 * s.rij[p] * dfac2m
			jp.Set(ri, 7*i+6, jp.At(ri, 7*i+6)+mj*dt)
			jp.Set(ri, 7*j+6, jp.At(ri, 7*j+6)+mj*dt)
			jp.Set(rj, 7*i+6, jp.At(rj, 7*i+6)-mi*dt)
			jp.Set(rj, 7*j+6, jp.At(rj, 7*j+6)-mi*dt)
		}
		jp.Set(ri, 7*j+6, jp.At(ri, 7*j+6)+t)
		jp.Set(rj, 7*i+6, jp.At(rj, 7*i+6)-t)
	}
}

// pairGeometry recomputes rij, aij and the dotdadq contraction for one
// corrector pair, returning r^2, r and aij.rij.
func pairGeometry(s *State, d *Derivatives, i, j int, grad bool) (r2, r1, ardot float64) {
	for p := 0; p < NDIM; p++ {
		s.rij[p] = s.X[NDIM*i+p] - s.X[NDIM*j+p]
		s.aij[p] = s.acc[NDIM*i+p] - s.acc[NDIM*j+p]
		r2 += s.rij[p] * s.rij[p]
		ardot += s.aij[p] * s.rij[p]
	}
	r1 = math.Sqrt(r2)
	if grad {
		for pq := 0; pq < 4; pq++ {
			row := d.dotdadq[pq]
			for l := 0; l < s.N; l++ {
				sum := 0.0
				for p := 0; p < NDIM; p++ {
					sum += s.rij[p] * (d.dadq[p][i][pq][l] - d.dadq[p][j][pq][l])
				}
				row[l] = sum
			}
		}
	}
	return
}

// phic applies the correction operator for the kick-only pairs: the
// remaining 2h/3 of their direct kick plus the h^3 gradient correction
// built from the kick-network accelerations.
func phic(s *State, d *Derivatives, h float64, pair [][]bool, grad bool) {
	n := s.N
	zeroAccel(s, d, grad)
	h23 := 2 * h / 3
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if !pair[i][j] {
				continue
			}
			accumAccel(s, d, i, j, grad)
			// accumAccel left rij for this pair in scratch.
			r2 := 0.0
			for p := 0; p < NDIM; p++ {
				r2 += s.rij[p] * s.rij[p]
			}
			r3inv := 1 / (r2 * math.Sqrt(r2))
			fac := h23 * s.G * r3inv
			mi, mj := s.M[i], s.M[j]
			for p := 0; p < NDIM; p++ {
				vi, vj := NDIM*i+p, NDIM*j+p
				s.V[vi], s.Verr[vi] = CompSum(s.V[vi], s.Verr[vi], -fac*mj*s.rij[p])
				s.V[vj], s.Verr[vj] = CompSum(s.V[vj], s.Verr[vj], fac*mi*s.rij[p])
			}
			if !grad {
				continue
			}
			jp := d.JacPhi
			fac2 := 3 * fac / r2
			for p := 0; p < NDIM; p++ {
				ri := 7*i + NDIM + p
				rj := 7*j + NDIM + p
				for c := 0; c < NDIM; c++ {
					dk := fac2*s.rij[p]*s.rij[c] - boolF(p == c)*fac
					jp.Set(ri, 7*i+c, jp.At(ri, 7*i+c)+mj*dk)
					jp.Set(ri, 7*j+c, jp.At(ri, 7*j+c)-mj*dk)
					jp.Set(rj, 7*i+c, jp.At(rj, 7*i+c)-mi*dk)
					jp.Set(rj, 7*j+c, jp.At(rj, 7*j+c)+mi*dk)
				}
				jp.Set(ri, 7*j+6, jp.At(ri, 7*j+6)-fac*s.rij[p])
				jp.Set(rj, 7*i+6, jp.At(rj, 7*i+6)+fac*s.rij[p])
				d.DqdtPhi[ri] += -fac * mj * s.rij[p] / h
				d.DqdtPhi[rj] += fac * mi * s.rij[p] / h
			}
		}
	}
	// Corrector potential -(h^2/12) sum_l m_l |a_l|^2 over the kick
	// network, applied as a kick over h.
	coeff := h * h * h * s.G / 6
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if !pair[i][j] {
				continue
			}
			r2, r1, ardot := pairGeometry(s, d, i, j, grad)
			applyCorrector(s, d, i, j, h, coeff, r2, r1, 3*ardot, 0, false, grad)
		}
	}
}

// phisalpha applies the correction operator for the Kepler pairs, with the
// 2*G*(mi+mj)/r term that cancels the corrector exactly for an isolated
// two-body system. alpha is the operator-split weight (2 in the AH18
// composition).
func phisalpha(s *State, d *Derivatives, h, alpha float64, pair [][]bool, grad bool) {
	n := s.N
	zeroAccel(s, d, grad)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if !pair[i][j] {
				accumAccel(s, d, i, j, grad)
			}
		}
	}
	// Same corrector potential over the Kepler network, with each pair's
	// own two-body contribution subtracted through the 2*G*(mi+mj)/r term
	// since the Kepler solve already handles it exactly.
	coeff := alpha * h * h * h * s.G / 12
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if pair[i][j] {
				continue
			}
			r2, r1, ardot := pairGeometry(s, d, i, j, grad)
			fac2 := 2*s.G*(s.M[i]+s.M[j])/r1 + 3*ardot
			applyCorrector(s, d, i, j, h, coeff, r2, r1, fac2, 2*s.G/r1, true, grad)
		}
	}
}
