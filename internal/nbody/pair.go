package nbody

// keplerDriftPair advances bodies i and j through the exact Kepler/drift
// operator over step h, splitting the relative increment by mass weights.
// With grad set it also fills d.JacIJ with the full 14x14 local Jacobian
// (packed rows/cols: body i then body j, each x,y,z,vx,vy,vz,m) and
// d.DqdtIJ with the derivative of the update with respect to h.
//
// Reports false when k = G*(mi+mj) is zero, in which case nothing
// is touched and the caller skips the Jacobian fold.
func keplerDriftPair(s *State, d *Derivatives, i, j int, h float64, driftFirst, grad bool) bool {
	mi, mj := s.M[i], s.M[j]
	mtot := mi + mj
	k := s.G * mtot
	if k == 0 {
		return false
	}
	for p := 0; p < NDIM; p++ {
		s.x0[p] = s.X[NDIM*i+p] - s.X[NDIM*j+p]
		s.v0[p] = s.V[NDIM*i+p] - s.V[NDIM*j+p]
	}

	if grad {
		jacDelxvGamma(s.G, k, h, driftFirst, &s.x0, &s.v0, &s.rij, &s.delxv, d.JacKepler, &d.JacMass)
	} else {
		delxvGamma(k, h, driftFirst, &s.x0, &s.v0, &s.rij, &s.delxv)
	}

	mui := mi / mtot
	muj := mj / mtot
	for p := 0; p < NDIM; p++ {
		ii, jj := NDIM*i+p, NDIM*j+p
		s.X[ii], s.Xerr[ii] = CompSum(s.X[ii], s.Xerr[ii], muj*s.delxv[p])
		s.X[jj], s.Xerr[jj] = CompSum(s.X[jj], s.Xerr[jj], -mui*s.delxv[p])
		s.V[ii], s.Verr[ii] = CompSum(s.V[ii], s.Verr[ii], muj*s.delxv[NDIM+p])
		s.V[jj], s.Verr[jj] = CompSum(s.V[jj], s.Verr[jj], -mui*s.delxv[NDIM+p])
	}
	if !grad {
		return true
	}

	jac := d.JacIJ
	jac.Identity()
	jk := d.JacKepler
	minv := 1 / mtot
	for r := 0; r < 6; r++ {
		// Body i rows: state_i + muj*delta.
		for c := 0; c < 6; c++ {
			jac.Set(r, c, jac.At(r, c)+muj*jk.At(r, c))
			jac.Set(r, 7+c, -muj*jk.At(r, c))
		}
		jac.Set(r, 6, muj*d.JacMass[r])
		jac.Set(r, 13, s.delxv[r]*minv+muj*d.JacMass[r])
		// Body j rows: state_j - mui*delta.
		for c := 0; c < 6; c++ {
			jac.Set(7+r, c, -mui*jk.At(r, c))
			jac.Set(7+r, 7+c, jac.At(7+r, 7+c)+mui*jk.At(r, c))
		}
		jac.Set(7+r, 6, -s.delxv[r]*minv-mui*d.JacMass[r])
		jac.Set(7+r, 13, -mui*d.JacMass[r])
		// Time derivative block from the h column.
		d.DqdtIJ[r] = muj * jk.At(r, 7)
		d.DqdtIJ[7+r] = -mui * jk.At(r, 7)
	}
	d.DqdtIJ[6] = 0
	d.DqdtIJ[13] = 0
	return true
}
