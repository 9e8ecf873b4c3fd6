package nbody

// driftStep drifts every position by h times its velocity, folding through
// the compensated residuals.
func driftStep(s *State, h float64) {
	for i := 0; i < NDIM*s.N; i++ {
		s.X[i], s.Xerr[i] = CompSum(s.X[i], s.Xerr[i], h*s.V[i])
	}
}

// driftGrad applies the drift to the accumulated Jacobian: every position
// row picks up h times the matching velocity row. Velocity and mass rows
// are untouched.
func driftGrad(s *State, h float64) {
	jac, jerr := s.JacStep, s.JacErr
	for i := 0; i < s.N; i++ {
		for p := 0; p < NDIM; p++ {
			row := 7*i + p
			xr, xe := jac.Row(row), jerr.Row(row)
			vr := jac.Row(row + NDIM)
			for c := range xr {
				xr[c], xe[c] = CompSum(xr[c], xe[c], h*vr[c])
			}
		}
	}
}

// driftDqdt folds the drift's time derivative into dqdt: each position
// entry gains half the body's velocity (the drift covers half the step)
// plus the drift applied to the velocity entries.
func driftDqdt(s *State, h2 float64) {
	for i := 0; i < s.N; i++ {
		for p := 0; p < NDIM; p++ {
			row := 7*i + p
			delta := 0.5*s.V[NDIM*i+p] + h2*s.Dqdt[row+NDIM]
			s.Dqdt[row], s.DqdtErr[row] = CompSum(s.Dqdt[row], s.DqdtErr[row], delta)
		}
	}
}
