package nbody

// Step advances the state through one AH18 step of size h, propagating the
// accumulated Jacobian and the time derivative of the state. pair selects,
// per body pair, the fast-kick path (true) over the Kepler-drift path
// (false); it must be symmetric.
func Step(s *State, d *Derivatives, h float64, pair [][]bool) {
	stepAH18(s, d, h, pair, true, true)
}

// StepJacobian is Step without the time-derivative accounting.
func StepJacobian(s *State, d *Derivatives, h float64, pair [][]bool) {
	stepAH18(s, d, h, pair, true, false)
}

// StepDqdt maintains only dqdt, using the local Jacobians as scratch. It
// shares the Jacobian-propagating step's time-derivative path, which is the
// authoritative one; the global Jacobian accumulation is skipped.
func StepDqdt(s *State, d *Derivatives, h float64, pair [][]bool) {
	stepAH18(s, d, h, pair, false, true)
}

// StepNoGrad advances positions, velocities and their compensated
// companions only.
func StepNoGrad(s *State, h float64, pair [][]bool) {
	stepAH18(s, nil, h, pair, false, false)
}

func stepAH18(s *State, d *Derivatives, h float64, pair [][]bool, doJac, doDqdt bool) {
	grad := doJac || doDqdt
	n := s.N
	h2 := 0.5 * h
	h6 := h / 6

	if grad {
		d.JacKick.Zero()
		d.JacPhi.Zero()
		for i := range d.DqdtKick {
			d.DqdtKick[i] = 0
			d.DqdtPhi[i] = 0
		}
	}

	driftStep(s, h2)
	if doJac {
		driftGrad(s, h2)
	}
	if doDqdt {
		driftDqdt(s, h2)
	}

	kickFast(s, d, h6, pair, grad)
	if grad {
		foldLocal(s, d, d.JacKick, d.DqdtKick, 1.0/6, doJac, doDqdt)
	}

	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if pair[i][j] {
				continue
			}
			if keplerDriftPair(s, d, i, j, h2, true, grad) {
				foldPair(s, d, i, j, doJac, doDqdt)
			}
		}
	}

	phic(s, d, h, pair, grad)
	phisalpha(s, d, h, 2, pair, grad)
	if grad {
		foldLocal(s, d, d.JacPhi, d.DqdtPhi, 1, doJac, doDqdt)
	}

	for i := n - 2; i >= 0; i-- {
		for j := n - 1; j > i; j-- {
			if pair[i][j] {
				continue
			}
			if keplerDriftPair(s, d, i, j, h2, false, grad) {
				foldPair(s, d, i, j, doJac, doDqdt)
			}
		}
	}

	if grad {
		d.JacKick.Zero()
		for i := range d.DqdtKick {
			d.DqdtKick[i] = 0
		}
	}
	kickFast(s, d, h6, pair, grad)
	if grad {
		foldLocal(s, d, d.JacKick, d.DqdtKick, 1.0/6, doJac, doDqdt)
	}

	driftStep(s, h2)
	if doJac {
		driftGrad(s, h2)
	}
	if doDqdt {
		driftDqdt(s, h2)
	}

	s.T[0], s.Terr[0] = CompSum(s.T[0], s.Terr[0], h)
}

// foldLocal folds an identity-omitted local Jacobian and its substep time
// derivative into the global accumulators: dqdt gains dqdtLoc*scale plus
// jacLoc applied to the previous dqdt, and jacStep gains jacLoc*jacStep,
// both with compensated summation. scale is the derivative of the
// operator's substep with respect to the full step.
func foldLocal(s *State, d *Derivatives, jacLoc *Matrix, dqdtLoc []float64, scale float64, doJac, doDqdt bool) {
	if doDqdt {
		matVec(jacLoc, s.Dqdt, d.Tmp7n)
		for i := range d.Tmp7n {
			d.Tmp7n[i] += dqdtLoc[i] * scale
		}
		CompSumVec(s.Dqdt, s.DqdtErr, d.Tmp7n)
	}
	if doJac {
		d.JacCopy.Mul(jacLoc, s.JacStep)
		CompSumMatrix(s.JacStep, s.JacErr, d.JacCopy)
	}
}

// foldPair folds one pair's 14x14 Jacobian into the 14 affected rows of the
// global Jacobian, and its time-derivative block into dqdt. The pair
// Jacobian carries its identity, so the compensated folds add the product
// minus the previous rows.
func foldPair(s *State, d *Derivatives, i, j int, doJac, doDqdt bool) {
	rows := [2]int{7 * i, 7 * j}
	if doDqdt {
		for b, base := range rows {
			for r := 0; r < 7; r++ {
				d.DqdtTmp1[7*b+r] = s.Dqdt[base+r]
			}
		}
		for r := 0; r < 14; r++ {
			sum := 0.5 * d.DqdtIJ[r]
			row := d.JacIJ.Row(r)
			for c := 0; c < 14; c++ {
				sum += row[c] * d.DqdtTmp1[c]
			}
			d.Tmp14[r] = sum
		}
		for b, base := range rows {
			for r := 0; r < 7; r++ {
				delta := d.Tmp14[7*b+r] - s.Dqdt[base+r]
				s.Dqdt[base+r], s.DqdtErr[base+r] = CompSum(s.Dqdt[base+r], s.DqdtErr[base+r], delta)
			}
		}
	}
	if !doJac {
		return
	}
	cols := s.JacStep.Cols
	for b, base := range rows {
		for r := 0; r < 7; r++ {
			copy(d.JacTmp1.Row(7*b+r), s.JacStep.Row(base+r))
			copy(d.JacErr1.Row(7*b+r), s.JacErr.Row(base+r))
		}
	}
	d.JacTmp2.Mul(d.JacIJ, d.JacTmp1)
	for r := 0; r < 14; r++ {
		src := d.JacTmp2.Row(r)
		old := d.JacTmp1.Row(r)
		oerr := d.JacErr1.Row(r)
		for c := 0; c < cols; c++ {
			old[c], oerr[c] = CompSum(old[c], oerr[c], src[c]-old[c])
		}
	}
	for b, base := range rows {
		for r := 0; r < 7; r++ {
			copy(s.JacStep.Row(base+r), d.JacTmp1.Row(7*b+r))
			copy(s.JacErr.Row(base+r), d.JacErr1.Row(7*b+r))
		}
	}
}

// matVec computes y = a*x.
func matVec(a *Matrix, x, y []float64) {
	for r := 0; r < a.Rows; r++ {
		row := a.Row(r)
		sum := 0.0
		for c, v := range row {
			if v != 0 {
				sum += v * x[c]
			}
		}
		y[r] = sum
	}
}
