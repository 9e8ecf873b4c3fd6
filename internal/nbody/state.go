package nbody

import "math"

// NDIM is the spatial dimension; the solver is written for 3.
const NDIM = 3

// State is the caller-owned mutable state one integration advances in
// place. Positions and velocities are flat [NDIM*N] slices indexed
// x[NDIM*i+k]; the packed derivative vector orders each body as
// (x,y,z,vx,vy,vz,m), 7 entries per body.
type State struct {
	N int
	G float64

	X []float64 // positions, NDIM*N
	V []float64 // velocities, NDIM*N
	M []float64 // masses, N
	T []float64 // current time, length 1 so it can alias composed state

	// Compensated-summation residuals, same shapes as their accumulators.
	Xerr []float64
	Verr []float64
	Terr []float64

	// JacStep is the accumulated Jacobian of the packed (x,v,m) state with
	// respect to its value at the start of the integration; starts as the
	// identity. JacInit is the change of basis from the caller's input
	// coordinates and is opaque to the stepper.
	JacStep *Matrix
	JacErr  *Matrix
	JacInit *Matrix

	// Dqdt is the derivative of the packed state with respect to elapsed
	// integration time.
	Dqdt    []float64
	DqdtErr []float64

	// Per-step scratch; contents are undefined between operations.
	rij   [NDIM]float64
	aij   [NDIM]float64
	x0    [NDIM]float64
	v0    [NDIM]float64
	delxv [6]float64
	acc   []float64 // NDIM*N accelerations for the correctors
}

// NewState builds a State for n bodies with gravitational constant g.
// Positions, velocities and masses start zeroed; JacStep and JacInit start
// as the identity.
func NewState(n int, g float64) *State {
	s := &State{
		N:       n,
		G:       g,
		X:       make([]float64, NDIM*n),
		V:       make([]float64, NDIM*n),
		M:       make([]float64, n),
		T:       make([]float64, 1),
		Xerr:    make([]float64, NDIM*n),
		Verr:    make([]float64, NDIM*n),
		Terr:    make([]float64, 1),
		JacStep: NewMatrix(7*n, 7*n),
		JacErr:  NewMatrix(7*n, 7*n),
		JacInit: NewMatrix(7*n, 7*n),
		Dqdt:    make([]float64, 7*n),
		DqdtErr: make([]float64, 7*n),
		acc:     make([]float64, NDIM*n),
	}
	s.JacStep.Identity()
	s.JacInit.Identity()
	return s
}

// SetBody sets body i's mass, position and velocity.
func (s *State) SetBody(i int, m float64, x, v [NDIM]float64) {
	s.M[i] = m
	for k := 0; k < NDIM; k++ {
		s.X[NDIM*i+k] = x[k]
		s.V[NDIM*i+k] = v[k]
	}
}

// ResetGradients restores JacStep to the identity and clears Dqdt and every
// compensated residual, without touching x, v, m or t.
func (s *State) ResetGradients() {
	s.JacStep.Identity()
	s.JacErr.Zero()
	for i := range s.Dqdt {
		s.Dqdt[i] = 0
		s.DqdtErr[i] = 0
	}
	for i := range s.Xerr {
		s.Xerr[i] = 0
		s.Verr[i] = 0
	}
	s.Terr[0] = 0
}

// IsFinite reports whether positions, velocities and the accumulated
// Jacobian are all finite. Callers use it to detect blow-up after the fact;
// the stepper itself never checks.
func (s *State) IsFinite() bool {
	for i := range s.X {
		if isNaNOrInf(s.X[i]) || isNaNOrInf(s.V[i]) {
			return false
		}
	}
	return s.JacStep.IsFinite()
}

func isNaNOrInf(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// Derivatives is the per-run scratch for gradient propagation. Allocate once
// with NewDerivatives and reuse across steps; Step zeroes what it needs.
type Derivatives struct {
	JacKick *Matrix // 7n x 7n local kick Jacobian, identity omitted
	JacPhi  *Matrix // 7n x 7n local corrector Jacobian, identity omitted
	JacCopy *Matrix // 7n x 7n matmul scratch

	JacIJ   *Matrix // 14x14 local Jacobian of one Kepler-drift pair
	JacTmp1 *Matrix // 14 x 7n submatrix copy
	JacTmp2 *Matrix // 14 x 7n product scratch
	JacErr1 *Matrix // 14 x 7n submatrix error companion

	JacKepler *Matrix    // 6x8 Kepler-drift Jacobian (cols x0,v0,k,h)
	JacMass   [6]float64 // rearranged mass derivative of the pair increment

	DqdtKick []float64   // 7n
	DqdtPhi  []float64   // 7n
	DqdtIJ   [14]float64 // pair time-derivative block
	DqdtTmp1 [14]float64
	Tmp14    [14]float64
	Tmp7n    []float64

	// dadq[k][i][p][j] = d a[k,i] / d q[p,j] with p = 0..2 position
	// components of body j and p = 3 its mass.
	dadq    [][][][]float64
	dotdadq [][]float64 // 4 x n contraction sum_k rij_k (dadq_i - dadq_j)
}

func NewDerivatives(n int) *Derivatives {
	d := &Derivatives{
		JacKick:   NewMatrix(7*n, 7*n),
		JacPhi:    NewMatrix(7*n, 7*n),
		JacCopy:   NewMatrix(7*n, 7*n),
		JacIJ:     NewMatrix(14, 14),
		JacTmp1:   NewMatrix(14, 7*n),
		JacTmp2:   NewMatrix(14, 7*n),
		JacErr1:   NewMatrix(14, 7*n),
		JacKepler: NewMatrix(6, 8),
		DqdtKick:  make([]float64, 7*n),
		DqdtPhi:   make([]float64, 7*n),
		Tmp7n:     make([]float64, 7*n),
	}
	d.dadq = make([][][][]float64, NDIM)
	for k := 0; k < NDIM; k++ {
		d.dadq[k] = make([][][]float64, n)
		for i := 0; i < n; i++ {
			d.dadq[k][i] = make([][]float64, 4)
			for p := 0; p < 4; p++ {
				d.dadq[k][i][p] = make([]float64, n)
			}
		}
	}
	d.dotdadq = make([][]float64, 4)
	for p := 0; p < 4; p++ {
		d.dotdadq[p] = make([]float64, n)
	}
	return d
}

func (d *Derivatives) zeroDadq() {
	for k := range d.dadq {
		for i := range d.dadq[k] {
			for p := range d.dadq[k][i] {
				row := d.dadq[k][i][p]
				for j := range row {
					row[j] = 0
				}
			}
		}
	}
}
