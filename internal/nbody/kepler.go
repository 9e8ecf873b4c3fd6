package nbody

import "math"

const newtonMax = 20

// cubic1 returns a real root of x^3 + a*x^2 + b*x + c = 0.
func cubic1(a, b, c float64) float64 {
	a3 := a / 3
	q := a3*a3 - b/3
	r := a3*a3*a3 + 0.5*(c-a3*b)
	if r*r < q*q*q {
		theta := math.Acos(r / math.Sqrt(q*q*q))
		return -2*math.Sqrt(q)*math.Cos(theta/3) - a3
	}
	aa := -math.Copysign(math.Cbrt(math.Abs(r)+math.Sqrt(r*r-q*q*q)), r)
	bb := 0.0
	if aa != 0 {
		bb = q / aa
	}
	return aa + bb - a3
}

// solveGamma solves the universal Kepler equation
//
//	k*gamma + c2*sx*cx + c3*sx^2 + c4 = 0
//
// for the half-anomaly gamma, where sx, cx are sin/cos (sinh/cosh for
// unbound motion) of gamma/2. The initial guess comes from the cubic
// truncation of the equation, falling back to a quadratic and then a linear
// one as the leading coefficients vanish. Newton iteration stops when an
// iterate repeats one of the previous two (a fixed point at working
// precision) or after newtonMax iterations; a stale gamma is accepted
// rather than reported.
func solveGamma(k, h, r0, r0inv, eta, beta, sqb, signb float64) float64 {
	zeta := k - r0*beta
	var gamma float64
	switch {
	case zeta != 0:
		zinv := 6 / zeta
		gamma = cubic1(0.5*eta*sqb*zinv, r0*beta*signb*zinv, -h*beta*sqb*signb*zinv)
	case eta != 0:
		reta := r0 / eta
		disc := reta*reta + 2*h/eta
		if disc > 0 {
			gamma = sqb * (-reta + math.Sqrt(disc))
		} else {
			gamma = h * r0inv * sqb
		}
	default:
		gamma = h * r0inv * sqb
	}

	c2 := -2 * zeta
	c3 := 2 * eta * signb * sqb
	c4 := -sqb * h * beta

	gamma1 := 2 * gamma
	gamma2 := 3 * gamma
	for iter := 0; iter < newtonMax; iter++ {
		gamma2 = gamma1
		gamma1 = gamma
		sx, cx := sincosg(0.5*gamma, signb)
		f := k*gamma + c2*sx*cx + c3*sx*sx + c4
		// df/dgamma = beta*r, written out in the same variables.
		df := k + 0.5*c2*(1-2*signb*sx*sx) + c3*sx*cx
		gamma -= f / df
		if gamma == gamma1 || gamma == gamma2 {
			break
		}
	}
	return gamma
}

// kepScalars holds the converged per-pair scalar state shared by the value
// and Jacobian paths.
type kepScalars struct {
	r0, r0inv, eta, beta, sqb, signb, zeta float64
	r, rinv                                float64
	g                                      gvals
	// Coefficients of the increment on the original (x0, v0):
	// delx = fm1*x0 + gmh*v0, delv = fdot*x0 + gdotm1*v0.
	fm1, gmh, fdot, gdotm1 float64
}

// solveKepler drifts x0 by -h*v0 when driftFirst is set, solves for gamma,
// and assembles the four increment coefficients of the Kepler-minus-drift
// map. xs receives the (possibly drifted) position the scalars refer to.
func solveKepler(k, h float64, driftFirst bool, x0, v0 *[NDIM]float64, xs *[NDIM]float64) kepScalars {
	var ks kepScalars
	for p := 0; p < NDIM; p++ {
		if driftFirst {
			xs[p] = x0[p] - h*v0[p]
		} else {
			xs[p] = x0[p]
		}
	}
	v2 := 0.0
	for p := 0; p < NDIM; p++ {
		ks.r0 += xs[p] * xs[p]
		ks.eta += xs[p] * v0[p]
		v2 += v0[p] * v0[p]
	}
	ks.r0 = math.Sqrt(ks.r0)
	ks.r0inv = 1 / ks.r0
	ks.beta = 2*k*ks.r0inv - v2
	ks.signb = 1.0
	if ks.beta < 0 {
		ks.signb = -1
	}
	ks.sqb = math.Sqrt(ks.signb * ks.beta)
	ks.zeta = k - ks.r0*ks.beta

	gamma := solveGamma(k, h, ks.r0, ks.r0inv, ks.eta, ks.beta, ks.sqb, ks.signb)
	ks.g = newGvals(gamma, ks.beta, ks.sqb)
	g := &ks.g
	ks.r = ks.r0*g.g0 + ks.eta*g.g1 + k*g.g2
	ks.rinv = 1 / ks.r

	if driftFirst {
		ks.fm1 = -k * g.g2 * ks.r0inv
		ks.gmh = k * ks.r0inv * (ks.r0*g.h4() + ks.eta*g.g2*g.g2 + k*g.g2*g.g3)
		ks.fdot = -k * g.g1 * ks.r0inv * ks.rinv
		ks.gdotm1 = k * ks.r0inv * ks.rinv * (ks.r0*g.h5() + ks.eta*g.g1*g.g2 + k*g.g1*g.g3)
	} else {
		ks.fm1 = k * ks.r0inv * ks.rinv * (ks.r0*g.h6() + k*g.h7())
		ks.gmh = k * ks.rinv * (ks.r0*g.h8() - ks.eta*g.h7())
		ks.fdot = -k * g.g1 * ks.r0inv * ks.rinv
		ks.gdotm1 = -k * g.g2 * ks.rinv
	}
	return ks
}

// delxvGamma advances the relative two-body state (x0, v0) through the
// combined Kepler/linear-drift operator over step h and writes the six
// increments (delta x, delta v) into delxv. k is G times the pair's total
// mass. driftFirst selects whether the backwards linear drift precedes or
// follows the Kepler advance.
func delxvGamma(k, h float64, driftFirst bool, x0, v0 *[NDIM]float64, xs *[NDIM]float64, delxv *[6]float64) {
	ks := solveKepler(k, h, driftFirst, x0, v0, xs)
	for p := 0; p < NDIM; p++ {
		delxv[p] = ks.fm1*x0[p] + ks.gmh*v0[p]
		delxv[NDIM+p] = ks.fdot*x0[p] + ks.gdotm1*v0[p]
	}
}
