package nbody

// kepDerivs carries the derivatives of the scalar state with respect to one
// input, plus the explicit-k switch. ek multiplies the product-rule terms
// where the leading factor of k in each coefficient differentiates; the
// mass-derivative path sets it to zero so the delta/k part that would later
// cancel against the mass weighting is never formed in floating point.
type kepDerivs struct {
	dr0, deta, dbeta, dk, dh float64
	ek                       float64
}

// coeffDerivs chains kd through gamma and the G functions to the
// derivatives of the four increment coefficients.
func coeffDerivs(ks *kepScalars, k, h float64, driftFirst bool, kd kepDerivs) (dfm1, dgmh, dfdot, dgdotm1 float64) {
	g := &ks.g
	b1 := g.dg1dbeta()
	b2 := g.dg2dbeta()
	b3 := g.dg3dbeta()
	tb := ks.r0*b1 + ks.eta*b2 + k*b3

	ds := -(g.g1*kd.dr0 + g.g2*kd.deta + g.g3*kd.dk + tb*kd.dbeta - kd.dh) * ks.rinv
	dg0 := -ks.beta*g.g1*ds + g.dg0dbeta()*kd.dbeta
	dg1 := g.g0*ds + b1*kd.dbeta
	dg2 := g.g1*ds + b2*kd.dbeta
	dg3 := g.g2*ds + b3*kd.dbeta
	dr := kd.dr0*g.g0 + ks.r0*dg0 + kd.deta*g.g1 + ks.eta*dg1 + kd.dk*g.g2 + k*dg2

	r0inv := ks.r0inv
	rinv := ks.rinv
	drr := kd.dr0*ks.r + ks.r0*dr // d(r0*r)

	if driftFirst {
		// fm1 = -k*G2/r0
		dfm1 = -kd.ek*kd.dk*g.g2*r0inv - k*dg2*r0inv + k*g.g2*kd.dr0*r0inv*r0inv
		// gmh = (k/r0)*(h*G2 - r0*G3)
		w := h*g.g2 - ks.r0*g.g3
		dw := kd.dh*g.g2 + h*dg2 - kd.dr0*g.g3 - ks.r0*dg3
		dgmh = kd.ek*kd.dk*r0inv*w + k*r0inv*dw - k*r0inv*r0inv*kd.dr0*w
		// fdot = -k*G1/(r0*r)
		dfdot = -kd.ek*kd.dk*g.g1*r0inv*rinv - k*dg1*r0inv*rinv + k*g.g1*drr*r0inv*r0inv*rinv*rinv
		// gdotm1 = (k/(r0*r))*(h*G1 - r0*G2)
		u := h*g.g1 - ks.r0*g.g2
		du := kd.dh*g.g1 + h*dg1 - kd.dr0*g.g2 - ks.r0*dg2
		dgdotm1 = kd.ek*kd.dk*r0inv*rinv*u + k*r0inv*rinv*du - k*drr*r0inv*r0inv*rinv*rinv*u
	} else {
		// fm1 = (k/(r0*r))*(h*G1 - r*G2)
		u := h*g.g1 - ks.r*g.g2
		du := kd.dh*g.g1 + h*dg1 - dr*g.g2 - ks.r*dg2
		dfm1 = kd.ek*kd.dk*r0inv*rinv*u + k*r0inv*rinv*du - k*drr*r0inv*r0inv*rinv*rinv*u
		// gmh = (k/r)*(h*G2 - r*G3)
		w := h*g.g2 - ks.r*g.g3
		dw := kd.dh*g.g2 + h*dg2 - dr*g.g3 - ks.r*dg3
		dgmh = kd.ek*kd.dk*rinv*w + k*rinv*dw - k*rinv*rinv*dr*w
		// fdot = -k*G1/(r0*r)
		dfdot = -kd.ek*kd.dk*g.g1*r0inv*rinv - k*dg1*r0inv*rinv + k*g.g1*drr*r0inv*r0inv*rinv*rinv
		// gdotm1 = -k*G2/r
		dgdotm1 = -kd.ek*kd.dk*g.g2*rinv - k*dg2*rinv + k*g.g2*dr*rinv*rinv
	}
	return
}

// jacDelxvGamma computes the Kepler/drift increments like delxvGamma and,
// alongside them, the 6x8 Jacobian of the increments with respect to
// (x0, v0, k, h) and the rearranged mass derivative
//
//	jacMass = g * (d(delxv)/dk - delxv/k)
//
// used for the mass columns of the pair Jacobian. g is the gravitational
// constant. jac columns 0..2 are x0, 3..5 are v0, 6 is k, 7 is h.
func jacDelxvGamma(g float64, k, h float64, driftFirst bool, x0, v0 *[NDIM]float64, xs *[NDIM]float64, delxv *[6]float64, jac *Matrix, jacMass *[6]float64) {
	ks := solveKepler(k, h, driftFirst, x0, v0, xs)
	for p := 0; p < NDIM; p++ {
		delxv[p] = ks.fm1*x0[p] + ks.gmh*v0[p]
		delxv[NDIM+p] = ks.fdot*x0[p] + ks.gdotm1*v0[p]
	}

	r0inv := ks.r0inv
	r0inv3 := r0inv * r0inv * r0inv
	v2 := 2*k*r0inv - ks.beta // |v0|^2

	var kd kepDerivs
	for q := 0; q < 8; q++ {
		switch {
		case q < NDIM: // x0 component q
			kd = kepDerivs{
				dr0:   xs[q] * r0inv,
				deta:  v0[q],
				dbeta: -2 * k * xs[q] * r0inv3,
				ek:    1,
			}
		case q < 2*NDIM: // v0 component q-3
			j := q - NDIM
			kd = kepDerivs{deta: xs[j], dbeta: -2 * v0[j], ek: 1}
			if driftFirst {
				kd.dr0 = -h * xs[j] * r0inv
				kd.deta -= h * v0[j]
				kd.dbeta += 2 * k * h * xs[j] * r0inv3
			}
		case q == 2*NDIM: // k
			kd = kepDerivs{dbeta: 2 * r0inv, dk: 1, ek: 1}
		default: // h
			kd = kepDerivs{dh: 1, ek: 1}
			if driftFirst {
				kd.dr0 = -ks.eta * r0inv
				kd.deta = -v2
				kd.dbeta = 2 * k * ks.eta * r0inv3
			}
		}
		dfm1, dgmh, dfdot, dgdotm1 := coeffDerivs(&ks, k, h, driftFirst, kd)
		for p := 0; p < NDIM; p++ {
			jac.Set(p, q, dfm1*x0[p]+dgmh*v0[p])
			jac.Set(NDIM+p, q, dfdot*x0[p]+dgdotm1*v0[p])
		}
		switch {
		case q < NDIM:
			jac.Set(q, q, jac.At(q, q)+ks.fm1)
			jac.Set(NDIM+q, q, jac.At(NDIM+q, q)+ks.fdot)
		case q < 2*NDIM:
			j := q - NDIM
			jac.Set(j, q, jac.At(j, q)+ks.gmh)
			jac.Set(NDIM+j, q, jac.At(NDIM+j, q)+ks.gdotm1)
		}
	}

	// Mass derivative: the k column with the explicit leading-k product
	// terms dropped. What remains is k*d(delxv/k)/dk, the part that
	// survives the mu-weighting in the pair update.
	kd = kepDerivs{dbeta: 2 * r0inv, dk: 1, ek: 0}
	dfm1, dgmh, dfdot, dgdotm1 := coeffDerivs(&ks, k, h, driftFirst, kd)
	for p := 0; p < NDIM; p++ {
		jacMass[p] = g * (dfm1*x0[p] + dgmh*v0[p])
		jacMass[NDIM+p] = g * (dfdot*x0[p] + dgdotm1*v0[p])
	}
}
