package nbody

import "math"

// gvals carries the universal-variable basis functions G0..G3 evaluated at a
// half-anomaly gamma and energy-like parameter beta (positive for bound
// relative motion, negative for unbound). s = gamma/sqrt(|beta|) is the
// universal anomaly itself; z = sign(beta)*gamma^2 is the Stumpff series
// argument, so the same expressions cover the elliptic, parabolic and
// hyperbolic regimes.
type gvals struct {
	gamma, beta, sqb, signb float64
	s, z                    float64
	sx, cx                  float64 // sin/cos (or sinh/cosh) of gamma/2
	g0, g1, g2, g3          float64
}

// gammaSeries is the |gamma| below which the cancellation-prone
// combinations switch to their Stumpff series.
const gammaSeries = 0.5

// sincosg returns sin/cos of x for signb >= 0 and sinh/cosh otherwise.
func sincosg(x, signb float64) (float64, float64) {
	if signb >= 0 {
		return math.Sincos(x)
	}
	return math.Sinh(x), math.Cosh(x)
}

// newGvals evaluates G0..G3 at gamma for the given beta. sqb is
// sqrt(|beta|). beta == 0 is the parabolic limit: gamma is then identically
// zero and the functions collapse to their s -> 0 values, which stay finite.
func newGvals(gamma, beta, sqb float64) gvals {
	g := gvals{gamma: gamma, beta: beta, sqb: sqb, signb: 1}
	if beta < 0 {
		g.signb = -1
	}
	if sqb == 0 {
		g.g0 = 1
		g.cx = 1
		return g
	}
	g.s = gamma / sqb
	g.z = g.signb * gamma * gamma
	g.sx, g.cx = sincosg(0.5*gamma, g.signb)
	g.g1 = 2 * g.sx * g.cx / sqb
	g.g2 = 2 * g.signb * g.sx * g.sx / beta
	g.g0 = 1 - beta*g.g2
	if math.Abs(gamma) < gammaSeries {
		// G3 loses the leading digits of (s - G1) here; sum the series.
		s3 := g.s * g.s * g.s
		g.g3 = s3 * (1.0/6 + g.z*(-1.0/120+g.z*(1.0/5040+g.z*(-1.0/362880+g.z*(1.0/39916800+g.z*(-1.0/6227020800+g.z/1307674368000))))))
	} else {
		g.g3 = (g.s - g.g1) / beta
	}
	return g
}

// The H functions are the combinations of G0..G3 the closed-form Jacobians
// need. H1..H3 vanish like beta*s^m and are summed as series at small
// |gamma|; the rest are safe to form directly.

// h1 = s*G2 - 3*G3
func (g gvals) h1() float64 {
	if math.Abs(g.gamma) < gammaSeries {
		s3 := g.s * g.s * g.s
		return s3 * g.z * (-1.0/60 + g.z*(1.0/1260+g.z*(-1.0/60480+g.z*(1.0/4989600+g.z*(-1.0/622702080+g.z*(1.0/108972864000-g.z/25406244864000))))))
	}
	return g.s*g.g2 - 3*g.g3
}

// h2 = s*G1 - 2*G2
func (g gvals) h2() float64 {
	if math.Abs(g.gamma) < gammaSeries {
		s2 := g.s * g.s
		return s2 * g.z * (-1.0/12 + g.z*(1.0/180+g.z*(-1.0/6720+g.z*(1.0/453600+g.z*(-1.0/47900160+g.z*(1.0/7264857600-g.z/1494484992000))))))
	}
	return g.s*g.g1 - 2*g.g2
}

// h3 = s*G0 - G1
func (g gvals) h3() float64 {
	if math.Abs(g.gamma) < gammaSeries {
		return g.s * g.z * (-1.0/3 + g.z*(1.0/30+g.z*(-1.0/840+g.z*(1.0/45360+g.z*(-1.0/3991680+g.z*(1.0/518918400-g.z/93405312000))))))
	}
	return g.s*g.g0 - g.g1
}

// h4 = G1*G2 - G3
func (g gvals) h4() float64 { return g.g1*g.g2 - g.g3 }

// h5 = G1^2 - G2
func (g gvals) h5() float64 { return g.g1*g.g1 - g.g2 }

// h6 = G1^2 - G0*G2
func (g gvals) h6() float64 { return g.g1*g.g1 - g.g0*g.g2 }

// h7 = G1*G3 - G2^2
func (g gvals) h7() float64 { return g.g1*g.g3 - g.g2*g.g2 }

// h8 = G1*G2 - G0*G3
func (g gvals) h8() float64 { return g.g1*g.g2 - g.g0*g.g3 }

// dG1, dG2, dG3 with respect to beta at fixed s. These are Hn/(2*beta),
// which stays finite as beta -> 0; the series forms make that explicit.
func (g gvals) dg1dbeta() float64 {
	if math.Abs(g.gamma) < gammaSeries {
		s3 := g.s * g.s * g.s
		return s3 * (-1.0/6 + g.z*(1.0/60+g.z*(-1.0/1680+g.z*(1.0/90720+g.z*(-1.0/7983360+g.z*(1.0/1037836800-g.z/186810624000))))))
	}
	return g.h3() / (2 * g.beta)
}

func (g gvals) dg2dbeta() float64 {
	if math.Abs(g.gamma) < gammaSeries {
		s4 := g.s * g.s * g.s * g.s
		return s4 * (-1.0/24 + g.z*(1.0/360+g.z*(-1.0/13440+g.z*(1.0/907200+g.z*(-1.0/95800320+g.z*(1.0/14529715200-g.z/2988969984000))))))
	}
	return g.h2() / (2 * g.beta)
}

func (g gvals) dg3dbeta() float64 {
	if math.Abs(g.gamma) < gammaSeries {
		s5 := g.s * g.s * g.s * g.s * g.s
		return s5 * (-1.0/120 + g.z*(1.0/2520+g.z*(-1.0/120960+g.z*(1.0/9979200+g.z*(-1.0/1245404160+g.z*(1.0/217945728000-g.z/50812489728000))))))
	}
	return g.h1() / (2 * g.beta)
}

// dG0/dbeta at fixed s.
func (g gvals) dg0dbeta() float64 {
	return -0.5 * g.s * g.g1
}
