package nbody

import (
	"math"
	"testing"
)

func TestGvalsElliptic(t *testing.T) {
	beta := 1.3
	sqb := math.Sqrt(beta)
	gamma := 0.9
	g := newGvals(gamma, beta, sqb)

	s := gamma / sqb
	if math.Abs(g.g1-math.Sin(gamma)/sqb) > 1e-15 {
		t.Errorf("G1: got %.17g", g.g1)
	}
	if math.Abs(g.g2-(1-math.Cos(gamma))/beta) > 1e-15 {
		t.Errorf("G2: got %.17g", g.g2)
	}
	if math.Abs(g.g0-math.Cos(gamma)) > 1e-15 {
		t.Errorf("G0: got %.17g", g.g0)
	}
	if math.Abs(g.g3-(s-g.g1)/beta) > 1e-15 {
		t.Errorf("G3: got %.17g", g.g3)
	}
}

func TestGvalsHyperbolic(t *testing.T) {
	beta := -0.7
	sqb := math.Sqrt(-beta)
	gamma := 1.4
	g := newGvals(gamma, beta, sqb)

	if math.Abs(g.g1-math.Sinh(gamma)/sqb) > 1e-14 {
		t.Errorf("G1: got %.17g", g.g1)
	}
	if math.Abs(g.g0-math.Cosh(gamma)) > 1e-14 {
		t.Errorf("G0: got %.17g", g.g0)
	}
	if math.Abs(g.g2-(1-math.Cosh(gamma))/beta) > 1e-14 {
		t.Errorf("G2: got %.17g", g.g2)
	}
}

func TestGSeriesMatchesDirect(t *testing.T) {
	// Just below the series cutoff both branches are accurate; they must
	// agree to near machine precision across both regimes.
	for _, beta := range []float64{2.0, -2.0} {
		sqb := math.Sqrt(math.Abs(beta))
		gamma := 0.3
		g := newGvals(gamma, beta, sqb)
		s := gamma / sqb

		direct := (s - g.g1) / beta
		if rel(g.g3, direct) > 1e-12 {
			t.Errorf("beta=%g G3 series %.17g vs direct %.17g", beta, g.g3, direct)
		}
		if rel(g.h1(), s*g.g2-3*g.g3) > 1e-9 {
			t.Errorf("beta=%g H1 series %.17g vs direct %.17g", beta, g.h1(), s*g.g2-3*g.g3)
		}
		if rel(g.h2(), s*g.g1-2*g.g2) > 1e-10 {
			t.Errorf("beta=%g H2 mismatch", beta)
		}
		if rel(g.h3(), s*g.g0-g.g1) > 1e-10 {
			t.Errorf("beta=%g H3 mismatch", beta)
		}
		if rel(g.dg1dbeta(), g.h3()/(2*beta)) > 1e-10 {
			t.Errorf("beta=%g dG1/dbeta mismatch", beta)
		}
		if rel(g.dg2dbeta(), g.h2()/(2*beta)) > 1e-10 {
			t.Errorf("beta=%g dG2/dbeta mismatch", beta)
		}
		if rel(g.dg3dbeta(), g.h1()/(2*beta)) > 1e-9 {
			t.Errorf("beta=%g dG3/dbeta mismatch", beta)
		}
	}
}

func TestGDerivsByDifference(t *testing.T) {
	// dGn/dbeta at fixed s against a central difference in beta.
	for _, beta := range []float64{1.1, -1.1} {
		db := 1e-6
		eval := func(b float64) gvals {
			sqb := math.Sqrt(math.Abs(b))
			s := 1.2 // fixed universal anomaly
			return newGvals(s*sqb, b, sqb)
		}
		g := eval(beta)
		gp := eval(beta + db)
		gm := eval(beta - db)

		checks := []struct {
			name     string
			got, fd1 float64
			fd2      float64
		}{
			{"G1", g.dg1dbeta(), gp.g1, gm.g1},
			{"G2", g.dg2dbeta(), gp.g2, gm.g2},
			{"G3", g.dg3dbeta(), gp.g3, gm.g3},
			{"G0", g.dg0dbeta(), gp.g0, gm.g0},
		}
		for _, c := range checks {
			fd := (c.fd1 - c.fd2) / (2 * db)
			if math.Abs(c.got-fd) > 1e-6*(1+math.Abs(fd)) {
				t.Errorf("beta=%g d%s/dbeta: got %.12g, finite difference %.12g", beta, c.name, c.got, fd)
			}
		}
	}
}

func TestHIdentities(t *testing.T) {
	beta := 0.8
	sqb := math.Sqrt(beta)
	g := newGvals(1.7, beta, sqb)
	if rel(g.h6(), g.h5()+g.g2*(1-g.g0)) > 1e-12 {
		t.Errorf("H6 != H5 + G2*(1-G0)")
	}
	if rel(g.h8(), g.h4()+g.g3*(1-g.g0)) > 1e-12 {
		t.Errorf("H8 != H4 + G3*(1-G0)")
	}
}

func rel(a, b float64) float64 {
	return math.Abs(a-b) / math.Max(1e-300, math.Max(math.Abs(a), math.Abs(b)))
}
