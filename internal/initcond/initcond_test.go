package initcond

import (
	"math"
	"testing"
)

func TestSetupCartesian(t *testing.T) {
	s, err := Setup(1.0, []Body{
		{Name: "a", Mass: 1, Position: [3]float64{0, 0, 0}},
		{Name: "b", Mass: 1e-3, Position: [3]float64{1, 0, 0}, Velocity: [3]float64{0, 1, 0}},
	})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if s.N != 2 || s.M[1] != 1e-3 || s.X[3] != 1 || s.V[4] != 1 {
		t.Errorf("unexpected state: m=%v x=%v v=%v", s.M, s.X, s.V)
	}
}

func TestSetupElementsCircular(t *testing.T) {
	period := 2 * math.Pi // with G=1, M~1: a ~ 1
	s, err := Setup(1.0, []Body{
		{Name: "star", Mass: 1},
		{Name: "planet", Mass: 1e-3, Elements: &Elements{Period: period}},
	})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	gm := 1.0 + 1e-3
	a := math.Cbrt(gm * period * period / (4 * math.Pi * math.Pi))
	r := 0.0
	vrel2 := 0.0
	for p := 0; p < 3; p++ {
		dx := s.X[3+p] - s.X[p]
		dv := s.V[3+p] - s.V[p]
		r += dx * dx
		vrel2 += dv * dv
	}
	r = math.Sqrt(r)
	if math.Abs(r-a) > 1e-12 {
		t.Errorf("separation %g, want semi-major axis %g", r, a)
	}
	if math.Abs(vrel2-gm/a) > 1e-12 {
		t.Errorf("relative speed^2 %g, want circular %g", vrel2, gm/a)
	}

	// Total momentum must vanish.
	for p := 0; p < 3; p++ {
		mom := s.M[0]*s.V[p] + s.M[1]*s.V[3+p]
		if math.Abs(mom) > 1e-15 {
			t.Errorf("momentum component %d = %g", p, mom)
		}
	}
}

func TestSetupRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		bodies []Body
	}{
		{"too few", []Body{{Name: "only", Mass: 1}}},
		{"negative mass", []Body{{Name: "a", Mass: -1}, {Name: "b", Mass: 1}}},
		{"elements on first", []Body{
			{Name: "a", Mass: 1, Elements: &Elements{Period: 1}},
			{Name: "b", Mass: 1},
		}},
		{"bad period", []Body{
			{Name: "a", Mass: 1},
			{Name: "b", Mass: 1, Elements: &Elements{Period: -2}},
		}},
		{"bad eccentricity", []Body{
			{Name: "a", Mass: 1},
			{Name: "b", Mass: 1, Elements: &Elements{Period: 1, Eccentricity: 1.5}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Setup(1.0, tt.bodies); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
