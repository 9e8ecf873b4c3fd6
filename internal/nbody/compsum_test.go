package nbody

import (
	"math"
	"math/big"
	"testing"
)

func TestCompSumAccuracy(t *testing.T) {
	const delta = 0.001
	const n = 1000000

	sum, err := 0.0, 0.0
	exact := new(big.Float).SetPrec(200)
	bd := new(big.Float).SetPrec(200).SetFloat64(delta)
	for i := 0; i < n; i++ {
		sum, err = CompSum(sum, err, delta)
		exact.Add(exact, bd)
	}

	want, _ := exact.Float64()
	got := sum - err
	if math.Abs(got-want) > 5e-13 {
		t.Errorf("compensated sum off by %g (got %.17g, want %.17g)", got-want, got, want)
	}
}

func TestCompSumResidualInvariant(t *testing.T) {
	// One fold of a tiny delta into a large accumulator must preserve the
	// exact total in sum - err.
	sum, err := CompSum(1e16, 0, 1.0)
	if sum != 1e16 {
		t.Fatalf("expected the small delta to be absorbed, got %g", sum)
	}
	if err != -1.0 {
		t.Errorf("residual should carry the absorbed delta, got %g", err)
	}
}

func TestCompSumVec(t *testing.T) {
	sum := []float64{1, 2, 3}
	err := []float64{0, 0, 0}
	CompSumVec(sum, err, []float64{0.5, -0.5, 0.25})
	want := []float64{1.5, 1.5, 3.25}
	for i := range sum {
		if sum[i] != want[i] {
			t.Errorf("entry %d: got %f, want %f", i, sum[i], want[i])
		}
	}
}

func TestCompSumMatrix(t *testing.T) {
	sum := NewMatrix(2, 2)
	err := NewMatrix(2, 2)
	delta := NewMatrix(2, 2)
	sum.Set(0, 0, 1)
	delta.Set(0, 0, 2)
	delta.Set(1, 1, -3)
	CompSumMatrix(sum, err, delta)
	if sum.At(0, 0) != 3 || sum.At(1, 1) != -3 || sum.At(0, 1) != 0 {
		t.Errorf("unexpected matrix fold: %+v", sum.Data)
	}
}
