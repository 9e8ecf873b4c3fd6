package nbody

import (
	"math"
	"testing"
)

func TestMatrixMul(t *testing.T) {
	a := NewMatrix(2, 3)
	b := NewMatrix(3, 2)
	copy(a.Data, []float64{1, 2, 3, 4, 5, 6})
	copy(b.Data, []float64{7, 8, 9, 10, 11, 12})
	c := NewMatrix(2, 2)
	c.Mul(a, b)
	want := []float64{58, 64, 139, 154}
	for i, w := range want {
		if c.Data[i] != w {
			t.Errorf("entry %d: got %f, want %f", i, c.Data[i], w)
		}
	}
}

func TestMatrixIdentity(t *testing.T) {
	m := NewMatrix(3, 3)
	m.Set(0, 2, 5)
	m.Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if m.At(i, j) != want {
				t.Errorf("identity[%d][%d] = %f", i, j, m.At(i, j))
			}
		}
	}
}

func TestMatrixDet(t *testing.T) {
	tests := []struct {
		data []float64
		n    int
		want float64
	}{
		{[]float64{1, 0, 0, 1}, 2, 1},
		{[]float64{2, 1, 1, 2}, 2, 3},
		{[]float64{0, 1, 1, 0}, 2, -1},
		{[]float64{1, 2, 3, 4, 5, 6, 7, 8, 10}, 3, -3},
	}
	for _, tt := range tests {
		m := NewMatrix(tt.n, tt.n)
		copy(m.Data, tt.data)
		if got := m.Det(); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("det(%v) = %f, want %f", tt.data, got, tt.want)
		}
	}
}

func TestMatrixIsFinite(t *testing.T) {
	m := NewMatrix(2, 2)
	if !m.IsFinite() {
		t.Error("zero matrix should be finite")
	}
	m.Set(1, 1, math.Inf(1))
	if m.IsFinite() {
		t.Error("Inf not detected")
	}
}
