package nbody

// Matrix is a dense row-major float64 matrix. The step hot path only ever
// writes into matrices owned by State or Derivatives; every method except
// Det works in place without allocating.
type Matrix struct {
	Rows, Cols int
	Data       []float64
}

func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

func (m *Matrix) At(i, j int) float64     { return m.Data[i*m.Cols+j] }
func (m *Matrix) Set(i, j int, v float64) { m.Data[i*m.Cols+j] = v }

// Row returns a view of row i.
func (m *Matrix) Row(i int) []float64 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

func (m *Matrix) Zero() {
	for i := range m.Data {
		m.Data[i] = 0
	}
}

// Identity overwrites m with the identity pattern.
func (m *Matrix) Identity() {
	m.Zero()
	n := m.Rows
	if m.Cols < n {
		n = m.Cols
	}
	for i := 0; i < n; i++ {
		m.Data[i*m.Cols+i] = 1
	}
}

func (m *Matrix) CopyFrom(src *Matrix) {
	copy(m.Data, src.Data)
}

// Mul computes m = a*b. The receiver must not alias a or b.
func (m *Matrix) Mul(a, b *Matrix) {
	for i := 0; i < a.Rows; i++ {
		row := m.Row(i)
		for j := range row {
			row[j] = 0
		}
		arow := a.Row(i)
		for l, av := range arow {
			if av == 0 {
				continue
			}
			brow := b.Row(l)
			for j, bv := range brow {
				row[j] += av * bv
			}
		}
	}
}

// Det returns the determinant by LU decomposition with partial pivoting.
// It works on a copy, so it is safe on live accumulators; diagnostics only,
// never on the step hot path.
func (m *Matrix) Det() float64 {
	n := m.Rows
	a := make([]float64, len(m.Data))
	copy(a, m.Data)
	det := 1.0
	for col := 0; col < n; col++ {
		piv := col
		for r := col + 1; r < n; r++ {
			if abs(a[r*n+col]) > abs(a[piv*n+col]) {
				piv = r
			}
		}
		if a[piv*n+col] == 0 {
			return 0
		}
		if piv != col {
			for c := 0; c < n; c++ {
				a[col*n+c], a[piv*n+c] = a[piv*n+c], a[col*n+c]
			}
			det = -det
		}
		det *= a[col*n+col]
		inv := 1 / a[col*n+col]
		for r := col + 1; r < n; r++ {
			f := a[r*n+col] * inv
			if f == 0 {
				continue
			}
			for c := col; c < n; c++ {
				a[r*n+c] -= f * a[col*n+c]
			}
		}
	}
	return det
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// IsFinite reports whether every entry is a finite number.
func (m *Matrix) IsFinite() bool {
	for _, v := range m.Data {
		if isNaNOrInf(v) {
			return false
		}
	}
	return true
}
