package nbody

// CompSum folds delta into the accumulator sum with Kahan compensation.
// The returned pair satisfies sum' - err' = sum - err + delta to full
// precision; err' is the residual the next fold must carry.
func CompSum(sum, err, delta float64) (float64, float64) {
	t := delta - err
	s := sum + t
	err = (s - sum) - t
	return s, err
}

// CompSumVec applies CompSum element-wise; sum, err and delta share a length.
func CompSumVec(sum, err, delta []float64) {
	for i, d := range delta {
		sum[i], err[i] = CompSum(sum[i], err[i], d)
	}
}

// CompSumMatrix folds delta into sum with the error companion err,
// element-wise over same-shape matrices.
func CompSumMatrix(sum, err, delta *Matrix) {
	for i, d := range delta.Data {
		sum.Data[i], err.Data[i] = CompSum(sum.Data[i], err.Data[i], d)
	}
}
