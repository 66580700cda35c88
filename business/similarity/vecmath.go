package similarity

import "math"

const cosineEpsilon = 1e-9

// Cosine computes dot(a,b) / (||a||*||b|| + eps). A zero-norm input
// yields 0.0 rather than a division error. Inputs must already have
// equal length; see reconcileDims.
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(na)*math.Sqrt(nb) + cosineEpsilon)
}

// reconcileDims pads the shorter vector with trailing zeros so both
// have the query's comparison length. Index entries written by a
// differently-dimensioned model generation must not crash a request.
func reconcileDims(a, b []float64) ([]float64, []float64) {
	switch {
	case len(a) == len(b):
		return a, b
	case len(a) < len(b):
		return padTo(a, len(b)), b
	default:
		return a, padTo(b, len(a))
	}
}

func padTo(vec []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, vec)
	return out
}
