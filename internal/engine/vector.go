package engine

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// scaled returns alpha*v in a new slice. A nil v stays nil.
func scaled(v []float64, alpha float64) []float64 {
	if v == nil {
		return nil
	}
	return floats.ScaleTo(make([]float64, len(v)), alpha, v)
}

// accumulate adds alpha*src into dst, allocating dst on first use.
func accumulate(dst []float64, alpha float64, src []float64) ([]float64, error) {
	if dst == nil {
		dst = make([]float64, len(src))
	}
	if len(dst) != len(src) {
		return dst, fmt.Errorf("%w: accumulating %d into %d", ErrVectorLength, len(src), len(dst))
	}
	floats.AddScaled(dst, alpha, src)
	return dst, nil
}

// padTo returns v zero-padded to n. Vectors longer than n are rejected.
func padTo(v []float64, n int) ([]float64, error) {
	if len(v) > n {
		return nil, fmt.Errorf("%w: got %d, canonical length %d", ErrVectorLength, len(v), n)
	}
	out := make([]float64, n)
	copy(out, v)
	return out, nil
}
