package mat

import (
	"math"
)

// LUFactors is the pivoted LU decomposition of a square matrix.
type LUFactors struct {
	lu    Matrix
	pivot []int
	d     float64
}

func NewLUFactors(n int) *LUFactors {
	luf := new(LUFactors)

	luf.lu.Vals, luf.lu.Width, luf.lu.Height = make([]float64, n*n), n, n
	luf.pivot = make([]int, n)
	luf.d = 1

	return luf
}

func (m *Matrix) LU() *LUFactors {
	if m.Width != m.Height {
		panic("m is non-square.")
	}

	lu := NewLUFactors(m.Width)
	m.LUFactorsAt(lu)
	return lu
}

// LUFactorsAt decomposes m with Crout's method and implicit partial
// pivoting. A singular m produces factors with a zero on the diagonal.
func (m *Matrix) LUFactorsAt(luf *LUFactors) {
	if luf.lu.Width != m.Width || luf.lu.Height != m.Height {
		panic("luf has different dimensions than m.")
	}

	n := m.Width
	scale := make([]float64, n)
	lu := luf.lu.Vals
	luf.d = 1
	copy(lu, m.Vals)

	for i := 0; i < n; i++ {
		max := 0.0
		for j := 0; j < n; j++ {
			max = math.Max(max, math.Abs(lu[i*n+j]))
		}
		if max == 0 {
			scale[i] = 1
		} else {
			scale[i] = 1 / max
		}
	}

	for k := 0; k < n; k++ {
		max, maxi := -1.0, k
		for i := k; i < n; i++ {
			tmp := scale[i] * math.Abs(lu[i*n+k])
			if tmp > max {
				max, maxi = tmp, i
			}
		}

		if k != maxi {
			for j := 0; j < n; j++ {
				lu[k*n+j], lu[maxi*n+j] = lu[maxi*n+j], lu[k*n+j]
			}
			luf.d = -luf.d
			scale[maxi] = scale[k]
		}
		luf.pivot[k] = maxi

		if lu[k*n+k] == 0 {
			continue
		}

		for i := k + 1; i < n; i++ {
			lu[i*n+k] /= lu[k*n+k]
			tmp := lu[i*n+k]
			for j := k + 1; j < n; j++ {
				lu[i*n+j] -= tmp * lu[k*n+j]
			}
		}
	}
}

// Determinant returns the determinant of the factored matrix.
func (luf *LUFactors) Determinant() float64 {
	d := luf.d
	lu := luf.lu.Vals
	n := luf.lu.Width

	for i := 0; i < n; i++ {
		d *= lu[i*n+i]
	}
	return d
}

// Singular returns true if the factorization hit a zero pivot.
func (luf *LUFactors) Singular() bool {
	lu := luf.lu.Vals
	n := luf.lu.Width
	for i := 0; i < n; i++ {
		if lu[i*n+i] == 0 {
			return true
		}
	}
	return false
}
