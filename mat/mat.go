package mat

import (
	"fmt"
)

// Matrix is a dense row-major matrix.
type Matrix struct {
	Vals          []float64
	Width, Height int
}

func NewMatrix(vals []float64, width, height int) *Matrix {
	if width <= 0 {
		panic("width must be positive.")
	} else if height <= 0 {
		panic("height must be positive.")
	} else if width*height != len(vals) {
		panic("height * width must equal len(vals).")
	}

	return &Matrix{Vals: vals, Width: width, Height: height}
}

// At returns the element in row i and column j.
func (m *Matrix) At(i, j int) float64 {
	return m.Vals[i*m.Width+j]
}

// MinorAt writes the matrix obtained by deleting row i and column j of m
// into out, which must be one smaller than m in both dimensions.
func (m *Matrix) MinorAt(i, j int, out *Matrix) {
	if out.Width != m.Width-1 || out.Height != m.Height-1 {
		panic(fmt.Sprintf(
			"minor of %dx%d matrix cannot be written to %dx%d matrix.",
			m.Height, m.Width, out.Height, out.Width,
		))
	}

	k := 0
	for r := 0; r < m.Height; r++ {
		if r == i {
			continue
		}
		for c := 0; c < m.Width; c++ {
			if c == j {
				continue
			}
			out.Vals[k] = m.Vals[r*m.Width+c]
			k++
		}
	}
}

// Determinant computes the determinant of a square matrix by recursive
// cofactor (Laplace) expansion along the first row.
//
// This is O(n!), so it should only be used on the small matrices which show
// up in element geometry. Use LU for anything bigger.
func (m *Matrix) Determinant() float64 {
	if m.Width != m.Height {
		panic("m is non-square.")
	}

	n := m.Width
	switch n {
	case 1:
		return m.Vals[0]
	case 2:
		return m.Vals[0]*m.Vals[3] - m.Vals[1]*m.Vals[2]
	}

	minor := &Matrix{make([]float64, (n-1)*(n-1)), n - 1, n - 1}
	det, sign := 0.0, 1.0
	for j := 0; j < n; j++ {
		if a := m.Vals[j]; a != 0 {
			m.MinorAt(0, j, minor)
			det += sign * a * minor.Determinant()
		}
		sign = -sign
	}
	return det
}
