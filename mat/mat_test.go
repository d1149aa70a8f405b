package mat

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterminant(t *testing.T) {
	tests := []struct {
		vals []float64
		n    int
		det  float64
	}{
		{[]float64{7}, 1, 7},
		{[]float64{2, 1, -1, 0}, 2, 1},
		{[]float64{1, 3, 5, 2, 4, 7, 1, 1, 0}, 3, 4},
		{[]float64{
			1, 0, 0, 0,
			0, 2, 0, 0,
			0, 0, 3, 0,
			0, 0, 0, 4,
		}, 4, 24},
		{[]float64{
			1, 2, 3, 4,
			2, 4, 6, 8,
			0, 1, 0, 1,
			5, 0, 2, 1,
		}, 4, 0},
		{[]float64{
			0, 1, 0, 0,
			1, 0, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		}, 4, -1},
	}

	for i, test := range tests {
		m := NewMatrix(test.vals, test.n, test.n)
		if det := m.Determinant(); math.Abs(det-test.det) > 1e-12 {
			t.Errorf("%d) Expected det = %g, got %g.", i+1, test.det, det)
		}
	}
}

func TestDeterminantMatchesLU(t *testing.T) {
	gen := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		vals := make([]float64, 16)
		for i := range vals {
			vals[i] = gen.Float64()*2 - 1
		}
		m := NewMatrix(vals, 4, 4)

		laplace := m.Determinant()
		lu := m.LU().Determinant()
		assert.InDelta(t, lu, laplace, 1e-10, "trial %d", trial)
	}
}

func TestSingular(t *testing.T) {
	tests := []struct {
		vals     []float64
		singular bool
	}{
		{[]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, false},
		{[]float64{0, 2, 0, 3, 0, 0, 0, 0, 4}, false},
		{[]float64{1, 2, 3, 2, 4, 6, 7, 8, 9}, true},
		{[]float64{1, 2, 0, 3, 4, 0, 5, 6, 0}, true},
		{[]float64{0, 0, 0, 0, 0, 0, 0, 0, 0}, true},
	}

	luf := NewLUFactors(3)
	for i, test := range tests {
		NewMatrix(test.vals, 3, 3).LUFactorsAt(luf)
		if luf.Singular() != test.singular {
			t.Errorf("%d) Expected Singular() = %v.", i+1, test.singular)
		}
		if test.singular && luf.Determinant() != 0 {
			t.Errorf("%d) Singular matrix has determinant %g.", i+1, luf.Determinant())
		}
	}
}

func TestMinorAt(t *testing.T) {
	m := NewMatrix([]float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}, 3, 3)
	out := NewMatrix(make([]float64, 4), 2, 2)

	m.MinorAt(1, 1, out)
	assert.Equal(t, []float64{1, 3, 7, 9}, out.Vals)

	m.MinorAt(0, 2, out)
	assert.Equal(t, []float64{4, 5, 7, 8}, out.Vals)
	assert.Equal(t, 8.0, out.At(1, 1))
}

func TestNewMatrixPanics(t *testing.T) {
	assert.Panics(t, func() { NewMatrix([]float64{1, 2, 3}, 2, 2) })
	assert.Panics(t, func() { NewMatrix(nil, 0, 2) })
}

func BenchmarkDeterminant4(b *testing.B) {
	m := NewMatrix([]float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		2, 6, 4, 8,
		3, 1, 1, 2,
	}, 4, 4)
	for i := 0; i < b.N; i++ {
		m.Determinant()
	}
}
