package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func vecEpsEq(v1, v2 Vec, eps float64) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(v1[i]-v2[i]) > eps {
			return false
		}
	}
	return true
}

func TestVecOps(t *testing.T) {
	v1, v2 := Vec{1, 2, 3}, Vec{4, -5, 6}

	assert.Equal(t, Vec{5, -3, 9}, v1.Add(v2))
	assert.Equal(t, Vec{-3, 7, -3}, v1.Sub(v2))
	assert.Equal(t, Vec{2, 4, 6}, v1.Scale(2))
	assert.Equal(t, 12.0, Dot(v1, v2))
	assert.Equal(t, Vec{27, 6, -13}, Cross(v1, v2))
	assert.Equal(t, 5.0, Norm(Vec{3, 4, 0}))
	assert.Equal(t, 5.0, Dist(Vec{1, 1, 1}, Vec{1, 4, 5}))
	assert.Equal(t, Vec{}, Vec{}.Unit())
}

func TestUnitCross(t *testing.T) {
	table := []struct {
		v1, v2, out Vec
	}{
		{Vec{1, 0, 0}, Vec{0, 1, 0}, Vec{0, 0, 1}},
		{Vec{2, 0, 0}, Vec{0, 0, 3}, Vec{0, -1, 0}},
		{Vec{1, 2, 3}, Vec{1, 2, 3}, Vec{}},
		{Vec{1, 0, 0}, Vec{-1, 0, 0}, Vec{}},
		{Vec{1, 1, 0}, Vec{2, 2, 0}, Vec{}},
	}

	for i, test := range table {
		out := UnitCross(test.v1, test.v2)
		if !vecEpsEq(out, test.out, 1e-12) {
			t.Errorf(
				"%d) UnitCross(%v, %v) = %v instead of %v",
				i+1, test.v1, test.v2, out, test.out,
			)
		}
	}
}

func TestRotationMatrix(t *testing.T) {
	eps := 1e-9
	table := []struct {
		a1, a2 Vec
	}{
		{XAxis, Vec{0, 1, 0}},
		{XAxis, Vec{0, 0, 1}},
		{XAxis, Vec{1, 1, 1}},
		{XAxis, Vec{-0.3, 0.9, -0.2}},
		{XAxis, Vec{-1, 0, 0}},
		{XAxis, XAxis},
		{Vec{0, 2, 0}, Vec{3, 0, 4}},
	}

	for i, test := range table {
		m := RotationMatrix(test.a1, test.a2)
		out := m.Mul(test.a1).Unit()
		if !vecEpsEq(out, test.a2.Unit(), eps) {
			t.Errorf(
				"%d) RotationMatrix(%v, %v) maps a1 to %v",
				i+1, test.a1, test.a2, out,
			)
		}

		// Rotations don't change lengths.
		v := Vec{0.5, -2, 1}
		if rv := m.Mul(v); math.Abs(Norm(rv)-Norm(v)) > eps {
			t.Errorf("%d) |R v| = %g, but |v| = %g", i+1, Norm(rv), Norm(v))
		}
	}
}

func TestRotationMatrixIdentity(t *testing.T) {
	m := RotationMatrix(Vec{0, 0, 5}, Vec{0, 0, 1})
	assert.Equal(t, Identity, m)
}
