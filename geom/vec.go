/*package geom contains the analytic geometry used to place particles inside
the pad domain and to classify mesh points against them.

Everything here is a pure function of its arguments. Vectors are passed by
value and indexed by component; the algebra itself is done by gonum's r3.
*/
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a three dimensional vector. (Duh!)
type Vec [3]float64

// Matrix is a 3 x 3 matrix stored as three row vectors.
type Matrix [3]Vec

var (
	// XAxis is the canonical axis particles are built along before they are
	// rotated into place.
	XAxis = Vec{1, 0, 0}
	// Identity leaves vectors unchanged.
	Identity = Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
)

func (v Vec) toR3() r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

func fromR3(p r3.Vec) Vec { return Vec{p.X, p.Y, p.Z} }

// Add returns v1 + v2.
func (v1 Vec) Add(v2 Vec) Vec {
	return fromR3(r3.Add(v1.toR3(), v2.toR3()))
}

// Sub returns v1 - v2.
func (v1 Vec) Sub(v2 Vec) Vec {
	return fromR3(r3.Sub(v1.toR3(), v2.toR3()))
}

// Scale returns k * v.
func (v Vec) Scale(k float64) Vec {
	return fromR3(r3.Scale(k, v.toR3()))
}

// Unit returns v normalized to unit length. The zero vector is returned
// unchanged.
func (v Vec) Unit() Vec {
	n := Norm(v)
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// Norm returns the Euclidean length of v.
func Norm(v Vec) float64 {
	return r3.Norm(v.toR3())
}

// Dist returns the Euclidean distance between two points.
func Dist(v1, v2 Vec) float64 {
	return Norm(v1.Sub(v2))
}

// Dot returns the inner product of two vectors.
func Dot(v1, v2 Vec) float64 {
	return r3.Dot(v1.toR3(), v2.toR3())
}

// Cross returns v1 x v2.
func Cross(v1, v2 Vec) Vec {
	return fromR3(r3.Cross(v1.toR3(), v2.toR3()))
}

// UnitCross returns the normalized cross product of two vectors. If the
// vectors are equal, or more generally if their cross product vanishes, the
// zero vector is returned instead of a vector full of NaNs.
func UnitCross(v1, v2 Vec) Vec {
	if v1 == v2 {
		return Vec{}
	}

	c := Cross(v1, v2)
	n := Norm(c)
	if n == 0 {
		return Vec{}
	}
	return c.Scale(1 / n)
}

// Mul returns the matrix-vector product m . v.
func (m *Matrix) Mul(v Vec) Vec {
	return Vec{Dot(m[0], v), Dot(m[1], v), Dot(m[2], v)}
}

// RotationMatrix returns the Rodrigues rotation which takes the direction a1
// onto the direction a2.
//
// sin(theta) is always taken to be non-negative, so the sense of rotations
// past 180 degrees is not disambiguated. This is fine for the only current
// use, rotating the x-axis onto a random direction.
func RotationMatrix(a1, a2 Vec) Matrix {
	c := Dot(a1, a2) / (Norm(a1) * Norm(a2))
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	s := math.Sqrt(1 - c*c)
	C := 1 - c

	ax := UnitCross(a1, a2)
	x, y, z := ax[0], ax[1], ax[2]

	return Matrix{
		{x*x*C + c, x*y*C - z*s, x*z*C + y*s},
		{y*x*C + z*s, y*y*C + c, y*z*C - x*s},
		{z*x*C - y*s, z*y*C + x*s, z*z*C + c},
	}
}
