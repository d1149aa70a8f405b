package geom

import (
	"math"

	"github.com/brakepad/microgen/mat"
)

const (
	// BadRadiusRatio and BadEdgeRatio are the thresholds which must both be
	// exceeded for an element to be flagged as badly shaped.
	BadRadiusRatio = 6.0
	BadEdgeRatio   = 5.0
)

// Tetra is a tetrahedral mesh element.
//
// Tetra caches its derived quantities, so Corners should not be modified
// after Init without calling Init again.
type Tetra struct {
	Corners [4]Vec

	inRadius, circumRadius float64
	radiiValid             bool
	det                    *mat.Matrix

	edges *mat.Matrix
	lu    *mat.LUFactors
}

// Quality summarizes the shape of a tetrahedron.
type Quality struct {
	RadiusRatio, EdgeRatio float64
	// Bad is set when both ratios exceed their thresholds.
	Bad bool
	// Degenerate is set when the corners are coplanar or coincident. Neither
	// ratio is meaningful in that case.
	Degenerate bool
}

// NewTetra creates a new tetrahedron with corners at the specified positions.
func NewTetra(c1, c2, c3, c4 Vec) *Tetra {
	t := &Tetra{}
	t.Init(c1, c2, c3, c4)
	return t
}

// Init (re)initializes a tetrahedron with the given corners.
func (t *Tetra) Init(c1, c2, c3, c4 Vec) {
	t.Corners = [4]Vec{c1, c2, c3, c4}
	t.radiiValid = false
}

// Centroid returns the average of the four corners.
func (t *Tetra) Centroid() Vec {
	c := t.Corners[0].Add(t.Corners[1]).Add(t.Corners[2]).Add(t.Corners[3])
	return c.Scale(0.25)
}

// Volume computes the volume of the tetrahedron.
func (t *Tetra) Volume() float64 {
	return math.Abs(t.tripleProduct()) / 6
}

func (t *Tetra) tripleProduct() float64 {
	a := t.Corners[0]
	return Dot(t.Corners[1].Sub(a), Cross(t.Corners[2].Sub(a), t.Corners[3].Sub(a)))
}

// EdgeRange returns the lengths of the shortest and longest of the six
// edges.
func (t *Tetra) EdgeRange() (min, max float64) {
	c := &t.Corners
	edges := [6]float64{
		Dist(c[0], c[1]), Dist(c[0], c[3]), Dist(c[0], c[2]),
		Dist(c[1], c[2]), Dist(c[1], c[3]), Dist(c[2], c[3]),
	}

	min, max = edges[0], edges[0]
	for _, e := range edges[1:] {
		min, max = math.Min(min, e), math.Max(max, e)
	}
	return min, max
}

// InRadius returns the radius of the inscribed sphere: the triple product of
// the edge vectors divided by the summed magnitudes of the face normals.
func (t *Tetra) InRadius() float64 {
	t.radii()
	return t.inRadius
}

// CircumRadius returns the radius of the circumscribed sphere. It is +Inf
// for coplanar corners.
func (t *Tetra) CircumRadius() float64 {
	t.radii()
	return t.circumRadius
}

func (t *Tetra) radii() {
	if t.radiiValid {
		return
	}
	t.inRadius = inRadius(&t.Corners)
	t.circumRadius = t.solveCircumRadius()
	t.radiiValid = true
}

func inRadius(c *[4]Vec) float64 {
	ab, ac, ad := c[1].Sub(c[0]), c[2].Sub(c[0]), c[3].Sub(c[0])
	bc, bd := c[2].Sub(c[1]), c[3].Sub(c[1])

	area := Norm(Cross(ab, ac)) + Norm(Cross(ab, ad)) +
		Norm(Cross(ac, ad)) + Norm(Cross(bc, bd))
	if area == 0 {
		return 0
	}
	return math.Abs(Dot(ab, Cross(ac, ad))) / area
}

// solveCircumRadius uses the classical determinant construction: the
// circumsphere x^2 + y^2 + z^2 - 2 x0 x - ... is found from five 4x4
// determinants a, Dx, Dy, Dz and c, after which
//
//	r = sqrt(Dx^2 + Dy^2 + Dz^2 - 4 a c) / (2 |a|).
//
// Coordinates are taken relative to the first corner to keep the squared
// terms from swamping the others.
func (t *Tetra) solveCircumRadius() float64 {
	if t.det == nil {
		t.det = mat.NewMatrix(make([]float64, 16), 4, 4)
	}

	var p [4]Vec
	var r2 [4]float64
	for i := range p {
		p[i] = t.Corners[i].Sub(t.Corners[0])
		r2[i] = Dot(p[i], p[i])
	}

	fill := func(col func(i int) [4]float64) float64 {
		for i := 0; i < 4; i++ {
			row := col(i)
			copy(t.det.Vals[4*i:4*i+4], row[:])
		}
		return t.det.Determinant()
	}

	a := fill(func(i int) [4]float64 { return [4]float64{p[i][0], p[i][1], p[i][2], 1} })
	if a == 0 {
		return math.Inf(+1)
	}
	dx := fill(func(i int) [4]float64 { return [4]float64{r2[i], p[i][1], p[i][2], 1} })
	dy := -fill(func(i int) [4]float64 { return [4]float64{r2[i], p[i][0], p[i][2], 1} })
	dz := fill(func(i int) [4]float64 { return [4]float64{r2[i], p[i][0], p[i][1], 1} })
	c := fill(func(i int) [4]float64 { return [4]float64{r2[i], p[i][0], p[i][1], p[i][2]} })

	disc := dx*dx + dy*dy + dz*dz - 4*a*c
	if disc < 0 {
		disc = 0
	}
	return math.Sqrt(disc) / (2 * math.Abs(a))
}

// Flat returns true if the corners are coplanar or coincident. The three
// edge vectors leaving the first corner are LU-factored, and a flat
// tetrahedron leaves a zero pivot behind.
func (t *Tetra) Flat() bool {
	if t.edges == nil {
		t.edges = mat.NewMatrix(make([]float64, 9), 3, 3)
		t.lu = mat.NewLUFactors(3)
	}
	for i := 0; i < 3; i++ {
		e := t.Corners[i+1].Sub(t.Corners[0])
		copy(t.edges.Vals[3*i:3*i+3], e[:])
	}
	t.edges.LUFactorsAt(t.lu)
	return t.lu.Singular()
}

// Quality computes the shape diagnostics of the tetrahedron. Degenerate
// elements are reported, never flagged as bad.
func (t *Tetra) Quality() Quality {
	q := Quality{}

	ir, cr := t.InRadius(), t.CircumRadius()
	min, max := t.EdgeRange()
	if t.Flat() || ir == 0 || min == 0 || math.IsInf(cr, 0) || math.IsNaN(cr) {
		q.Degenerate = true
		return q
	}

	q.RadiusRatio = cr / ir
	q.EdgeRatio = max / min
	q.Bad = q.RadiusRatio > BadRadiusRatio && q.EdgeRatio > BadEdgeRatio
	return q
}
