package partition

import (
	"bytes"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brakepad/microgen/geom"
	"github.com/brakepad/microgen/io"
)

func testBox() *io.GeometryConfig {
	return &io.GeometryConfig{Length: 100, Width: 100, Height: 50, PistonThicc: 5}
}

func testMaterials() []io.MaterialPoints {
	return []io.MaterialPoints{
		{
			Name: "fiber", Morph: geom.MorphCylinder,
			Particles: []geom.Particle{geom.NewCylinderParticle(
				geom.CylinderBetween(geom.Vec{10, 80, 10}, geom.Vec{30, 80, 10}, 2),
			)},
		},
		{
			Name: "bead", Morph: geom.MorphSphere,
			Particles: []geom.Particle{geom.NewSphereParticle(
				geom.Sphere{Center: geom.Vec{50, 50, 20}, Radius: 5},
			)},
		},
	}
}

func testMesh() *io.Mesh {
	nodes := map[int]geom.Vec{
		1: {0, 0, 0}, 2: {100, 0, 0}, 3: {0, 100, 0}, 4: {0, 0, 50},
		5: {50, 50, 48}, 6: {50, 50, 20}, 7: {51, 50, 20}, 8: {50, 51, 20},
		9: {50, 50, 21}, 10: {100, 100, 50}, 11: {0, 100, 50},
	}
	return &io.Mesh{
		Nodes:    nodes,
		NodeIDs:  []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
		Elements: [][4]int{{1, 2, 3, 4}, {6, 7, 8, 9}, {5, 4, 10, 11}},
	}
}

func TestBuild(t *testing.T) {
	c := NewClassifier(testBox(), testMaterials())
	p := Build(testMesh(), c, Options{MaterialNodeGroups: true})

	expectedNodes := []io.Group{
		{Name: "top_nodes", IDs: []int{4, 10, 11}},
		{Name: "bottom_nodes", IDs: []int{1, 2, 3}},
		{Name: "left_nodes", IDs: []int{1, 3, 4, 11}},
		{Name: "right_nodes", IDs: []int{2, 10}},
		{Name: "front_nodes", IDs: []int{1, 2, 4}},
		{Name: "back_nodes", IDs: []int{3, 10, 11}},
		{Name: "corner_nodes", IDs: []int{1, 2, 3}},
		{Name: "top_corner_nodes", IDs: []int{4, 10, 11}},
		{Name: "zleft_nodes", IDs: []int{1, 3, 4, 11}},
		{Name: "zright_nodes", IDs: []int{2, 10}},
		{Name: "yleft_nodes", IDs: []int{1, 3}},
		{Name: "yright_nodes", IDs: []int{2}},
		{Name: "xfront_nodes", IDs: []int{1, 2}},
		{Name: "xback_nodes", IDs: []int{3}},
		{Name: "matrix_nodes", IDs: []int{1, 2, 3}},
		{Name: "piston_nodes", IDs: []int{4, 5, 10, 11}},
		{Name: "fiber_nodes", IDs: []int{}},
		{Name: "bead_nodes", IDs: []int{6, 7, 8, 9}},
	}
	if diff := cmp.Diff(expectedNodes, p.NodeGroups); diff != "" {
		t.Errorf("node groups differ (-want +got):\n%s", diff)
	}

	expectedElems := []io.Group{
		{Name: "matrix", IDs: []int{1}},
		{Name: "Piston", IDs: []int{3}},
		{Name: "fiber", IDs: []int{}},
		{Name: "bead", IDs: []int{2}},
	}
	if diff := cmp.Diff(expectedElems, p.ElementGroups); diff != "" {
		t.Errorf("element groups differ (-want +got):\n%s", diff)
	}

	assert.Equal(t, 3, p.Quality.Total)
	assert.Equal(t, 0, p.Quality.Degenerate)
	assert.Nil(t, p.QualityRows)
}

func TestBuildWithoutMaterialNodeGroups(t *testing.T) {
	c := NewClassifier(testBox(), testMaterials())
	p := Build(testMesh(), c, Options{QualityRows: true})

	require.Len(t, p.NodeGroups, 16)
	assert.Equal(t, "piston_nodes", p.NodeGroups[15].Name)
	require.Len(t, p.QualityRows, 3)
	for i, row := range p.QualityRows {
		assert.Equal(t, i+1, row.ID)
	}
	assert.InDelta(t, 100.0*100*50/6, p.QualityRows[0].Volume, 1e-9)
}

func TestOriginBoundaries(t *testing.T) {
	c := NewClassifier(testBox(), nil)
	in := c.Boundaries(geom.Vec{0, 0, 0})

	for _, b := range []Boundary{Bottom, Left, Front, Corner} {
		assert.True(t, in[b], b.String())
	}
	for _, b := range []Boundary{Top, Right, Back, TopCorner} {
		assert.False(t, in[b], b.String())
	}
}

func TestSphereContainmentIsInclusive(t *testing.T) {
	c := NewClassifier(testBox(), testMaterials())
	center := geom.Vec{50, 50, 20}

	for k := 0; k < 3; k++ {
		v := center
		v[k] += 5
		assert.Equal(t, 1, c.Classify(v), "axis %d", k)

		v[k] += 1e-9
		assert.Equal(t, Matrix, c.Classify(v), "axis %d", k)
	}
}

func TestCylinderContainment(t *testing.T) {
	for _, r := range []float64{1e-9, 1, 100} {
		mats := []io.MaterialPoints{{
			Name: "fiber", Morph: geom.MorphCylinder,
			Particles: []geom.Particle{geom.NewCylinderParticle(
				geom.CylinderBetween(geom.Vec{10, 10, 10}, geom.Vec{30, 10, 10}, r),
			)},
		}}
		c := NewClassifier(testBox(), mats)

		assert.Equal(t, 0, c.Classify(geom.Vec{20, 10, 10}), "r = %g", r)
		assert.Equal(t, Matrix, c.Classify(geom.Vec{9.5, 10, 10}), "r = %g", r)
		assert.Equal(t, Matrix, c.Classify(geom.Vec{30.5, 10, 10}), "r = %g", r)
	}
}

func TestClassifierUsesFileEndpoints(t *testing.T) {
	gen := rand.New(rand.NewSource(11))
	fibers := make([]geom.Particle, 2000)
	for i := range fibers {
		fibers[i] = geom.NewCylinderParticle(geom.Cylinder{
			Center: geom.Vec{5000 * gen.Float64(), 5000 * gen.Float64(), 5000 * gen.Float64()},
			Axis:   geom.Vec{gen.Float64() - 0.5, gen.Float64() - 0.5, gen.Float64() - 0.5}.Unit(),
			Radius: 1 + gen.Float64(), Length: 100 + 1000*gen.Float64(),
		})
	}
	written := []io.MaterialPoints{{
		Name: "fiber", Morph: geom.MorphCylinder, Particles: fibers,
	}}

	buf := &bytes.Buffer{}
	require.NoError(t, io.WriteControlPoints(buf, written))
	mats, err := io.ReadControlPoints(buf)
	require.NoError(t, err)
	require.Len(t, mats[0].Particles, len(fibers))

	box := &io.GeometryConfig{Length: 1e4, Width: 1e4, Height: 1e4, PistonThicc: 1}
	c := NewClassifier(box, mats)
	for j := range fibers {
		s := &c.shapes[0][j]
		if s.a != fibers[j].Cyl.Center || s.b != fibers[j].Cyl.End() {
			t.Errorf("%d) Classifier axis %v -> %v, file has %v -> %v.", j+1,
				s.a, s.b, fibers[j].Cyl.Center, fibers[j].Cyl.End())
		}
		if m := c.Material(fibers[j].Cyl.End()); m != 0 {
			t.Errorf("%d) Far endpoint classified as %d.", j+1, m)
		}
	}
}

func TestFirstMaterialWins(t *testing.T) {
	mats := []io.MaterialPoints{
		{
			Name: "small", Morph: geom.MorphSphere,
			Particles: []geom.Particle{geom.NewSphereParticle(
				geom.Sphere{Center: geom.Vec{20, 20, 20}, Radius: 2},
			)},
		},
		{
			Name: "large", Morph: geom.MorphSphere,
			Particles: []geom.Particle{geom.NewSphereParticle(
				geom.Sphere{Center: geom.Vec{20, 20, 20}, Radius: 10},
			)},
		},
	}
	c := NewClassifier(testBox(), mats)

	assert.Equal(t, 0, c.Classify(geom.Vec{20, 20, 21}))
	assert.Equal(t, 1, c.Classify(geom.Vec{20, 20, 25}))
	assert.Equal(t, []string{"small", "large"}, c.Materials())
}

func TestPistonBeforeMaterials(t *testing.T) {
	mats := []io.MaterialPoints{{
		Name: "bead", Morph: geom.MorphSphere,
		Particles: []geom.Particle{geom.NewSphereParticle(
			geom.Sphere{Center: geom.Vec{50, 50, 45}, Radius: 3},
		)},
	}}
	c := NewClassifier(testBox(), mats)

	assert.Equal(t, Piston, c.Classify(geom.Vec{50, 50, 45}))
	assert.Equal(t, 0, c.Classify(geom.Vec{50, 50, 44.5}))
	assert.True(t, c.InPiston(geom.Vec{0, 0, 50}))
}

func TestBuildIdempotent(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "GeoGen.mat")
	require.NoError(t, io.WriteControlPointsFile(fname, testMaterials()))

	write := func() string {
		mats, err := io.ReadControlPointsFile(fname)
		require.NoError(t, err)

		mesh := testMesh()
		p := Build(mesh, NewClassifier(testBox(), mats), Options{})
		buf := &bytes.Buffer{}
		require.NoError(t, io.WriteDat(buf, mesh, p.NodeGroups, p.ElementGroups))
		return buf.String()
	}

	assert.Equal(t, write(), write())
}
