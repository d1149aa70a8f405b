/*package render draws previews of generated pads: STL files of the placed
particles and plots of mesh quality.
*/
package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	sdfrender "github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/brakepad/microgen/geom"
)

// DefaultMeshCells is the marching cubes resolution along the longest side
// of the scene.
const DefaultMeshCells = 200

func toV3(v geom.Vec) v3.Vec {
	return v3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// ParticleSDF returns the signed distance function of a single particle.
func ParticleSDF(p *geom.Particle) (sdf.SDF3, error) {
	switch p.Morph {
	case geom.MorphCylinder:
		return cylinderSDF(&p.Cyl)
	case geom.MorphSphere:
		s, err := sdf.Sphere3D(p.Sph.Radius)
		if err != nil {
			return nil, err
		}
		return sdf.Transform3D(s, sdf.Translate3d(toV3(p.Sph.Center))), nil
	}
	panic(fmt.Sprintf("Unknown morphology %d.", int(p.Morph)))
}

// cylinderSDF builds a z-aligned cylinder centered on the origin, tilts it
// onto the particle's axis, and moves it to the axis midpoint.
func cylinderSDF(c *geom.Cylinder) (sdf.SDF3, error) {
	s, err := sdf.Cylinder3D(c.Length, c.Radius, 0)
	if err != nil {
		return nil, err
	}

	a := c.Axis.Unit()
	theta := math.Acos(math.Max(-1, math.Min(1, a[2])))
	phi := math.Atan2(a[1], a[0])
	mid := c.Center.Add(c.Axis.Scale(c.Length / 2))

	m := sdf.Translate3d(toV3(mid)).Mul(sdf.RotateZ(phi)).Mul(sdf.RotateY(theta))
	return sdf.Transform3D(s, m), nil
}

// Scene returns the union of every particle.
func Scene(ps []geom.Particle) (sdf.SDF3, error) {
	if len(ps) == 0 {
		return nil, errors.New("no particles to render")
	}

	sdfs := make([]sdf.SDF3, len(ps))
	for i := range ps {
		s, err := ParticleSDF(&ps[i])
		if err != nil {
			return nil, fmt.Errorf("particle %d: %w", i, err)
		}
		sdfs[i] = s
	}
	return sdf.Union3D(sdfs...), nil
}

// WriteSTL tessellates s with marching cubes and writes it as an ASCII STL
// file. It returns the number of triangles written.
func WriteSTL(w io.Writer, s sdf.SDF3, cells int) (int, error) {
	tris := sdfrender.ToTriangles(s, sdfrender.NewMarchingCubesUniform(cells))

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "solid particles")
	for _, tri := range tris {
		n := tri.Normal()
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", n.X, n.Y, n.Z)
		fmt.Fprintln(bw, "    outer loop")
		for j := 0; j < 3; j++ {
			v := tri[j]
			fmt.Fprintf(bw, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintln(bw, "endsolid particles")

	return len(tris), bw.Flush()
}
