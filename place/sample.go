package place

import (
	"fmt"

	"github.com/brakepad/microgen/geom"
	"github.com/brakepad/microgen/io"
)

// uniform returns a number uniformly distributed in [lo, hi).
func (p *Placer) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*p.rng.Float64()
}

// drawSize draws a particle dimension. Gaussian draws come from the size
// stream and uniform draws from the run stream.
func (p *Placer) drawSize(d *io.Distribution) float64 {
	switch d.Kind {
	case io.Gaussian:
		return d.Mean + d.StdDev*p.sizeRng.NormFloat64()
	case io.Uniform:
		return p.uniform(d.Min, d.Max)
	}
	panic(fmt.Sprintf("Unknown distribution %d.", int(d.Kind)))
}

// sample draws one candidate particle. ok is false if the draw has to be
// thrown away before it can even be checked, e.g. because of a negative
// radius.
func (p *Placer) sample(m *io.Material) (part geom.Particle, ok bool) {
	switch m.Morph {
	case geom.MorphCylinder:
		return p.sampleCylinder(m)
	case geom.MorphSphere:
		return p.sampleSphere(m)
	}
	panic(fmt.Sprintf("Unknown morphology %d.", int(m.Morph)))
}

// sampleCylinder draws a random axis direction from the cube [-1, 1]^3 and a
// base center from anywhere in the box. The bounds check does the rest.
func (p *Placer) sampleCylinder(m *io.Material) (geom.Particle, bool) {
	r := p.drawSize(&m.Radius)
	l := p.drawSize(&m.Length)

	axis := geom.Vec{
		p.uniform(-1, 1), p.uniform(-1, 1), p.uniform(-1, 1),
	}
	center := geom.Vec{
		p.uniform(0, p.con.Length),
		p.uniform(0, p.con.Width),
		p.uniform(0, p.con.Height),
	}

	if r <= 0 || l <= 0 || geom.Norm(axis) == 0 {
		return geom.Particle{}, false
	}

	cyl := geom.Cylinder{Center: center, Axis: axis.Unit(), Radius: r, Length: l}
	return geom.NewCylinderParticle(cyl), true
}

// sampleSphere draws a center from the region where the whole sphere clears
// the boundary tolerance.
func (p *Placer) sampleSphere(m *io.Material) (geom.Particle, bool) {
	r := p.drawSize(&m.Radius)
	tol := p.con.TolParticlesBoundaries
	ext := extents(&p.con)

	var center geom.Vec
	for k := 0; k < 3; k++ {
		center[k] = p.uniform(tol+r, ext[k]-r-tol)
	}

	if r <= 0 || 2*(r+tol) >= ext[0] || 2*(r+tol) >= ext[1] ||
		2*(r+tol) >= ext[2] {
		return geom.Particle{}, false
	}

	return geom.NewSphereParticle(geom.Sphere{Center: center, Radius: r}), true
}
