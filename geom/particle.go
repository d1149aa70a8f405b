package geom

import (
	"fmt"
	"math"
	"strings"
)

// Morph is the shape of a particle.
type Morph int

const (
	MorphCylinder Morph = iota
	MorphSphere
)

// String returns the short name used in control-point files.
func (m Morph) String() string {
	switch m {
	case MorphCylinder:
		return "cyl"
	case MorphSphere:
		return "sph"
	}
	panic(fmt.Sprintf("Unknown morphology %d.", int(m)))
}

// ParseMorph accepts both the short and the long names of a morphology.
func ParseMorph(s string) (Morph, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cyl", "cylinder":
		return MorphCylinder, nil
	case "sph", "sphere":
		return MorphSphere, nil
	}
	return 0, fmt.Errorf("Unknown morphology '%s'.", s)
}

// Cylinder is a right circular cylinder. Center is the center of its base
// and Axis is a unit vector pointing from the base to the opposite face.
type Cylinder struct {
	Center, Axis   Vec
	Radius, Length float64
}

// Sphere is a ball. (Duh!)
type Sphere struct {
	Center Vec
	Radius float64
}

// Particle is a placed inclusion. Exactly one of Cyl and Sph is meaningful,
// as selected by Morph.
type Particle struct {
	Morph Morph
	Cyl   Cylinder
	Sph   Sphere
}

// CylinderBetween returns the cylinder whose axis runs from a to b.
func CylinderBetween(a, b Vec, radius float64) Cylinder {
	d := b.Sub(a)
	return Cylinder{Center: a, Axis: d.Unit(), Radius: radius, Length: Norm(d)}
}

func NewCylinderParticle(cyl Cylinder) Particle {
	return Particle{Morph: MorphCylinder, Cyl: cyl}
}

func NewSphereParticle(sph Sphere) Particle {
	return Particle{Morph: MorphSphere, Sph: sph}
}

// End returns the center of the cylinder's far face.
func (c *Cylinder) End() Vec {
	return c.Center.Add(c.Axis.Scale(c.Length))
}

// Points returns the ten points used to describe a cylinder in geometry
// scripts: each face contributes its center followed by the points at -y, +y,
// -z and +z of the canonical x-aligned cylinder, rotated onto Axis.
func (c *Cylinder) Points() [10]Vec {
	rot := RotationMatrix(XAxis, c.Axis)
	r := c.Radius
	rim := [4]Vec{{0, -r, 0}, {0, r, 0}, {0, 0, -r}, {0, 0, r}}

	var pts [10]Vec
	for face, center := range [2]Vec{c.Center, c.End()} {
		pts[5*face] = center
		for i := range rim {
			pts[5*face+1+i] = rot.Mul(rim[i]).Add(center)
		}
	}
	return pts
}

// Contains returns true if p lies between the two faces of the cylinder and
// no further than Radius from its axis.
func (c *Cylinder) Contains(p Vec) bool {
	return CylinderContains(c.Center, c.End(), c.Radius, p)
}

// CylinderContains returns true if p is inside the cylinder of radius r whose
// axis runs from a to b. Both faces and the curved side are inclusive.
func CylinderContains(a, b Vec, r float64, p Vec) bool {
	ab, ap, bp := b.Sub(a), p.Sub(a), p.Sub(b)
	if Dot(ab, ap) < 0 || Dot(a.Sub(b), bp) < 0 {
		return false
	}
	return Norm(Cross(ap, bp))/Norm(ab) <= r
}

// Volume returns pi r^2 l.
func (c *Cylinder) Volume() float64 {
	return math.Pi * c.Radius * c.Radius * c.Length
}

// Points returns the center of the sphere followed by its six poles in the
// order -x, +x, -y, +y, -z, +z.
func (s *Sphere) Points() [7]Vec {
	c, r := s.Center, s.Radius
	return [7]Vec{
		c,
		{c[0] - r, c[1], c[2]}, {c[0] + r, c[1], c[2]},
		{c[0], c[1] - r, c[2]}, {c[0], c[1] + r, c[2]},
		{c[0], c[1], c[2] - r}, {c[0], c[1], c[2] + r},
	}
}

// Contains returns true if p is no further than Radius from the center.
func (s *Sphere) Contains(p Vec) bool {
	return Dist(s.Center, p) <= s.Radius
}

// Volume returns 4/3 pi r^3.
func (s *Sphere) Volume() float64 {
	return 4 * math.Pi * s.Radius * s.Radius * s.Radius / 3
}

func (p *Particle) Radius() float64 {
	switch p.Morph {
	case MorphCylinder:
		return p.Cyl.Radius
	case MorphSphere:
		return p.Sph.Radius
	}
	panic(fmt.Sprintf("Unknown morphology %d.", int(p.Morph)))
}

// ControlPoints returns the points which define the particle: both axis
// endpoints of a cylinder or the center of a sphere.
func (p *Particle) ControlPoints() []Vec {
	switch p.Morph {
	case MorphCylinder:
		return []Vec{p.Cyl.Center, p.Cyl.End()}
	case MorphSphere:
		return []Vec{p.Sph.Center}
	}
	panic(fmt.Sprintf("Unknown morphology %d.", int(p.Morph)))
}

// Points returns every representative point of the particle. A particle is
// inside a region if all of these points are.
func (p *Particle) Points() []Vec {
	switch p.Morph {
	case MorphCylinder:
		pts := p.Cyl.Points()
		return pts[:]
	case MorphSphere:
		pts := p.Sph.Points()
		return pts[:]
	}
	panic(fmt.Sprintf("Unknown morphology %d.", int(p.Morph)))
}

func (p *Particle) Contains(v Vec) bool {
	switch p.Morph {
	case MorphCylinder:
		return p.Cyl.Contains(v)
	case MorphSphere:
		return p.Sph.Contains(v)
	}
	panic(fmt.Sprintf("Unknown morphology %d.", int(p.Morph)))
}

func (p *Particle) Volume() float64 {
	switch p.Morph {
	case MorphCylinder:
		return p.Cyl.Volume()
	case MorphSphere:
		return p.Sph.Volume()
	}
	panic(fmt.Sprintf("Unknown morphology %d.", int(p.Morph)))
}

// Separation returns the distance which is compared against the sum of two
// particles' radii to decide whether they collide. Two cylinders use the
// distance between their infinite axis lines, a cylinder and a sphere use the
// distance from the center to the axis line, and two spheres use the
// distance between centers.
func Separation(p, q *Particle) float64 {
	switch p.Morph {
	case MorphCylinder:
		switch q.Morph {
		case MorphCylinder:
			return lineLineDist(&p.Cyl, &q.Cyl)
		case MorphSphere:
			return pointLineDist(q.Sph.Center, &p.Cyl)
		}
	case MorphSphere:
		switch q.Morph {
		case MorphCylinder:
			return pointLineDist(p.Sph.Center, &q.Cyl)
		case MorphSphere:
			return Dist(p.Sph.Center, q.Sph.Center)
		}
	}
	panic(fmt.Sprintf(
		"Unknown morphology pair (%d, %d).", int(p.Morph), int(q.Morph),
	))
}

// Collides returns true if two particles are closer than tol to one another
// according to Separation.
func Collides(p, q *Particle, tol float64) bool {
	return Separation(p, q) <= p.Radius()+q.Radius()+tol
}

// lineLineDist uses the common perpendicular of the two axes. Parallel axes
// have no unique common perpendicular, so the distance from one base center
// to the other axis is used instead.
func lineLineDist(c1, c2 *Cylinder) float64 {
	n := Cross(c1.Axis, c2.Axis)
	nn := Norm(n)
	if nn == 0 {
		return pointLineDist(c1.Center, c2)
	}
	return math.Abs(Dot(c2.Center.Sub(c1.Center), n)) / nn
}

func pointLineDist(p Vec, c *Cylinder) float64 {
	return Norm(Cross(p.Sub(c.Center), c.Axis)) / Norm(c.Axis)
}
