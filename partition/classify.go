/*package partition sorts the nodes and tetrahedra of a gmsh mesh into the
regions of a brake pad: the matrix, the piston slab, and one region per
particle material.

Particles are read back from the control-point file written by geogen, so the
classifier sees exactly the particles that were meshed, in the order they
were placed.
*/
package partition

import (
	"fmt"

	"github.com/brakepad/microgen/geom"
	"github.com/brakepad/microgen/io"
)

const (
	// Matrix and Piston are the regions returned by Classify for points
	// outside of every particle. Materials are numbered from 0.
	Matrix = -1
	Piston = -2
)

// shape is a particle reduced to what containment tests need. For spheres
// only a is used.
type shape struct {
	morph geom.Morph
	a, b  geom.Vec
	r     float64
}

func (s *shape) contains(v geom.Vec) bool {
	switch s.morph {
	case geom.MorphCylinder:
		return geom.CylinderContains(s.a, s.b, s.r, v)
	case geom.MorphSphere:
		return geom.Dist(s.a, v) <= s.r
	}
	panic(fmt.Sprintf("Unknown morphology %d.", int(s.morph)))
}

// Classifier decides which region a point belongs to.
type Classifier struct {
	length, width, height float64
	pistonBottom          float64

	names  []string
	shapes [][]shape
}

// NewClassifier creates a classifier for the given box and materials. The
// order of mats decides ties: the first material containing a point wins.
func NewClassifier(con *io.GeometryConfig, mats []io.MaterialPoints) *Classifier {
	c := &Classifier{
		length: con.Length, width: con.Width, height: con.Height,
		pistonBottom: con.Height - con.PistonThicc,
		names:        make([]string, len(mats)),
		shapes:       make([][]shape, len(mats)),
	}

	for i := range mats {
		c.names[i] = mats[i].Name
		c.shapes[i] = make([]shape, len(mats[i].Particles))
		for j := range mats[i].Particles {
			p := &mats[i].Particles[j]
			cp := mats[i].ParticlePoints(j)
			s := shape{morph: p.Morph, a: cp[0], r: p.Radius()}
			if p.Morph == geom.MorphCylinder {
				s.b = cp[1]
			}
			c.shapes[i][j] = s
		}
	}
	return c
}

// Materials returns the names of the materials, in order.
func (c *Classifier) Materials() []string { return c.names }

// InPiston returns true if v is inside the piston slab. The bottom face of
// the slab counts as part of it.
func (c *Classifier) InPiston(v geom.Vec) bool {
	return v[2] >= c.pistonBottom
}

// Material returns the index of the first material with a particle that
// contains v, or Matrix if there isn't one.
func (c *Classifier) Material(v geom.Vec) int {
	for i := range c.shapes {
		for j := range c.shapes[i] {
			if c.shapes[i][j].contains(v) {
				return i
			}
		}
	}
	return Matrix
}

// Classify returns the region of v: Piston, a material index, or Matrix.
// The piston is checked first, since no particle reaches into it.
func (c *Classifier) Classify(v geom.Vec) int {
	if c.InPiston(v) {
		return Piston
	}
	return c.Material(v)
}

// Boundary is one of the coordinate-equality node groups.
type Boundary int

const (
	Top Boundary = iota
	Bottom
	Left
	Right
	Front
	Back
	Corner
	TopCorner
	ZLeft
	ZRight
	YLeft
	YRight
	XFront
	XBack
	NumBoundaries
)

var boundaryNames = [NumBoundaries]string{
	"top_nodes", "bottom_nodes", "left_nodes", "right_nodes",
	"front_nodes", "back_nodes", "corner_nodes", "top_corner_nodes",
	"zleft_nodes", "zright_nodes", "yleft_nodes", "yright_nodes",
	"xfront_nodes", "xback_nodes",
}

// String returns the name of the boundary's node group.
func (b Boundary) String() string { return boundaryNames[b] }

// Boundaries returns which boundary groups v belongs to. Coordinates are
// compared exactly, since gmsh places boundary nodes exactly on the box
// faces. A node can be in any number of groups.
func (c *Classifier) Boundaries(v geom.Vec) [NumBoundaries]bool {
	x, y, z := v[0], v[1], v[2]
	x0, xL := x == 0, x == c.length
	y0, yW := y == 0, y == c.width
	z0, zH := z == 0, z == c.height
	xEdge, yEdge := x0 || xL, y0 || yW

	var in [NumBoundaries]bool
	in[Top], in[Bottom] = zH, z0
	in[Left], in[Right] = x0, xL
	in[Front], in[Back] = y0, yW
	in[Corner] = xEdge && yEdge && z0
	in[TopCorner] = xEdge && yEdge && zH
	in[ZLeft], in[ZRight] = x0 && yEdge, xL && yEdge
	in[YLeft], in[YRight] = x0 && z0, xL && z0
	in[XFront], in[XBack] = y0 && z0, yW && z0
	return in
}
