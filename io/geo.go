package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/brakepad/microgen/geom"
)

// GeoIDs are the next free ids of each kind of gmsh entity. Surface loops 1
// and 2 are reserved for the matrix and the piston, so particles start at 3.
type GeoIDs struct {
	Point, Line, LineLoop, Surface, SurfaceLoop int
}

func NewGeoIDs() GeoIDs {
	return GeoIDs{Point: 1, Line: 1, LineLoop: 1, Surface: 1, SurfaceLoop: 3}
}

// boxSurfaces is the number of plane surfaces written for the box and the
// piston. Surfaces 2, 4, 6, 8, 10, and 11 bound the piston.
const boxSurfaces = 11

// GeoWriter streams a gmsh geometry script. Entities are numbered in the
// order they are written. Write errors are sticky and reported by Flush.
type GeoWriter struct {
	w   *bufio.Writer
	ids GeoIDs
	// particleLoops[i] are the line loops bounding particle i.
	particleLoops [][]int
	err           error
}

func NewGeoWriter(w io.Writer) *GeoWriter {
	return &GeoWriter{w: bufio.NewWriter(w), ids: NewGeoIDs()}
}

// IDs returns the next free ids.
func (gw *GeoWriter) IDs() GeoIDs { return gw.ids }

// Particles returns the number of particles written so far.
func (gw *GeoWriter) Particles() int { return len(gw.particleLoops) }

func (gw *GeoWriter) printf(format string, args ...interface{}) {
	if gw.err != nil {
		return
	}
	_, gw.err = fmt.Fprintf(gw.w, format, args...)
}

func joinInts(xs []int) string {
	strs := make([]string, len(xs))
	for i := range xs {
		strs[i] = strconv.Itoa(xs[i])
	}
	return strings.Join(strs, ",")
}

func (gw *GeoWriter) point(v geom.Vec, meshSize float64) int {
	id := gw.ids.Point
	gw.ids.Point++
	gw.printf("Point(%d) = { %s,%s,%s,%s };\n", id,
		formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]),
		formatFloat(meshSize))
	return id
}

func (gw *GeoWriter) line(a, b int) int {
	id := gw.ids.Line
	gw.ids.Line++
	gw.printf("Line(%d) = { %d,%d };\n", id, a, b)
	return id
}

// circle writes the arc from a to b around center.
func (gw *GeoWriter) circle(a, center, b int) int {
	id := gw.ids.Line
	gw.ids.Line++
	gw.printf("Circle(%d) = { %d,%d,%d };\n", id, a, center, b)
	return id
}

func (gw *GeoWriter) lineLoop(lines ...int) int {
	id := gw.ids.LineLoop
	gw.ids.LineLoop++
	gw.printf("Line Loop(%d) = { %s };\n", id, joinInts(lines))
	return id
}

func (gw *GeoWriter) planeSurface(loop int) {
	gw.printf("Plane Surface(%d) = { %d };\n", gw.ids.Surface, loop)
	gw.ids.Surface++
}

func (gw *GeoWriter) surface(loop int) {
	gw.printf("Surface(%d) = { %d };\n", gw.ids.Surface, loop)
	gw.ids.Surface++
}

// WriteHeader writes the comment block recording when the script was made
// and with which seed.
func (gw *GeoWriter) WriteHeader(seed int64, t time.Time) {
	gw.printf("/** Gmsh geometry script generated by geogen\n")
	gw.printf(" *  Timestamp: %s\n", t.Format(time.ANSIC))
	gw.printf(" *  Rand seed: %d\n", seed)
	gw.printf(" **/\n\nMesh.Algorithm = 6;\n\n")
}

// WriteBox writes points 1-12, lines 1-20, and plane surfaces 1-11 of the
// box and the piston slab on top of it.
func (gw *GeoWriter) WriteBox(con *GeometryConfig) {
	gw.printf("// Box\n")
	L, W, H, ms := con.Length, con.Width, con.Height, con.GlobalMeshSize

	zs := [3]float64{0, H - con.PistonThicc, H}
	p := [13]int{}
	for i, z := range zs {
		p[4*i+1] = gw.point(geom.Vec{0, 0, z}, ms)
		p[4*i+2] = gw.point(geom.Vec{L, 0, z}, ms)
		p[4*i+3] = gw.point(geom.Vec{L, W, z}, ms)
		p[4*i+4] = gw.point(geom.Vec{0, W, z}, ms)
	}

	pairs := [20][2]int{
		{1, 2}, {2, 3}, {3, 4}, {4, 1}, {1, 5}, {2, 6}, {3, 7}, {4, 8},
		{5, 6}, {6, 7}, {7, 8}, {8, 5},
		{9, 10}, {10, 11}, {11, 12}, {12, 9}, {5, 9}, {6, 10}, {7, 11}, {8, 12},
	}
	for _, pair := range pairs {
		gw.line(p[pair[0]], p[pair[1]])
	}

	loops := [boxSurfaces][]int{
		{8, -11, -7, 3}, {20, -15, -19, 11},
		{4, 5, -12, -8}, {17, -16, -20, 12},
		{6, -9, -5, 1}, {9, 18, -13, -17},
		{2, 7, -10, -6}, {10, 19, -14, -18},
		{-1, -4, -3, -2}, {13, 14, 15, 16},
		{-9, -12, -11, -10},
	}
	ids := make([]int, len(loops))
	for i := range loops {
		ids[i] = gw.lineLoop(loops[i]...)
	}
	for _, id := range ids {
		gw.planeSurface(id)
	}
	gw.printf("\n")
}

// WriteParticle writes the points, arcs, and surfaces of a single particle.
func (gw *GeoWriter) WriteParticle(p *geom.Particle, meshSize float64) {
	switch p.Morph {
	case geom.MorphCylinder:
		gw.WriteCylinder(&p.Cyl, meshSize)
	case geom.MorphSphere:
		gw.WriteSphere(&p.Sph, meshSize)
	default:
		panic(fmt.Sprintf("Unknown morphology %d.", int(p.Morph)))
	}
}

// WriteCylinder writes a cylinder as two flat faces and four curved sides.
func (gw *GeoWriter) WriteCylinder(c *geom.Cylinder, meshSize float64) {
	gw.printf("// Cylinder %d\n", gw.ids.SurfaceLoop+len(gw.particleLoops))

	pts := c.Points()
	p := [10]int{}
	for i := range pts {
		p[i] = gw.point(pts[i], meshSize)
	}
	c1, c2 := p[0], p[5]
	// Rim points: 0-3 on the base, 4-7 on the far face.
	cp := [8]int{p[1], p[2], p[3], p[4], p[6], p[7], p[8], p[9]}

	ca := [8]int{
		gw.circle(cp[2], c1, cp[0]), gw.circle(cp[0], c1, cp[3]),
		gw.circle(cp[3], c1, cp[1]), gw.circle(cp[1], c1, cp[2]),
		gw.circle(cp[4], c2, cp[6]), gw.circle(cp[6], c2, cp[5]),
		gw.circle(cp[5], c2, cp[7]), gw.circle(cp[7], c2, cp[4]),
	}
	l := [4]int{
		gw.line(cp[0], cp[4]), gw.line(cp[1], cp[5]),
		gw.line(cp[2], cp[6]), gw.line(cp[3], cp[7]),
	}

	loops := []int{
		gw.lineLoop(ca[0], ca[1], ca[2], ca[3]),
		gw.lineLoop(ca[4], ca[5], ca[6], ca[7]),
		gw.lineLoop(-ca[0], l[2], -ca[4], -l[0]),
		gw.lineLoop(l[0], -ca[7], -l[3], -ca[1]),
		gw.lineLoop(l[3], -ca[6], -l[1], -ca[2]),
		gw.lineLoop(l[1], -ca[5], -l[2], -ca[3]),
	}
	gw.planeSurface(loops[0])
	gw.planeSurface(loops[1])
	for _, loop := range loops[2:] {
		gw.surface(loop)
	}
	gw.printf("\n")

	gw.particleLoops = append(gw.particleLoops, loops)
}

// WriteSphere writes a sphere as eight octant patches.
func (gw *GeoWriter) WriteSphere(s *geom.Sphere, meshSize float64) {
	gw.printf("// Sphere %d\n", gw.ids.SurfaceLoop+len(gw.particleLoops))

	pts := s.Points()
	p := [7]int{}
	for i := range pts {
		p[i] = gw.point(pts[i], meshSize)
	}
	c := p[0]

	ca := [12]int{
		gw.circle(p[1], c, p[3]), gw.circle(p[3], c, p[2]),
		gw.circle(p[2], c, p[4]), gw.circle(p[4], c, p[1]),
		gw.circle(p[3], c, p[6]), gw.circle(p[6], c, p[4]),
		gw.circle(p[4], c, p[5]), gw.circle(p[5], c, p[3]),
		gw.circle(p[1], c, p[6]), gw.circle(p[6], c, p[2]),
		gw.circle(p[2], c, p[5]), gw.circle(p[5], c, p[1]),
	}

	loops := []int{
		gw.lineLoop(ca[0], ca[4], -ca[8]),
		gw.lineLoop(ca[1], -ca[9], -ca[4]),
		gw.lineLoop(ca[9], ca[2], -ca[5]),
		gw.lineLoop(ca[8], ca[5], ca[3]),
		gw.lineLoop(-ca[1], -ca[7], -ca[10]),
		gw.lineLoop(ca[7], -ca[0], -ca[11]),
		gw.lineLoop(ca[11], -ca[3], ca[6]),
		gw.lineLoop(ca[10], -ca[6], -ca[2]),
	}
	for _, loop := range loops {
		gw.surface(loop)
	}
	gw.printf("\n")

	gw.particleLoops = append(gw.particleLoops, loops)
}

// WriteFooter writes the surface loops and volumes. Surface loop 1 is the
// matrix, which is every surface except the piston's sides and top. Surface
// loop 2 is the piston. Every particle gets its own loop after that.
func (gw *GeoWriter) WriteFooter() {
	gw.printf("// %s\n", strings.Repeat("-", 70))

	matrix := []int{}
	for id := 1; id < gw.ids.Surface; id++ {
		if id <= 10 && id%2 == 0 {
			continue
		}
		matrix = append(matrix, id)
	}
	gw.printf("Surface Loop(1) = { %s };\n", joinInts(matrix))
	gw.printf("Surface Loop(2) = { 2,4,6,8,10,11 };\n")

	for _, loops := range gw.particleLoops {
		gw.printf("Surface Loop(%d) = { %s };\n", gw.ids.SurfaceLoop, joinInts(loops))
		gw.ids.SurfaceLoop++
	}
	gw.printf("\n")

	for i := 1; i < gw.ids.SurfaceLoop; i++ {
		gw.printf("Volume(%d) = { %d };\n", i, i)
	}
}

// Flush flushes buffered output and returns the first error encountered.
func (gw *GeoWriter) Flush() error {
	if gw.err != nil {
		return gw.err
	}
	gw.err = gw.w.Flush()
	return gw.err
}
