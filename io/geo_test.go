package io

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brakepad/microgen/geom"
)

func testGeometry() *GeometryConfig {
	return &GeometryConfig{
		Length: 100, Width: 80, Height: 60, PistonThicc: 10,
		GlobalMeshSize: 5,
	}
}

func TestGeoHeader(t *testing.T) {
	buf := &bytes.Buffer{}
	gw := NewGeoWriter(buf)
	gw.WriteHeader(42, time.Date(2020, time.March, 4, 5, 6, 7, 0, time.UTC))
	require.NoError(t, gw.Flush())

	out := buf.String()
	assert.Contains(t, out, " *  Timestamp: Wed Mar  4 05:06:07 2020\n")
	assert.Contains(t, out, " *  Rand seed: 42\n")
	assert.Contains(t, out, "Mesh.Algorithm = 6;\n")
}

func TestGeoBox(t *testing.T) {
	buf := &bytes.Buffer{}
	gw := NewGeoWriter(buf)
	gw.WriteBox(testGeometry())
	require.NoError(t, gw.Flush())

	out := buf.String()
	for _, line := range []string{
		"Point(1) = { 0,0,0,5 };",
		"Point(3) = { 100,80,0,5 };",
		"Point(6) = { 100,0,50,5 };",
		"Point(12) = { 0,80,60,5 };",
		"Line(1) = { 1,2 };",
		"Line(12) = { 8,5 };",
		"Line(20) = { 8,12 };",
		"Line Loop(1) = { 8,-11,-7,3 };",
		"Line Loop(11) = { -9,-12,-11,-10 };",
		"Plane Surface(1) = { 1 };",
		"Plane Surface(11) = { 11 };",
	} {
		assert.Contains(t, out, line+"\n")
	}
	assert.NotContains(t, out, "Point(13)")
	assert.Equal(t, GeoIDs{
		Point: 13, Line: 21, LineLoop: 12, Surface: 12, SurfaceLoop: 3,
	}, gw.IDs())
}

func TestGeoParticles(t *testing.T) {
	buf := &bytes.Buffer{}
	gw := NewGeoWriter(buf)
	gw.WriteBox(testGeometry())

	sph := geom.NewSphereParticle(geom.Sphere{Center: geom.Vec{50, 40, 20}, Radius: 3})
	gw.WriteParticle(&sph, 1)
	assert.Equal(t, GeoIDs{
		Point: 20, Line: 33, LineLoop: 20, Surface: 20, SurfaceLoop: 3,
	}, gw.IDs())

	cyl := geom.NewCylinderParticle(
		geom.CylinderBetween(geom.Vec{10, 10, 10}, geom.Vec{30, 10, 10}, 2),
	)
	gw.WriteParticle(&cyl, 0.5)
	assert.Equal(t, GeoIDs{
		Point: 30, Line: 45, LineLoop: 26, Surface: 26, SurfaceLoop: 3,
	}, gw.IDs())
	assert.Equal(t, 2, gw.Particles())

	gw.WriteFooter()
	require.NoError(t, gw.Flush())
	out := buf.String()

	for _, line := range []string{
		// Sphere: center, then the -x pole.
		"Point(13) = { 50,40,20,1 };",
		"Point(14) = { 47,40,20,1 };",
		"Circle(21) = { 14,13,16 };",
		"Circle(32) = { 18,13,14 };",
		"Line Loop(12) = { 21,25,-29 };",
		"Line Loop(19) = { 31,-27,-23 };",
		"Surface(12) = { 12 };",
		"Surface(19) = { 19 };",

		// Cylinder: base center, then the far face center.
		"Point(20) = { 10,10,10,0.5 };",
		"Point(25) = { 30,10,10,0.5 };",
		"Circle(33) = { 23,20,21 };",
		"Line(41) = { 21,26 };",
		"Line Loop(20) = { 33,34,35,36 };",
		"Line Loop(22) = { -33,43,-37,-41 };",
		"Plane Surface(20) = { 20 };",
		"Plane Surface(21) = { 21 };",
		"Surface(22) = { 22 };",
		"Surface(25) = { 25 };",

		"Surface Loop(1) = { 1,3,5,7,9,11,12,13,14,15,16,17,18,19,20,21,22,23,24,25 };",
		"Surface Loop(2) = { 2,4,6,8,10,11 };",
		"Surface Loop(3) = { 12,13,14,15,16,17,18,19 };",
		"Surface Loop(4) = { 20,21,22,23,24,25 };",
		"Volume(1) = { 1 };",
		"Volume(4) = { 4 };",
	} {
		assert.Contains(t, out, line+"\n")
	}
	assert.NotContains(t, out, "Volume(5)")
	assert.Equal(t, 4, strings.Count(out, "Volume("))
}

func TestGeoCylinderRim(t *testing.T) {
	buf := &bytes.Buffer{}
	gw := NewGeoWriter(buf)
	cyl := geom.CylinderBetween(geom.Vec{0, 0, 0}, geom.Vec{4, 0, 0}, 1)
	gw.WriteCylinder(&cyl, 1)
	require.NoError(t, gw.Flush())

	out := buf.String()
	assert.Contains(t, out, "Point(2) = { 0,-1,0,1 };\n")
	assert.Contains(t, out, "Point(5) = { 0,0,1,1 };\n")
	assert.Contains(t, out, "Point(6) = { 4,0,0,1 };\n")
	assert.Contains(t, out, "Point(10) = { 4,0,1,1 };\n")
}
