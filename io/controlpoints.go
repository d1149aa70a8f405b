package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/brakepad/microgen/geom"
)

// MaterialPoints is one material section of a control-point file.
type MaterialPoints struct {
	Name      string
	Morph     geom.Morph
	Particles []geom.Particle
	// Points holds the control points of each particle exactly as they
	// appear in the file. It is nil for sections built in memory.
	Points [][]geom.Vec
	// Skipped counts particle lines with the wrong number of columns.
	Skipped int
}

// ParticlePoints returns the control points of particle i. Points read from
// a file are returned verbatim rather than rebuilt from the particle, which
// can move a cylinder's far end by an ulp.
func (mp *MaterialPoints) ParticlePoints(i int) []geom.Vec {
	if mp.Points != nil {
		return mp.Points[i]
	}
	return mp.Particles[i].ControlPoints()
}

// formatFloat writes floats in their shortest round-trip form so that
// meshpart sees exactly the coordinates geogen placed.
func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// WriteControlPoints writes a control-point file. Each material section is
// a name line, a morphology line ("cyl" or "sph"), a particle count, and then
// one "radius x1 y1 z1 [x2 y2 z2]" line per particle.
func WriteControlPoints(w io.Writer, mats []MaterialPoints) error {
	bw := bufio.NewWriter(w)
	for i := range mats {
		mp := &mats[i]
		fmt.Fprintf(bw, "%s\n%s\n%d\n", mp.Name, mp.Morph, len(mp.Particles))
		for j := range mp.Particles {
			p := &mp.Particles[j]
			if p.Morph != mp.Morph {
				return fmt.Errorf(
					"particle %d of material '%s' is a %s, not a %s",
					j, mp.Name, p.Morph, mp.Morph,
				)
			}

			bw.WriteString(formatFloat(p.Radius()))
			for _, cp := range p.ControlPoints() {
				for k := 0; k < 3; k++ {
					bw.WriteByte(' ')
					bw.WriteString(formatFloat(cp[k]))
				}
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// WriteControlPointsFile writes a control-point file to disk.
func WriteControlPointsFile(fname string, mats []MaterialPoints) error {
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("could not create control-point file: %w", err)
	}
	if err = WriteControlPoints(f, mats); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadControlPointsFile reads a control-point file from disk.
func ReadControlPointsFile(fname string) ([]MaterialPoints, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("could not open control-point file: %w", err)
	}
	defer f.Close()
	return ReadControlPoints(f)
}

// ReadControlPoints reads a control-point file. Particle lines with the wrong
// number of columns for their material are skipped and counted, and a file
// which ends early just produces fewer particles. An unknown morphology or an
// unreadable count is an error.
func ReadControlPoints(r io.Reader) ([]MaterialPoints, error) {
	scanner := bufio.NewScanner(r)
	mats := []MaterialPoints{}

	for scanner.Scan() {
		name := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(name) == "" {
			continue
		}
		mp := MaterialPoints{Name: name}

		if !scanner.Scan() {
			return nil, fmt.Errorf("material '%s' has no morphology line", name)
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "cyl":
			mp.Morph = geom.MorphCylinder
		case "sph":
			mp.Morph = geom.MorphSphere
		default:
			return nil, fmt.Errorf(
				"unknown morphology (%s) for material '%s'",
				strings.TrimSpace(scanner.Text()), name,
			)
		}

		if !scanner.Scan() {
			return nil, fmt.Errorf("material '%s' has no count line", name)
		}
		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil || n < 0 {
			return nil, fmt.Errorf(
				"bad particle count '%s' for material '%s'",
				scanner.Text(), name,
			)
		}

		mp.Particles = make([]geom.Particle, 0, n)
		mp.Points = make([][]geom.Vec, 0, n)
		for i := 0; i < n && scanner.Scan(); i++ {
			p, cps, ok := parseParticle(scanner.Text(), mp.Morph)
			if !ok {
				mp.Skipped++
				continue
			}
			mp.Particles = append(mp.Particles, p)
			mp.Points = append(mp.Points, cps)
		}

		mats = append(mats, mp)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read control-point file: %w", err)
	}
	return mats, nil
}

func parseParticle(
	line string, morph geom.Morph,
) (geom.Particle, []geom.Vec, bool) {
	cols := strings.Fields(line)

	want := 0
	switch morph {
	case geom.MorphCylinder:
		want = 7
	case geom.MorphSphere:
		want = 4
	}
	if len(cols) != want {
		return geom.Particle{}, nil, false
	}

	vals := make([]float64, len(cols))
	for i := range cols {
		x, err := strconv.ParseFloat(cols[i], 64)
		if err != nil {
			return geom.Particle{}, nil, false
		}
		vals[i] = x
	}

	switch morph {
	case geom.MorphCylinder:
		a := geom.Vec{vals[1], vals[2], vals[3]}
		b := geom.Vec{vals[4], vals[5], vals[6]}
		cyl := geom.CylinderBetween(a, b, vals[0])
		return geom.NewCylinderParticle(cyl), []geom.Vec{a, b}, true
	case geom.MorphSphere:
		c := geom.Vec{vals[1], vals[2], vals[3]}
		sph := geom.Sphere{Center: c, Radius: vals[0]}
		return geom.NewSphereParticle(sph), []geom.Vec{c}, true
	}
	panic(fmt.Sprintf("Unknown morphology %d.", int(morph)))
}
