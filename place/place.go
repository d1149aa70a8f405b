/*package place scatters particles through the pad domain.

Every particle is placed with the same loop: draw a candidate, reject it if
any of its representative points leave the box (less the boundary tolerance
and the piston slab), reject it if it is too close to any particle already
accepted, and accept it otherwise. Accepted particles are immediately written
to the geometry script, so entity ids follow acceptance order.
*/
package place

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/brakepad/microgen/geom"
	"github.com/brakepad/microgen/io"
)

// ExhaustedError is returned when no acceptable candidate was found for a
// particle within the iteration limit.
type ExhaustedError struct {
	Material        string
	Index, Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf(
		"could not place particle %d of material '%s' after %d attempts",
		e.Index, e.Material, e.Attempts,
	)
}

// MaterialResult is the outcome of placing a single material.
type MaterialResult struct {
	Material io.Material
	// Requested is the number of particles the material asked for.
	Requested int
	Particles []geom.Particle
	// Attempts is the total number of candidates drawn, and MaxAttempts is
	// the most drawn for any single particle.
	Attempts, MaxAttempts int
}

// Volume is the total volume of the placed particles.
func (mr *MaterialResult) Volume() float64 {
	vol := 0.0
	for i := range mr.Particles {
		vol += mr.Particles[i].Volume()
	}
	return vol
}

// placed is an accepted particle together with the index of its material.
type placed struct {
	material int
	geom.Particle
}

// Placer holds the state of one placement run.
type Placer struct {
	con    io.GeometryConfig
	seed   int64
	gw     *io.GeoWriter
	logger *zap.Logger

	// rng draws positions, axes, and uniform sizes. sizeRng draws Gaussian
	// sizes.
	rng, sizeRng *rand.Rand

	accepted []placed
}

// ResolveSeed returns seed, unless it is zero, in which case a seed is taken
// from the clock.
func ResolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	seed = time.Now().UnixNano()
	if seed == 0 {
		seed = 1
	}
	return seed
}

// NewPlacer creates a Placer. seed must already be resolved. Accepted
// particles are written to gw unless it is nil.
func NewPlacer(
	con *io.GeometryConfig, seed int64, gw *io.GeoWriter, logger *zap.Logger,
) *Placer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Placer{
		con: *con, seed: seed, gw: gw, logger: logger,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Count returns the number of particles a material asks for. Volume
// fractions are converted with the representative particle volume and
// rounded up.
func Count(m *io.Material, con *io.GeometryConfig) int {
	if m.VolFrac > 0 {
		n := m.VolFrac * con.MatrixVolume() / m.ParticleVolume()
		return int(math.Ceil(n))
	}
	return m.Count
}

// Preflight rejects configurations which could never be placed.
func Preflight(con *io.GeometryConfig, mats []io.Material) error {
	tol := con.TolParticlesBoundaries
	ext := extents(con)
	for k, name := range [3]string{"length", "width", "height"} {
		if ext[k] <= 2*tol {
			return &io.ConfigError{Key: name, Msg: fmt.Sprintf(
				"usable extent %g leaves no room inside a boundary tolerance of %g",
				ext[k], tol,
			)}
		}
	}

	minExt := math.Min(ext[0], math.Min(ext[1], ext[2]))
	for i := range mats {
		m := &mats[i]
		if m.Morph != geom.MorphSphere || m.Radius.Kind != io.Uniform {
			continue
		}
		if 2*(m.Radius.Min+tol) >= minExt {
			return &io.ConfigError{Material: m.Name, Key: "rad_min", Msg: fmt.Sprintf(
				"no sphere of radius %g fits in an extent of %g with a "+
					"boundary tolerance of %g", m.Radius.Min, minExt, tol,
			)}
		}
	}
	return nil
}

// extents returns the size of the region particles may occupy.
func extents(con *io.GeometryConfig) geom.Vec {
	return geom.Vec{con.Length, con.Width, con.Height - con.PistonThicc}
}

// PlaceMaterial places every particle requested by a material. mat is the
// index of the material in the run.
func (p *Placer) PlaceMaterial(mat int, m *io.Material) (*MaterialResult, error) {
	res := &MaterialResult{Material: *m, Requested: Count(m, &p.con)}
	res.Particles = make([]geom.Particle, 0, res.Requested)

	if !p.con.ReseedPerParticle {
		p.sizeRng = rand.New(rand.NewSource(p.seed + int64(mat)))
	}

	for i := 0; i < res.Requested; i++ {
		if p.con.ReseedPerParticle {
			p.sizeRng = rand.New(rand.NewSource(p.seed))
		}

		part, attempts, ok := p.placeParticle(m)
		res.Attempts += attempts
		if attempts > res.MaxAttempts {
			res.MaxAttempts = attempts
		}
		if !ok {
			return res, &ExhaustedError{m.Name, i, attempts}
		}

		res.Particles = append(res.Particles, part)
		p.accepted = append(p.accepted, placed{mat, part})
		if p.gw != nil {
			p.gw.WriteParticle(&part, m.MeshSize)
		}
	}

	p.logger.Info("Placed material.",
		zap.String("material", m.Name),
		zap.Stringer("morph", m.Morph),
		zap.Int("particles", len(res.Particles)),
		zap.Int("attempts", res.Attempts),
	)
	return res, nil
}

// placeParticle runs the sample-check-accept loop for a single particle.
func (p *Placer) placeParticle(m *io.Material) (geom.Particle, int, bool) {
	for attempts := 1; attempts <= p.con.IterLimit; attempts++ {
		part, ok := p.sample(m)
		if !ok {
			continue
		}
		if !p.InBounds(&part) {
			continue
		}
		if p.Collides(&part) {
			continue
		}
		return part, attempts, true
	}
	return geom.Particle{}, p.con.IterLimit, false
}

// InBounds returns true if every representative point of the particle is
// strictly inside the box less the boundary tolerance and the piston slab.
func (p *Placer) InBounds(part *geom.Particle) bool {
	tol := p.con.TolParticlesBoundaries
	ext := extents(&p.con)
	for _, pt := range part.Points() {
		for k := 0; k < 3; k++ {
			if pt[k] <= tol || pt[k] >= ext[k]-tol {
				return false
			}
		}
	}
	return true
}

// Collides returns true if the particle is too close to any accepted
// particle, from any material.
func (p *Placer) Collides(part *geom.Particle) bool {
	for i := range p.accepted {
		if geom.Collides(part, &p.accepted[i].Particle, p.con.TolParticles) {
			return true
		}
	}
	return false
}

// Run places every material in order, writing the full geometry script to gw.
func Run(
	con *io.GeometryConfig, mats []io.Material, seed int64, now time.Time,
	gw *io.GeoWriter, logger *zap.Logger,
) ([]MaterialResult, error) {
	if err := Preflight(con, mats); err != nil {
		return nil, err
	}

	gw.WriteHeader(seed, now)
	gw.WriteBox(con)

	p := NewPlacer(con, seed, gw, logger)
	results := make([]MaterialResult, 0, len(mats))
	for i := range mats {
		res, err := p.PlaceMaterial(i, &mats[i])
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
	}

	gw.WriteFooter()
	if err := gw.Flush(); err != nil {
		return nil, fmt.Errorf("could not write geometry script: %w", err)
	}
	return results, nil
}

// ControlPoints converts placement results into control-point sections.
func ControlPoints(results []MaterialResult) []io.MaterialPoints {
	out := make([]io.MaterialPoints, len(results))
	for i := range results {
		out[i] = io.MaterialPoints{
			Name:      results[i].Material.Name,
			Morph:     results[i].Material.Morph,
			Particles: results[i].Particles,
		}
	}
	return out
}

// Manifest summarizes a run.
func Manifest(
	con *io.GeometryConfig, seed int64, now time.Time, results []MaterialResult,
) *io.Manifest {
	m := &io.Manifest{Seed: seed, Timestamp: now.Format(time.ANSIC)}
	m.SetGeometry(con)
	for i := range results {
		res := &results[i]
		m.Materials = append(m.Materials, io.MaterialManifest{
			Name:        res.Material.Name,
			Morph:       res.Material.Morph.String(),
			Requested:   res.Requested,
			Placed:      len(res.Particles),
			Attempts:    res.Attempts,
			MaxAttempts: res.MaxAttempts,
			Volume:      res.Volume(),
		})
	}
	return m
}
