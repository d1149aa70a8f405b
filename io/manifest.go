package io

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest records how a geometry was generated so that a run can be
// reproduced or audited without parsing the geometry script.
type Manifest struct {
	Seed      int64  `yaml:"seed"`
	Timestamp string `yaml:"timestamp"`
	Config    string `yaml:"config"`
	Geometry  string `yaml:"geometry"`
	MatFile   string `yaml:"mat_file"`

	Box struct {
		Length      float64 `yaml:"length"`
		Width       float64 `yaml:"width"`
		Height      float64 `yaml:"height"`
		PistonThicc float64 `yaml:"piston_thicc"`
	} `yaml:"box"`
	TolParticles           float64 `yaml:"tol_particles"`
	TolParticlesBoundaries float64 `yaml:"tol_particles_boundaries"`
	ReseedPerParticle      bool    `yaml:"reseed_per_particle"`
	IterLimit              int     `yaml:"iter_limit"`

	Materials []MaterialManifest `yaml:"materials"`
}

// MaterialManifest summarizes the placement of one material.
type MaterialManifest struct {
	Name        string  `yaml:"name"`
	Morph       string  `yaml:"morph"`
	Requested   int     `yaml:"requested"`
	Placed      int     `yaml:"placed"`
	Attempts    int     `yaml:"attempts"`
	MaxAttempts int     `yaml:"max_attempts"`
	Volume      float64 `yaml:"volume"`
}

// SetGeometry copies the box settings into the manifest.
func (m *Manifest) SetGeometry(con *GeometryConfig) {
	m.Box.Length, m.Box.Width = con.Length, con.Width
	m.Box.Height, m.Box.PistonThicc = con.Height, con.PistonThicc
	m.TolParticles = con.TolParticles
	m.TolParticlesBoundaries = con.TolParticlesBoundaries
	m.ReseedPerParticle = con.ReseedPerParticle
	m.IterLimit = con.IterLimit
}

func WriteManifest(fname string, m *Manifest) error {
	b, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("could not encode manifest: %w", err)
	}
	if err = os.WriteFile(fname, b, 0644); err != nil {
		return fmt.Errorf("could not write manifest: %w", err)
	}
	return nil
}

func ReadManifest(fname string) (*Manifest, error) {
	b, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("could not read manifest: %w", err)
	}
	m := &Manifest{}
	if err = yaml.Unmarshal(b, m); err != nil {
		return nil, fmt.Errorf("could not decode manifest: %w", err)
	}
	return m, nil
}
