package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gcfg.v1"
	"gopkg.in/gcfg.v1/types"
	"gopkg.in/warnings.v0"

	"github.com/brakepad/microgen/geom"
)

const (
	// DefaultMatFile is where control points are written if the user doesn't
	// ask for anywhere else.
	DefaultMatFile = "GeoGen.mat"

	// DefaultIterLimit is the number of candidates drawn for a single
	// particle before placement gives up.
	DefaultIterLimit = 100000
)

// ExampleGeneratorConfig is printed by `geogen --example-config`.
const ExampleGeneratorConfig = `# Example geogen/meshpart configuration file.
#
# Lines are 'key = value'. Lines starting with '#' are comments. A 'material'
# line starts a new material block, and every material key after it applies
# to that material until the next 'material' line. Box keys may go anywhere.

#######
# Box #
#######

# Dimensions of the pad. The piston slab of thickness piston_thicc sits at
# the top of the box and never contains particles.
length = 10000
width = 5000
height = 5500
piston_thicc = 500

# Characteristic mesh length handed to gmsh for the box.
global_mesh_size = 200

# Minimum clearance between particles and between particles and the walls.
tol_particles = 50
tol_particles_boundaries = 50

# 0 (or leaving this out) seeds from the clock. The seed actually used is
# written to the header of the geometry script.
rand_seed = 0

# Optional. Number of candidate particles tried before giving up on placing
# a single particle.
# iter_limit = 100000

# Optional. If true (the default), the size distributions are re-seeded
# before every particle, which reproduces the behavior of older runs: all
# particles of a material see the same sequence of sizes. Set it to false to
# give each material one independent stream of sizes.
# reseed_per_particle = true

#############
# Materials #
#############

material = steel_fibers
morph = cyl
# Exactly one of vol_frac and count.
vol_frac = 0.02
# count = 10
mesh_size = 100
rad_distrib = gaussian
rad_mean = 40
rad_std_dev = 5
len_distrib = uniform
len_min = 800
len_max = 1200

material = graphite
morph = sph
count = 25
# A Gaussian distribution may also be given by a range, in which case the
# standard deviation is (max - min) / 6.
rad_distrib = gauss
rad_min = 100
rad_max = 160`

// GeometryConfig holds the box-level settings.
type GeometryConfig struct {
	Length, Width, Height  float64
	GlobalMeshSize         float64 `gcfg:"global-mesh-size"`
	TolParticles           float64 `gcfg:"tol-particles"`
	TolParticlesBoundaries float64 `gcfg:"tol-particles-boundaries"`
	RandSeed               int64   `gcfg:"rand-seed"`
	PistonThicc            float64 `gcfg:"piston-thicc"`

	ReseedPerParticle bool `gcfg:"reseed-per-particle"`
	IterLimit         int  `gcfg:"iter-limit"`
}

// MaterialConfig holds the raw settings of a single material block. Zero
// means "not set" for every numeric field.
type MaterialConfig struct {
	VolFrac  float64 `gcfg:"vol-frac"`
	Count    int
	MeshSize float64 `gcfg:"mesh-size"`
	Morph    string

	RadDistrib string  `gcfg:"rad-distrib"`
	RadMean    float64 `gcfg:"rad-mean"`
	RadMin     float64 `gcfg:"rad-min"`
	RadMax     float64 `gcfg:"rad-max"`
	RadStdDev  float64 `gcfg:"rad-std-dev"`

	LenDistrib string  `gcfg:"len-distrib"`
	LenMean    float64 `gcfg:"len-mean"`
	LenMin     float64 `gcfg:"len-min"`
	LenMax     float64 `gcfg:"len-max"`
	LenStdDev  float64 `gcfg:"len-std-dev"`
}

// GeneratorWrapper is the gcfg view of a configuration file.
type GeneratorWrapper struct {
	Geometry GeometryConfig
	Material map[string]*MaterialConfig
}

func DefaultGeneratorWrapper() *GeneratorWrapper {
	return &GeneratorWrapper{
		Geometry: GeometryConfig{
			Length:                 10000,
			Width:                  5000,
			Height:                 5500,
			GlobalMeshSize:         200,
			TolParticles:           50,
			TolParticlesBoundaries: 50,
			PistonThicc:            500,
			ReseedPerParticle:      true,
			IterLimit:              DefaultIterLimit,
		},
	}
}

// Config is a parsed configuration file. Materials are in the order their
// blocks appear in the file.
type Config struct {
	Geometry  GeometryConfig
	Materials []NamedMaterialConfig
}

type NamedMaterialConfig struct {
	Name string
	MaterialConfig
}

// ConfigError describes a fatal problem with a configuration file.
type ConfigError struct {
	Material, Key, Msg string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Material != "" && e.Key != "":
		return fmt.Sprintf("material '%s', %s: %s", e.Material, e.Key, e.Msg)
	case e.Material != "":
		return fmt.Sprintf("material '%s': %s", e.Material, e.Msg)
	case e.Key != "":
		return fmt.Sprintf("%s: %s", e.Key, e.Msg)
	}
	return e.Msg
}

var (
	geometryKeys = map[string]bool{
		"length": true, "width": true, "height": true,
		"global_mesh_size": true, "tol_particles": true,
		"tol_particles_boundaries": true, "rand_seed": true,
		"piston_thicc": true, "reseed_per_particle": true, "iter_limit": true,
	}
	materialKeys = map[string]bool{
		"vol_frac": true, "count": true, "mesh_size": true, "morph": true,
		"rad_distrib": true, "rad_mean": true, "rad_min": true,
		"rad_max": true, "rad_std_dev": true,
		"len_distrib": true, "len_mean": true, "len_min": true,
		"len_max": true, "len_std_dev": true,
	}
	// Keys which are skipped, rather than rejected, when given no value.
	optionalKeys = map[string]bool{
		"tol_particles": true, "tol_particles_boundaries": true,
		"rand_seed": true, "piston_thicc": true, "vol_frac": true,
		"count": true, "mesh_size": true, "reseed_per_particle": true,
		"iter_limit": true,
	}

	identRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
)

// ReadConfig reads a configuration file. See ReadConfigFrom.
func ReadConfig(fname string, logger *zap.Logger) (*Config, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("could not open config file: %w", err)
	}
	defer f.Close()

	return ReadConfigFrom(f, logger)
}

// ReadConfigFrom reads a flat 'key = value' configuration file. The file is
// rewritten into gcfg's format, with the box settings in a [geometry]
// section and one [material "name"] section per material block, and then
// handed to gcfg. Unknown keys are logged and otherwise ignored.
func ReadConfigFrom(r io.Reader, logger *zap.Logger) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	text, names, err := translateConfig(r, logger)
	if err != nil {
		return nil, err
	}

	wrap := DefaultGeneratorWrapper()
	err = gcfg.ReadStringInto(wrap, text)
	for _, w := range warnings.WarningsOnly(err) {
		logger.Warn("Unknown setting. Ignored.", zap.String("detail", w.Error()))
	}
	if err = gcfg.FatalOnly(err); err != nil {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}

	cfg := &Config{Geometry: wrap.Geometry}
	for _, name := range names {
		mc := wrap.Material[name]
		if mc == nil {
			mc = &MaterialConfig{}
		}
		cfg.Materials = append(cfg.Materials, NamedMaterialConfig{name, *mc})
	}
	return cfg, nil
}

// translateConfig converts the flat format to gcfg text and returns the
// material names in file order.
func translateConfig(r io.Reader, logger *zap.Logger) (string, []string, error) {
	geometry := &strings.Builder{}
	sections := map[string]*strings.Builder{}
	names := []string{}
	current := ""

	scanner := bufio.NewScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		val := strings.TrimSpace(line[eq+1:])

		if !identRe.MatchString(key) {
			logger.Warn("Unknown setting. Ignored.",
				zap.String("key", key), zap.Int("line", lineNum))
			continue
		}
		key = strings.ToLower(key)

		if val == "" {
			if optionalKeys[key] {
				continue
			}
			return "", nil, &ConfigError{current, key, "no value found"}
		}

		switch {
		case key == "material":
			if _, ok := sections[val]; ok {
				return "", nil, &ConfigError{val, "", "material defined twice"}
			}
			current = val
			names = append(names, val)
			sections[val] = &strings.Builder{}
		case geometryKeys[key]:
			writeVar(geometry, key, val)
		case current == "" && materialKeys[key]:
			return "", nil, &ConfigError{
				"", key, "material setting given before any 'material' line",
			}
		case current == "":
			writeVar(geometry, key, val)
		default:
			writeVar(sections[current], key, val)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", nil, fmt.Errorf("could not read config file: %w", err)
	}

	out := &strings.Builder{}
	out.WriteString("[geometry]\n")
	out.WriteString(geometry.String())
	for _, name := range names {
		fmt.Fprintf(out, "[material %s]\n", quote(name))
		out.WriteString(sections[name].String())
	}
	return out.String(), names, nil
}

func writeVar(b *strings.Builder, key, val string) {
	fmt.Fprintf(b, "%s = %s\n", strings.ReplaceAll(key, "_", "-"), quote(val))
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func (con *GeometryConfig) ValidBox() bool {
	return con.Length > 0 && con.Width > 0 && con.Height > 0
}

func (con *GeometryConfig) ValidPistonThicc() bool {
	return con.PistonThicc >= 0 && con.PistonThicc < con.Height
}

func (con *GeometryConfig) ValidTolerances() bool {
	return con.TolParticles >= 0 && con.TolParticlesBoundaries >= 0
}

func (con *GeometryConfig) ValidGlobalMeshSize() bool {
	return con.GlobalMeshSize > 0
}

func (con *GeometryConfig) ValidIterLimit() bool {
	return con.IterLimit > 0
}

// CheckInit checks the box settings. It is all meshpart needs.
func (con *GeometryConfig) CheckInit() error {
	switch {
	case !con.ValidBox():
		return &ConfigError{"", "length/width/height", fmt.Sprintf(
			"box dimensions must be positive, got %g x %g x %g",
			con.Length, con.Width, con.Height,
		)}
	case !con.ValidPistonThicc():
		return &ConfigError{"", "piston_thicc", fmt.Sprintf(
			"must be in range [0, %g), but is %g", con.Height, con.PistonThicc,
		)}
	case !con.ValidTolerances():
		return &ConfigError{"", "tol_particles", "tolerances can't be negative"}
	case !con.ValidGlobalMeshSize():
		return &ConfigError{"", "global_mesh_size", "must be positive"}
	case !con.ValidIterLimit():
		return &ConfigError{"", "iter_limit", "must be positive"}
	}
	return nil
}

// MatrixVolume is the volume available to particles, i.e. the box minus the
// piston slab.
func (con *GeometryConfig) MatrixVolume() float64 {
	return con.Length * con.Width * (con.Height - con.PistonThicc)
}

// DistribKind is the kind of random distribution a particle dimension is
// drawn from.
type DistribKind int

const (
	Uniform DistribKind = iota
	Gaussian
)

func (k DistribKind) String() string {
	if k == Gaussian {
		return "gaussian"
	}
	return "uniform"
}

var distribParser = func() *types.EnumParser {
	ep := &types.EnumParser{Type: "distribution"}
	ep.AddVals(map[string]interface{}{
		"gaussian": Gaussian, "gauss": Gaussian,
		"uniform": Uniform, "flat": Uniform,
	})
	return ep
}()

// Distribution describes how a particle dimension is sampled. Min and Max
// are used by uniform distributions, Mean and StdDev by Gaussian ones.
type Distribution struct {
	Kind                   DistribKind
	Mean, StdDev, Min, Max float64
}

// Representative returns the size used to turn a volume fraction into a
// particle count: the mean if there is one and the middle of the range
// otherwise.
func (d *Distribution) Representative() float64 {
	if d.Kind == Gaussian {
		return d.Mean
	}
	return (d.Min + d.Max) / 2
}

// Material is a validated material block.
type Material struct {
	Name     string
	Morph    geom.Morph
	VolFrac  float64
	Count    int
	MeshSize float64
	Radius   Distribution
	// Length is only meaningful for cylinders.
	Length Distribution
}

// ParticleVolume is the volume of a particle with representative
// dimensions.
func (m *Material) ParticleVolume() float64 {
	r := m.Radius.Representative()
	switch m.Morph {
	case geom.MorphCylinder:
		cyl := geom.Cylinder{Radius: r, Length: m.Length.Representative()}
		return cyl.Volume()
	case geom.MorphSphere:
		sph := geom.Sphere{Radius: r}
		return sph.Volume()
	}
	panic(fmt.Sprintf("Unknown morphology %d.", int(m.Morph)))
}

// CheckMaterials validates every material block and returns them in file
// order. Materials without a mesh_size inherit global_mesh_size.
func (cfg *Config) CheckMaterials() ([]Material, error) {
	if len(cfg.Materials) == 0 {
		return nil, &ConfigError{"", "material", "no materials given"}
	}

	mats := make([]Material, len(cfg.Materials))
	for i := range cfg.Materials {
		nm := &cfg.Materials[i]
		if err := nm.CheckInit(nm.Name, &mats[i]); err != nil {
			return nil, err
		}
		if mats[i].MeshSize == 0 {
			mats[i].MeshSize = cfg.Geometry.GlobalMeshSize
		}
	}
	return mats, nil
}

// CheckInit validates a material block and writes the result to out.
func (mc *MaterialConfig) CheckInit(name string, out *Material) error {
	out.Name = name

	if mc.Morph == "" {
		return &ConfigError{name, "morph", "no value found"}
	}
	morph, err := geom.ParseMorph(mc.Morph)
	if err != nil {
		return &ConfigError{name, "morph", err.Error()}
	}
	out.Morph = morph

	switch {
	case mc.VolFrac != 0 && mc.Count != 0:
		return &ConfigError{name, "vol_frac/count",
			"cannot specify both volume fraction and count"}
	case mc.VolFrac == 0 && mc.Count == 0:
		return &ConfigError{name, "vol_frac/count",
			"did not specify volume fraction or count"}
	case mc.VolFrac < 0:
		return &ConfigError{name, "vol_frac", "must be positive"}
	case mc.Count < 0:
		return &ConfigError{name, "count", "must be positive"}
	case mc.MeshSize < 0:
		return &ConfigError{name, "mesh_size", "must be positive"}
	}
	out.VolFrac, out.Count, out.MeshSize = mc.VolFrac, mc.Count, mc.MeshSize

	out.Radius, err = checkDistribution(
		name, "rad", mc.RadDistrib, mc.RadMean, mc.RadStdDev, mc.RadMin, mc.RadMax,
	)
	if err != nil {
		return err
	}

	hasLen := mc.LenDistrib != "" || mc.LenMean != 0 || mc.LenStdDev != 0 ||
		mc.LenMin != 0 || mc.LenMax != 0
	switch morph {
	case geom.MorphSphere:
		if hasLen {
			return &ConfigError{name, "len_*",
				"cannot use len_* keys with sphere morphology"}
		}
	case geom.MorphCylinder:
		out.Length, err = checkDistribution(
			name, "len", mc.LenDistrib, mc.LenMean, mc.LenStdDev, mc.LenMin, mc.LenMax,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkDistribution resolves one dimension's settings. prefix is "rad" or
// "len" and is only used in error messages.
func checkDistribution(
	name, prefix, kind string, mean, stdDev, min, max float64,
) (Distribution, error) {
	d := Distribution{Mean: mean, StdDev: stdDev, Min: min, Max: max}
	hasRange := min != 0 || max != 0

	switch {
	case kind != "":
		k, err := distribParser.Parse(kind)
		if err != nil {
			return d, &ConfigError{name, prefix + "_distrib", err.Error()}
		}
		d.Kind = k.(DistribKind)
	case mean != 0 || stdDev != 0:
		d.Kind = Gaussian
	default:
		d.Kind = Uniform
	}

	switch d.Kind {
	case Uniform:
		if mean != 0 {
			return d, &ConfigError{name, prefix + "_mean", fmt.Sprintf(
				"cannot be used with a uniform distribution, specify "+
					"%s_min & %s_max or use a Gaussian distribution",
				prefix, prefix,
			)}
		}
		if !hasRange {
			return d, &ConfigError{name, prefix + "_min/" + prefix + "_max",
				"no value found"}
		}

	case Gaussian:
		if mean != 0 && stdDev == 0 {
			return d, &ConfigError{name, prefix + "_std_dev",
				"did not specify standard deviation"}
		}
		if mean == 0 {
			if !hasRange {
				return d, &ConfigError{name, prefix + "_mean",
					"need a mean or a min/max range"}
			}
			d.Mean = (min + max) / 2
		}
		if d.StdDev == 0 && min != 0 && max != 0 {
			d.StdDev = (max - min) / 6
		}
		if d.StdDev < 0 {
			return d, &ConfigError{name, prefix + "_std_dev", "can't be negative"}
		}
	}

	if hasRange && min > max {
		return d, &ConfigError{name, prefix + "_min", fmt.Sprintf(
			"%g is larger than %s_max, %g", min, prefix, max,
		)}
	}
	if d.Representative() <= 0 || (d.Kind == Uniform && d.Max <= 0) {
		return d, &ConfigError{name, prefix, "sizes must be positive"}
	}

	return d, nil
}
