/*geogen scatters particles through a brake pad and writes a gmsh geometry
script for it, along with the control-point file meshpart needs to partition
the resulting mesh.

	geogen -f pad.cfg -o pad.geo [-m GeoGen.mat] [-s manifest.yaml]
	geogen --example-config
*/
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brakepad/microgen/internal/env"
	"github.com/brakepad/microgen/internal/logging"
	"github.com/brakepad/microgen/io"
	"github.com/brakepad/microgen/place"
)

var (
	configFile, geoFile, matFile, manifestFile string
	exampleConfig, verbose                      bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "geogen",
	Short: "Generate a particle-filled brake pad geometry for gmsh",
	Long: `geogen reads a configuration file describing a box, a piston slab on top
of it, and a list of particle materials. It places every requested particle
without overlaps and writes the result as a gmsh geometry script and as a
control-point file.

Run 'geogen --example-config' for an annotated configuration file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		settings, err := env.Load()
		if err != nil {
			return err
		}
		if matFile == "" {
			matFile = settings.MatFile
		}
		logger, err = logging.New(settings.LogLevel, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if exampleConfig {
			fmt.Println(io.ExampleGeneratorConfig)
			return nil
		}
		if configFile == "" || geoFile == "" {
			cmd.Usage()
			return errors.New("need to specify both -f and -o")
		}
		return generate()
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configFile, "config", "f", "", "configuration file")
	flags.StringVarP(&geoFile, "out", "o", "", "output gmsh geometry script")
	flags.StringVarP(&matFile, "mat", "m", "",
		"output control-point file (default $MICROGEN_MAT_FILE or GeoGen.mat)")
	flags.StringVarP(&manifestFile, "manifest", "s", "",
		"optional YAML summary of the run")
	flags.BoolVar(&exampleConfig, "example-config", false,
		"print an example configuration file and exit")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

func generate() error {
	sugar := logger.Sugar()
	start := time.Now()

	cfg, err := io.ReadConfig(configFile, logger)
	if err != nil {
		return err
	}
	if err = cfg.Geometry.CheckInit(); err != nil {
		return err
	}
	mats, err := cfg.CheckMaterials()
	if err != nil {
		return err
	}
	sugar.Debugw("Read config.", "file", configFile, "materials", len(mats))

	seed := place.ResolveSeed(cfg.Geometry.RandSeed)
	sugar.Infow("Seeded generator.", "seed", seed)

	f, err := os.Create(geoFile)
	if err != nil {
		return fmt.Errorf("could not create geometry script: %w", err)
	}
	outputs := []string{geoFile}

	now := time.Now()
	gw := io.NewGeoWriter(f)
	results, err := place.Run(&cfg.Geometry, mats, seed, now, gw, logger)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("could not close geometry script: %w", cerr)
	}
	if err != nil {
		removeAll(outputs)
		return err
	}

	for i := range results {
		res := &results[i]
		fmt.Printf("%s: %d %s\n", res.Material.Name, len(res.Particles),
			res.Material.Morph)
	}

	outputs = append(outputs, matFile)
	err = io.WriteControlPointsFile(matFile, place.ControlPoints(results))
	if err == nil && manifestFile != "" {
		outputs = append(outputs, manifestFile)
		m := place.Manifest(&cfg.Geometry, seed, now, results)
		m.Config, m.Geometry, m.MatFile = configFile, geoFile, matFile
		err = io.WriteManifest(manifestFile, m)
	}
	if err != nil {
		removeAll(outputs)
		return err
	}

	sugar.Infow("Done.", "geometry", geoFile, "control_points", matFile,
		"elapsed", time.Since(start))
	return nil
}

// removeAll deletes partially written outputs so that a failed run never
// leaves a usable-looking geometry behind.
func removeAll(files []string) {
	for _, file := range files {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			logger.Warn("Could not remove partial output.",
				zap.String("file", file), zap.Error(err))
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ee *place.ExhaustedError
		if errors.As(err, &ee) && logger != nil {
			logger.Error("Placement failed.",
				zap.String("material", ee.Material),
				zap.Int("particle", ee.Index),
				zap.Int("attempts", ee.Attempts))
		}
		os.Exit(1)
	}
}
