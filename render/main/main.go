/*microrender draws previews of microgen outputs. It runs in exactly one mode
per invocation:

	microrender --quality quality.txt -p quality.png
	microrender --stl particles.stl [-m GeoGen.mat] [-c cells]
*/
package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	plt "github.com/phil-mansfield/pyplot"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brakepad/microgen/geom"
	"github.com/brakepad/microgen/internal/env"
	"github.com/brakepad/microgen/internal/logging"
	"github.com/brakepad/microgen/io"
	"github.com/brakepad/microgen/render"
)

var (
	qualityFile, stlFile string
	plotFile, matFile    string
	cells                int
	verbose              bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "microrender",
	Short: "Plot mesh quality or export placed particles as STL",
	Long: `microrender has two modes. --quality reads the table written by
'meshpart --quality-table' and plots a histogram of element radius ratios.
--stl reads a control-point file and tessellates every particle in it into a
single STL surface.`,
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
		modeName, err := getModeName(map[string]*string{
			"quality": &qualityFile,
			"stl":     &stlFile,
		})
		if err != nil {
			cmd.Usage()
			return err
		}

		switch modeName {
		case "quality":
			if plotFile == "" {
				return errors.New("--quality needs an output image given by -p")
			}
			return qualityMain()
		case "stl":
			if cells <= 0 {
				return fmt.Errorf("invalid cell count %d", cells)
			}
			return stlMain()
		}
		panic("Impossible")
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&qualityFile, "quality", "q", "",
		"quality table to plot [quality mode]")
	flags.StringVarP(&plotFile, "plot", "p", "", "output image [quality mode]")
	flags.StringVar(&stlFile, "stl", "", "output STL file [stl mode]")
	flags.StringVarP(&matFile, "mat", "m", "",
		"control-point file (default $MICROGEN_MAT_FILE or GeoGen.mat) [stl mode]")
	flags.IntVarP(&cells, "cells", "c", render.DefaultMeshCells,
		"marching cubes cells along the longest side [stl mode]")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

// getModeName returns the name of the mode and fails with a descriptive error
// if the user provided less or more than one mode flag.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}
	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", errors.New("no mode flag has been set")
	}
	if len(setNames) > 1 {
		sort.Strings(setNames)
		return "", fmt.Errorf(
			"the flags --%s were all set, but microrender only accepts "+
				"one mode at a time", strings.Join(setNames, ", --"),
		)
	}
	return setNames[0], nil
}

func qualityMain() error {
	rows, err := io.ReadQualityTable(qualityFile)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("quality table %s has no rows", qualityFile)
	}

	render.PlotQuality(rows, plotFile)
	plt.Execute()

	logger.Info("Plotted quality.",
		zap.String("table", qualityFile),
		zap.String("plot", plotFile),
		zap.Int("elements", len(rows)))
	return nil
}

func stlMain() error {
	start := time.Now()

	mats, err := io.ReadControlPointsFile(matFile)
	if err != nil {
		return err
	}

	ps := []geom.Particle{}
	for i := range mats {
		if mats[i].Skipped > 0 {
			logger.Warn("Skipped malformed control points.",
				zap.String("material", mats[i].Name),
				zap.Int("lines", mats[i].Skipped))
		}
		ps = append(ps, mats[i].Particles...)
	}

	s, err := render.Scene(ps)
	if err != nil {
		return err
	}

	f, err := os.Create(stlFile)
	if err != nil {
		return fmt.Errorf("could not create STL file: %w", err)
	}
	n, err := render.WriteSTL(f, s, cells)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(stlFile)
		return err
	}

	logger.Info("Wrote STL.",
		zap.String("file", stlFile),
		zap.Int("particles", len(ps)),
		zap.Int("triangles", n),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
