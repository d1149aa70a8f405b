/*meshpart sorts the nodes and tetrahedra of a gmsh mesh of a brake pad into
matrix, piston, and particle groups and writes them in the solver's .dat
format.

	meshpart -f pad.cfg -i pad.msh -o pad.dat [-m GeoGen.mat]
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
	"github.com/brakepad/microgen/partition"
)

var (
	configFile, meshFile, datFile, matFile, qualityFile string
	materialNodeGroups, verbose                          bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "meshpart",
	Short: "Partition a gmsh brake pad mesh into material groups",
	Long: `meshpart reads the configuration file and control-point file used by
geogen together with the tetrahedral mesh gmsh made from geogen's geometry
script. Every node and element is assigned to the piston, to the first
material with a particle containing it, or to the matrix. Nodes on the faces,
edges, and corners of the box are also collected into boundary groups.`,
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
		if configFile == "" || meshFile == "" || datFile == "" {
			cmd.Usage()
			return errors.New("need to specify -f, -i, and -o")
		}
		return partitionMesh()
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configFile, "config", "f", "", "configuration file")
	flags.StringVarP(&meshFile, "in", "i", "", "gmsh 2.2 ASCII mesh")
	flags.StringVarP(&datFile, "out", "o", "", "output .dat file")
	flags.StringVarP(&matFile, "mat", "m", "",
		"control-point file (default $MICROGEN_MAT_FILE or GeoGen.mat)")
	flags.StringVar(&qualityFile, "quality-table", "",
		"optional per-element quality table")
	flags.BoolVar(&materialNodeGroups, "material-node-groups", false,
		"also write a node group for every material")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

func partitionMesh() error {
	sugar := logger.Sugar()

	cfg, err := io.ReadConfig(configFile, logger)
	if err != nil {
		return err
	}
	if err = cfg.Geometry.CheckInit(); err != nil {
		return err
	}

	t := time.Now()
	mats, err := io.ReadControlPointsFile(matFile)
	if err != nil {
		return err
	}
	for i := range mats {
		sugar.Infow("Read material.", "material", mats[i].Name,
			"morph", mats[i].Morph.String(), "particles", len(mats[i].Particles))
		if mats[i].Skipped > 0 {
			sugar.Debugw("Skipped malformed particle lines.",
				"material", mats[i].Name, "lines", mats[i].Skipped)
		}
	}
	sugar.Infow("Read control points.", "file", matFile, "elapsed", time.Since(t))

	t = time.Now()
	mesh, err := io.ReadMesh(meshFile)
	if err != nil {
		return err
	}
	sugar.Infow("Read mesh.", "nodes", len(mesh.NodeIDs),
		"elements", len(mesh.Elements), "elapsed", time.Since(t))
	if mesh.SkippedNodes > 0 || mesh.SkippedElements > 0 {
		sugar.Debugw("Skipped malformed mesh lines.",
			"nodes", mesh.SkippedNodes, "elements", mesh.SkippedElements)
	}

	t = time.Now()
	c := partition.NewClassifier(&cfg.Geometry, mats)
	p := partition.Build(mesh, c, partition.Options{
		MaterialNodeGroups: materialNodeGroups,
		QualityRows:        qualityFile != "",
	})
	sugar.Infow("Partitioned mesh.", "elapsed", time.Since(t))
	for _, g := range p.ElementGroups {
		sugar.Debugw("Element group.", "name", g.Name, "elements", len(g.IDs))
	}

	fmt.Printf("Number of bad elems = %d\n", p.Quality.Bad)
	if p.Quality.Degenerate > 0 {
		sugar.Warnw("Mesh has degenerate elements.",
			"degenerate", p.Quality.Degenerate, "total", p.Quality.Total)
	}

	if err = io.WriteDatFile(datFile, mesh, p.NodeGroups, p.ElementGroups); err != nil {
		os.Remove(datFile)
		return err
	}
	if qualityFile != "" {
		if err = io.WriteQualityTableFile(qualityFile, p.QualityRows); err != nil {
			os.Remove(qualityFile)
			return err
		}
	}

	sugar.Infow("Done.", "out", datFile)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
