package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	meshdata "github.com/flywave/go-meshdata"
)

var logLevel string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "meshconvert",
		Short:         "Convert scenes into packed mesh containers with LODs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.AddCommand(newConvertCmd(), newMergeCmd(), newInspectCmd(), newExportCmd())
	return root
}

func newLogger(cfgLevel string) *log.Logger {
	level := cfgLevel
	if logLevel != "" {
		level = logLevel
	}
	if level == "" {
		level = "info"
	}
	l, err := meshdata.NewLogger(level)
	if err != nil {
		l, _ = meshdata.NewLogger("info")
		l.Warn("unknown log level, using info", "level", level)
	}
	return l
}

func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + meshdata.MESHES_EXT
}

type convertFlags struct {
	config        string
	output        string
	scale         float32
	lods          bool
	maxLODs       int
	lodFloor      int
	lodError      float32
	material      uint32
	optimizeFetch bool
	watch         bool
}

func newConvertCmd() *cobra.Command {
	f := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "convert <scene.gltf|scene.glb>",
		Short: "Convert a scene into a .meshes container and its draw data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			logger := newLogger(cfg.LogLevel)
			if err != nil {
				logger.Fatal("config", "err", err)
			}
			input := args[0]
			output := f.output
			if output == "" {
				output = defaultOutput(input)
			}
			conv := meshdata.NewConverter(cfg, logger)
			if f.watch {
				return watch(input, logger, func() error {
					return conv.Run(input, output)
				})
			}
			if err := conv.Run(input, output); err != nil {
				logger.Fatal("conversion failed", "input", input, "err", err)
			}
			return nil
		},
	}
	addConvertFlags(cmd, f)
	return cmd
}

func addConvertFlags(cmd *cobra.Command, f *convertFlags) {
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "TOML config file")
	fl.StringVarP(&f.output, "output", "o", "", "output container path (default <input>.meshes)")
	fl.Float32Var(&f.scale, "scale", meshdata.DEFAULT_MESH_SCALE, "uniform mesh scale")
	fl.BoolVar(&f.lods, "lods", false, "generate LODs")
	fl.IntVar(&f.maxLODs, "max-lods", meshdata.MAX_LODS, "maximum number of LODs per mesh")
	fl.IntVar(&f.lodFloor, "lod-floor", meshdata.DEFAULT_LOD_FLOOR, "stop simplifying below this many indices")
	fl.Float32Var(&f.lodError, "lod-error", meshdata.DEFAULT_LOD_ERROR, "simplification error relative to mesh extent")
	fl.Uint32Var(&f.material, "material", meshdata.DEFAULT_MATERIAL_IDX, "material index written to draw data")
	fl.BoolVar(&f.optimizeFetch, "optimize-fetch", false, "reorder vertices for fetch locality")
	fl.BoolVarP(&f.watch, "watch", "w", false, "convert again whenever the input changes")
}

// resolveConfig 先读配置文件，再用显式设置的参数覆盖
func resolveConfig(cmd *cobra.Command, f *convertFlags) (meshdata.Config, error) {
	cfg := meshdata.DefaultConfig()
	if f.config != "" {
		var err error
		if cfg, err = meshdata.LoadConfig(f.config); err != nil {
			return cfg, err
		}
	}
	fl := cmd.Flags()
	if fl.Changed("scale") {
		cfg.MeshScale = f.scale
	}
	if fl.Changed("lods") {
		cfg.CalculateLODs = f.lods
	}
	if fl.Changed("max-lods") {
		cfg.MaxLODs = f.maxLODs
	}
	if fl.Changed("lod-floor") {
		cfg.LODIndexFloor = f.lodFloor
	}
	if fl.Changed("lod-error") {
		cfg.LODTargetError = f.lodError
	}
	if fl.Changed("material") {
		cfg.MaterialIndex = f.material
	}
	if fl.Changed("optimize-fetch") {
		cfg.OptimizeVertexFetch = f.optimizeFetch
	}
	return cfg, cfg.Validate()
}

func newMergeCmd() *cobra.Command {
	var output string
	var material uint32
	cmd := &cobra.Command{
		Use:   "merge -o <out.meshes> <a.meshes> <b.meshes>...",
		Short: "Merge several containers into one",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger("")
			if output == "" {
				logger.Fatal("merge needs an output path (-o)")
			}
			mds := make([]*meshdata.MeshData, 0, len(args))
			for _, p := range args {
				md, err := meshdata.MeshDataReadFrom(p)
				if err != nil {
					logger.Fatal("load failed", "path", p, "err", err)
				}
				logger.Info("loaded", "path", p, "meshes", md.MeshCount())
				mds = append(mds, md)
			}
			merged, err := meshdata.MergeMeshData(mds)
			if err != nil {
				logger.Fatal("merge failed", "err", err)
			}
			if err := meshdata.MeshDataWriteTo(output, merged); err != nil {
				logger.Fatal("write failed", "path", output, "err", err)
			}
			dd := meshdata.BuildDrawData(merged.Meshes, material)
			if err := meshdata.DrawDataWriteTo(output+meshdata.DRAWDATA_EXT, dd); err != nil {
				logger.Fatal("write failed", "path", output+meshdata.DRAWDATA_EXT, "err", err)
			}
			logger.Info("merged", "meshes", merged.MeshCount(), "indices", merged.IndexCount(), "vertices", merged.VertexCount())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "merged container path")
	cmd.Flags().Uint32Var(&material, "material", meshdata.DEFAULT_MATERIAL_IDX, "material index written to draw data")
	return cmd
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.meshes>",
		Short: "Print the header and mesh descriptors of a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := meshdata.MeshDataReadFrom(args[0])
			if err != nil {
				newLogger("").Fatal("load failed", "path", args[0], "err", err)
			}
			w := cmd.OutOrStdout()
			h := md.Header()
			fmt.Fprintf(w, "magic 0x%08x meshes %d data block %d index bytes %d vertex bytes %d\n",
				h.MagicValue, h.MeshCount, h.DataBlockStartOffset, h.IndexDataSize, h.VertexDataSize)
			for i := range md.Meshes {
				m := &md.Meshes[i]
				bx := md.Boxes[i]
				fmt.Fprintf(w, "mesh %d: lods %d index offset %d vertex offset %d vertices %d lod offsets %v box %v %v\n",
					i, m.LodCount, m.IndexOffset, m.VertexOffset, m.VertexCount, m.LodOffset, bx.Min, bx.Max)
			}
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var output string
	var lod uint32
	cmd := &cobra.Command{
		Use:   "export <file.meshes>",
		Short: "Export one LOD of a container as binary glTF for previewing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger("")
			md, err := meshdata.MeshDataReadFrom(args[0])
			if err != nil {
				logger.Fatal("load failed", "path", args[0], "err", err)
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + fmt.Sprintf("_lod%d.glb", lod)
			}
			if err := meshdata.MeshDataWriteGltf(output, md, lod); err != nil {
				logger.Fatal("export failed", "path", output, "err", err)
			}
			logger.Info("exported", "path", output, "lod", lod)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output .glb path")
	cmd.Flags().Uint32Var(&lod, "lod", 0, "LOD level to export")
	return cmd
}
