package meshdata

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/flywave/go-meshdata/meshopt"
)

// Converter 单次转换流程：导入、打包、LOD、构建容器、生成实例表
//
// 网格按顺序处理，同一个 Converter 不能被并发使用。
type Converter struct {
	Config     Config
	Importer   SceneImporter
	Simplifier Simplifier
	Optimizer  VertexCacheOptimizer
	Fetch      VertexFetchOptimizer
	Logger     *log.Logger
}

// NewConverter 使用 glTF 导入器和 meshopt 简化器
func NewConverter(cfg Config, logger *log.Logger) *Converter {
	if logger == nil {
		logger = discardLogger()
	}
	opt := meshopt.Optimizer{}
	return &Converter{
		Config:     cfg,
		Importer:   &GltfImporter{},
		Simplifier: opt,
		Optimizer:  opt,
		Fetch:      opt,
		Logger:     logger,
	}
}

// Convert 生成容器和实例表，不写任何文件
func (c *Converter) Convert(path string) (*MeshData, []DrawData, error) {
	if err := c.Config.Validate(); err != nil {
		return nil, nil, err
	}
	logger := c.Logger
	if logger == nil {
		logger = discardLogger()
	}

	logger.Info("loading scene", "path", path)
	raws, err := c.Importer.Import(path)
	if err != nil {
		return nil, nil, fmt.Errorf("import: %w", err)
	}
	if len(raws) == 0 {
		return nil, nil, fmt.Errorf("import: %w: %s contains no meshes", ErrImport, path)
	}

	gen := &LodGenerator{
		Simplifier:  c.Simplifier,
		Optimizer:   c.Optimizer,
		MaxLODs:     c.Config.MaxLODs,
		IndexFloor:  c.Config.LODIndexFloor,
		TargetError: c.Config.LODTargetError,
		Logger:      logger,
	}

	b := NewMeshDataBuilder()
	for i, raw := range raws {
		logger.Debug("converting mesh", "mesh", i+1, "total", len(raws), "name", raw.Name)
		p, err := PackAttributes(raw, c.Config.MeshScale)
		if err != nil {
			return nil, nil, fmt.Errorf("pack mesh %d: %w", i, err)
		}

		vertices := p.Vertices
		lods := [][]uint32{p.Indices}
		if c.Config.CalculateLODs {
			if lods, err = gen.Generate(vertices, NUM_ELEMENTS_TO_STORE, p.Indices); err != nil {
				return nil, nil, fmt.Errorf("lod mesh %d: %w", i, err)
			}
		}
		if c.Config.OptimizeVertexFetch && c.Fetch != nil {
			vertices, lods = optimizeFetch(c.Fetch, vertices, lods)
		}

		m, err := b.AddMesh(vertices, NUM_ELEMENTS_TO_STORE, lods)
		if err != nil {
			return nil, nil, fmt.Errorf("build mesh %d: %w", i, err)
		}
		logger.Debug("mesh done", "mesh", i+1, "lods", m.LodCount, "indices", m.IndexCount(), "vertices", m.VertexCount)
	}

	md := b.Finish()
	dd := BuildDrawData(md.Meshes, c.Config.MaterialIndex)
	logger.Info("scene converted", "meshes", md.MeshCount(), "indices", md.IndexCount(), "vertices", md.VertexCount())
	return md, dd, nil
}

// Run 转换 input 并写出容器和同名的 .drawdata，两个文件要么都写成功要么都不留下
func (c *Converter) Run(input, output string) error {
	md, dd, err := c.Convert(input)
	if err != nil {
		return err
	}
	ddPath := output + DRAWDATA_EXT
	if err := writeOutputs(output, md, ddPath, dd); err != nil {
		return err
	}
	if c.Logger != nil {
		c.Logger.Info("saved", "meshes", output, "drawdata", ddPath)
	}
	return nil
}

// writeOutputs 先写好两个临时文件再依次改名，失败时不留下任何一个输出
func writeOutputs(output string, md *MeshData, ddPath string, dd []DrawData) error {
	meshTmp, err := stageFile(output, func(wt io.Writer) error {
		return MeshDataMarshal(wt, md)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	ddTmp, err := stageFile(ddPath, func(wt io.Writer) error {
		return DrawDataMarshal(wt, dd)
	})
	if err != nil {
		os.Remove(meshTmp)
		return fmt.Errorf("write %s: %w", ddPath, err)
	}
	if err := os.Rename(meshTmp, output); err != nil {
		os.Remove(meshTmp)
		os.Remove(ddTmp)
		return fmt.Errorf("write %s: %w", output, err)
	}
	if err := os.Rename(ddTmp, ddPath); err != nil {
		os.Remove(ddTmp)
		os.Remove(output)
		return fmt.Errorf("write %s: %w", ddPath, err)
	}
	return nil
}

// optimizeFetch 所有 LOD 一起重排顶点，保证它们仍共享同一段顶点
func optimizeFetch(f VertexFetchOptimizer, vertices []float32, lods [][]uint32) ([]float32, [][]uint32) {
	var all []uint32
	for _, l := range lods {
		all = append(all, l...)
	}
	if len(all) == 0 {
		return vertices, lods
	}
	vs, remapped := f.OptimizeVertexFetch(vertices, NUM_ELEMENTS_TO_STORE, all)
	out := make([][]uint32, len(lods))
	pos := 0
	for i, l := range lods {
		out[i] = remapped[pos : pos+len(l)]
		pos += len(l)
	}
	return vs, out
}
