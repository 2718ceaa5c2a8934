package meshdata

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Simplifier 简化索引，结果仍引用原来的顶点
//
// 每个顶点前三个 float 是位置，targetError 相对于网格尺寸。
type Simplifier interface {
	Simplify(positions []float32, stride int, indices []uint32, targetCount int, targetError float32, sloppy bool) []uint32
}

// VertexCacheOptimizer 重排三角形以提高顶点缓存命中
type VertexCacheOptimizer interface {
	OptimizeVertexCache(indices []uint32, vertexCount int) []uint32
}

// VertexFetchOptimizer 按首次使用顺序重排顶点并重映射索引
type VertexFetchOptimizer interface {
	OptimizeVertexFetch(vertices []float32, stride int, indices []uint32) ([]float32, []uint32)
}

// LodGenerator 驱动简化器逐级生成 LOD 索引
type LodGenerator struct {
	Simplifier  Simplifier
	Optimizer   VertexCacheOptimizer
	MaxLODs     int
	IndexFloor  int
	TargetError float32
	Logger      *log.Logger
}

// NewLodGenerator 使用默认的级数、下限和误差
func NewLodGenerator(s Simplifier, o VertexCacheOptimizer) *LodGenerator {
	return &LodGenerator{
		Simplifier:  s,
		Optimizer:   o,
		MaxLODs:     MAX_LODS,
		IndexFloor:  DEFAULT_LOD_FLOOR,
		TargetError: DEFAULT_LOD_ERROR,
	}
}

// Generate 生成一个网格的 LOD 列表，LOD 0 在前，每级目标为上一级的一半
//
// 普通简化收益不足 10% 时改用 sloppy 模式，第一次简化除外，直接停止。
func (g *LodGenerator) Generate(vertices []float32, stride int, indices []uint32) ([][]uint32, error) {
	if g.MaxLODs > MAX_LODS {
		return nil, fmt.Errorf("%w: %d LODs requested, at most %d supported", ErrCapacity, g.MaxLODs, MAX_LODS)
	}
	if stride <= 0 || len(vertices)%stride != 0 {
		return nil, fmt.Errorf("%w: vertex stream of %d floats does not match stride %d", ErrFormat, len(vertices), stride)
	}
	vertexCount := len(vertices) / stride

	lods := [][]uint32{indices}
	g.debug("LOD0", "indices", len(indices))
	if g.Simplifier == nil {
		return lods, nil
	}

	current := indices
	lod := 1
	for len(current) > g.IndexFloor && lod < g.MaxLODs {
		target := len(current) / 2

		sloppy := false
		next := g.Simplifier.Simplify(vertices, stride, current, target, g.TargetError, false)

		// 无法继续简化
		if int(float32(len(next))*1.1) > len(current) {
			if lod == 1 {
				break
			}
			next = g.Simplifier.Simplify(vertices, stride, current, target, g.TargetError, true)
			sloppy = true
			if len(next) >= len(current) {
				break
			}
		}
		if len(next) > len(current) || len(next)%3 != 0 {
			break
		}

		if g.Optimizer != nil {
			next = g.Optimizer.OptimizeVertexCache(next, vertexCount)
		}
		g.debug(fmt.Sprintf("LOD%d", lod), "indices", len(next), "sloppy", sloppy)

		lods = append(lods, next)
		current = next
		lod++
	}
	return lods, nil
}

func (g *LodGenerator) debug(msg string, keyvals ...interface{}) {
	if g.Logger != nil {
		g.Logger.Debug(msg, keyvals...)
	}
}
