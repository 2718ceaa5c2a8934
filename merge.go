package meshdata

import (
	"fmt"
	"math"

	"github.com/flywave/go3d/vec3"
)

// MergeMeshData 合并多个容器，偏移按之前容器的索引/顶点总数平移，包围盒原样复制，不修改输入
func MergeMeshData(mds []*MeshData) (*MeshData, error) {
	out := &MeshData{
		IndexData:  []uint32{},
		VertexData: []float32{},
		Meshes:     []Mesh{},
		Boxes:      []vec3.Box{},
	}

	var totalIndices, totalVertices, totalVertexBytes uint64
	for _, md := range mds {
		if md == nil {
			continue
		}
		if len(md.Boxes) != len(md.Meshes) {
			return nil, fmt.Errorf("%w: %d bounding boxes for %d meshes", ErrFormat, len(md.Boxes), len(md.Meshes))
		}
		if err := checkRanges(md); err != nil {
			return nil, err
		}
		if totalIndices+uint64(len(md.IndexData)) > math.MaxUint32 ||
			totalVertices+uint64(md.VertexCount()) > math.MaxUint32 ||
			totalVertexBytes+uint64(len(md.VertexData))*4 > math.MaxUint32 {
			return nil, fmt.Errorf("%w: merged offsets overflow 32 bits", ErrCapacity)
		}

		for i := range md.Meshes {
			m := md.Meshes[i]
			m.IndexOffset += uint32(totalIndices)
			m.VertexOffset += uint32(totalVertices)
			m.LodOffset = append([]uint32{}, m.LodOffset...)
			m.StreamElementSize = append([]uint32{}, m.StreamElementSize...)
			m.StreamOffset = append([]uint32{}, m.StreamOffset...)
			for s := range m.StreamOffset {
				m.StreamOffset[s] += uint32(totalVertexBytes)
			}
			out.Meshes = append(out.Meshes, m)
		}
		out.Boxes = append(out.Boxes, md.Boxes...)
		out.IndexData = append(out.IndexData, md.IndexData...)
		out.VertexData = append(out.VertexData, md.VertexData...)

		totalIndices += uint64(len(md.IndexData))
		totalVertices += uint64(md.VertexCount())
		totalVertexBytes += uint64(len(md.VertexData)) * 4
	}
	return out, nil
}
