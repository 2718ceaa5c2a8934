package meshdata

import (
	"fmt"
	"math"
)

// MeshDataBuilder 在一次转换中累积共享索引/顶点缓冲区
//
// nextIndexOffset 和 nextVertexOffset 只属于当前这次转换，网格必须按顺序添加。
type MeshDataBuilder struct {
	data             MeshData
	nextIndexOffset  uint32
	nextVertexOffset uint32
}

func NewMeshDataBuilder() *MeshDataBuilder {
	return &MeshDataBuilder{
		data: MeshData{
			IndexData:  []uint32{},
			VertexData: []float32{},
			Meshes:     []Mesh{},
		},
	}
}

// NextIndexOffset 下一个网格索引的起始位置（元素）
func (b *MeshDataBuilder) NextIndexOffset() uint32 {
	return b.nextIndexOffset
}

// NextVertexOffset 下一个网格顶点的起始位置（顶点）
func (b *MeshDataBuilder) NextVertexOffset() uint32 {
	return b.nextVertexOffset
}

// AddMesh 追加一个网格及其 LOD，按 LOD 顺序连续存放索引并返回描述符
func (b *MeshDataBuilder) AddMesh(vertices []float32, stride int, lods [][]uint32) (Mesh, error) {
	if stride <= 0 || len(vertices)%stride != 0 {
		return Mesh{}, fmt.Errorf("%w: vertex stream of %d floats does not match stride %d", ErrFormat, len(vertices), stride)
	}
	if len(lods) == 0 || len(lods) > MAX_LODS {
		return Mesh{}, fmt.Errorf("%w: mesh has %d LODs, expected 1..%d", ErrCapacity, len(lods), MAX_LODS)
	}
	vertexCount := len(vertices) / stride

	var numIndices uint64
	for _, l := range lods {
		numIndices += uint64(len(l))
	}
	if uint64(b.nextIndexOffset)+numIndices > math.MaxUint32 {
		return Mesh{}, fmt.Errorf("%w: index offset overflows 32 bits", ErrCapacity)
	}
	if uint64(b.nextVertexOffset)+uint64(vertexCount) > math.MaxUint32 {
		return Mesh{}, fmt.Errorf("%w: vertex offset overflows 32 bits", ErrCapacity)
	}
	elementSize := uint64(stride) * 4
	if uint64(b.nextVertexOffset)*elementSize > math.MaxUint32 {
		return Mesh{}, fmt.Errorf("%w: stream offset overflows 32 bits", ErrCapacity)
	}

	m := Mesh{
		LodCount:          uint32(len(lods)),
		StreamCount:       1,
		IndexOffset:       b.nextIndexOffset,
		VertexOffset:      b.nextVertexOffset,
		VertexCount:       uint32(vertexCount),
		LodOffset:         make([]uint32, len(lods)+1),
		StreamOffset:      []uint32{b.nextVertexOffset * uint32(elementSize)},
		StreamElementSize: []uint32{uint32(elementSize)},
	}

	var n uint32
	for l, indices := range lods {
		b.data.IndexData = append(b.data.IndexData, indices...)
		m.LodOffset[l] = n
		n += uint32(len(indices))
	}
	m.LodOffset[len(lods)] = n

	b.data.VertexData = append(b.data.VertexData, vertices...)
	b.data.Meshes = append(b.data.Meshes, m)

	b.nextIndexOffset += n
	b.nextVertexOffset += uint32(vertexCount)
	return m, nil
}

// Finish 计算包围盒并交出容器，之后不能再使用该 builder
func (b *MeshDataBuilder) Finish() *MeshData {
	md := b.data
	RecalculateBoundingBoxes(&md)
	b.data = MeshData{}
	return &md
}
