package meshdata

import (
	"github.com/flywave/go3d/vec3"
)

const MESH_MAGIC uint32 = 0x12345678
const MESHES_EXT string = ".meshes"
const DRAWDATA_EXT string = ".drawdata"

const (
	MAX_LODS    = 8
	MAX_STREAMS = 8
)

// 每个顶点保存 position(3) + texcoord(2) + normal(3)
const NUM_ELEMENTS_TO_STORE = 3 + 2 + 3

const (
	MESH_HEADER_SIZE     = 5 * 4
	MESH_RECORD_SIZE     = (5 + MAX_LODS + 1 + 2*MAX_STREAMS) * 4
	BOUNDING_BOX_SIZE    = 6 * 4
	DRAW_DATA_SIZE       = 6 * 4
	DEFAULT_LOD_FLOOR    = 1024
	DEFAULT_LOD_ERROR    = 0.02
	DEFAULT_MESH_SCALE   = 0.01
	DEFAULT_MATERIAL_IDX = 0
)

// Mesh 网格描述符，所有偏移都相对于所属 MeshData 的共享缓冲区
type Mesh struct {
	LodCount    uint32 `json:"lodCount"`
	StreamCount uint32 `json:"streamCount"`
	// 共享索引数组中的起始位置（元素）
	IndexOffset uint32 `json:"indexOffset"`
	// 共享顶点数组中的起始位置（顶点）
	VertexOffset uint32 `json:"vertexOffset"`
	// 所有 LOD 共享同一份顶点
	VertexCount uint32 `json:"vertexCount"`
	// 长度为 LodCount+1，最后一项是结束标记
	LodOffset         []uint32 `json:"lodOffset"`
	StreamOffset      []uint32 `json:"streamOffset"`
	StreamElementSize []uint32 `json:"streamElementSize"`
}

// LODIndicesCount 指定 LOD 的索引数
func (m *Mesh) LODIndicesCount(lod uint32) uint32 {
	return m.LodOffset[lod+1] - m.LodOffset[lod]
}

// IndexCount 所有 LOD 的索引总数
func (m *Mesh) IndexCount() uint32 {
	if len(m.LodOffset) == 0 {
		return 0
	}
	return m.LodOffset[len(m.LodOffset)-1]
}

// stride 第一个顶点流每个元素的 float 数
func (m *Mesh) stride() int {
	if len(m.StreamElementSize) == 0 || m.StreamElementSize[0] == 0 {
		return NUM_ELEMENTS_TO_STORE
	}
	return int(m.StreamElementSize[0] / 4)
}

// meshRecord 是 Mesh 在文件中的定长布局
type meshRecord struct {
	LodCount          uint32
	StreamCount       uint32
	IndexOffset       uint32
	VertexOffset      uint32
	VertexCount       uint32
	LodOffset         [MAX_LODS + 1]uint32
	StreamOffset      [MAX_STREAMS]uint32
	StreamElementSize [MAX_STREAMS]uint32
}

// MeshFileHeader 文件头
type MeshFileHeader struct {
	MagicValue uint32
	MeshCount  uint32
	// 索引数据块的起始字节偏移
	DataBlockStartOffset uint32
	IndexDataSize        uint32
	VertexDataSize       uint32
}

// DrawData 绘制实例记录；偏移冗余保存以避免绘制时再查描述符
type DrawData struct {
	MeshIndex      uint32
	MaterialIndex  uint32
	LOD            uint32
	IndexOffset    uint32
	VertexOffset   uint32
	TransformIndex uint32
}

// MeshData 网格容器，四个数组按下标一一对应
type MeshData struct {
	IndexData  []uint32   `json:"-"`
	VertexData []float32  `json:"-"`
	Meshes     []Mesh     `json:"meshes"`
	Boxes      []vec3.Box `json:"boxes"`
}

func (md *MeshData) MeshCount() int {
	return len(md.Meshes)
}

func (md *MeshData) IndexCount() int {
	return len(md.IndexData)
}

// VertexCount 所有描述符的顶点数之和
func (md *MeshData) VertexCount() int {
	n := 0
	for i := range md.Meshes {
		n += int(md.Meshes[i].VertexCount)
	}
	return n
}

// Header 生成描述 md 的文件头
func (md *MeshData) Header() MeshFileHeader {
	n := uint32(len(md.Meshes))
	return MeshFileHeader{
		MagicValue:           MESH_MAGIC,
		MeshCount:            n,
		DataBlockStartOffset: MESH_HEADER_SIZE + n*MESH_RECORD_SIZE + n*BOUNDING_BOX_SIZE,
		IndexDataSize:        uint32(len(md.IndexData) * 4),
		VertexDataSize:       uint32(len(md.VertexData) * 4),
	}
}
