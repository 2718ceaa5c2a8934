package meshdata

import (
	"github.com/chewxy/math32"
	"github.com/flywave/go3d/vec3"
)

// EmptyBox 反转的包围盒，表示没有顶点
var EmptyBox = vec3.Box{
	Min: vec3.T{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
	Max: vec3.T{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
}

// IsEmptyBox 任一轴上 Min 大于 Max 即为空
func IsEmptyBox(bx *vec3.Box) bool {
	return bx.Min[0] > bx.Max[0] || bx.Min[1] > bx.Max[1] || bx.Min[2] > bx.Max[2]
}

// ComputeBoundingBox 扫描顶点流中的位置分量计算包围盒
func ComputeBoundingBox(vertices []float32, stride int) vec3.Box {
	bx := EmptyBox
	if stride < 3 {
		return bx
	}
	for i := 0; i+2 < len(vertices); i += stride {
		for c := 0; c < 3; c++ {
			bx.Min[c] = math32.Min(bx.Min[c], vertices[i+c])
			bx.Max[c] = math32.Max(bx.Max[c], vertices[i+c])
		}
	}
	return bx
}

// RecalculateBoundingBoxes 按每个网格自己的顶点范围重建 md.Boxes
func RecalculateBoundingBoxes(md *MeshData) {
	md.Boxes = make([]vec3.Box, len(md.Meshes))
	for i := range md.Meshes {
		m := &md.Meshes[i]
		stride := m.stride()
		start := int(m.VertexOffset) * stride
		if len(m.StreamOffset) > 0 {
			start = int(m.StreamOffset[0] / 4)
		}
		end := start + int(m.VertexCount)*stride
		if start > len(md.VertexData) {
			start = len(md.VertexData)
		}
		if end > len(md.VertexData) {
			end = len(md.VertexData)
		}
		md.Boxes[i] = ComputeBoundingBox(md.VertexData[start:end], stride)
	}
}

// BoxContains 判断点是否在包围盒内（含边界）
func BoxContains(bx *vec3.Box, p *vec3.T) bool {
	for c := 0; c < 3; c++ {
		if p[c] < bx.Min[c] || p[c] > bx.Max[c] {
			return false
		}
	}
	return true
}
