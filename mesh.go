package meshdata

import (
	"fmt"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

// RawMesh 导入器输出的原始网格
type RawMesh struct {
	Name      string     `json:"name,omitempty"`
	Positions []vec3.T   `json:"positions"`
	Normals   []vec3.T   `json:"normals,omitempty"`
	TexCoords []vec2.T   `json:"texCoords,omitempty"`
	Faces     [][]uint32 `json:"faces"`
}

// PackedMesh 交错顶点流和三角形索引
type PackedMesh struct {
	Vertices []float32
	Indices  []uint32
}

func (p *PackedMesh) VertexCount() int {
	return len(p.Vertices) / NUM_ELEMENTS_TO_STORE
}

// TriangleCount 三个索引的面数
func (n *RawMesh) TriangleCount() int {
	c := 0
	for _, f := range n.Faces {
		if len(f) == 3 {
			c++
		}
	}
	return c
}

// ReComputeNormal 按面积加权计算平滑法线
func (n *RawMesh) ReComputeNormal() {
	normals := make([]vec3.T, len(n.Positions))
	for _, f := range n.Faces {
		if len(f) != 3 {
			continue
		}
		if int(f[0]) >= len(n.Positions) || int(f[1]) >= len(n.Positions) || int(f[2]) >= len(n.Positions) {
			continue
		}
		pt1 := n.Positions[f[0]]
		pt2 := n.Positions[f[1]]
		pt3 := n.Positions[f[2]]

		sub1 := vec3.Sub(&pt3, &pt2)
		sub2 := vec3.Sub(&pt1, &pt2)

		cro := vec3.Cross(&sub1, &sub2)
		if cro.Length() == 0 {
			continue
		}

		normals[f[0]].Add(&cro)
		normals[f[1]].Add(&cro)
		normals[f[2]].Add(&cro)
	}

	for i := range normals {
		if normals[i].Length() == 0 {
			normals[i] = vec3.T{0, 0, 1}
			continue
		}
		normals[i].Normalize()
	}

	n.Normals = normals
}

// PackAttributes 生成 position/texcoord/normal 交错顶点流
//
// 位置乘以 scale，第二个纹理坐标存为 1-v，非三角形的面跳过。
func PackAttributes(m *RawMesh, scale float32) (*PackedMesh, error) {
	vcount := len(m.Positions)
	if len(m.TexCoords) != 0 && len(m.TexCoords) != vcount {
		return nil, fmt.Errorf("%w: mesh %q has %d texcoords for %d vertices", ErrImport, m.Name, len(m.TexCoords), vcount)
	}
	if len(m.Normals) == 0 && vcount > 0 {
		m.ReComputeNormal()
	}
	if len(m.Normals) != vcount {
		return nil, fmt.Errorf("%w: mesh %q has %d normals for %d vertices", ErrImport, m.Name, len(m.Normals), vcount)
	}

	hasTexCoords := len(m.TexCoords) > 0
	p := &PackedMesh{
		Vertices: make([]float32, 0, vcount*NUM_ELEMENTS_TO_STORE),
		Indices:  make([]uint32, 0, len(m.Faces)*3),
	}
	for i := 0; i < vcount; i++ {
		v := m.Positions[i]
		nl := m.Normals[i]
		t := vec2.T{0, 0}
		if hasTexCoords {
			t = m.TexCoords[i]
		}
		p.Vertices = append(p.Vertices,
			v[0]*scale, v[1]*scale, v[2]*scale,
			t[0], 1-t[1],
			nl[0], nl[1], nl[2])
	}

	for _, f := range m.Faces {
		if len(f) != 3 {
			continue
		}
		for _, idx := range f {
			if int(idx) >= vcount {
				return nil, fmt.Errorf("%w: mesh %q face references vertex %d of %d", ErrImport, m.Name, idx, vcount)
			}
		}
		p.Indices = append(p.Indices, f[0], f[1], f[2])
	}
	return p, nil
}
