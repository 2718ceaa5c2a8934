package meshdata

import (
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

func triangleRawMesh() *RawMesh {
	return &RawMesh{
		Name:      "triangle",
		Positions: []vec3.T{{0, 0, 0}, {100, 0, 0}, {0, 100, 0}},
		Normals:   []vec3.T{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		TexCoords: []vec2.T{{0, 0}, {1, 0}, {0, 1}},
		Faces:     [][]uint32{{0, 1, 2}},
	}
}

// gridRawMesh is a flat w x h quad grid split into 2*w*h triangles.
func gridRawMesh(w, h int) *RawMesh {
	m := &RawMesh{Name: "grid"}
	for y := 0; y <= h; y++ {
		for x := 0; x <= w; x++ {
			m.Positions = append(m.Positions, vec3.T{float32(x), float32(y), 0})
			m.Normals = append(m.Normals, vec3.T{0, 0, 1})
			m.TexCoords = append(m.TexCoords, vec2.T{float32(x) / float32(w), float32(y) / float32(h)})
		}
	}
	row := uint32(w + 1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := uint32(y)*row + uint32(x)
			m.Faces = append(m.Faces, []uint32{i, i + 1, i + row + 1}, []uint32{i, i + row + 1, i + row})
		}
	}
	return m
}

// buildMeshData packs the given meshes without LODs.
func buildMeshData(meshes ...*RawMesh) (*MeshData, error) {
	b := NewMeshDataBuilder()
	for _, rm := range meshes {
		p, err := PackAttributes(rm, 1)
		if err != nil {
			return nil, err
		}
		if _, err := b.AddMesh(p.Vertices, NUM_ELEMENTS_TO_STORE, [][]uint32{p.Indices}); err != nil {
			return nil, err
		}
	}
	return b.Finish(), nil
}

// syntheticMeshData builds a container with the given per-mesh index and vertex counts.
func syntheticMeshData(indexCounts, vertexCounts []int) *MeshData {
	b := NewMeshDataBuilder()
	for i := range indexCounts {
		vertices := make([]float32, vertexCounts[i]*NUM_ELEMENTS_TO_STORE)
		for v := range vertices {
			vertices[v] = float32(i*1000 + v)
		}
		indices := make([]uint32, indexCounts[i])
		for k := range indices {
			indices[k] = uint32(k % vertexCounts[i])
		}
		if _, err := b.AddMesh(vertices, NUM_ELEMENTS_TO_STORE, [][]uint32{indices}); err != nil {
			panic(err)
		}
	}
	return b.Finish()
}
