package meshdata

import (
	"testing"

	"github.com/flywave/go3d/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackAttributesLayout(t *testing.T) {
	p, err := PackAttributes(triangleRawMesh(), 0.01)
	require.NoError(t, err)

	require.Len(t, p.Vertices, 3*NUM_ELEMENTS_TO_STORE)
	assert.Equal(t, 3, p.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2}, p.Indices)

	// second vertex: position scaled, v flipped, then normal
	v := p.Vertices[NUM_ELEMENTS_TO_STORE : 2*NUM_ELEMENTS_TO_STORE]
	assert.InDelta(t, 1.0, v[0], 1e-6)
	assert.Equal(t, float32(0), v[1])
	assert.Equal(t, float32(0), v[2])
	assert.Equal(t, float32(1), v[3])
	assert.Equal(t, float32(1), v[4])
	assert.Equal(t, []float32{0, 0, 1}, v[5:8])

	third := p.Vertices[2*NUM_ELEMENTS_TO_STORE:]
	assert.Equal(t, float32(0), third[4])
}

func TestPackAttributesDefaults(t *testing.T) {
	rm := triangleRawMesh()
	rm.TexCoords = nil
	rm.Normals = nil

	p, err := PackAttributes(rm, 1)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		v := p.Vertices[i*NUM_ELEMENTS_TO_STORE:]
		assert.Equal(t, float32(0), v[3], "u of vertex %d", i)
		assert.Equal(t, float32(1), v[4], "flipped v of vertex %d", i)
		assert.InDelta(t, 1.0, v[7], 1e-6, "recomputed normal of vertex %d", i)
	}
}

func TestPackAttributesDropsNonTriangles(t *testing.T) {
	rm := triangleRawMesh()
	rm.Faces = [][]uint32{{0, 1}, {0, 1, 2}, {0, 1, 2, 0}, {2}}

	p, err := PackAttributes(rm, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, p.Indices)
	assert.Equal(t, 1, rm.TriangleCount())
}

func TestPackAttributesNoTriangles(t *testing.T) {
	rm := triangleRawMesh()
	rm.Faces = [][]uint32{{0, 1}}

	p, err := PackAttributes(rm, 1)
	require.NoError(t, err)
	assert.Empty(t, p.Indices)
	assert.Equal(t, 3, p.VertexCount())
}

func TestPackAttributesErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawMesh)
	}{
		{"index out of range", func(m *RawMesh) { m.Faces = [][]uint32{{0, 1, 3}} }},
		{"texcoord count", func(m *RawMesh) { m.TexCoords = m.TexCoords[:2] }},
		{"normal count", func(m *RawMesh) { m.Normals = m.Normals[:1] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := triangleRawMesh()
			tt.mutate(rm)
			_, err := PackAttributes(rm, 1)
			assert.ErrorIs(t, err, ErrImport)
		})
	}
}

func TestReComputeNormal(t *testing.T) {
	rm := gridRawMesh(2, 2)
	rm.Normals = nil
	rm.ReComputeNormal()

	require.Len(t, rm.Normals, len(rm.Positions))
	for i, n := range rm.Normals {
		assert.InDelta(t, 1.0, n.Length(), 1e-5, "normal %d", i)
		assert.InDelta(t, 1.0, n[2], 1e-5, "normal %d", i)
	}

	lonely := &RawMesh{Positions: []vec3.T{{0, 0, 0}}}
	lonely.ReComputeNormal()
	assert.Equal(t, vec3.T{0, 0, 1}, lonely.Normals[0])
}
