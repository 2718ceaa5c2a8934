package meshdata

import (
	"testing"

	"github.com/flywave/go3d/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundingBoxesContainVertices(t *testing.T) {
	grid := gridRawMesh(4, 3)
	for i := range grid.Positions {
		grid.Positions[i][2] = float32(i%5) - 2
	}
	md, err := buildMeshData(triangleRawMesh(), grid)
	require.NoError(t, err)
	require.Len(t, md.Boxes, 2)

	for i := range md.Meshes {
		m := &md.Meshes[i]
		start := int(m.VertexOffset) * NUM_ELEMENTS_TO_STORE
		for v := 0; v < int(m.VertexCount); v++ {
			p := md.VertexData[start+v*NUM_ELEMENTS_TO_STORE:]
			pt := vec3.T{p[0], p[1], p[2]}
			assert.True(t, BoxContains(&md.Boxes[i], &pt), "mesh %d vertex %d", i, v)
		}
	}
	assert.Equal(t, vec3.T{0, 0, 0}, md.Boxes[0].Min)
	assert.Equal(t, vec3.T{100, 100, 0}, md.Boxes[0].Max)
	assert.Equal(t, vec3.T{0, 0, -2}, md.Boxes[1].Min)
	assert.Equal(t, vec3.T{4, 3, 2}, md.Boxes[1].Max)
}

func TestBoundingBoxIgnoresAttributes(t *testing.T) {
	vertices := []float32{
		1, 2, 3, 100, 100, -100, -100, -100,
		-1, 0, 5, -50, 50, 50, 50, 50,
	}
	bx := ComputeBoundingBox(vertices, NUM_ELEMENTS_TO_STORE)
	assert.Equal(t, vec3.T{-1, 0, 3}, bx.Min)
	assert.Equal(t, vec3.T{1, 2, 5}, bx.Max)
	assert.False(t, IsEmptyBox(&bx))
}

func TestBoundingBoxEmptyMesh(t *testing.T) {
	b := NewMeshDataBuilder()
	_, err := b.AddMesh(nil, NUM_ELEMENTS_TO_STORE, [][]uint32{{}})
	require.NoError(t, err)
	md := b.Finish()

	require.Len(t, md.Boxes, 1)
	assert.True(t, IsEmptyBox(&md.Boxes[0]))
	assert.Greater(t, md.Boxes[0].Min[0], md.Boxes[0].Max[0])
}
