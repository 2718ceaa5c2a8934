package meshdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderSingleTriangle(t *testing.T) {
	md, err := buildMeshData(triangleRawMesh())
	require.NoError(t, err)

	require.Len(t, md.Meshes, 1)
	m := md.Meshes[0]
	assert.Equal(t, uint32(1), m.LodCount)
	assert.Equal(t, uint32(1), m.StreamCount)
	assert.Equal(t, []uint32{0, 3}, m.LodOffset)
	assert.Equal(t, uint32(3), m.VertexCount)
	assert.Equal(t, uint32(0), m.IndexOffset)
	assert.Equal(t, uint32(0), m.VertexOffset)
	assert.Equal(t, []uint32{NUM_ELEMENTS_TO_STORE * 4}, m.StreamElementSize)
	assert.Equal(t, uint32(3), m.LODIndicesCount(0))
	assert.Len(t, md.Boxes, 1)
}

func TestBuilderOffsetsAdvance(t *testing.T) {
	b := NewMeshDataBuilder()
	vertsA := make([]float32, 4*NUM_ELEMENTS_TO_STORE)
	vertsB := make([]float32, 5*NUM_ELEMENTS_TO_STORE)

	a, err := b.AddMesh(vertsA, NUM_ELEMENTS_TO_STORE, [][]uint32{{0, 1, 2, 1, 2, 3}, {0, 1, 2}})
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 6, 9}, a.LodOffset)
	assert.Equal(t, uint32(9), b.NextIndexOffset())
	assert.Equal(t, uint32(4), b.NextVertexOffset())

	bm, err := b.AddMesh(vertsB, NUM_ELEMENTS_TO_STORE, [][]uint32{{0, 1, 4}})
	require.NoError(t, err)
	assert.Equal(t, uint32(9), bm.IndexOffset)
	assert.Equal(t, uint32(4), bm.VertexOffset)
	assert.Equal(t, []uint32{0, 3}, bm.LodOffset)
	assert.Equal(t, []uint32{4 * NUM_ELEMENTS_TO_STORE * 4}, bm.StreamOffset)

	md := b.Finish()
	assert.Equal(t, 12, md.IndexCount())
	assert.Equal(t, 9, md.VertexCount())
	assert.Len(t, md.VertexData, 9*NUM_ELEMENTS_TO_STORE)
	assert.Equal(t, []uint32{0, 1, 2, 1, 2, 3, 0, 1, 2, 0, 1, 4}, md.IndexData)
	assertDescriptorInvariants(t, md)
}

func TestBuilderErrors(t *testing.T) {
	b := NewMeshDataBuilder()
	_, err := b.AddMesh(make([]float32, 7), NUM_ELEMENTS_TO_STORE, [][]uint32{{0, 1, 2}})
	assert.ErrorIs(t, err, ErrFormat)

	_, err = b.AddMesh(make([]float32, 8), NUM_ELEMENTS_TO_STORE, nil)
	assert.ErrorIs(t, err, ErrCapacity)

	tooMany := make([][]uint32, MAX_LODS+1)
	_, err = b.AddMesh(make([]float32, 8), NUM_ELEMENTS_TO_STORE, tooMany)
	assert.ErrorIs(t, err, ErrCapacity)

	b.nextIndexOffset = 0xFFFFFFFE
	_, err = b.AddMesh(make([]float32, 8), NUM_ELEMENTS_TO_STORE, [][]uint32{{0, 0, 0}})
	assert.ErrorIs(t, err, ErrCapacity)
}

// assertDescriptorInvariants checks LOD offsets and that meshes tile the shared buffers.
func assertDescriptorInvariants(t *testing.T, md *MeshData) {
	t.Helper()
	var nextIndex, nextVertex uint32
	for i := range md.Meshes {
		m := &md.Meshes[i]
		require.Len(t, m.LodOffset, int(m.LodCount)+1, "mesh %d", i)
		assert.Equal(t, uint32(0), m.LodOffset[0], "mesh %d", i)
		for k := 1; k < len(m.LodOffset); k++ {
			assert.LessOrEqual(t, m.LodOffset[k-1], m.LodOffset[k], "mesh %d lod %d", i, k)
		}
		assert.Equal(t, nextIndex, m.IndexOffset, "mesh %d", i)
		assert.Equal(t, nextVertex, m.VertexOffset, "mesh %d", i)
		nextIndex += m.LodOffset[m.LodCount] - m.LodOffset[0]
		nextVertex += m.VertexCount
	}
	assert.Equal(t, int(nextIndex), md.IndexCount())
	assert.Equal(t, int(nextVertex)*NUM_ELEMENTS_TO_STORE, len(md.VertexData))
}
