package meshdata

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeShiftsOffsets(t *testing.T) {
	a := syntheticMeshData([]int{60, 40}, []int{25, 15})
	b := syntheticMeshData([]int{50}, []int{20})

	merged, err := MergeMeshData([]*MeshData{a, b})
	require.NoError(t, err)

	require.Len(t, merged.Meshes, 3)
	require.Len(t, merged.Boxes, 3)
	assert.Equal(t, uint32(100), merged.Meshes[2].IndexOffset)
	assert.Equal(t, uint32(40), merged.Meshes[2].VertexOffset)
	assert.Equal(t, []uint32{40 * NUM_ELEMENTS_TO_STORE * 4}, merged.Meshes[2].StreamOffset)
	assert.Equal(t, 150, merged.IndexCount())
	assert.Equal(t, 60, merged.VertexCount())
	assert.Len(t, merged.VertexData, 60*NUM_ELEMENTS_TO_STORE)
	assertDescriptorInvariants(t, merged)

	assert.Equal(t, a.Meshes[0], merged.Meshes[0])
	assert.Equal(t, a.Meshes[1], merged.Meshes[1])
	assert.Equal(t, b.Boxes[0], merged.Boxes[2])

	// mesh 2 still addresses the data it came with
	m := merged.Meshes[2]
	assert.Equal(t, b.IndexData, merged.IndexData[m.IndexOffset:m.IndexOffset+m.IndexCount()])
	start := m.VertexOffset * NUM_ELEMENTS_TO_STORE
	assert.Equal(t, b.VertexData, merged.VertexData[start:start+m.VertexCount*NUM_ELEMENTS_TO_STORE])
}

func TestMergeLeavesInputsUntouched(t *testing.T) {
	a := syntheticMeshData([]int{6}, []int{4})
	b := syntheticMeshData([]int{3}, []int{3})
	before := b.Meshes[0]
	before.StreamOffset = append([]uint32{}, b.Meshes[0].StreamOffset...)

	_, err := MergeMeshData([]*MeshData{a, b})
	require.NoError(t, err)
	assert.Equal(t, before, b.Meshes[0])
}

func TestMergeEmptyAndNil(t *testing.T) {
	merged, err := MergeMeshData(nil)
	require.NoError(t, err)
	assert.Empty(t, merged.Meshes)

	a := syntheticMeshData([]int{3}, []int{3})
	merged, err = MergeMeshData([]*MeshData{nil, a, NewMeshDataBuilder().Finish()})
	require.NoError(t, err)
	assert.Equal(t, a.Meshes, merged.Meshes)
	assert.Equal(t, a.IndexData, merged.IndexData)
}

func TestMergeRejectsMissingBoxes(t *testing.T) {
	a := syntheticMeshData([]int{3}, []int{3})
	a.Boxes = nil
	_, err := MergeMeshData([]*MeshData{a})
	assert.ErrorIs(t, err, ErrFormat)
}

func TestMergedContainerRoundTrips(t *testing.T) {
	a, err := buildMeshData(triangleRawMesh(), gridRawMesh(2, 1))
	require.NoError(t, err)
	b, err := buildMeshData(gridRawMesh(1, 3))
	require.NoError(t, err)

	merged, err := MergeMeshData([]*MeshData{a, b})
	require.NoError(t, err)

	raw := marshalBytes(t, merged)
	hdr := merged.Header()
	assert.Equal(t, uint32(3), hdr.MeshCount)
	assert.Equal(t, uint32(len(a.IndexData)+len(b.IndexData))*4, hdr.IndexDataSize)
	assert.Len(t, raw, int(hdr.DataBlockStartOffset+hdr.IndexDataSize+hdr.VertexDataSize))
}

func TestMergeRejectsOutOfRangeDescriptor(t *testing.T) {
	a := syntheticMeshData([]int{3}, []int{3})
	a.Meshes[0].VertexOffset = 1000
	_, err := MergeMeshData([]*MeshData{a})
	assert.ErrorIs(t, err, ErrFormat)
}

func TestMergeNothingRoundTrips(t *testing.T) {
	merged, err := MergeMeshData([]*MeshData{nil})
	require.NoError(t, err)

	got, err := MeshDataUnMarshal(bytes.NewReader(marshalBytes(t, merged)))
	require.NoError(t, err)
	assert.Equal(t, merged, got)
}
