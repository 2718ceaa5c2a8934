package meshdata

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDrawData(t *testing.T) {
	md := syntheticMeshData([]int{30, 12, 9}, []int{10, 6, 4})
	dd := BuildDrawData(md.Meshes, 7)

	require.Len(t, dd, 3)
	for i, d := range dd {
		assert.Equal(t, uint32(i), d.MeshIndex)
		assert.Equal(t, uint32(7), d.MaterialIndex)
		assert.Equal(t, uint32(0), d.LOD)
		assert.Equal(t, uint32(0), d.TransformIndex)
		assert.Equal(t, md.Meshes[i].IndexOffset, d.IndexOffset)
	}
	assert.Equal(t, []uint32{0, 10, 16}, []uint32{dd[0].VertexOffset, dd[1].VertexOffset, dd[2].VertexOffset})
	assert.Equal(t, []uint32{0, 30, 42}, []uint32{dd[0].IndexOffset, dd[1].IndexOffset, dd[2].IndexOffset})
}

func TestDrawDataRoundTrip(t *testing.T) {
	dd := BuildDrawData(syntheticMeshData([]int{3, 6}, []int{3, 4}).Meshes, 2)

	var buf bytes.Buffer
	require.NoError(t, DrawDataMarshal(&buf, dd))
	assert.Equal(t, len(dd)*DRAW_DATA_SIZE, buf.Len())

	got, err := DrawDataUnMarshal(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, dd, got)

	_, err = DrawDataUnMarshal(bytes.NewReader(buf.Bytes()[:buf.Len()-1]))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestDrawDataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene"+DRAWDATA_EXT)
	dd := BuildDrawData(syntheticMeshData([]int{3}, []int{3}).Meshes, DEFAULT_MATERIAL_IDX)

	require.NoError(t, DrawDataWriteTo(path, dd))
	got, err := DrawDataReadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, dd, got)
}
