package meshdata

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// BuildDrawData 每个网格生成一条 LOD 0 的实例记录
//
// VertexOffset 使用独立的顶点数累加，对应渲染端的顶点池。
func BuildDrawData(meshes []Mesh, materialIndex uint32) []DrawData {
	grid := make([]DrawData, 0, len(meshes))
	var vertexOffset uint32
	for i := range meshes {
		grid = append(grid, DrawData{
			MeshIndex:      uint32(i),
			MaterialIndex:  materialIndex,
			LOD:            0,
			IndexOffset:    meshes[i].IndexOffset,
			VertexOffset:   vertexOffset,
			TransformIndex: 0,
		})
		vertexOffset += meshes[i].VertexCount
	}
	return grid
}

func DrawDataMarshal(wt io.Writer, dd []DrawData) error {
	return writeLittleByte(wt, dd)
}

// DrawDataUnMarshal 读取到 EOF，记录数由长度决定
func DrawDataUnMarshal(rd io.Reader) ([]DrawData, error) {
	buf, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	if len(buf)%DRAW_DATA_SIZE != 0 {
		return nil, fmt.Errorf("%w: draw data of %d bytes is not a multiple of %d", ErrFormat, len(buf), DRAW_DATA_SIZE)
	}
	dd := make([]DrawData, len(buf)/DRAW_DATA_SIZE)
	if err := readLittleByte(bytes.NewReader(buf), dd); err != nil {
		return nil, err
	}
	return dd, nil
}

func DrawDataWriteTo(path string, dd []DrawData) error {
	return writeFileAtomic(path, func(wt io.Writer) error {
		return DrawDataMarshal(wt, dd)
	})
}

func DrawDataReadFrom(path string) ([]DrawData, error) {
	f, e := os.Open(path)
	if e != nil {
		return nil, e
	}
	defer f.Close()
	return DrawDataUnMarshal(bufio.NewReader(f))
}
