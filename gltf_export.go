package meshdata

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const (
	// GLTFVersion 定义GLTF规范版本
	GLTFVersion = "2.0"
)

// CreateDoc 创建一个新的GLTF文档
func CreateDoc() *gltf.Document {
	doc := &gltf.Document{
		Asset: gltf.Asset{
			Version:   GLTFVersion,
			Generator: "meshconvert",
		},
		Scenes:  []*gltf.Scene{{}},
		Buffers: []*gltf.Buffer{{}},
	}

	sceneIndex := uint32(0)
	doc.Scene = &sceneIndex

	return doc
}

// MeshDataToGltf 将容器中每个网格的指定 LOD 导出为 GLTF，用于预览
//
// 超出的 LOD 取最后一级，该级没有索引的网格跳过，纹理坐标翻转回 glTF 约定。
func MeshDataToGltf(md *MeshData, lod uint32) (*gltf.Document, error) {
	doc := CreateDoc()
	for i := range md.Meshes {
		m := &md.Meshes[i]
		stride := m.stride()
		if stride < NUM_ELEMENTS_TO_STORE {
			return nil, fmt.Errorf("%w: mesh %d stride %d is too small", ErrFormat, i, stride)
		}
		l := lod
		if l >= m.LodCount {
			l = m.LodCount - 1
		}
		first := m.IndexOffset + m.LodOffset[l]
		last := m.IndexOffset + m.LodOffset[l+1]
		if first == last {
			continue
		}
		if int(last) > len(md.IndexData) {
			return nil, fmt.Errorf("%w: mesh %d indices exceed index data", ErrFormat, i)
		}
		start := int(m.VertexOffset) * stride
		if len(m.StreamOffset) > 0 {
			start = int(m.StreamOffset[0] / 4)
		}
		if start+int(m.VertexCount)*stride > len(md.VertexData) {
			return nil, fmt.Errorf("%w: mesh %d vertices exceed vertex data", ErrFormat, i)
		}

		positions := make([][3]float32, m.VertexCount)
		normals := make([][3]float32, m.VertexCount)
		uvs := make([][2]float32, m.VertexCount)
		for v := 0; v < int(m.VertexCount); v++ {
			p := md.VertexData[start+v*stride:]
			positions[v] = [3]float32{p[0], p[1], p[2]}
			uvs[v] = [2]float32{p[3], 1 - p[4]}
			normals[v] = [3]float32{p[5], p[6], p[7]}
		}
		indices := append([]uint32{}, md.IndexData[first:last]...)

		prim := &gltf.Primitive{
			Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: map[string]uint32{
				gltf.POSITION:   modeler.WritePosition(doc, positions),
				gltf.NORMAL:     modeler.WriteNormal(doc, normals),
				gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
			},
		}
		name := fmt.Sprintf("mesh_%d_lod_%d", i, l)
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(uint32(len(doc.Meshes) - 1))})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	}
	return doc, nil
}

// MeshDataWriteGltf 导出为 GLB 文件
func MeshDataWriteGltf(path string, md *MeshData, lod uint32) error {
	doc, err := MeshDataToGltf(md, lod)
	if err != nil {
		return err
	}
	return gltf.SaveBinary(doc, path)
}
