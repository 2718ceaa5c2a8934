package meshdata

import (
	"fmt"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// SceneImporter 场景导入接口
type SceneImporter interface {
	Import(path string) ([]*RawMesh, error)
}

// GltfImporter 读取 glTF/GLB，每个 primitive 输出一个 RawMesh
type GltfImporter struct {
}

func (g *GltfImporter) Import(path string) ([]*RawMesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrImport, path, err)
	}
	var meshes []*RawMesh
	for mi, mh := range doc.Meshes {
		for pi, ps := range mh.Primitives {
			rm, err := g.transPrimitive(doc, ps)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			rm.Name = mh.Name
			if len(mh.Primitives) > 1 {
				rm.Name = fmt.Sprintf("%s#%d", mh.Name, pi)
			}
			meshes = append(meshes, rm)
		}
	}
	if len(meshes) == 0 {
		return nil, fmt.Errorf("%w: %s contains no meshes", ErrImport, path)
	}
	return meshes, nil
}

func (g *GltfImporter) accessor(doc *gltf.Document, idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d out of range", ErrImport, idx)
	}
	return doc.Accessors[idx], nil
}

func (g *GltfImporter) transPrimitive(doc *gltf.Document, ps *gltf.Primitive) (*RawMesh, error) {
	rm := &RawMesh{}
	idx, ok := ps.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("%w: primitive has no POSITION attribute", ErrImport)
	}
	acc, err := g.accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	pos, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: read positions: %v", ErrImport, err)
	}
	rm.Positions = make([]vec3.T, len(pos))
	for i := range pos {
		rm.Positions[i] = vec3.T(pos[i])
	}

	if idx, ok := ps.Attributes[gltf.NORMAL]; ok {
		if acc, err = g.accessor(doc, idx); err != nil {
			return nil, err
		}
		nls, err := modeler.ReadNormal(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: read normals: %v", ErrImport, err)
		}
		rm.Normals = make([]vec3.T, len(nls))
		for i := range nls {
			rm.Normals[i] = vec3.T(nls[i])
		}
	}

	if idx, ok := ps.Attributes[gltf.TEXCOORD_0]; ok {
		if acc, err = g.accessor(doc, idx); err != nil {
			return nil, err
		}
		uvs, err := modeler.ReadTextureCoord(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: read texcoords: %v", ErrImport, err)
		}
		rm.TexCoords = make([]vec2.T, len(uvs))
		for i := range uvs {
			rm.TexCoords[i] = vec2.T(uvs[i])
		}
	}

	var indices []uint32
	if ps.Indices != nil {
		if acc, err = g.accessor(doc, *ps.Indices); err != nil {
			return nil, err
		}
		if indices, err = modeler.ReadIndices(doc, acc, nil); err != nil {
			return nil, fmt.Errorf("%w: read indices: %v", ErrImport, err)
		}
	} else {
		indices = make([]uint32, len(rm.Positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	rm.Faces = buildFaces(ps.Mode, indices)
	return rm, nil
}

// buildFaces 按图元模式切分面，条带和扇形转为三角形，点和线留给打包时丢弃
func buildFaces(mode gltf.PrimitiveMode, indices []uint32) [][]uint32 {
	var faces [][]uint32
	switch mode {
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(indices); i++ {
			if i%2 == 0 {
				faces = append(faces, []uint32{indices[i], indices[i+1], indices[i+2]})
			} else {
				faces = append(faces, []uint32{indices[i+1], indices[i], indices[i+2]})
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(indices); i++ {
			faces = append(faces, []uint32{indices[0], indices[i], indices[i+1]})
		}
	case gltf.PrimitivePoints:
		for i := range indices {
			faces = append(faces, []uint32{indices[i]})
		}
	case gltf.PrimitiveLines, gltf.PrimitiveLineLoop, gltf.PrimitiveLineStrip:
		for i := 0; i+1 < len(indices); i += 2 {
			faces = append(faces, []uint32{indices[i], indices[i+1]})
		}
	default:
		for i := 0; i+2 < len(indices); i += 3 {
			faces = append(faces, []uint32{indices[i], indices[i+1], indices[i+2]})
		}
	}
	return faces
}
