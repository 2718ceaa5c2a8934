package meshopt

// OptimizeVertexFetch 按索引首次使用顺序重排顶点并重映射索引，未引用的顶点丢弃
func OptimizeVertexFetch(vertices []float32, stride int, indices []uint32) ([]float32, []uint32) {
	vertexCount := len(vertices) / stride
	remap := make([]int, vertexCount)
	for i := range remap {
		remap[i] = -1
	}
	outVertices := make([]float32, 0, len(vertices))
	outIndices := make([]uint32, len(indices))
	next := 0
	for i, v := range indices {
		if int(v) >= vertexCount {
			return vertices, append([]uint32{}, indices...)
		}
		if remap[v] < 0 {
			remap[v] = next
			next++
			outVertices = append(outVertices, vertices[int(v)*stride:int(v+1)*stride]...)
		}
		outIndices[i] = uint32(remap[v])
	}
	return outVertices, outIndices
}
