// Package meshopt 简化和重排索引三角网格，不移动也不新增顶点，简化后的索引仍指向原顶点缓冲区
package meshopt

// Optimizer 以方法形式提供简化和重排
type Optimizer struct{}

func (Optimizer) Simplify(positions []float32, stride int, indices []uint32, targetCount int, targetError float32, sloppy bool) []uint32 {
	if sloppy {
		return SimplifySloppy(positions, stride, indices, targetCount, targetError)
	}
	return Simplify(positions, stride, indices, targetCount, targetError)
}

func (Optimizer) OptimizeVertexCache(indices []uint32, vertexCount int) []uint32 {
	return OptimizeVertexCache(indices, vertexCount)
}

func (Optimizer) OptimizeVertexFetch(vertices []float32, stride int, indices []uint32) ([]float32, []uint32) {
	return OptimizeVertexFetch(vertices, stride, indices)
}

// normalizedPositions 按最大边长把位置归一化到单位立方体
func normalizedPositions(positions []float32, stride int) [][3]float64 {
	n := len(positions) / stride
	out := make([][3]float64, n)
	if n == 0 {
		return out
	}
	var lo, hi [3]float64
	for c := 0; c < 3; c++ {
		lo[c] = float64(positions[c])
		hi[c] = lo[c]
	}
	for i := 0; i < n; i++ {
		for c := 0; c < 3; c++ {
			v := float64(positions[i*stride+c])
			if v < lo[c] {
				lo[c] = v
			}
			if v > hi[c] {
				hi[c] = v
			}
		}
	}
	extent := hi[0] - lo[0]
	if hi[1]-lo[1] > extent {
		extent = hi[1] - lo[1]
	}
	if hi[2]-lo[2] > extent {
		extent = hi[2] - lo[2]
	}
	if extent == 0 {
		extent = 1
	}
	for i := 0; i < n; i++ {
		for c := 0; c < 3; c++ {
			out[i][c] = (float64(positions[i*stride+c]) - lo[c]) / extent
		}
	}
	return out
}

func vertexCountOf(indices []uint32, vertexCount int) int {
	for _, v := range indices {
		if int(v) >= vertexCount {
			vertexCount = int(v) + 1
		}
	}
	return vertexCount
}

func dropDegenerate(indices []uint32) []uint32 {
	out := indices[:0]
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a == b || b == c || a == c {
			continue
		}
		out = append(out, a, b, c)
	}
	return out
}
