package meshopt

const cacheSize = 16

// OptimizeVertexCache 用 Tipsify 算法（Sander et al. 2007）按 16 项 FIFO 缓存重排三角形，三角形集合不变
func OptimizeVertexCache(indices []uint32, vertexCount int) []uint32 {
	faceCount := len(indices) / 3
	result := make([]uint32, 0, faceCount*3)
	if faceCount == 0 {
		return result
	}
	indices = indices[:faceCount*3]
	vertexCount = vertexCountOf(indices, vertexCount)

	adj := buildAdjacency(indices, vertexCount)
	live := make([]int, vertexCount)
	for v := 0; v < vertexCount; v++ {
		live[v] = adj.offsets[v+1] - adj.offsets[v]
	}
	timestamp := make([]int, vertexCount)
	emitted := make([]bool, faceCount)
	var deadEnd, candidates []uint32
	time := cacheSize + 1
	cursor := 0

	f := int(indices[0])
	for f >= 0 {
		candidates = candidates[:0]
		for _, t := range adj.around(uint32(f)) {
			if emitted[t] {
				continue
			}
			for k := 0; k < 3; k++ {
				v := indices[t*3+k]
				result = append(result, v)
				deadEnd = append(deadEnd, v)
				candidates = append(candidates, v)
				live[v]--
				if time-timestamp[v] > cacheSize {
					timestamp[v] = time
					time++
				}
			}
			emitted[t] = true
		}

		f = -1
		best := -1
		for _, v := range candidates {
			if live[v] == 0 {
				continue
			}
			p := 0
			if time-timestamp[v]+2*live[v] <= cacheSize {
				p = time - timestamp[v]
			}
			if p > best {
				best = p
				f = int(v)
			}
		}
		for f < 0 && len(deadEnd) > 0 {
			v := deadEnd[len(deadEnd)-1]
			deadEnd = deadEnd[:len(deadEnd)-1]
			if live[v] > 0 {
				f = int(v)
			}
		}
		for f < 0 && cursor < vertexCount {
			if live[cursor] > 0 {
				f = cursor
			}
			cursor++
		}
	}
	return result
}
