package meshopt

// SimplifySloppy 在均匀网格上合并顶点，每格保留一个代表点
//
// 二分搜索网格分辨率使结果不超过 targetCount，不保持拓扑，也不限制误差。
func SimplifySloppy(positions []float32, stride int, indices []uint32, targetCount int, targetError float32) []uint32 {
	src := dropDegenerate(append([]uint32{}, indices[:len(indices)/3*3]...))
	if stride < 3 || len(src) <= targetCount {
		return src
	}
	pos := normalizedPositions(positions, stride)
	if vertexCountOf(src, len(pos)) > len(pos) {
		return src
	}

	lo, hi := 1, 1024
	best := clusterIndices(src, pos, lo)
	for lo <= hi {
		grid := (lo + hi) / 2
		r := clusterIndices(src, pos, grid)
		if len(r) <= targetCount {
			best = r
			lo = grid + 1
		} else {
			hi = grid - 1
		}
	}
	return best
}

func clusterIndices(indices []uint32, pos [][3]float64, grid int) []uint32 {
	cellOf := func(p [3]float64) uint64 {
		var id uint64
		for c := 0; c < 3; c++ {
			k := int(p[c] * float64(grid))
			if k >= grid {
				k = grid - 1
			}
			if k < 0 {
				k = 0
			}
			id = id*uint64(grid) + uint64(k)
		}
		return id
	}

	rep := make(map[uint64]uint32)
	remap := make([]uint32, len(pos))
	for v := range pos {
		cell := cellOf(pos[v])
		r, ok := rep[cell]
		if !ok {
			r = uint32(v)
			rep[cell] = r
		}
		remap[v] = r
	}

	seen := make(map[[3]uint32]bool)
	out := make([]uint32, 0, len(indices))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := remap[indices[i]], remap[indices[i+1]], remap[indices[i+2]]
		if a == b || b == c || a == c {
			continue
		}
		// 旋转使最小索引在前，保持绕序同时去重
		key := [3]uint32{a, b, c}
		if b < a && b < c {
			key = [3]uint32{b, c, a}
		} else if c < a && c < b {
			key = [3]uint32{c, a, b}
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a, b, c)
	}
	return out
}
