package meshopt

import (
	"math"
	"sort"
)

type collapse struct {
	from, to uint32
	cost     float64
}

// adjacency 每个顶点周围的三角形
type adjacency struct {
	offsets   []int
	triangles []int
}

func buildAdjacency(indices []uint32, vertexCount int) adjacency {
	adj := adjacency{offsets: make([]int, vertexCount+1)}
	for _, v := range indices {
		adj.offsets[v+1]++
	}
	for i := 0; i < vertexCount; i++ {
		adj.offsets[i+1] += adj.offsets[i]
	}
	adj.triangles = make([]int, len(indices))
	fill := append([]int{}, adj.offsets[:vertexCount]...)
	for i, v := range indices {
		adj.triangles[fill[v]] = i / 3
		fill[v]++
	}
	return adj
}

func (a *adjacency) around(v uint32) []int {
	return a.triangles[a.offsets[v]:a.offsets[v+1]]
}

// Simplify 按二次误差从小到大折叠边，直到索引数降到 targetCount 或没有误差在 targetError 内的折叠
//
// targetError 相对于网格最大边长，边界顶点锁定。
func Simplify(positions []float32, stride int, indices []uint32, targetCount int, targetError float32) []uint32 {
	result := dropDegenerate(append([]uint32{}, indices[:len(indices)/3*3]...))
	if stride < 3 || len(result) <= targetCount {
		return result
	}
	pos := normalizedPositions(positions, stride)
	vertexCount := vertexCountOf(result, len(pos))
	if vertexCount > len(pos) {
		return result
	}

	quadrics := make([]quadric, vertexCount)
	for i := 0; i < len(result); i += 3 {
		a, b, c := result[i], result[i+1], result[i+2]
		n := triangleNormal(pos[a], pos[b], pos[c])
		l := math.Sqrt(dot(n, n))
		if l == 0 {
			continue
		}
		n = [3]float64{n[0] / l, n[1] / l, n[2] / l}
		q := planeQuadric(n, -dot(n, pos[a]), l*0.5)
		quadrics[a].add(&q)
		quadrics[b].add(&q)
		quadrics[c].add(&q)
	}

	locked := borderVertices(result, vertexCount)
	limit := float64(targetError) * float64(targetError)

	for len(result) > targetCount {
		adj := buildAdjacency(result, vertexCount)
		cands := collectCollapses(result, pos, quadrics, locked, limit)
		if len(cands) == 0 {
			break
		}
		sort.SliceStable(cands, func(i, j int) bool {
			return cands[i].cost < cands[j].cost
		})

		remap := make([]uint32, vertexCount)
		for i := range remap {
			remap[i] = uint32(i)
		}
		touched := make([]bool, vertexCount)
		need := (len(result) - targetCount + 2) / 3
		removed, collapsed := 0, 0
		for _, c := range cands {
			if removed >= need {
				break
			}
			if touched[c.from] || touched[c.to] {
				continue
			}
			if flips(result, pos, &adj, c.from, c.to) {
				continue
			}
			remap[c.from] = c.to
			quadrics[c.to].add(&quadrics[c.from])
			for _, t := range adj.around(c.from) {
				tri := result[t*3 : t*3+3]
				if tri[0] == c.to || tri[1] == c.to || tri[2] == c.to {
					removed++
				}
				touched[tri[0]] = true
				touched[tri[1]] = true
				touched[tri[2]] = true
			}
			touched[c.to] = true
			collapsed++
		}
		if collapsed == 0 {
			break
		}
		for i := range result {
			result[i] = remap[result[i]]
		}
		result = dropDegenerate(result)
	}
	return result
}

// borderVertices 标记只属于一个三角形的边上的顶点
func borderVertices(indices []uint32, vertexCount int) []bool {
	edges := make(map[uint64]int, len(indices))
	key := func(a, b uint32) uint64 {
		if a > b {
			a, b = b, a
		}
		return uint64(a)<<32 | uint64(b)
	}
	for i := 0; i < len(indices); i += 3 {
		for k := 0; k < 3; k++ {
			edges[key(indices[i+k], indices[i+(k+1)%3])]++
		}
	}
	locked := make([]bool, vertexCount)
	for e, n := range edges {
		if n == 1 {
			locked[uint32(e>>32)] = true
			locked[uint32(e)] = true
		}
	}
	return locked
}

func collectCollapses(indices []uint32, pos [][3]float64, quadrics []quadric, locked []bool, limit float64) []collapse {
	seen := make(map[uint64]bool, len(indices))
	var cands []collapse
	for i := 0; i < len(indices); i += 3 {
		for k := 0; k < 3; k++ {
			a, b := indices[i+k], indices[i+(k+1)%3]
			if a > b {
				a, b = b, a
			}
			e := uint64(a)<<32 | uint64(b)
			if seen[e] {
				continue
			}
			seen[e] = true

			best := collapse{cost: math.Inf(1)}
			for _, d := range [2][2]uint32{{a, b}, {b, a}} {
				from, to := d[0], d[1]
				if locked[from] {
					continue
				}
				q := quadrics[from]
				q.add(&quadrics[to])
				if cost := q.eval(pos[to]); cost < best.cost {
					best = collapse{from: from, to: to, cost: cost}
				}
			}
			if best.cost <= limit {
				cands = append(cands, best)
			}
		}
	}
	return cands
}

// flips 判断把 from 移到 to 是否会翻转剩余的三角形
func flips(indices []uint32, pos [][3]float64, adj *adjacency, from, to uint32) bool {
	for _, t := range adj.around(from) {
		tri := indices[t*3 : t*3+3]
		if tri[0] == to || tri[1] == to || tri[2] == to {
			continue
		}
		var before, after [3][3]float64
		for k := 0; k < 3; k++ {
			before[k] = pos[tri[k]]
			after[k] = pos[tri[k]]
			if tri[k] == from {
				after[k] = pos[to]
			}
		}
		n0 := triangleNormal(before[0], before[1], before[2])
		n1 := triangleNormal(after[0], after[1], after[2])
		if dot(n0, n1) <= 0 {
			return true
		}
	}
	return false
}
