package meshopt

import "math"

// quadric 对称 4x4 平面二次误差矩阵，附带累计面积权重
type quadric struct {
	a2, ab, ac, ad float64
	b2, bc, bd     float64
	c2, cd         float64
	d2             float64
	w              float64
}

func planeQuadric(n [3]float64, d, w float64) quadric {
	a, b, c := n[0], n[1], n[2]
	return quadric{
		a2: a * a * w, ab: a * b * w, ac: a * c * w, ad: a * d * w,
		b2: b * b * w, bc: b * c * w, bd: b * d * w,
		c2: c * c * w, cd: c * d * w,
		d2: d * d * w,
		w:  w,
	}
}

func (q *quadric) add(o *quadric) {
	q.a2 += o.a2
	q.ab += o.ab
	q.ac += o.ac
	q.ad += o.ad
	q.b2 += o.b2
	q.bc += o.bc
	q.bd += o.bd
	q.c2 += o.c2
	q.cd += o.cd
	q.d2 += o.d2
	q.w += o.w
}

// eval 点到各平面的面积加权均方距离
func (q *quadric) eval(p [3]float64) float64 {
	x, y, z := p[0], p[1], p[2]
	r := q.a2*x*x + 2*q.ab*x*y + 2*q.ac*x*z + 2*q.ad*x +
		q.b2*y*y + 2*q.bc*y*z + 2*q.bd*y +
		q.c2*z*z + 2*q.cd*z +
		q.d2
	if q.w == 0 {
		return math.Abs(r)
	}
	return math.Abs(r) / q.w
}

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func triangleNormal(p0, p1, p2 [3]float64) [3]float64 {
	return cross(sub(p1, p0), sub(p2, p0))
}
