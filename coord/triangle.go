package coord

import "math"

// Epsilon is the max error when checking containment.
const Epsilon = 0.001

// Triangle is a facet of the deck height mesh.
type Triangle struct{ A, B, C Point }

// barycentric returns the weights of A, B and C for the XY projection of
// (x,y). ok is false for a degenerate (zero-area) triangle.
func (t Triangle) barycentric(x, y float64) (wa, wb, wc float64, ok bool) {
	det := (t.B.Y-t.C.Y)*(t.A.X-t.C.X) + (t.C.X-t.B.X)*(t.A.Y-t.C.Y)
	if math.Abs(det) < Epsilon*Epsilon {
		return 0, 0, 0, false
	}
	wa = ((t.B.Y-t.C.Y)*(x-t.C.X) + (t.C.X-t.B.X)*(y-t.C.Y)) / det
	wb = ((t.C.Y-t.A.Y)*(x-t.C.X) + (t.A.X-t.C.X)*(y-t.C.Y)) / det
	wc = 1 - wa - wb
	return wa, wb, wc, true
}

// ContainsXY returns true if the 2D projection of the triangle
// has the point x,y. Points within Epsilon of an edge count as inside.
func (t Triangle) ContainsXY(x, y float64) bool {
	wa, wb, wc, ok := t.barycentric(x, y)
	if !ok {
		return false
	}
	return wa >= -Epsilon && wb >= -Epsilon && wc >= -Epsilon
}

// Z will give the Z-coordinate on the plane defined by the triangle
// where it intersects x,y.
func (t Triangle) Z(x, y float64) float64 {
	wa, wb, wc, ok := t.barycentric(x, y)
	if !ok {
		return (t.A.Z + t.B.Z + t.C.Z) / 3
	}
	return wa*t.A.Z + wb*t.B.Z + wc*t.C.Z
}
