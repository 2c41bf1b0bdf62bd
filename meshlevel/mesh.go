// Package meshlevel interpolates deck height from calibration probe points.
package meshlevel

import (
	"errors"
	"math"

	"github.com/fogleman/delaunay"
	"github.com/mastercactapus/pipetbot/coord"
)

// Mesh is a triangulated height map of the deck.
type Mesh struct {
	minX, minY, maxX, maxY float64
	triangles              []coord.Triangle
}

var _ ZOffsetter = &Mesh{}

// NewMesh triangulates the probe points. Duplicate XY points keep the last Z.
func NewMesh(points []coord.Point) (*Mesh, error) {
	if len(points) < 3 {
		return nil, errors.New("need at least 3 points to create a mesh")
	}

	byXY := make(map[delaunay.Point]coord.Point, len(points))
	points2d := make([]delaunay.Point, 0, len(points))

	mesh := &Mesh{
		minX: points[0].X,
		minY: points[0].Y,
		maxX: points[0].X,
		maxY: points[0].Y,
	}
	for _, p := range points {
		mesh.minX = math.Min(mesh.minX, p.X)
		mesh.minY = math.Min(mesh.minY, p.Y)
		mesh.maxX = math.Max(mesh.maxX, p.X)
		mesh.maxY = math.Max(mesh.maxY, p.Y)

		d := delaunay.Point{X: p.X, Y: p.Y}
		if _, seen := byXY[d]; !seen {
			points2d = append(points2d, d)
		}
		byXY[d] = p
	}
	if len(points2d) < 3 {
		return nil, errors.New("need at least 3 distinct points to create a mesh")
	}
	mesh.minX -= coord.Epsilon
	mesh.minY -= coord.Epsilon
	mesh.maxX += coord.Epsilon
	mesh.maxY += coord.Epsilon

	tri, err := delaunay.Triangulate(points2d)
	if err != nil {
		return nil, err
	}
	if len(tri.Triangles) == 0 {
		return nil, errors.New("probe points are collinear")
	}

	mesh.triangles = make([]coord.Triangle, 0, len(tri.Triangles)/3)
	for i := 0; i+2 < len(tri.Triangles); i += 3 {
		mesh.triangles = append(mesh.triangles, coord.Triangle{
			A: byXY[tri.Points[tri.Triangles[i]]],
			B: byXY[tri.Points[tri.Triangles[i+1]]],
			C: byXY[tri.Points[tri.Triangles[i+2]]],
		})
	}

	return mesh, nil
}

// OffsetZ returns the interpolated deck height at x,y. Points outside the
// probed area report false.
func (m *Mesh) OffsetZ(x, y float64) (bool, float64) {
	if x < m.minX || m.maxX < x || y < m.minY || m.maxY < y {
		return false, 0
	}
	for _, t := range m.triangles {
		if !t.ContainsXY(x, y) {
			continue
		}
		return true, t.Z(x, y)
	}

	return false, 0
}
