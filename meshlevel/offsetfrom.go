package meshlevel

import (
	"github.com/mastercactapus/pipetbot/coord"
)

// OffsetFrom shifts probe heights so that z becomes the zero plane.
func OffsetFrom(z float64, points []coord.Point) []coord.Point {
	p := make([]coord.Point, len(points))
	copy(p, points)

	for i := range p {
		p[i].Z -= z
	}
	return p
}
