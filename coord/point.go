package coord

import (
	"math"
	"strconv"
	"strings"
)

// Point is a location on the deck, in millimeters.
//
// Z is only meaningful once the deck has been leveled; plate and well
// geometry is purely X/Y.
type Point struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
	Z float64 `json:"z" yaml:"z" mapstructure:"z"`
}

// NotFound is returned alongside an error when a well lookup fails.
// No real well can sit at negative deck coordinates.
var NotFound = Point{X: -1, Y: -1}

// XY is shorthand for a point on the deck surface.
func XY(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Equal(b Point) bool {
	return p.X == b.X && p.Y == b.Y && p.Z == b.Z
}

// IsNotFound reports whether p is the lookup-miss sentinel.
func (p Point) IsNotFound() bool { return p.Equal(NotFound) }

// Add will add the target values to p.
func (p Point) Add(target Point) Point {
	p.X += target.X
	p.Y += target.Y
	p.Z += target.Z
	return p
}

// Sub will subtract the target values from p.
func (p Point) Sub(target Point) Point {
	p.X -= target.X
	p.Y -= target.Y
	p.Z -= target.Z
	return p
}

// DistanceXY will return the 2D distance to p from (x,y).
func (p Point) DistanceXY(x, y float64) float64 {
	return math.Hypot(x-p.X, y-p.Y)
}

// Within reports whether p lies inside the rectangle spanning (0,0) to size.
func (p Point) Within(size Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= size.X && p.Y <= size.Y
}

func (p Point) String() string {
	return "(" + FormatFloat(p.X) + "," + FormatFloat(p.Y) + "," + FormatFloat(p.Z) + ")"
}

// FormatFloat renders f with at most 3 decimals and no trailing zeros.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', 3, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
	}
	s = strings.TrimRight(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
