package plate

import (
	"strconv"
	"strings"

	"github.com/mastercactapus/pipetbot/coord"
)

// Ordering decides how wells on a plate are labeled.
type Ordering string

const (
	// Row numbers wells 1..N across each row, top to bottom.
	Row Ordering = "ROW"
	// Column numbers wells 1..N down each column, left to right.
	Column Ordering = "COLUMN"
	// Alphanumeric labels wells A1, A2, ... B1, ... by row letter and column number.
	Alphanumeric Ordering = "ALPHANUMERIC"
)

// Orderings lists every supported ordering.
var Orderings = []Ordering{Row, Column, Alphanumeric}

// ParseOrdering accepts any case; unknown names are a configuration error.
func ParseOrdering(s string) (Ordering, error) {
	o := Ordering(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Orderings {
		if o == known {
			return o, nil
		}
	}
	return "", configErrorf("", "unrecognized well ordering %q", s)
}

// Position is a well's label and its offset from the plate's top-left corner.
type Position struct {
	ID     string
	Col    int
	Row    int
	Offset coord.Point
}

func offset(s Specs, col, row int) coord.Point {
	return coord.Point{
		X: s.WellCorner.X + float64(col)*s.WellSpacing,
		Y: s.WellCorner.Y + float64(row)*s.WellSpacing,
	}
}

// BuildWells lays out every well of a plate with the given ordering.
//
// The result is in labeling order and every identifier is unique. Unknown
// orderings or invalid specs produce no wells.
func BuildWells(o Ordering, s Specs) ([]Position, error) {
	err := s.Validate()
	if err != nil {
		return nil, err
	}

	res := make([]Position, 0, s.Rows*s.Cols)
	add := func(col, row int, id string) {
		res = append(res, Position{ID: id, Col: col, Row: row, Offset: offset(s, col, row)})
	}

	switch o {
	case Alphanumeric:
		if s.Rows > maxRows {
			return nil, configErrorf("", "alphanumeric ordering supports at most %d rows, got %d", maxRows, s.Rows)
		}
		for row := 0; row < s.Rows; row++ {
			letter := string(rune('A' + row))
			for col := 0; col < s.Cols; col++ {
				add(col, row, letter+strconv.Itoa(col+1))
			}
		}
	case Row:
		n := 1
		for row := 0; row < s.Rows; row++ {
			for col := 0; col < s.Cols; col++ {
				add(col, row, strconv.Itoa(n))
				n++
			}
		}
	case Column:
		n := 1
		for col := 0; col < s.Cols; col++ {
			for row := 0; row < s.Rows; row++ {
				add(col, row, strconv.Itoa(n))
				n++
			}
		}
	default:
		return nil, configErrorf("", "unrecognized well ordering %q", string(o))
	}

	return res, nil
}
