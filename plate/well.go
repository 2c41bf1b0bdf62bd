package plate

import "github.com/mastercactapus/pipetbot/coord"

// Well is a single well on a plate. Wells only exist as part of a Plate.
type Well struct {
	plate *Plate

	id       string
	col, row int
	offset   coord.Point
	diameter float64
}

func (w *Well) ID() string { return w.id }

// Plate returns the owning plate.
func (w *Well) Plate() *Plate { return w.plate }

// Grid returns the zero-based column and row of the well.
func (w *Well) Grid() (col, row int) { return w.col, w.row }

// Offset is the unrounded position relative to the plate's top-left corner.
func (w *Well) Offset() coord.Point { return w.offset }

func (w *Well) Diameter() float64 { return w.diameter }

// Capacity is the maximum volume the well holds.
func (w *Well) Capacity() float64 { return w.plate.specs.WellVolume }

// AbsoluteLocation resolves the well against the plate's current corner.
func (w *Well) AbsoluteLocation() coord.Point {
	return w.plate.Corner().Add(w.offset)
}
