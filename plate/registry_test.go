package plate

import (
	"testing"

	"github.com/mastercactapus/pipetbot/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Scenario(t *testing.T) {
	r := NewRegistry()
	_, err := r.AddPlate("p1", Alphanumeric, coord.XY(0, 0), Specs{Rows: 2, Cols: 2, WellSpacing: 1})
	require.NoError(t, err)

	expect := map[string]coord.Point{
		"A1": coord.XY(0, 0),
		"A2": coord.XY(1, 0),
		"B1": coord.XY(0, 1),
		"B2": coord.XY(1, 1),
	}
	for id, pt := range expect {
		loc, err := r.Resolve("p1", id)
		assert.NoError(t, err)
		assert.Equal(t, pt, loc, id)
	}
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	specs := Specs{Rows: 8, Cols: 12, WellSpacing: 9, WellCorner: coord.XY(14, 11)}
	_, err := r.AddPlate("source", Row, coord.XY(10, 20), specs)
	require.NoError(t, err)
	_, err = r.AddPlate("dest", Alphanumeric, coord.XY(150, 20), specs)
	require.NoError(t, err)

	// anchor + gridOrigin + index*spacing; well 14 is row 1, col 1
	loc, err := r.Resolve("source", "14")
	require.NoError(t, err)
	assert.Equal(t, coord.XY(10+14+9, 20+11+9), loc)

	// scan across plates
	loc, err = r.Resolve("", "C3")
	require.NoError(t, err)
	assert.Equal(t, coord.XY(150+14+18, 20+11+18), loc)

	// a known lookup followed by an unknown one never leaks the previous result
	loc, err = r.Resolve("source", "97")
	assert.ErrorIs(t, err, ErrWellNotFound)
	assert.True(t, loc.IsNotFound())

	loc, err = r.Resolve("", "Z99")
	assert.ErrorIs(t, err, ErrWellNotFound)
	assert.Equal(t, coord.NotFound, loc)

	loc, err = r.Resolve("missing", "A1")
	assert.ErrorIs(t, err, ErrPlateNotFound)
	assert.Equal(t, coord.NotFound, loc)
}

func TestRegistry_AddPlateErrors(t *testing.T) {
	r := NewRegistry()
	_, err := r.AddPlate("p", "HEX", coord.XY(0, 0), Specs{Rows: 1, Cols: 1})
	assert.ErrorIs(t, err, ErrConfiguration)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "p", perr.Plate)

	_, err = r.AddPlate("p", Row, coord.XY(0, 0), Specs{Rows: 1, Cols: 1})
	require.NoError(t, err)
	_, err = r.AddPlate("p", Row, coord.XY(0, 0), Specs{Rows: 1, Cols: 1})
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = r.AddPlate(" ", Row, coord.XY(0, 0), Specs{Rows: 1, Cols: 1})
	assert.ErrorIs(t, err, ErrConfiguration)

	assert.Len(t, r.Plates(), 1)
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry()
	_, err := r.AddPlate("p", Row, coord.XY(0, 0), Specs{Rows: 1, Cols: 1})
	require.NoError(t, err)

	r.Clear()
	assert.Empty(t, r.Plates())
	_, err = r.Resolve("", "1")
	assert.ErrorIs(t, err, ErrWellNotFound)
}

func TestRegistry_Calibrate(t *testing.T) {
	r := NewRegistry()
	_, err := r.AddPlate("p", Row, coord.XY(10, 10), Specs{Rows: 1, Cols: 2, WellSpacing: 10})
	require.NoError(t, err)

	ok, _ := r.Calibrated()
	assert.False(t, ok)

	require.NoError(t, r.Calibrate(nil))
	ok, _ = r.Calibrated()
	assert.True(t, ok)
	loc, err := r.Resolve("p", "2")
	require.NoError(t, err)
	assert.Equal(t, coord.XY(20, 10), loc, "no probes, deck stays flat")

	require.NoError(t, r.Calibrate([]coord.Point{
		{X: 0, Y: 0, Z: -5},
		{X: 100, Y: 0, Z: -5},
		{X: 0, Y: 100, Z: -5},
		{X: 100, Y: 100, Z: -5},
	}))
	loc, err = r.Resolve("p", "2")
	require.NoError(t, err)
	assert.InDelta(t, -5, loc.Z, 1e-9)
	assert.Equal(t, 20.0, loc.X)

	r.SetSurfaceZ(-5)
	require.NoError(t, r.Calibrate([]coord.Point{
		{X: 0, Y: 0, Z: -5},
		{X: 100, Y: 0, Z: -5},
		{X: 0, Y: 100, Z: -3},
		{X: 100, Y: 100, Z: -3},
	}))
	loc, err = r.Resolve("p", "2")
	require.NoError(t, err)
	assert.InDelta(t, 0.2, loc.Z, 1e-9)

	require.NoError(t, r.Calibrate([]coord.Point{{X: 5, Y: 5, Z: -4}, {X: 50, Y: 5, Z: -2}}))
	loc, err = r.Resolve("p", "2")
	require.NoError(t, err)
	assert.InDelta(t, 2, loc.Z, 1e-9)
}

func TestRegistry_RemovePlate(t *testing.T) {
	r := NewRegistry()
	_, err := r.AddPlate("a", Row, coord.XY(0, 0), Specs{Rows: 1, Cols: 1})
	require.NoError(t, err)
	_, err = r.AddPlate("b", Row, coord.XY(5, 0), Specs{Rows: 1, Cols: 1})
	require.NoError(t, err)

	require.NoError(t, r.RemovePlate("a"))
	assert.ErrorIs(t, r.RemovePlate("a"), ErrPlateNotFound)
	require.Len(t, r.Plates(), 1)
	assert.Equal(t, "b", r.Plates()[0].Name())

	loc, err := r.Resolve("", "1")
	require.NoError(t, err)
	assert.Equal(t, coord.XY(5, 0), loc)
}

func TestPlate_MoveTo(t *testing.T) {
	p, err := New("p", Row, coord.XY(0, 0), Specs{Rows: 1, Cols: 2, WellSpacing: 5, WellDiameter: 3, WellVolume: 200})
	require.NoError(t, err)

	w, err := p.Well("2")
	require.NoError(t, err)
	assert.Equal(t, coord.XY(5, 0), w.AbsoluteLocation())
	assert.Equal(t, 3.0, w.Diameter())
	assert.Equal(t, 200.0, w.Capacity())
	assert.Same(t, p, w.Plate())

	p.MoveTo(coord.XY(100, 50))
	assert.Equal(t, coord.XY(105, 50), w.AbsoluteLocation())
	assert.Equal(t, coord.XY(5, 0), w.Offset())
}

func TestPlate_ForEachWell(t *testing.T) {
	p, err := New("p", Column, coord.XY(0, 0), Specs{Rows: 2, Cols: 2, WellSpacing: 1})
	require.NoError(t, err)

	var got []string
	var cols []int
	p.ForEachWell(func(w *Well) {
		got = append(got, w.ID())
		col, _ := w.Grid()
		cols = append(cols, col)
	})
	assert.Equal(t, []string{"1", "2", "3", "4"}, got)
	assert.Equal(t, []int{0, 0, 1, 1}, cols)
	assert.Equal(t, 4, p.NumWells())

	loc, err := p.WellLocation("5")
	assert.ErrorIs(t, err, ErrWellNotFound)
	assert.Equal(t, coord.NotFound, loc)
}
