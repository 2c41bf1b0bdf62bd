package meshlevel

// ZOffsetter reports the deck height at a point, if known.
type ZOffsetter interface {
	OffsetZ(x, y float64) (bool, float64)
}

// Flat is a ZOffsetter for a perfectly level deck at height Z.
type Flat struct{ Z float64 }

func (f Flat) OffsetZ(x, y float64) (bool, float64) { return true, f.Z }
