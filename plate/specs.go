package plate

import (
	"github.com/mastercactapus/pipetbot/coord"
)

// Specs describes the physical plate as given on its datasheet.
// All lengths are in millimeters, volumes in microliters.
type Specs struct {
	Rows int `yaml:"rows" json:"rows" mapstructure:"rows"`
	Cols int `yaml:"cols" json:"cols" mapstructure:"cols"`

	WellDiameter float64 `yaml:"well_diameter" json:"wellDiameter" mapstructure:"well_diameter"`
	WellSpacing  float64 `yaml:"well_spacing" json:"wellSpacing" mapstructure:"well_spacing"`
	WellVolume   float64 `yaml:"well_volume" json:"wellVolume" mapstructure:"well_volume"`

	// WellCorner is the offset of the first well from the plate's top-left corner.
	WellCorner coord.Point `yaml:"well_corner" json:"wellCorner" mapstructure:"well_corner"`

	// Border is the outer width (X) and height (Y) of the plate.
	Border coord.Point `yaml:"border" json:"border" mapstructure:"border"`
}

// maxRows keeps ALPHANUMERIC identifiers within 'A'..'Z'.
const maxRows = 26

// Validate returns a configuration error for specs that cannot produce a well grid.
func (s Specs) Validate() error {
	switch {
	case s.Rows <= 0 || s.Cols <= 0:
		return configErrorf("", "rows and cols must be positive, got %dx%d", s.Rows, s.Cols)
	case s.WellSpacing < 0:
		return configErrorf("", "negative well spacing %g", s.WellSpacing)
	case s.WellDiameter < 0:
		return configErrorf("", "negative well diameter %g", s.WellDiameter)
	case s.WellVolume < 0:
		return configErrorf("", "negative well volume %g", s.WellVolume)
	}
	return nil
}
