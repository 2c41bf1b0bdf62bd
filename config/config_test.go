package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mastercactapus/pipetbot/coord"
	"github.com/mastercactapus/pipetbot/plate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Validate())
	assert.Equal(t, 2*time.Second, cfg.Serial.ConnectTimeout())
	assert.Equal(t, 2*time.Minute, cfg.Serial.AckTimeout())
	assert.Equal(t, coord.Point{X: 300, Y: 300, Z: 100}, cfg.Deck.Bounds())
}

const testConfig = `
serial:
  port: /dev/ttyACM0
  ack_timeout_ms: 0
  terminator: "\n"
deck:
  width: 250
plates:
  - name: src
    ordering: alphanumeric
    corner: {x: 10, y: 10}
    specs:
      rows: 8
      cols: 12
      well_diameter: 6.4
      well_spacing: 9
      well_volume: 300
      well_corner: {x: 14, y: 11.5}
`

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(testConfig), 0o644))

	v := New(file)
	require.NoError(t, Read(v))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 9600, cfg.Serial.Baud)
	assert.Equal(t, 0, cfg.Serial.AckTimeoutMs)
	assert.Equal(t, "\n", cfg.Serial.Terminator)
	assert.Equal(t, "Done", cfg.Serial.DoneToken)
	assert.Equal(t, 250.0, cfg.Deck.Width)
	assert.Equal(t, 300.0, cfg.Deck.Depth)

	require.Len(t, cfg.Plates, 1)
	p := cfg.Plates[0]
	assert.Equal(t, "src", p.Name)
	assert.Equal(t, coord.Point{X: 10, Y: 10}, p.Corner)
	assert.Equal(t, 12, p.Specs.Cols)
	assert.Equal(t, coord.Point{X: 14, Y: 11.5}, p.Specs.WellCorner)

	r := plate.NewRegistry()
	require.NoError(t, cfg.AddPlates(r))
	pt, err := r.Resolve("src", "A1")
	require.NoError(t, err)
	assert.Equal(t, coord.Point{X: 24, Y: 21.5}, pt)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PIPETBOT_SERIAL_PORT", "/dev/ttyUSB3")
	t.Setenv("PIPETBOT_SERVER_ADDR", ":8080")

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	v := New("")
	require.NoError(t, Read(v))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB3", cfg.Serial.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Serial.Baud = 0
	cfg.Serial.AckTimeoutMs = -1
	cfg.Serial.CalibratedToken = "Done"
	cfg.Deck.Width = 0
	cfg.Plates = []PlateConfig{
		{Name: "a", Ordering: "ROW", Specs: plate.Specs{Rows: 1, Cols: 1}},
		{Name: "a", Ordering: "DIAGONAL", Specs: plate.Specs{Rows: 1, Cols: 1}},
		{Ordering: "ROW"},
	}

	errs := cfg.Validate()
	var fields []string
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{
		"serial.baud",
		"serial.ack_timeout_ms",
		"serial.calibrated_token",
		"deck.width",
		"plates[1].name",
		"plates[1].ordering",
		"plates[2].name",
		"plates[2].specs",
	}, fields)

	assert.Contains(t, ValidationErrors(errs).Error(), "8 validation errors")
	assert.Equal(t, "deck.width: must be positive (got: 0)", errs[3].Error())
}
