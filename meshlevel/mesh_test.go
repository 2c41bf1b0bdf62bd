package meshlevel

import (
	"testing"

	"github.com/mastercactapus/pipetbot/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMesh_OffsetZ(t *testing.T) {
	// deck rises 0.3mm for every 1mm of X
	probes := []coord.Point{
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 100, Z: 0},
		{X: 100, Y: 0, Z: 30},
		{X: 100, Y: 100, Z: 30},
	}

	mesh, err := NewMesh(probes)
	require.NoError(t, err)

	ok, z := mesh.OffsetZ(50, 50)
	assert.True(t, ok)
	assert.InDelta(t, 15, z, 1e-9)

	ok, z = mesh.OffsetZ(10, 90)
	assert.True(t, ok)
	assert.InDelta(t, 3, z, 1e-9)

	ok, _ = mesh.OffsetZ(150, 50)
	assert.False(t, ok)
}

func TestNewMesh_Errors(t *testing.T) {
	_, err := NewMesh([]coord.Point{{X: 0}, {X: 1}})
	assert.Error(t, err)

	_, err = NewMesh([]coord.Point{{X: 0}, {X: 0, Z: 1}, {X: 1}})
	assert.Error(t, err, "only 2 distinct XY points")
}

func TestOffsetFrom(t *testing.T) {
	in := []coord.Point{{X: 1, Z: 5}, {X: 2, Z: 7}}
	out := OffsetFrom(5, in)
	assert.Equal(t, []coord.Point{{X: 1, Z: 0}, {X: 2, Z: 2}}, out)
	assert.Equal(t, 5.0, in[0].Z, "input untouched")

	ok, z := Flat{Z: -2}.OffsetZ(10, 10)
	assert.True(t, ok)
	assert.Equal(t, -2.0, z)
}
