package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispense_SetUserObject(t *testing.T) {
	d := NewDispense(5)

	assert.NoError(t, d.SetUserObject("12.5"))
	assert.Equal(t, 12.5, d.Volume.Value)
	assert.True(t, d.Volume.Bound())

	assert.NoError(t, d.SetUserObject("flowRate"))
	assert.Equal(t, 12.5, d.Volume.Value, "literal untouched")
	assert.Equal(t, "flowRate", d.Volume.Variable)
	assert.False(t, d.Volume.Bound())
	assert.Equal(t, "Dispense:flowRate", d.String())

	assert.NoError(t, d.SetUserObject(" 7 "))
	assert.Equal(t, Literal(7), d.Volume, "numeric input clears the placeholder")
}

func TestParam_SetParseError(t *testing.T) {
	p := Literal(3)

	err := p.Set("1.2.3")
	assert.ErrorIs(t, err, ErrParse)
	assert.Equal(t, Literal(3), p)

	err = p.Set("1e999")
	assert.ErrorIs(t, err, ErrParse)
	assert.Equal(t, Literal(3), p)

	p = Var("x")
	assert.ErrorIs(t, p.Set(""), ErrParse)
	assert.ErrorIs(t, p.Set("   "), ErrParse)
	assert.Equal(t, Var("x"), p)
}

func TestParam_SetAnyName(t *testing.T) {
	d := NewDispense(5)
	for _, name := range []string{"flow rate", "flow-rate", "rate(1)", "µL"} {
		assert.NoError(t, d.SetUserObject(name), name)
		assert.Equal(t, Param{Value: 5, Variable: name}, d.Volume, name)
	}

	require.NoError(t, d.SetUserObject("flow rate"))
	require.NoError(t, Bind(d, map[string]float64{"flow rate": 8}))
	assert.Equal(t, Literal(8), d.Volume)
}

func TestParam_Float(t *testing.T) {
	v, err := Literal(2.5).Float()
	assert.NoError(t, err)
	assert.Equal(t, 2.5, v)

	_, err = Var("speed").Float()
	assert.ErrorIs(t, err, ErrUnbound)
}

func TestMove_SetUserObject(t *testing.T) {
	m := NewMove(1, 2, 3)

	assert.NoError(t, m.SetUserObject("10, 20"))
	assert.Equal(t, NewMove(10, 20, 3), m)

	assert.NoError(t, m.SetUserObject("x0,5,depth"))
	assert.Equal(t, Var("x0"), m.X)
	assert.Equal(t, Var("depth"), m.Z)

	before := *m
	assert.ErrorIs(t, m.SetUserObject("1,2..3"), ErrParse)
	assert.Equal(t, before, *m, "failed edit changes nothing")

	assert.ErrorIs(t, m.SetUserObject("1"), ErrParse)
}

func TestMoveToWell_SetUserObject(t *testing.T) {
	var m MoveToWell
	assert.NoError(t, m.SetUserObject("B3"))
	assert.Equal(t, MoveToWell{Well: "B3"}, m)

	assert.NoError(t, m.SetUserObject("source / 12"))
	assert.Equal(t, MoveToWell{Plate: "source", Well: "12"}, m)

	assert.ErrorIs(t, m.SetUserObject("source/"), ErrParse)
}

func TestRaw_SetUserObject(t *testing.T) {
	r := &Raw{Text: "home()"}
	assert.Error(t, r.SetUserObject("move 3 4"))
	assert.Equal(t, "home()", r.Text)

	assert.NoError(t, r.SetUserObject("move(3,4)"))
	assert.Equal(t, "move(3,4)", r.Text)
}
