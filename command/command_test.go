package command

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	assert.True(t, Check("move(3,4)"))
	assert.False(t, Check("move 3 4"))
	assert.True(t, Check("dispense()"))
	assert.True(t, Check("dispense(12.5)"))
	assert.True(t, Check("move(-1.5,2,0)"))
	assert.True(t, Check("set_speed(fast)"))

	assert.False(t, Check(""))
	assert.False(t, Check("dispense(5)\n"))
	assert.False(t, Check("dispense(5"))
	assert.False(t, Check("(5)"))
	assert.False(t, Check("move(3,,4)"))
	assert.False(t, Check("move(3,4) "))
	assert.False(t, Check("dispense(5);home()"))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("home()"))
	err := Validate("home")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestNew(t *testing.T) {
	assert.Equal(t, "dispense(5)", New("dispense", 5).String())
	assert.Equal(t, "dispense(12.5)", New("dispense", 12.5).String())
	assert.Equal(t, "move(1,2.25,0)", New("move", 1, 2.25, 0).String())
	assert.Equal(t, "home()", New("home").String())
	assert.Equal(t, "dispense(0.0004)", New("dispense", 0.0004).String())
	assert.Equal(t, "move(0.3,0.333333333,-0.125)", New("move", 0.1+0.2, 1.0/3, -0.125).String())
	assert.Equal(t, "move(19,0,0)", New("move", 10+9.000000000000002, -0.0, 1e-12).String())
	assert.Equal(t, "dispense(1234.5678)", New("dispense", 1234.5678).String())
	assert.NoError(t, New("move", -3, 4).Validate())

	assert.ErrorIs(t, Command{Name: "bad name"}.Validate(), ErrMalformed)
	assert.ErrorIs(t, Command{Name: "x", Args: []string{"a b"}}.Validate(), ErrMalformed)
}

func TestParse(t *testing.T) {
	c, err := Parse("  move(3,4)\r\n")
	require.NoError(t, err)
	assert.Equal(t, Command{Name: "move", Args: []string{"3", "4"}}, c)

	c, err = Parse("home()")
	require.NoError(t, err)
	assert.Equal(t, "home", c.Name)
	assert.Empty(t, c.Args)

	_, err = Parse("move 3 4")
	assert.ErrorIs(t, err, ErrMalformed)

	assert.Panics(t, func() { MustParse("nope") })
}

func TestCommandsReader(t *testing.T) {
	r := &CommandsReader{Commands: []Command{New("home"), New("dispense", 1)}}
	assert.Equal(t, 2, r.Remaining())

	c, err := r.Read()
	assert.NoError(t, err)
	assert.Equal(t, "home()", c.String())

	c, err = r.Read()
	assert.NoError(t, err)
	assert.Equal(t, "dispense(1)", c.String())
	assert.Equal(t, 0, r.Remaining())

	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}
