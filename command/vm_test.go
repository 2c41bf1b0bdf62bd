package command

import (
	"testing"

	"github.com/mastercactapus/pipetbot/coord"
	"github.com/stretchr/testify/assert"
)

func TestVM_Run(t *testing.T) {
	vm := NewVM()

	assert.NoError(t, vm.RunAll(&CommandsReader{Commands: []Command{
		MustParse("calibrate()"),
		MustParse("move(10,20)"),
		MustParse("dispense(5)"),
		MustParse("move(12,20,-3)"),
		MustParse("dispense(2.5)"),
		MustParse("wait(100)"),
	}}))

	assert.True(t, vm.Calibrated())
	assert.Equal(t, coord.Point{X: 12, Y: 20, Z: -3}, vm.Pos())
	assert.Equal(t, 7.5, vm.Dispensed())
	assert.Equal(t, 100.0, vm.WaitedMillis())
	assert.Equal(t, 6, vm.Count())

	assert.NoError(t, vm.Run(MustParse("home()")))
	assert.Equal(t, coord.Point{}, vm.Pos())
}

func TestVM_RunErrors(t *testing.T) {
	vm := NewVM()

	assert.Error(t, vm.Run(MustParse("move(1)")))
	assert.Error(t, vm.Run(MustParse("dispense(-1)")))
	assert.Error(t, vm.Run(MustParse("dispense(flowRate)")))
	assert.ErrorIs(t, vm.Run(MustParse("spin(3)")), ErrUnsupported)
	assert.Error(t, vm.Run(MustParse("wait(-5)")))
	assert.Equal(t, 0, vm.Count())
}
