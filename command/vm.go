package command

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/mastercactapus/pipetbot/coord"
)

// ErrUnsupported is returned by VM.Run for commands it cannot simulate.
var ErrUnsupported = errors.New("unsupported command")

// VM tracks arm state by interpreting commands, without hardware.
type VM struct {
	pos        coord.Point
	dispensed  float64
	waited     float64
	calibrated bool
	count      int
}

// NewVM constructs a VM with the arm at the deck origin.
func NewVM() *VM { return &VM{} }

func (vm VM) Pos() coord.Point      { return vm.pos }
func (vm VM) Dispensed() float64    { return vm.dispensed }
func (vm VM) WaitedMillis() float64 { return vm.waited }
func (vm VM) Calibrated() bool      { return vm.calibrated }

// Count is the number of commands run so far.
func (vm VM) Count() int { return vm.count }

func (vm *VM) SetPos(p coord.Point) { vm.pos = p }

// Supported reports whether the VM understands the named command.
func Supported(name string) bool {
	switch name {
	case "move", "dispense", "wait", "home", "calibrate":
		return true
	}
	return false
}

func (c Command) floatArgs() ([]float64, error) {
	res := make([]float64, len(c.Args))
	for i, a := range c.Args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, errors.New("non-numeric argument to " + c.Name + ": " + a)
		}
		res[i] = v
	}
	return res, nil
}

// Run applies a single command to the arm state.
func (vm *VM) Run(c Command) error {
	err := c.Validate()
	if err != nil {
		return err
	}
	if !Supported(c.Name) {
		return fmt.Errorf("%w: %s", ErrUnsupported, c.Name)
	}
	args, err := c.floatArgs()
	if err != nil {
		return err
	}

	switch c.Name {
	case "move":
		if len(args) < 2 || len(args) > 3 {
			return errors.New("move takes 2 or 3 arguments")
		}
		vm.pos.X, vm.pos.Y = args[0], args[1]
		if len(args) == 3 {
			vm.pos.Z = args[2]
		}
	case "dispense":
		if len(args) != 1 {
			return errors.New("dispense takes 1 argument")
		}
		if args[0] < 0 {
			return errors.New("dispense volume must not be negative")
		}
		vm.dispensed += args[0]
	case "wait":
		if len(args) != 1 {
			return errors.New("wait takes 1 argument")
		}
		if args[0] < 0 {
			return errors.New("wait time must not be negative")
		}
		vm.waited += args[0]
	case "home":
		vm.pos = coord.Point{}
	case "calibrate":
		vm.pos = coord.Point{}
		vm.calibrated = true
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, c.Name)
	}
	vm.count++

	return nil
}

// RunAll runs every command from r until io.EOF.
func (vm *VM) RunAll(r Reader) error {
	for {
		c, err := r.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		err = vm.Run(c)
		if err != nil {
			return err
		}
	}
}
