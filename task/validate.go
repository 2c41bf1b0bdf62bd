package task

import (
	"errors"
	"fmt"

	"github.com/mastercactapus/pipetbot/command"
	"github.com/mastercactapus/pipetbot/coord"
)

// ValidateOptions configure Validate.
type ValidateOptions struct {
	Resolver Resolver

	// Bounds is the far corner of the reachable deck area. Zero disables
	// the bounds check.
	Bounds coord.Point
}

// Problem is a single validation finding.
type Problem struct {
	Task Task
	Err  error
}

func (p *Problem) Error() string { return p.Task.String() + ": " + p.Err.Error() }
func (p *Problem) Unwrap() error { return p.Err }

type wellKey struct{ plate, well string }

type validator struct {
	opt      ValidateOptions
	vm       *command.VM
	problems []error

	well   *wellKey
	filled map[wellKey]float64
}

var _ Visitor = &validator{}

// Validate simulates t against the deck and returns every problem found,
// joined into a single error. Rendering failures (unbound variables,
// unknown wells, malformed raw commands) are reported per task and
// simulation continues.
func Validate(t Task, opt ValidateOptions) error {
	v := &validator{
		opt:    opt,
		vm:     command.NewVM(),
		filled: make(map[wellKey]float64),
	}
	if err := t.Accept(v); err != nil {
		return err
	}
	return errors.Join(v.problems...)
}

func (v *validator) fail(t Task, err error) {
	v.problems = append(v.problems, &Problem{Task: t, Err: err})
}

func (v *validator) run(l Leaf) bool {
	c, err := l.Command(v.opt.Resolver)
	if err != nil {
		v.fail(l, err)
		return false
	}
	if err = v.vm.Run(c); err != nil {
		v.fail(l, err)
		return false
	}
	return true
}

func (v *validator) checkBounds(t Task) {
	if v.opt.Bounds == (coord.Point{}) {
		return
	}
	pos := v.vm.Pos()
	if !coord.XY(pos.X, pos.Y).Within(v.opt.Bounds) {
		v.fail(t, fmt.Errorf("position %s is outside the deck %s", pos, v.opt.Bounds))
	}
}

func (v *validator) VisitDispense(t *Dispense) error {
	if !v.run(t) || v.well == nil {
		return nil
	}
	cr, ok := v.opt.Resolver.(CapacityResolver)
	if !ok {
		return nil
	}
	vol, err := t.Volume.Float()
	if err != nil {
		return nil
	}
	capacity, err := cr.Capacity(v.well.plate, v.well.well)
	if err != nil || capacity <= 0 {
		return nil
	}
	v.filled[*v.well] += vol
	if v.filled[*v.well] > capacity {
		v.fail(t, fmt.Errorf("well %s/%s over capacity: %s of %s",
			v.well.plate, v.well.well, coord.FormatFloat(v.filled[*v.well]), coord.FormatFloat(capacity)))
	}
	return nil
}

func (v *validator) VisitMove(t *Move) error {
	v.well = nil
	if v.run(t) {
		v.checkBounds(t)
	}
	return nil
}

func (v *validator) VisitMoveToWell(t *MoveToWell) error {
	v.well = nil
	if v.run(t) {
		v.well = &wellKey{plate: t.Plate, well: t.Well}
		v.checkBounds(t)
	}
	return nil
}

func (v *validator) VisitHome(t *Home) error {
	v.well = nil
	v.run(t)
	return nil
}

func (v *validator) VisitWait(t *Wait) error {
	v.run(t)
	return nil
}

func (v *validator) VisitCalibrate(t *Calibrate) error {
	v.well = nil
	v.run(t)
	return nil
}

func (v *validator) VisitRaw(t *Raw) error {
	// raw commands may move the arm anywhere; stop tracking the well
	v.well = nil
	c, err := t.Command(v.opt.Resolver)
	if err != nil {
		v.fail(t, err)
		return nil
	}
	err = v.vm.Run(c)
	switch {
	case errors.Is(err, command.ErrUnsupported):
	case err != nil:
		v.fail(t, err)
	default:
		v.checkBounds(t)
	}
	return nil
}

func (v *validator) VisitComposite(t *Composite) error {
	if len(t.Tasks) == 0 {
		v.fail(t, errors.New("empty group"))
	}
	return t.Each(v)
}
