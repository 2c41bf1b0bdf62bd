package program

import (
	"github.com/mastercactapus/pipetbot/task"
)

type stepper struct {
	out []Step
}

var _ task.Visitor = &stepper{}

// Steps converts a task tree to its stored form. A Composite root becomes
// its children; any other task becomes a single step.
func Steps(t task.Task) []Step {
	s := &stepper{}
	if c, ok := t.(*task.Composite); ok {
		_ = c.Each(s)
	} else {
		_ = t.Accept(s)
	}
	return s.out
}

// FromTask builds a Program around an existing tree.
func FromTask(name string, t task.Task) *Program {
	return &Program{Name: name, Tasks: Steps(t)}
}

func (s *stepper) add(st Step) error {
	s.out = append(s.out, st)
	return nil
}

func (s *stepper) VisitDispense(t *task.Dispense) error {
	return s.add(Step{Dispense: t.Volume.String()})
}

func (s *stepper) VisitMove(t *task.Move) error {
	return s.add(Step{Move: t.X.String() + "," + t.Y.String() + "," + t.Z.String()})
}

func (s *stepper) VisitMoveToWell(t *task.MoveToWell) error {
	if t.Plate == "" {
		return s.add(Step{Well: t.Well})
	}
	return s.add(Step{Well: t.Plate + "/" + t.Well})
}

func (s *stepper) VisitWait(t *task.Wait) error {
	return s.add(Step{Wait: t.Millis.String()})
}

func (s *stepper) VisitHome(*task.Home) error {
	return s.add(Step{Home: true})
}

func (s *stepper) VisitCalibrate(*task.Calibrate) error {
	return s.add(Step{Calibrate: true})
}

func (s *stepper) VisitRaw(t *task.Raw) error {
	return s.add(Step{Raw: t.Text})
}

func (s *stepper) VisitComposite(t *task.Composite) error {
	return s.add(Step{Group: &Group{Name: t.Name, Tasks: Steps(t)}})
}
