package task

import (
	"fmt"

	"github.com/mastercactapus/pipetbot/command"
)

// renderer collects the command stream of a task tree.
type renderer struct {
	r   Resolver
	out []command.Command
}

var _ Visitor = &renderer{}

// Render converts t into the commands it sends, in execution order.
func Render(t Task, r Resolver) ([]command.Command, error) {
	rd := &renderer{r: r}
	err := t.Accept(rd)
	if err != nil {
		return nil, err
	}
	return rd.out, nil
}

func (rd *renderer) leaf(l Leaf) error {
	c, err := l.Command(rd.r)
	if err != nil {
		return fmt.Errorf("render %s: %w", l, err)
	}
	if err = c.Validate(); err != nil {
		return fmt.Errorf("render %s: %w", l, err)
	}
	rd.out = append(rd.out, c)
	return nil
}

func (rd *renderer) VisitDispense(t *Dispense) error     { return rd.leaf(t) }
func (rd *renderer) VisitMove(t *Move) error             { return rd.leaf(t) }
func (rd *renderer) VisitMoveToWell(t *MoveToWell) error { return rd.leaf(t) }
func (rd *renderer) VisitHome(t *Home) error             { return rd.leaf(t) }
func (rd *renderer) VisitWait(t *Wait) error             { return rd.leaf(t) }
func (rd *renderer) VisitCalibrate(t *Calibrate) error   { return rd.leaf(t) }
func (rd *renderer) VisitRaw(t *Raw) error               { return rd.leaf(t) }
func (rd *renderer) VisitComposite(t *Composite) error   { return t.Each(rd) }
