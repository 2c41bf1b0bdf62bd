package task

type cloner struct {
	out Task
}

var _ Visitor = &cloner{}

// Clone returns a deep copy of t. Queued tasks are cloned so later edits
// cannot race with execution.
func Clone(t Task) Task {
	c := &cloner{}
	_ = t.Accept(c)
	return c.out
}

func (c *cloner) VisitDispense(t *Dispense) error {
	cp := *t
	c.out = &cp
	return nil
}

func (c *cloner) VisitMove(t *Move) error {
	cp := *t
	c.out = &cp
	return nil
}

func (c *cloner) VisitMoveToWell(t *MoveToWell) error {
	cp := *t
	c.out = &cp
	return nil
}

func (c *cloner) VisitHome(*Home) error {
	c.out = &Home{}
	return nil
}

func (c *cloner) VisitWait(t *Wait) error {
	cp := *t
	c.out = &cp
	return nil
}

func (c *cloner) VisitCalibrate(*Calibrate) error {
	c.out = &Calibrate{}
	return nil
}

func (c *cloner) VisitRaw(t *Raw) error {
	cp := *t
	c.out = &cp
	return nil
}

func (c *cloner) VisitComposite(t *Composite) error {
	cp := &Composite{Name: t.Name, Tasks: make([]Task, 0, len(t.Tasks))}
	for _, child := range t.Tasks {
		cp.Tasks = append(cp.Tasks, Clone(child))
	}
	c.out = cp
	return nil
}
