package task

// Composite runs its children in order as a single queue entry.
type Composite struct {
	Name  string
	Tasks []Task
}

// NewComposite creates a named group of tasks.
func NewComposite(name string, tasks ...Task) *Composite {
	return &Composite{Name: name, Tasks: tasks}
}

func (t *Composite) Kind() Kind             { return KindComposite }
func (t *Composite) Accept(v Visitor) error { return v.VisitComposite(t) }
func (t *Composite) String() string         { return "Composite:" + t.Name }

// Add appends tasks to the end of the group.
func (t *Composite) Add(tasks ...Task) { t.Tasks = append(t.Tasks, tasks...) }

// Each visits every child in order, stopping at the first error.
func (t *Composite) Each(v Visitor) error {
	for _, c := range t.Tasks {
		if err := c.Accept(v); err != nil {
			return err
		}
	}
	return nil
}
