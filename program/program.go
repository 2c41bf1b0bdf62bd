// Package program reads and writes programs: a deck layout and the task
// tree to run on it, stored as YAML.
package program

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/mastercactapus/pipetbot/config"
	"github.com/mastercactapus/pipetbot/task"
	"gopkg.in/yaml.v3"
)

// ErrStep is returned for a step that does not name exactly one task.
var ErrStep = errors.New("invalid step")

// Program is a named task tree with the plates and variables it uses.
type Program struct {
	Name      string               `yaml:"name"`
	Variables map[string]float64   `yaml:"variables,omitempty"`
	Plates    []config.PlateConfig `yaml:"plates,omitempty"`
	Tasks     []Step               `yaml:"tasks"`
}

// Step is one task as stored on disk. Exactly one field is set.
//
// Parameter fields take the same text a user would type: a number or a
// variable name, and "x,y[,z]" for moves.
type Step struct {
	Home      bool   `yaml:"home,omitempty"`
	Calibrate bool   `yaml:"calibrate,omitempty"`
	Dispense  string `yaml:"dispense,omitempty"`
	Move      string `yaml:"move,omitempty"`
	Well      string `yaml:"well,omitempty"`
	Wait      string `yaml:"wait,omitempty"`
	Raw       string `yaml:"raw,omitempty"`
	Group     *Group `yaml:"group,omitempty"`
}

// Group is a named Composite.
type Group struct {
	Name  string `yaml:"name"`
	Tasks []Step `yaml:"tasks"`
}

// Decode reads a program.
func Decode(r io.Reader) (*Program, error) {
	var p Program
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(&p)
	if err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}
	return &p, nil
}

// Encode writes p as YAML.
func Encode(w io.Writer, p *Program) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err := enc.Encode(p)
	if err != nil {
		return err
	}
	return enc.Close()
}

// Marshal is Encode into a byte slice.
func Marshal(p *Program) ([]byte, error) {
	var buf bytes.Buffer
	err := Encode(&buf, p)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Root builds the program's task tree as a single Composite named after
// the program.
func (p *Program) Root() (*task.Composite, error) {
	tasks, err := build(p.Tasks)
	if err != nil {
		return nil, err
	}
	return task.NewComposite(p.Name, tasks...), nil
}

// Bound is Root with Variables substituted.
func (p *Program) Bound() (*task.Composite, error) {
	root, err := p.Root()
	if err != nil {
		return nil, err
	}
	err = task.Bind(root, p.Variables)
	if err != nil {
		return nil, err
	}
	return root, nil
}

func build(steps []Step) ([]task.Task, error) {
	tasks := make([]task.Task, 0, len(steps))
	for i, s := range steps {
		t, err := s.Task()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Task converts s to the task it describes.
func (s Step) Task() (task.Task, error) {
	var (
		t   task.Task
		set int
		arg string
	)
	if s.Home {
		t, set = &task.Home{}, set+1
	}
	if s.Calibrate {
		t, set = &task.Calibrate{}, set+1
	}
	if s.Dispense != "" {
		t, arg, set = &task.Dispense{}, s.Dispense, set+1
	}
	if s.Move != "" {
		t, arg, set = &task.Move{}, s.Move, set+1
	}
	if s.Well != "" {
		t, arg, set = &task.MoveToWell{}, s.Well, set+1
	}
	if s.Wait != "" {
		t, arg, set = &task.Wait{}, s.Wait, set+1
	}
	if s.Raw != "" {
		t, arg, set = &task.Raw{}, s.Raw, set+1
	}
	if s.Group != nil {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: expected exactly one task, got %d", ErrStep, set)
	}

	if s.Group != nil {
		children, err := build(s.Group.Tasks)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", s.Group.Name, err)
		}
		return task.NewComposite(s.Group.Name, children...), nil
	}
	if e, ok := t.(task.Editable); ok {
		err := e.SetUserObject(arg)
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}
