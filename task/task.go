// Package task defines the operations a program is built from.
//
// Tasks form a tree: leaves map to a single controller command and
// Composite groups children that run in order. Algorithms over the tree
// (rendering, printing, validation, binding) are Visitors; adding a task
// kind means adding a method to Visitor, so every algorithm must handle it.
package task

import (
	"github.com/mastercactapus/pipetbot/command"
	"github.com/mastercactapus/pipetbot/coord"
)

// Kind names a task variant.
type Kind string

const (
	KindDispense   Kind = "Dispense"
	KindMove       Kind = "Move"
	KindMoveToWell Kind = "MoveToWell"
	KindHome       Kind = "Home"
	KindWait       Kind = "Wait"
	KindCalibrate  Kind = "Calibrate"
	KindRaw        Kind = "Raw"
	KindComposite  Kind = "Composite"
)

// Task is a node in a program.
type Task interface {
	Kind() Kind
	// Accept calls the Visitor method for this task's kind.
	Accept(v Visitor) error
	String() string
}

// Leaf is a task that translates to exactly one controller command.
type Leaf interface {
	Task
	Command(r Resolver) (command.Command, error)
}

// Editable tasks accept parameter edits as text.
type Editable interface {
	SetUserObject(input string) error
}

// Visitor has one method per task kind.
type Visitor interface {
	VisitDispense(*Dispense) error
	VisitMove(*Move) error
	VisitMoveToWell(*MoveToWell) error
	VisitHome(*Home) error
	VisitWait(*Wait) error
	VisitCalibrate(*Calibrate) error
	VisitRaw(*Raw) error
	VisitComposite(*Composite) error
}

// Resolver turns a plate/well address into a deck coordinate.
type Resolver interface {
	Resolve(plateName, wellID string) (coord.Point, error)
}

// CapacityResolver is implemented by resolvers that also know well volumes.
type CapacityResolver interface {
	Resolver
	Capacity(plateName, wellID string) (float64, error)
}
