package task

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mastercactapus/pipetbot/command"
)

// Dispense flows Volume of liquid from the tip. The controller currently
// interprets the volume as milliseconds of liquid flow before switching to air.
type Dispense struct {
	Volume Param
}

// NewDispense creates a Dispense of a literal volume.
func NewDispense(volume float64) *Dispense { return &Dispense{Volume: Literal(volume)} }

func (t *Dispense) Kind() Kind                    { return KindDispense }
func (t *Dispense) Accept(v Visitor) error        { return v.VisitDispense(t) }
func (t *Dispense) String() string                { return "Dispense:" + t.Volume.String() }
func (t *Dispense) SetUserObject(in string) error { return t.Volume.Set(in) }

func (t *Dispense) Command(Resolver) (command.Command, error) {
	v, err := t.Volume.Float()
	if err != nil {
		return command.Command{}, err
	}
	return command.New("dispense", v), nil
}

// Move sends the arm to an absolute deck position.
type Move struct {
	X, Y, Z Param
}

// NewMove creates a Move to a literal position.
func NewMove(x, y, z float64) *Move {
	return &Move{X: Literal(x), Y: Literal(y), Z: Literal(z)}
}

func (t *Move) Kind() Kind             { return KindMove }
func (t *Move) Accept(v Visitor) error { return v.VisitMove(t) }
func (t *Move) String() string {
	return "Move:" + t.X.String() + "," + t.Y.String() + "," + t.Z.String()
}

// SetUserObject takes "x,y" or "x,y,z". Each element follows Param.Set; on
// any failure no coordinate is changed.
func (t *Move) SetUserObject(in string) error {
	parts := strings.Split(in, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return fmt.Errorf("%w: move expects x,y[,z], got %q", ErrParse, in)
	}
	next := *t
	dst := []*Param{&next.X, &next.Y, &next.Z}
	for i, s := range parts {
		if err := dst[i].Set(s); err != nil {
			return err
		}
	}
	*t = next
	return nil
}

func (t *Move) Command(Resolver) (command.Command, error) {
	var vals [3]float64
	for i, p := range []Param{t.X, t.Y, t.Z} {
		v, err := p.Float()
		if err != nil {
			return command.Command{}, err
		}
		vals[i] = v
	}
	return command.New("move", vals[:]...), nil
}

// MoveToWell sends the arm above a well. The address is resolved when the
// command is rendered so plate moves and calibration are honored.
type MoveToWell struct {
	Plate string
	Well  string
}

func (t *MoveToWell) Kind() Kind             { return KindMoveToWell }
func (t *MoveToWell) Accept(v Visitor) error { return v.VisitMoveToWell(t) }
func (t *MoveToWell) String() string {
	if t.Plate == "" {
		return "MoveToWell:" + t.Well
	}
	return "MoveToWell:" + t.Plate + "/" + t.Well
}

// SetUserObject takes "well" or "plate/well".
func (t *MoveToWell) SetUserObject(in string) error {
	in = strings.TrimSpace(in)
	plateName, well := "", in
	if i := strings.LastIndexByte(in, '/'); i >= 0 {
		plateName, well = strings.TrimSpace(in[:i]), strings.TrimSpace(in[i+1:])
	}
	if well == "" {
		return fmt.Errorf("%w: missing well in %q", ErrParse, in)
	}
	t.Plate, t.Well = plateName, well
	return nil
}

func (t *MoveToWell) Command(r Resolver) (command.Command, error) {
	if r == nil {
		return command.Command{}, errors.New("no plate resolver for " + t.String())
	}
	p, err := r.Resolve(t.Plate, t.Well)
	if err != nil {
		return command.Command{}, err
	}
	return command.New("move", p.X, p.Y, p.Z), nil
}

// Home returns the arm to its origin.
type Home struct{}

func (t *Home) Kind() Kind             { return KindHome }
func (t *Home) Accept(v Visitor) error { return v.VisitHome(t) }
func (t *Home) String() string         { return "Home" }

func (t *Home) Command(Resolver) (command.Command, error) { return command.New("home"), nil }

// Wait pauses the controller for Millis milliseconds.
type Wait struct {
	Millis Param
}

func (t *Wait) Kind() Kind                    { return KindWait }
func (t *Wait) Accept(v Visitor) error        { return v.VisitWait(t) }
func (t *Wait) String() string                { return "Wait:" + t.Millis.String() }
func (t *Wait) SetUserObject(in string) error { return t.Millis.Set(in) }

func (t *Wait) Command(Resolver) (command.Command, error) {
	v, err := t.Millis.Float()
	if err != nil {
		return command.Command{}, err
	}
	return command.New("wait", v), nil
}

// Calibrate runs the controller's calibration routine. It is acknowledged by
// the calibration token rather than the completion token.
type Calibrate struct{}

func (t *Calibrate) Kind() Kind             { return KindCalibrate }
func (t *Calibrate) Accept(v Visitor) error { return v.VisitCalibrate(t) }
func (t *Calibrate) String() string         { return "Calibrate" }

func (t *Calibrate) Command(Resolver) (command.Command, error) {
	return command.New("calibrate"), nil
}

// Raw is a command typed in by the user.
type Raw struct {
	Text string
}

func (t *Raw) Kind() Kind             { return KindRaw }
func (t *Raw) Accept(v Visitor) error { return v.VisitRaw(t) }
func (t *Raw) String() string         { return "Raw:" + t.Text }

func (t *Raw) SetUserObject(in string) error {
	in = strings.TrimSpace(in)
	if err := command.Validate(in); err != nil {
		return err
	}
	t.Text = in
	return nil
}

func (t *Raw) Command(Resolver) (command.Command, error) { return command.Parse(t.Text) }
