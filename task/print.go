package task

import (
	"fmt"
	"io"
	"strings"
)

type printer struct {
	w     io.Writer
	depth int
	err   error
}

var _ Visitor = &printer{}

// Print writes an indented outline of t to w.
func Print(w io.Writer, t Task) error {
	p := &printer{w: w}
	if err := t.Accept(p); err != nil {
		return err
	}
	return p.err
}

// Outline returns the Print output as a string.
func Outline(t Task) string {
	var b strings.Builder
	_ = Print(&b, t)
	return b.String()
}

func (p *printer) line(t Task) error {
	if p.err != nil {
		return p.err
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", p.depth), t)
	return p.err
}

func (p *printer) VisitDispense(t *Dispense) error     { return p.line(t) }
func (p *printer) VisitMove(t *Move) error             { return p.line(t) }
func (p *printer) VisitMoveToWell(t *MoveToWell) error { return p.line(t) }
func (p *printer) VisitHome(t *Home) error             { return p.line(t) }
func (p *printer) VisitWait(t *Wait) error             { return p.line(t) }
func (p *printer) VisitCalibrate(t *Calibrate) error   { return p.line(t) }
func (p *printer) VisitRaw(t *Raw) error               { return p.line(t) }

func (p *printer) VisitComposite(t *Composite) error {
	if err := p.line(t); err != nil {
		return err
	}
	p.depth++
	defer func() { p.depth-- }()
	return t.Each(p)
}
