package task

import (
	"fmt"
	"sort"
)

type binder struct {
	vars    map[string]float64
	missing map[string]bool
}

var _ Visitor = &binder{}

// Bind substitutes every placeholder in t that has a value in vars.
//
// Placeholders without a value are left as-is and reported together in the
// returned error, which wraps ErrUnbound.
func Bind(t Task, vars map[string]float64) error {
	b := &binder{vars: vars, missing: make(map[string]bool)}
	if err := t.Accept(b); err != nil {
		return err
	}
	if len(b.missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnbound, b.names())
}

// Unbound lists the placeholder names remaining in t, sorted.
func Unbound(t Task) []string {
	b := &binder{missing: make(map[string]bool)}
	_ = Clone(t).Accept(b)
	return b.names()
}

func (b *binder) names() []string {
	if len(b.missing) == 0 {
		return nil
	}
	names := make([]string, 0, len(b.missing))
	for n := range b.missing {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (b *binder) bind(p *Param) {
	if p.Bound() {
		return
	}
	v, ok := b.vars[p.Variable]
	if !ok {
		b.missing[p.Variable] = true
		return
	}
	*p = Literal(v)
}

func (b *binder) VisitDispense(t *Dispense) error {
	b.bind(&t.Volume)
	return nil
}

func (b *binder) VisitMove(t *Move) error {
	b.bind(&t.X)
	b.bind(&t.Y)
	b.bind(&t.Z)
	return nil
}

func (b *binder) VisitWait(t *Wait) error {
	b.bind(&t.Millis)
	return nil
}

func (b *binder) VisitMoveToWell(*MoveToWell) error { return nil }
func (b *binder) VisitHome(*Home) error             { return nil }
func (b *binder) VisitCalibrate(*Calibrate) error   { return nil }
func (b *binder) VisitRaw(*Raw) error               { return nil }
func (b *binder) VisitComposite(t *Composite) error { return t.Each(b) }
