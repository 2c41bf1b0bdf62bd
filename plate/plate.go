// Package plate models the plates on the deck and the addressing of their wells.
package plate

import (
	"log"
	"strings"
	"sync"

	"github.com/mastercactapus/pipetbot/coord"
)

// Plate is a named plate placed on the deck.
type Plate struct {
	name     string
	ordering Ordering
	specs    Specs

	mx     sync.RWMutex
	corner coord.Point

	wells Dispatcher
}

// New creates a plate and builds its wells immediately.
func New(name string, o Ordering, corner coord.Point, s Specs) (*Plate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, configErrorf("", "plate name is required")
	}
	positions, err := BuildWells(o, s)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.Plate = name
		}
		return nil, err
	}

	p := &Plate{
		name:     name,
		ordering: o,
		specs:    s,
		corner:   corner,
	}
	for _, pos := range positions {
		p.wells.Register(&Well{
			plate:    p,
			id:       pos.ID,
			col:      pos.Col,
			row:      pos.Row,
			offset:   pos.Offset,
			diameter: s.WellDiameter,
		})
	}

	return p, nil
}

func (p *Plate) Name() string       { return p.name }
func (p *Plate) Ordering() Ordering { return p.ordering }
func (p *Plate) Specs() Specs       { return p.specs }

// Corner returns the top-left corner of the plate on the deck.
func (p *Plate) Corner() coord.Point {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.corner
}

// MoveTo relocates the plate. Well locations follow automatically.
func (p *Plate) MoveTo(corner coord.Point) {
	p.mx.Lock()
	p.corner = corner
	p.mx.Unlock()
}

// ForEachWell applies fn to every well in labeling order.
func (p *Plate) ForEachWell(fn func(*Well)) { p.wells.ForEach(fn) }

// NumWells returns the well count.
func (p *Plate) NumWells() int { return p.wells.Len() }

// Well looks up a well by identifier.
func (p *Plate) Well(id string) (*Well, error) {
	var found *Well
	p.wells.ForEach(func(w *Well) {
		if found == nil && w.id == id {
			found = w
		}
	})
	if found == nil {
		return nil, &Error{Kind: ErrWellNotFound, Plate: p.name, Well: id}
	}
	return found, nil
}

// WellLocation returns the absolute location of a well.
//
// If no well matches, coord.NotFound is returned with ErrWellNotFound.
func (p *Plate) WellLocation(id string) (coord.Point, error) {
	w, err := p.Well(id)
	if err != nil {
		log.Println("ERROR: locate well:", err)
		return coord.NotFound, err
	}
	return w.AbsoluteLocation(), nil
}
