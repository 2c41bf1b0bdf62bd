package plate

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/mastercactapus/pipetbot/coord"
	"github.com/mastercactapus/pipetbot/meshlevel"
)

// Registry holds every plate on the deck.
type Registry struct {
	mx     sync.RWMutex
	plates []*Plate

	deck         meshlevel.ZOffsetter
	surfaceZ     float64
	calibratedAt time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// AddPlate creates a plate, builds its wells, and adds it to the registry.
func (r *Registry) AddPlate(name string, o Ordering, corner coord.Point, s Specs) (*Plate, error) {
	p, err := New(name, o, corner, s)
	if err != nil {
		return nil, err
	}

	r.mx.Lock()
	defer r.mx.Unlock()
	for _, existing := range r.plates {
		if existing.name == p.name {
			return nil, configErrorf(p.name, "a plate with this name already exists")
		}
	}
	r.plates = append(r.plates, p)
	return p, nil
}

// Plate returns the named plate.
func (r *Registry) Plate(name string) (*Plate, error) {
	r.mx.RLock()
	defer r.mx.RUnlock()
	for _, p := range r.plates {
		if p.name == name {
			return p, nil
		}
	}
	return nil, &Error{Kind: ErrPlateNotFound, Plate: name}
}

// Plates returns the plates in the order they were added.
func (r *Registry) Plates() []*Plate {
	r.mx.RLock()
	defer r.mx.RUnlock()
	res := make([]*Plate, len(r.plates))
	copy(res, r.plates)
	return res
}

// RemovePlate takes the named plate off the deck.
func (r *Registry) RemovePlate(name string) error {
	r.mx.Lock()
	defer r.mx.Unlock()
	for i, p := range r.plates {
		if p.name == name {
			r.plates = append(r.plates[:i], r.plates[i+1:]...)
			return nil
		}
	}
	return &Error{Kind: ErrPlateNotFound, Plate: name}
}

// SetSurfaceZ sets the probe height that counts as Z=0 when leveling.
func (r *Registry) SetSurfaceZ(z float64) {
	r.mx.Lock()
	r.surfaceZ = z
	r.mx.Unlock()
}

// Clear removes all plates.
func (r *Registry) Clear() {
	r.mx.Lock()
	r.plates = nil
	r.mx.Unlock()
}

// Resolve returns the absolute location of a well.
//
// If plateName is empty every plate is searched in the order added and the
// first match wins. On failure coord.NotFound is returned with an error
// wrapping ErrPlateNotFound or ErrWellNotFound.
func (r *Registry) Resolve(plateName, wellID string) (coord.Point, error) {
	w, err := r.find(plateName, wellID)
	if err != nil {
		log.Println("ERROR: resolve:", err)
		return coord.NotFound, err
	}
	return r.level(w.AbsoluteLocation()), nil
}

// Capacity returns the volume a well holds.
func (r *Registry) Capacity(plateName, wellID string) (float64, error) {
	w, err := r.find(plateName, wellID)
	if err != nil {
		return 0, err
	}
	return w.Capacity(), nil
}

func (r *Registry) find(plateName, wellID string) (*Well, error) {
	if plateName != "" {
		p, err := r.Plate(plateName)
		if err != nil {
			return nil, err
		}
		return p.Well(wellID)
	}

	for _, p := range r.Plates() {
		w, err := p.Well(wellID)
		if errors.Is(err, ErrWellNotFound) {
			continue
		}
		return w, err
	}
	return nil, &Error{Kind: ErrWellNotFound, Well: wellID}
}

func (r *Registry) level(p coord.Point) coord.Point {
	r.mx.RLock()
	deck := r.deck
	r.mx.RUnlock()
	if deck == nil {
		return p
	}
	if ok, z := deck.OffsetZ(p.X, p.Y); ok {
		p.Z = z
	}
	return p
}

// Calibrate is called when the controller reports a finished calibration.
//
// With at least 3 probe points the deck is leveled and resolved wells carry a
// Z height interpolated from the probes. Fewer points give a flat deck at
// their mean height.
func (r *Registry) Calibrate(probes []coord.Point) error {
	r.mx.RLock()
	surface := r.surfaceZ
	r.mx.RUnlock()
	probes = meshlevel.OffsetFrom(surface, probes)

	var deck meshlevel.ZOffsetter
	switch {
	case len(probes) >= 3:
		mesh, err := meshlevel.NewMesh(probes)
		if err != nil {
			return err
		}
		deck = mesh
	case len(probes) > 0:
		var sum float64
		for _, p := range probes {
			sum += p.Z
		}
		deck = meshlevel.Flat{Z: sum / float64(len(probes))}
	}

	r.mx.Lock()
	r.deck = deck
	r.calibratedAt = time.Now()
	r.mx.Unlock()
	log.Printf("Calibration finished (%d probe points).", len(probes))
	return nil
}

// Calibrated reports when the deck was last calibrated, if ever.
func (r *Registry) Calibrated() (bool, time.Time) {
	r.mx.RLock()
	defer r.mx.RUnlock()
	return !r.calibratedAt.IsZero(), r.calibratedAt
}
