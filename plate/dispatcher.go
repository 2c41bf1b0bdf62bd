package plate

// Dispatcher applies an operation to every well of a plate, in the
// order the wells were registered.
type Dispatcher struct {
	wells []*Well
}

// Register appends w to the dispatch order.
func (d *Dispatcher) Register(w *Well) { d.wells = append(d.wells, w) }

// ForEach calls fn for every registered well.
func (d *Dispatcher) ForEach(fn func(*Well)) {
	for _, w := range d.wells {
		fn(w)
	}
}

// Len returns the number of registered wells.
func (d *Dispatcher) Len() int { return len(d.wells) }
