package solver

// Egg is a single egg waiting for an incubator. The distance never changes;
// the hatched flag flips once, when an incubator accepts the egg.
type Egg struct {
	distance Distance
	hatched  bool
}

// NewEgg creates an unhatched egg of the given distance.
func NewEgg(distance Distance) *Egg {
	return &Egg{distance: distance}
}

// EggsFrom builds one unhatched egg per distance, preserving order.
func EggsFrom(distances []Distance) []*Egg {
	eggs := make([]*Egg, 0, len(distances))
	for _, d := range distances {
		eggs = append(eggs, NewEgg(d))
	}
	return eggs
}

// Distance reports the walking distance of the egg.
func (e *Egg) Distance() Distance {
	return e.distance
}

// Hatched reports whether an incubator has accepted the egg.
func (e *Egg) Hatched() bool {
	return e.hatched
}

func (e *Egg) hatch() error {
	if e.hatched {
		return ErrAlreadyHatched
	}
	e.hatched = true
	return nil
}
