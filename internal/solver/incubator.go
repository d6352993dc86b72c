package solver

import "fmt"

// maxIncubatorUses is the number of eggs a bounded incubator can hold.
const maxIncubatorUses = 3

// Incubator is a carrier that eggs are walked in.
type Incubator interface {
	// CanUse reports whether another egg can be placed.
	CanUse() bool
	// Use places the egg and marks it hatched.
	Use(egg *Egg) error
	// TotalDistance is the sum of the distances of the held eggs.
	TotalDistance() int
	// Eggs returns the held eggs in insertion order.
	Eggs() []*Egg
}

type boundedIncubator struct {
	eggs [maxIncubatorUses]*Egg
	used int
}

// NewIncubator returns an empty incubator limited to three eggs.
func NewIncubator() Incubator {
	return &boundedIncubator{}
}

func (b *boundedIncubator) CanUse() bool {
	return b.used < maxIncubatorUses
}

func (b *boundedIncubator) Use(egg *Egg) error {
	if !b.CanUse() {
		return ErrIncubatorFull
	}
	if err := egg.hatch(); err != nil {
		return err
	}
	b.eggs[b.used] = egg
	b.used++
	return nil
}

func (b *boundedIncubator) TotalDistance() int {
	return sumDistances(b.eggs[:b.used])
}

func (b *boundedIncubator) Eggs() []*Egg {
	out := make([]*Egg, b.used)
	copy(out, b.eggs[:b.used])
	return out
}

func (b *boundedIncubator) String() string {
	return fmt.Sprintf("incubator(eggs=%d, distance=%d)", b.used, b.TotalDistance())
}

// InfiniteIncubator never runs out of uses.
type InfiniteIncubator struct {
	eggs []*Egg
}

// NewInfiniteIncubator returns an empty unlimited incubator.
func NewInfiniteIncubator() *InfiniteIncubator {
	return &InfiniteIncubator{}
}

// CanUse is always true.
func (i *InfiniteIncubator) CanUse() bool {
	return true
}

// Use places the egg and marks it hatched.
func (i *InfiniteIncubator) Use(egg *Egg) error {
	if err := egg.hatch(); err != nil {
		return err
	}
	i.eggs = append(i.eggs, egg)
	return nil
}

// TotalDistance is the sum of the distances of the held eggs.
func (i *InfiniteIncubator) TotalDistance() int {
	return sumDistances(i.eggs)
}

// Eggs returns the held eggs in insertion order.
func (i *InfiniteIncubator) Eggs() []*Egg {
	out := make([]*Egg, len(i.eggs))
	copy(out, i.eggs)
	return out
}

// absorb moves eggs that were already hatched elsewhere into this incubator.
func (i *InfiniteIncubator) absorb(eggs []*Egg) {
	i.eggs = append(i.eggs, eggs...)
}

func (i *InfiniteIncubator) String() string {
	return fmt.Sprintf("infinite incubator(eggs=%d, distance=%d)", len(i.eggs), i.TotalDistance())
}

func sumDistances(eggs []*Egg) int {
	total := 0
	for _, egg := range eggs {
		total += int(egg.distance)
	}
	return total
}

func distancesOf(eggs []*Egg) []Distance {
	out := make([]Distance, 0, len(eggs))
	for _, egg := range eggs {
		out = append(out, egg.distance)
	}
	return out
}
