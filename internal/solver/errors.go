package solver

import "errors"

var (
	// ErrNoFeasibleEggs is returned when no egg fits within the walking distance.
	ErrNoFeasibleEggs = errors.New("no egg can be hatched within the walking distance")
	// ErrIncubatorFull is returned when an egg is placed into a bounded incubator with no free slot.
	ErrIncubatorFull = errors.New("incubator has no free slot")
	// ErrAlreadyHatched is returned when an egg is hatched a second time.
	ErrAlreadyHatched = errors.New("egg is already hatched")
)
