package solver

import "strconv"

// Distance is the walking distance, in kilometres, an egg needs before it hatches.
type Distance int

// Distance classes accepted by the default deployment.
const (
	TwoKM  Distance = 2
	FiveKM Distance = 5
	TenKM  Distance = 10
)

func (d Distance) String() string {
	return strconv.Itoa(int(d)) + "km"
}

// Result is the outcome of a single Solve run.
// InfiniteDistances holds the eggs walked in the unlimited incubator,
// IncubatorDistances holds one entry per surviving bounded incubator in creation
// order, and InfeasibleDistances holds eggs that could not be placed.
type Result struct {
	InfiniteDistances   []Distance
	IncubatorDistances  [][]Distance
	InfeasibleDistances []Distance
}

// TotalEggs returns the number of eggs accounted for across all groupings.
func (r Result) TotalEggs() int {
	total := len(r.InfiniteDistances) + len(r.InfeasibleDistances)
	for _, group := range r.IncubatorDistances {
		total += len(group)
	}
	return total
}

// Clone returns a deep copy so callers can hand results out without sharing slices.
func (r Result) Clone() Result {
	out := Result{
		InfiniteDistances:   cloneDistances(r.InfiniteDistances),
		IncubatorDistances:  make([][]Distance, len(r.IncubatorDistances)),
		InfeasibleDistances: cloneDistances(r.InfeasibleDistances),
	}
	for i, group := range r.IncubatorDistances {
		out.IncubatorDistances[i] = cloneDistances(group)
	}
	return out
}

// Solver describes the behaviour required from an egg allocator.
type Solver interface {
	Solve(walk Distance, eggs []*Egg) (Result, error)
}

func cloneDistances(src []Distance) []Distance {
	out := make([]Distance, len(src))
	copy(out, src)
	return out
}
