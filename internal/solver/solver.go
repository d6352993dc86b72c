package solver

import (
	"fmt"

	"go.uber.org/zap"
)

type greedySolver struct {
	logger *zap.Logger
}

// Option configures the solver.
type Option func(*greedySolver)

// WithLogger traces the allocation decisions at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(s *greedySolver) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Solver that fills bounded incubators greedily, sized by the
// longest egg that fits the walk, and pours the rest into an infinite incubator.
func New(opts ...Option) Solver {
	s := &greedySolver{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *greedySolver) Solve(walk Distance, eggs []*Egg) (Result, error) {
	feasible, infeasible := partition(walk, eggs)
	if len(feasible) == 0 {
		return Result{}, ErrNoFeasibleEggs
	}

	longest := longestWalk(feasible)
	s.logger.Debug("partitioned eggs",
		zap.Int("walk", int(walk)),
		zap.Int("longest_egg", longest),
		zap.Int("feasible", len(feasible)),
		zap.Int("infeasible", len(infeasible)),
	)

	var incubators []Incubator
	for _, egg := range feasible {
		if egg.Hatched() {
			continue
		}
		target := s.pickIncubator(incubators, egg, longest)
		if target == nil {
			target = NewIncubator()
			incubators = append(incubators, target)
			s.logger.Debug("opened incubator", zap.Int("egg", int(egg.distance)), zap.Int("incubators", len(incubators)))
		}
		mustUse(target, egg)
	}

	infinite := NewInfiniteIncubator()
	for _, egg := range feasible {
		if egg.Hatched() {
			continue
		}
		if infinite.TotalDistance() >= int(walk) {
			break
		}
		mustUse(infinite, egg)
	}

	if infinite.TotalDistance() < int(walk) {
		incubators = s.salvage(walk, infinite, incubators)
	}

	return buildResult(feasible, infeasible, infinite, incubators), nil
}

// pickIncubator returns the incubator that egg should join, or nil if a new one is needed.
// An incubator that the egg fills to exactly the longest walk wins; otherwise the
// least loaded candidate does.
func (s *greedySolver) pickIncubator(incubators []Incubator, egg *Egg, longest int) Incubator {
	var (
		lightest Incubator
		totals   []int
	)
	for _, inc := range incubators {
		if !inc.CanUse() {
			continue
		}
		total := inc.TotalDistance()
		if total+int(egg.distance) > longest {
			continue
		}
		totals = append(totals, total)
		if total+int(egg.distance) == longest {
			s.logger.Debug("perfect fill", zap.Int("egg", int(egg.distance)), zap.Ints("candidates", totals))
			return inc
		}
		if lightest == nil || total < lightest.TotalDistance() {
			lightest = inc
		}
	}
	if lightest != nil {
		s.logger.Debug("lightest fill", zap.Int("egg", int(egg.distance)), zap.Ints("candidates", totals))
	}
	return lightest
}

// salvage merges the fullest incubator that still fits the walk into the
// infinite incubator.
func (s *greedySolver) salvage(walk Distance, infinite *InfiniteIncubator, incubators []Incubator) []Incubator {
	best := -1
	for idx, inc := range incubators {
		if inc.TotalDistance()+infinite.TotalDistance() > int(walk) {
			continue
		}
		if best == -1 || len(inc.Eggs()) > len(incubators[best].Eggs()) {
			best = idx
		}
	}
	if best == -1 {
		return incubators
	}

	merged := incubators[best]
	infinite.absorb(merged.Eggs())
	s.logger.Debug("merged incubator into infinite incubator",
		zap.Int("index", best),
		zap.Int("eggs", len(merged.Eggs())),
		zap.Int("infinite_distance", infinite.TotalDistance()),
	)

	out := make([]Incubator, 0, len(incubators)-1)
	out = append(out, incubators[:best]...)
	return append(out, incubators[best+1:]...)
}

func partition(walk Distance, eggs []*Egg) (feasible, infeasible []*Egg) {
	for _, egg := range eggs {
		if egg.distance <= walk {
			feasible = append(feasible, egg)
		} else {
			infeasible = append(infeasible, egg)
		}
	}
	return feasible, infeasible
}

func longestWalk(eggs []*Egg) int {
	longest := int(eggs[0].distance)
	for _, egg := range eggs[1:] {
		if int(egg.distance) > longest {
			longest = int(egg.distance)
		}
	}
	return longest
}

func buildResult(feasible, infeasible []*Egg, infinite *InfiniteIncubator, incubators []Incubator) Result {
	result := Result{
		InfiniteDistances:   distancesOf(infinite.Eggs()),
		IncubatorDistances:  make([][]Distance, 0, len(incubators)),
		InfeasibleDistances: distancesOf(infeasible),
	}
	for _, inc := range incubators {
		result.IncubatorDistances = append(result.IncubatorDistances, distancesOf(inc.Eggs()))
	}
	for _, egg := range feasible {
		if !egg.Hatched() {
			result.InfeasibleDistances = append(result.InfeasibleDistances, egg.distance)
		}
	}
	return result
}

// mustUse panics when the solver tries to overfill an incubator or hatch an egg twice.
func mustUse(inc Incubator, egg *Egg) {
	if err := inc.Use(egg); err != nil {
		panic(fmt.Sprintf("solver invariant violated placing %s egg into %v: %v", egg.distance, inc, err))
	}
}
