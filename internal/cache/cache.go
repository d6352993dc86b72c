// Package cache memoises solving results. Solve is a pure function of the walk
// and the ordered egg distances, so identical requests can share a result.
package cache

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/eugenenazirov/eggsolve/internal/metrics"
	"github.com/eugenenazirov/eggsolve/internal/solver"
)

// Solver wraps a solver.Solver with an LRU cache of results.
type Solver struct {
	next    solver.Solver
	cache   *lru.Cache
	metrics *metrics.Metrics
}

// New returns a caching Solver holding up to size results. size must be > 0.
// m may be nil.
func New(next solver.Solver, size int, m *metrics.Metrics) (*Solver, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Solver{next: next, cache: cache, metrics: m}, nil
}

// Solve returns a cached copy of the result for walk and eggs, computing it on a miss.
// Errors are not cached.
func (s *Solver) Solve(walk solver.Distance, eggs []*solver.Egg) (solver.Result, error) {
	result, _, err := s.SolveCached(walk, eggs)
	return result, err
}

// SolveCached is Solve, additionally reporting whether the result came from the cache.
// On a hit the eggs are left untouched.
func (s *Solver) SolveCached(walk solver.Distance, eggs []*solver.Egg) (solver.Result, bool, error) {
	k := key(walk, eggs)
	if v, ok := s.cache.Get(k); ok {
		s.observe(metrics.Hit)
		return v.(solver.Result).Clone(), true, nil
	}
	s.observe(metrics.Miss)

	result, err := s.next.Solve(walk, eggs)
	if err != nil {
		return solver.Result{}, false, err
	}
	s.cache.Add(k, result.Clone())
	return result, false, nil
}

// Len returns the number of cached results.
func (s *Solver) Len() int {
	return s.cache.Len()
}

func (s *Solver) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.CacheLookupsTotal.WithLabelValues(outcome).Inc()
	}
}

func key(walk solver.Distance, eggs []*solver.Egg) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(walk)))
	b.WriteByte('|')
	for i, egg := range eggs {
		if i > 0 {
			b.WriteByte(',')
		}
		if egg.Hatched() {
			b.WriteByte('h')
		}
		b.WriteString(strconv.Itoa(int(egg.Distance())))
	}
	return b.String()
}
