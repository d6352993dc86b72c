package storage

import (
	"errors"
	"slices"
	"sync"

	"github.com/eugenenazirov/eggsolve/internal/solver"
)

const maxDistances = 10

var (
	// ErrInvalidDistances indicates the provided distance classes violate validation rules.
	ErrInvalidDistances = errors.New("distances must contain between 1 and 10 positive integers")
)

var defaultDistances = []solver.Distance{solver.TwoKM, solver.FiveKM, solver.TenKM}

// Storage provides access to the distance classes the service accepts.
type Storage interface {
	GetDistances() ([]solver.Distance, error)
	SetDistances(distances []solver.Distance) error
	IsAdmissible(distance solver.Distance) bool
}

// MemoryStorage keeps distance classes in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu        sync.RWMutex
	distances []solver.Distance
}

// NewMemoryStorage initialises storage with a copy of the default distance classes.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		distances: cloneAndSort(defaultDistances),
	}
}

// DefaultDistances returns a copy of the default distance classes.
func DefaultDistances() []solver.Distance {
	return cloneAndSort(defaultDistances)
}

// GetDistances returns a defensive copy of the currently accepted distance classes.
func (s *MemoryStorage) GetDistances() ([]solver.Distance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAndSort(s.distances), nil
}

// SetDistances validates, normalises, and stores the provided distance classes.
func (s *MemoryStorage) SetDistances(distances []solver.Distance) error {
	normalized, err := normalizeDistances(distances)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.distances = normalized
	s.mu.Unlock()

	return nil
}

// IsAdmissible reports whether distance is one of the accepted classes.
func (s *MemoryStorage) IsAdmissible(distance solver.Distance) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, found := slices.BinarySearch(s.distances, distance)
	return found
}

func cloneAndSort(src []solver.Distance) []solver.Distance {
	if len(src) == 0 {
		return []solver.Distance{}
	}

	out := slices.Clone(src)
	slices.Sort(out)
	return out
}

func normalizeDistances(distances []solver.Distance) ([]solver.Distance, error) {
	if len(distances) == 0 {
		return nil, ErrInvalidDistances
	}

	unique := make(map[solver.Distance]struct{}, len(distances))
	for _, d := range distances {
		if d <= 0 {
			return nil, ErrInvalidDistances
		}
		unique[d] = struct{}{}
		if len(unique) > maxDistances {
			return nil, ErrInvalidDistances
		}
	}

	out := make([]solver.Distance, 0, len(unique))
	for d := range unique {
		out = append(out, d)
	}
	slices.Sort(out)
	return out, nil
}
