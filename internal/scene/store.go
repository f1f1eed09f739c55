package scene

import (
	"sort"
	"sync"

	"github.com/san-kum/chainsim/internal/dynamo"
)

// Store is a generic container for one component type T.
// Uses the sparse set pattern for cache-friendly iteration.
type Store[T any] struct {
	mu         sync.RWMutex
	components map[dynamo.Entity]T
	entities   []dynamo.Entity
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		components: make(map[dynamo.Entity]T),
		entities:   make([]dynamo.Entity, 0, 64),
	}
}

// Set inserts or replaces the component for e.
func (s *Store[T]) Set(e dynamo.Entity, val T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.components[e]; !exists {
		s.entities = append(s.entities, e)
	}
	s.components[e] = val
}

func (s *Store[T]) Get(e dynamo.Entity) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.components[e]
	return val, ok
}

// Update applies fn to e's component in place. Reports whether e had one.
func (s *Store[T]) Update(e dynamo.Entity, fn func(*T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.components[e]
	if !ok {
		return false
	}
	fn(&val)
	s.components[e] = val
	return true
}

func (s *Store[T]) Remove(e dynamo.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.components[e]; !exists {
		return
	}
	delete(s.components, e)
	for i, entity := range s.entities {
		if entity == e {
			s.entities[i] = s.entities[len(s.entities)-1]
			s.entities = s.entities[:len(s.entities)-1]
			break
		}
	}
}

func (s *Store[T]) Has(e dynamo.Entity) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.components[e]
	return ok
}

// Entities returns the holders of this component in ascending order.
func (s *Store[T]) Entities() []dynamo.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]dynamo.Entity, len(s.entities))
	copy(out, s.entities)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}
