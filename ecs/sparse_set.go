package ecs

// componentStore is the type-erased view the world uses to drop components
// of destroyed entities.
type componentStore interface {
	remove(e Entity) bool
	has(e Entity) bool
}

// sparseSet is a cache-friendly storage for one component type keyed by
// entity id. Values are stored as pointers so systems can mutate in place.
type sparseSet[T any] struct {
	dense  []Entity
	values []*T
	sparse []int
}

func (s *sparseSet[T]) index(e Entity) (int, bool) {
	id := int(e.id())
	if s == nil || id <= 0 || id-1 >= len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[id-1]
	if idx < 0 || idx >= len(s.dense) || s.dense[idx] != e {
		return 0, false
	}
	return idx, true
}

func (s *sparseSet[T]) has(e Entity) bool {
	_, ok := s.index(e)
	return ok
}

func (s *sparseSet[T]) get(e Entity) (*T, bool) {
	idx, ok := s.index(e)
	if !ok {
		return nil, false
	}
	return s.values[idx], true
}

func (s *sparseSet[T]) set(e Entity, v *T) {
	if idx, ok := s.index(e); ok {
		s.values[idx] = v
		return
	}
	id := int(e.id())
	for id-1 >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	// a stale generation may still occupy the slot
	if old := s.sparse[id-1]; old >= 0 && old < len(s.dense) && s.dense[old].id() == e.id() {
		s.remove(s.dense[old])
	}
	s.dense = append(s.dense, e)
	s.values = append(s.values, v)
	s.sparse[id-1] = len(s.dense) - 1
}

func (s *sparseSet[T]) remove(e Entity) bool {
	idx, ok := s.index(e)
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	moved := s.dense[last]

	s.dense[idx] = moved
	s.values[idx] = s.values[last]
	s.sparse[moved.id()-1] = idx

	s.dense = s.dense[:last]
	s.values[last] = nil
	s.values = s.values[:last]
	s.sparse[e.id()-1] = -1
	return true
}

// snapshot returns a copy of the dense entity list so callers may add or
// remove components while iterating.
func (s *sparseSet[T]) snapshot() []Entity {
	if s == nil || len(s.dense) == 0 {
		return nil
	}
	return append([]Entity(nil), s.dense...)
}
