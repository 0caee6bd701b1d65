package ecs

// entityStore tracks entity generations and free ids.
type entityStore struct {
	gens  []generation
	free  []entityID
	alive int
}

func (s *entityStore) create() Entity {
	if n := len(s.free); n > 0 {
		id := s.free[n-1]
		s.free = s.free[:n-1]
		s.alive++
		return makeEntity(id, s.gens[id-1])
	}
	s.gens = append(s.gens, 0)
	s.alive++
	return makeEntity(entityID(len(s.gens)), 0)
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	id := e.id()
	s.gens[id-1]++
	s.free = append(s.free, id)
	s.alive--
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.id()
	if id == 0 || int(id) > len(s.gens) {
		return false
	}
	return s.gens[id-1] == e.generation()
}

func (s *entityStore) all() []Entity {
	out := make([]Entity, 0, s.alive)
	for i, gen := range s.gens {
		e := makeEntity(entityID(i+1), gen)
		if s.isFree(e.id()) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (s *entityStore) isFree(id entityID) bool {
	for _, f := range s.free {
		if f == id {
			return true
		}
	}
	return false
}
