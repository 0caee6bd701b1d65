package ecs

import "github.com/milk9111/sideeffect/ecs/component"

// World owns entities, component stores and the per-tick event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]componentStore
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]componentStore)}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity removes every component of e and marks the handle dead.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity in id order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *sparseSet[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]componentStore)
	}
	raw, ok := w.stores[kind.ID()]
	if !ok {
		if !create {
			return nil
		}
		s := &sparseSet[T]{}
		w.stores[kind.ID()] = s
		return s
	}
	s, ok := raw.(*sparseSet[T])
	if !ok {
		panic("ecs: component id registered with a different type")
	}
	return s
}
