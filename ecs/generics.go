package ecs

import "github.com/milk9111/sideeffect/ecs/component"

func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	storeFor(w, kind, true).set(e, value)
	return nil
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s := storeFor(w, kind, false)
	if s == nil {
		return false
	}
	return s.remove(e)
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s := storeFor(w, kind, false)
	return s != nil && s.has(e)
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	s := storeFor(w, kind, false)
	if s == nil {
		return nil, false
	}
	return s.get(e)
}

// First returns the first live entity holding kind. Useful for singletons.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	s := storeFor(w, kind, false)
	if s == nil || len(s.dense) == 0 {
		return 0, false
	}
	return s.dense[0], true
}

// Singleton returns the value of the first entity holding kind.
func Singleton[T any](w *World, kind component.ComponentKind[T]) (*T, bool) {
	e, ok := First(w, kind)
	if !ok {
		return nil, false
	}
	return Get(w, e, kind)
}

func ForEach[A any](w *World, ka component.ComponentKind[A], fn func(Entity, *A)) {
	sa := storeFor(w, ka, false)
	for _, e := range sa.snapshot() {
		a, ok := sa.get(e)
		if !ok {
			continue
		}
		fn(e, a)
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa := storeFor(w, ka, false)
	sb := storeFor(w, kb, false)
	if sa == nil || sb == nil {
		return
	}
	for _, e := range sa.snapshot() {
		a, ok := sa.get(e)
		if !ok {
			continue
		}
		b, ok := sb.get(e)
		if !ok {
			continue
		}
		fn(e, a, b)
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sc := storeFor(w, kc, false)
	if sc == nil {
		return
	}
	ForEach2(w, ka, kb, func(e Entity, a *A, b *B) {
		c, ok := sc.get(e)
		if !ok {
			return
		}
		fn(e, a, b, c)
	})
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	sd := storeFor(w, kd, false)
	if sd == nil {
		return
	}
	ForEach3(w, ka, kb, kc, func(e Entity, a *A, b *B, c *C) {
		d, ok := sd.get(e)
		if !ok {
			return
		}
		fn(e, a, b, c, d)
	})
}
