package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
)

// ProbeHit is the nearest obstacle found by a contact probe. Distance is the
// time of impact along the unit probe direction.
type ProbeHit struct {
	Entity   ecs.Entity
	Distance float64
}

// PhysicsQuery is the read side of the physics engine.
type PhysicsQuery interface {
	// Probe sweeps shape from the pose in from along dir by up to tolerance
	// and reports the nearest solid obstacle, ignoring exclude's own shapes.
	Probe(exclude ecs.Entity, shape component.ProbeShape, dir mgl64.Vec2, from component.Transform, tolerance float64) (ProbeHit, bool)
	Velocity(e ecs.Entity) (linear mgl64.Vec2, angular float64)
	MassProperties(e ecs.Entity) (mass, inertia float64)
}

// PhysicsMutator accumulates impulses that the engine consumes on its next
// step.
type PhysicsMutator interface {
	ApplyImpulse(e ecs.Entity, impulse, point mgl64.Vec2)
	ApplyTorqueImpulse(e ecs.Entity, torque float64)
}

type Physics interface {
	PhysicsQuery
	PhysicsMutator
}

// EventContact is the event type of ContactEvent payloads.
const EventContact = "contact"

// ContactEvent reports an overlapping entity pair. Started is true on the
// first tick of the overlap only. A is the lower entity handle.
type ContactEvent struct {
	A, B    ecs.Entity
	Started bool
}

// contactEvents returns this tick's contact payloads in arrival order.
func contactEvents(w *ecs.World) []ContactEvent {
	evts := w.Events().Peek(EventContact)
	out := make([]ContactEvent, 0, len(evts))
	for _, evt := range evts {
		if c, ok := evt.Data.(ContactEvent); ok {
			out = append(out, c)
		}
	}
	return out
}

// matchPair orders a contact so that the first entity holds kind a and the
// second holds kind b.
func matchPair[A, B any](w *ecs.World, c ContactEvent, ka component.ComponentKind[A], kb component.ComponentKind[B]) (ecs.Entity, ecs.Entity, bool) {
	if ecs.Has(w, c.A, ka) && ecs.Has(w, c.B, kb) {
		return c.A, c.B, true
	}
	if ecs.Has(w, c.B, ka) && ecs.Has(w, c.A, kb) {
		return c.B, c.A, true
	}
	return 0, 0, false
}

func simDelta(w *ecs.World) float64 {
	clock, ok := ecs.Singleton(w, component.SimClockComponent.Kind())
	if !ok {
		return 0
	}
	return clock.Delta
}

func physicsConfig(w *ecs.World) component.PhysicsConfig {
	if cfg, ok := ecs.Singleton(w, component.PhysicsConfigComponent.Kind()); ok {
		return *cfg
	}
	return component.DefaultPhysicsConfig()
}
