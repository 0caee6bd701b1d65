package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
)

// NewBonusAt places a pickup pad carrying effect. An empty effect is
// rejected since the pad could never be taken.
func NewBonusAt(w *ecs.World, pos mgl64.Vec2, effect component.SideEffect) (ecs.Entity, error) {
	if effect == component.SideEffectNone {
		return 0, fmt.Errorf("bonus: effect is none")
	}
	entity, err := BuildEntity(w, "bonus.yaml")
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, entity, pos.X(), pos.Y(), 0); err != nil {
		return 0, fmt.Errorf("bonus: override transform: %w", err)
	}
	bonus, ok := ecs.Get(w, entity, component.BonusComponent.Kind())
	if !ok {
		return 0, fmt.Errorf("bonus: prefab has no bonus component")
	}
	bonus.Effect = effect
	bonus.Armed = true
	if body, ok := ecs.Get(w, entity, component.PhysicsBodyComponent.Kind()); ok && bonus.Radius > 0 {
		body.Radius = bonus.Radius
	}
	return entity, nil
}
