package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
)

func NewMonsterAt(w *ecs.World, pos mgl64.Vec2, direction float64) (ecs.Entity, error) {
	entity, err := BuildEntity(w, "monster.yaml")
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, entity, pos.X(), pos.Y(), 0); err != nil {
		return 0, fmt.Errorf("monster: override transform: %w", err)
	}
	if m, ok := ecs.Get(w, entity, component.MonsterComponent.Kind()); ok && direction != 0 {
		m.Direction = 1
		if direction < 0 {
			m.Direction = -1
		}
	}
	return entity, nil
}
