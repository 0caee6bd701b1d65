package entity

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
)

// NewWall builds a static block with from and to as opposite corners.
func NewWall(w *ecs.World, from, to mgl64.Vec2) (ecs.Entity, error) {
	width := math.Abs(to.X() - from.X())
	height := math.Abs(to.Y() - from.Y())
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("wall: degenerate block %v to %v", from, to)
	}

	entity, err := BuildEntity(w, "wall.yaml")
	if err != nil {
		return 0, err
	}
	center := from.Add(to).Mul(0.5)
	if err := SetEntityTransform(w, entity, center.X(), center.Y(), 0); err != nil {
		return 0, fmt.Errorf("wall: override transform: %w", err)
	}
	body, ok := ecs.Get(w, entity, component.PhysicsBodyComponent.Kind())
	if !ok {
		return 0, fmt.Errorf("wall: prefab has no physics body")
	}
	body.Width = width
	body.Height = height
	return entity, nil
}
