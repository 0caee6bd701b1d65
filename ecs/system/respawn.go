package system

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
)

// respawnMargin is how far past the level bounds a player may travel before
// it is sent back.
const respawnMargin = 2.0

type RespawnSystem struct{}

func NewRespawnSystem() *RespawnSystem { return &RespawnSystem{} }

// Update returns players that left the level bounds to their spawn point.
// It runs after the PhysicsSystem so the bounds check sees this tick's pose.
func (s *RespawnSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	bounds, ok := ecs.Singleton(w, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}

	ecs.ForEach3(w, component.PlayerComponent.Kind(), component.SpawnPointComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Player, spawn *component.SpawnPoint, t *component.Transform) {
		if inBounds(*bounds, t.X, t.Y, respawnMargin) {
			return
		}
		log.Printf("respawn: player %d left the level at (%.2f, %.2f)", p.ID, t.X, t.Y)

		t.X = spawn.X
		t.Y = spawn.Y
		t.Rotation = 0
		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
			body.Body.SetPosition(cp.Vector{X: spawn.X, Y: spawn.Y})
			body.Body.SetAngle(0)
			body.Body.SetVelocityVector(cp.Vector{})
			body.Body.SetAngularVelocity(0)
		}
	})
}

func inBounds(b component.LevelBounds, x, y, margin float64) bool {
	return x >= b.MinX-margin && x <= b.MaxX+margin && y >= b.MinY-margin && y <= b.MaxY+margin
}
