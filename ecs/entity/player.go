package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
	"github.com/milk9111/sideeffect/prefabs"
)

const playerPrefab = "player.yaml"

// NewPlayerAt builds a player with its four edges and remembers pos as the
// respawn point.
func NewPlayerAt(w *ecs.World, pos mgl64.Vec2, id uint32) (ecs.Entity, error) {
	entity, err := BuildEntity(w, playerPrefab)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, entity, pos.X(), pos.Y(), 0); err != nil {
		return 0, fmt.Errorf("player: override transform: %w", err)
	}
	if p, ok := ecs.Get(w, entity, component.PlayerComponent.Kind()); ok {
		p.ID = id
	}
	if err := ecs.Add(w, entity, component.SpawnPointComponent.Kind(), &component.SpawnPoint{X: pos.X(), Y: pos.Y()}); err != nil {
		return 0, fmt.Errorf("player: add spawn point: %w", err)
	}
	return entity, nil
}

// ReloadPlayerTuning re-reads the player prefab and replaces the tuning of
// every player in the world.
func ReloadPlayerTuning(w *ecs.World) error {
	spec, err := prefabs.LoadEntityBuildSpec(playerPrefab)
	if err != nil {
		return fmt.Errorf("player: reload tuning: %w", err)
	}
	tuning, err := decodeTuning(spec.Components["player_tuning"])
	if err != nil {
		return fmt.Errorf("player: reload tuning: %w", err)
	}

	var players []ecs.Entity
	ecs.ForEach(w, component.PlayerComponent.Kind(), func(e ecs.Entity, _ *component.Player) {
		players = append(players, e)
	})
	for _, e := range players {
		t := tuning
		if err := ecs.Add(w, e, component.PlayerTuningComponent.Kind(), &t); err != nil {
			return fmt.Errorf("player: reload tuning: %w", err)
		}
	}
	return nil
}
