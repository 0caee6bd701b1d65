package entity

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
	"github.com/milk9111/sideeffect/levels"
	"github.com/milk9111/sideeffect/prefabs"
)

// LoadLevelToWorld fills an empty world with the level's bounds, physics
// setup, walls and entities.
func LoadLevelToWorld(world *ecs.World, lvl *levels.Level) error {
	if world == nil || lvl == nil {
		return fmt.Errorf("load level: world and level are required")
	}

	boundsEntity := ecs.CreateEntity(world)
	if err := ecs.Add(world, boundsEntity, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		MinX:      lvl.Bounds.Min.X,
		MinY:      lvl.Bounds.Min.Y,
		MaxX:      lvl.Bounds.Max.X,
		MaxY:      lvl.Bounds.Max.Y,
		ViewRange: lvl.Bounds.ViewRange,
	}); err != nil {
		return err
	}

	cfg, err := physicsConfigFor(lvl)
	if err != nil {
		return err
	}
	if err := ecs.Add(world, boundsEntity, component.PhysicsConfigComponent.Kind(), &cfg); err != nil {
		return err
	}

	for i, wall := range lvl.Walls {
		from := mgl64.Vec2{wall.From.X, wall.From.Y}
		to := mgl64.Vec2{wall.To.X, wall.To.Y}
		if _, err := NewWall(world, from, to); err != nil {
			return fmt.Errorf("load level: wall %d: %w", i, err)
		}
	}

	for i, ent := range lvl.Entities {
		pos := mgl64.Vec2{ent.X, ent.Y}
		switch strings.ToLower(ent.Type) {
		case "player":
			if _, err := NewPlayerAt(world, pos, uint32(ent.Float("id", 0))); err != nil {
				return fmt.Errorf("load level: entity %d: %w", i, err)
			}
		case "bonus":
			effect, err := component.ParseSideEffect(ent.String("effect", ""))
			if err != nil {
				return fmt.Errorf("load level: entity %d: %w", i, err)
			}
			if _, err := NewBonusAt(world, pos, effect); err != nil {
				return fmt.Errorf("load level: entity %d: %w", i, err)
			}
		case "monster":
			if _, err := NewMonsterAt(world, pos, ent.Float("direction", 1)); err != nil {
				return fmt.Errorf("load level: entity %d: %w", i, err)
			}
		default:
			return fmt.Errorf("load level: entity %d: unknown type %q", i, ent.Type)
		}
	}

	return nil
}

func physicsConfigFor(lvl *levels.Level) (component.PhysicsConfig, error) {
	spec, err := prefabs.LoadPhysicsSpec()
	if err != nil {
		return component.PhysicsConfig{}, fmt.Errorf("load level: %w", err)
	}
	cfg := component.PhysicsConfig{Gravity: spec.Gravity.Vec(), Iterations: spec.Iterations}
	if lvl.Physics != nil {
		if lvl.Physics.Gravity != nil {
			cfg.Gravity = mgl64.Vec2{lvl.Physics.Gravity.X, lvl.Physics.Gravity.Y}
		}
		if lvl.Physics.Iterations > 0 {
			cfg.Iterations = lvl.Physics.Iterations
		}
	}
	return cfg, nil
}
