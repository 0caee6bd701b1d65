package entity

import (
	"fmt"
	"sort"

	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
	"github.com/milk9111/sideeffect/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player":          addPlayer,
	"input":           addInput,
	"transform":       addTransform,
	"player_tuning":   addPlayerTuning,
	"bonus":           addBonus,
	"monster":         addMonster,
	"wall_tag":        addWallTag,
	"collision_layer": addCollisionLayer,
	"physics_body":    addPhysicsBody,
	"edges":           addEdges,
}

// edges must come after player, it writes the child entities into it.
var componentBuildOrder = []string{
	"player",
	"input",
	"transform",
	"player_tuning",
	"bonus",
	"monster",
	"wall_tag",
	"collision_layer",
	"physics_body",
	"edges",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	names := make([]string, 0, len(remaining))
	for _, name := range componentBuildOrder {
		if _, ok := remaining[name]; ok {
			names = append(names, name)
		}
	}
	var extra []string
	for name := range remaining {
		if _, ok := componentRegistry[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	names = append(names, extra...)

	for _, name := range names {
		builder, ok := componentRegistry[name]
		if !ok {
			destroyBuilt(w, e)
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		if err := builder(w, e, remaining[name], ctx); err != nil {
			destroyBuilt(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}

	return e, nil
}

// destroyBuilt removes a half-built entity along with any edge children.
func destroyBuilt(w *ecs.World, e ecs.Entity) {
	if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok {
		for _, edge := range p.Edges {
			if edge != 0 {
				ecs.DestroyEntity(w, ecs.Entity(edge))
			}
		}
	}
	ecs.DestroyEntity(w, e)
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

type playerSpec = prefabs.PlayerComponentSpec

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[playerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	if len(spec.Effects) > component.EdgeCount {
		return fmt.Errorf("player has %d effects, at most %d edges", len(spec.Effects), component.EdgeCount)
	}

	p := &component.Player{
		// nothing has happened yet, so neither debounce is holding
		SinceSpin: 1,
		SinceJump: 1,
		Probe: component.ProbeShape{
			HalfWidth:  spec.Probe.HalfWidth,
			HalfHeight: spec.Probe.HalfHeight,
			Radius:     spec.Probe.Radius,
		},
	}
	copy(p.Effects[:], spec.Effects)
	return ecs.Add(w, e, component.PlayerComponent.Kind(), p)
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	})
}

type playerTuningSpec = prefabs.PlayerTuningComponentSpec

func addPlayerTuning(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	tuning, err := decodeTuning(raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.PlayerTuningComponent.Kind(), &tuning)
}

// decodeTuning fills unset fields from the defaults so a partial prefab
// still moves.
func decodeTuning(raw any) (component.PlayerTuning, error) {
	spec, err := prefabs.DecodeComponentSpec[playerTuningSpec](raw)
	if err != nil {
		return component.PlayerTuning{}, fmt.Errorf("decode player tuning spec: %w", err)
	}
	t := component.DefaultPlayerTuning()
	setIfPositive(&t.MaxSpeed, spec.MaxSpeed)
	setIfPositive(&t.SlipperyMaxSpeed, spec.SlipperyMaxSpeed)
	setIfPositive(&t.MaxAcceleration, spec.MaxAcceleration)
	setIfPositive(&t.MaxAngularAcceleration, spec.MaxAngularAcceleration)
	setIfPositive(&t.JumpImpulse, spec.JumpImpulse)
	setIfPositive(&t.SpinTorque, spec.SpinTorque)
	setIfPositive(&t.JumpProbeTolerance, spec.JumpProbeTolerance)
	setIfPositive(&t.EdgeProbeTolerance, spec.EdgeProbeTolerance)
	setIfPositive(&t.CoyoteTime, spec.CoyoteTime)
	setIfPositive(&t.FloorStickForce, spec.FloorStickForce)
	setIfPositive(&t.CeilingStickForce, spec.CeilingStickForce)
	setIfPositive(&t.WallStickForce, spec.WallStickForce)
	t.CenterOffset = spec.CenterOffset.Vec()
	return t, nil
}

func setIfPositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

type bonusSpec = prefabs.BonusComponentSpec

func addBonus(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[bonusSpec](raw)
	if err != nil {
		return fmt.Errorf("decode bonus spec: %w", err)
	}
	bonus := component.NewBonus(spec.Effect)
	if spec.Radius > 0 {
		bonus.Radius = spec.Radius
	}
	return ecs.Add(w, e, component.BonusComponent.Kind(), bonus)
}

type monsterSpec = prefabs.MonsterComponentSpec

func addMonster(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[monsterSpec](raw)
	if err != nil {
		return fmt.Errorf("decode monster spec: %w", err)
	}
	patrol := true
	if spec.Patrol != nil {
		patrol = *spec.Patrol
	}
	direction := 1.0
	if spec.Direction < 0 {
		direction = -1
	}
	return ecs.Add(w, e, component.MonsterComponent.Kind(), &component.Monster{
		Patrol:    patrol,
		Direction: direction,
		Speed:     spec.Speed,
		Accel:     spec.Accel,
		Script:    spec.Script,
		Knockback: spec.Knockback,
		Lookahead: spec.Lookahead,
	})
}

func addWallTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.WallTagComponent.Kind(), &component.WallTag{})
}

type collisionLayerSpec = prefabs.CollisionLayerComponentSpec

func addCollisionLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[collisionLayerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collision layer spec: %w", err)
	}
	cat := spec.Category
	mask := spec.Mask
	if cat == 0 {
		cat = component.CategoryWall
	}
	if mask == 0 {
		mask = ^uint32(0)
	}
	return ecs.Add(w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{Category: cat, Mask: mask})
}

type physicsBodySpec = prefabs.PhysicsBodyComponentSpec

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[physicsBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}
	if !spec.Static && spec.Mass == 0 {
		spec.Mass = 1
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:         spec.Width,
		Height:        spec.Height,
		Radius:        spec.Radius,
		CornerRadius:  spec.CornerRadius,
		Mass:          spec.Mass,
		Friction:      spec.Friction,
		Elasticity:    spec.Elasticity,
		Static:        spec.Static,
		Sensor:        spec.Sensor,
		FixedRotation: spec.FixedRotation,
	})
}

type edgesSpec = prefabs.EdgesComponentSpec

// addEdges creates one child entity per side of the player, with material
// matching the starting effects.
func addEdges(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[edgesSpec](raw)
	if err != nil {
		return fmt.Errorf("decode edges spec: %w", err)
	}
	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok {
		return fmt.Errorf("edges requires player on the same entity")
	}

	for i := 0; i < component.EdgeCount; i++ {
		child := ecs.CreateEntity(w)
		eff := p.Effects[i]
		if err := ecs.Add(w, child, component.EdgeComponent.Kind(), &component.Edge{
			Owner:       uint64(e),
			Index:       i,
			Friction:    eff.Friction(),
			Restitution: eff.Restitution(),
			Inset:       spec.Inset,
			HalfWidth:   spec.HalfWidth,
			Thickness:   spec.Thickness,
			Radius:      spec.Radius,
		}); err != nil {
			ecs.DestroyEntity(w, child)
			return err
		}
		p.Edges[i] = uint64(child)
	}

	return ecs.Add(w, e, component.PlayerMaterialComponent.Kind(), &component.PlayerMaterial{
		EffectIndex: component.ProjectEffects(p.Effects),
	})
}
