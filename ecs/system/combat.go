package system

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
)

const defaultKnockback = 3.0

// EventMonsterHit is pushed when a player meets a monster.
const EventMonsterHit = "monster_hit"

// MonsterHit is the payload of EventMonsterHit. Edge is the player side that
// took the contact.
type MonsterHit struct {
	Player  ecs.Entity
	Monster ecs.Entity
	Edge    int
	Effect  component.SideEffect
}

// CombatSystem resolves the first tick of every player and monster contact
// against the player edge that faces the monster.
type CombatSystem struct {
	physics Physics
}

func NewCombatSystem(physics Physics) *CombatSystem { return &CombatSystem{physics: physics} }

func (s *CombatSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	for _, c := range contactEvents(w) {
		if !c.Started {
			continue
		}
		playerEntity, monsterEntity, ok := matchPair(w, c, component.PlayerComponent.Kind(), component.MonsterComponent.Kind())
		if !ok || !ecs.IsAlive(w, monsterEntity) {
			continue
		}
		s.resolve(w, playerEntity, monsterEntity)
	}
}

func (s *CombatSystem) resolve(w *ecs.World, playerEntity, monsterEntity ecs.Entity) {
	player, _ := ecs.Get(w, playerEntity, component.PlayerComponent.Kind())
	monster, _ := ecs.Get(w, monsterEntity, component.MonsterComponent.Kind())
	pose, ok := ecs.Get(w, playerEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}
	monsterPose, ok := ecs.Get(w, monsterEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}

	edge, _ := nearestEdge(*pose, monsterPose.Position(), nil)
	effect := player.Effects[edge]
	w.Events().Push(ecs.Event{Type: EventMonsterHit, Data: MonsterHit{Player: playerEntity, Monster: monsterEntity, Edge: edge, Effect: effect}})

	switch effect {
	case component.SideEffectThorns:
		log.Printf("combat: player %d thorns destroyed monster %v", player.ID, monsterEntity)
		ecs.DestroyEntity(w, monsterEntity)
	case component.SideEffectShield:
		// absorbed
	default:
		if s.physics == nil {
			return
		}
		away := pose.Position().Sub(monsterPose.Position())
		if away.Len() < 1e-9 {
			away = mgl64.Vec2{0, 1}
		}
		knockback := monster.Knockback
		if knockback <= 0 {
			knockback = defaultKnockback
		}
		mass, _ := s.physics.MassProperties(playerEntity)
		s.physics.ApplyImpulse(playerEntity, away.Normalize().Mul(knockback*mass), pose.Position())
	}
}
