package system

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
)

// EventBonusTaken is pushed when a player takes a bonus effect.
const EventBonusTaken = "bonus_taken"

// BonusTaken is the payload of EventBonusTaken.
type BonusTaken struct {
	Player ecs.Entity
	Bonus  ecs.Entity
	Edge   int
	Effect component.SideEffect
}

// PickupCollectSystem moves bonus effects onto the nearest empty player edge
// and destroys the bonuses that were consumed this tick.
type PickupCollectSystem struct {
	debug bool
}

func NewPickupCollectSystem() *PickupCollectSystem { return &PickupCollectSystem{} }

func (s *PickupCollectSystem) SetDebug(debug bool) {
	if s == nil {
		return
	}
	s.debug = debug
}

func (s *PickupCollectSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, c := range contactEvents(w) {
		playerEntity, bonusEntity, ok := matchPair(w, c, component.PlayerComponent.Kind(), component.BonusComponent.Kind())
		if !ok {
			continue
		}
		player, _ := ecs.Get(w, playerEntity, component.PlayerComponent.Kind())
		bonus, _ := ecs.Get(w, bonusEntity, component.BonusComponent.Kind())
		if bonus.Used() {
			continue
		}
		pose, ok := ecs.Get(w, playerEntity, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		bonusPose, ok := ecs.Get(w, bonusEntity, component.TransformComponent.Kind())
		if !ok {
			continue
		}

		edge, ok := nearestFreeEdge(*pose, player.Effects, bonusPose.Position())
		if !ok {
			continue
		}
		effect, ok := bonus.Take()
		if !ok {
			continue
		}
		player.Effects[edge] = effect

		w.Events().Push(ecs.Event{Type: EventBonusTaken, Data: BonusTaken{Player: playerEntity, Bonus: bonusEntity, Edge: edge, Effect: effect}})
		if s.debug {
			log.Printf("player %d: took %s on %s edge", player.ID, effect, component.EdgeName(edge))
		}
	}

	ecs.ForEach(w, component.BonusComponent.Kind(), func(e ecs.Entity, bonus *component.Bonus) {
		if bonus.Used() {
			ecs.DestroyEntity(w, e)
		}
	})
}

// nearestFreeEdge picks the empty edge whose world centre is closest to
// target. Ties go to the lower index.
func nearestFreeEdge(pose component.Transform, effects [component.EdgeCount]component.SideEffect, target mgl64.Vec2) (int, bool) {
	return nearestEdge(pose, target, func(i int) bool {
		return effects[i] == component.SideEffectNone
	})
}

func nearestEdge(pose component.Transform, target mgl64.Vec2, accept func(i int) bool) (int, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i := 0; i < component.EdgeCount; i++ {
		if accept != nil && !accept(i) {
			continue
		}
		dist := pose.Apply(component.EdgeCenter(i)).Sub(target).Len()
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best, best >= 0
}
