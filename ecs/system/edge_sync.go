package system

import (
	"fmt"

	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
)

// EdgeSyncSystem keeps every edge collider's friction and restitution in
// line with the side effect the player holds on that edge. Values are only
// written when they differ.
type EdgeSyncSystem struct{}

func NewEdgeSyncSystem() *EdgeSyncSystem {
	return &EdgeSyncSystem{}
}

func (s *EdgeSyncSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.PlayerComponent.Kind(), func(e ecs.Entity, p *component.Player) {
		for i, raw := range p.Edges {
			edgeEntity := ecs.Entity(raw)
			edge, ok := ecs.Get(w, edgeEntity, component.EdgeComponent.Kind())
			if !ok {
				panic(fmt.Sprintf("edge sync system: player %v has no %s edge %v", e, component.EdgeName(i), edgeEntity))
			}
			effect := p.Effects[i]
			if f := effect.Friction(); edge.Friction != f {
				edge.Friction = f
			}
			if r := effect.Restitution(); edge.Restitution != r {
				edge.Restitution = r
			}
		}
	})
}
