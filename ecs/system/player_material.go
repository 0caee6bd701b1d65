package system

import (
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
)

// PlayerMaterialSystem projects edge effects into the material parameters
// the renderer reads. Revision only moves when the projection changes.
type PlayerMaterialSystem struct{}

func NewPlayerMaterialSystem() *PlayerMaterialSystem {
	return &PlayerMaterialSystem{}
}

func (s *PlayerMaterialSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.PlayerMaterialComponent.Kind(), func(_ ecs.Entity, p *component.Player, mat *component.PlayerMaterial) {
		projected := component.ProjectEffects(p.Effects)
		if projected == mat.EffectIndex {
			return
		}
		mat.EffectIndex = projected
		mat.Revision++
	})
}
