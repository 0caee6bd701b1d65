package system

import (
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
)

// ClockSystem advances the SimClock singleton by one fixed step. It runs
// first so every later system reads this tick's delta.
type ClockSystem struct {
	dt float64
}

func NewClockSystem(dt float64) *ClockSystem {
	return &ClockSystem{dt: dt}
}

func (s *ClockSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	clock, ok := ecs.Singleton(w, component.SimClockComponent.Kind())
	if !ok {
		e := ecs.CreateEntity(w)
		clock = &component.SimClock{}
		if err := ecs.Add(w, e, component.SimClockComponent.Kind(), clock); err != nil {
			panic("clock system: add clock: " + err.Error())
		}
	}
	clock.Tick++
	clock.Delta = s.dt
}
