package system

import "github.com/milk9111/sideeffect/ecs"

// Pipeline is the gameplay systems in tick order. The game and the headless
// runner share it so both step the world the same way.
type Pipeline struct {
	Clock      *ClockSystem
	Input      ecs.System
	Controller *PlayerControllerSystem
	Patrol     *MonsterPatrolSystem
	Physics    *PhysicsSystem
	Pickup     *PickupCollectSystem
	Combat     *CombatSystem
	EdgeSync   *EdgeSyncSystem
	Material   *PlayerMaterialSystem
	Respawn    *RespawnSystem
}

// NewPipeline wires the systems around one physics space. input may be nil
// when players are driven some other way.
func NewPipeline(dt float64, input ecs.System) *Pipeline {
	physics := NewPhysicsSystem()
	return &Pipeline{
		Clock:      NewClockSystem(dt),
		Input:      input,
		Controller: NewPlayerControllerSystem(physics),
		Patrol:     NewMonsterPatrolSystem(physics),
		Physics:    physics,
		Pickup:     NewPickupCollectSystem(),
		Combat:     NewCombatSystem(physics),
		EdgeSync:   NewEdgeSyncSystem(),
		Material:   NewPlayerMaterialSystem(),
		Respawn:    NewRespawnSystem(),
	}
}

func (p *Pipeline) SetDebug(debug bool) {
	p.Controller.SetDebug(debug)
	p.Pickup.SetDebug(debug)
}

func (p *Pipeline) Scheduler() *ecs.Scheduler {
	s := ecs.NewScheduler(p.Clock)
	if p.Input != nil {
		s.Add(p.Input)
	}
	s.Add(p.Controller)
	s.Add(p.Patrol)
	s.Add(p.Physics)
	s.Add(p.Pickup)
	s.Add(p.Combat)
	s.Add(p.EdgeSync)
	s.Add(p.Material)
	s.Add(p.Respawn)
	return s
}
