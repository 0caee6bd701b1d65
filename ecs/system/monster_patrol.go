package system

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/sideeffect/common"
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
	"github.com/milk9111/sideeffect/prefabs"
)

const defaultPatrolLookahead = 0.2

// patrolScript is a compiled patrol rule. The script reads the `monster`
// map and assigns the next heading to `direction`.
type patrolScript struct {
	name     string
	compiled *tengo.Compiled
}

// MonsterPatrolSystem walks monsters back and forth, turning at walls and
// ledges. The turn rule comes from the monster's tengo script when it has
// one.
type MonsterPatrolSystem struct {
	physics Physics
	scripts map[string]*patrolScript
	load    func(name string) ([]byte, error)
}

func NewMonsterPatrolSystem(physics Physics) *MonsterPatrolSystem {
	return &MonsterPatrolSystem{
		physics: physics,
		scripts: map[string]*patrolScript{},
		load:    prefabs.LoadScript,
	}
}

// InvalidateScripts drops compiled scripts so the next tick recompiles them
// from disk or the embedded copy.
func (s *MonsterPatrolSystem) InvalidateScripts() {
	if s == nil {
		return
	}
	clear(s.scripts)
}

func (s *MonsterPatrolSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.physics == nil {
		return
	}
	dt := simDelta(w)
	if dt <= 0 {
		return
	}
	down := physicsConfig(w).GravityDirection()
	right := common.Perp(down)

	ecs.ForEach3(w, component.MonsterComponent.Kind(), component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, m *component.Monster, t *component.Transform, body *component.PhysicsBody) {
		if !m.Patrol {
			return
		}
		if m.Direction == 0 {
			m.Direction = 1
		}

		shape := component.ProbeShape{HalfWidth: body.Width / 2, HalfHeight: body.Height / 2, Radius: body.CornerRadius}
		lookahead := m.Lookahead
		if lookahead <= 0 {
			lookahead = defaultPatrolLookahead
		}
		ahead := right.Mul(m.Direction)

		_, wallAhead := s.physics.Probe(e, shape, ahead, *t, lookahead)

		probePose := *t
		edge := ahead.Mul(body.Width/2 + body.CornerRadius + lookahead)
		probePose.X += edge.X()
		probePose.Y += edge.Y()
		_, floorAhead := s.physics.Probe(e, shape, down, probePose, lookahead)

		m.Direction = s.nextDirection(e, m, wallAhead, floorAhead)

		mass, _ := s.physics.MassProperties(e)
		linvel, _ := s.physics.Velocity(e)
		delta := m.Direction*m.Speed - linvel.Dot(right)
		if m.Accel > 0 {
			limit := m.Accel * dt
			delta = common.Clamp(delta, -limit, limit)
		}
		s.physics.ApplyImpulse(e, right.Mul(delta*mass), t.Position())
	})
}

func (s *MonsterPatrolSystem) nextDirection(e ecs.Entity, m *component.Monster, wallAhead, floorAhead bool) float64 {
	if strings.TrimSpace(m.Script) == "" {
		return turnAtObstacle(m.Direction, wallAhead, floorAhead)
	}

	script, err := s.script(m.Script)
	if err != nil {
		log.Printf("monster patrol: entity=%d load script %s: %v", e, m.Script, err)
		return m.Direction
	}
	dir, err := script.run(m, wallAhead, floorAhead)
	if err != nil {
		log.Printf("monster patrol: entity=%d run script %s: %v", e, m.Script, err)
		return m.Direction
	}
	return dir
}

// turnAtObstacle is the built-in patrol rule.
func turnAtObstacle(direction float64, wallAhead, floorAhead bool) float64 {
	if wallAhead || !floorAhead {
		return -direction
	}
	return direction
}

func (s *MonsterPatrolSystem) script(name string) (*patrolScript, error) {
	if ps, ok := s.scripts[name]; ok {
		return ps, nil
	}

	src, err := s.load(name)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript(src)
	_ = script.Add("monster", map[string]any{})
	_ = script.Add("direction", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	ps := &patrolScript{name: name, compiled: compiled}
	s.scripts[name] = ps
	return ps, nil
}

func (ps *patrolScript) run(m *component.Monster, wallAhead, floorAhead bool) (float64, error) {
	state := map[string]any{
		"direction":   m.Direction,
		"speed":       m.Speed,
		"wall_ahead":  wallAhead,
		"floor_ahead": floorAhead,
	}
	if err := ps.compiled.Set("monster", state); err != nil {
		return 0, err
	}
	if err := ps.compiled.Set("direction", m.Direction); err != nil {
		return 0, err
	}
	if err := ps.compiled.Run(); err != nil {
		return 0, err
	}

	dir := ps.compiled.Get("direction").Float()
	if dir == 0 || math.IsNaN(dir) {
		return 0, fmt.Errorf("script %s returned no direction", ps.name)
	}
	return math.Copysign(1, dir), nil
}
