package system

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sideeffect/common"
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
)

const (
	moveReleaseWindow = 0.2
	maxSnappyBonus    = 2.0

	spinAirDelay     = 0.02
	spinCooldown     = 0.3
	spinReducedScale = 0.4

	snapLookahead      = 0.3
	snapAccelScale     = 2.0
	angularDamping     = 0.2
	softSnapMultiplier = 0.5
	hardSnapMultiplier = 5.0
	stickSnapDelay     = 0.1
	spinSnapWindow     = 0.2

	groundedJumpDelay = 0.05
	jumpDebounce      = 0.2
	wallJumpBias      = 0.5

	stickJumpGrace   = 0.03
	mostlyVertical   = 0.8
	slipperyBelowDot = 0.4
)

// PlayerControllerSystem turns input and physics feedback into impulses for
// every player, once per fixed tick.
type PlayerControllerSystem struct {
	physics Physics
	debug   bool
}

func NewPlayerControllerSystem(physics Physics) *PlayerControllerSystem {
	return &PlayerControllerSystem{physics: physics}
}

// SetDebug enables logging of landed/in-air/stick transitions.
func (s *PlayerControllerSystem) SetDebug(debug bool) {
	if s == nil {
		return
	}
	s.debug = debug
}

// playerTick carries the per-player values shared by the controller steps.
type playerTick struct {
	e      ecs.Entity
	p      *component.Player
	in     component.Input
	pose   component.Transform
	tuning component.PlayerTuning

	dt    float64
	down  mgl64.Vec2
	right mgl64.Vec2

	mass    float64
	inertia float64
	linvel  mgl64.Vec2
	angvel  float64
}

func (s *PlayerControllerSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.physics == nil {
		return
	}
	dt := simDelta(w)
	if dt <= 0 {
		return
	}
	down := physicsConfig(w).GravityDirection()

	ecs.ForEach3(w, component.PlayerComponent.Kind(), component.InputComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Player, in *component.Input, t *component.Transform) {
		tuning := component.DefaultPlayerTuning()
		if tc, ok := ecs.Get(w, e, component.PlayerTuningComponent.Kind()); ok {
			tuning = *tc
		}
		s.step(playerTick{e: e, p: p, in: *in, pose: *t, tuning: tuning, dt: dt, down: down})
	})
}

func (s *PlayerControllerSystem) step(tick playerTick) {
	tick.right = common.Perp(tick.down)
	tick.mass, tick.inertia = s.physics.MassProperties(tick.e)
	tick.linvel, tick.angvel = s.physics.Velocity(tick.e)

	wasLanded := tick.p.Landed.Active

	tick.p.AdvanceTimers(tick.dt)
	s.move(&tick)
	forceJump := s.scheduleSpin(&tick)
	s.spin(&tick)
	s.snapOrientation(&tick)
	s.jump(&tick, forceJump)
	s.resolveEdges(&tick)

	if s.debug && wasLanded != tick.p.Landed.Active {
		log.Printf("player %d: landed=%v in_air=%v wall=%v stick=%v slippery=%v",
			tick.p.ID, tick.p.Landed.Active, tick.p.InAir.Active, tick.p.WallStick.Active,
			tick.p.AnyStick.Active, tick.p.SlipperyBelow.Active)
	}
}

func (s *PlayerControllerSystem) maxSpeed(tick *playerTick) float64 {
	if tick.p.SlipperyBelow.Active {
		return tick.tuning.SlipperyMaxSpeed
	}
	return tick.tuning.MaxSpeed
}

func (s *PlayerControllerSystem) move(tick *playerTick) {
	p := tick.p
	maxSpeed := s.maxSpeed(tick)

	target := 0.0
	if tick.in.Left {
		target -= maxSpeed
	}
	if tick.in.Right {
		target += maxSpeed
	}
	p.Moving.Set(tick.in.Left || tick.in.Right)

	// no braking on ice
	if target == 0 && p.SlipperyBelow.Active {
		return
	}

	delta := target - tick.linvel.Dot(tick.right)

	bonus := 0.0
	if maxSpeed > 0 {
		bonus = common.Clamp((math.Abs(delta)-maxSpeed)/maxSpeed, 0, maxSnappyBonus)
	}
	limit := tick.tuning.MaxAcceleration * tick.dt * (1 + bonus)
	delta = common.Clamp(delta, -limit, limit)

	multiplier := 1.0
	released := p.Moving.SinceDeactivated()
	if !(released < moveReleaseWindow && p.Landed.Active) {
		multiplier = 1 / (2 + 2*released)
	}

	impulse := tick.right.Mul(delta * tick.mass * multiplier)
	s.physics.ApplyImpulse(tick.e, impulse, tick.pose.Position().Add(tick.tuning.CenterOffset))
}

// scheduleSpin latches a spin request. It reports whether a jump was asked
// for by the spin keys.
func (s *PlayerControllerSystem) scheduleSpin(tick *playerTick) bool {
	switch {
	case tick.in.SpinUp:
		tick.p.RequestSpin(tick.tuning.SpinTorque)
		return true
	case tick.in.SpinDown:
		tick.p.RequestSpin(-tick.tuning.SpinTorque)
		return true
	}
	return false
}

func (s *PlayerControllerSystem) spin(tick *playerTick) {
	p := tick.p
	if p.InAir.SinceActivated() <= spinAirDelay {
		return
	}
	torque, ok := p.TakePendingSpin()
	if !ok {
		return
	}
	if p.SinceSpin < spinCooldown {
		torque *= spinReducedScale
	}
	s.physics.ApplyTorqueImpulse(tick.e, torque*tick.inertia)
	p.SinceSpin = 0
}

func (s *PlayerControllerSystem) snapOrientation(tick *playerTick) {
	p := tick.p
	const quarter = math.Pi / 2

	angle := common.WrapAngle(tick.pose.Rotation)
	target := math.Round((angle+tick.angvel*snapLookahead)/quarter) * quarter

	limit := tick.tuning.MaxAngularAcceleration * tick.dt * snapAccelScale
	delta := common.Clamp(target-angle, -limit, limit)

	multiplier := hardSnapMultiplier
	if p.AnyStick.SinceActivated() > stickSnapDelay || p.SinceSpin < spinSnapWindow {
		multiplier = softSnapMultiplier
	}

	torque := delta*tick.inertia*multiplier - angularDamping*tick.angvel*tick.inertia*multiplier
	s.physics.ApplyTorqueImpulse(tick.e, torque)
}

func (s *PlayerControllerSystem) probe(tick *playerTick, dir mgl64.Vec2, tolerance float64) bool {
	_, hit := s.physics.Probe(tick.e, tick.p.Probe, dir, tick.pose, tolerance)
	return hit
}

func (s *PlayerControllerSystem) jump(tick *playerTick, forceJump bool) {
	p := tick.p
	tol := tick.tuning.JumpProbeTolerance

	below := s.probe(tick, tick.down, tol)
	wallRight := s.probe(tick, tick.right, tol)
	wallLeft := s.probe(tick, tick.right.Mul(-1), tol)

	if below {
		p.Landed.Activate()
		p.InAir.Deactivate()
	} else {
		p.Landed.Deactivate()
		p.InAir.Activate()
	}

	if !tick.in.Jump && !forceJump {
		return
	}
	if !canJump(p, tick.tuning) {
		return
	}

	p.Landed.Deactivate()
	p.InAir.Activate()
	p.SinceJump = 0

	dir := tick.down.Mul(-1)
	wallStuck := p.WallStick.SinceActivated() > groundedJumpDelay
	if wallRight && wallStuck {
		dir = dir.Add(tick.right.Mul(-wallJumpBias))
	}
	if wallLeft && wallStuck {
		dir = dir.Add(tick.right.Mul(wallJumpBias))
	}
	s.physics.ApplyImpulse(tick.e, dir.Mul(tick.tuning.JumpImpulse*tick.mass), tick.pose.Position())
}

// canJump is the jump debounce policy: settled on ground or on a wall, or
// still inside the coyote window after losing ground, and not jumped
// recently.
func canJump(p *component.Player, tuning component.PlayerTuning) bool {
	if p.SinceJump <= jumpDebounce {
		return false
	}
	if p.Landed.SinceActivated() > groundedJumpDelay || p.WallStick.SinceActivated() > groundedJumpDelay {
		return true
	}
	return !p.Landed.Active && p.Landed.SinceDeactivated() < tuning.CoyoteTime
}

func (s *PlayerControllerSystem) resolveEdges(tick *playerTick) {
	p := tick.p
	up := tick.down.Mul(-1)

	var wallStick, anyStick, slipperyBelow bool
	for i := 0; i < component.EdgeCount; i++ {
		effect := p.Effects[i]
		if effect != component.SideEffectSticky && effect != component.SideEffectSlippery {
			continue
		}

		dir := common.Rotate(component.EdgeDirection(i), tick.pose.Rotation)
		if !s.probe(tick, dir, tick.tuning.EdgeProbeTolerance) {
			continue
		}

		switch effect {
		case component.SideEffectSticky:
			if p.SinceJump <= stickJumpGrace {
				continue
			}
			anyStick = true
			force := tick.tuning.WallStickForce
			switch {
			case dir.Dot(tick.down) > mostlyVertical:
				force = tick.tuning.FloorStickForce
			case dir.Dot(up) > mostlyVertical:
				force = tick.tuning.CeilingStickForce
			default:
				wallStick = true
			}
			s.physics.ApplyImpulse(tick.e, dir.Mul(force*tick.mass*tick.dt), tick.pose.Position())
		case component.SideEffectSlippery:
			if dir.Dot(tick.down) > slipperyBelowDot {
				slipperyBelow = true
			}
		}
	}

	p.WallStick.Set(wallStick)
	p.AnyStick.Set(anyStick)
	p.SlipperyBelow.Set(slipperyBelow)
}
