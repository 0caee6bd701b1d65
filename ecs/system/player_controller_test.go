package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	down  = mgl64.Vec2{0, -1}
	up    = mgl64.Vec2{0, 1}
	right = mgl64.Vec2{1, 0}
	left  = mgl64.Vec2{-1, 0}
)

func TestPlayerLandsWhenProbeBelowHits(t *testing.T) {
	w := newTestWorld(t)
	_, p := spawnTestPlayer(t, w, mgl64.Vec2{0, 1})
	p.InAir.Activate()

	phys := newFakePhysics()
	phys.hitAlong(down, 0.01)

	NewPlayerControllerSystem(phys).Update(w)

	assert.True(t, p.Landed.Active)
	assert.False(t, p.InAir.Active)
}

func TestAirborneJumpFiresInsideCoyoteWindow(t *testing.T) {
	w := newTestWorld(t)
	e, p := spawnTestPlayer(t, w, mgl64.Vec2{0, 1})
	p.InAir = component.PlayerState{Active: true, Elapsed: 0.05}
	p.Landed = component.PlayerState{Active: false, Elapsed: 0.05}
	p.SinceJump = 1.0
	in, _ := ecs.Get(w, e, component.InputComponent.Kind())
	in.Jump = true

	phys := newFakePhysics()
	phys.mass = 0.9

	NewPlayerControllerSystem(phys).Update(w)

	assert.False(t, p.Landed.Active)
	assert.True(t, p.InAir.Active)
	assert.Zero(t, p.SinceJump)
	assertVecNear(t, up.Mul(4.0*0.9), phys.totalImpulse(e))
}

func TestJumpDebounce(t *testing.T) {
	cases := []struct {
		name      string
		landed    component.PlayerState
		wall      component.PlayerState
		sinceJump float64
		hitBelow  bool
		fires     bool
	}{
		{"settled on ground", component.PlayerState{Active: true, Elapsed: 1}, component.PlayerState{}, 1, true, true},
		{"just touched down", component.PlayerState{Active: false, Elapsed: 1}, component.PlayerState{}, 1, true, false},
		{"jumped recently", component.PlayerState{Active: true, Elapsed: 1}, component.PlayerState{}, 0.1, true, false},
		{"long airborne", component.PlayerState{Active: false, Elapsed: 1}, component.PlayerState{}, 1, false, false},
		{"stuck on wall", component.PlayerState{Active: false, Elapsed: 1}, component.PlayerState{Active: true, Elapsed: 1}, 1, false, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld(t)
			e, p := spawnTestPlayer(t, w, mgl64.Vec2{})
			p.Landed = c.landed
			p.InAir.Set(!c.landed.Active)
			p.WallStick = c.wall
			p.SinceJump = c.sinceJump
			in, _ := ecs.Get(w, e, component.InputComponent.Kind())
			in.Jump = true

			phys := newFakePhysics()
			if c.hitBelow {
				phys.hitAlong(down, 0)
			}

			NewPlayerControllerSystem(phys).Update(w)

			if c.fires {
				assert.Zero(t, p.SinceJump)
				assert.Greater(t, phys.totalImpulse(e).Y(), 0.0)
			} else {
				assert.InDelta(t, c.sinceJump+testDt, p.SinceJump, 1e-9)
				assert.InDelta(t, 0.0, phys.totalImpulse(e).Y(), 1e-9)
			}
		})
	}
}

func TestWallJumpPushesAwayFromWall(t *testing.T) {
	cases := []struct {
		name string
		wall mgl64.Vec2
		want mgl64.Vec2
	}{
		{"wall on the right", right, mgl64.Vec2{-0.5, 1}},
		{"wall on the left", left, mgl64.Vec2{0.5, 1}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld(t)
			e, p := spawnTestPlayer(t, w, mgl64.Vec2{})
			p.Landed = component.PlayerState{Elapsed: 1}
			p.InAir = component.PlayerState{Active: true, Elapsed: 1}
			p.WallStick = component.PlayerState{Active: true, Elapsed: 1}
			in, _ := ecs.Get(w, e, component.InputComponent.Kind())
			in.Jump = true

			phys := newFakePhysics()
			phys.hitAlong(c.wall, 0)

			NewPlayerControllerSystem(phys).Update(w)

			got := phys.totalImpulse(e)
			assertVecNear(t, c.want.Mul(4.0), got)
		})
	}
}

func TestMoveImpulse(t *testing.T) {
	cases := []struct {
		name   string
		left   bool
		right  bool
		linvel mgl64.Vec2
		landed bool
		wantX  float64
	}{
		{"accelerate from rest", false, true, mgl64.Vec2{}, true, 14.0 * testDt},
		{"snappy reversal", false, true, mgl64.Vec2{-5, 0}, true, 3 * 14.0 * testDt},
		{"already at speed", false, true, mgl64.Vec2{2.5, 0}, true, 0},
		{"airborne halves correction", true, false, mgl64.Vec2{}, false, -0.5 * 14.0 * testDt},
		{"small correction is not clamped", false, false, mgl64.Vec2{0.1, 0}, true, -0.1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld(t)
			e, p := spawnTestPlayer(t, w, mgl64.Vec2{})
			p.Landed.Set(c.landed)
			p.Landed.Elapsed = 1
			in, _ := ecs.Get(w, e, component.InputComponent.Kind())
			in.Left, in.Right = c.left, c.right

			phys := newFakePhysics()
			phys.linvel = c.linvel
			if c.landed {
				phys.hitAlong(down, 0)
			}

			NewPlayerControllerSystem(phys).Update(w)

			require.NotEmpty(t, phys.impulses)
			assert.InDelta(t, c.wantX, phys.impulses[0].impulse.X(), 1e-9)
			assert.InDelta(t, 0.0, phys.impulses[0].impulse.Y(), 1e-9)
		})
	}
}

func TestSlipperyBelowDoesNotBrake(t *testing.T) {
	w := newTestWorld(t)
	e, p := spawnTestPlayer(t, w, mgl64.Vec2{})
	p.SlipperyBelow.Activate()

	phys := newFakePhysics()
	phys.linvel = mgl64.Vec2{3, 0}

	NewPlayerControllerSystem(phys).Update(w)

	assert.Empty(t, phys.impulses)
	assertVecNear(t, mgl64.Vec2{}, phys.totalImpulse(e))
}

func TestSlipperyBelowRaisesMaxSpeed(t *testing.T) {
	w := newTestWorld(t)
	e, p := spawnTestPlayer(t, w, mgl64.Vec2{})
	p.SlipperyBelow.Activate()
	p.Landed = component.PlayerState{Active: true, Elapsed: 1}
	tuning, _ := ecs.Get(w, e, component.PlayerTuningComponent.Kind())
	tuning.MaxAcceleration = 1000
	in, _ := ecs.Get(w, e, component.InputComponent.Kind())
	in.Right = true

	phys := newFakePhysics()
	phys.hitAlong(down, 0)

	NewPlayerControllerSystem(phys).Update(w)

	require.NotEmpty(t, phys.impulses)
	assert.InDelta(t, 4.0, phys.impulses[0].impulse.X(), 1e-9)
}

func TestTuningChangeIsPickedUp(t *testing.T) {
	w := newTestWorld(t)
	e, p := spawnTestPlayer(t, w, mgl64.Vec2{})
	p.Landed = component.PlayerState{Active: true, Elapsed: 1}
	in, _ := ecs.Get(w, e, component.InputComponent.Kind())
	in.Right = true

	phys := newFakePhysics()
	phys.hitAlong(down, 0)
	ctrl := NewPlayerControllerSystem(phys)

	tuning, _ := ecs.Get(w, e, component.PlayerTuningComponent.Kind())
	tuning.MaxAcceleration = 1000
	tuning.MaxSpeed = 1
	ctrl.Update(w)
	require.NotEmpty(t, phys.impulses)
	assert.InDelta(t, 1.0, phys.impulses[0].impulse.X(), 1e-9)

	phys.reset()
	tuning.MaxSpeed = 2
	ctrl.Update(w)
	require.NotEmpty(t, phys.impulses)
	assert.InDelta(t, 2.0, phys.impulses[0].impulse.X(), 1e-9)
}

func TestSpinWaitsForAirTime(t *testing.T) {
	w := newTestWorld(t)
	e, p := spawnTestPlayer(t, w, mgl64.Vec2{})
	p.Landed = component.PlayerState{Active: true, Elapsed: 1}
	in, _ := ecs.Get(w, e, component.InputComponent.Kind())
	in.SpinUp = true

	phys := newFakePhysics()
	ctrl := NewPlayerControllerSystem(phys)

	// the spin key also jumps
	ctrl.Update(w)
	assert.Zero(t, p.SinceJump)
	assert.True(t, p.InAir.Active)
	assert.True(t, p.HasPendingSpin())
	assert.Len(t, phys.torques, 1, "only the snap torque")

	in.SpinUp = false
	phys.reset()
	ctrl.Update(w)
	assert.True(t, p.HasPendingSpin(), "airborne for less than the spin delay")

	phys.reset()
	ctrl.Update(w)
	assert.False(t, p.HasPendingSpin())
	require.Len(t, phys.torques, 2)
	assert.InDelta(t, 3.0*phys.inertia, phys.torques[0], 1e-9)
	assert.Zero(t, p.SinceSpin)
}

func TestSpinRepeatIsReduced(t *testing.T) {
	w := newTestWorld(t)
	e, p := spawnTestPlayer(t, w, mgl64.Vec2{})
	p.InAir = component.PlayerState{Active: true, Elapsed: 1}
	p.Landed = component.PlayerState{Elapsed: 1}
	p.SinceSpin = 0.1
	in, _ := ecs.Get(w, e, component.InputComponent.Kind())
	in.SpinDown = true

	phys := newFakePhysics()
	NewPlayerControllerSystem(phys).Update(w)

	require.Len(t, phys.torques, 2)
	assert.InDelta(t, -3.0*0.4*phys.inertia, phys.torques[0], 1e-9)
}

func TestPendingSpinIsOverwrittenNotStacked(t *testing.T) {
	p := &component.Player{}
	p.RequestSpin(3)
	p.RequestSpin(-3)
	torque, ok := p.TakePendingSpin()
	require.True(t, ok)
	assert.Equal(t, -3.0, torque)
	_, ok = p.TakePendingSpin()
	assert.False(t, ok)
}

func TestOrientationSnap(t *testing.T) {
	cases := []struct {
		name      string
		rotation  float64
		angvel    float64
		sinceSpin float64
		want      float64
	}{
		{"tilted forward snaps back", 0.3, 0, 1, -0.3 * 5},
		{"tilted backward snaps forward", -0.3, 0, 1, 0.3 * 5},
		{"spin carries to next quarter", 0.1, 5, 1, (2*35.0*testDt)*5 - 0.2*5*5},
		{"soft while spinning", 0.3, 0, 0.1, -0.3 * 0.5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld(t)
			e, p := spawnTestPlayer(t, w, mgl64.Vec2{})
			p.SinceSpin = c.sinceSpin
			pose, _ := ecs.Get(w, e, component.TransformComponent.Kind())
			pose.Rotation = c.rotation

			phys := newFakePhysics()
			phys.inertia = 1
			phys.angvel = c.angvel

			NewPlayerControllerSystem(phys).Update(w)

			require.Len(t, phys.torques, 1)
			assert.InDelta(t, c.want, phys.torques[0], 1e-6)
		})
	}
}

func TestStickyEdges(t *testing.T) {
	cases := []struct {
		name      string
		edge      int
		dir       mgl64.Vec2
		force     float64
		wallStick bool
	}{
		{"floor", component.EdgeBottom, down, 5, false},
		{"ceiling", component.EdgeTop, up, 20, false},
		{"right wall", component.EdgeRight, right, 20, true},
		{"left wall", component.EdgeLeft, left, 20, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld(t)
			e, p := spawnTestPlayer(t, w, mgl64.Vec2{})
			p.Effects[c.edge] = component.SideEffectSticky
			p.Landed = component.PlayerState{Active: true, Elapsed: 1}

			phys := newFakePhysics()
			phys.hitAlong(c.dir, 0.04)

			NewPlayerControllerSystem(phys).Update(w)

			assert.True(t, p.AnyStick.Active)
			assert.Equal(t, c.wallStick, p.WallStick.Active)
			last := phys.impulses[len(phys.impulses)-1]
			assert.Equal(t, e, last.entity)
			assertVecNear(t, c.dir.Mul(c.force*testDt), last.impulse)
		})
	}
}

func TestStickyReleasesRightAfterJump(t *testing.T) {
	w := newTestWorld(t)
	_, p := spawnTestPlayer(t, w, mgl64.Vec2{})
	p.Effects[component.EdgeBottom] = component.SideEffectSticky
	p.AnyStick.Activate()
	p.SinceJump = 0

	phys := newFakePhysics()
	phys.hitAlong(down, 0.01)

	NewPlayerControllerSystem(phys).Update(w)

	assert.False(t, p.AnyStick.Active)
	assert.False(t, p.WallStick.Active)
}

func TestSlipperyBelowDetection(t *testing.T) {
	cases := []struct {
		name     string
		rotation float64
		want     bool
	}{
		{"upright", 0, true},
		{"upside down", math.Pi, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld(t)
			e, p := spawnTestPlayer(t, w, mgl64.Vec2{})
			p.Effects[component.EdgeBottom] = component.SideEffectSlippery
			pose, _ := ecs.Get(w, e, component.TransformComponent.Kind())
			pose.Rotation = c.rotation

			phys := newFakePhysics()
			// outside the jump tolerance, inside the edge tolerance
			phys.hitAlong(down, 0.03)
			phys.hitAlong(up, 0.03)

			NewPlayerControllerSystem(phys).Update(w)

			assert.Equal(t, c.want, p.SlipperyBelow.Active)
			assert.False(t, p.Landed.Active)
		})
	}
}

func TestGravityDefinesDown(t *testing.T) {
	w := newTestWorld(t)
	cfg, ok := ecs.Singleton(w, component.PhysicsConfigComponent.Kind())
	require.True(t, ok)
	cfg.Gravity = mgl64.Vec2{9.8, 0}
	_, p := spawnTestPlayer(t, w, mgl64.Vec2{})

	phys := newFakePhysics()
	phys.hitAlong(right, 0.01)

	NewPlayerControllerSystem(phys).Update(w)

	assert.True(t, p.Landed.Active)
}
