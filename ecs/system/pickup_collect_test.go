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

func spawnTestBonus(t *testing.T, w *ecs.World, effect component.SideEffect, pos mgl64.Vec2) (ecs.Entity, *component.Bonus) {
	t.Helper()
	e := ecs.CreateEntity(w)
	b := component.NewBonus(effect)
	require.NoError(t, ecs.Add(w, e, component.BonusComponent.Kind(), b))
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X(), Y: pos.Y()}))
	return e, b
}

func TestPickupFillsNearestEmptyEdge(t *testing.T) {
	w := newTestWorld(t)
	pe, p := spawnTestPlayer(t, w, mgl64.Vec2{3.0, -1.25})
	p.Effects = [component.EdgeCount]component.SideEffect{component.SideEffectNone, component.SideEffectSticky, component.SideEffectNone, component.SideEffectNone}
	be, _ := spawnTestBonus(t, w, component.SideEffectShield, mgl64.Vec2{3.0, -1.75})

	pushContact(w, pe, be, true)
	NewPickupCollectSystem().Update(w)

	assert.Equal(t, component.SideEffectShield, p.Effects[component.EdgeBottom])
	assert.Equal(t, component.SideEffectSticky, p.Effects[component.EdgeRight])
	assert.False(t, ecs.IsAlive(w, be), "consumed bonus is destroyed the same tick")

	taken := w.Events().Peek(EventBonusTaken)
	require.Len(t, taken, 1)
	assert.Equal(t, BonusTaken{Player: pe, Bonus: be, Edge: component.EdgeBottom, Effect: component.SideEffectShield}, taken[0].Data)
}

func TestPickupWithAllEdgesOccupied(t *testing.T) {
	w := newTestWorld(t)
	pe, p := spawnTestPlayer(t, w, mgl64.Vec2{})
	full := [component.EdgeCount]component.SideEffect{
		component.SideEffectSticky, component.SideEffectSlippery, component.SideEffectShield, component.SideEffectThorns,
	}
	p.Effects = full
	be, b := spawnTestBonus(t, w, component.SideEffectLaser, mgl64.Vec2{0, -0.6})

	pushContact(w, pe, be, true)
	NewPickupCollectSystem().Update(w)

	assert.Equal(t, full, p.Effects)
	assert.True(t, ecs.IsAlive(w, be))
	assert.True(t, b.Armed)
	assert.Equal(t, component.SideEffectLaser, b.Effect)
}

func TestPickupRetriedWhileOverlapping(t *testing.T) {
	w := newTestWorld(t)
	pe, p := spawnTestPlayer(t, w, mgl64.Vec2{})
	p.Effects = [component.EdgeCount]component.SideEffect{
		component.SideEffectSticky, component.SideEffectSlippery, component.SideEffectShield, component.SideEffectThorns,
	}
	be, _ := spawnTestBonus(t, w, component.SideEffectLaser, mgl64.Vec2{0, -0.6})
	sys := NewPickupCollectSystem()

	pushContact(w, pe, be, true)
	sys.Update(w)
	w.Events().Drain()
	require.True(t, ecs.IsAlive(w, be))

	p.Effects[component.EdgeTop] = component.SideEffectNone
	pushContact(w, pe, be, false)
	sys.Update(w)

	assert.Equal(t, component.SideEffectLaser, p.Effects[component.EdgeTop])
	assert.False(t, ecs.IsAlive(w, be))
}

func TestPickupTakesBonusOnce(t *testing.T) {
	w := newTestWorld(t)
	first, p1 := spawnTestPlayer(t, w, mgl64.Vec2{-0.5, 0})
	second, p2 := spawnTestPlayer(t, w, mgl64.Vec2{0.5, 0})
	be, _ := spawnTestBonus(t, w, component.SideEffectSticky, mgl64.Vec2{0, 0})

	pushContact(w, first, be, true)
	pushContact(w, second, be, true)
	NewPickupCollectSystem().Update(w)

	assert.Equal(t, component.SideEffectSticky, p1.Effects[component.EdgeRight])
	assert.Equal(t, [component.EdgeCount]component.SideEffect{}, p2.Effects)
	assert.False(t, ecs.IsAlive(w, be))
}

func TestPickupIgnoresOtherContacts(t *testing.T) {
	w := newTestWorld(t)
	pe, p := spawnTestPlayer(t, w, mgl64.Vec2{})
	other, _ := spawnTestPlayer(t, w, mgl64.Vec2{1, 0})

	pushContact(w, pe, other, true)
	NewPickupCollectSystem().Update(w)

	assert.Equal(t, [component.EdgeCount]component.SideEffect{}, p.Effects)
}

func TestNearestFreeEdge(t *testing.T) {
	none := [component.EdgeCount]component.SideEffect{}
	bottomTaken := none
	bottomTaken[component.EdgeBottom] = component.SideEffectSticky

	cases := []struct {
		name     string
		pose     component.Transform
		effects  [component.EdgeCount]component.SideEffect
		target   mgl64.Vec2
		want     int
		wantFree bool
	}{
		{"below", component.Transform{}, none, mgl64.Vec2{0, -2}, component.EdgeBottom, true},
		{"right", component.Transform{}, none, mgl64.Vec2{2, 0.1}, component.EdgeRight, true},
		{"above", component.Transform{}, none, mgl64.Vec2{0.1, 2}, component.EdgeTop, true},
		{"left", component.Transform{}, none, mgl64.Vec2{-2, 0}, component.EdgeLeft, true},
		{"tie goes to lowest index", component.Transform{}, none, mgl64.Vec2{}, component.EdgeBottom, true},
		{"occupied edge skipped", component.Transform{}, bottomTaken, mgl64.Vec2{0.3, -2}, component.EdgeRight, true},
		{"rotated quarter turn", component.Transform{Rotation: math.Pi / 2}, none, mgl64.Vec2{2, 0}, component.EdgeBottom, true},
		{"translated", component.Transform{X: 10, Y: 5}, none, mgl64.Vec2{9, 5}, component.EdgeLeft, true},
		{"all occupied", component.Transform{}, [component.EdgeCount]component.SideEffect{1, 2, 3, 4}, mgl64.Vec2{}, -1, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := nearestFreeEdge(c.pose, c.effects, c.target)
			assert.Equal(t, c.wantFree, ok)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestNearestFreeEdgeNeverPicksOccupied(t *testing.T) {
	targets := []mgl64.Vec2{{0, -1}, {1, 0}, {0, 1}, {-1, 0}, {0.7, -0.7}, {-0.2, 0.9}}
	for mask := 0; mask < 1<<component.EdgeCount; mask++ {
		var effects [component.EdgeCount]component.SideEffect
		for i := range effects {
			if mask&(1<<i) != 0 {
				effects[i] = component.SideEffectShield
			}
		}
		for _, target := range targets {
			got, ok := nearestFreeEdge(component.Transform{Rotation: 0.3}, effects, target)
			if mask == 1<<component.EdgeCount-1 {
				assert.False(t, ok)
				continue
			}
			require.True(t, ok)
			assert.Equal(t, component.SideEffectNone, effects[got], "mask %04b target %v", mask, target)
		}
	}
}
