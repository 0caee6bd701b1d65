package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdgeSyncWritesCoefficients(t *testing.T) {
	cases := []struct {
		effect      component.SideEffect
		friction    float64
		restitution float64
	}{
		{component.SideEffectNone, 0.3, 0},
		{component.SideEffectSticky, 0.6, 0},
		{component.SideEffectSlippery, 0.02, 0},
		{component.SideEffectShield, 0.3, 0},
		{component.SideEffectThorns, 0.3, 0},
		{component.SideEffectFlashlight, 0.3, 0},
		{component.SideEffectLaser, 0.3, 0},
		{component.SideEffectSpring, 0.3, 0.75},
	}

	for _, c := range cases {
		t.Run(c.effect.String(), func(t *testing.T) {
			w := newTestWorld(t)
			_, p := spawnTestPlayer(t, w, mgl64.Vec2{})
			p.Effects[component.EdgeLeft] = c.effect

			NewEdgeSyncSystem().Update(w)

			edge, ok := ecs.Get(w, ecs.Entity(p.Edges[component.EdgeLeft]), component.EdgeComponent.Kind())
			require.True(t, ok)
			assert.Equal(t, c.friction, edge.Friction)
			assert.Equal(t, c.restitution, edge.Restitution)

			other, ok := ecs.Get(w, ecs.Entity(p.Edges[component.EdgeBottom]), component.EdgeComponent.Kind())
			require.True(t, ok)
			assert.Equal(t, component.DefaultEdgeFriction, other.Friction)
			assert.Zero(t, other.Restitution)
		})
	}
}

func TestEdgeSyncPanicsOnMissingEdge(t *testing.T) {
	w := newTestWorld(t)
	_, p := spawnTestPlayer(t, w, mgl64.Vec2{})
	require.True(t, ecs.DestroyEntity(w, ecs.Entity(p.Edges[component.EdgeTop])))

	assert.Panics(t, func() { NewEdgeSyncSystem().Update(w) })
}

func TestPlayerMaterialRevision(t *testing.T) {
	w := newTestWorld(t)
	e, p := spawnTestPlayer(t, w, mgl64.Vec2{})
	mat := &component.PlayerMaterial{}
	require.NoError(t, ecs.Add(w, e, component.PlayerMaterialComponent.Kind(), mat))
	sys := NewPlayerMaterialSystem()

	sys.Update(w)
	assert.Zero(t, mat.Revision, "all-none projection is already current")

	p.Effects[component.EdgeRight] = component.SideEffectThorns
	sys.Update(w)
	assert.Equal(t, uint64(1), mat.Revision)
	assert.Equal(t, [component.EdgeCount]uint32{0, component.SideEffectThorns.Index(), 0, 0}, mat.EffectIndex)

	sys.Update(w)
	assert.Equal(t, uint64(1), mat.Revision)
}
