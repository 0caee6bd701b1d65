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

const testDt = 1.0 / 60.0

type recordedImpulse struct {
	entity  ecs.Entity
	impulse mgl64.Vec2
	point   mgl64.Vec2
}

// fakePhysics answers probes from a table keyed by direction and records
// every impulse it receives.
type fakePhysics struct {
	mass    float64
	inertia float64
	linvel  mgl64.Vec2
	angvel  float64

	hits map[[2]int]ProbeHit

	impulses []recordedImpulse
	torques  []float64
	probes   []mgl64.Vec2
}

func newFakePhysics() *fakePhysics {
	return &fakePhysics{mass: 1, inertia: 0.15, hits: map[[2]int]ProbeHit{}}
}

func dirKey(d mgl64.Vec2) [2]int {
	return [2]int{int(math.Round(d.X() * 1000)), int(math.Round(d.Y() * 1000))}
}

func (f *fakePhysics) hitAlong(dir mgl64.Vec2, distance float64) {
	f.hits[dirKey(dir)] = ProbeHit{Entity: 0, Distance: distance}
}

func (f *fakePhysics) Probe(_ ecs.Entity, _ component.ProbeShape, dir mgl64.Vec2, _ component.Transform, tolerance float64) (ProbeHit, bool) {
	f.probes = append(f.probes, dir)
	hit, ok := f.hits[dirKey(dir)]
	if !ok || hit.Distance > tolerance {
		return ProbeHit{}, false
	}
	return hit, true
}

func (f *fakePhysics) Velocity(ecs.Entity) (mgl64.Vec2, float64) {
	return f.linvel, f.angvel
}

func (f *fakePhysics) MassProperties(ecs.Entity) (float64, float64) {
	return f.mass, f.inertia
}

func (f *fakePhysics) ApplyImpulse(e ecs.Entity, impulse, point mgl64.Vec2) {
	f.impulses = append(f.impulses, recordedImpulse{entity: e, impulse: impulse, point: point})
}

func (f *fakePhysics) ApplyTorqueImpulse(_ ecs.Entity, torque float64) {
	f.torques = append(f.torques, torque)
}

func (f *fakePhysics) reset() {
	f.impulses = nil
	f.torques = nil
	f.probes = nil
}

// totalImpulse sums the linear impulses applied to e.
func (f *fakePhysics) totalImpulse(e ecs.Entity) mgl64.Vec2 {
	var sum mgl64.Vec2
	for _, imp := range f.impulses {
		if imp.entity == e {
			sum = sum.Add(imp.impulse)
		}
	}
	return sum
}

func newTestWorld(t *testing.T) *ecs.World {
	t.Helper()
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.SimClockComponent.Kind(), &component.SimClock{Delta: testDt}))
	cfg := component.DefaultPhysicsConfig()
	require.NoError(t, ecs.Add(w, e, component.PhysicsConfigComponent.Kind(), &cfg))
	return w
}

// spawnTestPlayer adds a player with four edge children at pos.
func spawnTestPlayer(t *testing.T, w *ecs.World, pos mgl64.Vec2) (ecs.Entity, *component.Player) {
	t.Helper()
	e := ecs.CreateEntity(w)
	p := &component.Player{
		SinceSpin: 1,
		SinceJump: 1,
		Probe:     component.ProbeShape{HalfWidth: 0.4, HalfHeight: 0.4, Radius: 0.075},
	}
	for i := 0; i < component.EdgeCount; i++ {
		edgeEntity := ecs.CreateEntity(w)
		require.NoError(t, ecs.Add(w, edgeEntity, component.EdgeComponent.Kind(), &component.Edge{
			Owner:     uint64(e),
			Index:     i,
			Friction:  component.DefaultEdgeFriction,
			Inset:     0.475,
			HalfWidth: 0.45,
			Thickness: 0.02,
			Radius:    0.01,
		}))
		p.Edges[i] = uint64(edgeEntity)
	}
	require.NoError(t, ecs.Add(w, e, component.PlayerComponent.Kind(), p))
	require.NoError(t, ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}))
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X(), Y: pos.Y(), ScaleX: 1, ScaleY: 1}))
	tuning := component.DefaultPlayerTuning()
	require.NoError(t, ecs.Add(w, e, component.PlayerTuningComponent.Kind(), &tuning))
	return e, p
}

func pushContact(w *ecs.World, a, b ecs.Entity, started bool) {
	if b < a {
		a, b = b, a
	}
	w.Events().Push(ecs.Event{Type: EventContact, Data: ContactEvent{A: a, B: b, Started: started}})
}

// assertVecNear compares vectors component-wise with an absolute tolerance.
func assertVecNear(t *testing.T, want, got mgl64.Vec2) {
	t.Helper()
	assert.InDelta(t, want.X(), got.X(), 1e-9, "x of %v", got)
	assert.InDelta(t, want.Y(), got.Y(), 1e-9, "y of %v", got)
}
