package component

import "github.com/go-gl/mathgl/mgl64"

// PhysicsConfig is the world-wide physics setup. Gravity also defines "down"
// for the player controllers.
type PhysicsConfig struct {
	Gravity    mgl64.Vec2
	Iterations int
}

func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{Gravity: mgl64.Vec2{0, -9.8}, Iterations: 10}
}

// GravityDirection is the unit vector pointing down. Zero gravity falls
// back to -Y.
func (c PhysicsConfig) GravityDirection() mgl64.Vec2 {
	if c.Gravity.Len() < 1e-9 {
		return mgl64.Vec2{0, -1}
	}
	return c.Gravity.Normalize()
}

var PhysicsConfigComponent = NewComponent[PhysicsConfig]()
