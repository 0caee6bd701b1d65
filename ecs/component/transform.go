package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is a body pose in world units, y up, rotation in radians
// counter-clockwise.
type Transform struct {
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

func (t Transform) Position() mgl64.Vec2 {
	return mgl64.Vec2{t.X, t.Y}
}

// Apply maps a local point into world space.
func (t Transform) Apply(local mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Rotate2D(t.Rotation).Mul2x1(local).Add(t.Position())
}

var TransformComponent = NewComponent[Transform]()
