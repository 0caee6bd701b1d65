package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Perp rotates v by +90 degrees. With v pointing down it yields "right".
func Perp(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-v.Y(), v.X()}
}

// Rotate turns v counter-clockwise by angle radians.
func Rotate(v mgl64.Vec2, angle float64) mgl64.Vec2 {
	return mgl64.Rotate2D(angle).Mul2x1(v)
}

// WrapAngle maps angle into [0, 2π).
func WrapAngle(angle float64) float64 {
	a := math.Mod(angle, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

// Cross is the z component of the 3D cross product of a and b.
func Cross(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}
