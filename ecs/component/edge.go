package component

import "github.com/go-gl/mathgl/mgl64"

// EdgeCount is the number of sides a player body has.
const EdgeCount = 4

// Edge indices, counter-clockwise starting at the bottom.
const (
	EdgeBottom = iota
	EdgeRight
	EdgeTop
	EdgeLeft
)

var edgeDirections = [EdgeCount]mgl64.Vec2{
	EdgeBottom: {0, -1},
	EdgeRight:  {1, 0},
	EdgeTop:    {0, 1},
	EdgeLeft:   {-1, 0},
}

var edgeNames = [EdgeCount]string{"bottom", "right", "top", "left"}

// EdgeDirection is the outward unit normal of edge i in the player's local frame.
func EdgeDirection(i int) mgl64.Vec2 {
	return edgeDirections[i]
}

// EdgeCenter is the centre of edge i on a unit body in the local frame.
func EdgeCenter(i int) mgl64.Vec2 {
	return edgeDirections[i].Mul(0.5)
}

func EdgeName(i int) string {
	if i < 0 || i >= EdgeCount {
		return "invalid"
	}
	return edgeNames[i]
}

// Edge is a child collider covering one side of a player. The physics
// system copies Friction and Restitution into the edge shape.
type Edge struct {
	Owner       uint64 // ecs.Entity is uint64
	Index       int
	Friction    float64
	Restitution float64
	// Offset and thickness of the edge shape from the owner centre.
	Inset     float64
	HalfWidth float64
	Thickness float64
	Radius    float64
}

var EdgeComponent = NewComponent[Edge]()
