package component

import "github.com/go-gl/mathgl/mgl64"

// PlayerTuning holds the locomotion constants for a player. It is loaded
// from the player prefab and replaced on hot reload.
type PlayerTuning struct {
	MaxSpeed               float64
	SlipperyMaxSpeed       float64
	MaxAcceleration        float64
	MaxAngularAcceleration float64
	JumpImpulse            float64
	SpinTorque             float64
	CenterOffset           mgl64.Vec2

	JumpProbeTolerance float64
	EdgeProbeTolerance float64
	CoyoteTime         float64

	FloorStickForce   float64
	CeilingStickForce float64
	WallStickForce    float64
}

func DefaultPlayerTuning() PlayerTuning {
	return PlayerTuning{
		MaxSpeed:               2.5,
		SlipperyMaxSpeed:       4.0,
		MaxAcceleration:        14.0,
		MaxAngularAcceleration: 35.0,
		JumpImpulse:            4.0,
		SpinTorque:             3.0,
		JumpProbeTolerance:     0.027,
		EdgeProbeTolerance:     0.045,
		CoyoteTime:             0.1,
		FloorStickForce:        5.0,
		CeilingStickForce:      20.0,
		WallStickForce:         20.0,
	}
}

var PlayerTuningComponent = NewComponent[PlayerTuning]()
