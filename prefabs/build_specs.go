package prefabs

import (
	"gopkg.in/yaml.v3"

	"github.com/milk9111/sideeffect/ecs/component"
)

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type PhysicsBodyComponentSpec struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	Radius        float64 `yaml:"radius"`
	CornerRadius  float64 `yaml:"corner_radius"`
	Mass          float64 `yaml:"mass"`
	Friction      float64 `yaml:"friction"`
	Elasticity    float64 `yaml:"elasticity"`
	Static        bool    `yaml:"static"`
	Sensor        bool    `yaml:"sensor"`
	FixedRotation bool    `yaml:"fixed_rotation"`
}

type CollisionLayerComponentSpec struct {
	Category uint32 `yaml:"category"`
	Mask     uint32 `yaml:"mask"`
}

type ProbeComponentSpec struct {
	HalfWidth  float64 `yaml:"half_width"`
	HalfHeight float64 `yaml:"half_height"`
	Radius     float64 `yaml:"radius"`
}

// PlayerComponentSpec lists the starting effect per edge, in bottom, right,
// top, left order. Missing entries are empty edges.
type PlayerComponentSpec struct {
	Probe   ProbeComponentSpec     `yaml:"probe"`
	Effects []component.SideEffect `yaml:"effects"`
}

// EdgesComponentSpec sizes the four edge colliders. Their friction and
// restitution follow the effect each edge carries.
type EdgesComponentSpec struct {
	Inset     float64 `yaml:"inset"`
	HalfWidth float64 `yaml:"half_width"`
	Thickness float64 `yaml:"thickness"`
	Radius    float64 `yaml:"radius"`
}

type PlayerTuningComponentSpec struct {
	MaxSpeed               float64  `yaml:"max_speed"`
	SlipperyMaxSpeed       float64  `yaml:"slippery_max_speed"`
	MaxAcceleration        float64  `yaml:"max_acceleration"`
	MaxAngularAcceleration float64  `yaml:"max_angular_acceleration"`
	JumpImpulse            float64  `yaml:"jump_impulse"`
	SpinTorque             float64  `yaml:"spin_torque"`
	CenterOffset           Vec2Spec `yaml:"center_offset"`
	JumpProbeTolerance     float64  `yaml:"jump_probe_tolerance"`
	EdgeProbeTolerance     float64  `yaml:"edge_probe_tolerance"`
	CoyoteTime             float64  `yaml:"coyote_time"`
	FloorStickForce        float64  `yaml:"floor_stick_force"`
	CeilingStickForce      float64  `yaml:"ceiling_stick_force"`
	WallStickForce         float64  `yaml:"wall_stick_force"`
}

type BonusComponentSpec struct {
	Effect component.SideEffect `yaml:"effect"`
	Radius float64              `yaml:"radius"`
}

type MonsterComponentSpec struct {
	Patrol    *bool   `yaml:"patrol"`
	Direction float64 `yaml:"direction"`
	Speed     float64 `yaml:"speed"`
	Accel     float64 `yaml:"accel"`
	Script    string  `yaml:"script"`
	Knockback float64 `yaml:"knockback"`
	Lookahead float64 `yaml:"lookahead"`
}
