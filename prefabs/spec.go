package prefabs

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// Vec2Spec accepts either `{x: 1, y: 2}` or `[1, 2]`.
type Vec2Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec2Spec) Vec() mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}

func (v *Vec2Spec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var pair []float64
		if err := value.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("vec2 must have 2 elements, got %d", len(pair))
		}
		v.X, v.Y = pair[0], pair[1]
		return nil
	case yaml.MappingNode:
		var raw struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		v.X, v.Y = raw.X, raw.Y
		return nil
	default:
		return fmt.Errorf("vec2 must be a mapping or a sequence")
	}
}

type PhysicsSpec struct {
	Gravity    Vec2Spec `yaml:"gravity"`
	Iterations int      `yaml:"iterations"`
}

func LoadPhysicsSpec() (*PhysicsSpec, error) {
	spec, err := LoadSpec[PhysicsSpec]("physics.yaml")
	if err != nil {
		return nil, err
	}
	if spec.Iterations <= 0 {
		spec.Iterations = 10
	}
	return &spec, nil
}
