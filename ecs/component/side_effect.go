package component

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// SideEffect is a status modifier attached to one player edge.
type SideEffect uint8

const (
	SideEffectNone SideEffect = iota
	// Sticks to walls and ceilings.
	SideEffectSticky
	SideEffectSlippery
	SideEffectShield
	SideEffectThorns
	SideEffectFlashlight
	SideEffectLaser
	// Bouncy edge; only changes restitution.
	SideEffectSpring
)

const (
	DefaultEdgeFriction  = 0.3
	StickyEdgeFriction   = 0.6
	SlipperyEdgeFriction = 0.02
	SpringRestitution    = 0.75
)

var sideEffectNames = [...]string{
	SideEffectNone:       "none",
	SideEffectSticky:     "sticky",
	SideEffectSlippery:   "slippery",
	SideEffectShield:     "shield",
	SideEffectThorns:     "thorns",
	SideEffectFlashlight: "flashlight",
	SideEffectLaser:      "laser",
	SideEffectSpring:     "spring",
}

// Index selects the material variant for the effect.
func (s SideEffect) Index() uint32 {
	return uint32(s)
}

func (s SideEffect) String() string {
	if int(s) < len(sideEffectNames) {
		return sideEffectNames[s]
	}
	return fmt.Sprintf("SideEffect(%d)", uint8(s))
}

// Friction is the coefficient an edge carrying s should have.
func (s SideEffect) Friction() float64 {
	switch s {
	case SideEffectSticky:
		return StickyEdgeFriction
	case SideEffectSlippery:
		return SlipperyEdgeFriction
	default:
		return DefaultEdgeFriction
	}
}

// Restitution is the bounce coefficient an edge carrying s should have.
func (s SideEffect) Restitution() float64 {
	if s == SideEffectSpring {
		return SpringRestitution
	}
	return 0
}

func ParseSideEffect(name string) (SideEffect, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return SideEffectNone, nil
	}
	for i, candidate := range sideEffectNames {
		if candidate == n {
			return SideEffect(i), nil
		}
	}
	return SideEffectNone, fmt.Errorf("unknown side effect %q", name)
}

func (s *SideEffect) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("side effect must be a string")
	}
	parsed, err := ParseSideEffect(value.Value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s SideEffect) MarshalYAML() (any, error) {
	return s.String(), nil
}
