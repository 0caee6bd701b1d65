package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/sideeffect/common"
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
)

// probeFaceShrink pulls the side samples of the leading face inward so a
// probe along a wall does not report the floor the player rests on.
const probeFaceShrink = 0.8

// probeBackoff starts each sweep inside the probe box, so a body resting
// within the solver's slop of a surface still registers it.
const probeBackoff = 0.15

// Probe sweeps the rounded probe box along dir by sampling circles on its
// leading face. Only surfaces facing against dir count as hits.
func (ps *PhysicsSystem) Probe(exclude ecs.Entity, shape component.ProbeShape, dir mgl64.Vec2, from component.Transform, tolerance float64) (ProbeHit, bool) {
	if ps == nil || ps.space == nil || tolerance <= 0 || dir.Len() < 1e-9 {
		return ProbeHit{}, false
	}
	dir = dir.Normalize()

	filter := cp.ShapeFilter{
		Group:      uint(exclude),
		Categories: uint(component.CategoryPlayer),
		Mask:       uint(component.MaskProbe),
	}

	origins := probeOrigins(shape, dir, from)
	segments := make([][2]cp.Vector, len(origins))
	var sweep cp.BB
	for i, origin := range origins {
		start := toVector(origin.Sub(dir.Mul(probeBackoff)))
		end := toVector(origin.Add(dir.Mul(tolerance)))
		segments[i] = [2]cp.Vector{start, end}
		bb := cp.NewBBForCircle(start, shape.Radius).Merge(cp.NewBBForCircle(end, shape.Radius))
		if i == 0 {
			sweep = bb
		} else {
			sweep = sweep.Merge(bb)
		}
	}

	// Space.SegmentQueryFirst prunes with the bare segment and skips shapes
	// only the radius reaches.
	var candidates []*cp.Shape
	ps.space.BBQuery(sweep, filter, func(s *cp.Shape, _ interface{}) {
		if !s.Sensor() {
			candidates = append(candidates, s)
		}
	}, nil)

	best := ProbeHit{Distance: math.Inf(1)}
	found := false
	for _, seg := range segments {
		for _, candidate := range candidates {
			var info cp.SegmentQueryInfo
			if !candidate.SegmentQuery(seg[0], seg[1], shape.Radius, &info) {
				continue
			}
			if fromVector(info.Normal).Dot(dir) >= 0 {
				continue
			}
			owner, ok := ps.shapeOwners[candidate]
			if !ok {
				continue
			}
			dist := math.Max(0, info.Alpha*(tolerance+probeBackoff)-probeBackoff)
			if dist < best.Distance || (dist == best.Distance && owner < best.Entity) {
				best = ProbeHit{Entity: owner, Distance: dist}
				found = true
			}
		}
	}
	return best, found
}

// probeOrigins returns world-space sample points on the face of the probe
// box that leads along dir.
func probeOrigins(shape component.ProbeShape, dir mgl64.Vec2, from component.Transform) []mgl64.Vec2 {
	local := common.Rotate(dir, -from.Rotation)
	tangent := common.Perp(local)

	hw, hh := shape.HalfWidth, shape.HalfHeight
	candidates := [...]mgl64.Vec2{
		{-hw, -hh}, {0, -hh}, {hw, -hh},
		{hw, 0}, {hw, hh}, {0, hh},
		{-hw, hh}, {-hw, 0},
	}

	support := math.Inf(-1)
	for _, c := range candidates {
		support = math.Max(support, c.Dot(local))
	}

	out := make([]mgl64.Vec2, 0, 3)
	for _, c := range candidates {
		if c.Dot(local) < support-shape.Radius-1e-9 {
			continue
		}
		lateral := c.Dot(tangent)
		c = c.Sub(tangent.Mul(lateral * (1 - probeFaceShrink)))
		out = append(out, from.Apply(c))
	}
	return out
}
