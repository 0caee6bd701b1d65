package system

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/sideeffect/ecs"
	"github.com/milk9111/sideeffect/ecs/component"
)

const (
	collisionTypePlayer cp.CollisionType = iota + 1
	collisionTypeBonus
	collisionTypeMonster
	collisionTypeSolid
)

const (
	defaultBodySize = 1.0
	defaultMass     = 1.0
)

// PhysicsSystem owns the Chipmunk space. It mirrors entities into bodies,
// applies the impulses queued by the gameplay systems, steps the space and
// writes poses and contacts back into the world.
type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool

	entities    map[ecs.Entity]*bodyInfo
	shapeOwners map[*cp.Shape]ecs.Entity
	edgeShapes  map[ecs.Entity]*edgeShape

	impulses map[ecs.Entity]*pendingImpulse
	contacts map[contactPair]*contactState
}

type bodyInfo struct {
	body      *cp.Body
	mainShape *cp.Shape
	shapes    []*cp.Shape
	edges     []ecs.Entity
	static    bool
}

type edgeShape struct {
	shape       *cp.Shape
	friction    float64
	restitution float64
}

type pendingImpulse struct {
	linear []appliedImpulse
	torque float64
}

type appliedImpulse struct {
	impulse mgl64.Vec2
	point   mgl64.Vec2
}

type contactPair struct {
	a, b ecs.Entity
}

type contactState struct {
	shapes   int
	reported bool
}

func NewPhysicsSystem() *PhysicsSystem {
	ps := &PhysicsSystem{
		entities:    make(map[ecs.Entity]*bodyInfo),
		shapeOwners: make(map[*cp.Shape]ecs.Entity),
		edgeShapes:  make(map[ecs.Entity]*edgeShape),
		impulses:    make(map[ecs.Entity]*pendingImpulse),
		contacts:    make(map[contactPair]*contactState),
	}
	ps.space = newSpace(component.DefaultPhysicsConfig())
	return ps
}

func newSpace(cfg component.PhysicsConfig) *cp.Space {
	space := cp.NewSpace()
	if cfg.Iterations > 0 {
		space.Iterations = uint(cfg.Iterations)
	}
	space.SetGravity(toVector(cfg.Gravity))
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	dt := simDelta(w)
	if dt <= 0 {
		return
	}

	cfg := physicsConfig(w)
	ps.space.SetGravity(toVector(cfg.Gravity))
	if cfg.Iterations > 0 {
		ps.space.Iterations = uint(cfg.Iterations)
	}

	ps.Sync(w)
	ps.syncEdgeCoefficients(w)
	ps.applyImpulses()

	ps.space.Step(dt)

	ps.syncTransforms(w)
	ps.emitContacts(w)
}

// Sync creates bodies for new physics entities and drops those whose entity
// is gone. It runs as part of Update and may be called directly after a
// scene is spawned so queries work on the first tick.
func (ps *PhysicsSystem) Sync(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.ensureHandlers()
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if info := ps.entities[e]; info != nil {
			if bodyComp.Body == nil {
				bodyComp.Body = info.body
				bodyComp.Shape = info.mainShape
			}
			return
		}

		info := ps.createBodyInfo(w, e, *transform, *bodyComp)
		if info == nil {
			return
		}
		ps.entities[e] = info
		bodyComp.Body = info.body
		bodyComp.Shape = info.mainShape
	})
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}
	for _, other := range []cp.CollisionType{collisionTypeBonus, collisionTypeMonster} {
		handler := ps.space.NewCollisionHandler(collisionTypePlayer, other)
		handler.UserData = ps
		handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
			sys, ok := userData.(*PhysicsSystem)
			if !ok || sys == nil {
				return true
			}
			if pair, ok := sys.pairFor(arb); ok {
				st := sys.contacts[pair]
				if st == nil {
					st = &contactState{}
					sys.contacts[pair] = st
				}
				st.shapes++
			}
			return true
		}
		handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
			sys, ok := userData.(*PhysicsSystem)
			if !ok || sys == nil {
				return
			}
			if pair, ok := sys.pairFor(arb); ok {
				sys.releaseContact(pair)
			}
		}
	}
	ps.handlersReady = true
}

func (ps *PhysicsSystem) pairFor(arb *cp.Arbiter) (contactPair, bool) {
	shapeA, shapeB := arb.Shapes()
	a, okA := ps.shapeOwners[shapeA]
	b, okB := ps.shapeOwners[shapeB]
	if !okA || !okB || a == b {
		return contactPair{}, false
	}
	if b < a {
		a, b = b, a
	}
	return contactPair{a: a, b: b}, true
}

func (ps *PhysicsSystem) releaseContact(pair contactPair) {
	st := ps.contacts[pair]
	if st == nil {
		return
	}
	st.shapes--
	if st.shapes <= 0 {
		delete(ps.contacts, pair)
	}
}

func shapeFilter(group ecs.Entity, layer component.CollisionLayer) cp.ShapeFilter {
	mask := layer.Mask
	if mask == 0 {
		mask = math.MaxUint32
	}
	category := layer.Category
	if category == 0 {
		category = component.CategoryWall
	}
	return cp.ShapeFilter{Group: uint(group), Categories: uint(category), Mask: uint(mask)}
}

func defaultLayer(w *ecs.World, e ecs.Entity) component.CollisionLayer {
	if layer, ok := ecs.Get(w, e, component.CollisionLayerComponent.Kind()); ok {
		return *layer
	}
	switch {
	case ecs.Has(w, e, component.PlayerComponent.Kind()):
		return component.CollisionLayer{Category: component.CategoryPlayer, Mask: component.MaskPlayer}
	case ecs.Has(w, e, component.BonusComponent.Kind()):
		return component.CollisionLayer{Category: component.CategoryBonus, Mask: component.MaskBonus}
	case ecs.Has(w, e, component.MonsterComponent.Kind()):
		return component.CollisionLayer{Category: component.CategoryMonster, Mask: component.MaskMonster}
	}
	return component.CollisionLayer{Category: component.CategoryWall, Mask: component.MaskWall}
}

func collisionTypeFor(w *ecs.World, e ecs.Entity) cp.CollisionType {
	switch {
	case ecs.Has(w, e, component.PlayerComponent.Kind()):
		return collisionTypePlayer
	case ecs.Has(w, e, component.BonusComponent.Kind()):
		return collisionTypeBonus
	case ecs.Has(w, e, component.MonsterComponent.Kind()):
		return collisionTypeMonster
	}
	return collisionTypeSolid
}

func (ps *PhysicsSystem) createBodyInfo(w *ecs.World, e ecs.Entity, transform component.Transform, bodyComp component.PhysicsBody) *bodyInfo {
	if ps.space == nil {
		return nil
	}

	width, height, radius := bodyComp.Width, bodyComp.Height, bodyComp.Radius
	if radius <= 0 && (width <= 0 || height <= 0) {
		width, height = defaultBodySize, defaultBodySize
	}

	player := ecs.Has(w, e, component.PlayerComponent.Kind())
	var group ecs.Entity
	if player {
		group = e
	}
	filter := shapeFilter(group, defaultLayer(w, e))
	collisionType := collisionTypeFor(w, e)
	center := transform.Position()

	info := &bodyInfo{static: bodyComp.Static}

	if bodyComp.Static {
		var shape *cp.Shape
		if radius > 0 {
			shape = cp.NewCircle(ps.space.StaticBody, radius, toVector(center))
		} else {
			// static colliders are axis aligned in world space
			bb := cp.BB{L: center.X() - width/2, B: center.Y() - height/2, R: center.X() + width/2, T: center.Y() + height/2}
			shape = cp.NewBox2(ps.space.StaticBody, bb, bodyComp.CornerRadius)
		}
		ps.configureShape(shape, e, bodyComp, filter, collisionType)
		info.body = ps.space.StaticBody
		info.mainShape = shape
		info.shapes = []*cp.Shape{shape}
		return info
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = defaultMass
	}

	var moment float64
	switch {
	case bodyComp.FixedRotation:
		moment = math.Inf(1)
	case radius > 0:
		moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
	default:
		moment = cp.MomentForBox(mass, width+2*bodyComp.CornerRadius, height+2*bodyComp.CornerRadius)
	}

	body := cp.NewBody(mass, moment)
	body.SetPosition(toVector(center))
	body.SetAngle(transform.Rotation)
	ps.space.AddBody(body)

	var shape *cp.Shape
	if radius > 0 {
		shape = cp.NewCircle(body, radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, width, height, bodyComp.CornerRadius)
	}
	ps.configureShape(shape, e, bodyComp, filter, collisionType)

	info.body = body
	info.mainShape = shape
	info.shapes = []*cp.Shape{shape}

	if player {
		ps.attachEdges(w, e, body, filter, info)
	}
	return info
}

func (ps *PhysicsSystem) configureShape(shape *cp.Shape, owner ecs.Entity, bodyComp component.PhysicsBody, filter cp.ShapeFilter, collisionType cp.CollisionType) {
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetSensor(bodyComp.Sensor)
	shape.SetFilter(filter)
	shape.SetCollisionType(collisionType)
	ps.space.AddShape(shape)
	ps.shapeOwners[shape] = owner
}

// attachEdges adds one thin rounded box per player side. Each box belongs to
// the player body, so contacts on it count as player contacts.
func (ps *PhysicsSystem) attachEdges(w *ecs.World, player ecs.Entity, body *cp.Body, filter cp.ShapeFilter, info *bodyInfo) {
	p, ok := ecs.Get(w, player, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	for _, raw := range p.Edges {
		edgeEntity := ecs.Entity(raw)
		edge, ok := ecs.Get(w, edgeEntity, component.EdgeComponent.Kind())
		if !ok {
			continue
		}
		shape := cp.NewBox2(body, edgeBounds(*edge), edge.Radius)
		shape.SetFriction(edge.Friction)
		shape.SetElasticity(edge.Restitution)
		shape.SetFilter(filter)
		shape.SetCollisionType(collisionTypePlayer)
		ps.space.AddShape(shape)

		ps.shapeOwners[shape] = player
		ps.edgeShapes[edgeEntity] = &edgeShape{shape: shape, friction: edge.Friction, restitution: edge.Restitution}
		info.shapes = append(info.shapes, shape)
		info.edges = append(info.edges, edgeEntity)
	}
}

// edgeBounds is the body-local box of an edge collider.
func edgeBounds(edge component.Edge) cp.BB {
	dir := component.EdgeDirection(edge.Index)
	tangent := mgl64.Vec2{dir.Y(), dir.X()}
	center := dir.Mul(edge.Inset)
	half := tangent.Mul(edge.HalfWidth).Add(dir.Mul(edge.Thickness / 2))
	hx, hy := math.Abs(half.X()), math.Abs(half.Y())
	return cp.BB{L: center.X() - hx, B: center.Y() - hy, R: center.X() + hx, T: center.Y() + hy}
}

// syncEdgeCoefficients copies edge materials onto their shapes when an edge
// has changed since the last step.
func (ps *PhysicsSystem) syncEdgeCoefficients(w *ecs.World) {
	ecs.ForEach(w, component.EdgeComponent.Kind(), func(e ecs.Entity, edge *component.Edge) {
		es := ps.edgeShapes[e]
		if es == nil {
			return
		}
		if es.friction != edge.Friction {
			es.shape.SetFriction(edge.Friction)
			es.friction = edge.Friction
		}
		if es.restitution != edge.Restitution {
			es.shape.SetElasticity(edge.Restitution)
			es.restitution = edge.Restitution
		}
	})
}

func (ps *PhysicsSystem) applyImpulses() {
	for e, pending := range ps.impulses {
		info := ps.entities[e]
		if info == nil || info.static || info.body == nil {
			continue
		}
		for _, imp := range pending.linear {
			info.body.ApplyImpulseAtWorldPoint(toVector(imp.impulse), toVector(imp.point))
		}
		if pending.torque != 0 {
			moment := info.body.Moment()
			if moment > 0 && !math.IsInf(moment, 1) {
				info.body.SetAngularVelocity(info.body.AngularVelocity() + pending.torque/moment)
			}
		}
	}
	clear(ps.impulses)
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Static || bodyComp.Body == nil {
			return
		}
		pos := bodyComp.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = bodyComp.Body.Angle()
	})
}

// emitContacts publishes every overlapping pair once per tick, ordered by
// entity handle.
func (ps *PhysicsSystem) emitContacts(w *ecs.World) {
	if len(ps.contacts) == 0 {
		return
	}
	pairs := make([]contactPair, 0, len(ps.contacts))
	for pair := range ps.contacts {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].a != pairs[j].a {
			return pairs[i].a < pairs[j].a
		}
		return pairs[i].b < pairs[j].b
	})
	for _, pair := range pairs {
		st := ps.contacts[pair]
		w.Events().Push(ecs.Event{Type: EventContact, Data: ContactEvent{A: pair.a, B: pair.b, Started: !st.reported}})
		st.reported = true
	}
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if ecs.IsAlive(w, e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		for _, shape := range info.shapes {
			if shape == nil {
				continue
			}
			ps.space.RemoveShape(shape)
			delete(ps.shapeOwners, shape)
		}
		for _, edge := range info.edges {
			delete(ps.edgeShapes, edge)
		}
		if info.body != nil && !info.static {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
		delete(ps.impulses, e)
	}

	for pair := range ps.contacts {
		if !ecs.IsAlive(w, pair.a) || !ecs.IsAlive(w, pair.b) {
			delete(ps.contacts, pair)
		}
	}
}

func (ps *PhysicsSystem) pending(e ecs.Entity) *pendingImpulse {
	p := ps.impulses[e]
	if p == nil {
		p = &pendingImpulse{}
		ps.impulses[e] = p
	}
	return p
}

func (ps *PhysicsSystem) ApplyImpulse(e ecs.Entity, impulse, point mgl64.Vec2) {
	if ps == nil {
		return
	}
	p := ps.pending(e)
	p.linear = append(p.linear, appliedImpulse{impulse: impulse, point: point})
}

func (ps *PhysicsSystem) ApplyTorqueImpulse(e ecs.Entity, torque float64) {
	if ps == nil {
		return
	}
	ps.pending(e).torque += torque
}

func (ps *PhysicsSystem) Velocity(e ecs.Entity) (mgl64.Vec2, float64) {
	if ps == nil {
		return mgl64.Vec2{}, 0
	}
	info := ps.entities[e]
	if info == nil || info.static || info.body == nil {
		return mgl64.Vec2{}, 0
	}
	return fromVector(info.body.Velocity()), info.body.AngularVelocity()
}

func (ps *PhysicsSystem) MassProperties(e ecs.Entity) (float64, float64) {
	if ps == nil {
		return 0, 0
	}
	info := ps.entities[e]
	if info == nil || info.static || info.body == nil {
		return 0, 0
	}
	moment := info.body.Moment()
	if math.IsInf(moment, 1) {
		moment = 0
	}
	return info.body.Mass(), moment
}

func toVector(v mgl64.Vec2) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Y()}
}

func fromVector(v cp.Vector) mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}
