package component

// ProbeShape is the rounded box used for contact probing. It is kept
// separate from the main collider so the probe tolerance can stay tight.
type ProbeShape struct {
	HalfWidth  float64
	HalfHeight float64
	Radius     float64
}

type Player struct {
	ID uint32

	Moving        PlayerState
	Landed        PlayerState
	InAir         PlayerState
	WallStick     PlayerState
	AnyStick      PlayerState
	SlipperyBelow PlayerState

	SinceSpin float64
	SinceJump float64

	pendingSpin    float64
	hasPendingSpin bool

	Effects [EdgeCount]SideEffect
	Edges   [EdgeCount]uint64 // ecs.Entity is uint64
	Probe   ProbeShape
}

// RequestSpin schedules a torque for the next airborne tick. A newer request
// replaces an unconsumed one.
func (p *Player) RequestSpin(torque float64) {
	p.pendingSpin = torque
	p.hasPendingSpin = true
}

// TakePendingSpin consumes the scheduled torque, if any.
func (p *Player) TakePendingSpin() (float64, bool) {
	if !p.hasPendingSpin {
		return 0, false
	}
	torque := p.pendingSpin
	p.pendingSpin = 0
	p.hasPendingSpin = false
	return torque, true
}

func (p *Player) HasPendingSpin() bool {
	return p.hasPendingSpin
}

// AdvanceTimers moves every flag clock and both counters forward.
func (p *Player) AdvanceTimers(dt float64) {
	p.Moving.Advance(dt)
	p.Landed.Advance(dt)
	p.InAir.Advance(dt)
	p.WallStick.Advance(dt)
	p.AnyStick.Advance(dt)
	p.SlipperyBelow.Advance(dt)
	p.SinceSpin += dt
	p.SinceJump += dt
}

// FreeEdges reports how many edges carry no effect.
func (p *Player) FreeEdges() int {
	n := 0
	for _, eff := range p.Effects {
		if eff == SideEffectNone {
			n++
		}
	}
	return n
}

var PlayerComponent = NewComponent[Player]()
