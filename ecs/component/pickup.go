package component

// Bonus is a pickup pad carrying one side effect. It is armed until the
// effect is taken, exactly once.
type Bonus struct {
	Effect SideEffect
	Armed  bool
	Radius float64
}

func NewBonus(effect SideEffect) *Bonus {
	return &Bonus{Effect: effect, Armed: effect != SideEffectNone, Radius: 0.25}
}

// Take moves the effect out of the bonus.
func (b *Bonus) Take() (SideEffect, bool) {
	if b == nil || !b.Armed {
		return SideEffectNone, false
	}
	eff := b.Effect
	b.Effect = SideEffectNone
	b.Armed = false
	return eff, true
}

// Used reports whether the effect has been consumed.
func (b *Bonus) Used() bool {
	return b == nil || !b.Armed
}

var BonusComponent = NewComponent[Bonus]()
