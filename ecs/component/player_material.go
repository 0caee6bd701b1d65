package component

// PlayerMaterial is the render-facing projection of a player's edge effects.
type PlayerMaterial struct {
	EffectIndex [EdgeCount]uint32
	Revision    uint64
}

// ProjectEffects maps effects to material variant indices.
func ProjectEffects(effects [EdgeCount]SideEffect) [EdgeCount]uint32 {
	var out [EdgeCount]uint32
	for i, eff := range effects {
		out[i] = eff.Index()
	}
	return out
}

var PlayerMaterialComponent = NewComponent[PlayerMaterial]()
