package component

// PlayerState is a boolean flag with a clock that restarts on every real
// transition. Repeating the current state is a no-op.
type PlayerState struct {
	Active  bool
	Elapsed float64
}

// Advance accumulates time regardless of the flag value.
func (s *PlayerState) Advance(dt float64) {
	s.Elapsed += dt
}

func (s *PlayerState) Set(active bool) {
	if active {
		s.Activate()
	} else {
		s.Deactivate()
	}
}

func (s *PlayerState) Activate() {
	if !s.Active {
		s.Active = true
		s.Elapsed = 0
	}
}

func (s *PlayerState) Deactivate() {
	if s.Active {
		s.Active = false
		s.Elapsed = 0
	}
}

// SinceActivated is the time spent active, or 0 while inactive.
func (s PlayerState) SinceActivated() float64 {
	if s.Active {
		return s.Elapsed
	}
	return 0
}

// SinceDeactivated is the time spent inactive, or 0 while active.
func (s PlayerState) SinceDeactivated() float64 {
	if s.Active {
		return 0
	}
	return s.Elapsed
}
