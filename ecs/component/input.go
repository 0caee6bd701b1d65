package component

// Input stores per-tick key state for a player.
type Input struct {
	Left  bool
	Right bool
	Jump  bool
	// Spin keys are edge-triggered and also request a jump.
	SpinUp   bool
	SpinDown bool
}

var InputComponent = NewComponent[Input]()
