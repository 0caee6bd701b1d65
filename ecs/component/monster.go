package component

// Monster is a patrolling enemy. Direction is -1 or +1 along the lateral axis.
type Monster struct {
	Patrol    bool
	Direction float64
	Speed     float64
	Accel     float64
	Script    string
	Knockback float64
	// Lookahead is how far ahead of the body the floor probe starts.
	Lookahead float64
}

var MonsterComponent = NewComponent[Monster]()
