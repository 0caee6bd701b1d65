package component

// SpawnPoint is where a player returns to after leaving the level bounds.
type SpawnPoint struct {
	X float64
	Y float64
}

var SpawnPointComponent = NewComponent[SpawnPoint]()
