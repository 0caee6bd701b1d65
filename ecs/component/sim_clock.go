package component

// SimClock is the singleton fixed-step clock. Delta is in seconds.
type SimClock struct {
	Tick  uint64
	Delta float64
}

var SimClockComponent = NewComponent[SimClock]()
