package deque

// Adjustment is what a Growable deque does once one of its ends runs out of slack.
type Adjustment int

const (
	// Grow doubles the store and re-centers the live range.
	Grow Adjustment = iota
	// Compact moves the live range to a quarter of the current store, no allocation.
	Compact
)

func (a Adjustment) String() string {
	switch a {
	case Grow:
		return "Grow"
	case Compact:
		return "Compact"
	default:
		return "Unknown"
	}
}

// CapacityState is the snapshot handed to a CapacityPolicy.
type CapacityState struct {
	Len      int
	Capacity int
	Front    int
	Back     int
}

// CapacityPolicy decides between Grow and Compact. It is only consulted when a
// push finds its end exhausted, so "do nothing" is never an option.
type CapacityPolicy func(state CapacityState) Adjustment

// HalfFullPolicy compacts while less than half of the store is live and grows otherwise.
func HalfFullPolicy(state CapacityState) Adjustment {
	if state.Len < state.Capacity/2 {
		return Compact
	}
	return Grow
}

// AlwaysGrowPolicy never reuses slack, trading memory for fewer copies.
func AlwaysGrowPolicy(CapacityState) Adjustment {
	return Grow
}
