package spread

// PointStatus is the per-tick state of one grid point, in grid order.
type PointStatus struct {
	ReachedA bool `json:"reached_a"`
	ReachedB bool `json:"reached_b"`
	// Contact marks a reached point that has line of sight to a point
	// reached by the opposing team. Sticky: reach sets only grow and the
	// geometry is static, so sight once gained is never lost.
	Contact bool `json:"contact"`
}

// TickRecord is the full grid state at one simulated time step.
// Produced once, never mutated.
type TickRecord struct {
	Tick   int           `json:"tick"`
	Points []PointStatus `json:"points"`
}

// Result is the ordered tick series of one simulation run.
type Result struct {
	TeamA string       `json:"team_a"`
	TeamB string       `json:"team_b"`
	Ticks []TickRecord `json:"ticks"`
}

// FirstContactTick returns the earliest tick with any mutual-visibility
// contact, or -1 if the teams never gain sight of each other.
func (r *Result) FirstContactTick() int {
	for _, rec := range r.Ticks {
		for _, p := range rec.Points {
			if p.Contact {
				return rec.Tick
			}
		}
	}
	return -1
}
