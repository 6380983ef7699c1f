package scheduling

import "time"

// Appointment is the minimal value the conflict engine evaluates. The full
// record with titles and audit fields lives in the application layer; the
// engine only needs identity, grouping, and the two instants.
//
// Start and End are always UTC. The invariant End > Start is enforced by the
// Validator, not by construction.
type Appointment struct {
	ID         string
	CustomerID string
	Start      time.Time
	End        time.Time
}

// Overlaps reports whether the half-open intervals [a.Start, a.End) and
// [other.Start, other.End) share at least one instant. Boundary touches
// (a.End == other.Start) do not overlap.
func (a Appointment) Overlaps(other Appointment) bool {
	return a.Start.Before(other.End) && other.Start.Before(a.End)
}
