package scheduling

import "time"

// ViolationKind identifies a scheduling rule that a proposed appointment broke.
type ViolationKind string

const (
	// ViolationEndBeforeStart indicates the end instant does not follow the start.
	ViolationEndBeforeStart ViolationKind = "end_before_start"
	// ViolationAppointmentInPast indicates the appointment starts before now.
	ViolationAppointmentInPast ViolationKind = "appointment_in_past"
	// ViolationOutsideBusinessHours indicates the appointment leaves the business window.
	ViolationOutsideBusinessHours ViolationKind = "outside_business_hours"
	// ViolationOverlapsAppointment indicates a collision with another appointment
	// for the same customer.
	ViolationOverlapsAppointment ViolationKind = "overlaps_appointment"
)

// Violation records one broken rule with enough context for the caller to
// render a specific message. ConflictingID is set only for overlap violations.
type Violation struct {
	Kind          ViolationKind
	ConflictingID string
}

// Result is the outcome of a validation pass. It is a plain value; rule
// violations are never signalled through errors.
type Result struct {
	Violations []Violation
}

// Accepted reports whether no rule was violated.
func (r Result) Accepted() bool {
	return len(r.Violations) == 0
}

// Has reports whether the result contains a violation of the given kind.
func (r Result) Has(kind ViolationKind) bool {
	for _, v := range r.Violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

// Validator decides whether a proposed appointment is legal to save.
type Validator struct {
	Hours BusinessHours
}

// NewValidator builds a validator for the given business hours policy.
func NewValidator(hours BusinessHours) Validator {
	return Validator{Hours: hours}
}

// Validate evaluates the proposed appointment against the frozen snapshot of
// existing appointments for the same customer. Rules run in a fixed order and
// every broken rule is collected so the caller can report all problems in one
// pass. When editing, excludeID names the proposal's own persisted record so
// it never conflicts with itself.
func (v Validator) Validate(proposed Appointment, existing []Appointment, nowUTC time.Time, excludeID string) Result {
	var result Result

	if !proposed.End.After(proposed.Start) {
		result.Violations = append(result.Violations, Violation{Kind: ViolationEndBeforeStart})
	}

	if proposed.Start.Before(nowUTC) {
		result.Violations = append(result.Violations, Violation{Kind: ViolationAppointmentInPast})
	}

	if !v.withinBusinessHours(proposed) {
		result.Violations = append(result.Violations, Violation{Kind: ViolationOutsideBusinessHours})
	}

	for _, other := range existing {
		if excludeID != "" && other.ID == excludeID {
			continue
		}
		if other.CustomerID != proposed.CustomerID {
			continue
		}
		if proposed.Overlaps(other) {
			result.Violations = append(result.Violations, Violation{
				Kind:          ViolationOverlapsAppointment,
				ConflictingID: other.ID,
			})
		}
	}

	return result
}

// withinBusinessHours checks that both instants fall inside the configured
// window on an operating day, evaluated in the business timezone. The start
// must land in [open, close) and the end in (open, close]: ending exactly at
// close is allowed. Both instants must share one business-local date, so no
// appointment spans the window close into the next day.
func (v Validator) withinBusinessHours(proposed Appointment) bool {
	if proposed.Start.IsZero() || proposed.End.IsZero() {
		return false
	}

	loc := v.Hours.location()
	start := proposed.Start.In(loc)
	end := proposed.End.In(loc)

	if !v.Hours.operatesOn(start.Weekday()) || !v.Hours.operatesOn(end.Weekday()) {
		return false
	}

	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy != ey || sm != em || sd != ed {
		return false
	}

	startTod := TimeOfDay{Hour: start.Hour(), Minute: start.Minute()}
	endTod := TimeOfDay{Hour: end.Hour(), Minute: end.Minute()}

	if startTod.Before(v.Hours.Open) || !startTod.Before(v.Hours.Close) {
		return false
	}
	if !endTod.After(v.Hours.Open) || endTod.After(v.Hours.Close) {
		return false
	}

	return true
}
