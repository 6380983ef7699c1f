package scheduling

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a civil wall-clock time with minute precision, independent of
// any date or timezone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a "15:04" formatted value.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("scheduling: invalid time of day %q", value)
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// Minutes returns the offset from midnight in minutes.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is strictly earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// After reports whether t is strictly later in the day than other.
func (t TimeOfDay) After(other TimeOfDay) bool {
	return t.Minutes() > other.Minutes()
}

// String renders the value in "15:04" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// BusinessHours is the injected policy describing when appointments may take
// place. All comparisons happen in Location, which carries real IANA DST
// rules rather than a fixed offset.
type BusinessHours struct {
	Location *time.Location
	Open     TimeOfDay
	Close    TimeOfDay
	Days     []time.Weekday
}

// DefaultBusinessHours returns the stock policy: 08:00-22:00 US Eastern,
// Monday through Friday.
func DefaultBusinessHours() BusinessHours {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return BusinessHours{
		Location: loc,
		Open:     TimeOfDay{Hour: 8},
		Close:    TimeOfDay{Hour: 22},
		Days:     []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
	}
}

// location returns the configured location, defaulting to UTC so a partially
// built policy never panics.
func (h BusinessHours) location() *time.Location {
	if h.Location == nil {
		return time.UTC
	}
	return h.Location
}

// operatesOn reports whether the policy allows appointments on the weekday.
func (h BusinessHours) operatesOn(day time.Weekday) bool {
	for _, d := range h.Days {
		if d == day {
			return true
		}
	}
	return false
}

// ParseWeekdays parses a comma separated weekday list such as "Mon,Tue,Wed".
func ParseWeekdays(value string) ([]time.Weekday, error) {
	names := map[string]time.Weekday{
		"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
		"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
		"sat": time.Saturday,
	}

	parts := strings.Split(value, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if len(part) > 3 {
			part = part[:3]
		}
		day, ok := names[part]
		if !ok {
			return nil, fmt.Errorf("scheduling: unknown weekday %q", part)
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("scheduling: no weekdays in %q", value)
	}
	return days, nil
}
