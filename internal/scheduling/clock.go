package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidInstant is returned when a conversion receives a zero instant.
// Conversions never substitute a default for an absent value.
var ErrInvalidInstant = errors.New("scheduling: instant is required")

// Date is a civil calendar date without time or timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a "2006-01-02" formatted value.
func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return Date{}, fmt.Errorf("scheduling: invalid date %q", value)
	}
	return Date{Year: parsed.Year(), Month: parsed.Month(), Day: parsed.Day()}, nil
}

// String renders the value in "2006-01-02" form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// ToBusinessTime converts a UTC instant to wall-clock time in the business
// location. The returned value carries the location so callers can read the
// civil date and time directly. The offset applied depends on the date, so
// DST transitions are honored.
func ToBusinessTime(instant time.Time, loc *time.Location) (time.Time, error) {
	if instant.IsZero() {
		return time.Time{}, ErrInvalidInstant
	}
	if loc == nil {
		loc = time.UTC
	}
	return instant.In(loc), nil
}

// ToLocalTime converts a UTC instant to the caller's system timezone. Display
// only; validation decisions never depend on the system zone.
func ToLocalTime(instant time.Time) (time.Time, error) {
	if instant.IsZero() {
		return time.Time{}, ErrInvalidInstant
	}
	return instant.In(time.Local), nil
}

// CombineToUTC interprets a civil date and time of day in the source location
// and returns the corresponding UTC instant. time.Date resolves the offset
// from the location's zone rules for that specific date, so the conversion is
// correct on both sides of a DST transition.
func CombineToUTC(date Date, tod TimeOfDay, loc *time.Location) (time.Time, error) {
	if date == (Date{}) {
		return time.Time{}, ErrInvalidInstant
	}
	if loc == nil {
		loc = time.Local
	}
	local := time.Date(date.Year, date.Month, date.Day, tod.Hour, tod.Minute, 0, 0, loc)
	return local.UTC(), nil
}

// WithinBuffer reports whether the absolute difference between two instants
// is strictly less than buffer.
func WithinBuffer(a, b time.Time, buffer time.Duration) (bool, error) {
	if a.IsZero() || b.IsZero() {
		return false, ErrInvalidInstant
	}
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff < buffer, nil
}

// UpcomingWithin returns the appointments whose start falls within buffer of
// now, preserving input order. Used by the reminder notification; never part
// of save-time validation.
func UpcomingWithin(appointments []Appointment, now time.Time, buffer time.Duration) []Appointment {
	var upcoming []Appointment
	for _, appt := range appointments {
		within, err := WithinBuffer(appt.Start, now, buffer)
		if err != nil {
			continue
		}
		if within {
			upcoming = append(upcoming, appt)
		}
	}
	return upcoming
}
