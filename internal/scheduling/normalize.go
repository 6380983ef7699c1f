package scheduling

import (
	"fmt"
	"strings"
	"time"
)

// IssueKind classifies a single raw-input problem found by the Normalizer.
type IssueKind string

const (
	// IssueMissingRequiredField indicates a required free-text or date/time field was empty.
	IssueMissingRequiredField IssueKind = "missing_required_field"
	// IssueUnparsableDate indicates the raw date could not be parsed.
	IssueUnparsableDate IssueKind = "unparsable_date"
	// IssueUnparsableTime indicates a raw time of day could not be parsed.
	IssueUnparsableTime IssueKind = "unparsable_time"
	// IssueUnselectedReference indicates a required selection was not made.
	IssueUnselectedReference IssueKind = "unselected_reference"
)

// FieldIssue names one problem with one raw field.
type FieldIssue struct {
	Field string
	Kind  IssueKind
}

// InputError reports every raw-field problem found in a single pass, in the
// order the fields were inspected.
type InputError struct {
	Issues []FieldIssue
}

// Error implements the error interface.
func (e *InputError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "invalid input"
	}
	fields := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		fields[i] = fmt.Sprintf("%s (%s)", issue.Field, issue.Kind)
	}
	return "invalid input: " + strings.Join(fields, ", ")
}

func (e *InputError) add(field string, kind IssueKind) {
	e.Issues = append(e.Issues, FieldIssue{Field: field, Kind: kind})
}

// FormInput carries raw form selections exactly as the calling screen
// collected them: free text, "2006-01-02" dates, "15:04" times of day in
// whatever timezone the Normalizer was configured with, and reference
// selections that are empty when nothing was picked.
type FormInput struct {
	Title       string
	Description string
	Location    string
	Type        string
	Date        string
	StartTime   string
	EndTime     string
	CustomerID  string
	UserID      string
	ContactID   string
}

// Proposed is the canonical appointment produced from raw input. Start and
// End are UTC instants; the identifier is absent until the repository
// persists the record.
type Proposed struct {
	Title       string
	Description string
	Location    string
	Type        string
	Start       time.Time
	End         time.Time
	CustomerID  string
	UserID      string
	ContactID   string
}

// Appointment returns the minimal engine view of the proposal for validation.
func (p Proposed) Appointment() Appointment {
	return Appointment{CustomerID: p.CustomerID, Start: p.Start, End: p.End}
}

// Normalizer converts raw form input into canonical proposed appointments.
// Location is the timezone the raw date and times are expressed in. The
// server wires the business-hours zone here, so form times read as
// business-local wall clock. Normalization never performs overlap or
// business-hours checks; those belong to the Validator.
type Normalizer struct {
	Location *time.Location
}

// NewNormalizer builds a normalizer for raw input expressed in loc. A nil loc
// falls back to the system timezone.
func NewNormalizer(loc *time.Location) Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return Normalizer{Location: loc}
}

// Normalize produces a canonical proposed appointment or an *InputError
// listing every malformed or missing field. Pure: identical input always
// yields an identical proposal or identical error.
func (n Normalizer) Normalize(input FormInput) (Proposed, error) {
	inErr := &InputError{}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		inErr.add("title", IssueMissingRequiredField)
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		inErr.add("description", IssueMissingRequiredField)
	}
	location := strings.TrimSpace(input.Location)
	if location == "" {
		inErr.add("location", IssueMissingRequiredField)
	}
	apptType := strings.TrimSpace(input.Type)
	if apptType == "" {
		inErr.add("type", IssueMissingRequiredField)
	}

	var date Date
	if strings.TrimSpace(input.Date) == "" {
		inErr.add("date", IssueMissingRequiredField)
	} else if parsed, err := ParseDate(input.Date); err != nil {
		inErr.add("date", IssueUnparsableDate)
	} else {
		date = parsed
	}

	var startTod, endTod TimeOfDay
	if strings.TrimSpace(input.StartTime) == "" {
		inErr.add("start_time", IssueMissingRequiredField)
	} else if parsed, err := ParseTimeOfDay(input.StartTime); err != nil {
		inErr.add("start_time", IssueUnparsableTime)
	} else {
		startTod = parsed
	}
	if strings.TrimSpace(input.EndTime) == "" {
		inErr.add("end_time", IssueMissingRequiredField)
	} else if parsed, err := ParseTimeOfDay(input.EndTime); err != nil {
		inErr.add("end_time", IssueUnparsableTime)
	} else {
		endTod = parsed
	}

	if strings.TrimSpace(input.CustomerID) == "" {
		inErr.add("customer_id", IssueUnselectedReference)
	}
	if strings.TrimSpace(input.UserID) == "" {
		inErr.add("user_id", IssueUnselectedReference)
	}
	if strings.TrimSpace(input.ContactID) == "" {
		inErr.add("contact_id", IssueUnselectedReference)
	}

	if len(inErr.Issues) > 0 {
		return Proposed{}, inErr
	}

	proposed := Proposed{
		Title:       title,
		Description: description,
		Location:    location,
		Type:        apptType,
		CustomerID:  strings.TrimSpace(input.CustomerID),
		UserID:      strings.TrimSpace(input.UserID),
		ContactID:   strings.TrimSpace(input.ContactID),
	}

	start, err := CombineToUTC(date, startTod, n.Location)
	if err != nil {
		return Proposed{}, err
	}
	end, err := CombineToUTC(date, endTod, n.Location)
	if err != nil {
		return Proposed{}, err
	}
	proposed.Start = start
	proposed.End = end

	return proposed, nil
}
