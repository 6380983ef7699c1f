package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/appointment-desk/internal/persistence"
	"github.com/example/appointment-desk/internal/scheduling"
)

var (
	appointmentCounter uint64
	customerCounter    uint64
	userCounter        uint64
)

// referenceTime is a Tuesday at 10:04 Eastern, safely inside the default
// business window.
var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// -------------------------- Appointment fixtures --------------------------

// AppointmentOption configures the generated appointment fixture.
type AppointmentOption func(*persistence.Appointment)

// NewAppointmentFixture returns a deterministic appointment record with
// optional overrides. Each fixture occupies its own one-hour slot so fixtures
// never overlap unless a test asks them to.
func NewAppointmentFixture(opts ...AppointmentOption) persistence.Appointment {
	idx := atomic.AddUint64(&appointmentCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * 24 * time.Hour)

	appointment := persistence.Appointment{
		ID:          fmt.Sprintf("appt-%03d", idx),
		Title:       fmt.Sprintf("Appointment %03d", idx),
		Description: "Fixture appointment",
		Location:    "Main office",
		Type:        "Planning",
		Start:       start,
		End:         start.Add(time.Hour),
		CustomerID:  "customer-001",
		UserID:      "user-001",
		ContactID:   "contact-1",
		CreatedBy:   "fixtures",
		CreatedAt:   referenceTime,
		UpdatedBy:   "fixtures",
		UpdatedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&appointment)
	}
	return appointment
}

// WithAppointmentWindow overrides the start and end instants.
func WithAppointmentWindow(start, end time.Time) AppointmentOption {
	return func(a *persistence.Appointment) {
		a.Start = start
		a.End = end
	}
}

// WithAppointmentCustomer overrides the owning customer.
func WithAppointmentCustomer(customerID string) AppointmentOption {
	return func(a *persistence.Appointment) {
		a.CustomerID = customerID
	}
}

// WithAppointmentUser overrides the assigned user.
func WithAppointmentUser(userID string) AppointmentOption {
	return func(a *persistence.Appointment) {
		a.UserID = userID
	}
}

// NewFormInput returns raw form input that normalizes onto the supplied
// business-local date and times.
func NewFormInput(date, startTime, endTime string) scheduling.FormInput {
	return scheduling.FormInput{
		Title:       "Planning session",
		Description: "Fixture form input",
		Location:    "Main office",
		Type:        "Planning",
		Date:        date,
		StartTime:   startTime,
		EndTime:     endTime,
		CustomerID:  "customer-001",
		UserID:      "user-001",
		ContactID:   "contact-1",
	}
}

// ---------------------------- Customer fixtures ----------------------------

// CustomerOption configures the generated customer fixture.
type CustomerOption func(*persistence.Customer)

// NewCustomerFixture returns a deterministic customer record with optional
// overrides. The division references a seeded lookup row.
func NewCustomerFixture(opts ...CustomerOption) persistence.Customer {
	idx := atomic.AddUint64(&customerCounter, 1)

	customer := persistence.Customer{
		ID:         fmt.Sprintf("customer-%03d", idx),
		Name:       fmt.Sprintf("Customer %03d", idx),
		Address:    fmt.Sprintf("%d Front Street", idx),
		PostalCode: "10001",
		Phone:      fmt.Sprintf("555-0%03d", idx),
		DivisionID: "division-ny",
		CreatedBy:  "fixtures",
		CreatedAt:  referenceTime,
		UpdatedBy:  "fixtures",
		UpdatedAt:  referenceTime,
	}
	for _, opt := range opts {
		opt(&customer)
	}
	return customer
}

// WithCustomerDivision overrides the division reference.
func WithCustomerDivision(divisionID string) CustomerOption {
	return func(c *persistence.Customer) {
		c.DivisionID = divisionID
	}
}

// ------------------------------ User fixtures ------------------------------

// UserOption configures the generated user fixture.
type UserOption func(*persistence.User)

// NewUserFixture returns a deterministic user record with optional overrides.
// The password hash is a placeholder; tests exercising authentication should
// hash a real password instead.
func NewUserFixture(opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)

	user := persistence.User{
		ID:           fmt.Sprintf("user-%03d", idx),
		Username:     fmt.Sprintf("desk%03d", idx),
		PasswordHash: "fixture-hash",
		CreatedAt:    referenceTime,
		UpdatedAt:    referenceTime,
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// WithUsername overrides the username.
func WithUsername(username string) UserOption {
	return func(u *persistence.User) {
		u.Username = username
	}
}
