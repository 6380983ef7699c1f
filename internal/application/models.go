package application

import (
	"time"

	"github.com/example/appointment-desk/internal/scheduling"
)

// CurrentUser identifies the authenticated user performing an operation. It
// is passed explicitly into every mutating call and only stamps audit fields.
type CurrentUser struct {
	ID       string
	Username string
}

// Appointment is the full appointment record exposed by the services.
// Start and End are UTC instants.
type Appointment struct {
	ID          string
	Title       string
	Description string
	Location    string
	Type        string
	Start       time.Time
	End         time.Time
	CustomerID  string
	UserID      string
	ContactID   string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedBy   string
	UpdatedAt   time.Time
}

// Customer is the customer record exposed by the services.
type Customer struct {
	ID         string
	Name       string
	Address    string
	PostalCode string
	Phone      string
	DivisionID string
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedBy  string
	UpdatedAt  time.Time
}

// CustomerInput captures caller provided customer fields.
type CustomerInput struct {
	Name       string
	Address    string
	PostalCode string
	Phone      string
	DivisionID string
}

// CreateAppointmentParams wraps the data required to create an appointment.
type CreateAppointmentParams struct {
	Actor CurrentUser
	Input scheduling.FormInput
}

// UpdateAppointmentParams wraps the data required to update an appointment.
type UpdateAppointmentParams struct {
	Actor         CurrentUser
	AppointmentID string
	Input         scheduling.FormInput
}

// CreateCustomerParams wraps the data required to create a customer.
type CreateCustomerParams struct {
	Actor CurrentUser
	Input CustomerInput
}

// UpdateCustomerParams wraps the data required to update a customer.
type UpdateCustomerParams struct {
	Actor      CurrentUser
	CustomerID string
	Input      CustomerInput
}
