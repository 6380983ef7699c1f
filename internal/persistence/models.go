package persistence

import "time"

// Appointment represents an appointment row. Start and End are stored in UTC.
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

// Customer represents a customer row.
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

// User represents a login account.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Contact represents a contact assigned to appointments.
type Contact struct {
	ID    string
	Name  string
	Email string
}

// Division represents a first-level administrative division a customer
// belongs to.
type Division struct {
	ID        string
	Name      string
	CountryID string
}

// Country represents a country in the customer address hierarchy.
type Country struct {
	ID   string
	Name string
}

// TypeMonthTotal is one row of the appointments-by-type-and-month report.
type TypeMonthTotal struct {
	Type  string
	Year  int
	Month time.Month
	Count int
}
