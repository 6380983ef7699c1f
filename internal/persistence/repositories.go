package persistence

import "context"

// AppointmentRepository stores appointment rows. Save assigns an identifier on
// first save and stamps the audit timestamps; ListForCustomer returns a
// consistent snapshot ordered by start instant.
type AppointmentRepository interface {
	Save(ctx context.Context, appointment Appointment) (Appointment, error)
	Get(ctx context.Context, id string) (Appointment, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Appointment, error)
	ListForCustomer(ctx context.Context, customerID string) ([]Appointment, error)
	ListForContact(ctx context.Context, contactID string) ([]Appointment, error)
	TotalsByTypeAndMonth(ctx context.Context) ([]TypeMonthTotal, error)
}

// CustomerRepository stores customer rows.
type CustomerRepository interface {
	Save(ctx context.Context, customer Customer) (Customer, error)
	Get(ctx context.Context, id string) (Customer, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Customer, error)
}

// UserRepository stores login accounts.
type UserRepository interface {
	Save(ctx context.Context, user User) (User, error)
	Get(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context) ([]User, error)
}

// ContactRepository exposes the contact lookup data appointments reference.
type ContactRepository interface {
	Get(ctx context.Context, id string) (Contact, error)
	List(ctx context.Context) ([]Contact, error)
}

// DivisionRepository exposes the division and country lookup data customers
// reference.
type DivisionRepository interface {
	GetDivision(ctx context.Context, id string) (Division, error)
	ListCountries(ctx context.Context) ([]Country, error)
	ListDivisionsForCountry(ctx context.Context, countryID string) ([]Division, error)
}
