package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/appointment-desk/internal/persistence"
)

// ContactRepository implements persistence.ContactRepository on SQLite. The
// contact table is seeded lookup data; only reads are exposed.
type ContactRepository struct {
	store *Store
}

// NewContactRepository builds a contact repository.
func NewContactRepository(store *Store) *ContactRepository {
	return &ContactRepository{store: store}
}

// Get fetches a single contact by identifier.
func (r *ContactRepository) Get(ctx context.Context, id string) (persistence.Contact, error) {
	var contact persistence.Contact
	err := r.store.db.QueryRowContext(ctx,
		`SELECT id, name, email FROM contacts WHERE id = ?`, id).
		Scan(&contact.ID, &contact.Name, &contact.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Contact{}, persistence.ErrNotFound
		}
		return persistence.Contact{}, mapError(err)
	}
	return contact, nil
}

// List returns every contact ordered by name.
func (r *ContactRepository) List(ctx context.Context) ([]persistence.Contact, error) {
	rows, err := r.store.db.QueryContext(ctx, `SELECT id, name, email FROM contacts ORDER BY name`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var contacts []persistence.Contact
	for rows.Next() {
		var contact persistence.Contact
		if err := rows.Scan(&contact.ID, &contact.Name, &contact.Email); err != nil {
			return nil, mapError(err)
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}

// DivisionRepository implements persistence.DivisionRepository on SQLite.
type DivisionRepository struct {
	store *Store
}

// NewDivisionRepository builds a division repository.
func NewDivisionRepository(store *Store) *DivisionRepository {
	return &DivisionRepository{store: store}
}

// GetDivision fetches a single division by identifier.
func (r *DivisionRepository) GetDivision(ctx context.Context, id string) (persistence.Division, error) {
	var division persistence.Division
	err := r.store.db.QueryRowContext(ctx,
		`SELECT id, name, country_id FROM divisions WHERE id = ?`, id).
		Scan(&division.ID, &division.Name, &division.CountryID)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Division{}, persistence.ErrNotFound
		}
		return persistence.Division{}, mapError(err)
	}
	return division, nil
}

// ListCountries returns every country ordered by name.
func (r *DivisionRepository) ListCountries(ctx context.Context) ([]persistence.Country, error) {
	rows, err := r.store.db.QueryContext(ctx, `SELECT id, name FROM countries ORDER BY name`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var countries []persistence.Country
	for rows.Next() {
		var country persistence.Country
		if err := rows.Scan(&country.ID, &country.Name); err != nil {
			return nil, mapError(err)
		}
		countries = append(countries, country)
	}
	return countries, rows.Err()
}

// ListDivisionsForCountry returns the divisions of one country ordered by name.
func (r *DivisionRepository) ListDivisionsForCountry(ctx context.Context, countryID string) ([]persistence.Division, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, name, country_id FROM divisions WHERE country_id = ? ORDER BY name`, countryID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var divisions []persistence.Division
	for rows.Next() {
		var division persistence.Division
		if err := rows.Scan(&division.ID, &division.Name, &division.CountryID); err != nil {
			return nil, mapError(err)
		}
		divisions = append(divisions, division)
	}
	return divisions, rows.Err()
}
