package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/appointment-desk/internal/persistence"
	"github.com/google/uuid"
)

// CustomerRepository implements persistence.CustomerRepository on SQLite.
type CustomerRepository struct {
	store *Store
	newID func() string
	now   func() time.Time
}

// NewCustomerRepository builds a repository; nil newID and now fall back to
// uuid generation and the system clock.
func NewCustomerRepository(store *Store, newID func() string, now func() time.Time) *CustomerRepository {
	if newID == nil {
		newID = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	return &CustomerRepository{store: store, newID: newID, now: now}
}

const customerColumns = `id, name, address, postal_code, phone, division_id,
	created_by, created_at, updated_by, updated_at`

// Save inserts the customer when it has no identifier yet and updates the
// existing row otherwise.
func (r *CustomerRepository) Save(ctx context.Context, customer persistence.Customer) (persistence.Customer, error) {
	now := r.now().UTC()

	if customer.ID == "" {
		customer.ID = r.newID()
		customer.CreatedAt = now
		customer.UpdatedAt = now

		query := `INSERT INTO customers (` + customerColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := r.store.db.ExecContext(ctx, query,
			customer.ID,
			customer.Name,
			customer.Address,
			customer.PostalCode,
			customer.Phone,
			customer.DivisionID,
			customer.CreatedBy,
			customer.CreatedAt.Format(time.RFC3339),
			customer.UpdatedBy,
			customer.UpdatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return persistence.Customer{}, mapError(err)
		}
		return customer, nil
	}

	existing, err := r.Get(ctx, customer.ID)
	if err != nil {
		return persistence.Customer{}, err
	}
	customer.CreatedBy = existing.CreatedBy
	customer.CreatedAt = existing.CreatedAt
	customer.UpdatedAt = now

	query := `UPDATE customers
		SET name = ?, address = ?, postal_code = ?, phone = ?, division_id = ?, updated_by = ?, updated_at = ?
		WHERE id = ?`
	_, err = r.store.db.ExecContext(ctx, query,
		customer.Name,
		customer.Address,
		customer.PostalCode,
		customer.Phone,
		customer.DivisionID,
		customer.UpdatedBy,
		customer.UpdatedAt.Format(time.RFC3339),
		customer.ID,
	)
	if err != nil {
		return persistence.Customer{}, mapError(err)
	}
	return customer, nil
}

// Get fetches a single customer by identifier.
func (r *CustomerRepository) Get(ctx context.Context, id string) (persistence.Customer, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	return scanCustomer(row)
}

// Delete removes a customer. The appointment foreign key cascades, so the
// customer's appointments are removed in the same statement.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.store.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// List returns every customer ordered by name.
func (r *CustomerRepository) List(ctx context.Context) ([]persistence.Customer, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY name, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var customers []persistence.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}

func scanCustomer(row rowScanner) (persistence.Customer, error) {
	var customer persistence.Customer
	var createdAt, updatedAt string

	err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Address,
		&customer.PostalCode,
		&customer.Phone,
		&customer.DivisionID,
		&customer.CreatedBy,
		&createdAt,
		&customer.UpdatedBy,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Customer{}, persistence.ErrNotFound
		}
		return persistence.Customer{}, mapError(err)
	}

	if customer.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Customer{}, err
	}
	if customer.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Customer{}, err
	}
	return customer, nil
}
