package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/appointment-desk/internal/persistence"
	"github.com/google/uuid"
)

// AppointmentRepository implements persistence.AppointmentRepository on SQLite.
type AppointmentRepository struct {
	store *Store
	newID func() string
	now   func() time.Time
}

// NewAppointmentRepository builds a repository. newID and now may be nil, in
// which case uuid generation and the system clock are used.
func NewAppointmentRepository(store *Store, newID func() string, now func() time.Time) *AppointmentRepository {
	if newID == nil {
		newID = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	return &AppointmentRepository{store: store, newID: newID, now: now}
}

const appointmentColumns = `id, title, description, location, type, start_time, end_time,
	customer_id, user_id, contact_id, created_by, created_at, updated_by, updated_at`

// Save inserts the appointment when it has no identifier yet, assigning one,
// and updates the existing row otherwise. Audit timestamps are stamped here;
// CreatedBy and UpdatedBy arrive already set by the caller.
func (r *AppointmentRepository) Save(ctx context.Context, appointment persistence.Appointment) (persistence.Appointment, error) {
	now := r.now().UTC()

	if appointment.ID == "" {
		appointment.ID = r.newID()
		appointment.CreatedAt = now
		appointment.UpdatedAt = now

		query := `INSERT INTO appointments (` + appointmentColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := r.store.db.ExecContext(ctx, query,
			appointment.ID,
			appointment.Title,
			appointment.Description,
			appointment.Location,
			appointment.Type,
			appointment.Start.UTC().Format(time.RFC3339),
			appointment.End.UTC().Format(time.RFC3339),
			appointment.CustomerID,
			appointment.UserID,
			appointment.ContactID,
			appointment.CreatedBy,
			appointment.CreatedAt.Format(time.RFC3339),
			appointment.UpdatedBy,
			appointment.UpdatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return persistence.Appointment{}, mapError(err)
		}
		return appointment, nil
	}

	existing, err := r.Get(ctx, appointment.ID)
	if err != nil {
		return persistence.Appointment{}, err
	}
	appointment.CreatedBy = existing.CreatedBy
	appointment.CreatedAt = existing.CreatedAt
	appointment.UpdatedAt = now

	query := `UPDATE appointments
		SET title = ?, description = ?, location = ?, type = ?, start_time = ?, end_time = ?,
			customer_id = ?, user_id = ?, contact_id = ?, updated_by = ?, updated_at = ?
		WHERE id = ?`
	_, err = r.store.db.ExecContext(ctx, query,
		appointment.Title,
		appointment.Description,
		appointment.Location,
		appointment.Type,
		appointment.Start.UTC().Format(time.RFC3339),
		appointment.End.UTC().Format(time.RFC3339),
		appointment.CustomerID,
		appointment.UserID,
		appointment.ContactID,
		appointment.UpdatedBy,
		appointment.UpdatedAt.Format(time.RFC3339),
		appointment.ID,
	)
	if err != nil {
		return persistence.Appointment{}, mapError(err)
	}
	return appointment, nil
}

// Get fetches a single appointment by identifier.
func (r *AppointmentRepository) Get(ctx context.Context, id string) (persistence.Appointment, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id)
	return scanAppointment(row)
}

// Delete removes an appointment, reporting ErrNotFound when it is absent.
func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.store.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = ?`, id)
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

// List returns every appointment ordered by start instant.
func (r *AppointmentRepository) List(ctx context.Context) ([]persistence.Appointment, error) {
	return r.list(ctx, `SELECT `+appointmentColumns+` FROM appointments ORDER BY start_time, id`)
}

// ListForCustomer returns the customer's appointments ordered by start
// instant. The result is the frozen snapshot the conflict validator reads.
func (r *AppointmentRepository) ListForCustomer(ctx context.Context, customerID string) ([]persistence.Appointment, error) {
	return r.list(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE customer_id = ? ORDER BY start_time, id`,
		customerID)
}

// ListForContact returns the contact's schedule ordered by start instant.
func (r *AppointmentRepository) ListForContact(ctx context.Context, contactID string) ([]persistence.Appointment, error) {
	return r.list(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE contact_id = ? ORDER BY start_time, id`,
		contactID)
}

// TotalsByTypeAndMonth counts appointments grouped by type and start month.
func (r *AppointmentRepository) TotalsByTypeAndMonth(ctx context.Context) ([]persistence.TypeMonthTotal, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT type,
			CAST(strftime('%Y', start_time) AS INTEGER) AS year,
			CAST(strftime('%m', start_time) AS INTEGER) AS month,
			COUNT(*) AS total
		FROM appointments
		GROUP BY type, year, month
		ORDER BY year, month, type`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var totals []persistence.TypeMonthTotal
	for rows.Next() {
		var total persistence.TypeMonthTotal
		var month int
		if err := rows.Scan(&total.Type, &total.Year, &month, &total.Count); err != nil {
			return nil, mapError(err)
		}
		total.Month = time.Month(month)
		totals = append(totals, total)
	}
	return totals, rows.Err()
}

func (r *AppointmentRepository) list(ctx context.Context, query string, args ...any) ([]persistence.Appointment, error) {
	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var appointments []persistence.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, appointment)
	}
	return appointments, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (persistence.Appointment, error) {
	var appointment persistence.Appointment
	var start, end, createdAt, updatedAt string

	err := row.Scan(
		&appointment.ID,
		&appointment.Title,
		&appointment.Description,
		&appointment.Location,
		&appointment.Type,
		&start,
		&end,
		&appointment.CustomerID,
		&appointment.UserID,
		&appointment.ContactID,
		&appointment.CreatedBy,
		&createdAt,
		&appointment.UpdatedBy,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Appointment{}, persistence.ErrNotFound
		}
		return persistence.Appointment{}, mapError(err)
	}

	if appointment.Start, err = parseTimestamp(start); err != nil {
		return persistence.Appointment{}, err
	}
	if appointment.End, err = parseTimestamp(end); err != nil {
		return persistence.Appointment{}, err
	}
	if appointment.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Appointment{}, err
	}
	if appointment.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Appointment{}, err
	}
	return appointment, nil
}

func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
