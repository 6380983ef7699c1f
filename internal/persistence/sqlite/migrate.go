package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS countries (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS divisions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		country_id TEXT NOT NULL REFERENCES countries(id)
	)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		postal_code TEXT NOT NULL,
		phone TEXT NOT NULL,
		division_id TEXT NOT NULL REFERENCES divisions(id),
		created_by TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_by TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		location TEXT NOT NULL,
		type TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL REFERENCES users(id),
		contact_id TEXT NOT NULL REFERENCES contacts(id),
		created_by TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_by TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		CHECK (end_time > start_time)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_customer_start
		ON appointments (customer_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_contact_start
		ON appointments (contact_id, start_time)`,
}

// Lookup rows the customer and appointment screens select from. INSERT OR
// IGNORE keeps repeated startups idempotent.
var seedStatements = []string{
	`INSERT OR IGNORE INTO countries (id, name) VALUES
		('country-us', 'United States'),
		('country-uk', 'United Kingdom'),
		('country-ca', 'Canada')`,
	`INSERT OR IGNORE INTO divisions (id, name, country_id) VALUES
		('division-ny', 'New York', 'country-us'),
		('division-ca', 'California', 'country-us'),
		('division-tx', 'Texas', 'country-us'),
		('division-eng', 'England', 'country-uk'),
		('division-sco', 'Scotland', 'country-uk'),
		('division-on', 'Ontario', 'country-ca'),
		('division-bc', 'British Columbia', 'country-ca')`,
	`INSERT OR IGNORE INTO contacts (id, name, email) VALUES
		('contact-1', 'Alma Reyes', 'alma.reyes@example.com'),
		('contact-2', 'Dana Whitfield', 'dana.whitfield@example.com'),
		('contact-3', 'Marcus Cole', 'marcus.cole@example.com')`,
}

// Migrate applies the schema and seeds the lookup tables. The statements run
// inside one transaction so a failed migration leaves no partial schema
// behind.
func (s *Store) Migrate(ctx context.Context) error {
	return s.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("sqlite: apply schema: %w", err)
			}
		}
		for _, stmt := range seedStatements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("sqlite: seed lookup data: %w", err)
			}
		}
		return nil
	})
}
