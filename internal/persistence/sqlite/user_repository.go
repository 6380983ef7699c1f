package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/example/appointment-desk/internal/persistence"
	"github.com/google/uuid"
)

// UserRepository implements persistence.UserRepository on SQLite.
type UserRepository struct {
	store *Store
	newID func() string
	now   func() time.Time
}

// NewUserRepository builds a repository; nil newID and now fall back to uuid
// generation and the system clock.
func NewUserRepository(store *Store, newID func() string, now func() time.Time) *UserRepository {
	if newID == nil {
		newID = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	return &UserRepository{store: store, newID: newID, now: now}
}

// Save inserts the user when it has no identifier yet and updates the
// existing row otherwise. Usernames are stored lowercased.
func (r *UserRepository) Save(ctx context.Context, user persistence.User) (persistence.User, error) {
	now := r.now().UTC()
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))

	if user.ID == "" {
		user.ID = r.newID()
		user.CreatedAt = now
		user.UpdatedAt = now

		_, err := r.store.db.ExecContext(ctx,
			`INSERT INTO users (id, username, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			user.ID,
			user.Username,
			user.PasswordHash,
			user.CreatedAt.Format(time.RFC3339),
			user.UpdatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return persistence.User{}, mapError(err)
		}
		return user, nil
	}

	existing, err := r.Get(ctx, user.ID)
	if err != nil {
		return persistence.User{}, err
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = now

	_, err = r.store.db.ExecContext(ctx,
		`UPDATE users SET username = ?, password_hash = ?, updated_at = ? WHERE id = ?`,
		user.Username,
		user.PasswordHash,
		user.UpdatedAt.Format(time.RFC3339),
		user.ID,
	)
	if err != nil {
		return persistence.User{}, mapError(err)
	}
	return user, nil
}

// Get fetches a single user by identifier.
func (r *UserRepository) Get(ctx context.Context, id string) (persistence.User, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at, updated_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetByUsername fetches a single user by username, case-insensitively.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (persistence.User, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at, updated_at FROM users WHERE username = ?`,
		strings.ToLower(strings.TrimSpace(username)))
	return scanUser(row)
}

// List returns every user ordered by username.
func (r *UserRepository) List(ctx context.Context) ([]persistence.User, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, username, password_hash, created_at, updated_at FROM users ORDER BY username`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanUser(row rowScanner) (persistence.User, error) {
	var user persistence.User
	var createdAt, updatedAt string

	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.User{}, persistence.ErrNotFound
		}
		return persistence.User{}, mapError(err)
	}

	if user.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.User{}, err
	}
	if user.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.User{}, err
	}
	return user, nil
}
