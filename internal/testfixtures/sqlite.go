package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/appointment-desk/internal/persistence"
	"github.com/example/appointment-desk/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style tests. Identifiers and timestamps are
// deterministic: the harness clock starts at ReferenceTime and each
// repository draws ids from its own prefixed sequence.
type SQLiteHarness struct {
	Clock        *Clock
	Appointments persistence.AppointmentRepository
	Customers    persistence.CustomerRepository
	Users        persistence.UserRepository
	Contacts     persistence.ContactRepository
	Divisions    persistence.DivisionRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated and seeded automatically. A cleanup callback is registered with
// the provided testing.TB, so calling Close is optional.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "desk.db")

	store, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	clock := NewClock(ReferenceTime())
	harness := &SQLiteHarness{
		Clock:        clock,
		Appointments: sqlite.NewAppointmentRepository(store, NewIDGenerator("appt").NextFunc(), clock.NowFunc()),
		Customers:    sqlite.NewCustomerRepository(store, NewIDGenerator("customer").NextFunc(), clock.NowFunc()),
		Users:        sqlite.NewUserRepository(store, NewIDGenerator("user").NextFunc(), clock.NowFunc()),
		Contacts:     sqlite.NewContactRepository(store),
		Divisions:    sqlite.NewDivisionRepository(store),
		cleanup: func() {
			_ = store.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
