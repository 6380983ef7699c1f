package config

import (
	"os"
	"testing"
	"time"

	"github.com/example/appointment-desk/internal/scheduling"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"DESK_HTTP_PORT",
			"DESK_SQLITE_DSN",
			"DESK_BUSINESS_TIMEZONE",
			"DESK_BUSINESS_OPEN",
			"DESK_BUSINESS_CLOSE",
			"DESK_BUSINESS_DAYS",
			"DESK_REMINDER_BUFFER",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		t.Setenv("DESK_BOOTSTRAP_USERNAME", "desk")
		t.Setenv("DESK_BOOTSTRAP_PASSWORD", "letmein")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:desk.db?_foreign_keys=on" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if got := cfg.BusinessHours.Location.String(); got != "America/New_York" {
			t.Fatalf("unexpected default timezone: %q", got)
		}
		if cfg.BusinessHours.Open != (scheduling.TimeOfDay{Hour: 8}) {
			t.Fatalf("unexpected default opening time: %v", cfg.BusinessHours.Open)
		}
		if cfg.ReminderBuffer != 15*time.Minute {
			t.Fatalf("expected default reminder buffer 15m, got %s", cfg.ReminderBuffer)
		}
	})

	t.Run("errors when required values are missing", func(t *testing.T) {
		for _, key := range []string{
			"DESK_BOOTSTRAP_USERNAME",
			"DESK_BOOTSTRAP_PASSWORD",
		} {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		expected := "required environment variables are not set: DESK_BOOTSTRAP_USERNAME, DESK_BOOTSTRAP_PASSWORD"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("parses business window and numeric fields", func(t *testing.T) {
		t.Setenv("DESK_BOOTSTRAP_USERNAME", "desk")
		t.Setenv("DESK_BOOTSTRAP_PASSWORD", "letmein")
		t.Setenv("DESK_HTTP_PORT", "9090")
		t.Setenv("DESK_SQLITE_DSN", "file:/tmp/desk.db")
		t.Setenv("DESK_BUSINESS_TIMEZONE", "Europe/London")
		t.Setenv("DESK_BUSINESS_OPEN", "09:30")
		t.Setenv("DESK_BUSINESS_CLOSE", "17:00")
		t.Setenv("DESK_BUSINESS_DAYS", "Mon,Tue,Wed,Thu,Fri,Sat")
		t.Setenv("DESK_REMINDER_BUFFER", "30m")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/desk.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if got := cfg.BusinessHours.Location.String(); got != "Europe/London" {
			t.Fatalf("unexpected timezone: %q", got)
		}
		if cfg.BusinessHours.Open != (scheduling.TimeOfDay{Hour: 9, Minute: 30}) {
			t.Fatalf("unexpected opening time: %v", cfg.BusinessHours.Open)
		}
		if cfg.BusinessHours.Close != (scheduling.TimeOfDay{Hour: 17}) {
			t.Fatalf("unexpected closing time: %v", cfg.BusinessHours.Close)
		}
		if len(cfg.BusinessHours.Days) != 6 || cfg.BusinessHours.Days[5] != time.Saturday {
			t.Fatalf("unexpected operating days: %v", cfg.BusinessHours.Days)
		}
		if cfg.ReminderBuffer != 30*time.Minute {
			t.Fatalf("expected reminder buffer 30m, got %s", cfg.ReminderBuffer)
		}
	})

	t.Run("rejects an inverted business window", func(t *testing.T) {
		t.Setenv("DESK_BOOTSTRAP_USERNAME", "desk")
		t.Setenv("DESK_BOOTSTRAP_PASSWORD", "letmein")
		t.Setenv("DESK_BUSINESS_OPEN", "18:00")
		t.Setenv("DESK_BUSINESS_CLOSE", "09:00")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for inverted business window")
		}
		expected := "environment variables have invalid values: DESK_BUSINESS_OPEN"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}
