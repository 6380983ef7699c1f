package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/appointment-desk/internal/scheduling"
)

// Config captures environment driven configuration values for the desk service.
type Config struct {
	HTTPPort          int
	SQLiteDSN         string
	BusinessHours     scheduling.BusinessHours
	ReminderBuffer    time.Duration
	BootstrapUsername string
	BootstrapPassword string
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// required values, and accumulates every missing or invalid entry so a
// misconfigured deployment is reported in one pass.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:       8080,
		SQLiteDSN:      "file:desk.db?_foreign_keys=on",
		BusinessHours:  scheduling.DefaultBusinessHours(),
		ReminderBuffer: 15 * time.Minute,
	}

	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("DESK_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "DESK_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("DESK_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if zoneName := strings.TrimSpace(os.Getenv("DESK_BUSINESS_TIMEZONE")); zoneName != "" {
		loc, err := time.LoadLocation(zoneName)
		if err != nil {
			invalid = append(invalid, "DESK_BUSINESS_TIMEZONE")
		} else {
			cfg.BusinessHours.Location = loc
		}
	}

	if openValue := strings.TrimSpace(os.Getenv("DESK_BUSINESS_OPEN")); openValue != "" {
		open, err := scheduling.ParseTimeOfDay(openValue)
		if err != nil {
			invalid = append(invalid, "DESK_BUSINESS_OPEN")
		} else {
			cfg.BusinessHours.Open = open
		}
	}

	if closeValue := strings.TrimSpace(os.Getenv("DESK_BUSINESS_CLOSE")); closeValue != "" {
		closeAt, err := scheduling.ParseTimeOfDay(closeValue)
		if err != nil {
			invalid = append(invalid, "DESK_BUSINESS_CLOSE")
		} else {
			cfg.BusinessHours.Close = closeAt
		}
	}

	if daysValue := strings.TrimSpace(os.Getenv("DESK_BUSINESS_DAYS")); daysValue != "" {
		days, err := scheduling.ParseWeekdays(daysValue)
		if err != nil {
			invalid = append(invalid, "DESK_BUSINESS_DAYS")
		} else {
			cfg.BusinessHours.Days = days
		}
	}

	if bufferValue := strings.TrimSpace(os.Getenv("DESK_REMINDER_BUFFER")); bufferValue != "" {
		buffer, err := time.ParseDuration(bufferValue)
		if err != nil || buffer <= 0 {
			invalid = append(invalid, "DESK_REMINDER_BUFFER")
		} else {
			cfg.ReminderBuffer = buffer
		}
	}

	if username := strings.TrimSpace(os.Getenv("DESK_BOOTSTRAP_USERNAME")); username == "" {
		missing = append(missing, "DESK_BOOTSTRAP_USERNAME")
	} else {
		cfg.BootstrapUsername = username
	}

	if password := strings.TrimSpace(os.Getenv("DESK_BOOTSTRAP_PASSWORD")); password == "" {
		missing = append(missing, "DESK_BOOTSTRAP_PASSWORD")
	} else {
		cfg.BootstrapPassword = password
	}

	if !cfg.BusinessHours.Open.Before(cfg.BusinessHours.Close) {
		invalid = append(invalid, "DESK_BUSINESS_OPEN")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
