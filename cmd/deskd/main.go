package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/appointment-desk/internal/application"
	"github.com/example/appointment-desk/internal/config"
	httptransport "github.com/example/appointment-desk/internal/http"
	"github.com/example/appointment-desk/internal/logging"
	"github.com/example/appointment-desk/internal/persistence/sqlite"
	"github.com/example/appointment-desk/internal/scheduling"
)

func main() {
	_ = godotenv.Load()

	logger := logging.New(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := store.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	now := time.Now
	appointmentRepo := sqlite.NewAppointmentRepository(store, uuid.NewString, now)
	customerRepo := sqlite.NewCustomerRepository(store, uuid.NewString, now)
	userRepo := sqlite.NewUserRepository(store, uuid.NewString, now)
	divisionRepo := sqlite.NewDivisionRepository(store)

	appointmentService := application.NewAppointmentService(
		appointmentRepo,
		scheduling.NewNormalizer(cfg.BusinessHours.Location),
		scheduling.NewValidator(cfg.BusinessHours),
		cfg.ReminderBuffer,
		now,
		logger,
	)
	customerService := application.NewCustomerService(customerRepo, divisionRepo, logger)
	authService := application.NewAuthService(userRepo, logger)

	if _, err := authService.EnsureUser(context.Background(), cfg.BootstrapUsername, cfg.BootstrapPassword); err != nil {
		logger.Error("failed to ensure bootstrap user", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:         httptransport.NewAuthHandler(authService, logger),
		Health:       httptransport.NewHealthHandler(store, logger),
		Appointments: httptransport.NewAppointmentHandler(appointmentService, logger),
		Customers:    httptransport.NewCustomerHandler(customerService, logger),
		Reports:      httptransport.NewReportHandler(appointmentService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestID,
			httptransport.RequestLogger(logger),
		},
		RequireUser: httptransport.RequireUser(authService, logger),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("appointment desk API listening", "addr", server.Addr, "timezone", cfg.BusinessHours.Location.String())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
