package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/appointment-desk/internal/persistence"
	"github.com/example/appointment-desk/internal/scheduling"
)

// AppointmentRepository captures the persistence interactions needed by the
// appointment service.
type AppointmentRepository interface {
	Save(ctx context.Context, appointment persistence.Appointment) (persistence.Appointment, error)
	Get(ctx context.Context, id string) (persistence.Appointment, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]persistence.Appointment, error)
	ListForCustomer(ctx context.Context, customerID string) ([]persistence.Appointment, error)
	ListForContact(ctx context.Context, contactID string) ([]persistence.Appointment, error)
	TotalsByTypeAndMonth(ctx context.Context) ([]persistence.TypeMonthTotal, error)
}

// TypeMonthTotal is one row of the appointments-by-type-and-month report.
type TypeMonthTotal struct {
	Type  string
	Year  int
	Month time.Month
	Count int
}

// AppointmentService orchestrates normalization, conflict validation, and
// persistence for appointment operations.
type AppointmentService struct {
	appointments   AppointmentRepository
	normalizer     scheduling.Normalizer
	validator      scheduling.Validator
	reminderBuffer time.Duration
	now            func() time.Time
	logger         *slog.Logger
}

// NewAppointmentService wires dependencies for appointment operations.
// reminderBuffer controls the upcoming-appointment notification window and
// plays no part in save-time validation.
func NewAppointmentService(appointments AppointmentRepository, normalizer scheduling.Normalizer, validator scheduling.Validator, reminderBuffer time.Duration, now func() time.Time, logger *slog.Logger) *AppointmentService {
	if now == nil {
		now = time.Now
	}
	if reminderBuffer <= 0 {
		reminderBuffer = 15 * time.Minute
	}
	return &AppointmentService{
		appointments:   appointments,
		normalizer:     normalizer,
		validator:      validator,
		reminderBuffer: reminderBuffer,
		now:            now,
		logger:         logger,
	}
}

// CreateAppointment normalizes the raw input, validates it against the
// customer's existing appointments, and persists it when legal. A rejected
// proposal is not an error: the Result carries every violated rule and no
// row is written.
func (s *AppointmentService) CreateAppointment(ctx context.Context, params CreateAppointmentParams) (Appointment, scheduling.Result, error) {
	if s == nil || s.appointments == nil {
		return Appointment{}, scheduling.Result{}, fmt.Errorf("appointment service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "appointments", "create")

	proposed, err := s.normalizer.Normalize(params.Input)
	if err != nil {
		logger.InfoContext(ctx, "input rejected", "error_kind", ErrorKind(err))
		return Appointment{}, scheduling.Result{}, err
	}

	result, err := s.validateProposal(ctx, proposed, "")
	if err != nil {
		return Appointment{}, scheduling.Result{}, err
	}
	if !result.Accepted() {
		logger.InfoContext(ctx, "proposal rejected", "violations", len(result.Violations))
		return Appointment{}, result, nil
	}

	row := toAppointmentRow(proposed)
	row.CreatedBy = params.Actor.Username
	row.UpdatedBy = params.Actor.Username

	saved, err := s.appointments.Save(ctx, row)
	if err != nil {
		return Appointment{}, scheduling.Result{}, mapRepoError(err)
	}

	logger.InfoContext(ctx, "appointment created", "appointment_id", saved.ID, "customer_id", saved.CustomerID)
	return fromAppointmentRow(saved), result, nil
}

// UpdateAppointment re-normalizes and re-validates an edited appointment.
// The prior record is excluded from the overlap scan so an edit never
// conflicts with itself.
func (s *AppointmentService) UpdateAppointment(ctx context.Context, params UpdateAppointmentParams) (Appointment, scheduling.Result, error) {
	if s == nil || s.appointments == nil {
		return Appointment{}, scheduling.Result{}, fmt.Errorf("appointment service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "appointments", "update", "appointment_id", params.AppointmentID)

	existing, err := s.appointments.Get(ctx, params.AppointmentID)
	if err != nil {
		return Appointment{}, scheduling.Result{}, mapRepoError(err)
	}

	proposed, err := s.normalizer.Normalize(params.Input)
	if err != nil {
		logger.InfoContext(ctx, "input rejected", "error_kind", ErrorKind(err))
		return Appointment{}, scheduling.Result{}, err
	}

	result, err := s.validateProposal(ctx, proposed, existing.ID)
	if err != nil {
		return Appointment{}, scheduling.Result{}, err
	}
	if !result.Accepted() {
		logger.InfoContext(ctx, "proposal rejected", "violations", len(result.Violations))
		return Appointment{}, result, nil
	}

	row := toAppointmentRow(proposed)
	row.ID = existing.ID
	row.CreatedBy = existing.CreatedBy
	row.CreatedAt = existing.CreatedAt
	row.UpdatedBy = params.Actor.Username

	saved, err := s.appointments.Save(ctx, row)
	if err != nil {
		return Appointment{}, scheduling.Result{}, mapRepoError(err)
	}

	logger.InfoContext(ctx, "appointment updated", "customer_id", saved.CustomerID)
	return fromAppointmentRow(saved), result, nil
}

// DeleteAppointment removes an appointment.
func (s *AppointmentService) DeleteAppointment(ctx context.Context, actor CurrentUser, appointmentID string) error {
	if s == nil || s.appointments == nil {
		return fmt.Errorf("appointment service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "appointments", "delete", "appointment_id", appointmentID)

	if err := s.appointments.Delete(ctx, appointmentID); err != nil {
		return mapRepoError(err)
	}
	logger.InfoContext(ctx, "appointment deleted", "actor", actor.Username)
	return nil
}

// GetAppointment fetches a single appointment.
func (s *AppointmentService) GetAppointment(ctx context.Context, appointmentID string) (Appointment, error) {
	row, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return Appointment{}, mapRepoError(err)
	}
	return fromAppointmentRow(row), nil
}

// ListAppointments returns every appointment ordered by start instant.
func (s *AppointmentService) ListAppointments(ctx context.Context) ([]Appointment, error) {
	rows, err := s.appointments.List(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	appointments := make([]Appointment, len(rows))
	for i, row := range rows {
		appointments[i] = fromAppointmentRow(row)
	}
	return appointments, nil
}

// Upcoming returns the actor's appointments starting within the reminder
// buffer of now. Purely informational; it never blocks a save.
func (s *AppointmentService) Upcoming(ctx context.Context, actor CurrentUser) ([]Appointment, error) {
	rows, err := s.appointments.List(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}

	byID := make(map[string]persistence.Appointment, len(rows))
	candidates := make([]scheduling.Appointment, 0, len(rows))
	for _, row := range rows {
		if row.UserID != actor.ID {
			continue
		}
		byID[row.ID] = row
		candidates = append(candidates, scheduling.Appointment{
			ID:         row.ID,
			CustomerID: row.CustomerID,
			Start:      row.Start,
			End:        row.End,
		})
	}

	var upcoming []Appointment
	for _, hit := range scheduling.UpcomingWithin(candidates, s.now().UTC(), s.reminderBuffer) {
		upcoming = append(upcoming, fromAppointmentRow(byID[hit.ID]))
	}
	return upcoming, nil
}

// TotalsByTypeAndMonth reports appointment counts grouped by type and month.
func (s *AppointmentService) TotalsByTypeAndMonth(ctx context.Context) ([]TypeMonthTotal, error) {
	rows, err := s.appointments.TotalsByTypeAndMonth(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	totals := make([]TypeMonthTotal, len(rows))
	for i, row := range rows {
		totals[i] = TypeMonthTotal{Type: row.Type, Year: row.Year, Month: row.Month, Count: row.Count}
	}
	return totals, nil
}

// ScheduleForContact returns a contact's appointments ordered by start.
func (s *AppointmentService) ScheduleForContact(ctx context.Context, contactID string) ([]Appointment, error) {
	rows, err := s.appointments.ListForContact(ctx, contactID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	appointments := make([]Appointment, len(rows))
	for i, row := range rows {
		appointments[i] = fromAppointmentRow(row)
	}
	return appointments, nil
}

// validateProposal reads the customer's snapshot once and runs the conflict
// validator over it.
func (s *AppointmentService) validateProposal(ctx context.Context, proposed scheduling.Proposed, excludeID string) (scheduling.Result, error) {
	rows, err := s.appointments.ListForCustomer(ctx, proposed.CustomerID)
	if err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return scheduling.Result{}, mapRepoError(err)
	}

	existing := make([]scheduling.Appointment, len(rows))
	for i, row := range rows {
		existing[i] = scheduling.Appointment{
			ID:         row.ID,
			CustomerID: row.CustomerID,
			Start:      row.Start,
			End:        row.End,
		}
	}

	return s.validator.Validate(proposed.Appointment(), existing, s.now().UTC(), excludeID), nil
}

func toAppointmentRow(proposed scheduling.Proposed) persistence.Appointment {
	return persistence.Appointment{
		Title:       proposed.Title,
		Description: proposed.Description,
		Location:    proposed.Location,
		Type:        proposed.Type,
		Start:       proposed.Start,
		End:         proposed.End,
		CustomerID:  proposed.CustomerID,
		UserID:      proposed.UserID,
		ContactID:   proposed.ContactID,
	}
}

func fromAppointmentRow(row persistence.Appointment) Appointment {
	return Appointment(row)
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("time", "end must be after start")
		return vErr
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("references", "related records are missing")
		return vErr
	}
	return err
}
