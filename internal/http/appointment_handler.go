package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/appointment-desk/internal/application"
	"github.com/example/appointment-desk/internal/scheduling"
)

type appointmentService interface {
	CreateAppointment(ctx context.Context, params application.CreateAppointmentParams) (application.Appointment, scheduling.Result, error)
	UpdateAppointment(ctx context.Context, params application.UpdateAppointmentParams) (application.Appointment, scheduling.Result, error)
	DeleteAppointment(ctx context.Context, actor application.CurrentUser, appointmentID string) error
	GetAppointment(ctx context.Context, appointmentID string) (application.Appointment, error)
	ListAppointments(ctx context.Context) ([]application.Appointment, error)
	Upcoming(ctx context.Context, actor application.CurrentUser) ([]application.Appointment, error)
}

type AppointmentHandler struct {
	service   appointmentService
	responder responder
}

func NewAppointmentHandler(service appointmentService, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{service: service, responder: newResponder(logger)}
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	actor, _ := ActorFromContext(r.Context())

	appointment, result, err := h.service.CreateAppointment(r.Context(), application.CreateAppointmentParams{
		Actor: actor,
		Input: req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if !result.Accepted() {
		h.renderRejection(r.Context(), w, result)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, appointmentResponse{Appointment: toAppointmentDTO(appointment)})
}

func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request, appointmentID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if strings.TrimSpace(appointmentID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAppointmentID)
		return
	}

	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	actor, _ := ActorFromContext(r.Context())

	appointment, result, err := h.service.UpdateAppointment(r.Context(), application.UpdateAppointmentParams{
		Actor:         actor,
		AppointmentID: appointmentID,
		Input:         req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if !result.Accepted() {
		h.renderRejection(r.Context(), w, result)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, appointmentResponse{Appointment: toAppointmentDTO(appointment)})
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request, appointmentID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if strings.TrimSpace(appointmentID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAppointmentID)
		return
	}

	actor, _ := ActorFromContext(r.Context())
	if err := h.service.DeleteAppointment(r.Context(), actor, appointmentID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request, appointmentID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if strings.TrimSpace(appointmentID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAppointmentID)
		return
	}

	appointment, err := h.service.GetAppointment(r.Context(), appointmentID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, appointmentResponse{Appointment: toAppointmentDTO(appointment)})
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	appointments, err := h.service.ListAppointments(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listAppointmentsResponse{Appointments: toAppointmentDTOs(appointments)})
}

// Upcoming reports the acting user's appointments starting within the
// reminder buffer.
func (h *AppointmentHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	actor, _ := ActorFromContext(r.Context())
	appointments, err := h.service.Upcoming(r.Context(), actor)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listAppointmentsResponse{Appointments: toAppointmentDTOs(appointments)})
}

func (h *AppointmentHandler) renderRejection(ctx context.Context, w http.ResponseWriter, result scheduling.Result) {
	violations := make([]violationDTO, 0, len(result.Violations))
	for _, v := range result.Violations {
		violations = append(violations, violationDTO{
			Kind:          string(v.Kind),
			ConflictingID: v.ConflictingID,
			Message:       describeViolation(v),
		})
	}
	h.responder.writeJSON(ctx, w, http.StatusConflict, rejectionResponse{
		Message:    statusMessage(http.StatusConflict),
		Violations: violations,
	})
}

type appointmentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	CustomerID  string `json:"customer_id"`
	UserID      string `json:"user_id"`
	ContactID   string `json:"contact_id"`
}

func (r appointmentRequest) toInput() scheduling.FormInput {
	return scheduling.FormInput{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Type:        r.Type,
		Date:        strings.TrimSpace(r.Date),
		StartTime:   strings.TrimSpace(r.StartTime),
		EndTime:     strings.TrimSpace(r.EndTime),
		CustomerID:  strings.TrimSpace(r.CustomerID),
		UserID:      strings.TrimSpace(r.UserID),
		ContactID:   strings.TrimSpace(r.ContactID),
	}
}

type appointmentResponse struct {
	Appointment appointmentDTO `json:"appointment"`
}

type listAppointmentsResponse struct {
	Appointments []appointmentDTO `json:"appointments"`
}

type rejectionResponse struct {
	Message    string         `json:"message"`
	Violations []violationDTO `json:"violations"`
}

type violationDTO struct {
	Kind          string `json:"kind"`
	ConflictingID string `json:"conflicting_id,omitempty"`
	Message       string `json:"message"`
}

type appointmentDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Start       string `json:"start"`
	End         string `json:"end"`
	CustomerID  string `json:"customer_id"`
	UserID      string `json:"user_id"`
	ContactID   string `json:"contact_id"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   string `json:"created_at"`
	UpdatedBy   string `json:"updated_by"`
	UpdatedAt   string `json:"updated_at"`
}

func toAppointmentDTO(appointment application.Appointment) appointmentDTO {
	return appointmentDTO{
		ID:          appointment.ID,
		Title:       appointment.Title,
		Description: appointment.Description,
		Location:    appointment.Location,
		Type:        appointment.Type,
		Start:       appointment.Start.UTC().Format(time.RFC3339),
		End:         appointment.End.UTC().Format(time.RFC3339),
		CustomerID:  appointment.CustomerID,
		UserID:      appointment.UserID,
		ContactID:   appointment.ContactID,
		CreatedBy:   appointment.CreatedBy,
		CreatedAt:   appointment.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedBy:   appointment.UpdatedBy,
		UpdatedAt:   appointment.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toAppointmentDTOs(appointments []application.Appointment) []appointmentDTO {
	if len(appointments) == 0 {
		return nil
	}
	out := make([]appointmentDTO, 0, len(appointments))
	for _, appointment := range appointments {
		out = append(out, toAppointmentDTO(appointment))
	}
	return out
}
