package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/appointment-desk/internal/application"
	"github.com/example/appointment-desk/internal/logging"
	"github.com/example/appointment-desk/internal/scheduling"
)

var (
	errBadRequestBody       = errors.New("the request body is not valid JSON")
	errInvalidAppointmentID = errors.New("invalid appointment id")
	errInvalidCustomerID    = errors.New("invalid customer id")
	errInvalidContactID     = errors.New("invalid contact id")
	errMissingActingUser    = errors.New("the acting user header is required")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := statusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_INVALID_CREDENTIALS",
			Message:   "the username or password is incorrect",
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "the requested resource was not found"})
	default:
		var inErr *scheduling.InputError
		if errors.As(err, &inErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "the submitted form has problems",
				Errors:  describeInputIssues(inErr),
			})
			return
		}

		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "the submitted form has problems",
				Errors:  vErr.FieldErrors,
			})
			return
		}

		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "an internal error occurred"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "the request is not valid"
	case http.StatusUnauthorized:
		return "authentication is required"
	case http.StatusNotFound:
		return "the requested resource was not found"
	case http.StatusConflict:
		return "the request conflicts with existing appointments"
	case http.StatusUnprocessableEntity:
		return "the submitted form has problems"
	default:
		return "an internal error occurred"
	}
}

func describeInputIssues(inErr *scheduling.InputError) map[string]string {
	if inErr == nil || len(inErr.Issues) == 0 {
		return nil
	}

	described := make(map[string]string, len(inErr.Issues))
	for _, issue := range inErr.Issues {
		described[issue.Field] = describeIssueKind(issue.Kind)
	}
	return described
}

func describeIssueKind(kind scheduling.IssueKind) string {
	switch kind {
	case scheduling.IssueMissingRequiredField:
		return "this field is required"
	case scheduling.IssueUnparsableDate:
		return "the date must use the YYYY-MM-DD format"
	case scheduling.IssueUnparsableTime:
		return "the time must use the 24-hour HH:MM format"
	case scheduling.IssueUnselectedReference:
		return "a selection is required"
	default:
		return string(kind)
	}
}

// describeViolation renders one scheduling rule violation for the response
// body. Overlap messages carry the conflicting appointment so the desk user
// can adjust the times.
func describeViolation(v scheduling.Violation) string {
	switch v.Kind {
	case scheduling.ViolationEndBeforeStart:
		return "the end time must be after the start time"
	case scheduling.ViolationAppointmentInPast:
		return "the appointment must start in the future"
	case scheduling.ViolationOutsideBusinessHours:
		return "the appointment must fall within business hours"
	case scheduling.ViolationOverlapsAppointment:
		return "the appointment overlaps appointment " + v.ConflictingID
	default:
		return string(v.Kind)
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
