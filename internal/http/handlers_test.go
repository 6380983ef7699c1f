package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/appointment-desk/internal/application"
	"github.com/example/appointment-desk/internal/scheduling"
)

type appointmentServiceStub struct {
	created      application.Appointment
	result       scheduling.Result
	err          error
	lastParams   application.CreateAppointmentParams
	deleteErr    error
	upcomingList []application.Appointment
}

func (s *appointmentServiceStub) CreateAppointment(ctx context.Context, params application.CreateAppointmentParams) (application.Appointment, scheduling.Result, error) {
	s.lastParams = params
	return s.created, s.result, s.err
}

func (s *appointmentServiceStub) UpdateAppointment(ctx context.Context, params application.UpdateAppointmentParams) (application.Appointment, scheduling.Result, error) {
	return s.created, s.result, s.err
}

func (s *appointmentServiceStub) DeleteAppointment(ctx context.Context, actor application.CurrentUser, appointmentID string) error {
	return s.deleteErr
}

func (s *appointmentServiceStub) GetAppointment(ctx context.Context, appointmentID string) (application.Appointment, error) {
	if s.err != nil {
		return application.Appointment{}, s.err
	}
	return s.created, nil
}

func (s *appointmentServiceStub) ListAppointments(ctx context.Context) ([]application.Appointment, error) {
	return s.upcomingList, s.err
}

func (s *appointmentServiceStub) Upcoming(ctx context.Context, actor application.CurrentUser) ([]application.Appointment, error) {
	return s.upcomingList, s.err
}

type resolverStub struct {
	actor application.CurrentUser
	err   error
}

func (s resolverStub) ResolveUser(ctx context.Context, username string) (application.CurrentUser, error) {
	if s.err != nil {
		return application.CurrentUser{}, s.err
	}
	return s.actor, nil
}

type authServiceStub struct {
	actor application.CurrentUser
	err   error
}

func (s authServiceStub) Authenticate(ctx context.Context, username, password string) (application.CurrentUser, error) {
	if s.err != nil {
		return application.CurrentUser{}, s.err
	}
	return s.actor, nil
}

func sampleAppointment() application.Appointment {
	start := time.Date(2024, time.March, 11, 13, 0, 0, 0, time.UTC)
	return application.Appointment{
		ID:         "appt-1",
		Title:      "Planning session",
		Type:       "Planning",
		Start:      start,
		End:        start.Add(time.Hour),
		CustomerID: "customer-5",
		UserID:     "user-1",
		ContactID:  "contact-1",
		CreatedBy:  "desk",
		UpdatedBy:  "desk",
	}
}

func newTestRouter(appointments *appointmentServiceStub, auth authServiceStub, resolver resolverStub) http.Handler {
	return NewRouter(RouterConfig{
		Auth:         NewAuthHandler(auth, nil),
		Appointments: NewAppointmentHandler(appointments, nil),
		RequireUser:  RequireUser(resolver, nil),
	})
}

func actingRequest(method, target, body string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(ActingUserHeader, "desk")
	return req
}

func TestAppointmentHandlers(t *testing.T) {
	t.Parallel()

	resolver := resolverStub{actor: application.CurrentUser{ID: "user-1", Username: "desk"}}

	t.Run("create responds 201 with the stored appointment", func(t *testing.T) {
		t.Parallel()
		stub := &appointmentServiceStub{created: sampleAppointment()}
		router := newTestRouter(stub, authServiceStub{}, resolver)

		body := `{"title":"Planning session","date":"2024-03-11","start_time":"09:00","end_time":"10:00","customer_id":"customer-5"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, actingRequest(http.MethodPost, "/appointments", body))

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		var resp appointmentResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if resp.Appointment.ID != "appt-1" {
			t.Fatalf("unexpected appointment: %+v", resp.Appointment)
		}
		if stub.lastParams.Actor.Username != "desk" {
			t.Fatalf("acting user not forwarded: %+v", stub.lastParams.Actor)
		}
	})

	t.Run("rejected proposal responds 409 with every violation", func(t *testing.T) {
		t.Parallel()
		stub := &appointmentServiceStub{result: scheduling.Result{Violations: []scheduling.Violation{
			{Kind: scheduling.ViolationOutsideBusinessHours},
			{Kind: scheduling.ViolationOverlapsAppointment, ConflictingID: "appt-9"},
		}}}
		router := newTestRouter(stub, authServiceStub{}, resolver)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, actingRequest(http.MethodPost, "/appointments", ""))

		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
		var resp rejectionResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if len(resp.Violations) != 2 {
			t.Fatalf("expected two violations, got %+v", resp.Violations)
		}
		if resp.Violations[1].ConflictingID != "appt-9" {
			t.Fatalf("conflicting id not serialized: %+v", resp.Violations[1])
		}
	})

	t.Run("input problems respond 422 with per-field messages", func(t *testing.T) {
		t.Parallel()
		stub := &appointmentServiceStub{err: &scheduling.InputError{Issues: []scheduling.FieldIssue{
			{Field: "title", Kind: scheduling.IssueMissingRequiredField},
			{Field: "date", Kind: scheduling.IssueUnparsableDate},
		}}}
		router := newTestRouter(stub, authServiceStub{}, resolver)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, actingRequest(http.MethodPost, "/appointments", ""))

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
		var resp errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if len(resp.Errors) != 2 {
			t.Fatalf("expected two field errors, got %v", resp.Errors)
		}
	})

	t.Run("missing appointment responds 404", func(t *testing.T) {
		t.Parallel()
		stub := &appointmentServiceStub{err: application.ErrNotFound}
		router := newTestRouter(stub, authServiceStub{}, resolver)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, actingRequest(http.MethodGet, "/appointments/missing", ""))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("delete responds 204", func(t *testing.T) {
		t.Parallel()
		stub := &appointmentServiceStub{}
		router := newTestRouter(stub, authServiceStub{}, resolver)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, actingRequest(http.MethodDelete, "/appointments/appt-1", ""))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
	})

	t.Run("malformed body responds 400", func(t *testing.T) {
		t.Parallel()
		stub := &appointmentServiceStub{}
		router := newTestRouter(stub, authServiceStub{}, resolver)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, actingRequest(http.MethodPost, "/appointments", "not json"))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestAuthHandlers(t *testing.T) {
	t.Parallel()

	t.Run("login returns the authenticated user", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&appointmentServiceStub{}, authServiceStub{actor: application.CurrentUser{ID: "user-1", Username: "desk"}}, resolverStub{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"desk","password":"letmein"}`))
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp loginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if resp.UserID != "user-1" || resp.Username != "desk" {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("invalid credentials respond 401", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&appointmentServiceStub{}, authServiceStub{err: application.ErrInvalidCredentials}, resolverStub{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"desk","password":"guess"}`))
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("login does not require the acting user header", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&appointmentServiceStub{}, authServiceStub{}, resolverStub{err: application.ErrNotFound})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"desk","password":"letmein"}`))
		router.ServeHTTP(rec, req)

		if rec.Code == http.StatusUnauthorized && strings.Contains(rec.Body.String(), "acting user") {
			t.Fatalf("login must bypass acting-user resolution: %s", rec.Body.String())
		}
	})
}

func TestRequireUser(t *testing.T) {
	t.Parallel()

	t.Run("missing header responds 401", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&appointmentServiceStub{}, authServiceStub{}, resolverStub{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("unknown acting user responds 401", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&appointmentServiceStub{}, authServiceStub{}, resolverStub{err: application.ErrNotFound})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, actingRequest(http.MethodGet, "/appointments", ""))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("assigns an identifier when none is supplied", func(t *testing.T) {
		t.Parallel()
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := RequestIDFromContext(r.Context()); !ok || id == "" {
				t.Error("request id missing from context")
			}
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Header().Get("X-Request-ID") == "" {
			t.Fatal("request id not echoed on the response")
		}
	})

	t.Run("keeps an upstream identifier", func(t *testing.T) {
		t.Parallel()
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "upstream-42")
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("X-Request-ID"); got != "upstream-42" {
			t.Fatalf("request id = %q, want upstream-42", got)
		}
	})
}

type pingerStub struct {
	err error
}

func (s pingerStub) Ping(ctx context.Context) error {
	return s.err
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	t.Run("responds 200 when the database answers", func(t *testing.T) {
		t.Parallel()
		router := NewRouter(RouterConfig{
			Health:      NewHealthHandler(pingerStub{}, nil),
			RequireUser: RequireUser(resolverStub{err: application.ErrNotFound}, nil),
		})

		rec := httptest.NewRecorder()
		// No acting-user header: the health check must stay reachable for
		// load balancers.
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Status != "ok" {
			t.Fatalf("status field = %q, want ok", resp.Status)
		}
	})

	t.Run("responds 503 when the database is unreachable", func(t *testing.T) {
		t.Parallel()
		handler := NewHealthHandler(pingerStub{err: errors.New("connection refused")}, nil)

		rec := httptest.NewRecorder()
		handler.Check(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
	})
}
