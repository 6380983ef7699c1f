package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/appointment-desk/internal/application"
)

type reportService interface {
	TotalsByTypeAndMonth(ctx context.Context) ([]application.TypeMonthTotal, error)
	ScheduleForContact(ctx context.Context, contactID string) ([]application.Appointment, error)
}

// ReportHandler serves the desk reports: appointment totals grouped by type
// and month, and the full schedule for one contact.
type ReportHandler struct {
	service   reportService
	responder responder
}

func NewReportHandler(service reportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{service: service, responder: newResponder(logger)}
}

func (h *ReportHandler) TypeMonthTotals(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	totals, err := h.service.TotalsByTypeAndMonth(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]typeMonthTotalDTO, 0, len(totals))
	for _, total := range totals {
		out = append(out, typeMonthTotalDTO{
			Type:  total.Type,
			Year:  total.Year,
			Month: int(total.Month),
			Count: total.Count,
		})
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, typeMonthTotalsResponse{Totals: out})
}

func (h *ReportHandler) ContactSchedule(w http.ResponseWriter, r *http.Request, contactID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if strings.TrimSpace(contactID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidContactID)
		return
	}

	appointments, err := h.service.ScheduleForContact(r.Context(), contactID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listAppointmentsResponse{Appointments: toAppointmentDTOs(appointments)})
}

type typeMonthTotalsResponse struct {
	Totals []typeMonthTotalDTO `json:"totals"`
}

type typeMonthTotalDTO struct {
	Type  string `json:"type"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Count int    `json:"count"`
}
