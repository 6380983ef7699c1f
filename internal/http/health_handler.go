package http

import (
	"context"
	"log/slog"
	"net/http"
)

// Pinger is the slice of the storage layer the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store     Pinger
	responder responder
}

func NewHealthHandler(store Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, responder: newResponder(logger)}
}

// Check reports whether the service can reach its database. Load balancers
// poll this, so failures are logged but answered with a plain 503.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.store.Ping(r.Context()); err != nil {
		logger := handlerLogger(r.Context(), h.responder.logger, "health", "check")
		logger.ErrorContext(r.Context(), "database unreachable", "error", err)
		h.responder.writeJSON(r.Context(), w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
}

type healthResponse struct {
	Status string `json:"status"`
}
