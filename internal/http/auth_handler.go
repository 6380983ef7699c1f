package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/appointment-desk/internal/application"
)

type authService interface {
	Authenticate(ctx context.Context, username, password string) (application.CurrentUser, error)
}

type AuthHandler struct {
	service   authService
	responder responder
}

func NewAuthHandler(service authService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: service, responder: newResponder(logger)}
}

// Login verifies a username/password pair and returns the matching user.
// Every failed attempt is logged with the username that tried.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	username := strings.TrimSpace(req.Username)
	logger := handlerLogger(r.Context(), h.responder.logger, "auth", "login", "username", username)

	actor, err := h.service.Authenticate(r.Context(), username, req.Password)
	if err != nil {
		logger.InfoContext(r.Context(), "login rejected")
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "login accepted", "user_id", actor.ID)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, loginResponse{
		UserID:   actor.ID,
		Username: actor.Username,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
