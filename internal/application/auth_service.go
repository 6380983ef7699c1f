package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/appointment-desk/internal/persistence"
)

// UserRepository captures the persistence interactions needed by the auth
// service.
type UserRepository interface {
	Save(ctx context.Context, user persistence.User) (persistence.User, error)
	Get(ctx context.Context, id string) (persistence.User, error)
	GetByUsername(ctx context.Context, username string) (persistence.User, error)
}

// AuthService verifies login credentials and manages accounts. Successful
// logins yield a CurrentUser that callers pass explicitly into mutating
// operations for audit stamping; there is no ambient logged-in-user state.
type AuthService struct {
	users  UserRepository
	logger *slog.Logger
}

// NewAuthService wires dependencies for authentication.
func NewAuthService(users UserRepository, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, logger: logger}
}

// Authenticate verifies a username/password pair. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (CurrentUser, error) {
	if s == nil || s.users == nil {
		return CurrentUser{}, fmt.Errorf("auth service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "auth", "authenticate", "username", username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			logger.InfoContext(ctx, "login failed", "error_kind", "invalid_credentials")
			return CurrentUser{}, ErrInvalidCredentials
		}
		return CurrentUser{}, err
	}

	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.InfoContext(ctx, "login failed", "error_kind", "invalid_credentials")
			return CurrentUser{}, ErrInvalidCredentials
		}
		return CurrentUser{}, err
	}

	logger.InfoContext(ctx, "login succeeded", "user_id", user.ID)
	return CurrentUser{ID: user.ID, Username: user.Username}, nil
}

// ResolveUser turns a username into a CurrentUser without checking a
// password. Used by transports that identify the acting user per request.
func (s *AuthService) ResolveUser(ctx context.Context, username string) (CurrentUser, error) {
	if s == nil || s.users == nil {
		return CurrentUser{}, fmt.Errorf("auth service not configured")
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return CurrentUser{}, ErrNotFound
		}
		return CurrentUser{}, err
	}
	return CurrentUser{ID: user.ID, Username: user.Username}, nil
}

// EnsureUser creates an account when the username is free and returns the
// existing one otherwise. Used at startup to guarantee a login exists.
func (s *AuthService) EnsureUser(ctx context.Context, username, password string) (CurrentUser, error) {
	if s == nil || s.users == nil {
		return CurrentUser{}, fmt.Errorf("auth service not configured")
	}
	username = strings.ToLower(strings.TrimSpace(username))

	existing, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return CurrentUser{ID: existing.ID, Username: existing.Username}, nil
	}
	if !errors.Is(err, persistence.ErrNotFound) {
		return CurrentUser{}, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return CurrentUser{}, err
	}
	saved, err := s.users.Save(ctx, persistence.User{Username: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			return CurrentUser{}, ErrUsernameTaken
		}
		return CurrentUser{}, err
	}

	serviceLogger(ctx, s.logger, "auth", "ensure_user").InfoContext(ctx, "user created", "user_id", saved.ID, "username", saved.Username)
	return CurrentUser{ID: saved.ID, Username: saved.Username}, nil
}
