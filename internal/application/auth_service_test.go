package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/appointment-desk/internal/persistence"
	"github.com/example/appointment-desk/internal/testfixtures"
)

type userRepoStub struct {
	byUsername map[string]persistence.User
	saved      []persistence.User
	saveErr    error
}

func (s *userRepoStub) Save(ctx context.Context, user persistence.User) (persistence.User, error) {
	if s.saveErr != nil {
		return persistence.User{}, s.saveErr
	}
	if user.ID == "" {
		user.ID = "user-1"
	}
	s.saved = append(s.saved, user)
	return user, nil
}

func (s *userRepoStub) Get(ctx context.Context, id string) (persistence.User, error) {
	for _, user := range s.byUsername {
		if user.ID == id {
			return user, nil
		}
	}
	return persistence.User{}, persistence.ErrNotFound
}

func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (persistence.User, error) {
	user, ok := s.byUsername[strings.ToLower(username)]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

func seededUserRepo(t *testing.T, username, password string) (*userRepoStub, persistence.User) {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := testfixtures.NewUserFixture(testfixtures.WithUsername(strings.ToLower(username)))
	user.PasswordHash = hash
	return &userRepoStub{byUsername: map[string]persistence.User{user.Username: user}}, user
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	repo, seeded := seededUserRepo(t, "desk", "letmein")
	svc := NewAuthService(repo, nil)

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		actor, err := svc.Authenticate(context.Background(), "desk", "letmein")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if actor.ID != seeded.ID || actor.Username != "desk" {
			t.Fatalf("unexpected actor: %+v", actor)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Authenticate(context.Background(), "desk", "guess")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown username is indistinguishable from wrong password", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Authenticate(context.Background(), "nobody", "letmein")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestResolveUser(t *testing.T) {
	t.Parallel()

	repo, _ := seededUserRepo(t, "desk", "letmein")
	svc := NewAuthService(repo, nil)

	actor, err := svc.ResolveUser(context.Background(), "desk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actor.Username != "desk" {
		t.Fatalf("unexpected actor: %+v", actor)
	}

	if _, err := svc.ResolveUser(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEnsureUser(t *testing.T) {
	t.Parallel()

	t.Run("creates missing account with hashed password", func(t *testing.T) {
		t.Parallel()
		repo := &userRepoStub{byUsername: map[string]persistence.User{}}
		svc := NewAuthService(repo, nil)

		actor, err := svc.EnsureUser(context.Background(), "  Desk  ", "letmein")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if actor.Username != "desk" {
			t.Fatalf("username not normalized: %q", actor.Username)
		}
		if len(repo.saved) != 1 {
			t.Fatalf("expected one save, got %d", len(repo.saved))
		}
		if repo.saved[0].PasswordHash == "letmein" || repo.saved[0].PasswordHash == "" {
			t.Fatal("password must be stored hashed")
		}
	})

	t.Run("returns existing account untouched", func(t *testing.T) {
		t.Parallel()
		repo, seeded := seededUserRepo(t, "desk", "letmein")
		svc := NewAuthService(repo, nil)

		actor, err := svc.EnsureUser(context.Background(), "desk", "different")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if actor.ID != seeded.ID {
			t.Fatalf("unexpected actor: %+v", actor)
		}
		if len(repo.saved) != 0 {
			t.Fatal("existing account must not be rewritten")
		}
	})

	t.Run("lost race maps duplicate to ErrUsernameTaken", func(t *testing.T) {
		t.Parallel()
		repo := &userRepoStub{byUsername: map[string]persistence.User{}, saveErr: persistence.ErrDuplicate}
		svc := NewAuthService(repo, nil)

		_, err := svc.EnsureUser(context.Background(), "desk", "letmein")
		if !errors.Is(err, ErrUsernameTaken) {
			t.Fatalf("expected ErrUsernameTaken, got %v", err)
		}
	})
}

func TestPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := VerifyPassword(hash, "correct horse"); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if err := VerifyPassword(hash, "wrong horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := VerifyPassword("not-a-hash", "correct horse"); err == nil {
		t.Fatal("malformed hash must fail verification")
	}
}
