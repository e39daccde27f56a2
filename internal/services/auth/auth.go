// Package auth implements registration, login and the session manager.
// Sessions are opaque random tokens stored server side; a token validates
// only while its row exists and has not expired.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/lib/password"
	"github.com/vitaleevo/holyfinance/internal/lib/token"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// UserRepository defines the user storage methods the service needs.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// SessionRepository defines the session storage methods the service needs.
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}

// Service implements registration and the session lifecycle.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	tokenTTL time.Duration
	log      *slog.Logger
}

// New creates a new auth Service.
func New(users UserRepository, sessions SessionRepository, tokenTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// Register creates a new user on the basic package and returns the UID.
func (s *Service) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	hash, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}

	uid, err := s.users.RegisterUser(ctx, models.User{
		UID:          uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         "user",
		PackageKey:   "basic",
	})
	if err != nil {
		return "", err
	}

	s.log.Info("registered new user", slog.String("uid", uid))
	return uid, nil
}

// Login verifies credentials and issues a session token. A token collision
// in the store is resolved by regenerating.
func (s *Service) Login(ctx context.Context, req models.DummyLogin) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", errs.ErrUnauthenticated
		}
		return "", err
	}
	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		return "", errs.ErrUnauthenticated
	}

	const maxAttempts = 3
	for attempt := 0; attempt < maxAttempts; attempt++ {
		tok, err := token.New()
		if err != nil {
			return "", err
		}
		err = s.sessions.CreateSession(ctx, models.Session{
			Token:     tok,
			UserUID:   user.UID,
			ExpiresAt: time.Now().Add(s.tokenTTL),
		})
		if errors.Is(err, errs.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return "", err
		}
		s.log.Info("issued session", slog.String("user_uid", user.UID))
		return tok, nil
	}
	return "", fmt.Errorf("could not issue a unique session token after %d attempts", maxAttempts)
}

// Validate resolves a token to its user. An unknown token yields
// ErrUnauthenticated, a known but expired one ErrSessionExpired.
func (s *Service) Validate(ctx context.Context, tok string) (*models.User, error) {
	session, err := s.sessions.GetSession(ctx, tok)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrUnauthenticated
		}
		return nil, err
	}
	if session.Expired(time.Now()) {
		return nil, errs.ErrSessionExpired
	}
	return s.users.GetUser(ctx, session.UserUID)
}

// Logout deletes the session for the token.
func (s *Service) Logout(ctx context.Context, tok string) error {
	return s.sessions.DeleteSession(ctx, tok)
}

// CleanupExpired removes expired session rows. Housekeeping only.
func (s *Service) CleanupExpired(ctx context.Context) (int, error) {
	return s.sessions.DeleteExpiredSessions(ctx, time.Now())
}
