package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/lib/password"
	"github.com/vitaleevo/holyfinance/internal/models"
	"github.com/vitaleevo/holyfinance/internal/services/auth"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type SessionRepoMock struct {
	mock.Mock
}

func (m *SessionRepoMock) CreateSession(ctx context.Context, session models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *SessionRepoMock) GetSession(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *SessionRepoMock) DeleteSession(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *SessionRepoMock) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name       string
		req        models.DummyRegister
		setupMocks func(r *UserRepoMock)
		wantUID    string
		wantErr    bool
	}{
		{
			name: "successful registration on basic package",
			req: models.DummyRegister{
				Email:    "maria@example.com",
				Username: "maria",
				Name:     "Maria Silva",
				Password: "password123",
			},
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "maria@example.com" &&
						user.Username == "maria" &&
						user.UID != "" &&
						user.PasswordHash != "" &&
						user.PasswordHash != "password123" &&
						user.Role == "user" &&
						user.PackageKey == "basic"
				})).Return("uid-123", nil).Once()
			},
			wantUID: "uid-123",
			wantErr: false,
		},
		{
			name: "duplicate email",
			req: models.DummyRegister{
				Email:    "maria@example.com",
				Username: "maria",
				Name:     "Maria Silva",
				Password: "password123",
			},
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.Anything).Return("", errs.ErrAlreadyExists).Once()
			},
			wantUID: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			sessions := new(SessionRepoMock)
			svc := auth.New(users, sessions, time.Hour, newNoopLogger())

			tt.setupMocks(users)

			got, err := svc.Register(context.Background(), tt.req)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantUID, got)
			}

			users.AssertExpectations(t)
		})
	}
}

func TestService_Login(t *testing.T) {
	rawPassword := "correctpassword"
	hashed, err := password.GetHash(rawPassword)
	require.NoError(t, err)

	testUser := &models.User{
		UID:          "uid-123",
		Username:     "maria",
		PasswordHash: hashed,
	}

	t.Run("successful login stores a session", func(t *testing.T) {
		users := new(UserRepoMock)
		sessions := new(SessionRepoMock)
		svc := auth.New(users, sessions, time.Hour, newNoopLogger())

		users.On("GetUserByUsername", mock.Anything, "maria").Return(testUser, nil).Once()
		sessions.On("CreateSession", mock.Anything, mock.MatchedBy(func(s models.Session) bool {
			return s.UserUID == "uid-123" && len(s.Token) == 64 && s.ExpiresAt.After(time.Now())
		})).Return(nil).Once()

		tok, err := svc.Login(context.Background(), models.DummyLogin{Username: "maria", Password: rawPassword})
		require.NoError(t, err)
		assert.Len(t, tok, 64)

		users.AssertExpectations(t)
		sessions.AssertExpectations(t)
	})

	t.Run("unknown username maps to unauthenticated", func(t *testing.T) {
		users := new(UserRepoMock)
		sessions := new(SessionRepoMock)
		svc := auth.New(users, sessions, time.Hour, newNoopLogger())

		users.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, errs.ErrNotFound).Once()

		_, err := svc.Login(context.Background(), models.DummyLogin{Username: "ghost", Password: "whatever"})
		assert.ErrorIs(t, err, errs.ErrUnauthenticated)
	})

	t.Run("wrong password maps to unauthenticated", func(t *testing.T) {
		users := new(UserRepoMock)
		sessions := new(SessionRepoMock)
		svc := auth.New(users, sessions, time.Hour, newNoopLogger())

		users.On("GetUserByUsername", mock.Anything, "maria").Return(testUser, nil).Once()

		_, err := svc.Login(context.Background(), models.DummyLogin{Username: "maria", Password: "wrong"})
		assert.ErrorIs(t, err, errs.ErrUnauthenticated)
	})

	t.Run("token collision retries with a fresh token", func(t *testing.T) {
		users := new(UserRepoMock)
		sessions := new(SessionRepoMock)
		svc := auth.New(users, sessions, time.Hour, newNoopLogger())

		users.On("GetUserByUsername", mock.Anything, "maria").Return(testUser, nil).Once()
		sessions.On("CreateSession", mock.Anything, mock.Anything).Return(errs.ErrAlreadyExists).Once()
		sessions.On("CreateSession", mock.Anything, mock.Anything).Return(nil).Once()

		tok, err := svc.Login(context.Background(), models.DummyLogin{Username: "maria", Password: rawPassword})
		require.NoError(t, err)
		assert.Len(t, tok, 64)

		sessions.AssertExpectations(t)
	})

	t.Run("storage error is passed through", func(t *testing.T) {
		users := new(UserRepoMock)
		sessions := new(SessionRepoMock)
		svc := auth.New(users, sessions, time.Hour, newNoopLogger())

		users.On("GetUserByUsername", mock.Anything, "maria").Return(nil, errors.New("db down")).Once()

		_, err := svc.Login(context.Background(), models.DummyLogin{Username: "maria", Password: rawPassword})
		require.Error(t, err)
		assert.NotErrorIs(t, err, errs.ErrUnauthenticated)
	})
}

func TestService_Validate(t *testing.T) {
	testUser := &models.User{UID: "uid-123", Username: "maria"}

	t.Run("active session resolves the user", func(t *testing.T) {
		users := new(UserRepoMock)
		sessions := new(SessionRepoMock)
		svc := auth.New(users, sessions, time.Hour, newNoopLogger())

		sessions.On("GetSession", mock.Anything, "tok").Return(&models.Session{
			Token:     "tok",
			UserUID:   "uid-123",
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil).Once()
		users.On("GetUser", mock.Anything, "uid-123").Return(testUser, nil).Once()

		got, err := svc.Validate(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, testUser, got)
	})

	t.Run("unknown token yields unauthenticated", func(t *testing.T) {
		users := new(UserRepoMock)
		sessions := new(SessionRepoMock)
		svc := auth.New(users, sessions, time.Hour, newNoopLogger())

		sessions.On("GetSession", mock.Anything, "nope").Return(nil, errs.ErrNotFound).Once()

		_, err := svc.Validate(context.Background(), "nope")
		assert.ErrorIs(t, err, errs.ErrUnauthenticated)
	})

	t.Run("expired session yields session expired", func(t *testing.T) {
		users := new(UserRepoMock)
		sessions := new(SessionRepoMock)
		svc := auth.New(users, sessions, time.Hour, newNoopLogger())

		sessions.On("GetSession", mock.Anything, "old").Return(&models.Session{
			Token:     "old",
			UserUID:   "uid-123",
			ExpiresAt: time.Now().Add(-time.Minute),
		}, nil).Once()

		_, err := svc.Validate(context.Background(), "old")
		assert.ErrorIs(t, err, errs.ErrSessionExpired)
		users.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})
}

func TestService_Logout(t *testing.T) {
	users := new(UserRepoMock)
	sessions := new(SessionRepoMock)
	svc := auth.New(users, sessions, time.Hour, newNoopLogger())

	sessions.On("DeleteSession", mock.Anything, "tok").Return(nil).Once()

	require.NoError(t, svc.Logout(context.Background(), "tok"))
	sessions.AssertExpectations(t)
}
