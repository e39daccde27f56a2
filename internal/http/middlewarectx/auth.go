// Package middlewarectx contains the HTTP middleware that resolves the
// session token to a user and the keys under which the result lives in the
// request context.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/vitaleevo/holyfinance/internal/http/response"
	"github.com/vitaleevo/holyfinance/internal/lib/sl"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// Key is the type of request context keys set by this package.
type Key string

const (
	// User is the key under which the resolved *models.User is stored.
	User Key = "user"
	// Token is the key under which the raw session token is stored, so the
	// logout handler can revoke exactly the session that authenticated it.
	Token Key = "token"
)

// Service resolves a session token to its user.
type Service interface {
	Validate(ctx context.Context, token string) (*models.User, error)
}

// SessionMiddleware returns middleware that requires a valid Bearer session
// token. On success the user model and the token are added to the request
// context; on failure the request ends with 401.
func SessionMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := authService.Validate(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired session", sl.Err(err))
				status, body := response.MapError(err)
				w.WriteHeader(status)
				render.JSON(w, r, body)
				return
			}

			ctx := context.WithValue(r.Context(), User, user)
			ctx = context.WithValue(ctx, Token, tokenStr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user set by SessionMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(User).(*models.User)
	return user, ok && user != nil
}

// TokenFromContext returns the raw session token set by SessionMiddleware.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(Token).(string)
	return token, ok && token != ""
}
