// Package auth implements the HTTP handlers of the session lifecycle:
// registration, login, logout and the current-user read.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/vitaleevo/holyfinance/internal/http/middlewarectx"
	"github.com/vitaleevo/holyfinance/internal/http/response"
	"github.com/vitaleevo/holyfinance/internal/lib/sl"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// Service defines the auth operations the handlers need.
type Service interface {
	Register(ctx context.Context, req models.DummyRegister) (string, error)
	Login(ctx context.Context, req models.DummyLogin) (string, error)
	Logout(ctx context.Context, token string) error
}

// Handler serves the auth routes.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a new auth Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

type userView struct {
	UID        string    `json:"uid"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	PackageKey string    `json:"package_key"`
	CreatedAt  time.Time `json:"created_at"`
}

func toView(u *models.User) userView {
	return userView{
		UID:        u.UID,
		Email:      u.Email,
		Username:   u.Username,
		Name:       u.Name,
		Role:       u.Role,
		PackageKey: u.PackageKey,
		CreatedAt:  u.CreatedAt,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Creates a new user on the basic package
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.DummyRegister true "New user data"
// @Success 200 {object} response.OKResponse
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 409 {object} response.ErrorResponse "Email or username taken"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Router /register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRegister
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	uid, err := h.service.Register(r.Context(), req)
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("registered user", slog.String("uid", uid), slog.String("username", req.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"uid":      uid,
		"username": req.Username,
	}))
}

// Login godoc
// @Summary Log in
// @Description Verifies credentials and issues a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.DummyLogin true "Credentials"
// @Success 200 {object} response.OKResponse
// @Failure 401 {object} response.ErrorResponse "Bad credentials"
// @Router /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyLogin
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	token, err := h.service.Login(r.Context(), req)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("login success", slog.String("username", req.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token": token,
	}))
}

// Logout godoc
// @Summary Log out
// @Description Revokes the session that authenticated this request
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse
// @Failure 401 {object} response.ErrorResponse "Unauthenticated"
// @Router /logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token, ok := middlewarectx.TokenFromContext(r.Context())
	if !ok {
		log.Error("token not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthenticated"))
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		log.Error("logout failed", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("logout success")
	render.JSON(w, r, response.OK())
}

// Me godoc
// @Summary Current user
// @Description Returns the user resolved from the session token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse
// @Failure 401 {object} response.ErrorResponse "Unauthenticated"
// @Router /me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthenticated"))
		return
	}

	render.JSON(w, r, response.OKWithData(toView(user)))
}
