// Package settings implements the HTTP handlers of user preferences and the
// outbound mail configuration.
package settings

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/vitaleevo/holyfinance/internal/http/middlewarectx"
	"github.com/vitaleevo/holyfinance/internal/http/response"
	"github.com/vitaleevo/holyfinance/internal/lib/sl"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// Service defines the settings operations the handlers need.
type Service interface {
	Get(ctx context.Context, userUID string) (*models.Settings, error)
	Update(ctx context.Context, userUID string, req models.DummySettings) error
	GetEmail(ctx context.Context, userUID string) (*models.EmailSettings, error)
	UpdateEmail(ctx context.Context, userUID string, req models.DummyEmailSettings) error
}

// Handler serves the settings routes.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a new settings Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

type settingsView struct {
	Theme              string `json:"theme"`
	EmailNotifications bool   `json:"email_notifications"`
	PrivacyMode        bool   `json:"privacy_mode"`
}

// emailSettingsView deliberately omits the stored password.
type emailSettingsView struct {
	Host      string `json:"host"`
	Port      string `json:"port"`
	Username  string `json:"username"`
	FromEmail string `json:"from_email"`
	Secure    bool   `json:"secure"`
}

// Get godoc
// @Summary Read settings
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse
// @Router /settings [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.Get"

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

	settings, err := h.service.Get(r.Context(), user.UID)
	if err != nil {
		log.Error("failed to read settings", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.OKWithData(settingsView{
		Theme:              settings.Theme,
		EmailNotifications: settings.EmailNotifications,
		PrivacyMode:        settings.PrivacyMode,
	}))
}

// Update godoc
// @Summary Update settings
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummySettings true "Settings"
// @Success 200 {object} response.OKResponse
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Router /settings [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.Update"

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

	var req models.DummySettings
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

	if err := h.service.Update(r.Context(), user.UID, req); err != nil {
		log.Error("failed to update settings", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("updated settings")
	render.JSON(w, r, response.OK())
}

// GetEmail godoc
// @Summary Read email settings
// @Description Returns the outbound mail configuration, password omitted
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Not configured"
// @Router /settings/email [get]
func (h *Handler) GetEmail(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.GetEmail"

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

	es, err := h.service.GetEmail(r.Context(), user.UID)
	if err != nil {
		log.Error("failed to read email settings", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.OKWithData(emailSettingsView{
		Host:      es.Host,
		Port:      es.Port,
		Username:  es.Username,
		FromEmail: es.FromEmail,
		Secure:    es.Secure,
	}))
}

// UpdateEmail godoc
// @Summary Update email settings
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyEmailSettings true "Mail configuration"
// @Success 200 {object} response.OKResponse
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Router /settings/email [put]
func (h *Handler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.UpdateEmail"

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

	var req models.DummyEmailSettings
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

	if err := h.service.UpdateEmail(r.Context(), user.UID, req); err != nil {
		log.Error("failed to update email settings", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("updated email settings")
	render.JSON(w, r, response.OK())
}
