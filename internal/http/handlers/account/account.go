// Package account implements the HTTP handlers of bank accounts.
package account

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/vitaleevo/holyfinance/internal/http/middlewarectx"
	"github.com/vitaleevo/holyfinance/internal/http/response"
	"github.com/vitaleevo/holyfinance/internal/lib/sl"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// Service defines the account operations the handlers need.
type Service interface {
	Create(ctx context.Context, user *models.User, req models.DummyAccount) (int64, error)
	Get(ctx context.Context, userUID string, id int64) (*models.Account, error)
	List(ctx context.Context, userUID string) ([]*models.Account, error)
	Update(ctx context.Context, userUID string, id int64, req models.DummyAccount) error
	Remove(ctx context.Context, userUID string, id int64) error
}

// Handler serves the account routes.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a new account Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

type accountView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Bank      string    `json:"bank"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

func toView(a *models.Account) accountView {
	return accountView{
		ID:        a.ID,
		Name:      a.Name,
		Type:      a.Type,
		Bank:      a.Bank,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
	}
}

// Create godoc
// @Summary Create an account
// @Description Creates a bank account, subject to the package quota
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyAccount true "Account data"
// @Success 200 {object} response.OKResponse
// @Failure 403 {object} response.ErrorResponse "Quota exceeded"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Router /accounts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.Create"

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

	var req models.DummyAccount
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

	id, err := h.service.Create(r.Context(), user, req)
	if err != nil {
		log.Error("failed to create account", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("created account", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}

// List godoc
// @Summary List accounts
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse
// @Router /accounts [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.List"

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

	accounts, err := h.service.List(r.Context(), user.UID)
	if err != nil {
		log.Error("failed to list accounts", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	views := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, toView(a))
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"accounts": views,
	}))
}

// Read godoc
// @Summary Read one account
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Router /accounts/{id} [get]
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.Read"

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

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	account, err := h.service.Get(r.Context(), user.UID, id)
	if err != nil {
		log.Error("failed to read account", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.OKWithData(toView(account)))
}

// Update godoc
// @Summary Update an account
// @Description Renames or retypes an account, the balance is untouched
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param request body models.DummyAccount true "Account data"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Router /accounts/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.Update"

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

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	var req models.DummyAccount
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

	if err := h.service.Update(r.Context(), user.UID, id, req); err != nil {
		log.Error("failed to update account", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("updated account", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}

// Remove godoc
// @Summary Remove an account
// @Description Deletes an account, historical transactions keep referring to it
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Router /accounts/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.Remove"

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

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	if err := h.service.Remove(r.Context(), user.UID, id); err != nil {
		log.Error("failed to remove account", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("removed account", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}
