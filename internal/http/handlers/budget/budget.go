// Package budget implements the HTTP handlers of budget limits and the
// budget status read.
package budget

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/vitaleevo/holyfinance/internal/http/middlewarectx"
	"github.com/vitaleevo/holyfinance/internal/http/response"
	"github.com/vitaleevo/holyfinance/internal/lib/sl"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// Service defines the budget operations the handlers need.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummyBudgetLimit) (int64, error)
	List(ctx context.Context, userUID string) ([]*models.BudgetLimit, error)
	Update(ctx context.Context, userUID string, id int64, limitAmount int64) error
	Remove(ctx context.Context, userUID string, id int64) error
	Status(ctx context.Context, user *models.User) ([]models.BudgetStatus, error)
}

// Handler serves the budget routes.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a new budget Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

type budgetView struct {
	ID          int64  `json:"id"`
	Category    string `json:"category"`
	LimitAmount int64  `json:"limit_amount"`
}

// updateRequest receives the budget limit update payload. Only the ceiling
// is mutable; the category identifies the limit and never changes.
type updateRequest struct {
	LimitAmount int64 `json:"limit_amount" validate:"required,gt=0"`
}

// Create godoc
// @Summary Create a budget limit
// @Description Creates a monthly spending ceiling for one category
// @Tags Budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyBudgetLimit true "Budget limit data"
// @Success 200 {object} response.OKResponse
// @Failure 409 {object} response.ErrorResponse "Category already limited"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Router /budgets [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.budget.Create"

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

	var req models.DummyBudgetLimit
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

	id, err := h.service.Create(r.Context(), user.UID, req)
	if err != nil {
		log.Error("failed to create budget limit", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("created budget limit", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}

// List godoc
// @Summary List budget limits
// @Tags Budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse
// @Router /budgets [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.budget.List"

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

	limits, err := h.service.List(r.Context(), user.UID)
	if err != nil {
		log.Error("failed to list budget limits", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	views := make([]budgetView, 0, len(limits))
	for _, l := range limits {
		views = append(views, budgetView{
			ID:          l.ID,
			Category:    l.Category,
			LimitAmount: l.LimitAmount,
		})
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"budgets": views,
	}))
}

// Status godoc
// @Summary Budget status
// @Description Returns per-category consumption for the current month
// @Tags Budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse
// @Router /budgets/status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.budget.Status"

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

	statuses, err := h.service.Status(r.Context(), user)
	if err != nil {
		log.Error("failed to compute budget status", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"statuses": statuses,
	}))
}

// Update godoc
// @Summary Update a budget limit
// @Description Rewrites the ceiling of one budget limit
// @Tags Budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Budget limit ID"
// @Param request body updateRequest true "New ceiling"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Router /budgets/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.budget.Update"

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

	var req updateRequest
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

	if err := h.service.Update(r.Context(), user.UID, id, req.LimitAmount); err != nil {
		log.Error("failed to update budget limit", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("updated budget limit", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}

// Remove godoc
// @Summary Remove a budget limit
// @Tags Budgets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Budget limit ID"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Router /budgets/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.budget.Remove"

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
		log.Error("failed to remove budget limit", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("removed budget limit", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}
