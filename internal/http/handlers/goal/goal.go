// Package goal implements the HTTP handlers of savings goals.
package goal

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
	goalservice "github.com/vitaleevo/holyfinance/internal/services/goal"
)

// Service defines the goal operations the handlers need.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummyGoal) (int64, error)
	Get(ctx context.Context, userUID string, id int64) (*models.Goal, error)
	List(ctx context.Context, userUID string) ([]*models.Goal, error)
	Update(ctx context.Context, userUID string, id int64, req models.DummyGoal) error
	Contribute(ctx context.Context, user *models.User, id int64, req models.DummyContribution) (*models.Goal, error)
	Remove(ctx context.Context, userUID string, id int64) error
}

// Handler serves the goal routes.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a new goal Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

type goalView struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	TargetAmount  int64  `json:"target_amount"`
	CurrentAmount int64  `json:"current_amount"`
	Deadline      string `json:"deadline"`
	Status        string `json:"status"`
}

func toView(g *models.Goal) goalView {
	return goalView{
		ID:            g.ID,
		Title:         g.Title,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Deadline:      g.Deadline.Format(goalservice.DateFormat),
		Status:        g.Status,
	}
}

// Create godoc
// @Summary Create a goal
// @Tags Goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyGoal true "Goal data"
// @Success 200 {object} response.OKResponse
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Router /goals [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.goal.Create"

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

	var req models.DummyGoal
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
		log.Error("failed to create goal", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("created goal", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}

// List godoc
// @Summary List goals
// @Tags Goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse
// @Router /goals [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.goal.List"

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

	goals, err := h.service.List(r.Context(), user.UID)
	if err != nil {
		log.Error("failed to list goals", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	views := make([]goalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, toView(g))
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"goals": views,
	}))
}

// Read godoc
// @Summary Read one goal
// @Tags Goals
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Router /goals/{id} [get]
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.goal.Read"

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

	goal, err := h.service.Get(r.Context(), user.UID, id)
	if err != nil {
		log.Error("failed to read goal", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.OKWithData(toView(goal)))
}

// Update godoc
// @Summary Update a goal
// @Description Rewrites title, target amount and deadline
// @Tags Goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Param request body models.DummyGoal true "Goal data"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Router /goals/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.goal.Update"

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

	var req models.DummyGoal
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
		log.Error("failed to update goal", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("updated goal", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}

// Contribute godoc
// @Summary Contribute to a goal
// @Description Applies a contribution or reversal; completion is one-way
// @Tags Goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Param request body models.DummyContribution true "Contribution amount in centavos"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Failure 422 {object} response.ErrorResponse "Reversal below zero"
// @Router /goals/{id}/contribute [post]
func (h *Handler) Contribute(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.goal.Contribute"

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

	var req models.DummyContribution
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

	goal, err := h.service.Contribute(r.Context(), user, id, req)
	if err != nil {
		log.Error("failed to contribute to goal", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("contributed to goal", slog.Int64("id", id), slog.Int64("amount", req.Amount))
	render.JSON(w, r, response.OKWithData(toView(goal)))
}

// Remove godoc
// @Summary Remove a goal
// @Tags Goals
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Router /goals/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.goal.Remove"

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
		log.Error("failed to remove goal", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("removed goal", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}
