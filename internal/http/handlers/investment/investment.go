// Package investment implements the HTTP handlers of investment positions.
package investment

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

// Service defines the investment operations the handlers need.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummyInvestment) (int64, error)
	Get(ctx context.Context, userUID string, id int64) (*models.Investment, error)
	List(ctx context.Context, userUID string) ([]*models.Investment, error)
	Update(ctx context.Context, userUID string, id int64, req models.DummyInvestment) error
	Remove(ctx context.Context, userUID string, id int64) error
}

// Handler serves the investment routes.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a new investment Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

type investmentView struct {
	ID           int64  `json:"id"`
	Ticker       string `json:"ticker"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Quantity     string `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	CurrentValue string `json:"current_value"`
}

func toView(i *models.Investment) investmentView {
	return investmentView{
		ID:           i.ID,
		Ticker:       i.Ticker,
		Name:         i.Name,
		Type:         i.Type,
		Quantity:     i.Quantity.String(),
		UnitPrice:    i.UnitPrice.String(),
		CurrentValue: i.CurrentValue().String(),
	}
}

// Create godoc
// @Summary Create an investment
// @Tags Investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyInvestment true "Investment data"
// @Success 200 {object} response.OKResponse
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Router /investments [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.investment.Create"

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

	var req models.DummyInvestment
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
		log.Error("failed to create investment", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("created investment", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}

// List godoc
// @Summary List investments
// @Tags Investments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse
// @Router /investments [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.investment.List"

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

	investments, err := h.service.List(r.Context(), user.UID)
	if err != nil {
		log.Error("failed to list investments", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	views := make([]investmentView, 0, len(investments))
	for _, i := range investments {
		views = append(views, toView(i))
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"investments": views,
	}))
}

// Read godoc
// @Summary Read one investment
// @Tags Investments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Investment ID"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Router /investments/{id} [get]
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.investment.Read"

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

	investment, err := h.service.Get(r.Context(), user.UID, id)
	if err != nil {
		log.Error("failed to read investment", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.OKWithData(toView(investment)))
}

// Update godoc
// @Summary Update an investment
// @Tags Investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Investment ID"
// @Param request body models.DummyInvestment true "Investment data"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Router /investments/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.investment.Update"

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

	var req models.DummyInvestment
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
		log.Error("failed to update investment", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("updated investment", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}

// Remove godoc
// @Summary Remove an investment
// @Tags Investments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Investment ID"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Router /investments/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.investment.Remove"

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
		log.Error("failed to remove investment", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("removed investment", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}
