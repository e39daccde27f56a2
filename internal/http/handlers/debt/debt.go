// Package debt implements the HTTP handlers of debts and the payment route.
package debt

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
	debtservice "github.com/vitaleevo/holyfinance/internal/services/debt"
)

// Service defines the debt operations the handlers need.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummyDebt) (int64, error)
	Get(ctx context.Context, userUID string, id int64) (*models.Debt, error)
	List(ctx context.Context, userUID string) ([]*models.Debt, error)
	Update(ctx context.Context, userUID string, id int64, req models.DummyDebt) error
	Pay(ctx context.Context, userUID string, id int64, req models.DummyDebtPayment) (*models.Debt, error)
	Remove(ctx context.Context, userUID string, id int64) error
}

// Handler serves the debt routes.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a new debt Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

type debtView struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Bank               string  `json:"bank"`
	TotalValue         int64   `json:"total_value"`
	PaidValue          int64   `json:"paid_value"`
	MonthlyInstallment int64   `json:"monthly_installment"`
	DueDate            string  `json:"due_date"`
	Icon               string  `json:"icon"`
	PayoffPercent      float64 `json:"payoff_percent"`
}

func toView(d *models.Debt) debtView {
	return debtView{
		ID:                 d.ID,
		Name:               d.Name,
		Bank:               d.Bank,
		TotalValue:         d.TotalValue,
		PaidValue:          d.PaidValue,
		MonthlyInstallment: d.MonthlyInstallment,
		DueDate:            d.DueDate.Format(debtservice.DateFormat),
		Icon:               d.Icon,
		PayoffPercent:      d.PayoffPercent(),
	}
}

// Create godoc
// @Summary Create a debt
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyDebt true "Debt data"
// @Success 200 {object} response.OKResponse
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Router /debts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.debt.Create"

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

	var req models.DummyDebt
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
		log.Error("failed to create debt", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("created debt", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}

// List godoc
// @Summary List debts
// @Tags Debts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse
// @Router /debts [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.debt.List"

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

	debts, err := h.service.List(r.Context(), user.UID)
	if err != nil {
		log.Error("failed to list debts", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	views := make([]debtView, 0, len(debts))
	for _, d := range debts {
		views = append(views, toView(d))
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"debts": views,
	}))
}

// Read godoc
// @Summary Read one debt
// @Tags Debts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Debt ID"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Router /debts/{id} [get]
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.debt.Read"

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

	debt, err := h.service.Get(r.Context(), user.UID, id)
	if err != nil {
		log.Error("failed to read debt", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.OKWithData(toView(debt)))
}

// Update godoc
// @Summary Update a debt
// @Description Rewrites descriptive fields, the paid value only moves via payments
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Debt ID"
// @Param request body models.DummyDebt true "Debt data"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Router /debts/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.debt.Update"

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

	var req models.DummyDebt
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
		log.Error("failed to update debt", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("updated debt", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}

// Pay godoc
// @Summary Pay a debt
// @Description Applies a payment; overpaying the outstanding amount is rejected
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Debt ID"
// @Param request body models.DummyDebtPayment true "Payment amount in centavos"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Failure 422 {object} response.ErrorResponse "Payment exceeds outstanding debt"
// @Router /debts/{id}/pay [post]
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.debt.Pay"

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

	var req models.DummyDebtPayment
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

	debt, err := h.service.Pay(r.Context(), user.UID, id, req)
	if err != nil {
		log.Error("failed to pay debt", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("paid debt", slog.Int64("id", id), slog.Int64("amount", req.Amount))
	render.JSON(w, r, response.OKWithData(toView(debt)))
}

// Remove godoc
// @Summary Remove a debt
// @Tags Debts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Debt ID"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Router /debts/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.debt.Remove"

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
		log.Error("failed to remove debt", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("removed debt", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}
