// Package family implements the HTTP handlers of family sharing.
package family

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

// Service defines the family operations the handlers need.
type Service interface {
	Add(ctx context.Context, user *models.User, req models.DummyFamilyMember) (int64, error)
	List(ctx context.Context, userUID string) ([]*models.FamilyMember, error)
	Remove(ctx context.Context, userUID string, id int64) error
}

// Handler serves the family routes.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a new family Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

type memberView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Add godoc
// @Summary Add a family member
// @Description Requires the family_sharing feature; count capped by the package
// @Tags Family
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyFamilyMember true "Member data"
// @Success 200 {object} response.OKResponse
// @Failure 403 {object} response.ErrorResponse "Feature unavailable or quota exceeded"
// @Failure 409 {object} response.ErrorResponse "Email already added"
// @Failure 422 {object} response.ErrorResponse "Validation failed"
// @Router /family [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.family.Add"

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

	var req models.DummyFamilyMember
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

	id, err := h.service.Add(r.Context(), user, req)
	if err != nil {
		log.Error("failed to add family member", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("added family member", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}

// List godoc
// @Summary List family members
// @Tags Family
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse
// @Router /family [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.family.List"

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

	members, err := h.service.List(r.Context(), user.UID)
	if err != nil {
		log.Error("failed to list family members", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	views := make([]memberView, 0, len(members))
	for _, m := range members {
		views = append(views, memberView{ID: m.ID, Name: m.Name, Email: m.Email})
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"members": views,
	}))
}

// Remove godoc
// @Summary Remove a family member
// @Tags Family
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Not found"
// @Router /family/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.family.Remove"

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
		log.Error("failed to remove family member", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("removed family member", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}
