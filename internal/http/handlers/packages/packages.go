// Package packages implements the HTTP handlers of the package catalog.
package packages

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/vitaleevo/holyfinance/internal/http/response"
	"github.com/vitaleevo/holyfinance/internal/lib/sl"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// Service defines the catalog reads the handlers need.
type Service interface {
	List(ctx context.Context) ([]*models.Package, error)
	Get(ctx context.Context, key string) (*models.Package, error)
}

// Handler serves the package catalog routes.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a new packages Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

type packageView struct {
	Key              string   `json:"key"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	PriceMonthly     int64    `json:"price_monthly"`
	PriceYearly      int64    `json:"price_yearly"`
	PriceBiyearly    int64    `json:"price_biyearly"`
	MaxAccounts      int      `json:"max_accounts"`
	MaxFamilyMembers int      `json:"max_family_members"`
	Features         []string `json:"features"`
	Highlight        bool     `json:"highlight"`
}

func toView(p *models.Package) packageView {
	return packageView{
		Key:              p.Key,
		Name:             p.Name,
		Description:      p.Description,
		PriceMonthly:     p.PriceMonthly,
		PriceYearly:      p.PriceYearly,
		PriceBiyearly:    p.PriceBiyearly,
		MaxAccounts:      p.MaxAccounts,
		MaxFamilyMembers: p.MaxFamilyMembers,
		Features:         p.Features,
		Highlight:        p.Highlight,
	}
}

// List godoc
// @Summary List packages
// @Description Returns the active subscription packages in catalog order
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse
// @Router /packages [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.packages.List"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	packages, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list packages", sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	views := make([]packageView, 0, len(packages))
	for _, p := range packages {
		views = append(views, toView(p))
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"packages": views,
	}))
}

// Read godoc
// @Summary Read one package
// @Description Returns one package by its key
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Param key path string true "Package key"
// @Success 200 {object} response.OKResponse
// @Failure 404 {object} response.ErrorResponse "Unknown key"
// @Router /packages/{key} [get]
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.packages.Read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	key := chi.URLParam(r, "key")
	pkg, err := h.service.Get(r.Context(), key)
	if err != nil {
		log.Error("failed to read package", slog.String("key", key), sl.Err(err))
		status, body := response.MapError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.OKWithData(toView(pkg)))
}
