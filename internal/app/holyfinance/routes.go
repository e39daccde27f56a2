package holyfinance

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	accounthandler "github.com/vitaleevo/holyfinance/internal/http/handlers/account"
	authhandler "github.com/vitaleevo/holyfinance/internal/http/handlers/auth"
	budgethandler "github.com/vitaleevo/holyfinance/internal/http/handlers/budget"
	debthandler "github.com/vitaleevo/holyfinance/internal/http/handlers/debt"
	familyhandler "github.com/vitaleevo/holyfinance/internal/http/handlers/family"
	goalhandler "github.com/vitaleevo/holyfinance/internal/http/handlers/goal"
	investmenthandler "github.com/vitaleevo/holyfinance/internal/http/handlers/investment"
	notificationhandler "github.com/vitaleevo/holyfinance/internal/http/handlers/notification"
	packageshandler "github.com/vitaleevo/holyfinance/internal/http/handlers/packages"
	settingshandler "github.com/vitaleevo/holyfinance/internal/http/handlers/settings"
	transactionhandler "github.com/vitaleevo/holyfinance/internal/http/handlers/transaction"
	"github.com/vitaleevo/holyfinance/internal/http/middlewarectx"
	accountservice "github.com/vitaleevo/holyfinance/internal/services/account"
	authservice "github.com/vitaleevo/holyfinance/internal/services/auth"
	budgetservice "github.com/vitaleevo/holyfinance/internal/services/budget"
	catalogservice "github.com/vitaleevo/holyfinance/internal/services/catalog"
	debtservice "github.com/vitaleevo/holyfinance/internal/services/debt"
	familyservice "github.com/vitaleevo/holyfinance/internal/services/family"
	goalservice "github.com/vitaleevo/holyfinance/internal/services/goal"
	investmentservice "github.com/vitaleevo/holyfinance/internal/services/investment"
	notificationservice "github.com/vitaleevo/holyfinance/internal/services/notification"
	settingsservice "github.com/vitaleevo/holyfinance/internal/services/settings"
	transactionservice "github.com/vitaleevo/holyfinance/internal/services/transaction"
)

// Services bundles everything the router depends on.
type Services struct {
	Auth         *authservice.Service
	Catalog      *catalogservice.Service
	Account      *accountservice.Service
	Transaction  *transactionservice.Service
	Goal         *goalservice.Service
	Budget       *budgetservice.Service
	Investment   *investmentservice.Service
	Debt         *debtservice.Service
	Notification *notificationservice.Service
	Settings     *settingsservice.Service
	Family       *familyservice.Service
}

// NewRouter builds the chi router with all application routes.
func NewRouter(logger *slog.Logger, s Services) chi.Router {
	router := chi.NewRouter()

	router.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	authH := authhandler.New(logger, s.Auth)
	packagesH := packageshandler.New(logger, s.Catalog)
	accountH := accounthandler.New(logger, s.Account)
	transactionH := transactionhandler.New(logger, s.Transaction)
	goalH := goalhandler.New(logger, s.Goal)
	budgetH := budgethandler.New(logger, s.Budget)
	investmentH := investmenthandler.New(logger, s.Investment)
	debtH := debthandler.New(logger, s.Debt)
	notificationH := notificationhandler.New(logger, s.Notification)
	settingsH := settingshandler.New(logger, s.Settings)
	familyH := familyhandler.New(logger, s.Family)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", authH.Register)
		r.Post("/login", authH.Login)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(rate.NewLimiter(100, 200), logger))

			r.Post("/logout", authH.Logout)
			r.Get("/me", authH.Me)

			r.Get("/packages", packagesH.List)
			r.Get("/packages/{key}", packagesH.Read)

			r.Post("/accounts", accountH.Create)
			r.Get("/accounts", accountH.List)
			r.Get("/accounts/{id}", accountH.Read)
			r.Put("/accounts/{id}", accountH.Update)
			r.Delete("/accounts/{id}", accountH.Remove)

			r.Post("/transactions", transactionH.Create)
			r.Get("/transactions", transactionH.List)
			r.Get("/transactions/export", transactionH.Export)
			r.Get("/transactions/{id}", transactionH.Read)
			r.Put("/transactions/{id}", transactionH.Update)
			r.Delete("/transactions/{id}", transactionH.Remove)

			r.Post("/goals", goalH.Create)
			r.Get("/goals", goalH.List)
			r.Get("/goals/{id}", goalH.Read)
			r.Put("/goals/{id}", goalH.Update)
			r.Post("/goals/{id}/contribute", goalH.Contribute)
			r.Delete("/goals/{id}", goalH.Remove)

			r.Post("/budgets", budgetH.Create)
			r.Get("/budgets", budgetH.List)
			r.Get("/budgets/status", budgetH.Status)
			r.Put("/budgets/{id}", budgetH.Update)
			r.Delete("/budgets/{id}", budgetH.Remove)

			r.Post("/investments", investmentH.Create)
			r.Get("/investments", investmentH.List)
			r.Get("/investments/{id}", investmentH.Read)
			r.Put("/investments/{id}", investmentH.Update)
			r.Delete("/investments/{id}", investmentH.Remove)

			r.Post("/debts", debtH.Create)
			r.Get("/debts", debtH.List)
			r.Get("/debts/{id}", debtH.Read)
			r.Put("/debts/{id}", debtH.Update)
			r.Post("/debts/{id}/pay", debtH.Pay)
			r.Delete("/debts/{id}", debtH.Remove)

			r.Get("/notifications", notificationH.List)
			r.Put("/notifications/{id}/read", notificationH.MarkRead)
			r.Delete("/notifications/{id}", notificationH.Remove)

			r.Get("/settings", settingsH.Get)
			r.Put("/settings", settingsH.Update)
			r.Get("/settings/email", settingsH.GetEmail)
			r.Put("/settings/email", settingsH.UpdateEmail)

			r.Get("/family", familyH.List)
			r.Post("/family", familyH.Add)
			r.Delete("/family/{id}", familyH.Remove)
		})
	})

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/docs/*", httpSwagger.WrapHandler)

	return router
}
