// Package holyfinance assembles the API server: storage, migrations, cache,
// broker, services, router and graceful shutdown.
package holyfinance

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/streadway/amqp"

	"github.com/vitaleevo/holyfinance/internal/cache"
	"github.com/vitaleevo/holyfinance/internal/config"
	"github.com/vitaleevo/holyfinance/internal/migrations"
	"github.com/vitaleevo/holyfinance/internal/quota"
	"github.com/vitaleevo/holyfinance/internal/rabbitmq"
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
	"github.com/vitaleevo/holyfinance/internal/storage/repository"
)

// App is the assembled API server.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New wires the whole API process: opens the database, runs migrations,
// seeds the package catalog, connects cache and broker, builds the services
// and the router.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err := db.SeedPackages(ctx, quota.DefaultPackages()); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitConnection.AddressRabbit, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitConnection.EmailQueue)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	authService := authservice.New(db, db, cfg.Session.TokenTTL, logger)
	catalogService := catalogservice.New(db, cacheRedis, logger)
	notificationService := notificationservice.New(db, db, publisher, logger)
	accountService := accountservice.New(db, db, cacheRedis, logger)
	transactionService := transactionservice.New(db, accountService, db, logger)
	goalService := goalservice.New(db, notificationService, logger)
	budgetService := budgetservice.New(db, db, notificationService, logger)
	investmentService := investmentservice.New(db, logger)
	debtService := debtservice.New(db, logger)
	settingsService := settingsservice.New(db, logger)
	familyService := familyservice.New(db, db, logger)

	router := NewRouter(logger, Services{
		Auth:         authService,
		Catalog:      catalogService,
		Account:      accountService,
		Transaction:  transactionService,
		Goal:         goalService,
		Budget:       budgetService,
		Investment:   investmentService,
		Debt:         debtService,
		Notification: notificationService,
		Settings:     settingsService,
		Family:       familyService,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutHTTP,
		WriteTimeout: cfg.HTTPServer.TimeoutHTTP,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)

		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close broker channel", slog.Any("err", closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close broker connection", slog.Any("err", closeErr))
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
