// Package sender assembles the notification-sender process: a broker
// consumer feeding queued email events into the SMTP sender service.
package sender

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/vitaleevo/holyfinance/internal/config"
	"github.com/vitaleevo/holyfinance/internal/lib/smtp"
	"github.com/vitaleevo/holyfinance/internal/rabbitmq"
	senderservice "github.com/vitaleevo/holyfinance/internal/services/sender"
	"github.com/vitaleevo/holyfinance/internal/storage/repository"
)

// App is the assembled notification-sender process.
type App struct {
	db            *repository.Storage
	conn          *amqp.Connection
	ch            *amqp.Channel
	emailQueue    string
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New wires the sender process: database for per-user mail configuration,
// broker consumer, SMTP transport.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
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

	transport := smtp.NewTransport(logger)
	defaults := smtp.Settings{
		Host:      cfg.SMTPDefaults.SMTPHost,
		Port:      cfg.SMTPDefaults.SMTPPort,
		User:      cfg.SMTPDefaults.SMTPUser,
		Pass:      cfg.SMTPDefaults.SMTPPass,
		FromEmail: cfg.SMTPDefaults.SMTPUser,
		Secure:    true,
	}
	senderService := senderservice.New(db, transport, defaults, logger)

	return &App{
		db:            db,
		conn:          conn,
		ch:            ch,
		emailQueue:    cfg.RabbitConnection.EmailQueue,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run consumes the email queue until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := rabbitmq.ConsumeMessages(ctx, a.ch, a.emailQueue, a.senderService.ProcessMessage); err != nil {
		a.logger.Error("failed to start email queue consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	if err := a.db.DB.Close(); err != nil {
		a.logger.Error("failed to close database", slog.Any("err", err))
	}
	return nil
}
