package smtp

import (
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"

	"github.com/vitaleevo/holyfinance/internal/lib/sl"
)

// Settings is the transport configuration for one send. It comes from the
// recipient's EmailSettings row or from config defaults.
type Settings struct {
	Host      string
	Port      string
	User      string
	Pass      string
	FromEmail string
	Secure    bool
}

// Transport builds SMTP connections from per-send settings.
type Transport struct {
	log *slog.Logger
}

type smtpClientWrapper struct {
	client *smtp.Client
}

func (w *smtpClientWrapper) Mail(from string) error { return w.client.Mail(from) }

func (w *smtpClientWrapper) Rcpt(to string) error { return w.client.Rcpt(to) }

func (w *smtpClientWrapper) Data() (io.WriteCloser, error) { return w.client.Data() }

func (w *smtpClientWrapper) Quit() error { return w.client.Quit() }

func (w *smtpClientWrapper) Close() error { return w.client.Close() }

// NewTransport creates a new Transport.
func NewTransport(log *slog.Logger) *Transport {
	return &Transport{log: log}
}

// Connect dials the SMTP server from the given settings, negotiates
// STARTTLS when Secure is set and authenticates.
func (t *Transport) Connect(settings Settings) (Client, error) {
	addr := settings.Host + ":" + settings.Port

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.log.Error("failed to dial SMTP server", sl.Err(err))
		return nil, fmt.Errorf("failed to dial SMTP server: %w", err)
	}

	client, err := smtp.NewClient(conn, settings.Host)
	if err != nil {
		t.log.Error("failed to create SMTP client", sl.Err(err))
		if closeErr := conn.Close(); closeErr != nil {
			t.log.Error("failed to close connection", sl.Err(closeErr))
		}
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if settings.Secure {
		tlsConfig := &tls.Config{
			ServerName: settings.Host,
			MinVersion: tls.VersionTLS12,
		}
		ok, _ := client.Extension("STARTTLS")
		if !ok {
			t.log.Error("SMTP server does not support STARTTLS")
			if closeErr := client.Close(); closeErr != nil {
				t.log.Error("failed to close client", sl.Err(closeErr))
			}
			return nil, fmt.Errorf("smtp server does not support STARTTLS")
		}
		if err = client.StartTLS(tlsConfig); err != nil {
			t.log.Error("failed to start TLS", sl.Err(err))
			if closeErr := client.Close(); closeErr != nil {
				t.log.Error("failed to close client", sl.Err(closeErr))
			}
			return nil, fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	auth := smtp.PlainAuth("", settings.User, settings.Pass, settings.Host)
	if err = client.Auth(auth); err != nil {
		t.log.Error("smtp auth failed", sl.Err(err))
		if closeErr := client.Close(); closeErr != nil {
			t.log.Error("failed to close client", sl.Err(closeErr))
		}
		return nil, fmt.Errorf("smtp auth failed: %w", err)
	}

	return &smtpClientWrapper{client: client}, nil
}
