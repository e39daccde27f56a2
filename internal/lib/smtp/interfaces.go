// Package smtp provides the mail transport used by the notification sender.
package smtp

import "io"

// Client is the subset of *smtp.Client the sender needs.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface abstracts transport construction for tests.
type TransportInterface interface {
	Connect(settings Settings) (Client, error)
}
