package models

import "time"

// Notification severities.
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// Notification is an in-app message shown to its owning user.
type Notification struct {
	ID        int64
	UserUID   string
	Title     string
	Message   string
	Type      string // info, success, warning, error
	Read      bool
	Important bool
	CreatedAt time.Time
}
