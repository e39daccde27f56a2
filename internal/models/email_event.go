package models

// EmailEvent is the message published to the email queue when an alert is
// raised. It carries fully rendered content; the sender only adds transport.
type EmailEvent struct {
	UserUID string `json:"user_uid"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
