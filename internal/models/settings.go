package models

// Settings holds per-user preferences. Exactly one row exists per user,
// created together with the user.
type Settings struct {
	UserUID            string
	Theme              string // light or dark
	EmailNotifications bool   // Gates publishing of alert emails
	PrivacyMode        bool
}

// DummySettings receives settings update payloads.
type DummySettings struct {
	Theme              string `json:"theme" validate:"required,oneof=light dark"`
	EmailNotifications bool   `json:"email_notifications"`
	PrivacyMode        bool   `json:"privacy_mode"`
}

// EmailSettings is the per-user outbound mail configuration consumed only by
// the notification sender. The core never embeds these credentials in its
// own logic; it hands them to the SMTP transport as-is.
type EmailSettings struct {
	UserUID   string
	Host      string
	Port      string
	Username  string
	Password  string
	FromEmail string
	Secure    bool
}

// DummyEmailSettings receives email settings update payloads.
type DummyEmailSettings struct {
	Host      string `json:"host" validate:"required,max=256"`
	Port      string `json:"port" validate:"required,numeric"`
	Username  string `json:"username" validate:"required,max=256"`
	Password  string `json:"password" validate:"required,max=256"`
	FromEmail string `json:"from_email" validate:"required,email"`
	Secure    bool   `json:"secure"`
}
