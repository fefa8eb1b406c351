package mailer

import (
	"errors"
	"strings"

	"gopkg.in/gomail.v2"
)

// Config holds SMTP relay settings. Defaults match a Gmail app-password
// setup, which is what the brokerage runs on.
type Config struct {
	Host     string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Address  string `envconfig:"GMAIL_ADDRESS"`
	Password string `envconfig:"GMAIL_APP_PASSWORD"`
	To       string `envconfig:"NOTIFICATION_EMAIL"`
}

func (c Config) Configured() bool {
	return strings.TrimSpace(c.Address) != "" &&
		strings.TrimSpace(c.Password) != "" &&
		strings.TrimSpace(c.To) != ""
}

// Mailer sends plain-text notification mail through an SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func New(cfg Config) (*Mailer, error) {
	if !cfg.Configured() {
		return nil, errors.New("mailer: address, app password and notification recipient are required")
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Address, cfg.Password),
		from:   strings.TrimSpace(cfg.Address),
		to:     strings.TrimSpace(cfg.To),
	}, nil
}

func (m *Mailer) Send(subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}
