// internal/app/system/mailer/mailer.go
package mailer

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/dalemusser/waffle/pantry/email"
	"go.uber.org/zap"
)

// Email is one outgoing message. When both bodies are set the message is
// sent as multipart/alternative.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers email. *Mailer implements it; tests inject a recorder.
type Sender interface {
	Send(ctx context.Context, e Email) error
}

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// transport is the part of *email.Sender the Mailer uses.
type transport interface {
	Send(ctx context.Context, msg email.Message) error
}

// Mailer submits mail to an SMTP relay through waffle's email sender.
type Mailer struct {
	log       *zap.Logger
	transport transport
}

// New returns a Mailer for cfg. Auth is only used when User is set.
func New(cfg Config, logger *zap.Logger) *Mailer {
	return &Mailer{
		log: logger,
		transport: email.NewSender(email.Config{
			Host:        cfg.Host,
			Port:        cfg.Port,
			Username:    cfg.User,
			Password:    cfg.Pass,
			FromAddress: cfg.From,
			FromName:    cfg.FromName,
		}),
	}
}

// Send validates the recipient and hands the message to the relay.
func (m *Mailer) Send(ctx context.Context, e Email) error {
	to, err := mail.ParseAddress(e.To)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", e.To, err)
	}
	err = m.transport.Send(ctx, email.Message{
		To:       []string{to.Address},
		Subject:  e.Subject,
		TextBody: e.TextBody,
		HTMLBody: e.HTMLBody,
	})
	if err != nil {
		return fmt.Errorf("smtp send to %s: %w", to.Address, err)
	}
	m.log.Info("email sent", zap.String("to", to.Address), zap.String("subject", e.Subject))
	return nil
}
