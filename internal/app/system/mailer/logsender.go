package mailer

import (
	"context"

	"go.uber.org/zap"
)

// LogSender writes outgoing mail to the log instead of an SMTP relay.
// Used when no SMTP host is configured.
type LogSender struct {
	Log *zap.Logger
}

func (s LogSender) Send(_ context.Context, e Email) error {
	s.Log.Info("mail not sent (no SMTP host configured)",
		zap.String("to", e.To),
		zap.String("subject", e.Subject))
	return nil
}
