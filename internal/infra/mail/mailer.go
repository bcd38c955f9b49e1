package mail

import (
	"context"
	"log/slog"
)

// LogMailer writes outgoing mail to the log. Stands in for a real delivery
// provider in dev and test environments.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) Send(ctx context.Context, to, subject, body string) error {
	log := m.Logger
	if log == nil {
		log = slog.Default()
	}
	log.Info("mail sent", "to", to, "subject", subject, "body_len", len(body))
	return nil
}
