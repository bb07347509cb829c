package worker

// email_worker.go
// Delivers adjudication notices to the technician who owns the expediente.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Sender delivers one plain-text email. *infra.Mailer implements it.
type Sender interface {
	Send(to, subject, body string) error
}

type EmailWorker struct {
	sender Sender
}

func NewEmailWorker(sender Sender) *EmailWorker {
	return &EmailWorker{sender: sender}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %v: %w", err, ErrPermanent)
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	if err := w.sender.Send(payload.ToEmail, payload.Subject, payload.Body); err != nil {
		return err
	}
	log.Info().Str("to", payload.ToEmail).Str("subject", payload.Subject).Msg("email_worker: notification sent")
	return nil
}
