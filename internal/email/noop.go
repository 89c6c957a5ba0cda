package email

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// NoopSender is used when no provider is configured. Sends are logged
// and reported as accepted so the rest of the flow behaves normally in
// development.
type NoopSender struct{}

var _ Sender = (*NoopSender)(nil)

func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

func (s *NoopSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	slog.InfoContext(ctx, "Email send skipped (no provider configured)",
		"to", req.To,
		"subject", req.Subject,
		"body_bytes", len(req.Text))
	return SendResult{
		MessageID: "noop-" + uuid.NewString(),
		SentAt:    time.Now(),
	}, nil
}
