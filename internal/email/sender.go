// Package email sends plan exports to studio managers via an external
// provider.
package email

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send an email.
type SendRequest struct {
	To      []string
	From    string // Sender address (e.g. "Offer Planning <plans@studio.example>")
	Subject string
	Text    string // Plain-text body
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
