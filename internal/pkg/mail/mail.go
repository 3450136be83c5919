package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
	netmail "net/mail"
	"strings"
)

var (
	// ErrInvalidMessage is the parent of every error raised because the
	// message itself is malformed (as opposed to a delivery failure).
	ErrInvalidMessage = errors.New("mail: invalid message")
	// ErrNoRecipient is returned when Message.To is empty.
	ErrNoRecipient = fmt.Errorf("%w: no recipient provided", ErrInvalidMessage)
	// ErrNoSender is returned when Message.From is empty.
	ErrNoSender = fmt.Errorf("%w: no sender provided", ErrInvalidMessage)
	// ErrInvalidAddress is returned when a sender or recipient is not a valid RFC 5322 address.
	ErrInvalidAddress = fmt.Errorf("%w: invalid address", ErrInvalidMessage)

	// ErrAPIKeyRequired is returned by API-key based providers built without a key.
	ErrAPIKeyRequired = errors.New("mail: api key is required")
)

// Message represents a single-recipient email payload.
//
// Fields are provider-agnostic so they can be sent through an HTTP API or SMTP.
type Message struct {
	// From is the sender address.
	From string
	// FromName is the optional sender display name.
	FromName string
	// To is the recipient address.
	To string
	// Subject is the email subject line.
	Subject string
	// TextBody is the plain-text body.
	TextBody string
	// HTMLBody is the optional HTML body; empty means plain text only.
	HTMLBody string
}

// Check reports whether the message is structurally sendable. The returned
// error always wraps ErrInvalidMessage.
func (m Message) Check() error {
	if strings.TrimSpace(m.From) == "" {
		return ErrNoSender
	}
	if strings.TrimSpace(m.To) == "" {
		return ErrNoRecipient
	}
	if _, err := netmail.ParseAddress(m.From); err != nil {
		return fmt.Errorf("%w: from %q: %w", ErrInvalidAddress, m.From, err)
	}
	if _, err := netmail.ParseAddress(m.To); err != nil {
		return fmt.Errorf("%w: to %q: %w", ErrInvalidAddress, m.To, err)
	}
	return nil
}

// Response is what the provider answered for an accepted round trip.
//
// StatusCode follows HTTP semantics. Transports that are not HTTP based report
// 202 Accepted once the server took the message.
type Response struct {
	// StatusCode is the provider status code.
	StatusCode int
	// Body is the raw provider response payload, if any.
	Body string
	// MessageID is the provider-assigned message id, if exposed.
	MessageID string
}

// Mail abstracts an email provider (SMTP, third-party API, etc).
type Mail interface {
	io.Closer
	// Send hands msg to the provider. A nil error means the round trip
	// completed; the caller still has to inspect Response.StatusCode.
	Send(ctx context.Context, msg Message) (*Response, error)
}
