package mail

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ProviderSendGrid selects the SendGrid Web API (default).
	ProviderSendGrid = "sendgrid"
	// ProviderResend selects the Resend API.
	ProviderResend = "resend"
	// ProviderSMTP selects plain SMTP submission (e.g. smtp.sendgrid.net).
	ProviderSMTP = "smtp"
)

// ErrUnknownProvider indicates an unsupported mail provider.
var ErrUnknownProvider = errors.New("mail: unknown provider")

// FactoryOptions groups config for supported mail providers.
type FactoryOptions struct {
	// SendGrid provides configuration for the SendGrid provider.
	SendGrid SendGridConfig
	// Resend provides configuration for the Resend provider.
	Resend ResendConfig
	// SMTP provides configuration for the SMTP provider.
	SMTP SMTPConfig
}

// NewFromProvider constructs a Mail implementation by provider name.
// An empty name selects SendGrid.
func NewFromProvider(provider string, opts FactoryOptions) (Mail, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderSendGrid:
		return NewSendGrid(opts.SendGrid)
	case ProviderResend:
		return NewResend(opts.Resend)
	case ProviderSMTP:
		return NewSMTP(opts.SMTP)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
}
