package mail

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v3"
)

// ResendConfig configures the Resend API provider.
type ResendConfig struct {
	// APIKey authenticates against the Resend API.
	APIKey string
	// BaseURL overrides the API base URL. Empty uses the SDK default.
	BaseURL string
}

// Resend is a Mail implementation backed by github.com/resend/resend-go.
type Resend struct {
	client *resend.Client
}

// NewResend constructs a Resend mail sender.
func NewResend(cfg ResendConfig) (*Resend, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrAPIKeyRequired
	}

	client := resend.NewClient(cfg.APIKey)
	if v := strings.TrimSpace(cfg.BaseURL); v != "" {
		u, err := url.Parse(strings.TrimRight(v, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("resend: invalid base url: %w", err)
		}
		client.BaseURL = u
	}

	return &Resend{client: client}, nil
}

// Send delivers msg through the Resend emails endpoint. The SDK turns non-2xx
// answers into errors, so a returned Response is always 200 OK.
func (r *Resend) Send(ctx context.Context, msg Message) (*Response, error) {
	if err := msg.Check(); err != nil {
		return nil, err
	}

	from := msg.From
	if msg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", msg.FromName, msg.From)
	}

	sent, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.TextBody,
		Html:    msg.HTMLBody,
	})
	if err != nil {
		return nil, fmt.Errorf("resend: failed to send email: %w", err)
	}

	return &Response{StatusCode: http.StatusOK, MessageID: sent.Id}, nil
}

// Close implements io.Closer for interface compatibility.
func (*Resend) Close() error {
	return nil
}
