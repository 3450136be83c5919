package mail

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendGridEndpoint = "/v3/mail/send"

// SendGridConfig configures the SendGrid Web API v3 provider.
type SendGridConfig struct {
	// APIKey authenticates against the SendGrid API.
	APIKey string
	// Host overrides the API host, e.g. https://api.eu.sendgrid.com. Empty uses the global host.
	Host string
	// Sandbox asks SendGrid to validate the message without delivering it.
	Sandbox bool
}

// SendGrid is a Mail implementation backed by github.com/sendgrid/sendgrid-go.
type SendGrid struct {
	apiKey  string
	host    string
	sandbox bool
}

// NewSendGrid constructs a SendGrid mail sender.
func NewSendGrid(cfg SendGridConfig) (*SendGrid, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrAPIKeyRequired
	}

	return &SendGrid{
		apiKey:  cfg.APIKey,
		host:    strings.TrimRight(strings.TrimSpace(cfg.Host), "/"),
		sandbox: cfg.Sandbox,
	}, nil
}

// Send delivers msg through the SendGrid mail send endpoint.
//
// Non-2xx answers are not errors here: they come back as a Response so the
// caller can log the status and body.
func (s *SendGrid) Send(ctx context.Context, msg Message) (*Response, error) {
	if err := msg.Check(); err != nil {
		return nil, err
	}

	from := sgmail.NewEmail(msg.FromName, msg.From)
	to := sgmail.NewEmail("", msg.To)
	email := sgmail.NewSingleEmail(from, msg.Subject, to, msg.TextBody, msg.HTMLBody)
	if s.sandbox {
		email.SetMailSettings(sgmail.NewMailSettings().SetSandboxMode(sgmail.NewSetting(true)))
	}

	resp, err := s.client().SendWithContext(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("sendgrid: %w", err)
	}

	out := &Response{StatusCode: resp.StatusCode, Body: resp.Body}
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		out.MessageID = ids[0]
	}

	return out, nil
}

// client builds a fresh SDK client; sendgrid.Client keeps the request body on
// itself, so a shared instance is not safe for concurrent sends.
func (s *SendGrid) client() *sendgrid.Client {
	req := sendgrid.GetRequest(s.apiKey, sendGridEndpoint, s.host)
	req.Method = http.MethodPost
	return &sendgrid.Client{Request: req}
}

// Close implements io.Closer for interface compatibility.
func (*SendGrid) Close() error {
	return nil
}
