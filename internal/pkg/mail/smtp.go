package mail

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/smtp"
	"strings"
)

// DefaultSMTPUsername is the username SendGrid's SMTP relay expects; the API
// key is the password.
const DefaultSMTPUsername = "apikey"

// ErrSMTPHostPortRequired is returned when Host/Port are missing.
var ErrSMTPHostPortRequired = errors.New("smtp host and port are required")

// SMTP is a Mail implementation backed by net/smtp.
type SMTP struct {
	addr     string
	auth     smtp.Auth
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// SMTPConfig configures the SMTP implementation.
type SMTPConfig struct {
	// Host is the SMTP server hostname, e.g. smtp.sendgrid.net.
	Host string
	// Port is the SMTP server port.
	Port int
	// Username is the SMTP authentication username. Defaults to DefaultSMTPUsername.
	Username string
	// Password is the SMTP authentication password (the provider API key).
	Password string
}

// NewSMTP constructs an SMTP mail sender.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}

	username := cfg.Username
	if username == "" {
		username = DefaultSMTPUsername
	}

	var auth smtp.Auth
	if cfg.Password != "" {
		auth = smtp.PlainAuth("", username, cfg.Password, cfg.Host)
	}

	return &SMTP{
		addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth:     auth,
		sendMail: smtp.SendMail,
	}, nil
}

// Send delivers a message over SMTP and reports 202 Accepted once the server
// accepted the DATA command.
func (s *SMTP) Send(ctx context.Context, msg Message) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := msg.Check(); err != nil {
		return nil, err
	}

	raw := buildRaw(msg)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.sendMail(s.addr, s.auth, msg.From, []string{msg.To}, []byte(raw)); err != nil {
		return nil, fmt.Errorf("smtp: %w", err)
	}

	return &Response{StatusCode: http.StatusAccepted}, nil
}

// Close implements io.Closer for interface compatibility.
func (*SMTP) Close() error {
	return nil
}

func buildRaw(msg Message) string {
	from := msg.From
	if msg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", msg.FromName), msg.From)
	}

	body, contentType := buildBody(msg)

	headers := []string{
		"From: " + from,
		"To: " + msg.To,
		"Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject),
		"MIME-Version: 1.0",
		"Content-Type: " + contentType,
	}

	return strings.Join(headers, "\r\n") + "\r\n\r\n" + body
}

func buildBody(msg Message) (body string, contentType string) {
	if msg.HTMLBody != "" && msg.TextBody != "" {
		boundary := multipartBoundary()
		var sb strings.Builder
		sb.WriteString("This is a multipart message in MIME format.\r\n")
		fmt.Fprintf(&sb, "--%s\r\n", boundary)
		sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		sb.WriteString(msg.TextBody)
		sb.WriteString("\r\n")
		fmt.Fprintf(&sb, "--%s\r\n", boundary)
		sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		sb.WriteString(msg.HTMLBody)
		sb.WriteString("\r\n")
		fmt.Fprintf(&sb, "--%s--", boundary)
		return sb.String(), fmt.Sprintf("multipart/alternative; boundary=%s", boundary)
	}

	if msg.HTMLBody != "" {
		return msg.HTMLBody, "text/html; charset=UTF-8"
	}

	return msg.TextBody, "text/plain; charset=UTF-8"
}

func multipartBoundary() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "mailrelay-boundary-fallback"
	}
	return "mailrelay-boundary-" + hex.EncodeToString(b[:])
}
