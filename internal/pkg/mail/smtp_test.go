package mail

import (
	"context"
	"errors"
	"net/http"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type smtpCall struct {
	addr string
	from string
	to   []string
	raw  string
}

func newTestSMTP(t *testing.T, sendErr error) (*SMTP, *smtpCall) {
	t.Helper()

	s, err := NewSMTP(SMTPConfig{Host: "smtp.sendgrid.net", Port: 587, Password: "SG.key"})
	require.NoError(t, err)

	call := &smtpCall{}
	s.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		call.addr, call.from, call.to, call.raw = addr, from, to, string(msg)
		return sendErr
	}

	return s, call
}

func TestSMTP_Send_PlainText(t *testing.T) {
	s, call := newTestSMTP(t, nil)

	resp, err := s.Send(context.Background(), Message{
		From:     "noreply@example.com",
		FromName: "App Support",
		To:       "a@b.com",
		Subject:  "Hi",
		TextBody: "hello",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "smtp.sendgrid.net:587", call.addr)
	assert.Equal(t, "noreply@example.com", call.from)
	assert.Equal(t, []string{"a@b.com"}, call.to)
	assert.Contains(t, call.raw, "From: App Support <noreply@example.com>\r\n")
	assert.Contains(t, call.raw, "Subject: Hi\r\n")
	assert.Contains(t, call.raw, "Content-Type: text/plain; charset=UTF-8\r\n\r\nhello")
}

func TestSMTP_Send_HTMLIsMultipart(t *testing.T) {
	s, call := newTestSMTP(t, nil)

	_, err := s.Send(context.Background(), Message{
		From:     "noreply@example.com",
		To:       "a@b.com",
		Subject:  "Hi",
		TextBody: "<b>hello</b>",
		HTMLBody: "<b>hello</b>",
	})
	require.NoError(t, err)

	assert.Contains(t, call.raw, "Content-Type: multipart/alternative; boundary=mailrelay-boundary-")
	assert.Contains(t, call.raw, "Content-Type: text/html; charset=UTF-8\r\n\r\n<b>hello</b>")
}

func TestSMTP_Send_Errors(t *testing.T) {
	t.Run("invalid message", func(t *testing.T) {
		s, call := newTestSMTP(t, nil)

		_, err := s.Send(context.Background(), Message{From: "noreply@example.com"})
		assert.ErrorIs(t, err, ErrNoRecipient)
		assert.Empty(t, call.addr)
	})

	t.Run("canceled context", func(t *testing.T) {
		s, call := newTestSMTP(t, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := s.Send(ctx, Message{From: "noreply@example.com", To: "a@b.com"})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, call.addr)
	})

	t.Run("server rejects", func(t *testing.T) {
		sendErr := errors.New("550 mailbox unavailable")
		s, _ := newTestSMTP(t, sendErr)

		_, err := s.Send(context.Background(), Message{From: "noreply@example.com", To: "a@b.com"})
		assert.ErrorIs(t, err, sendErr)
		assert.NotErrorIs(t, err, ErrInvalidMessage)
	})
}
