package inbound

import (
	"log/slog"

	"github.com/shandysiswandi/mailrelay/internal/pkg/goerror"
	"github.com/shandysiswandi/mailrelay/internal/pkg/router"
	"github.com/shandysiswandi/mailrelay/internal/relay/usecase"
)

const (
	// HeaderIdempotencyKey lets callers retry a send without a duplicate email.
	HeaderIdempotencyKey = "Idempotency-Key"

	msgInvalidPayload = "Invalid email request payload."
)

type HTTPEndpoint struct {
	uc uc
}

// SendEmail relays one email to the configured provider.
func (h *HTTPEndpoint) SendEmail(r *router.Request) (any, error) {
	var req SendEmailRequest
	if err := r.DecodeBody(&req); err != nil || !req.complete() {
		slog.WarnContext(r.Context(), "invalid email request payload", "decode_error", err)
		return nil, goerror.NewInvalidFormat(msgInvalidPayload)
	}

	err := h.uc.SendEmail(r.Context(), usecase.SendEmailInput{
		To:             *req.To,
		Subject:        *req.Subject,
		Body:           *req.Body,
		IsHTML:         req.IsHTML,
		IdempotencyKey: r.GetHeader(HeaderIdempotencyKey),
	})
	if err != nil {
		return nil, err
	}

	return SendEmailResponse{}, nil
}
