package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strconv"

	"github.com/samber/lo"
	"github.com/shandysiswandi/mailrelay/internal/pkg/goerror"
	"github.com/shandysiswandi/mailrelay/internal/pkg/idempotency"
	"github.com/shandysiswandi/mailrelay/internal/relay/entity"
)

const msgSendFailed = "Failed to send email."

type SendEmailInput struct {
	To      string
	Subject string
	Body    string
	IsHTML  bool
	// IdempotencyKey is optional.
	IdempotencyKey string
}

func (s *Usecase) SendEmail(ctx context.Context, in SendEmailInput) error {
	ctx, span := s.startSpan(ctx, "SendEmail")
	defer span.End()

	e := entity.Email{
		From:     s.cfg.FromEmail,
		FromName: s.cfg.FromName,
		To:       in.To,
		Subject:  in.Subject,
		TextBody: in.Body,
		HTMLBody: lo.Ternary(in.IsHTML, in.Body, ""),
	}

	send := func(ctx context.Context) error {
		return s.repoMail.Send(ctx, e)
	}

	var err error
	if s.idemp != nil && in.IdempotencyKey != "" {
		err = s.idemp.Exec(ctx, in.IdempotencyKey, send, idempotency.WithFingerprint(fingerprint(in)))
		if errors.Is(err, idempotency.ErrAlreadyCompleted) {
			slog.InfoContext(ctx, "email already sent for idempotency key", "idempotency_key", in.IdempotencyKey)
			return nil
		}
	} else {
		err = send(ctx)
	}

	if err != nil {
		span.RecordError(err)
		logSendFailure(ctx, in, err)
		return goerror.NewBadRequest(err, msgSendFailed)
	}

	return nil
}

func logSendFailure(ctx context.Context, in SendEmailInput, err error) {
	var se *entity.SendError
	if !errors.As(err, &se) {
		slog.ErrorContext(ctx, "failed to send email", "to", in.To, "idempotency_key", in.IdempotencyKey, "error", err)
		return
	}

	switch {
	case se.Kind == entity.KindInvalidParameters:
		slog.ErrorContext(ctx, "failed to send email, invalid email parameters", "to", in.To, "error", se.Err)
	case se.StatusCode != 0:
		slog.ErrorContext(ctx, "failed to send email, provider returned non-success status",
			"to", in.To,
			"status_code", se.StatusCode,
			"provider_body", se.Body,
		)
	default:
		slog.ErrorContext(ctx, "failed to send email, unexpected provider error", "to", in.To, "error", se.Err)
	}
}

// fingerprint digests the caller-controlled part of the message so a reused
// idempotency key can be matched against its original payload.
func fingerprint(in SendEmailInput) string {
	h := sha256.New()
	for _, part := range []string{in.To, in.Subject, in.Body, strconv.FormatBool(in.IsHTML)} {
		h.Write([]byte(strconv.Itoa(len(part))))
		h.Write([]byte{':'})
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}
