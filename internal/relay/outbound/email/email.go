package email

import (
	"context"
	"errors"

	"github.com/shandysiswandi/mailrelay/internal/pkg/instrument"
	"github.com/shandysiswandi/mailrelay/internal/pkg/mail"
	"github.com/shandysiswandi/mailrelay/internal/pkg/validator"
	"github.com/shandysiswandi/mailrelay/internal/relay/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Mail struct {
	client    mail.Mail
	validator validator.Validator
	ins       instrument.Instrumentation
}

func New(client mail.Mail, v validator.Validator, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, validator: v, ins: ins}
}

// Send performs exactly one provider call and returns nil only for a 200 or
// 202 answer. Every other outcome is an *entity.SendError.
func (m *Mail) Send(ctx context.Context, e entity.Email) error {
	ctx, span := m.ins.Tracer("relay.outbound.email").Start(ctx, "Send")
	defer span.End()

	fail := func(se *entity.SendError) error {
		span.RecordError(se)
		span.SetStatus(codes.Error, se.Kind.String())
		return se
	}

	if err := m.validator.Validate(e); err != nil {
		return fail(&entity.SendError{Kind: entity.KindInvalidParameters, Err: err})
	}

	resp, err := m.client.Send(ctx, mail.Message{
		From:     e.From,
		FromName: e.FromName,
		To:       e.To,
		Subject:  e.Subject,
		TextBody: e.TextBody,
		HTMLBody: e.HTMLBody,
	})
	if errors.Is(err, mail.ErrInvalidMessage) {
		return fail(&entity.SendError{Kind: entity.KindInvalidParameters, Err: err})
	}
	if err != nil {
		return fail(&entity.SendError{Kind: entity.KindProviderFailure, Err: err})
	}

	span.SetAttributes(attribute.Int("mail.status_code", resp.StatusCode))

	if !entity.IsSuccessStatus(resp.StatusCode) {
		return fail(&entity.SendError{
			Kind:       entity.KindProviderFailure,
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
		})
	}

	if resp.MessageID != "" {
		span.SetAttributes(attribute.String("mail.message_id", resp.MessageID))
	}

	return nil
}
