package inbound

import (
	"context"

	"github.com/shandysiswandi/mailrelay/internal/relay/usecase"
)

type uc interface {
	SendEmail(ctx context.Context, in usecase.SendEmailInput) error
}
