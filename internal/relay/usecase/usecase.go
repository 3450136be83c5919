package usecase

import (
	"context"
	"errors"

	"github.com/shandysiswandi/mailrelay/internal/pkg/idempotency"
	"github.com/shandysiswandi/mailrelay/internal/pkg/instrument"
	"github.com/shandysiswandi/mailrelay/internal/pkg/validator"
	"github.com/shandysiswandi/mailrelay/internal/relay/entity"
	"go.opentelemetry.io/otel/trace"
)

type repoMail interface {
	Send(ctx context.Context, e entity.Email) error
}

type Usecase struct {
	cfg      entity.ServiceConfig
	repoMail repoMail
	idemp    idempotency.Idempotency
	ins      instrument.Instrumentation
}

type Dependency struct {
	ServiceConfig entity.ServiceConfig
	Validator     validator.Validator
	RepoMail      repoMail
	// Idempotency is optional; nil disables Idempotency-Key handling.
	Idempotency idempotency.Idempotency
	Instrument  instrument.Instrumentation
}

// NewRelay validates the service configuration and returns the relay use case.
// A missing API key or sender address is an error so the process can refuse
// to start.
func NewRelay(dep Dependency) (*Usecase, error) {
	cfg := dep.ServiceConfig.Normalize()
	if err := cfg.CheckRequired(); err != nil {
		return nil, err
	}
	if dep.Validator != nil {
		if err := dep.Validator.Validate(cfg); err != nil {
			return nil, errors.Join(errInvalidFromEmail, err)
		}
	}
	if dep.RepoMail == nil {
		return nil, errRepoMailRequired
	}

	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	return &Usecase{
		cfg:      cfg,
		repoMail: dep.RepoMail,
		idemp:    dep.Idempotency,
		ins:      ins,
	}, nil
}

var (
	errInvalidFromEmail = errors.New("From Email is not a valid email address.")
	errRepoMailRequired = errors.New("mail sender is required")
)

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("relay.usecase").Start(ctx, name)
}
