package relay

import (
	"github.com/shandysiswandi/mailrelay/internal/pkg/idempotency"
	"github.com/shandysiswandi/mailrelay/internal/pkg/instrument"
	"github.com/shandysiswandi/mailrelay/internal/pkg/mail"
	"github.com/shandysiswandi/mailrelay/internal/pkg/router"
	"github.com/shandysiswandi/mailrelay/internal/pkg/validator"
	"github.com/shandysiswandi/mailrelay/internal/relay/entity"
	"github.com/shandysiswandi/mailrelay/internal/relay/inbound"
	"github.com/shandysiswandi/mailrelay/internal/relay/outbound/email"
	"github.com/shandysiswandi/mailrelay/internal/relay/usecase"
)

type Dependency struct {
	ServiceConfig entity.ServiceConfig
	Instrument    instrument.Instrumentation
	Validator     validator.Validator
	Router        *router.Router
	Mail          mail.Mail
	// Idempotency may be nil.
	Idempotency idempotency.Idempotency
}

func New(dep Dependency) error {
	repoMail := email.New(dep.Mail, dep.Validator, dep.Instrument)

	uc, err := usecase.NewRelay(usecase.Dependency{
		ServiceConfig: dep.ServiceConfig,
		Validator:     dep.Validator,
		RepoMail:      repoMail,
		Idempotency:   dep.Idempotency,
		Instrument:    dep.Instrument,
	})
	if err != nil {
		return err
	}

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
