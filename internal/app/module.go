package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/mailrelay/internal/relay"
)

func (a *App) initModules() {
	if err := relay.New(relay.Dependency{
		ServiceConfig: a.serviceConfig,
		Instrument:    a.ins,
		Validator:     a.validator,
		Router:        a.router,
		Mail:          a.mail,
		Idempotency:   a.idemp,
	}); err != nil {
		slog.Error("failed to init module relay", "error", err)
		os.Exit(1)
	}
}
