package app

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/mailrelay/internal/pkg/config"
	"github.com/shandysiswandi/mailrelay/internal/pkg/health"
	"github.com/shandysiswandi/mailrelay/internal/pkg/idempotency"
	"github.com/shandysiswandi/mailrelay/internal/pkg/instrument"
	"github.com/shandysiswandi/mailrelay/internal/pkg/mail"
	"github.com/shandysiswandi/mailrelay/internal/pkg/router"
	"github.com/shandysiswandi/mailrelay/internal/pkg/uid"
	"github.com/shandysiswandi/mailrelay/internal/pkg/validator"
	"github.com/shandysiswandi/mailrelay/internal/relay/entity"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config        config.Config
	serviceConfig entity.ServiceConfig
	ins           instrument.Instrumentation

	// libraries
	validator validator.Validator
	uuid      uid.StringID

	// resources
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	health    *health.Checker

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initServiceConfig()
	app.initLibraries()
	app.initCache()
	app.initMail()
	app.initHealth()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
