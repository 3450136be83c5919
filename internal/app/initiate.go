package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/samber/lo"
	"github.com/sethvargo/go-retry"
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

const envDevelopment = "development"

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	if !strings.EqualFold(cfg.GetString("app.env"), envDevelopment) {
		bindings := map[string]string{
			"values.sendgridapikey":    "SENDGRID_API_KEY",
			"values.sendgridfromemail": "SENDGRID_FROMEMAIL",
			"app.auth.function_keys":   "FUNCTION_KEYS",
			"redis.url":                "REDIS_URL",
		}
		for key, env := range bindings {
			if err := cfg.BindEnv(key, env); err != nil {
				slog.Error("failed to bind config env", "key", key, "env", env, "error", err)
				os.Exit(1)
			}
		}
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", tz)
	}

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initServiceConfig() {
	sc := entity.ServiceConfig{
		APIKey:    a.config.GetString("values.sendgridapikey"),
		FromEmail: a.config.GetString("values.sendgridfromemail"),
		FromName:  a.config.GetString("mail.from_name"),
	}.Normalize()

	if err := sc.CheckRequired(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	a.serviceConfig = sc
}

func (a *App) initLibraries() {
	a.uuid = uid.NewUUID()

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator
}

func (a *App) initCache() {
	url := strings.TrimSpace(a.config.GetString("redis.url"))
	if url == "" {
		slog.Info("redis url is empty, idempotency keys are disabled")
		return
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	b := retry.NewExponential(200 * time.Millisecond)
	b = retry.WithCappedDuration(2*time.Second, b)
	b = retry.WithMaxRetries(uint64(max(a.config.GetInt("redis.connect_retries"), 0)), b)

	if err := retry.Do(a.ctx, b, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := rdb.Ping(pingCtx).Err(); err != nil {
			slog.Warn("redis ping failed, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(rdb)
}

func (a *App) initMail() {
	apiKey := a.serviceConfig.APIKey

	m, err := mail.NewFromProvider(a.config.GetString("mail.provider"), mail.FactoryOptions{
		SendGrid: mail.SendGridConfig{
			APIKey:  apiKey,
			Host:    a.config.GetString("mail.sendgrid.host"),
			Sandbox: a.config.GetBool("mail.sendgrid.sandbox"),
		},
		Resend: mail.ResendConfig{
			APIKey:  lo.CoalesceOrEmpty(a.config.GetString("mail.resend.api_key"), apiKey),
			BaseURL: a.config.GetString("mail.resend.base_url"),
		},
		SMTP: mail.SMTPConfig{
			Host:     a.config.GetString("mail.smtp.host"),
			Port:     a.config.GetInt("mail.smtp.port"),
			Username: a.config.GetString("mail.smtp.username"),
			Password: apiKey,
		},
	})
	if err != nil {
		slog.Error("failed to init mail", "error", err)
		os.Exit(1)
	}

	a.mail = m
}

func (a *App) initHealth() {
	checks := health.Checks{}
	if a.cacheConn != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.cacheConn.Ping(ctx).Err()
		}
	}

	a.health = health.New(checks, health.WithTimeout(a.config.GetSecond("app.health.timeout_seconds")))
}

func (a *App) initHTTPServer() {
	keys := a.config.GetArray("app.auth.function_keys")
	if len(keys) == 0 {
		slog.Warn("no function keys configured, access key check is disabled")
	}

	a.router = router.NewRouter(router.Config{
		Config:       a.config,
		UUID:         a.uuid,
		Instrument:   a.ins,
		AccessKeys:   keys,
		MaxBodyBytes: int64(a.config.GetInt("app.server.http.max_body_bytes")),
		PublicEndpoints: map[string][]string{
			http.MethodGet: {"/health", "/health/ready"},
		},
	})

	a.router.GET("/health", func(*router.Request) (any, error) {
		return "OK", nil
	})
	a.router.GET("/health/ready", func(r *router.Request) (any, error) {
		return a.health.Run(r.Context()), nil
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				return a.mail.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}
				return a.cacheConn.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
