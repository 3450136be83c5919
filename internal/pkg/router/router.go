package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/mailrelay/internal/pkg/config"
	"github.com/shandysiswandi/mailrelay/internal/pkg/goerror"
	"github.com/shandysiswandi/mailrelay/internal/pkg/instrument"
	"github.com/shandysiswandi/mailrelay/internal/pkg/uid"
)

// Handler is the application-style handler used by this router.
//
// It returns a response payload or an error. Strings and values exposing
// Message() are written as text/plain, anything else is JSON encoded.
type Handler func(r *Request) (any, error)

// Middleware wraps an http.Handler.
type Middleware func(next http.Handler) http.Handler

// Chain applies mws around h so that mws[0] is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Config holds dependencies required to build a Router.
type Config struct {
	// Config provides runtime configuration values.
	Config config.Config
	// UUID generates request correlation IDs.
	UUID uid.StringID
	// Instrument provides tracing and metrics helpers.
	Instrument instrument.Instrumentation
	// AccessKeys are the accepted function keys. Empty disables the check.
	AccessKeys []string
	// PublicEndpoints maps method to route patterns that skip the access key check.
	PublicEndpoints map[string][]string
	// MaxBodyBytes caps the request body. Zero uses DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr         *httprouter.Router
	errorCodec func(ctx context.Context, w http.ResponseWriter, err error)
	encoder    func(ctx context.Context, w http.ResponseWriter, resp any)
	mws        []Middleware
}

// NewRouter builds the default application router with standard middleware.
func NewRouter(cfg Config) *Router {
	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeText(w, "Endpoint not found.", http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeText(w, "Method not allowed.", http.StatusMethodNotAllowed)
		}),
	}

	okCodec := func(_ context.Context, w http.ResponseWriter, resp any) {
		code := http.StatusOK
		if sc, ok := resp.(interface {
			StatusCode() int
		}); ok {
			code = sc.StatusCode()
		}

		if code == http.StatusNoContent || resp == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		switch v := resp.(type) {
		case string:
			writeText(w, v, code)
		case interface{ Message() string }:
			writeText(w, v.Message(), code)
		default:
			writeJSON(w, resp, code)
		}
	}

	publicEndpoints := make(map[string]map[string]struct{}, len(cfg.PublicEndpoints))
	for method, paths := range cfg.PublicEndpoints {
		set := make(map[string]struct{}, len(paths))
		for _, p := range paths {
			set[p] = struct{}{}
		}
		publicEndpoints[method] = set
	}

	ins := cfg.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	return &Router{
		hr:         hr,
		errorCodec: writeError,
		encoder:    okCodec,
		mws: []Middleware{
			middlewareRecoverer,
			middlewareIP,
			middlewareCorrelationID(cfg.UUID),
			middlewareBodyLimit(cfg.MaxBodyBytes),
			middlewareObservability(cfg.Config, ins),
			middlewareMaintenance(cfg.Config),
			middlewareAccessKey(cfg.AccessKeys, publicEndpoints),
		},
	}
}

// GET registers a GET endpoint using the application Handler signature.
func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

// POST registers a POST endpoint using the application Handler signature.
func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(http.HandlerFunc(func(w http.ResponseWriter, re *http.Request) {
		resp, err := h(&Request{Request: re})
		if err != nil {
			if setter, ok := w.(interface{ SetError(error) }); ok {
				setter.SetError(err)
			}
			r.errorCodec(re.Context(), w, err)
			return
		}
		r.encoder(re.Context(), w, resp)
	}), append(r.mws, mws...)...))
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

// writeError renders err as text/plain. Errors that are not *goerror.Error are
// logged and hidden behind a generic 500.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		slog.ErrorContext(ctx, "unhandled error", "error", err)
		errors.As(goerror.NewServer(err), &gerr)
	}

	msg := gerr.Msg()
	if msg == "" {
		msg = http.StatusText(gerr.StatusCode())
	}

	writeText(w, msg, gerr.StatusCode())
}

func writeText(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	if _, err := w.Write([]byte(msg)); err != nil {
		slog.Error("server: failed to write response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
