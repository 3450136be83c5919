// Package health runs named readiness checks concurrently and aggregates the
// outcome into a single report.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	defaultTimeout = 5 * time.Second

	// StatusHealthy indicates all checks passed.
	StatusHealthy = "healthy"
	// StatusUnhealthy indicates one or more checks failed.
	StatusUnhealthy = "unhealthy"
)

// CheckFunc reports a dependency as unhealthy by returning an error.
type CheckFunc func(ctx context.Context) error

// Checks is a map of named health check functions.
type Checks map[string]CheckFunc

// Response is the aggregated health report.
type Response struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

// StatusCode maps the report to 200 or 503.
func (r *Response) StatusCode() int {
	if r.Status == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

// Check is the status of a single named check.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Checker runs a fixed set of checks.
type Checker struct {
	checks  Checks
	timeout time.Duration
}

// Option configures a Checker.
type Option func(*Checker)

// WithTimeout bounds the whole run. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New builds a Checker over checks.
func New(checks Checks, opts ...Option) *Checker {
	c := &Checker{checks: checks, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes all checks in parallel and returns the aggregated result.
func (c *Checker) Run(ctx context.Context) *Response {
	if len(c.checks) == 0 {
		return &Response{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		results  = make(map[string]Check, len(c.checks))
		hasError bool
	)

	for name, check := range c.checks {
		wg.Add(1)
		go func(name string, check CheckFunc) {
			defer wg.Done()

			result := Check{Status: StatusHealthy}
			if err := check(ctx); err != nil {
				result.Status = StatusUnhealthy
				result.Error = err.Error()
				slog.WarnContext(ctx, "health check failed", "check", name, "error", err)
			}

			mu.Lock()
			results[name] = result
			hasError = hasError || result.Status == StatusUnhealthy
			mu.Unlock()
		}(name, check)
	}

	wg.Wait()

	status := StatusHealthy
	if hasError {
		status = StatusUnhealthy
	}

	return &Response{Status: status, Checks: results}
}
