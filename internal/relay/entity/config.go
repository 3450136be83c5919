package entity

import (
	"errors"
	"strings"
)

// DefaultFromName is the sender display name used when none is configured.
const DefaultFromName = "App Support"

var (
	ErrAPIKeyMissing    = errors.New("SendGrid API Key is missing.")
	ErrFromEmailMissing = errors.New("From Email is missing.")
)

// ServiceConfig is the sender identity and provider credential. It is built
// once at startup and never mutated.
type ServiceConfig struct {
	APIKey    string
	FromEmail string `validate:"email"`
	FromName  string
}

// Normalize trims values and applies the default sender name.
func (c ServiceConfig) Normalize() ServiceConfig {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.FromEmail = strings.TrimSpace(c.FromEmail)
	c.FromName = strings.TrimSpace(c.FromName)
	if c.FromName == "" {
		c.FromName = DefaultFromName
	}
	return c
}

// CheckRequired reports the first missing required value.
func (c ServiceConfig) CheckRequired() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrAPIKeyMissing
	}
	if strings.TrimSpace(c.FromEmail) == "" {
		return ErrFromEmailMissing
	}
	return nil
}
