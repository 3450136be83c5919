package entity

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSuccessStatus(t *testing.T) {
	assert.True(t, IsSuccessStatus(http.StatusOK))
	assert.True(t, IsSuccessStatus(http.StatusAccepted))
	assert.False(t, IsSuccessStatus(http.StatusCreated))
	assert.False(t, IsSuccessStatus(http.StatusNoContent))
	assert.False(t, IsSuccessStatus(http.StatusBadRequest))
	assert.False(t, IsSuccessStatus(http.StatusInternalServerError))
}

func TestSendError(t *testing.T) {
	cause := errors.New("dial tcp: timeout")

	err := &SendError{Kind: KindProviderFailure, Err: cause}
	assert.Equal(t, "provider_failure: dial tcp: timeout", err.Error())
	assert.ErrorIs(t, err, cause)

	err = &SendError{Kind: KindProviderFailure, StatusCode: http.StatusTooManyRequests}
	assert.Equal(t, "provider_failure: status 429", err.Error())

	assert.Equal(t, "invalid_parameters", KindInvalidParameters.String())
}

func TestServiceConfig(t *testing.T) {
	assert.ErrorIs(t, ServiceConfig{FromEmail: "noreply@example.com"}.CheckRequired(), ErrAPIKeyMissing)
	assert.ErrorIs(t, ServiceConfig{APIKey: "SG.key", FromEmail: "  "}.CheckRequired(), ErrFromEmailMissing)
	assert.NoError(t, ServiceConfig{APIKey: "SG.key", FromEmail: "noreply@example.com"}.CheckRequired())

	cfg := ServiceConfig{APIKey: " SG.key ", FromEmail: " noreply@example.com "}.Normalize()
	assert.Equal(t, ServiceConfig{APIKey: "SG.key", FromEmail: "noreply@example.com", FromName: DefaultFromName}, cfg)

	cfg = ServiceConfig{FromName: "Billing"}.Normalize()
	assert.Equal(t, "Billing", cfg.FromName)
}
