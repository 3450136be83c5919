package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_StatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid format", err: NewInvalidFormat("Invalid email request payload."), want: http.StatusBadRequest},
		{name: "bad request", err: NewBadRequest(errors.New("boom"), "Failed to send email."), want: http.StatusBadRequest},
		{name: "unauthorized", err: NewUnauthorized("Unauthorized."), want: http.StatusUnauthorized},
		{name: "server", err: NewServer(errors.New("db down")), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gerr *Error
			require.ErrorAs(t, tt.err, &gerr)
			assert.Equal(t, tt.want, gerr.StatusCode())
		})
	}
}

func TestNewBadRequest_KeepsCauseHidesDetail(t *testing.T) {
	t.Parallel()

	cause := errors.New("sendgrid: 401 unauthorized")
	err := NewBadRequest(cause, "Failed to send email.")

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "Failed to send email.", gerr.Msg())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause.Error(), err.Error())
	assert.Equal(t, TypeBusiness, gerr.Type())
	assert.Equal(t, CodeBadRequest, gerr.Code())
}

func TestNewInvalidFormat_DefaultMessage(t *testing.T) {
	t.Parallel()

	var gerr *Error
	require.ErrorAs(t, NewInvalidFormat(), &gerr)
	assert.Equal(t, "Invalid request body", gerr.Msg())
	assert.Nil(t, gerr.Unwrap())
}

func TestError_String(t *testing.T) {
	t.Parallel()

	var gerr *Error
	require.ErrorAs(t, NewServer(errors.New("db down")), &gerr)
	assert.Equal(t, "Internal server error.", gerr.Msg())
	assert.Equal(t, "Error Type: ERROR_TYPE_SERVER, Code: ERROR_CODE_INTERNAL, Message: Internal server error., Underlying Error: db down", gerr.String())

	require.ErrorAs(t, NewUnauthorized("Unauthorized."), &gerr)
	assert.Equal(t, "Unauthorized.", gerr.Error())
}
