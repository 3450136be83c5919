package entity

import (
	"fmt"
	"net/http"
)

// SendErrorKind tags why a provider call did not succeed.
type SendErrorKind int

const (
	// KindProviderFailure covers transport errors, timeouts and unexpected status codes.
	KindProviderFailure SendErrorKind = iota
	// KindInvalidParameters means the message was rejected as structurally invalid.
	KindInvalidParameters
)

func (k SendErrorKind) String() string {
	switch k {
	case KindInvalidParameters:
		return "invalid_parameters"
	default:
		return "provider_failure"
	}
}

// SendError is the result of a failed send.
type SendError struct {
	Kind       SendErrorKind
	StatusCode int
	Body       string
	Err        error
}

func (e *SendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: status %d", e.Kind, e.StatusCode)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// IsSuccessStatus reports whether code is one of the accepted provider answers.
func IsSuccessStatus(code int) bool {
	return code == http.StatusOK || code == http.StatusAccepted
}
