package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	FromEmail string  `validate:"required,email"`
	To        string  `validate:"required,email"`
	Subject   *string `validate:"required"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	empty := ""

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, v.Validate(sample{FromEmail: "noreply@example.com", To: "a@b.com", Subject: &empty}))
	})

	t.Run("invalid fields are reported in snake case", func(t *testing.T) {
		err := v.Validate(sample{To: "not-an-email"})

		var verr V10ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "FromEmail is a required field", verr.Values()["from_email"])
		assert.Equal(t, "To must be a valid email address", verr.Values()["to"])
		assert.Equal(t, "Subject is a required field", verr.Values()["subject"])
		assert.Contains(t, verr.Error(), "from_email")
	})

	t.Run("non struct input", func(t *testing.T) {
		err := v.Validate("just a string")

		var verr V10ValidationError
		assert.Error(t, err)
		assert.False(t, errors.As(err, &verr))
	})
}

func TestV10ValidationError_EmptyMessage(t *testing.T) {
	assert.Equal(t, "validation error", V10ValidationError{}.Error())
}
