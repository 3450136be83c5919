package entity

// Email is a single outgoing message as handed to the provider wrapper.
type Email struct {
	From     string `validate:"required,email"`
	FromName string
	To       string `validate:"required,email"`
	Subject  string
	TextBody string
	HTMLBody string
}
