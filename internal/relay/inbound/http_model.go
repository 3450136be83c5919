package inbound

// SendEmailRequest is the relay payload. Pointer fields tell an absent or
// null value apart from an empty string.
type SendEmailRequest struct {
	To      *string `json:"to"`
	Subject *string `json:"subject"`
	Body    *string `json:"body"`
	IsHTML  bool    `json:"isHtml"`
}

func (r *SendEmailRequest) complete() bool {
	return r.To != nil && r.Subject != nil && r.Body != nil
}

type SendEmailResponse struct{}

func (SendEmailResponse) Message() string {
	return "Email sent successfully."
}
