package inbound

import (
	"github.com/shandysiswandi/mailrelay/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/SendGridEmail", end.SendEmail)
	r.POST("/api/SendGridEmail", end.SendEmail)

	r.POST("/api/v1/mail/send", end.SendEmail)
}
