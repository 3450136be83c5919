package inbound

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/mailrelay/internal/pkg/goerror"
	"github.com/shandysiswandi/mailrelay/internal/pkg/router"
	"github.com/shandysiswandi/mailrelay/internal/relay/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockUsecase struct {
	mock.Mock
}

func (m *mockUsecase) SendEmail(ctx context.Context, in usecase.SendEmailInput) error {
	return m.Called(ctx, in).Error(0)
}

func do(t *testing.T, r http.Handler, method, path, body string, headers map[string]string) (int, string) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	b, _ := io.ReadAll(rec.Result().Body)
	return rec.Code, string(b)
}

func TestHTTPEndpoint_SendEmail(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uc := &mockUsecase{}
		uc.On("SendEmail", mock.Anything, usecase.SendEmailInput{
			To: "a@b.com", Subject: "Hi", Body: "hello", IsHTML: true, IdempotencyKey: "k-1",
		}).Return(nil).Once()

		r := router.NewRouter(router.Config{})
		RegisterHTTPEndpoint(r, uc)

		code, body := do(t, r, http.MethodPost, "/api/SendGridEmail",
			`{"to":"a@b.com","subject":"Hi","body":"hello","isHtml":true}`,
			map[string]string{HeaderIdempotencyKey: "k-1"})

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Email sent successfully.", body)
		uc.AssertExpectations(t)
	})

	t.Run("get and alias routes", func(t *testing.T) {
		uc := &mockUsecase{}
		uc.On("SendEmail", mock.Anything, mock.Anything).Return(nil).Twice()

		r := router.NewRouter(router.Config{})
		RegisterHTTPEndpoint(r, uc)

		payload := `{"to":"a@b.com","subject":"","body":""}`
		code, _ := do(t, r, http.MethodGet, "/api/SendGridEmail", payload, nil)
		assert.Equal(t, http.StatusOK, code)

		code, _ = do(t, r, http.MethodPost, "/api/v1/mail/send", payload, nil)
		assert.Equal(t, http.StatusOK, code)
		uc.AssertExpectations(t)
	})

	t.Run("usecase failure", func(t *testing.T) {
		uc := &mockUsecase{}
		uc.On("SendEmail", mock.Anything, mock.Anything).
			Return(goerror.NewBadRequest(assert.AnError, "Failed to send email.")).Once()

		r := router.NewRouter(router.Config{})
		RegisterHTTPEndpoint(r, uc)

		code, body := do(t, r, http.MethodPost, "/api/SendGridEmail", `{"to":"a@b.com","subject":"Hi","body":"hello"}`, nil)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Failed to send email.", body)
	})
}

func TestHTTPEndpoint_SendEmail_InvalidPayload(t *testing.T) {
	payloads := map[string]string{
		"empty object":    `{}`,
		"empty body":      ``,
		"null":            `null`,
		"invalid json":    `{"to":"a@b.com",`,
		"missing to":      `{"subject":"Hi","body":"hello"}`,
		"missing subject": `{"to":"a@b.com","body":"hello"}`,
		"missing body":    `{"to":"a@b.com","subject":"Hi"}`,
		"null body":       `{"to":"a@b.com","subject":"Hi","body":null}`,
		"wrong type":      `{"to":42,"subject":"Hi","body":"hello"}`,
		"array":           `[]`,
		"oversized":       `{"to":"a@b.com","subject":"Hi","body":"` + strings.Repeat("x", 2<<20) + `"}`,
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			uc := &mockUsecase{}
			r := router.NewRouter(router.Config{})
			RegisterHTTPEndpoint(r, uc)

			code, body := do(t, r, http.MethodPost, "/api/SendGridEmail", payload, nil)

			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, "Invalid email request payload.", body)
			uc.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
		})
	}
}
