package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
app:
  env: development
  server:
    http:
      address: 127.0.0.1:0
      read_timeout_seconds: 5
      write_timeout_seconds: 5
  auth:
    function_keys: fn-key
instrument:
  enabled: false
  service_name: mailrelay
  log_mask_fields: authorization,x-functions-key,code
values:
  sendgridapikey: SG.test
  sendgridfromemail: noreply@example.com
mail:
  provider: sendgrid
  sendgrid:
    host: %s
`

func startTestApp(t *testing.T, sendgridHost string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(testConfigYAML, sendgridHost)), 0o600))
	t.Setenv("CONFIG_PATH", path)

	application := New()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	application.Serve(l)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		application.Stop(ctx)
	})

	return "http://" + l.Addr().String()
}

func send(t *testing.T, method, url, payload string, headers map[string]string) (int, string) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(payload))
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(b)
}

func TestApp_SendEmail(t *testing.T) {
	var calls atomic.Int32
	status := atomic.Int32{}
	status.Store(http.StatusAccepted)

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer SG.test", r.Header.Get("Authorization"))
		w.WriteHeader(int(status.Load()))
	}))
	t.Cleanup(provider.Close)

	base := startTestApp(t, provider.URL)
	auth := map[string]string{"x-functions-key": "fn-key"}

	t.Run("health is public", func(t *testing.T) {
		code, body := send(t, http.MethodGet, base+"/health", "", nil)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "OK", body)

		code, body = send(t, http.MethodGet, base+"/health/ready", "", nil)
		assert.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, `{"status":"healthy"}`, body)
	})

	t.Run("unauthorized", func(t *testing.T) {
		code, body := send(t, http.MethodPost, base+"/api/SendGridEmail", `{"to":"a@b.com","subject":"Hi","body":"hello"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "Unauthorized.", body)
	})

	t.Run("accepted", func(t *testing.T) {
		before := calls.Load()

		code, body := send(t, http.MethodPost, base+"/api/SendGridEmail", `{"to":"a@b.com","subject":"Hi","body":"hello","isHtml":false}`, auth)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Email sent successfully.", body)
		assert.Equal(t, before+1, calls.Load())
	})

	t.Run("invalid payload", func(t *testing.T) {
		before := calls.Load()

		code, body := send(t, http.MethodPost, base+"/api/SendGridEmail", `{}`, auth)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Invalid email request payload.", body)
		assert.Equal(t, before, calls.Load())
	})

	t.Run("provider rejects", func(t *testing.T) {
		status.Store(http.StatusForbidden)
		t.Cleanup(func() { status.Store(http.StatusAccepted) })

		code, body := send(t, http.MethodGet, base+"/api/SendGridEmail?code=fn-key", `{"to":"a@b.com","subject":"Hi","body":"hello"}`, nil)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Failed to send email.", body)
	})
}
