package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestHandler_MasksSensitiveFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, "mailrelay", nil, []string{"Authorization", "x-functions-key", "body"}))

	headers := http.Header{}
	headers.Set("Authorization", "Bearer secret")
	headers.Set("X-Functions-Key", "fn-key")
	headers.Set("Content-Type", "application/json")

	logger.InfoContext(context.Background(), "request received",
		"headers", map[string][]string(headers),
		"payload", `{"to":"a@b.com","body":"hello"}`,
	)

	line := decodeLine(t, buf)
	assert.Equal(t, "INFO", line["severity"])
	assert.Equal(t, "mailrelay", line["service"])
	assert.Contains(t, line, "ts")

	gotHeaders, ok := line["headers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"***"}, gotHeaders["Authorization"])
	assert.Equal(t, []any{"***"}, gotHeaders["X-Functions-Key"])
	assert.Equal(t, []any{"application/json"}, gotHeaders["Content-Type"])

	assert.JSONEq(t, `{"to":"a@b.com","body":"***"}`, line["payload"].(string))
}

func TestHandler_AddsCorrelationID(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, "mailrelay", nil, nil))

	ctx := SetCorrelationID(context.Background(), "cid-123")
	logger.ErrorContext(ctx, "failed to send email", "error", "boom")

	line := decodeLine(t, buf)
	assert.Equal(t, "cid-123", line["_cID"])
	assert.Equal(t, "ERROR", line["severity"])
	assert.Equal(t, "boom", line["error"])
}

func TestHandler_WithAttrsMasked(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, "", nil, []string{"api_key"})).With("api_key", "SG.secret")

	logger.Info("provider ready")

	line := decodeLine(t, buf)
	assert.Equal(t, "***", line["api_key"])
	assert.NotContains(t, line, "service")
}

func TestCorrelationID_Absent(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
}

func TestMaskData_Nested(t *testing.T) {
	in := map[string]any{
		"to": "a@b.com",
		"items": []any{
			map[string]any{"Code": "secret", "keep": 1.0},
		},
	}

	out := MaskData(in, MaskKeys([]string{" code "}))
	assert.Equal(t, map[string]any{
		"to": "a@b.com",
		"items": []any{
			map[string]any{"Code": "***", "keep": 1.0},
		},
	}, out)
}

func TestNewNoop(t *testing.T) {
	ins := NewNoop()

	_, span := ins.Tracer("test").Start(context.Background(), "op")
	span.End()

	counter, err := ins.Meter("test").Int64Counter("c")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	assert.NoError(t, ins.Shutdown(context.Background()))
}
