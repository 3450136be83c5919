package email

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shandysiswandi/mailrelay/internal/pkg/instrument"
	"github.com/shandysiswandi/mailrelay/internal/pkg/mail"
	"github.com/shandysiswandi/mailrelay/internal/pkg/validator"
	"github.com/shandysiswandi/mailrelay/internal/relay/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMail struct {
	mock.Mock
}

func (m *mockMail) Send(ctx context.Context, msg mail.Message) (*mail.Response, error) {
	args := m.Called(ctx, msg)
	resp, _ := args.Get(0).(*mail.Response)
	return resp, args.Error(1)
}

func (m *mockMail) Close() error {
	return nil
}

func newTestMail(t *testing.T, client mail.Mail) *Mail {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	return New(client, v, instrument.NewNoop())
}

func validEmail() entity.Email {
	return entity.Email{
		From:     "noreply@example.com",
		FromName: "App Support",
		To:       "a@b.com",
		Subject:  "Hi",
		TextBody: "hello",
	}
}

func TestMail_Send(t *testing.T) {
	wantMsg := mail.Message{
		From:     "noreply@example.com",
		FromName: "App Support",
		To:       "a@b.com",
		Subject:  "Hi",
		TextBody: "hello",
	}

	tests := []struct {
		name       string
		resp       *mail.Response
		sendErr    error
		wantKind   entity.SendErrorKind
		wantStatus int
		wantOK     bool
	}{
		{name: "accepted", resp: &mail.Response{StatusCode: http.StatusAccepted, MessageID: "m-1"}, wantOK: true},
		{name: "ok", resp: &mail.Response{StatusCode: http.StatusOK}, wantOK: true},
		{name: "created is not success", resp: &mail.Response{StatusCode: http.StatusCreated}, wantKind: entity.KindProviderFailure, wantStatus: http.StatusCreated},
		{name: "provider rejects", resp: &mail.Response{StatusCode: http.StatusUnauthorized, Body: `{"errors":[]}`}, wantKind: entity.KindProviderFailure, wantStatus: http.StatusUnauthorized},
		{name: "transport error", sendErr: errors.New("connection reset"), wantKind: entity.KindProviderFailure},
		{name: "invalid message", sendErr: mail.ErrInvalidAddress, wantKind: entity.KindInvalidParameters},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockMail{}
			client.On("Send", mock.Anything, wantMsg).Return(tt.resp, tt.sendErr).Once()

			err := newTestMail(t, client).Send(context.Background(), validEmail())
			client.AssertExpectations(t)

			if tt.wantOK {
				assert.NoError(t, err)
				return
			}

			var se *entity.SendError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.wantKind, se.Kind)
			assert.Equal(t, tt.wantStatus, se.StatusCode)
			if tt.sendErr != nil {
				assert.ErrorIs(t, err, tt.sendErr)
			}
			if tt.resp != nil {
				assert.Equal(t, tt.resp.Body, se.Body)
			}
		})
	}
}

func TestMail_Send_InvalidRecipientSkipsProvider(t *testing.T) {
	client := &mockMail{}

	e := validEmail()
	e.To = "not-an-email"

	err := newTestMail(t, client).Send(context.Background(), e)

	var se *entity.SendError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, entity.KindInvalidParameters, se.Kind)
	client.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}
